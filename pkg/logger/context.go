package logger

import (
	"context"
	"log/slog"
)

type batchKey struct{}

// WithBatch returns a context whose log records carry batch_id.
func WithBatch(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchKey{}, id)
}

// BatchFromContext returns the batch ID stored by WithBatch.
func BatchFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(batchKey{}).(string)
	return id, ok && id != ""
}

// BatchExtractor adds batch_id to records logged with a batch context.
func BatchExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := BatchFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("batch_id", id), true
}
