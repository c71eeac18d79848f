package uploader

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/uploader/pkg/storage"
)

// Backend uploads one file and returns the URL it is reachable at.
// It is called concurrently for the files of a batch.
type Backend func(ctx context.Context, f File) (string, error)

// NewStorageBackend returns a Backend that stores files in s.
// The declared content type of each file is passed to Put; opts apply to
// every file. Public objects get a public URL, private ones a signed URL.
func NewStorageBackend(s storage.Storage, opts ...storage.Option) Backend {
	return func(ctx context.Context, f File) (string, error) {
		r, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("uploader: open %s: %w", f.Name(), err)
		}
		defer func() { _ = r.Close() }()

		putOpts := make([]storage.Option, 0, len(opts)+1)
		if ct := f.ContentType(); ct != "" {
			putOpts = append(putOpts, storage.WithContentType(ct))
		}
		putOpts = append(putOpts, opts...)

		info, err := s.Put(ctx, r, f.Size(), putOpts...)
		if err != nil {
			return "", err
		}

		var urlOpts []storage.URLOption
		if info.ACL == storage.ACLPublicRead {
			urlOpts = append(urlOpts, storage.WithPublic())
		}
		return s.URL(ctx, info.Key, urlOpts...)
	}
}
