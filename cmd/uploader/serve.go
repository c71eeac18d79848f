package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uploader"
	"github.com/dmitrymomot/uploader/internal/httpapi"
	"github.com/dmitrymomot/uploader/internal/metrics"
	"github.com/dmitrymomot/uploader/internal/relay"
	"github.com/dmitrymomot/uploader/internal/tracker"
	"github.com/dmitrymomot/uploader/pkg/logger"
	"github.com/dmitrymomot/uploader/pkg/storage"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(sigCtx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg Config) error {
	log := logger.New(cfg.Log, httpapi.RequestIDExtractor)

	store, err := openStorage(cfg.Storage)
	if err != nil {
		return err
	}
	up, err := uploaderFor(cfg, store, uploader.WithLogger(log))
	if err != nil {
		return err
	}

	tr := tracker.New(cfg.Tracker)
	tr.Attach(up)

	m, err := metrics.New(metrics.DefaultNamespace, nil)
	if err != nil {
		return err
	}
	m.Attach(up)

	handlerOpts := []httpapi.Option{
		httpapi.WithTracker(tr),
		httpapi.WithMetrics(m.Handler()),
		httpapi.WithMaxMemory(cfg.HTTP.MaxMemory),
		httpapi.WithCORS(cfg.HTTP.CORSOrigins...),
		httpapi.WithLogger(log),
	}
	if mem, ok := store.(*storage.Memory); ok {
		handlerOpts = append(handlerOpts, httpapi.WithFiles(cfg.Storage.filesPath(), mem))
		log.Warn("memory storage in use, uploads are lost on restart",
			slog.Int("max_objects", cfg.Storage.MemoryMaxObjects),
			slog.Duration("ttl", cfg.Storage.MemoryTTL),
		)
	}

	hooks := []func(context.Context) error{
		func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		},
	}

	if cfg.Redis.URL != "" {
		client, err := relay.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		rl := relay.New(client,
			relay.WithPrefix(cfg.Redis.Prefix),
			relay.WithTimeout(cfg.Redis.Timeout),
			relay.WithBuffer(cfg.Redis.Buffer),
			relay.WithLogger(log),
		)
		rl.Attach(up)

		handlerOpts = append(handlerOpts, httpapi.WithHealthCheck("redis", relay.Healthcheck(client)))
		hooks = append([]func(context.Context) error{
			rl.Close,
			func(context.Context) error { return client.Close() },
		}, hooks...)
		log.Info("event relay enabled", slog.String("prefix", cfg.Redis.Prefix))
	}

	routes := httpapi.New(up, handlerOpts...).Routes()
	return httpapi.Serve(ctx, cfg.HTTP, routes, log, nil, hooks...)
}
