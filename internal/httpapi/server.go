package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/uploader/pkg/logger"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `env:"HTTP_ADDR" yaml:"addr"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" yaml:"read_timeout"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" yaml:"write_timeout"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
	MaxMemory       int64         `env:"HTTP_MAX_MEMORY" yaml:"max_memory"`
	CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS" envSeparator:"," yaml:"cors_origins"`
}

// DefaultServerConfig returns the defaults used for zero fields.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     time.Minute,
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		MaxMemory:       defaultMaxMemory,
	}
}

func (c *ServerConfig) applyDefaults() {
	d := DefaultServerConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
}

// Serve listens on cfg.Addr and serves handler until ctx is done, then shuts
// down gracefully and runs hooks in order (close Redis, flush Sentry).
// ready, when not nil, receives the bound address once listening.
func Serve(ctx context.Context, cfg ServerConfig, handler http.Handler, log *slog.Logger, ready func(net.Addr), hooks ...func(context.Context) error) error {
	cfg.applyDefaults()
	if log == nil {
		log = logger.NewNope()
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range hooks {
		if err := hook(shutdownCtx); err != nil {
			log.Error("shutdown hook failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Info("shutdown completed")
	return nil
}
