// Package health serves a readiness endpoint backed by named probes such as
// relay.Healthcheck.
//
//	r.Get("/health/ready", health.Handler(health.Checks{
//	    "redis": relay.Healthcheck(client),
//	}))
//
// All probes run at once under a shared timeout. The endpoint answers 200
// when every probe passes and 503 otherwise, with a JSON body listing each
// probe's outcome.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/uploader/pkg/logger"
	"github.com/dmitrymomot/uploader/pkg/settle"
)

const (
	defaultTimeout = 5 * time.Second

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// Checks maps probe names to probes.
type Checks map[string]CheckFunc

// Report is the aggregated outcome of a run.
type Report struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Healthy reports whether every probe passed.
func (r Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Check is the outcome of one probe.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures Run and Handler.
type Option func(*config)

// WithTimeout bounds the whole run.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger failed probes are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Run executes every probe concurrently and waits for all of them.
func Run(ctx context.Context, checks Checks, opts ...Option) Report {
	cfg := &config{timeout: defaultTimeout, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(checks) == 0 {
		return Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	slices.Sort(names)

	results := settle.All(ctx, len(names), func(ctx context.Context, i int) (struct{}, error) {
		return struct{}{}, checks[names[i]](ctx)
	})

	report := Report{Status: StatusHealthy, Checks: make(map[string]Check, len(names))}
	for i, res := range results {
		if res.OK() {
			report.Checks[names[i]] = Check{Status: StatusHealthy}
			continue
		}
		report.Status = StatusUnhealthy
		report.Checks[names[i]] = Check{Status: StatusUnhealthy, Error: res.Err.Error()}
		cfg.logger.WarnContext(ctx, "health check failed",
			slog.String("check", names[i]),
			slog.String("error", res.Err.Error()),
		)
	}

	return report
}

// Handler serves the report of checks as JSON.
func Handler(checks Checks, opts ...Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := Run(r.Context(), checks, opts...)

		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}
