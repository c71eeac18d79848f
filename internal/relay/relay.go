// Package relay republishes upload batch events to Redis pub/sub so that
// other processes (websocket gateways, workers) can follow a batch.
//
// Each snapshot is published as JSON on the channel <prefix><batch id>.
// Publishing is best effort and happens on a background goroutine: event
// handlers only queue the snapshot, a full queue drops it with a warning,
// and failures are logged and never reach the uploader.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/uploader"
	"github.com/dmitrymomot/uploader/pkg/logger"
)

var (
	ErrEmptyURL          = errors.New("relay: empty redis url")
	ErrInvalidURL        = errors.New("relay: invalid redis url")
	ErrConnectionFailed  = errors.New("relay: failed to connect to redis")
	ErrHealthcheckFailed = errors.New("relay: healthcheck failed")
)

const (
	// DefaultPrefix is the channel prefix used when none is configured.
	DefaultPrefix = "uploads:"

	// DefaultBuffer is how many snapshots may wait for publishing.
	DefaultBuffer = 256
)

// Config configures the relay from the environment.
type Config struct {
	// URL enables the relay when set, e.g. redis://localhost:6379/0.
	URL string `env:"REDIS_URL" yaml:"url"`

	// Prefix is prepended to the batch id to form the channel name.
	Prefix string `env:"RELAY_PREFIX" yaml:"prefix"`

	// Timeout bounds a single publish. Defaults to 2s.
	Timeout time.Duration `env:"RELAY_TIMEOUT" yaml:"timeout"`

	// Buffer is how many snapshots may wait for publishing. Defaults to
	// DefaultBuffer.
	Buffer int `env:"RELAY_BUFFER" yaml:"buffer"`
}

// Publisher is the subset of the Redis client the relay needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Relay publishes snapshots to Redis.
type Relay struct {
	pub     Publisher
	logger  *slog.Logger
	prefix  string
	timeout time.Duration
	buffer  int

	queue    chan uploader.Snapshot
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Relay.
type Option func(*Relay)

// WithPrefix sets the channel prefix.
func WithPrefix(p string) Option {
	return func(r *Relay) {
		if p != "" {
			r.prefix = p
		}
	}
}

// WithTimeout bounds a single publish.
func WithTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithBuffer sets how many snapshots may wait for publishing before new
// ones are dropped.
func WithBuffer(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.buffer = n
		}
	}
}

// WithLogger sets the logger used to report publish failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Relay publishing through pub and starts its publishing
// goroutine. Call Close to stop it.
func New(pub Publisher, opts ...Option) *Relay {
	r := &Relay{
		pub:     pub,
		logger:  logger.NewNope(),
		prefix:  DefaultPrefix,
		timeout: 2 * time.Second,
		buffer:  DefaultBuffer,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan uploader.Snapshot, r.buffer)

	go r.run()
	return r
}

// Close stops accepting snapshots, publishes what is already queued and
// waits for that to finish or for ctx to end. It is safe to call more than
// once.
func (r *Relay) Close(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stop) })
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Relay) run() {
	defer close(r.done)
	for {
		select {
		case s := <-r.queue:
			r.Publish(s)
		case <-r.stop:
			for {
				select {
				case s := <-r.queue:
					r.Publish(s)
				default:
					return
				}
			}
		}
	}
}

// enqueue never blocks the emitting goroutine.
func (r *Relay) enqueue(s uploader.Snapshot) {
	select {
	case <-r.stop:
		return
	default:
	}

	select {
	case r.queue <- s:
	default:
		r.logger.WarnContext(logger.WithBatch(context.Background(), s.Batch), "relay queue full, dropping snapshot",
			slog.String("event", string(s.Event)),
			slog.Int("buffer", r.buffer),
		)
	}
}

// Channel returns the channel snapshots of batch are published on.
func (r *Relay) Channel(batch string) string {
	return r.prefix + batch
}

// Attach subscribes the relay to every event of u and returns a function
// that detaches it. Handlers only queue snapshots, so a slow Redis never
// holds up the uploader.
func (r *Relay) Attach(u *uploader.Uploader) (detach func()) {
	subs := []uploader.Subscription{
		u.On(uploader.EventStart, r.enqueue),
		u.On(uploader.EventProgress, r.enqueue),
		u.On(uploader.EventEnd, r.enqueue),
	}
	return func() {
		for _, s := range subs {
			u.Off(s)
		}
	}
}

// Publish sends s to its batch channel and waits for the result.
func (r *Relay) Publish(s uploader.Snapshot) {
	ctx, cancel := context.WithTimeout(logger.WithBatch(context.Background(), s.Batch), r.timeout)
	defer cancel()

	payload, err := json.Marshal(s)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to encode snapshot", slog.String("error", err.Error()))
		return
	}

	if err := r.pub.Publish(ctx, r.Channel(s.Batch), payload).Err(); err != nil {
		r.logger.WarnContext(ctx, "failed to publish snapshot",
			slog.String("event", string(s.Event)),
			slog.String("error", err.Error()),
		)
	}
}
