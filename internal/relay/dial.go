package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DialOption configures Dial.
type DialOption func(*dialOptions)

type dialOptions struct {
	poolSize      int
	retryAttempts int
	retryInterval time.Duration
	dialTimeout   time.Duration
	writeTimeout  time.Duration
}

func defaultDialOptions() *dialOptions {
	return &dialOptions{
		poolSize:      10,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		dialTimeout:   5 * time.Second,
		writeTimeout:  3 * time.Second,
	}
}

// WithPoolSize sets the maximum number of pooled connections.
// Default: 10
func WithPoolSize(n int) DialOption {
	return func(o *dialOptions) {
		o.poolSize = n
	}
}

// WithRetry configures connection attempts. The wait between attempts grows
// linearly from interval.
// Default: 3 attempts, 2 seconds.
func WithRetry(attempts int, interval time.Duration) DialOption {
	return func(o *dialOptions) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithDialTimeout sets the timeout for establishing connections.
// Default: 5 seconds
func WithDialTimeout(d time.Duration) DialOption {
	return func(o *dialOptions) {
		o.dialTimeout = d
	}
}

// Dial connects to Redis at url (redis:// or rediss://) and pings it,
// retrying with backoff until the attempts run out.
func Dial(ctx context.Context, url string, opts ...DialOption) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrInvalidURL
	}

	o := defaultDialOptions()
	for _, opt := range opts {
		opt(o)
	}

	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	ropts.PoolSize = o.poolSize
	ropts.DialTimeout = o.dialTimeout
	ropts.WriteTimeout = o.writeTimeout

	attempts := max(o.retryAttempts, 1)
	var lastErr error
	for i := range attempts {
		client := redis.NewClient(ropts)

		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*o.retryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck returns a probe that pings client.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
