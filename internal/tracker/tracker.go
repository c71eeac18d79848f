// Package tracker keeps the latest snapshot of recent upload batches in
// memory so clients can poll a batch after it was started.
package tracker

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dmitrymomot/uploader"
)

const (
	defaultSize = 1024
	defaultTTL  = time.Hour
)

// Config bounds the tracker's memory.
type Config struct {
	// Size is the number of batches kept. Defaults to 1024.
	Size int `env:"TRACKER_SIZE" yaml:"size"`

	// TTL is how long a batch stays after its last event. Defaults to 1h.
	TTL time.Duration `env:"TRACKER_TTL" yaml:"ttl"`
}

// Tracker stores the most recent snapshot per batch.
// Entries are evicted by age and by count, oldest first.
type Tracker struct {
	cache *expirable.LRU[string, uploader.Snapshot]
}

// New creates a Tracker. Non-positive config values fall back to defaults.
func New(cfg Config) *Tracker {
	if cfg.Size <= 0 {
		cfg.Size = defaultSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &Tracker{
		cache: expirable.NewLRU[string, uploader.Snapshot](cfg.Size, nil, cfg.TTL),
	}
}

// Attach subscribes the tracker to every event of u and returns a function
// that detaches it.
func (t *Tracker) Attach(u *uploader.Uploader) (detach func()) {
	subs := []uploader.Subscription{
		u.On(uploader.EventStart, t.Record),
		u.On(uploader.EventProgress, t.Record),
		u.On(uploader.EventEnd, t.Record),
	}
	return func() {
		for _, s := range subs {
			u.Off(s)
		}
	}
}

// Record stores s as the latest state of its batch.
func (t *Tracker) Record(s uploader.Snapshot) {
	if s.Batch == "" {
		return
	}
	t.cache.Add(s.Batch, s)
}

// Get returns the latest snapshot of batch.
func (t *Tracker) Get(batch string) (uploader.Snapshot, bool) {
	return t.cache.Get(batch)
}

// Len returns the number of tracked batches.
func (t *Tracker) Len() int {
	return t.cache.Len()
}
