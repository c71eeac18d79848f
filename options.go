package uploader

import (
	"fmt"
	"log/slog"
)

// Options holds the constraints and behavior of an Uploader.
// They are fixed once New returns.
type Options struct {
	// Limit is the maximum number of files one pick may return.
	// Values below 1 are clamped to 1. Defaults to 1.
	Limit int `env:"UPLOAD_LIMIT" yaml:"limit" json:"limit"`

	// Accept is a content type hint such as "image/*" or "video/mp4".
	// Only the "image" and "video" families are enforced.
	Accept string `env:"UPLOAD_ACCEPT" yaml:"accept" json:"accept,omitempty"`

	// MinSize is the inclusive lower size bound in bytes. Zero means unset.
	MinSize int64 `env:"UPLOAD_MIN_SIZE" yaml:"min_size" json:"min_size,omitempty"`

	// MaxSize is the inclusive upper size bound in bytes. Zero means unset.
	MaxSize int64 `env:"UPLOAD_MAX_SIZE" yaml:"max_size" json:"max_size,omitempty"`

	// AutoUpload makes ChooseFile upload the selection immediately.
	// Defaults to true.
	AutoUpload bool `env:"UPLOAD_AUTO" yaml:"auto_upload" json:"auto_upload"`

	// Concurrency caps the number of backend calls running at once
	// within a batch. Zero means unbounded.
	Concurrency int `env:"UPLOAD_CONCURRENCY" yaml:"concurrency" json:"concurrency,omitempty"`
}

// DefaultOptions returns Limit 1 with AutoUpload enabled.
func DefaultOptions() Options {
	return Options{
		Limit:      1,
		AutoUpload: true,
	}
}

func (o *Options) normalize() {
	if o.Limit < 1 {
		o.Limit = 1
	}
	if o.Concurrency < 0 {
		o.Concurrency = 0
	}
}

func (o Options) validate() error {
	if o.MinSize < 0 || o.MaxSize < 0 {
		return fmt.Errorf("%w: negative size bound", ErrInvalidOptions)
	}
	if o.MinSize > 0 && o.MaxSize > 0 && o.MinSize > o.MaxSize {
		return fmt.Errorf("%w: min size %d exceeds max size %d", ErrInvalidOptions, o.MinSize, o.MaxSize)
	}
	return nil
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithLimit sets the maximum number of files per pick.
func WithLimit(n int) Option {
	return func(u *Uploader) {
		u.opts.Limit = n
	}
}

// WithAccept sets the accepted content type hint.
func WithAccept(accept string) Option {
	return func(u *Uploader) {
		u.opts.Accept = accept
	}
}

// WithMinSize sets the minimum file size in bytes.
func WithMinSize(n int64) Option {
	return func(u *Uploader) {
		u.opts.MinSize = n
	}
}

// WithMaxSize sets the maximum file size in bytes.
func WithMaxSize(n int64) Option {
	return func(u *Uploader) {
		u.opts.MaxSize = n
	}
}

// WithAutoUpload toggles uploading right after a successful pick.
func WithAutoUpload(enabled bool) Option {
	return func(u *Uploader) {
		u.opts.AutoUpload = enabled
	}
}

// WithConcurrency caps in-flight backend calls per batch.
func WithConcurrency(n int) Option {
	return func(u *Uploader) {
		u.opts.Concurrency = n
	}
}

// WithUploadOptions replaces all options at once.
// Useful when options come from configuration.
func WithUploadOptions(o Options) Option {
	return func(u *Uploader) {
		u.opts = o
	}
}

// WithDialog sets the dialog used by ChooseFile.
func WithDialog(d Dialog) Option {
	return func(u *Uploader) {
		u.dialog = d
	}
}

// WithLogger sets the logger. If nil, logging stays disabled.
func WithLogger(l *slog.Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.logger = l
		}
	}
}
