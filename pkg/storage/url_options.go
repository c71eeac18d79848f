package storage

import "time"

// URLOption configures URL generation.
type URLOption func(*urlOptions)

type urlOptions struct {
	downloadName string
	expiry       time.Duration
	forcePublic  bool
}

// DefaultURLExpiry is the lifetime of signed URLs.
const DefaultURLExpiry = 15 * time.Minute

func newURLOptions(opts []URLOption) *urlOptions {
	o := &urlOptions{expiry: DefaultURLExpiry}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithExpiry sets the lifetime of a signed URL.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) {
		if d > 0 {
			o.expiry = d
		}
	}
}

// WithDownload adds Content-Disposition: attachment with the given filename.
// Implies a signed URL.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) {
		o.downloadName = filename
		o.forcePublic = false
	}
}

// WithPublic returns an unsigned URL. The object must be publicly readable
// (ACLPublicRead or a public bucket policy) for the URL to work.
func WithPublic() URLOption {
	return func(o *urlOptions) {
		o.forcePublic = true
	}
}
