package storage

import (
	"context"
	"io"
)

// Storage defines the object store operations used by upload backends.
type Storage interface {
	// Put stores data read from r. size is sent as content length.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get returns the stored object. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored at key.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for the object: signed by default,
	// public with WithPublic.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"STORAGE_BUCKET" yaml:"bucket"`

	// AccessKey is the access key ID (required).
	AccessKey string `env:"STORAGE_ACCESS_KEY" yaml:"access_key"`

	// SecretKey is the secret access key (required).
	SecretKey string `env:"STORAGE_SECRET_KEY" yaml:"secret_key"`

	// Endpoint is a custom endpoint for MinIO and other S3-compatible services.
	Endpoint string `env:"STORAGE_ENDPOINT" yaml:"endpoint"`

	// Region defaults to us-east-1.
	Region string `env:"STORAGE_REGION" yaml:"region"`

	// PublicURL is a CDN prefix used for public URLs instead of the bucket URL.
	PublicURL string `env:"STORAGE_PUBLIC_URL" yaml:"public_url"`

	// DefaultACL applies when Put gets no WithACL (default: private).
	DefaultACL ACL `env:"STORAGE_DEFAULT_ACL" yaml:"default_acl"`

	// PathStyle enables path-style addressing (required for MinIO).
	PathStyle bool `env:"STORAGE_PATH_STYLE" yaml:"path_style"`
}

// FileInfo describes a stored object.
type FileInfo struct {
	Key         string
	ContentType string
	ACL         ACL
	Size        int64
}

// ACL represents access control levels for stored files.
type ACL string

const (
	// ACLPrivate makes the file accessible only via signed URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the file publicly readable.
	ACLPublicRead ACL = "public-read"
)

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	switch c.DefaultACL {
	case ACLPrivate, ACLPublicRead:
	default:
		return ErrInvalidConfig
	}
	return nil
}

// applyPutOptions resolves Put options on top of the store's default ACL.
func applyPutOptions(defaultACL ACL, opts []Option) *putOptions {
	o := &putOptions{acl: defaultACL}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
