package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultMemoryObjects bounds how many objects a Memory store keeps.
	DefaultMemoryObjects = 1024

	// DefaultMemoryTTL is how long a Memory object lives after its upload.
	DefaultMemoryTTL = time.Hour
)

// Memory is an in-process Storage for development and tests. Objects are
// evicted oldest first once the store is full and expire after a TTL.
// URLs point at BaseURL; serve them with Open.
type Memory struct {
	objects    *expirable.LRU[string, memObject]
	baseURL    string
	defaultACL ACL
	now        func() time.Time
}

type memObject struct {
	info FileInfo
	data []byte
}

// MemoryOption configures a Memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxObjects int
	ttl        time.Duration
}

// WithMaxObjects bounds the number of stored objects. Non-positive values
// keep the default.
func WithMaxObjects(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.maxObjects = n
		}
	}
}

// WithTTL sets how long objects are kept. Non-positive values keep the
// default.
func WithTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// NewMemory creates a Memory store. baseURL prefixes returned URLs
// (default "memory://").
func NewMemory(baseURL string, defaultACL ACL, opts ...MemoryOption) *Memory {
	if baseURL == "" {
		baseURL = "memory://"
	}
	if defaultACL == "" {
		defaultACL = ACLPrivate
	}

	o := &memoryOptions{maxObjects: DefaultMemoryObjects, ttl: DefaultMemoryTTL}
	for _, opt := range opts {
		opt(o)
	}

	return &Memory{
		objects:    expirable.NewLRU[string, memObject](o.maxObjects, nil, o.ttl),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		defaultACL: defaultACL,
		now:        time.Now,
	}
}

// Put stores the content of r.
func (m *Memory) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := applyPutOptions(m.defaultACL, opts)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrUploadFailed
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = DetectContentType(bytes.NewReader(data))
	}

	key := o.key
	if key == "" {
		key = buildKey(o.tenant, o.prefix, contentType)
	}

	info := FileInfo{
		Key:         key,
		ContentType: contentType,
		ACL:         o.acl,
		Size:        int64(len(data)),
	}
	m.objects.Add(key, memObject{info: info, data: data})

	return &info, nil
}

// Get returns a reader over a copy of the stored bytes.
func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, error) {
	obj, ok := m.objects.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(obj.data))), nil
}

// Open resolves a URL path and query produced by URL. Private objects
// require an expires parameter that has not passed yet.
func (m *Memory) Open(key string, query url.Values) (FileInfo, io.ReadSeeker, error) {
	obj, ok := m.objects.Get(key)
	if !ok {
		return FileInfo{}, nil, ErrNotFound
	}
	if obj.info.ACL != ACLPublicRead {
		exp, err := strconv.ParseInt(query.Get("expires"), 10, 64)
		if err != nil || m.now().Unix() > exp {
			return FileInfo{}, nil, ErrAccessDenied
		}
	}
	return obj.info, bytes.NewReader(obj.data), nil
}

// Delete removes key. Missing keys report ErrNotFound.
func (m *Memory) Delete(_ context.Context, key string) error {
	if !m.objects.Remove(key) {
		return ErrNotFound
	}
	return nil
}

// URL returns BaseURL/key, with an expires query parameter unless public.
func (m *Memory) URL(_ context.Context, key string, opts ...URLOption) (string, error) {
	if !m.objects.Contains(key) {
		return "", ErrNotFound
	}

	o := newURLOptions(opts)
	u := m.baseURL + "/" + key
	if o.forcePublic {
		return u, nil
	}

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(m.now().Add(o.expiry).Unix(), 10))
	if o.downloadName != "" {
		q.Set("download", o.downloadName)
	}
	return u + "?" + q.Encode(), nil
}

// Stat returns the metadata stored for key.
func (m *Memory) Stat(key string) (FileInfo, bool) {
	obj, ok := m.objects.Peek(key)
	return obj.info, ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	return m.objects.Len()
}

var _ Storage = (*Memory)(nil)
