package storage

// Option configures Put.
type Option func(*putOptions)

type putOptions struct {
	key         string // explicit key, replaces the generated one
	prefix      string
	tenant      string
	contentType string // skips sniffing when set
	acl         ACL
}

// WithKey stores the object under an explicit key.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithPrefix adds a path segment after the tenant: "images/{uuid}.png".
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithTenant makes the tenant ID the first path segment.
func WithTenant(id string) Option {
	return func(o *putOptions) {
		o.tenant = id
	}
}

// WithContentType sets the content type instead of sniffing it.
// Upload backends pass the declared type of the selected file here.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithACL overrides the default ACL for this object.
func WithACL(acl ACL) Option {
	return func(o *putOptions) {
		o.acl = acl
	}
}
