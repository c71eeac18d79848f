package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_applyDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty config gets defaults", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}
		cfg.applyDefaults()

		require.Equal(t, DefaultRegion, cfg.Region)
		require.Equal(t, ACLPrivate, cfg.DefaultACL)
	})

	t.Run("existing values preserved", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Region: "eu-west-1", DefaultACL: ACLPublicRead}
		cfg.applyDefaults()

		require.Equal(t, "eu-west-1", cfg.Region)
		require.Equal(t, ACLPublicRead, cfg.DefaultACL)
	})
}

func TestConfig_validate(t *testing.T) {
	t.Parallel()

	valid := Config{Bucket: "b", AccessKey: "a", SecretKey: "s", DefaultACL: ACLPrivate}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"public default acl", func(c *Config) { c.DefaultACL = ACLPublicRead }, false},
		{"missing bucket", func(c *Config) { c.Bucket = "" }, true},
		{"missing access key", func(c *Config) { c.AccessKey = "" }, true},
		{"missing secret key", func(c *Config) { c.SecretKey = "" }, true},
		{"unknown acl", func(c *Config) { c.DefaultACL = "world-writable" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPutOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults to store ACL", func(t *testing.T) {
		t.Parallel()
		o := applyPutOptions(ACLPublicRead, nil)
		require.Equal(t, ACLPublicRead, o.acl)
		require.Empty(t, o.key)
	})

	t.Run("options applied in order", func(t *testing.T) {
		t.Parallel()
		o := applyPutOptions(ACLPrivate, []Option{
			WithKey("custom/file.jpg"),
			WithPrefix("images"),
			WithTenant("acme"),
			WithContentType("image/png"),
			WithACL(ACLPublicRead),
		})

		require.Equal(t, "custom/file.jpg", o.key)
		require.Equal(t, "images", o.prefix)
		require.Equal(t, "acme", o.tenant)
		require.Equal(t, "image/png", o.contentType)
		require.Equal(t, ACLPublicRead, o.acl)
	})
}

func TestURLOptions(t *testing.T) {
	t.Parallel()

	t.Run("default expiry", func(t *testing.T) {
		t.Parallel()
		o := newURLOptions(nil)
		require.Equal(t, DefaultURLExpiry, o.expiry)
		require.False(t, o.forcePublic)
	})

	t.Run("non-positive expiry ignored", func(t *testing.T) {
		t.Parallel()
		o := newURLOptions([]URLOption{WithExpiry(0)})
		require.Equal(t, DefaultURLExpiry, o.expiry)
	})

	t.Run("download forces signed", func(t *testing.T) {
		t.Parallel()
		o := newURLOptions([]URLOption{WithPublic(), WithDownload("a.pdf")})
		require.False(t, o.forcePublic)
		require.Equal(t, "a.pdf", o.downloadName)
	})
}
