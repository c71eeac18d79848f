package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		store, err := New(Config{
			Bucket:    "test-bucket",
			AccessKey: "test-access-key",
			SecretKey: "test-secret-key",
		})
		require.NoError(t, err)
		require.NotNil(t, store.client)
		require.NotNil(t, store.presigner)
		require.Equal(t, DefaultRegion, store.cfg.Region)
		require.Equal(t, ACLPrivate, store.cfg.DefaultACL)
	})

	t.Run("custom endpoint", func(t *testing.T) {
		t.Parallel()
		store, err := New(Config{
			Bucket:    "test-bucket",
			AccessKey: "test-access-key",
			SecretKey: "test-secret-key",
			Endpoint:  "http://localhost:9000",
			PathStyle: true,
		})
		require.NoError(t, err)
		require.NotNil(t, store)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		store, err := New(Config{})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, store)
	})
}

func TestSanitizePathSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "images", "images"},
		{"with spaces", "my folder", "my_folder"},
		{"with slashes", "/path/to/", "path_to"},
		{"path traversal", "../../../etc/passwd", "___etc_passwd"},
		{"leading dots", "..hidden", "hidden"},
		{"empty", "", ""},
		{"dashes and underscores", "my-file_name", "my-file_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sanitizePathSegment(tt.input))
		})
	}
}

const uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}`

func TestBuildKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		tenant      string
		prefix      string
		contentType string
		pattern     string
	}{
		{"no tenant no prefix", "", "", "image/jpeg", `^` + uuidPattern + `\.jpg$`},
		{"with prefix", "", "images", "image/png", `^images/` + uuidPattern + `\.png$`},
		{"with tenant", "acme", "", "video/mp4", `^acme/` + uuidPattern + `\.mp4$`},
		{"tenant and prefix", "acme", "videos", "video/webm", `^acme/videos/` + uuidPattern + `\.webm$`},
		{"unknown type", "", "", "application/unknown", `^` + uuidPattern + `\.bin$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Regexp(t, tt.pattern, buildKey(tt.tenant, tt.prefix, tt.contentType))
		})
	}

	t.Run("keys are unique", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]bool)
		for range 200 {
			k := buildKey("", "", "image/png")
			require.False(t, seen[k])
			seen[k] = true
		}
	})
}

func TestS3Storage_publicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "default S3 URL",
			cfg:  Config{Bucket: "test-bucket", Region: "us-east-1"},
			want: "https://test-bucket.s3.us-east-1.amazonaws.com/path/to/file.jpg",
		},
		{
			name: "custom public URL with trailing slash",
			cfg:  Config{Bucket: "test-bucket", PublicURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/path/to/file.jpg",
		},
		{
			name: "custom endpoint path style",
			cfg:  Config{Bucket: "test-bucket", Endpoint: "http://localhost:9000", PathStyle: true},
			want: "http://localhost:9000/test-bucket/path/to/file.jpg",
		},
		{
			name: "custom endpoint virtual host style",
			cfg:  Config{Bucket: "test-bucket", Endpoint: "http://localhost:9000/"},
			want: "http://localhost:9000/path/to/file.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &S3Storage{cfg: tt.cfg}
			require.Equal(t, tt.want, store.publicURL("path/to/file.jpg"))
		})
	}
}
