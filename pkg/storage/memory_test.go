package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("put sniffs content type and builds key", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("", "")

		info, err := m.Put(ctx, bytes.NewReader(pngHeader), int64(len(pngHeader)), WithPrefix("images"))
		require.NoError(t, err)
		require.Equal(t, "image/png", info.ContentType)
		require.Equal(t, ACLPrivate, info.ACL)
		require.Regexp(t, `^images/`+uuidPattern+`\.png$`, info.Key)
		require.Equal(t, 1, m.Len())
	})

	t.Run("explicit content type and key", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("", ACLPublicRead)

		info, err := m.Put(ctx, strings.NewReader("abc"), 3,
			WithKey("a/b.txt"),
			WithContentType("video/mp4"),
		)
		require.NoError(t, err)
		require.Equal(t, "a/b.txt", info.Key)
		require.Equal(t, "video/mp4", info.ContentType)
		require.Equal(t, ACLPublicRead, info.ACL)

		stat, ok := m.Stat("a/b.txt")
		require.True(t, ok)
		require.Equal(t, int64(3), stat.Size)
	})

	t.Run("empty file rejected", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("", "")
		_, err := m.Put(ctx, strings.NewReader(""), 0)
		require.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("", "")
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := m.Put(cctx, strings.NewReader("abc"), 3)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("get and delete", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("", "")
		info, err := m.Put(ctx, strings.NewReader("hello"), 5)
		require.NoError(t, err)

		rc, err := m.Get(ctx, info.Key)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		require.Equal(t, "hello", string(data))

		require.NoError(t, m.Delete(ctx, info.Key))
		require.ErrorIs(t, m.Delete(ctx, info.Key), ErrNotFound)

		_, err = m.Get(ctx, info.Key)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("urls", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("https://files.test/", "")
		_, err := m.Put(ctx, strings.NewReader("x"), 1, WithKey("k.txt"))
		require.NoError(t, err)

		public, err := m.URL(ctx, "k.txt", WithPublic())
		require.NoError(t, err)
		require.Equal(t, "https://files.test/k.txt", public)

		signed, err := m.URL(ctx, "k.txt", WithDownload("report.txt"))
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(signed, "https://files.test/k.txt?"))
		require.Contains(t, signed, "expires=")
		require.Contains(t, signed, "download=report.txt")

		_, err = m.URL(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("evicts oldest beyond max objects", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("", "", WithMaxObjects(2))
		for _, k := range []string{"a", "b", "c"} {
			_, err := m.Put(ctx, strings.NewReader(k), 1, WithKey(k))
			require.NoError(t, err)
		}

		require.Equal(t, 2, m.Len())
		_, ok := m.Stat("a")
		require.False(t, ok)
		_, err := m.Get(ctx, "a")
		require.ErrorIs(t, err, ErrNotFound)
		_, ok = m.Stat("c")
		require.True(t, ok)
	})

	t.Run("objects expire after ttl", func(t *testing.T) {
		t.Parallel()
		m := NewMemory("", "", WithTTL(20*time.Millisecond))
		_, err := m.Put(ctx, strings.NewReader("x"), 1, WithKey("k"))
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			_, err := m.Get(ctx, "k")
			return err != nil
		}, time.Second, 5*time.Millisecond)
	})
}

func TestMemory_Open(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory("https://files.test", ACLPrivate)
	_, err := m.Put(ctx, strings.NewReader("secret"), 6, WithKey("private.txt"))
	require.NoError(t, err)
	_, err = m.Put(ctx, strings.NewReader("hello"), 5, WithKey("public.txt"), WithACL(ACLPublicRead))
	require.NoError(t, err)

	future := url.Values{"expires": {strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10)}}
	past := url.Values{"expires": {strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10)}}

	tests := []struct {
		name    string
		key     string
		query   url.Values
		want    string
		wantErr error
	}{
		{name: "public without query", key: "public.txt", query: url.Values{}, want: "hello"},
		{name: "private with valid expiry", key: "private.txt", query: future, want: "secret"},
		{name: "private expired", key: "private.txt", query: past, wantErr: ErrAccessDenied},
		{name: "private without expiry", key: "private.txt", query: url.Values{}, wantErr: ErrAccessDenied},
		{name: "missing", key: "missing.txt", query: future, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, r, err := m.Open(tt.key, tt.query)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.key, info.Key)

			data, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(data))
		})
	}
}
