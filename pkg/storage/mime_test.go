package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestExtFromMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mimeType string
		want     string
	}{
		{"jpeg", "image/jpeg", ".jpg"},
		{"png", "image/png", ".png"},
		{"mp4", "video/mp4", ".mp4"},
		{"quicktime", "video/quicktime", ".mov"},
		{"pdf", "application/pdf", ".pdf"},
		{"unknown", "application/unknown", ""},
		{"empty", "", ""},
		{"with charset", "text/plain; charset=utf-8", ".txt"},
		{"uppercase", "IMAGE/JPEG", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ExtFromMIME(tt.mimeType))
		})
	}
}

func TestNormalizeMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"image/jpeg", "image/jpeg"},
		{"text/html; charset=utf-8", "text/html"},
		{"IMAGE/JPEG", "image/jpeg"},
		{" image/png ", "image/png"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, normalizeMIME(tt.input))
		})
	}
}

func TestDetectContentType(t *testing.T) {
	t.Parallel()

	t.Run("png magic bytes", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "image/png", DetectContentType(bytes.NewReader(pngHeader)))
	})

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "text/plain; charset=utf-8", DetectContentType(strings.NewReader("hello world")))
	})

	t.Run("empty reader", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, MIMEOctetStream, DetectContentType(bytes.NewReader(nil)))
	})
}

type onlyReader struct{ io.Reader }

func TestSniff(t *testing.T) {
	t.Parallel()

	t.Run("seekable input is rewound", func(t *testing.T) {
		t.Parallel()
		ct, body, err := sniff(bytes.NewReader(pngHeader))
		require.NoError(t, err)
		require.Equal(t, "image/png", ct)

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		require.Equal(t, pngHeader, data)
	})

	t.Run("non-seekable input is buffered", func(t *testing.T) {
		t.Parallel()
		ct, body, err := sniff(onlyReader{bytes.NewReader(pngHeader)})
		require.NoError(t, err)
		require.Equal(t, "image/png", ct)

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		require.Equal(t, pngHeader, data)
	})

	t.Run("empty non-seekable input", func(t *testing.T) {
		t.Parallel()
		ct, body, err := sniff(onlyReader{bytes.NewReader(nil)})
		require.NoError(t, err)
		require.Equal(t, MIMEOctetStream, ct)
		require.NotNil(t, body)
	})
}
