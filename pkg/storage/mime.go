package storage

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

// MIMEOctetStream is reported when the content type cannot be detected.
const MIMEOctetStream = "application/octet-stream"

// http.DetectContentType considers at most 512 bytes.
const sniffLen = 512

// mimeExtensions maps content types to the extension used in generated keys.
var mimeExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
	"image/x-icon":  ".ico",
	"image/heic":    ".heic",
	"image/avif":    ".avif",

	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
	"video/ogg":        ".ogv",
	"video/quicktime":  ".mov",
	"video/x-msvideo":  ".avi",
	"video/x-matroska": ".mkv",

	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/ogg":  ".ogg",
	"audio/aac":  ".aac",
	"audio/flac": ".flac",

	"application/pdf":  ".pdf",
	"application/json": ".json",
	"application/xml":  ".xml",
	"application/zip":  ".zip",
	"application/gzip": ".gz",
	"text/plain":       ".txt",
	"text/csv":         ".csv",
	"text/html":        ".html",
	"text/css":         ".css",
}

// DetectContentType sniffs the content type from the first bytes of r.
// It consumes up to 512 bytes of r.
func DetectContentType(r io.Reader) string {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if n == 0 && err != nil {
		return MIMEOctetStream
	}
	return http.DetectContentType(buf[:n])
}

// ExtFromMIME returns the key extension for a content type, or "" if unknown.
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// sniff detects the content type of r and returns a reader positioned at
// the start of the data. The S3 client needs an io.ReadSeeker to compute the
// payload hash, so non-seekable input is buffered in memory.
func sniff(r io.Reader) (string, io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		ct := DetectContentType(rs)
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return "", nil, err
		}
		return ct, rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return MIMEOctetStream, bytes.NewReader(nil), nil
	}
	return http.DetectContentType(data), bytes.NewReader(data), nil
}

// seekable returns r as an io.ReadSeeker, buffering it when needed.
func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// normalizeMIME drops parameters such as charset and lowercases the type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}
