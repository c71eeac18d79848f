package uploader

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/uploader/pkg/sanitizer"
	"github.com/dmitrymomot/uploader/pkg/storage"
)

// File is a selected file: its name, declared content type, size and data.
type File interface {
	Name() string
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type headerFile struct {
	fh          *multipart.FileHeader
	name        string
	contentType string
}

// FromFileHeader adapts a multipart upload. The client supplied file name is
// sanitized. The content type comes from the part header, then the file
// extension, then the leading bytes.
func FromFileHeader(fh *multipart.FileHeader) File {
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == storage.MIMEOctetStream {
		if byExt := typeByExtension(fh.Filename); byExt != "" {
			ct = byExt
		} else if f, err := fh.Open(); err == nil {
			ct = storage.DetectContentType(f)
			_ = f.Close()
		}
	}
	return &headerFile{fh: fh, name: sanitizer.FileName(fh.Filename), contentType: ct}
}

func (f *headerFile) Name() string        { return f.name }
func (f *headerFile) ContentType() string { return f.contentType }
func (f *headerFile) Size() int64         { return f.fh.Size }

func (f *headerFile) Open() (io.ReadCloser, error) {
	return f.fh.Open()
}

type pathFile struct {
	path        string
	contentType string
	size        int64
}

// FromPath adapts a file on disk. Directories are rejected.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("uploader: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("uploader: %s is a directory", path)
	}

	ct := typeByExtension(path)
	if ct == "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("uploader: open %s: %w", path, err)
		}
		ct = storage.DetectContentType(f)
		_ = f.Close()
	}

	return &pathFile{path: path, contentType: ct, size: info.Size()}, nil
}

func (f *pathFile) Name() string        { return filepath.Base(f.path) }
func (f *pathFile) ContentType() string { return f.contentType }
func (f *pathFile) Size() int64         { return f.size }

func (f *pathFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

type bytesFile struct {
	name        string
	contentType string
	data        []byte
}

// FromBytes adapts an in-memory file. An empty contentType is detected
// from the data.
func FromBytes(name, contentType string, data []byte) File {
	if contentType == "" {
		contentType = storage.DetectContentType(bytes.NewReader(data))
	}
	return &bytesFile{name: name, contentType: contentType, data: data}
}

func (f *bytesFile) Name() string        { return f.name }
func (f *bytesFile) ContentType() string { return f.contentType }
func (f *bytesFile) Size() int64         { return int64(len(f.data)) }

func (f *bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func typeByExtension(name string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}
