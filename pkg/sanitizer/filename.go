// Package sanitizer cleans user supplied file names before they are echoed
// back in API responses and logs.
package sanitizer

import (
	"html"
	"path"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultFileName replaces names that sanitize to nothing.
const DefaultFileName = "file"

const maxFileNameLen = 255

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func policy() *bluemonday.Policy {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// FileName strips markup, directory components and control characters
// from name and caps it at 255 bytes, keeping the extension.
func FileName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	name = html.UnescapeString(policy().Sanitize(name))
	name = strings.Map(func(r rune) rune {
		if r == '/' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." {
		return DefaultFileName
	}
	return truncate(name, maxFileNameLen)
}

func truncate(name string, n int) string {
	if len(name) <= n {
		return name
	}
	ext := path.Ext(name)
	if len(ext) >= n {
		ext = ""
	}
	base := name[:n-len(ext)]
	for !utf8.ValidString(base) {
		base = base[:len(base)-1]
	}
	return strings.TrimSpace(base) + ext
}
