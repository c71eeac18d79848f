package uploader

import (
	"fmt"
	"strings"
)

// Validation error codes.
const (
	CodeInvalidType  = "invalid_type"
	CodeFileTooSmall = "file_too_small"
	CodeFileTooLarge = "file_too_large"
)

// ValidationError describes the first constraint a selection violated.
type ValidationError struct {
	Details map[string]any // limit, got, accept depending on Code
	File    string         // name of the offending file
	Code    string         // one of the Code* constants
	Message string         // English message
	Index   int            // position of the offending file
	Err     error          // sentinel matching Code

	key  string
	args []any
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(index int, f File, code string, sentinel error, details map[string]any, key string, args ...any) *ValidationError {
	return &ValidationError{
		Details: details,
		File:    f.Name(),
		Code:    code,
		Message: fmt.Sprintf(key, args...),
		Index:   index,
		Err:     sentinel,
		key:     key,
		args:    args,
	}
}

// Validate checks files against o. Content types of all files are checked
// first, then sizes file by file (minimum before maximum). The first
// violation is returned as *ValidationError.
func Validate(files []File, o Options) error {
	if family := acceptFamily(o.Accept); family != "" {
		for i, f := range files {
			if !strings.HasPrefix(f.ContentType(), family) {
				return newValidationError(i, f, CodeInvalidType, ErrInvalidType,
					map[string]any{"accept": o.Accept, "got": f.ContentType()},
					msgInvalidType, f.Name(), f.ContentType(), family)
			}
		}
	}

	for i, f := range files {
		if o.MinSize > 0 && f.Size() < o.MinSize {
			return newValidationError(i, f, CodeFileTooSmall, ErrFileTooSmall,
				map[string]any{"limit": o.MinSize, "got": f.Size()},
				msgTooSmall, f.Name(), f.Size(), o.MinSize)
		}
		if o.MaxSize > 0 && f.Size() > o.MaxSize {
			return newValidationError(i, f, CodeFileTooLarge, ErrFileTooLarge,
				map[string]any{"limit": o.MaxSize, "got": f.Size()},
				msgTooLarge, f.Name(), f.Size(), o.MaxSize)
		}
	}

	return nil
}

// acceptFamily maps an accept hint to the enforced type prefix.
// Image wins over video; anything else is not enforced.
func acceptFamily(accept string) string {
	switch {
	case strings.Contains(accept, "image"):
		return "image"
	case strings.Contains(accept, "video"):
		return "video"
	default:
		return ""
	}
}
