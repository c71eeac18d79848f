package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Error codes returned in the error body.
const (
	CodeInvalidForm  = "invalid_form"
	CodeNoFiles      = "no_files"
	CodeTooManyFiles = "too_many_files"
	CodeNotFound     = "not_found"
	CodeForbidden    = "forbidden"
	CodeInternal     = "internal_error"
)

// HTTPError is an API error rendered as JSON.
type HTTPError struct {
	Err       error          `json:"-"`
	Details   map[string]any `json:"details,omitempty"`
	Message   string         `json:"message"`
	ErrorCode string         `json:"code"`
	RequestID string         `json:"request_id,omitempty"`
	Code      int            `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates an HTTPError with status code, error code and message.
func NewHTTPError(code int, errorCode, message string) *HTTPError {
	return &HTTPError{Code: code, ErrorCode: errorCode, Message: message}
}

type errorBody struct {
	Error *HTTPError `json:"error"`
}

// writeError renders err. Errors other than *HTTPError become a 500 whose
// message does not leak the cause.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		he = &HTTPError{
			Err:       err,
			Code:      http.StatusInternalServerError,
			ErrorCode: CodeInternal,
			Message:   http.StatusText(http.StatusInternalServerError),
		}
	}
	if he.RequestID == "" {
		he.RequestID = middleware.GetReqID(r.Context())
	}
	writeJSON(w, he.Code, errorBody{Error: he})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
