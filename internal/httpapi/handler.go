// Package httpapi exposes an Uploader over HTTP.
//
// Routes:
//
//	POST /uploads           multipart form, files in the "files" field
//	GET  /uploads/{batch}   latest snapshot of a recent batch
//	GET  /ping              liveness
//	GET  /health/ready      readiness probes
//	GET  /metrics           Prometheus metrics, when enabled
//	GET  /files/*           stored objects, when a FileSource is mounted
//
// Validation failures answer 422 with a message in the language negotiated
// from the lang query parameter, the lang cookie or Accept-Language.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/uploader"
	"github.com/dmitrymomot/uploader/internal/tracker"
	"github.com/dmitrymomot/uploader/pkg/health"
	"github.com/dmitrymomot/uploader/pkg/logger"
	"github.com/dmitrymomot/uploader/pkg/storage"
)

// FormField is the multipart field carrying the files.
const FormField = "files"

const defaultMaxMemory = 32 << 20

// FileSource resolves stored objects by key and the query of their URL.
// *storage.Memory implements it.
type FileSource interface {
	Open(key string, query url.Values) (storage.FileInfo, io.ReadSeeker, error)
}

// Handler serves the upload API.
type Handler struct {
	up        *uploader.Uploader
	tracker   *tracker.Tracker
	checks    health.Checks
	logger    *slog.Logger
	origins   []string
	metrics   http.Handler
	files     FileSource
	filesPath string
	maxMemory int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithTracker enables GET /uploads/{batch}. The tracker must be attached
// to the same Uploader.
func WithTracker(t *tracker.Tracker) Option {
	return func(h *Handler) {
		h.tracker = t
	}
}

// WithHealthCheck adds a readiness probe.
func WithHealthCheck(name string, fn health.CheckFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.checks[name] = fn
		}
	}
}

// WithMaxMemory sets how much of a multipart form is kept in memory before
// spilling to temporary files. Defaults to 32 MiB.
func WithMaxMemory(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxMemory = n
		}
	}
}

// WithCORS allows cross-origin requests from origins. "*" allows any.
func WithCORS(origins ...string) Option {
	return func(h *Handler) {
		h.origins = origins
	}
}

// WithMetrics serves metrics at GET /metrics.
func WithMetrics(metrics http.Handler) Option {
	return func(h *Handler) {
		h.metrics = metrics
	}
}

// WithFiles serves objects from src under prefix, which must match the
// path of the base URL the store builds its URLs from.
func WithFiles(prefix string, src FileSource) Option {
	return func(h *Handler) {
		h.files = src
		if p := strings.Trim(prefix, "/"); p != "" {
			h.filesPath = "/" + p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a Handler for up.
func New(up *uploader.Uploader, opts ...Option) *Handler {
	h := &Handler{
		up:        up,
		checks:    health.Checks{},
		logger:    logger.NewNope(),
		maxMemory: defaultMaxMemory,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router with middleware applied.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	if len(h.origins) > 0 {
		r.Use(cors(h.origins))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(recoverer(h.logger))
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/health/ready", health.Handler(h.checks, health.WithLogger(h.logger)))
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	if h.files != nil {
		r.Get(h.filesPath+"/*", h.file)
	}

	r.Group(func(r chi.Router) {
		r.Use(negotiateLanguage)
		r.Post("/uploads", h.upload)
		if h.tracker != nil {
			r.Get("/uploads/{batch}", h.batch)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, NewHTTPError(http.StatusNotFound, CodeNotFound, "route not found"))
	})

	return r
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		writeError(w, r, &HTTPError{
			Err:       err,
			Code:      http.StatusBadRequest,
			ErrorCode: CodeInvalidForm,
			Message:   "request must be a multipart form",
		})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[FormField]
	if len(headers) == 0 {
		writeError(w, r, NewHTTPError(http.StatusBadRequest, CodeNoFiles,
			fmt.Sprintf("no files in form field %q", FormField)))
		return
	}

	opts := h.up.Options()
	if len(headers) > opts.Limit {
		he := NewHTTPError(http.StatusUnprocessableEntity, CodeTooManyFiles,
			fmt.Sprintf("got %d files, limit is %d", len(headers), opts.Limit))
		he.Details = map[string]any{"limit": opts.Limit, "got": len(headers)}
		writeError(w, r, he)
		return
	}

	files := make([]uploader.File, len(headers))
	for i, fh := range headers {
		files[i] = uploader.FromFileHeader(fh)
	}

	if err := uploader.Validate(files, opts); err != nil {
		var verr *uploader.ValidationError
		if !errors.As(err, &verr) {
			writeError(w, r, err)
			return
		}
		writeError(w, r, &HTTPError{
			Err:       verr,
			Code:      http.StatusUnprocessableEntity,
			ErrorCode: verr.Code,
			Message:   verr.Localize(languageFromContext(r.Context())),
			Details:   verr.Details,
		})
		return
	}

	// A client hanging up must not cut uploads short.
	end := h.up.UploadFiles(context.WithoutCancel(r.Context()), files)
	writeJSON(w, http.StatusOK, end)
}

func (h *Handler) batch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batch")
	snap, ok := h.tracker.Get(id)
	if !ok {
		writeError(w, r, NewHTTPError(http.StatusNotFound, CodeNotFound, "batch not found"))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) file(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	info, content, err := h.files.Open(key, r.URL.Query())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, NewHTTPError(http.StatusNotFound, CodeNotFound, "file not found"))
		return
	case errors.Is(err, storage.ErrAccessDenied):
		writeError(w, r, NewHTTPError(http.StatusForbidden, CodeForbidden, "link is missing or expired"))
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", info.ContentType)
	if name := r.URL.Query().Get("download"); name != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	http.ServeContent(w, r, path.Base(key), time.Time{}, content)
}
