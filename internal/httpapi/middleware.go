package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/uploader"
)

const stackSize = 4096

// RequestIDExtractor adds request_id to records logged with a request
// context. Pass it to logger.New.
func RequestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}

// recoverer turns a panic into a 500 JSON error and logs it with a stack.
func recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				stack := make([]byte, stackSize)
				stack = stack[:runtime.Stack(stack, false)]
				log.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(stack)),
				)
				writeError(w, r, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request once it completes.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type languageKey struct{}

var matcher = language.NewMatcher(uploader.SupportedLanguages)

// negotiateLanguage resolves the response language from the lang query
// parameter, then the lang cookie, then Accept-Language.
func negotiateLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var prefs []string
		if q := r.URL.Query().Get("lang"); q != "" {
			prefs = append(prefs, q)
		}
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			prefs = append(prefs, c.Value)
		}
		prefs = append(prefs, r.Header.Get("Accept-Language"))

		tag := matchLanguage(prefs...)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), languageKey{}, tag)))
	})
}

// matchLanguage returns the supported language closest to the first
// parseable preference. Each preference may be an Accept-Language value.
func matchLanguage(prefs ...string) language.Tag {
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := matcher.Match(tags...)
		if conf == language.No {
			continue
		}
		return uploader.SupportedLanguages[idx]
	}
	return uploader.SupportedLanguages[0]
}

// languageFromContext returns the negotiated language.
func languageFromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(languageKey{}).(language.Tag); ok {
		return tag
	}
	return uploader.SupportedLanguages[0]
}
