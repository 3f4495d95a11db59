package web

import (
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/sandevgo/gomibot/pkg/log"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request logger with an id, reusing an inbound header if present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.FromCtx(r.Context()).With().
			Str("request_id", id).
			Str("path", r.URL.Path).
			Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

// Recovery turns a panic in a downstream handler into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.FromCtx(r.Context()).Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("remote", r.RemoteAddr).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				WriteError(w, http.StatusInternalServerError, "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
