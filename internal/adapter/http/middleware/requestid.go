package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID reuses the caller-provided request id or generates one, and
// injects it into the log context and the response headers.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
