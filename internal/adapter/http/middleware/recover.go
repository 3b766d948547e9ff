package middleware

import (
	"fmt"
	"net/http"
)

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				w.Header().Set("Connection", "close")
				m.log.Error(r.Context(), "recovered from panic", fmt.Errorf("%v", rec))
				errorResponse(w, http.StatusInternalServerError, "the server encountered a problem")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
