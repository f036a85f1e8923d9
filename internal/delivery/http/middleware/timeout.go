package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout cancels the request context after the given duration. Handlers and
// repositories observe the cancellation through ctx.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
