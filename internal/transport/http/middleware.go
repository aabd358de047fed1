package http

import (
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	apierrors "tabprep/internal/errors"
)

// RateLimit returns middleware that applies a global token-bucket limit
// to incoming requests.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrRateLimitExceeded))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
