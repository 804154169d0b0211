package middlewares

import (
	"net/http"
	"openmrs-billing-e2e/internal/pkg/exceptions"
	"openmrs-billing-e2e/internal/pkg/utils"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits each client IP to MaxRequests per second and answers with
// the usual JSON error body once the limit is hit.
func (m *Middlewares) RateLimit() func(next http.Handler) http.Handler {
	limit := m.InternalConfig.App.MaxRequests
	return httprate.Limit(
		limit,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(limit))
		}),
	)
}
