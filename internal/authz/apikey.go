package authz

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/Foxichek/wiralis/internal/observability/metrics"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// APIKeyValidator gates the privileged bot endpoints behind a static
// pre-shared secret carried in the X-API-Key header.
type APIKeyValidator struct {
	secret []byte
}

func NewAPIKeyValidator(secret string) *APIKeyValidator {
	return &APIKeyValidator{secret: []byte(secret)}
}

func (v *APIKeyValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		// One generic rejection for missing and wrong keys alike; the caller
		// learns nothing about which it was.
		if len(v.secret) == 0 || subtle.ConstantTimeCompare([]byte(key), v.secret) != 1 {
			metrics.BotAuthAttemptsTotal.WithLabelValues("failure").Inc()
			slog.Warn("bot api key rejected", "request_id", chimw.GetReqID(r.Context()), "path", r.URL.Path)
			writeUnauthorized(w)
			return
		}
		metrics.BotAuthAttemptsTotal.WithLabelValues("success").Inc()
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
