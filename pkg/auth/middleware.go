package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jmkoo/daedap/pkg/api"
	"github.com/jmkoo/daedap/pkg/observability"
)

// DefaultBypassPaths lists paths that skip authentication.
var DefaultBypassPaths = []string{"/healthz", "/metrics"}

// Middleware builds HTTP middleware that authenticates requests through
// the chain, enforces the optional rate limiter, and attaches the
// resulting identity to the request context. Paths in bypass are
// passed through untouched.
func Middleware(chain *Chain, limiter Limiter, bypass []string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(bypass))
	for _, p := range bypass {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			res := chain.Authenticate(r.Context(), r)

			if res.Decision != Allow || res.Identity == nil {
				slog.Warn("authentication failed",
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, api.NameInvalidRequest, "authentication required")
				return
			}

			if res.Identity.Subject == "" {
				slog.Error("authenticator produced identity with empty subject")
				writeError(w, http.StatusInternalServerError, api.NameServerError, "internal authentication error")
				return
			}

			if limiter != nil {
				if err := limiter.Allow(r.Context(), res.Identity); err != nil {
					slog.Warn("rate limit exceeded",
						slog.String("subject", res.Identity.Subject),
						slog.String("tier", res.Identity.Tier),
					)
					observability.RateLimitRejectedTotal.WithLabelValues(res.Identity.Tier).Inc()
					writeError(w, http.StatusTooManyRequests, api.NameRateLimited, "rate limit exceeded")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), res.Identity)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, name, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorBody{Error: true, Name: name, Message: message})
}
