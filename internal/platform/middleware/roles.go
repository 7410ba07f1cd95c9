package middleware

import (
	"log/slog"
	"net/http"

	"renewal-gateway/internal/access"
	"renewal-gateway/internal/platform/metrics"
	"renewal-gateway/pkg/platform/httputil"
	"renewal-gateway/pkg/requestcontext"
)

// RoleResolver turns raw Authorization header values into role markers.
type RoleResolver interface {
	Resolve(headerValues []string) access.Markers
}

// RequireRole gates a route on the caller's role markers. Every Authorization
// header value is considered, not only the first.
func RequireRole(resolver RoleResolver, requirement access.Requirement, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			markers := resolver.Resolve(r.Header.Values("Authorization"))

			outcome := access.Authorize(markers, requirement)
			if outcome != access.Allowed {
				logger.WarnContext(ctx, "request rejected by role gate",
					"request_id", GetRequestID(ctx),
					"outcome", outcome.String(),
					"method", r.Method,
					"path", r.URL.Path,
				)
				if m != nil {
					m.IncrementAuthorizationDenials(outcome.String())
				}
				httputil.WriteError(w, outcome.Err())
				return
			}

			ctx = requestcontext.WithRoles(ctx, markers.Names())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
