package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renewal-gateway/internal/platform/metrics"
	"renewal-gateway/internal/platform/middleware"
	"renewal-gateway/pkg/platform/httputil"
	"renewal-gateway/pkg/platform/middleware/requesttime"
)

const healthCheckTimeout = 2 * time.Second

// Registrar is a domain handler that mounts its routes.
type Registrar interface {
	Register(r chi.Router)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies holds what the router needs. DB may be nil when the service
// runs on in-memory stores.
type Dependencies struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	DB             Pinger
	RequestTimeout time.Duration
	Handlers       []Registrar
}

// NewRouter composes the middleware chain, operational endpoints, and the
// domain handlers. Operational endpoints sit outside the role gate.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.LatencyMiddleware(deps.Metrics))
	}

	r.Get("/healthz", healthHandler(deps.DB, deps.Logger))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if deps.RequestTimeout > 0 {
			r.Use(middleware.Timeout(deps.RequestTimeout))
		}
		for _, h := range deps.Handlers {
			h.Register(r)
		}
	})
	return r
}

func healthHandler(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "memory"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.WarnContext(ctx, "health check failed",
				"request_id", middleware.GetRequestID(r.Context()),
				"error", err,
			)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "postgres"})
	}
}
