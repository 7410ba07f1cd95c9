package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"renewal-gateway/internal/access"
	"renewal-gateway/internal/licence/models"
	"renewal-gateway/internal/platform/metrics"
	"renewal-gateway/internal/platform/middleware"
	"renewal-gateway/pkg/civildate"
	dErrors "renewal-gateway/pkg/domain-errors"
	"renewal-gateway/pkg/platform/httputil"
	"renewal-gateway/pkg/platform/validation"
)

// Service defines the licence operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Licence, error)
	ListExpiring(ctx context.Context, threshold time.Time) ([]*models.Licence, error)
	Update(ctx context.Context, id int64, upd models.Update) error
}

// Handler handles licence endpoints.
type Handler struct {
	logger   *slog.Logger
	licences Service
	roles    middleware.RoleResolver
	metrics  *metrics.Metrics
}

// New creates a new licence Handler.
func New(licences Service, roles middleware.RoleResolver, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		licences: licences,
		roles:    roles,
		metrics:  m,
	}
}

// Register registers the licence routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/licences", func(r chi.Router) {
		r.With(h.require(access.OfficerOnly)).Get("/expiring/{date}", h.handleListExpiring)
		r.With(h.require(access.DriverOrOfficer)).Get("/{id}", h.handleGet)
		r.With(h.require(access.DriverOrOfficer)).Put("/{id}", h.handleUpdate)
	})
}

func (h *Handler) require(req access.Requirement) func(http.Handler) http.Handler {
	return middleware.RequireRole(h.roles, req, h.logger, h.metrics)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid licence id")
		return
	}

	l, err := h.licences.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "failed to get licence")
		return
	}
	httputil.Write(w, r, http.StatusOK, models.ToResponse(l))
}

func (h *Handler) handleListExpiring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	threshold, err := civildate.ParseDDMMYYYY(chi.URLParam(r, "date"))
	if err != nil {
		h.fail(ctx, w, dErrors.Wrap(err, dErrors.CodeBadRequest, "date must be a valid DDMMYYYY date"), "invalid expiry threshold")
		return
	}

	licences, err := h.licences.ListExpiring(ctx, threshold)
	if err != nil {
		h.fail(ctx, w, err, "failed to list expiring licences")
		return
	}

	items := models.ToResponses(licences)
	if httputil.PrefersXML(r) {
		httputil.WriteXML(w, http.StatusOK, models.LicenceList{Licences: items})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid licence id")
		return
	}
	if err := httputil.ParseForm(r); err != nil {
		h.fail(ctx, w, err, "invalid update licence request")
		return
	}

	req := models.UpdateLicenceRequest{
		Address:    httputil.FormValue(r, "address"),
		Email:      httputil.FormValue(r, "email"),
		ExpiryDate: httputil.FormValue(r, "expiryDate"),
	}
	req.Normalize()
	if err := validation.Struct(&req); err != nil {
		h.fail(ctx, w, err, "invalid update licence request")
		return
	}
	upd, err := req.ToUpdate()
	if err != nil {
		h.fail(ctx, w, err, "invalid update licence request")
		return
	}

	if err := h.licences.Update(ctx, id, upd); err != nil {
		h.fail(ctx, w, err, "failed to update licence")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	requestID := middleware.GetRequestID(ctx)
	if de, ok := dErrors.As(err); ok && de.Code.IsClientError() {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
