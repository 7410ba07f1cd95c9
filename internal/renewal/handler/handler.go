package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"renewal-gateway/internal/access"
	"renewal-gateway/internal/platform/metrics"
	"renewal-gateway/internal/platform/middleware"
	"renewal-gateway/internal/renewal/models"
	dErrors "renewal-gateway/pkg/domain-errors"
	"renewal-gateway/pkg/platform/httputil"
	"renewal-gateway/pkg/platform/validation"
)

// Service defines the renewal operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Renewal, error)
	GetOpenByLicence(ctx context.Context, licenceID int64) (*models.Renewal, error)
	ListByStatus(ctx context.Context, raw string) ([]*models.Renewal, error)
	Create(ctx context.Context, licenceID int64, address, email string) (int64, error)
	Update(ctx context.Context, id int64, upd models.Update) error
	Close(ctx context.Context, id int64) error
}

// Handler handles renewal endpoints.
type Handler struct {
	logger   *slog.Logger
	renewals Service
	roles    middleware.RoleResolver
	metrics  *metrics.Metrics
}

// New creates a new renewal Handler.
func New(renewals Service, roles middleware.RoleResolver, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		renewals: renewals,
		roles:    roles,
		metrics:  m,
	}
}

// Register registers the renewal routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/renewals", func(r chi.Router) {
		r.With(h.require(access.OfficerOnly)).Post("/", h.handleCreate)
		r.With(h.require(access.OfficerOnly)).Get("/status/{status}", h.handleListByStatus)
		r.With(h.require(access.DriverOrOfficer)).Get("/licenceId/{id}", h.handleGetByLicence)
		r.With(h.require(access.DriverOrOfficer)).Get("/{id}", h.handleGet)
		r.With(h.require(access.DriverOrOfficer)).Put("/{id}", h.handleUpdate)
		r.With(h.require(access.DriverOrOfficer)).Delete("/{id}", h.handleClose)
	})
}

func (h *Handler) require(req access.Requirement) func(http.Handler) http.Handler {
	return middleware.RequireRole(h.roles, req, h.logger, h.metrics)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid renewal id")
		return
	}

	renewal, err := h.renewals.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "failed to get renewal")
		return
	}
	httputil.Write(w, r, http.StatusOK, models.ToResponse(renewal))
}

func (h *Handler) handleGetByLicence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	licenceID, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid licence id")
		return
	}

	renewal, err := h.renewals.GetOpenByLicence(ctx, licenceID)
	if err != nil {
		h.fail(ctx, w, err, "failed to get open renewal")
		return
	}
	httputil.Write(w, r, http.StatusOK, models.ToResponse(renewal))
}

func (h *Handler) handleListByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	renewals, err := h.renewals.ListByStatus(ctx, chi.URLParam(r, "status"))
	if err != nil {
		h.fail(ctx, w, err, "failed to list renewals")
		return
	}

	items := models.ToResponses(renewals)
	if httputil.PrefersXML(r) {
		httputil.WriteXML(w, http.StatusOK, models.RenewalList{Renewals: items})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := httputil.ParseForm(r); err != nil {
		h.fail(ctx, w, err, "invalid create renewal request")
		return
	}

	req := models.CreateRenewalRequest{
		LicenceID: r.Form.Get("licenceId"),
		Address:   r.Form.Get("address"),
		Email:     r.Form.Get("email"),
	}
	req.Normalize()
	if err := validation.Struct(&req); err != nil {
		h.fail(ctx, w, err, "invalid create renewal request")
		return
	}
	licenceID, err := req.ParsedLicenceID()
	if err != nil {
		h.fail(ctx, w, err, "invalid create renewal request")
		return
	}

	id, err := h.renewals.Create(ctx, licenceID, req.Address, req.Email)
	if err != nil {
		h.fail(ctx, w, err, "failed to create renewal")
		return
	}
	httputil.WriteCreated(w, "/renewals/"+strconv.FormatInt(id, 10))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid renewal id")
		return
	}
	if err := httputil.ParseForm(r); err != nil {
		h.fail(ctx, w, err, "invalid update renewal request")
		return
	}

	req := models.UpdateRenewalRequest{
		Address: httputil.FormValue(r, "address"),
		Email:   httputil.FormValue(r, "email"),
		Status:  httputil.FormValue(r, "status"),
		OwnedBy: httputil.FormValue(r, "ownedBy"),
	}
	req.Normalize()
	if err := validation.Struct(&req); err != nil {
		h.fail(ctx, w, err, "invalid update renewal request")
		return
	}
	upd, err := req.ToUpdate()
	if err != nil {
		h.fail(ctx, w, err, "invalid update renewal request")
		return
	}

	if err := h.renewals.Update(ctx, id, upd); err != nil {
		h.fail(ctx, w, err, "failed to update renewal")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid renewal id")
		return
	}

	if err := h.renewals.Close(ctx, id); err != nil {
		h.fail(ctx, w, err, "failed to close renewal")
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
