package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"renewal-gateway/internal/access"
	"renewal-gateway/internal/payment/models"
	"renewal-gateway/internal/platform/metrics"
	"renewal-gateway/internal/platform/middleware"
	dErrors "renewal-gateway/pkg/domain-errors"
	"renewal-gateway/pkg/platform/httputil"
	"renewal-gateway/pkg/platform/validation"
)

// Service defines the payment operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Payment, error)
	Create(ctx context.Context, renewalID int64, amount decimal.Decimal) (int64, error)
	Update(ctx context.Context, id int64, upd models.Update) error
}

// Handler handles payment endpoints.
type Handler struct {
	logger   *slog.Logger
	payments Service
	roles    middleware.RoleResolver
	metrics  *metrics.Metrics
}

// New creates a new payment Handler.
func New(payments Service, roles middleware.RoleResolver, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		payments: payments,
		roles:    roles,
		metrics:  m,
	}
}

// Register registers the payment routes with the chi router. Every route
// accepts drivers and officers.
func (h *Handler) Register(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(middleware.RequireRole(h.roles, access.DriverOrOfficer, h.logger, h.metrics))
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid payment id")
		return
	}

	p, err := h.payments.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, err, "failed to get payment")
		return
	}
	httputil.Write(w, r, http.StatusOK, models.ToResponse(p))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := httputil.ParseForm(r); err != nil {
		h.fail(ctx, w, err, "invalid create payment request")
		return
	}

	req := models.CreatePaymentRequest{
		RenewalID: r.Form.Get("renewalId"),
		Amount:    r.Form.Get("amount"),
	}
	req.Normalize()
	if err := validation.Struct(&req); err != nil {
		h.fail(ctx, w, err, "invalid create payment request")
		return
	}
	renewalID, amount, err := req.Parse()
	if err != nil {
		h.fail(ctx, w, err, "invalid create payment request")
		return
	}

	id, err := h.payments.Create(ctx, renewalID, amount)
	if err != nil {
		h.fail(ctx, w, err, "failed to create payment")
		return
	}
	httputil.WriteCreated(w, "/payments/"+strconv.FormatInt(id, 10))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.fail(ctx, w, err, "invalid payment id")
		return
	}
	if err := httputil.ParseForm(r); err != nil {
		h.fail(ctx, w, err, "invalid update payment request")
		return
	}

	req := models.UpdatePaymentRequest{
		Amount:   httputil.FormValue(r, "amount"),
		PaidDate: httputil.FormValue(r, "paidDate"),
	}
	req.Normalize()
	if err := validation.Struct(&req); err != nil {
		h.fail(ctx, w, err, "invalid update payment request")
		return
	}
	upd, err := req.ToUpdate()
	if err != nil {
		h.fail(ctx, w, err, "invalid update payment request")
		return
	}

	if err := h.payments.Update(ctx, id, upd); err != nil {
		h.fail(ctx, w, err, "failed to update payment")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	requestID := middleware.GetRequestID(ctx)
	if de, ok := dErrors.As(err); ok && de.Code.IsClientError() {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err.Error())
	} else {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err.Error())
	}
	httputil.WriteError(w, err)
}
