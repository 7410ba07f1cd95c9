package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"renewal-gateway/internal/payment/metrics"
	"renewal-gateway/internal/payment/models"
	renewalmodels "renewal-gateway/internal/renewal/models"
	dErrors "renewal-gateway/pkg/domain-errors"
	"renewal-gateway/pkg/platform/sentinel"
	txcontext "renewal-gateway/pkg/platform/tx"
	"renewal-gateway/pkg/requestcontext"
)

// Store is the persistence contract for payments.
type Store interface {
	Create(ctx context.Context, p *models.Payment) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Payment, error)
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error
	UpdatePaidDate(ctx context.Context, id int64, paid time.Time) error
}

// RenewalLinker reads renewals and links a payment to one.
type RenewalLinker interface {
	FindByID(ctx context.Context, id int64) (*renewalmodels.Renewal, error)
	AttachPayment(ctx context.Context, id int64, paymentID int64) error
}

// Service creates payments and keeps each linked to exactly one renewal.
type Service struct {
	payments Store
	renewals RenewalLinker
	tx       txcontext.Runner
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTxRunner(tx txcontext.Runner) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func New(payments Store, renewals RenewalLinker, opts ...Option) *Service {
	s := &Service{
		payments: payments,
		renewals: renewals,
		tx:       txcontext.NewSerialRunner(),
		logger:   slog.Default(),
		tracer:   otel.GetTracerProvider().Tracer("renewal-gateway.payment.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "payment.get", trace.WithAttributes(attribute.Int64("payment.id", id)))
	defer span.End()

	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		err = translate(err, "payment not found", "failed to load payment")
		recordError(span, err)
		return nil, err
	}
	return p, nil
}

// Create inserts a payment for renewalID and links it to the renewal in the
// same transaction. A renewal that is unknown or already paid is rejected; a
// link step that cannot complete is a store inconsistency.
func (s *Service) Create(ctx context.Context, renewalID int64, amount decimal.Decimal) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "payment.create", trace.WithAttributes(attribute.Int64("renewal.id", renewalID)))
	defer span.End()

	var id int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		renewal, err := s.renewals.FindByID(ctx, renewalID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeBadRequest, "renewal does not exist")
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to load renewal")
		case renewal.HasPayment():
			return dErrors.New(dErrors.CodeBadRequest, "renewal already has a payment")
		}

		id, err = s.payments.Create(ctx, &models.Payment{RenewalID: renewalID, Amount: amount})
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.New(dErrors.CodeBadRequest, "renewal already has a payment")
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to create payment")
		case id <= 0:
			return dErrors.New(dErrors.CodeStoreInconsistency, "payment insert returned no id")
		}

		if err := s.renewals.AttachPayment(ctx, renewalID, id); err != nil {
			if s.metrics != nil {
				s.metrics.IncrementLinkFailures()
			}
			if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Wrap(err, dErrors.CodeStoreInconsistency, "payment could not be linked to renewal")
			}
			return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to link payment")
		}
		return nil
	})
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.ObserveCreated(amount)
	}
	s.logger.InfoContext(ctx, "payment created",
		"request_id", requestcontext.RequestID(ctx),
		"payment_id", id,
		"renewal_id", renewalID,
	)
	return id, nil
}

// Update writes the supplied amount and paid date together.
func (s *Service) Update(ctx context.Context, id int64, upd models.Update) error {
	ctx, span := s.tracer.Start(ctx, "payment.update", trace.WithAttributes(attribute.Int64("payment.id", id)))
	defer span.End()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if upd.IsEmpty() {
			_, err := s.payments.FindByID(ctx, id)
			return err
		}
		if upd.Amount != nil {
			if err := s.payments.UpdateAmount(ctx, id, *upd.Amount); err != nil {
				return err
			}
		}
		if upd.PaidDate != nil {
			if err := s.payments.UpdatePaidDate(ctx, id, *upd.PaidDate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = translate(err, "payment not found", "failed to update payment")
		recordError(span, err)
		return err
	}

	if !upd.IsEmpty() {
		s.logger.InfoContext(ctx, "payment updated",
			"request_id", requestcontext.RequestID(ctx),
			"payment_id", id,
		)
	}
	return nil
}

func translate(err error, notFoundMsg, failureMsg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, failureMsg)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
