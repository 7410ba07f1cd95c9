package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"renewal-gateway/internal/renewal/metrics"
	"renewal-gateway/internal/renewal/models"
	dErrors "renewal-gateway/pkg/domain-errors"
	"renewal-gateway/pkg/platform/sentinel"
	txcontext "renewal-gateway/pkg/platform/tx"
	"renewal-gateway/pkg/requestcontext"
)

// Store is the persistence contract for renewals.
type Store interface {
	Create(ctx context.Context, r *models.Renewal) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Renewal, error)
	FindOpenByLicence(ctx context.Context, licenceID int64) (*models.Renewal, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Renewal, error)
	UpdateAddress(ctx context.Context, id int64, address string) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdateOwnedBy(ctx context.Context, id int64, ownedBy string) error
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
}

// LicenceChecker confirms that a licence exists.
type LicenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service owns the renewal lifecycle: creation under the one-open-renewal
// rule, partial updates, and closing.
type Service struct {
	renewals Store
	licences LicenceChecker
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

// WithTxRunner sets the transaction runner. Defaults to an in-process serial runner.
func WithTxRunner(tx txcontext.Runner) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// New constructs a Service.
func New(renewals Store, licences LicenceChecker, opts ...Option) *Service {
	s := &Service{
		renewals: renewals,
		licences: licences,
		tx:       txcontext.NewSerialRunner(),
		logger:   slog.Default(),
		tracer:   otel.GetTracerProvider().Tracer("renewal-gateway.renewal.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Renewal, error) {
	ctx, span := s.tracer.Start(ctx, "renewal.get", trace.WithAttributes(attribute.Int64("renewal.id", id)))
	defer span.End()

	r, err := s.renewals.FindByID(ctx, id)
	if err != nil {
		err = translate(err, "renewal not found", "failed to load renewal")
		recordError(span, err)
		return nil, err
	}
	return r, nil
}

// GetOpenByLicence returns the licence's renewal that is not yet completed.
func (s *Service) GetOpenByLicence(ctx context.Context, licenceID int64) (*models.Renewal, error) {
	ctx, span := s.tracer.Start(ctx, "renewal.get_open_by_licence", trace.WithAttributes(attribute.Int64("licence.id", licenceID)))
	defer span.End()

	r, err := s.renewals.FindOpenByLicence(ctx, licenceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			s.logger.ErrorContext(ctx, "licence has more than one open renewal",
				"request_id", requestcontext.RequestID(ctx),
				"licence_id", licenceID,
			)
		}
		err = translate(err, "no open renewal for licence", "failed to load open renewal")
		recordError(span, err)
		return nil, err
	}
	return r, nil
}

// ListByStatus validates raw before touching the store. An empty result is not found.
func (s *Service) ListByStatus(ctx context.Context, raw string) ([]*models.Renewal, error) {
	status, err := models.ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "renewal.list_by_status", trace.WithAttributes(attribute.String("renewal.status", string(status))))
	defer span.End()

	renewals, err := s.renewals.ListByStatus(ctx, status)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to list renewals")
		recordError(span, err)
		return nil, err
	}
	if len(renewals) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no renewals with status "+string(status))
	}
	return renewals, nil
}

// Create opens a PENDING renewal for an existing licence that has no open
// renewal. The existence checks and the insert share one transaction; the
// store's uniqueness constraint settles concurrent creators.
func (s *Service) Create(ctx context.Context, licenceID int64, address, email string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "renewal.create", trace.WithAttributes(attribute.Int64("licence.id", licenceID)))
	defer span.End()

	var id int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := s.licences.Exists(ctx, licenceID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to check licence")
		}
		if !exists {
			s.rejected("unknown_licence")
			return dErrors.New(dErrors.CodeBadRequest, "licence does not exist")
		}

		_, err = s.renewals.FindOpenByLicence(ctx, licenceID)
		switch {
		case err == nil, errors.Is(err, sentinel.ErrInvalidState):
			s.rejected("open_renewal_exists")
			return dErrors.New(dErrors.CodeBadRequest, "licence already has an open renewal")
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to check open renewals")
		}

		id, err = s.renewals.Create(ctx, &models.Renewal{
			LicenceID: licenceID,
			Address:   address,
			Email:     email,
			Status:    models.StatusPending,
		})
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			s.rejected("open_renewal_exists")
			return dErrors.New(dErrors.CodeBadRequest, "licence already has an open renewal")
		case errors.Is(err, sentinel.ErrNotFound):
			s.rejected("unknown_licence")
			return dErrors.New(dErrors.CodeBadRequest, "licence does not exist")
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to create renewal")
		}
		if id <= 0 {
			return dErrors.New(dErrors.CodeStoreInconsistency, "renewal insert returned no id")
		}
		return nil
	})
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRenewalsCreated()
	}
	s.logger.InfoContext(ctx, "renewal created",
		"request_id", requestcontext.RequestID(ctx),
		"renewal_id", id,
		"licence_id", licenceID,
	)
	return id, nil
}

// Update applies the supplied fields in one transaction. A completed renewal
// cannot be moved back to an open status.
func (s *Service) Update(ctx context.Context, id int64, upd models.Update) error {
	ctx, span := s.tracer.Start(ctx, "renewal.update", trace.WithAttributes(attribute.Int64("renewal.id", id)))
	defer span.End()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.renewals.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if upd.Status != nil && !models.CanTransition(current.Status, *upd.Status) {
			return dErrors.New(dErrors.CodeBadRequest, "a completed renewal cannot be reopened")
		}

		if upd.Address != nil {
			if err := s.renewals.UpdateAddress(ctx, id, *upd.Address); err != nil {
				return err
			}
		}
		if upd.Email != nil {
			if err := s.renewals.UpdateEmail(ctx, id, *upd.Email); err != nil {
				return err
			}
		}
		if upd.Status != nil && *upd.Status != current.Status {
			if err := s.renewals.UpdateStatus(ctx, id, *upd.Status); err != nil {
				if errors.Is(err, sentinel.ErrConflict) {
					return dErrors.New(dErrors.CodeBadRequest, "licence already has an open renewal")
				}
				return err
			}
		}
		if upd.OwnedBy != nil {
			if err := s.renewals.UpdateOwnedBy(ctx, id, *upd.OwnedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = translate(err, "renewal not found", "failed to update renewal")
		recordError(span, err)
		return err
	}

	if upd.Status != nil && s.metrics != nil {
		s.metrics.IncrementStatusTransition(string(*upd.Status))
	}
	if !upd.IsEmpty() {
		s.logger.InfoContext(ctx, "renewal updated",
			"request_id", requestcontext.RequestID(ctx),
			"renewal_id", id,
		)
	}
	return nil
}

// Close completes a renewal. Closing an already completed renewal succeeds.
func (s *Service) Close(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "renewal.close", trace.WithAttributes(attribute.Int64("renewal.id", id)))
	defer span.End()

	closed := false
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.renewals.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !current.IsOpen() {
			return nil
		}
		if err := s.renewals.UpdateStatus(ctx, id, models.StatusCompleted); err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		err = translate(err, "renewal not found", "failed to close renewal")
		recordError(span, err)
		return err
	}

	if closed {
		if s.metrics != nil {
			s.metrics.IncrementRenewalsClosed()
			s.metrics.IncrementStatusTransition(string(models.StatusCompleted))
		}
		s.logger.InfoContext(ctx, "renewal closed",
			"request_id", requestcontext.RequestID(ctx),
			"renewal_id", id,
		)
	}
	return nil
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}

// translate maps store facts onto domain errors. Domain errors pass through.
func translate(err error, notFoundMsg, failureMsg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeStoreInconsistency, "stored renewals violate the one-open-renewal rule")
	default:
		return dErrors.Wrap(err, dErrors.CodeBackendUnavailable, failureMsg)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
