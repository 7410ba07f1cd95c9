package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"renewal-gateway/internal/licence/metrics"
	"renewal-gateway/internal/licence/models"
	"renewal-gateway/pkg/civildate"
	dErrors "renewal-gateway/pkg/domain-errors"
	"renewal-gateway/pkg/platform/sentinel"
	txcontext "renewal-gateway/pkg/platform/tx"
	"renewal-gateway/pkg/requestcontext"
)

// Store is the persistence contract for licences.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Licence, error)
	ListExpiringBefore(ctx context.Context, threshold time.Time) ([]*models.Licence, error)
	UpdateAddress(ctx context.Context, id int64, address string) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdateExpiryDate(ctx context.Context, id int64, expiry time.Time) error
}

// Service reads licences and applies partial updates.
type Service struct {
	store   Store
	tx      txcontext.Runner
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
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
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tx:     txcontext.NewSerialRunner(),
		logger: slog.Default(),
		tracer: otel.GetTracerProvider().Tracer("renewal-gateway.licence.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns one licence.
func (s *Service) Get(ctx context.Context, id int64) (*models.Licence, error) {
	ctx, span := s.tracer.Start(ctx, "licence.get", trace.WithAttributes(attribute.Int64("licence.id", id)))
	defer span.End()

	l, err := s.store.FindByID(ctx, id)
	if err != nil {
		err = translate(err, "licence not found", "failed to load licence")
		recordError(span, err)
		return nil, err
	}
	return l, nil
}

// ListExpiring returns licences expiring strictly before threshold. An empty
// result is reported as not found.
func (s *Service) ListExpiring(ctx context.Context, threshold time.Time) ([]*models.Licence, error) {
	ctx, span := s.tracer.Start(ctx, "licence.list_expiring",
		trace.WithAttributes(attribute.String("licence.threshold", civildate.FormatISO(threshold))))
	defer span.End()
	start := time.Now()

	licences, err := s.store.ListExpiringBefore(ctx, threshold)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeBackendUnavailable, "failed to list expiring licences")
		recordError(span, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveListExpiring(start, len(licences))
	}
	if len(licences) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no licences expire before "+civildate.FormatDDMMYYYY(threshold))
	}
	return licences, nil
}

// Update writes the supplied fields in one transaction. An update naming an
// unknown licence is reported as not found, even when it carries no fields.
func (s *Service) Update(ctx context.Context, id int64, upd models.Update) error {
	ctx, span := s.tracer.Start(ctx, "licence.update", trace.WithAttributes(attribute.Int64("licence.id", id)))
	defer span.End()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if upd.IsEmpty() {
			_, err := s.store.FindByID(ctx, id)
			return err
		}
		if upd.Address != nil {
			if err := s.store.UpdateAddress(ctx, id, *upd.Address); err != nil {
				return err
			}
		}
		if upd.Email != nil {
			if err := s.store.UpdateEmail(ctx, id, *upd.Email); err != nil {
				return err
			}
		}
		if upd.ExpiryDate != nil {
			if err := s.store.UpdateExpiryDate(ctx, id, *upd.ExpiryDate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = translate(err, "licence not found", "failed to update licence")
		recordError(span, err)
		return err
	}

	if !upd.IsEmpty() {
		if s.metrics != nil {
			s.metrics.IncrementLicencesUpdated()
		}
		s.logger.InfoContext(ctx, "licence updated",
			"request_id", requestcontext.RequestID(ctx),
			"licence_id", id,
		)
	}
	return nil
}

// translate maps store facts onto domain errors. Domain errors pass through.
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
