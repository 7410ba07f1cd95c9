package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"renewal-gateway/internal/licence/metrics"
	"renewal-gateway/internal/licence/models"
	"renewal-gateway/internal/licence/service/mocks"
	dErrors "renewal-gateway/pkg/domain-errors"
	"renewal-gateway/pkg/platform/sentinel"
	"renewal-gateway/pkg/testutil"
)

type LicenceServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	service *Service
	ctx     context.Context
}

func TestLicenceServiceSuite(t *testing.T) {
	suite.Run(t, new(LicenceServiceSuite))
}

func (s *LicenceServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.service = New(s.store,
		WithLogger(testutil.DiscardLogger()),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	s.ctx = context.Background()
}

func (s *LicenceServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *LicenceServiceSuite) TestGet() {
	s.Run("returns licence", func() {
		s.store.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&models.Licence{ID: 7, Number: "L-7"}, nil)

		l, err := s.service.Get(s.ctx, 7)
		s.Require().NoError(err)
		s.Equal("L-7", l.Number)
	})

	s.Run("not found", func() {
		s.store.EXPECT().FindByID(gomock.Any(), int64(8)).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Get(s.ctx, 8)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is backend unavailable", func() {
		s.store.EXPECT().FindByID(gomock.Any(), int64(9)).Return(nil, errors.New("connection reset"))

		_, err := s.service.Get(s.ctx, 9)
		s.True(dErrors.HasCode(err, dErrors.CodeBackendUnavailable))
		s.NotContains(err.Error(), "licence not found")
	})
}

func (s *LicenceServiceSuite) TestListExpiring() {
	threshold := date(2026, 1, 1)

	s.Run("returns licences", func() {
		s.store.EXPECT().ListExpiringBefore(gomock.Any(), threshold).
			Return([]*models.Licence{{ID: 1}, {ID: 2}}, nil)

		out, err := s.service.ListExpiring(s.ctx, threshold)
		s.Require().NoError(err)
		s.Len(out, 2)
	})

	s.Run("empty result is not found", func() {
		s.store.EXPECT().ListExpiringBefore(gomock.Any(), threshold).Return(nil, nil)

		_, err := s.service.ListExpiring(s.ctx, threshold)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure", func() {
		s.store.EXPECT().ListExpiringBefore(gomock.Any(), threshold).Return(nil, errors.New("boom"))

		_, err := s.service.ListExpiring(s.ctx, threshold)
		s.True(dErrors.HasCode(err, dErrors.CodeBackendUnavailable))
	})
}

func (s *LicenceServiceSuite) TestUpdate() {
	address := "2 Pitt St"
	email := "new@example.com"
	expiry := date(2031, 5, 1)

	s.Run("writes only supplied fields", func() {
		s.store.EXPECT().UpdateEmail(gomock.Any(), int64(3), email).Return(nil)

		s.Require().NoError(s.service.Update(s.ctx, 3, models.Update{Email: &email}))
	})

	s.Run("writes every supplied field in order", func() {
		gomock.InOrder(
			s.store.EXPECT().UpdateAddress(gomock.Any(), int64(3), address).Return(nil),
			s.store.EXPECT().UpdateEmail(gomock.Any(), int64(3), email).Return(nil),
			s.store.EXPECT().UpdateExpiryDate(gomock.Any(), int64(3), expiry).Return(nil),
		)

		s.Require().NoError(s.service.Update(s.ctx, 3, models.Update{Address: &address, Email: &email, ExpiryDate: &expiry}))
	})

	s.Run("stops at the first failure", func() {
		s.store.EXPECT().UpdateAddress(gomock.Any(), int64(4), address).Return(sentinel.ErrNotFound)

		err := s.service.Update(s.ctx, 4, models.Update{Address: &address, Email: &email})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("empty update checks existence", func() {
		s.store.EXPECT().FindByID(gomock.Any(), int64(5)).Return(nil, sentinel.ErrNotFound)

		err := s.service.Update(s.ctx, 5, models.Update{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure", func() {
		s.store.EXPECT().UpdateExpiryDate(gomock.Any(), int64(6), expiry).Return(errors.New("boom"))

		err := s.service.Update(s.ctx, 6, models.Update{ExpiryDate: &expiry})
		s.True(dErrors.HasCode(err, dErrors.CodeBackendUnavailable))
	})
}
