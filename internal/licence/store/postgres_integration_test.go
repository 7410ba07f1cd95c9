//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"renewal-gateway/internal/licence/models"
	"renewal-gateway/internal/licence/store"
	"renewal-gateway/internal/platform/postgres"
	"renewal-gateway/pkg/platform/sentinel"
	"renewal-gateway/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.postgres.DB))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	// Truncate in dependency order
	err := s.postgres.TruncateTables(context.Background(), "renewals", "payments", "licences")
	s.Require().NoError(err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) create(number string, expiry time.Time) int64 {
	id, err := s.store.Create(context.Background(), &models.Licence{
		Number: number, Name: "N", LicenceClass: "C", Address: "A", Email: "e@x.io", ExpiryDate: expiry,
	})
	s.Require().NoError(err)
	return id
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	id := s.create("L-1", date(2028, 2, 29))

	found, err := s.store.FindByID(ctx, id)
	s.Require().NoError(err)
	s.Equal("L-1", found.Number)
	s.Equal(date(2028, 2, 29), found.ExpiryDate)

	_, err = s.store.FindByID(ctx, id+100)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Create(ctx, &models.Licence{Number: "L-1", ExpiryDate: date(2030, 1, 1)})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestListExpiringBeforeIsStrict() {
	ctx := context.Background()
	early := s.create("early", date(2025, 6, 1))
	s.create("boundary", date(2025, 6, 30))

	out, err := s.store.ListExpiringBefore(ctx, date(2025, 6, 30))
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(early, out[0].ID)
}

func (s *PostgresStoreSuite) TestUpdates() {
	ctx := context.Background()
	id := s.create("L-upd", date(2030, 1, 1))

	s.Require().NoError(s.store.UpdateAddress(ctx, id, "2 Pitt St"))
	s.Require().NoError(s.store.UpdateEmail(ctx, id, "new@example.com"))
	s.Require().NoError(s.store.UpdateExpiryDate(ctx, id, date(2031, 7, 4)))

	found, err := s.store.FindByID(ctx, id)
	s.Require().NoError(err)
	s.Equal("2 Pitt St", found.Address)
	s.Equal("new@example.com", found.Email)
	s.Equal(date(2031, 7, 4), found.ExpiryDate)

	s.ErrorIs(s.store.UpdateAddress(ctx, id+100, "x"), sentinel.ErrNotFound)
}
