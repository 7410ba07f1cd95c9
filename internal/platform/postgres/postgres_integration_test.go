//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	txcontext "renewal-gateway/pkg/platform/tx"
	"renewal-gateway/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	pg *containers.PostgresContainer
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(Migrate(context.Background(), s.pg.DB))
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "renewals", "payments", "licences"))
}

func (s *PostgresSuite) TestMigrateIsIdempotent() {
	s.Require().NoError(Migrate(context.Background(), s.pg.DB))
}

func (s *PostgresSuite) TestRunInTxCommits() {
	ctx := context.Background()
	runner := NewTxRunner(s.pg.DB)

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		tx, ok := txcontext.From(ctx)
		s.Require().True(ok)
		_, err := tx.ExecContext(ctx, `INSERT INTO licences (number, name, class, address, email, expiry_date)
			VALUES ('L-1', 'Ada', 'B', '1 Road', 'ada@example.com', '2030-01-01')`)
		return err
	})
	s.Require().NoError(err)

	var count int
	s.Require().NoError(s.pg.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM licences`).Scan(&count))
	s.Equal(1, count)
}

func (s *PostgresSuite) TestRunInTxRollsBackOnError() {
	ctx := context.Background()
	runner := NewTxRunner(s.pg.DB)
	boom := errors.New("boom")

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		tx, _ := txcontext.From(ctx)
		if _, err := tx.ExecContext(ctx, `INSERT INTO licences (number, name, class, address, email, expiry_date)
			VALUES ('L-2', 'Bob', 'B', '2 Road', 'bob@example.com', '2030-01-01')`); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	var count int
	s.Require().NoError(s.pg.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM licences`).Scan(&count))
	s.Equal(0, count)
}

func (s *PostgresSuite) TestOpenRenewalIndexRejectsSecondOpenRenewal() {
	ctx := context.Background()
	var licenceID int64
	s.Require().NoError(s.pg.DB.QueryRowContext(ctx, `INSERT INTO licences (number, name, class, address, email, expiry_date)
		VALUES ('L-3', 'Cy', 'B', '3 Road', 'cy@example.com', '2030-01-01') RETURNING id`).Scan(&licenceID))

	insert := `INSERT INTO renewals (licence_id, address, email, status) VALUES ($1, 'a', 'e@x.io', $2)`
	_, err := s.pg.DB.ExecContext(ctx, insert, licenceID, "COMPLETED")
	s.Require().NoError(err)
	_, err = s.pg.DB.ExecContext(ctx, insert, licenceID, "PENDING")
	s.Require().NoError(err)
	_, err = s.pg.DB.ExecContext(ctx, insert, licenceID, "PROCESSING")
	s.True(IsUniqueViolation(err))
}
