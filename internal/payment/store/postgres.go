package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"renewal-gateway/internal/payment/models"
	"renewal-gateway/internal/platform/postgres"
	"renewal-gateway/pkg/civildate"
	"renewal-gateway/pkg/platform/sentinel"
	txcontext "renewal-gateway/pkg/platform/tx"
)

// PostgresStore persists payments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed payment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Create inserts the payment. The unique renewal_id column rejects a second
// payment for the same renewal with sentinel.ErrConflict.
func (s *PostgresStore) Create(ctx context.Context, p *models.Payment) (int64, error) {
	query := `
		INSERT INTO payments (renewal_id, amount, paid_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var paid any
	if p.PaidDate != nil {
		paid = civildate.FormatISO(*p.PaidDate)
	}
	var id int64
	err := s.execer(ctx).QueryRowContext(ctx, query, p.RenewalID, p.Amount, paid).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.Payment, error) {
	query := `SELECT id, renewal_id, amount, paid_date FROM payments WHERE id = $1`
	var (
		p    models.Payment
		paid sql.NullTime
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.RenewalID, &p.Amount, &paid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find payment by id: %w", err)
	}
	if paid.Valid {
		d := time.Date(paid.Time.Year(), paid.Time.Month(), paid.Time.Day(), 0, 0, 0, 0, time.UTC)
		p.PaidDate = &d
	}
	return &p, nil
}

func (s *PostgresStore) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	return s.update(ctx, "update payment amount", `UPDATE payments SET amount = $1 WHERE id = $2`, amount, id)
}

func (s *PostgresStore) UpdatePaidDate(ctx context.Context, id int64, paid time.Time) error {
	return s.update(ctx, "update payment paid date", `UPDATE payments SET paid_date = $1 WHERE id = $2`, civildate.FormatISO(paid), id)
}

func (s *PostgresStore) update(ctx context.Context, op, query string, value any, id int64) error {
	res, err := s.execer(ctx).ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
