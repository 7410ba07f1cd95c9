package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"renewal-gateway/internal/licence/models"
	"renewal-gateway/internal/platform/postgres"
	"renewal-gateway/pkg/civildate"
	"renewal-gateway/pkg/platform/sentinel"
	txcontext "renewal-gateway/pkg/platform/tx"
)

// PostgresStore persists licences in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed licence store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const licenceColumns = `id, number, name, class, address, email, expiry_date`

func (s *PostgresStore) Create(ctx context.Context, l *models.Licence) (int64, error) {
	query := `
		INSERT INTO licences (number, name, class, address, email, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := s.execer(ctx).QueryRowContext(ctx, query,
		l.Number, l.Name, l.LicenceClass, l.Address, l.Email, civildate.FormatISO(l.ExpiryDate),
	).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("insert licence: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.Licence, error) {
	query := `SELECT ` + licenceColumns + ` FROM licences WHERE id = $1`
	l, err := scanLicence(s.execer(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find licence by id: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM licences WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check licence exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ListExpiringBefore(ctx context.Context, threshold time.Time) ([]*models.Licence, error) {
	query := `SELECT ` + licenceColumns + ` FROM licences WHERE expiry_date < $1 ORDER BY id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, civildate.FormatISO(threshold))
	if err != nil {
		return nil, fmt.Errorf("query expiring licences: %w", err)
	}
	defer rows.Close()

	var out []*models.Licence
	for rows.Next() {
		l, err := scanLicence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan licence: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate licences: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateAddress(ctx context.Context, id int64, address string) error {
	return s.update(ctx, "update licence address", `UPDATE licences SET address = $1 WHERE id = $2`, address, id)
}

func (s *PostgresStore) UpdateEmail(ctx context.Context, id int64, email string) error {
	return s.update(ctx, "update licence email", `UPDATE licences SET email = $1 WHERE id = $2`, email, id)
}

func (s *PostgresStore) UpdateExpiryDate(ctx context.Context, id int64, expiry time.Time) error {
	return s.update(ctx, "update licence expiry", `UPDATE licences SET expiry_date = $1 WHERE id = $2`, civildate.FormatISO(expiry), id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLicence(row rowScanner) (*models.Licence, error) {
	var l models.Licence
	var expiry time.Time
	if err := row.Scan(&l.ID, &l.Number, &l.Name, &l.LicenceClass, &l.Address, &l.Email, &expiry); err != nil {
		return nil, err
	}
	l.ExpiryDate = time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return &l, nil
}
