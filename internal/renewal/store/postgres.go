package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"renewal-gateway/internal/platform/postgres"
	"renewal-gateway/internal/renewal/models"
	"renewal-gateway/pkg/platform/sentinel"
	txcontext "renewal-gateway/pkg/platform/tx"
)

// PostgresStore persists renewals in PostgreSQL. The partial unique index
// renewals_open_per_licence guarantees one open renewal per licence.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed renewal store.
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

const renewalColumns = `id, licence_id, address, email, status, owned_by, payment_id`

func (s *PostgresStore) Create(ctx context.Context, r *models.Renewal) (int64, error) {
	query := `
		INSERT INTO renewals (licence_id, address, email, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := s.execer(ctx).QueryRowContext(ctx, query, r.LicenceID, r.Address, r.Email, string(r.Status)).Scan(&id)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return 0, sentinel.ErrConflict
		case postgres.IsForeignKeyViolation(err):
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("insert renewal: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals WHERE id = $1`
	r, err := scanRenewal(s.execer(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find renewal by id: %w", err)
	}
	return r, nil
}

// FindOpenByLicence returns the licence's open renewal. More than one open row
// breaks the schema's invariant and is reported as ErrInvalidState.
func (s *PostgresStore) FindOpenByLicence(ctx context.Context, licenceID int64) (*models.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals WHERE licence_id = $1 AND status <> $2 ORDER BY id LIMIT 2`
	rows, err := s.execer(ctx).QueryContext(ctx, query, licenceID, string(models.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("query open renewal: %w", err)
	}
	defer rows.Close()

	found, err := collect(rows)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, sentinel.ErrNotFound
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("licence %d has %d open renewals: %w", licenceID, len(found), sentinel.ErrInvalidState)
	}
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.Renewal, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewals WHERE status = $1 ORDER BY id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query renewals by status: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (s *PostgresStore) UpdateAddress(ctx context.Context, id int64, address string) error {
	return s.update(ctx, "update renewal address", `UPDATE renewals SET address = $1 WHERE id = $2`, address, id)
}

func (s *PostgresStore) UpdateEmail(ctx context.Context, id int64, email string) error {
	return s.update(ctx, "update renewal email", `UPDATE renewals SET email = $1 WHERE id = $2`, email, id)
}

func (s *PostgresStore) UpdateOwnedBy(ctx context.Context, id int64, ownedBy string) error {
	return s.update(ctx, "update renewal owner", `UPDATE renewals SET owned_by = $1 WHERE id = $2`, ownedBy, id)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	return s.update(ctx, "update renewal status", `UPDATE renewals SET status = $1 WHERE id = $2`, string(status), id)
}

// AttachPayment sets payment_id only while it is still NULL, so a renewal is
// linked at most once even under concurrent payment creation.
func (s *PostgresStore) AttachPayment(ctx context.Context, id int64, paymentID int64) error {
	return s.update(ctx, "attach payment",
		`UPDATE renewals SET payment_id = $1 WHERE id = $2 AND payment_id IS NULL`, paymentID, id)
}

func (s *PostgresStore) update(ctx context.Context, op, query string, value any, id int64) error {
	res, err := s.execer(ctx).ExecContext(ctx, query, value, id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
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

func scanRenewal(row rowScanner) (*models.Renewal, error) {
	var (
		r         models.Renewal
		status    string
		ownedBy   sql.NullString
		paymentID sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.LicenceID, &r.Address, &r.Email, &status, &ownedBy, &paymentID); err != nil {
		return nil, err
	}
	r.Status = models.Status(status)
	if ownedBy.Valid {
		r.OwnedBy = &ownedBy.String
	}
	if paymentID.Valid {
		r.PaymentID = &paymentID.Int64
	}
	return &r, nil
}

func collect(rows *sql.Rows) ([]*models.Renewal, error) {
	var out []*models.Renewal
	for rows.Next() {
		r, err := scanRenewal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan renewal: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renewals: %w", err)
	}
	return out, nil
}
