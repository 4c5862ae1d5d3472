package agreement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository stores agreements in Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open connection pool.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const agreementColumns = `id, client_chat_id, product_id, product_name, currency_code, sum,
	interest_rate, period_months, status, created_at`

// Create inserts a and returns it with the generated id.
func (r *Repository) Create(ctx context.Context, a Agreement) (Agreement, error) {
	query := `
		INSERT INTO agreements (client_chat_id, product_id, product_name, currency_code, sum,
			interest_rate, period_months, status, created_at)
		VALUES (:client_chat_id, :product_id, :product_name, :currency_code, :sum,
			:interest_rate, :period_months, :status, :created_at)
		RETURNING id`
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return Agreement{}, fmt.Errorf("prepare insert agreement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &a.ID, a); err != nil {
		return Agreement{}, fmt.Errorf("insert agreement: %w", err)
	}
	return a, nil
}

// ListByStatus returns agreements with status ordered by id.
func (r *Repository) ListByStatus(ctx context.Context, status Status) ([]Agreement, error) {
	var out []Agreement
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE status = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &out, query, status); err != nil {
		return nil, fmt.Errorf("select agreements: %w", err)
	}
	return out, nil
}

// Get loads one agreement by id.
func (r *Repository) Get(ctx context.Context, id int64) (Agreement, error) {
	var a Agreement
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE id = $1`
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Agreement{}, ErrNotFound
		}
		return Agreement{}, fmt.Errorf("select agreement %d: %w", id, err)
	}
	return a, nil
}

// UpdateStatus moves agreement id from one status to another.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE agreements SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("update agreement %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update agreement %d: %w", id, err)
	}
	if n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrNotNew
	}
	return nil
}
