package payment

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, sessionID int, checkoutID string, amountCents int64) (*Payment, error) {
	query := `
		INSERT INTO payments (session_id, checkout_id, amount_cents, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, session_id, checkout_id, amount_cents, status, created_at, updated_at
	`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, sessionID, checkoutID, amountCents)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *Repository) SetStatus(ctx context.Context, sessionID int, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $2, updated_at = NOW() WHERE session_id = $1
	`, sessionID, status)
	return err
}

func (r *Repository) GetBySession(ctx context.Context, sessionID int) (*Payment, error) {
	query := `
		SELECT id, session_id, checkout_id, amount_cents, status, created_at, updated_at
		FROM payments
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, sessionID)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
