package credit

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, parentID int, amountCents int64, source string, sourceSessionID *int, description string) (*Credit, error) {
	query := `
		INSERT INTO credits (parent_id, amount_cents, remaining_cents, source, source_session_id, description)
		VALUES ($1, $2, $2, $3, $4, $5)
		RETURNING id, parent_id, amount_cents, remaining_cents, source, source_session_id, description, created_at
	`

	var c Credit
	err := r.db.GetContext(ctx, &c, query, parentID, amountCents, source, sourceSessionID, description)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Credit, error) {
	query := `
		SELECT id, parent_id, amount_cents, remaining_cents, source, source_session_id, description, created_at
		FROM credits
		WHERE id = $1
	`

	var c Credit
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) ListByParent(ctx context.Context, parentID int) ([]Credit, error) {
	query := `
		SELECT id, parent_id, amount_cents, remaining_cents, source, source_session_id, description, created_at
		FROM credits
		WHERE parent_id = $1
		ORDER BY created_at DESC
	`

	var credits []Credit
	err := r.db.SelectContext(ctx, &credits, query, parentID)
	if err != nil {
		return nil, err
	}

	return credits, nil
}

func (r *repository) Balance(ctx context.Context, parentID int) (int64, error) {
	query := `
		SELECT COALESCE(SUM(remaining_cents), 0)
		FROM credits
		WHERE parent_id = $1
	`

	var balance int64
	err := r.db.GetContext(ctx, &balance, query, parentID)
	if err != nil {
		return 0, err
	}

	return balance, nil
}
