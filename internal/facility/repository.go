package facility

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

func (r *repository) Create(ctx context.Context, orgID int, name, location string) (*Facility, error) {
	query := `
		INSERT INTO facilities (org_id, name, location)
		VALUES ($1, $2, $3)
		RETURNING id, org_id, name, location, created_at
	`

	var f Facility
	err := r.db.GetContext(ctx, &f, query, orgID, name, location)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Facility, error) {
	query := `
		SELECT id, org_id, name, location, created_at
		FROM facilities
		WHERE id = $1
	`

	var f Facility
	err := r.db.GetContext(ctx, &f, query, id)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *repository) ListByOrg(ctx context.Context, orgID int) ([]Facility, error) {
	query := `
		SELECT id, org_id, name, location, created_at
		FROM facilities
		WHERE org_id = $1
		ORDER BY name
	`

	var facilities []Facility
	err := r.db.SelectContext(ctx, &facilities, query, orgID)
	if err != nil {
		return nil, err
	}

	return facilities, nil
}
