package user

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, orgID int, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (org_id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, org_id, name, email, password_hash, role, default_facility_id, created_at
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, orgID, name, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, org_id, name, email, password_hash, role, default_facility_id, created_at
		FROM users
		WHERE email = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, org_id, name, email, password_hash, role, default_facility_id, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) AddYouthAthlete(ctx context.Context, parentID int, name string, birthYear int, sport string) (*YouthAthlete, error) {
	query := `
		INSERT INTO youth_athletes (parent_id, name, birth_year, sport)
		VALUES ($1, $2, $3, $4)
		RETURNING id, parent_id, name, birth_year, sport, created_at
	`

	var ya YouthAthlete
	err := r.db.GetContext(ctx, &ya, query, parentID, name, birthYear, sport)
	if err != nil {
		return nil, err
	}

	return &ya, nil
}

func (r *repository) GetYouthAthlete(ctx context.Context, id int) (*YouthAthlete, error) {
	query := `
		SELECT id, parent_id, name, birth_year, sport, created_at
		FROM youth_athletes
		WHERE id = $1
	`

	var ya YouthAthlete
	err := r.db.GetContext(ctx, &ya, query, id)
	if err != nil {
		return nil, err
	}

	return &ya, nil
}

func (r *repository) ListYouthAthletes(ctx context.Context, parentID int) ([]YouthAthlete, error) {
	query := `
		SELECT id, parent_id, name, birth_year, sport, created_at
		FROM youth_athletes
		WHERE parent_id = $1
		ORDER BY created_at
	`

	var athletes []YouthAthlete
	err := r.db.SelectContext(ctx, &athletes, query, parentID)
	if err != nil {
		return nil, err
	}

	return athletes, nil
}
