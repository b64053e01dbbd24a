package user

import "context"

type Repository interface {
	Create(ctx context.Context, orgID int, name, email, passwordHash, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	AddYouthAthlete(ctx context.Context, parentID int, name string, birthYear int, sport string) (*YouthAthlete, error)
	GetYouthAthlete(ctx context.Context, id int) (*YouthAthlete, error)
	ListYouthAthletes(ctx context.Context, parentID int) ([]YouthAthlete, error)
}
