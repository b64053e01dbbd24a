package facility

import "context"

type Repository interface {
	Create(ctx context.Context, orgID int, name, location string) (*Facility, error)
	GetByID(ctx context.Context, id int) (*Facility, error)
	ListByOrg(ctx context.Context, orgID int) ([]Facility, error)
}
