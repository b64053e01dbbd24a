package credit

import "context"

type Repository interface {
	Create(ctx context.Context, parentID int, amountCents int64, source string, sourceSessionID *int, description string) (*Credit, error)
	GetByID(ctx context.Context, id int) (*Credit, error)
	ListByParent(ctx context.Context, parentID int) ([]Credit, error)
	Balance(ctx context.Context, parentID int) (int64, error)
}
