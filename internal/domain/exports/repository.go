package exports

import "context"

type Repository interface {
	Create(ctx context.Context, j Job) error
	Update(ctx context.Context, j Job) error
	GetByID(ctx context.Context, id string) (Job, error)
	ListByUser(ctx context.Context, userID string) ([]Job, error)
}
