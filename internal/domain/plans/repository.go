package plans

import "context"

type Repository interface {
	Create(ctx context.Context, p Plan) error
	Update(ctx context.Context, p Plan) error
	GetByID(ctx context.Context, id string) (Plan, error)
	GetByName(ctx context.Context, name PlanName) (Plan, error)
	List(ctx context.Context) ([]Plan, error)
}
