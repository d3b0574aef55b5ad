package subscriptions

import "context"

type Repository interface {
	Create(ctx context.Context, s Subscription) error
	Update(ctx context.Context, s Subscription) error
	GetActiveByUser(ctx context.Context, userID string) (Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]Subscription, error)
}
