package dashboard

import "context"

type Repository interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Put(ctx context.Context, p Preferences) error
}
