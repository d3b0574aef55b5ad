package updates

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, u Update) error

	// HasActive responde si ya existe un update activo para la clave de dedup.
	HasActive(ctx context.Context, userID, sourceID string, scheduledFor time.Time) (bool, error)

	// ListActiveByUser devuelve updates activos ordenados por
	// (scheduled_for desc, created_at desc), con tope limit.
	ListActiveByUser(ctx context.Context, userID string, limit int) ([]Update, error)

	CountUnread(ctx context.Context, userID string) (int, error)

	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error

	// Dismiss marca active=false; el registro queda (soft removal).
	Dismiss(ctx context.Context, id string) error
}
