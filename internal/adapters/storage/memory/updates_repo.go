package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pet-care-backend/internal/domain/updates"
)

type updateRepo struct {
	mu   sync.RWMutex
	byID map[string]updates.Update
}

func NewUpdateRepo() updates.Repository {
	return &updateRepo{
		byID: make(map[string]updates.Update),
	}
}

func (r *updateRepo) Create(ctx context.Context, u updates.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("update id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("update already exists")
	}

	// Re-chequeo del invariante dentro del lock: el check-then-insert del
	// service no es atómico entre sweeps concurrentes, acá sí.
	if u.Active {
		for _, existing := range r.byID {
			if existing.Active &&
				existing.UserID == u.UserID &&
				existing.SourceID == u.SourceID &&
				existing.ScheduledFor.Equal(u.ScheduledFor) {
				// duplicado: lo tratamos como no-op (mismo efecto que
				// ON CONFLICT DO NOTHING en Postgres)
				return nil
			}
		}
	}

	r.byID[u.ID] = u
	return nil
}

func (r *updateRepo) HasActive(ctx context.Context, userID, sourceID string, scheduledFor time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Active && u.UserID == userID && u.SourceID == sourceID && u.ScheduledFor.Equal(scheduledFor) {
			return true, nil
		}
	}
	return false, nil
}

func (r *updateRepo) ListActiveByUser(ctx context.Context, userID string, limit int) ([]updates.Update, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]updates.Update, 0)
	for _, u := range r.byID {
		if u.Active && u.UserID == userID {
			out = append(out, u)
		}
	}

	// scheduled_for desc, created_at desc
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledFor.Equal(out[j].ScheduledFor) {
			return out[i].ScheduledFor.After(out[j].ScheduledFor)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *updateRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, u := range r.byID {
		if u.Active && !u.Read && u.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *updateRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return updates.ErrNotFound
	}
	u.Read = true
	r.byID[id] = u
	return nil
}

func (r *updateRepo) MarkAllRead(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.byID {
		if u.UserID == userID && u.Active && !u.Read {
			u.Read = true
			r.byID[id] = u
		}
	}
	return nil
}

func (r *updateRepo) Dismiss(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return updates.ErrNotFound
	}
	u.Active = false
	r.byID[id] = u
	return nil
}
