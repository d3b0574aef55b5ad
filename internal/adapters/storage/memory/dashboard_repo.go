package memory

import (
	"context"
	"errors"
	"sync"

	"pet-care-backend/internal/domain/dashboard"
)

type dashboardRepo struct {
	mu     sync.RWMutex
	byUser map[string]dashboard.Preferences
}

func NewDashboardRepo() dashboard.Repository {
	return &dashboardRepo{
		byUser: make(map[string]dashboard.Preferences),
	}
}

func (r *dashboardRepo) Get(ctx context.Context, userID string) (dashboard.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return dashboard.Preferences{}, dashboard.ErrNotFound
	}
	return p, nil
}

func (r *dashboardRepo) Put(ctx context.Context, p dashboard.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.UserID == "" {
		return errors.New("user id required")
	}
	r.byUser[p.UserID] = p
	return nil
}
