package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-backend/internal/domain/subscriptions"
)

type subscriptionRepo struct {
	mu   sync.RWMutex
	byID map[string]subscriptions.Subscription
}

func NewSubscriptionRepo() subscriptions.Repository {
	return &subscriptionRepo{
		byID: make(map[string]subscriptions.Subscription),
	}
}

func (r *subscriptionRepo) Create(ctx context.Context, s subscriptions.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("subscription id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("subscription already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *subscriptionRepo) Update(ctx context.Context, s subscriptions.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; !exists {
		return subscriptions.ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *subscriptionRepo) GetActiveByUser(ctx context.Context, userID string) (subscriptions.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner subscriptions.Subscription
	has := false
	for _, s := range r.byID {
		if s.UserID != userID || s.Status != subscriptions.StatusActive {
			continue
		}
		// por las dudas: si hubiera data sucia con más de una activa,
		// gana la más reciente
		if !has || s.UpdatedAt.After(winner.UpdatedAt) {
			winner = s
			has = true
		}
	}
	if !has {
		return subscriptions.Subscription{}, subscriptions.ErrNotFound
	}
	return winner, nil
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, userID string) ([]subscriptions.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subscriptions.Subscription, 0)
	for _, s := range r.byID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
