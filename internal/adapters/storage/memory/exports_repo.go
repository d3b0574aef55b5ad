package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-backend/internal/domain/exports"
)

type exportRepo struct {
	mu   sync.RWMutex
	byID map[string]exports.Job
}

func NewExportRepo() exports.Repository {
	return &exportRepo{
		byID: make(map[string]exports.Job),
	}
}

func (r *exportRepo) Create(ctx context.Context, j exports.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j.ID == "" {
		return errors.New("job id required")
	}
	if _, exists := r.byID[j.ID]; exists {
		return errors.New("job already exists")
	}
	r.byID[j.ID] = j
	return nil
}

func (r *exportRepo) Update(ctx context.Context, j exports.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[j.ID]; !exists {
		return exports.ErrNotFound
	}
	r.byID[j.ID] = j
	return nil
}

func (r *exportRepo) GetByID(ctx context.Context, id string) (exports.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.byID[id]
	if !ok {
		return exports.Job{}, exports.ErrNotFound
	}
	return j, nil
}

func (r *exportRepo) ListByUser(ctx context.Context, userID string) ([]exports.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exports.Job, 0)
	for _, j := range r.byID {
		if j.UserID == userID {
			out = append(out, j)
		}
	}

	// más recientes primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out, nil
}
