package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-care-backend/internal/domain/plans"
)

type planRepo struct {
	mu   sync.RWMutex
	byID map[string]plans.Plan
}

func NewPlanRepo() plans.Repository {
	return &planRepo{
		byID: make(map[string]plans.Plan),
	}
}

func (r *planRepo) Create(ctx context.Context, p plans.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("plan id required")
	}
	// nombres únicos
	for _, existing := range r.byID {
		if existing.Name == p.Name {
			return errors.New("plan name already exists")
		}
	}
	r.byID[p.ID] = p
	return nil
}

func (r *planRepo) Update(ctx context.Context, p plans.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return plans.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *planRepo) GetByID(ctx context.Context, id string) (plans.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return plans.Plan{}, plans.ErrNotFound
	}
	return p, nil
}

func (r *planRepo) GetByName(ctx context.Context, name plans.PlanName) (plans.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Name == name {
			return p, nil
		}
	}
	return plans.Plan{}, plans.ErrNotFound
}

func (r *planRepo) List(ctx context.Context) ([]plans.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plans.Plan, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	// orden estable por max_pets asc (free primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].MaxPets < out[j].MaxPets
	})
	return out, nil
}
