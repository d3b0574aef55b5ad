package plans

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// defaults son los tres tiers fijos que se auto-provisionan si faltan.
var defaults = []Plan{
	{Name: PlanFree, MaxPets: 2},
	{Name: PlanPremium1, MaxPets: 5, HealthRecords: true},
	{Name: PlanPremium2, MaxPets: 10, HealthRecords: true, DataExport: true},
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// EnsureDefaults crea los planes fijos que no existan todavía.
// Idempotente: se llama en cada arranque.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, d := range defaults {
		if _, err := s.repo.GetByName(ctx, d.Name); err == nil {
			continue
		}
		now := s.now()
		p := Plan{
			ID:            uuid.NewString(),
			Name:          d.Name,
			MaxPets:       d.MaxPets,
			HealthRecords: d.HealthRecords,
			DataExport:    d.DataExport,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]Plan, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Plan{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name PlanName) (Plan, error) {
	return s.repo.GetByName(ctx, name)
}

// Free devuelve el plan Free Mode (fallback para usuarios sin suscripción).
func (s *Service) Free(ctx context.Context) (Plan, error) {
	return s.repo.GetByName(ctx, PlanFree)
}
