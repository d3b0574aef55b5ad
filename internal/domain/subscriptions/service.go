package subscriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-backend/internal/domain/plans"
	"pet-care-backend/internal/ports/capabilities"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// transition es la decisión explícita del "upsert" de suscripción:
// en vez de ramas ad hoc, el estado {sin suscripción, activa en X}
// más el plan pedido determinan una de tres acciones.
type transition int

const (
	transitionCreate transition = iota // no hay activa: crear nueva
	transitionRenew                    // activa en el mismo plan: refrescar
	transitionSwitch                   // activa en otro plan: cancelar y crear
)

func decide(current *Subscription, planID string) transition {
	if current == nil {
		return transitionCreate
	}
	if current.PlanID == planID {
		return transitionRenew
	}
	return transitionSwitch
}

type Service struct {
	repo  Repository
	plans *plans.Service
	now   func() time.Time
}

func NewService(repo Repository, planSvc *plans.Service) *Service {
	return &Service{
		repo:  repo,
		plans: planSvc,
		now:   time.Now,
	}
}

// Subscribe aplica la función de transición sobre la suscripción vigente.
func (s *Service) Subscribe(ctx context.Context, userID, planID string) (Subscription, error) {
	userID = strings.TrimSpace(userID)
	planID = strings.TrimSpace(planID)
	if userID == "" || planID == "" {
		return Subscription{}, ErrInvalidInput
	}

	// El plan tiene que existir.
	if _, err := s.plans.GetByID(ctx, planID); err != nil {
		return Subscription{}, ErrNotFound
	}

	var current *Subscription
	if cur, err := s.repo.GetActiveByUser(ctx, userID); err == nil {
		current = &cur
	}

	now := s.now()

	switch decide(current, planID) {
	case transitionRenew:
		current.StartedAt = now
		current.UpdatedAt = now
		if err := s.repo.Update(ctx, *current); err != nil {
			return Subscription{}, err
		}
		return *current, nil

	case transitionSwitch:
		current.Status = StatusCancelled
		current.EndedAt = &now
		current.UpdatedAt = now
		if err := s.repo.Update(ctx, *current); err != nil {
			return Subscription{}, err
		}
		fallthrough

	default: // transitionCreate
		sub := Subscription{
			ID:        uuid.NewString(),
			UserID:    userID,
			PlanID:    planID,
			Status:    StatusActive,
			StartedAt: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, sub); err != nil {
			return Subscription{}, err
		}
		return sub, nil
	}
}

// Current devuelve la suscripción activa y su plan.
func (s *Service) Current(ctx context.Context, userID string) (Subscription, plans.Plan, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Subscription{}, plans.Plan{}, ErrInvalidInput
	}

	sub, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return Subscription{}, plans.Plan{}, ErrNotFound
	}
	plan, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return Subscription{}, plans.Plan{}, err
	}
	return sub, plan, nil
}

// Cancel es idempotente: cancelar sin suscripción activa devuelve NotFound,
// cancelar dos veces no rompe nada.
func (s *Service) Cancel(ctx context.Context, userID string) (Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Subscription{}, ErrInvalidInput
	}

	sub, err := s.repo.GetActiveByUser(ctx, userID)
	if err != nil {
		return Subscription{}, ErrNotFound
	}

	now := s.now()
	sub.Status = StatusCancelled
	sub.EndedAt = &now
	sub.UpdatedAt = now

	if err := s.repo.Update(ctx, sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// effectivePlan resuelve el plan vigente del usuario; sin suscripción
// aplica Free Mode.
func (s *Service) effectivePlan(ctx context.Context, userID string) (plans.Plan, error) {
	if sub, err := s.repo.GetActiveByUser(ctx, userID); err == nil {
		return s.plans.GetByID(ctx, sub.PlanID)
	}
	return s.plans.Free(ctx)
}

// MaxPets implementa capabilities.Resolver.
func (s *Service) MaxPets(ctx context.Context, userID string) (int, error) {
	plan, err := s.effectivePlan(ctx, userID)
	if err != nil {
		return 0, err
	}
	return plan.MaxPets, nil
}

// HasFeature implementa capabilities.Resolver.
func (s *Service) HasFeature(ctx context.Context, userID string, f capabilities.Feature) (bool, error) {
	plan, err := s.effectivePlan(ctx, userID)
	if err != nil {
		return false, err
	}
	switch f {
	case capabilities.FeatureHealthRecords:
		return plan.HealthRecords, nil
	case capabilities.FeatureDataExport:
		return plan.DataExport, nil
	default:
		return false, nil
	}
}
