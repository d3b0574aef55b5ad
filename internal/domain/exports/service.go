package exports

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-backend/internal/ports/capabilities"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrNotInPlan     = errors.New("data export not included in current plan")
	ErrAlreadyClosed = errors.New("job already completed or failed")
)

var validFormats = map[Format]struct{}{
	FormatJSON: {},
	FormatCSV:  {},
}

type Service struct {
	repo Repository
	caps capabilities.Resolver // puede ser nil (modo dev: sin gate)
	now  func() time.Time
}

func NewService(repo Repository, caps capabilities.Resolver) *Service {
	return &Service{
		repo: repo,
		caps: caps,
		now:  time.Now,
	}
}

// Request crea un job pending. El export en sí lo procesa otro componente;
// acá solo validamos formato y que el plan incluya la feature.
func (s *Service) Request(ctx context.Context, userID string, format Format) (Job, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Job{}, ErrInvalidInput
	}
	if _, ok := validFormats[format]; !ok {
		return Job{}, ErrInvalidInput
	}

	if s.caps != nil {
		allowed, err := s.caps.HasFeature(ctx, userID, capabilities.FeatureDataExport)
		if err != nil {
			return Job{}, err
		}
		if !allowed {
			return Job{}, ErrNotInPlan
		}
	}

	j := Job{
		ID:          uuid.NewString(),
		UserID:      userID,
		Format:      format,
		Status:      StatusPending,
		RequestedAt: s.now(),
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return Job{}, err
	}
	return j, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Job{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Job, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// Complete cierra el job con la URL del archivo generado.
func (s *Service) Complete(ctx context.Context, id, fileURL string) (Job, error) {
	return s.close(ctx, id, StatusCompleted, fileURL, "")
}

// Fail cierra el job con el motivo del fallo.
func (s *Service) Fail(ctx context.Context, id, reason string) (Job, error) {
	return s.close(ctx, id, StatusFailed, "", reason)
}

func (s *Service) close(ctx context.Context, id string, status Status, fileURL, reason string) (Job, error) {
	j, err := s.GetByID(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if j.Status == StatusCompleted || j.Status == StatusFailed {
		return Job{}, ErrAlreadyClosed
	}

	now := s.now()
	j.Status = status
	j.CompletedAt = &now
	j.FileURL = strings.TrimSpace(fileURL)
	j.Error = strings.TrimSpace(reason)

	if err := s.repo.Update(ctx, j); err != nil {
		return Job{}, err
	}
	return j, nil
}
