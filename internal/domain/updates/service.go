package updates

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// maxFeedSize es el tope de updates activos que devuelve el listado.
const maxFeedSize = 50

// PetSource abstrae el módulo pets para el sweep (y evita acoplar al Service
// completo en los tests).
type PetSource interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetSource
	log  logger.Logger // puede ser nil (tests)
	now  func() time.Time
}

func NewService(repo Repository, petSource PetSource, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		pets: petSource,
		log:  log,
		now:  time.Now,
	}
}

func (s *Service) warn(msg string, fields map[string]any) {
	if s.log != nil {
		s.log.Warn(msg, fields)
	}
}

var validKinds = map[Kind]struct{}{
	KindSchedule:    {},
	KindVaccination: {},
	KindVetVisit:    {},
}

type CreateInput struct {
	UserID       string
	Kind         Kind
	Title        string
	Message      string
	PetID        string
	PetName      string
	SourceID     string
	ScheduledFor time.Time
}

// Create inserta un update directo (sin evaluar mascotas), con el mismo
// chequeo de dedup que el sweep. Si ya hay un update activo para la clave,
// no es error: devuelve created=false.
func (s *Service) Create(ctx context.Context, in CreateInput) (Update, bool, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.SourceID = strings.TrimSpace(in.SourceID)
	in.Title = strings.TrimSpace(in.Title)

	if in.UserID == "" || in.SourceID == "" || in.Title == "" {
		return Update{}, false, ErrInvalidInput
	}
	if _, ok := validKinds[in.Kind]; !ok {
		return Update{}, false, ErrInvalidInput
	}
	if in.ScheduledFor.IsZero() {
		return Update{}, false, ErrInvalidInput
	}

	u := Update{
		UserID:       in.UserID,
		Kind:         in.Kind,
		Title:        in.Title,
		Message:      strings.TrimSpace(in.Message),
		PetID:        strings.TrimSpace(in.PetID),
		PetName:      strings.TrimSpace(in.PetName),
		SourceID:     in.SourceID,
		ScheduledFor: in.ScheduledFor,
	}
	return s.createIfNew(ctx, u, s.now())
}

// createIfNew es el check-then-insert de dedup compartido por Create y el
// sweep. El índice único parcial de Postgres cubre la carrera entre sweeps
// concurrentes; acá solo evitamos el caso común.
func (s *Service) createIfNew(ctx context.Context, u Update, now time.Time) (Update, bool, error) {
	exists, err := s.repo.HasActive(ctx, u.UserID, u.SourceID, u.ScheduledFor)
	if err != nil {
		return Update{}, false, err
	}
	if exists {
		return Update{}, false, nil
	}

	u.ID = uuid.NewString()
	u.Read = false
	u.Active = true
	u.CreatedAt = now

	if err := s.repo.Create(ctx, u); err != nil {
		return Update{}, false, err
	}
	return u, true, nil
}

// List devuelve hasta maxFeedSize updates activos (más recientes primero)
// y el total de no leídos.
func (s *Service) List(ctx context.Context, userID string) ([]Update, int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, 0, ErrInvalidInput
	}

	items, err := s.repo.ListActiveByUser(ctx, userID, maxFeedSize)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidInput
	}
	return s.repo.MarkAllRead(ctx, userID)
}

// Dismiss apaga el update (active=false). La clave de dedup queda libre
// para un instante futuro distinto, no para el mismo.
func (s *Service) Dismiss(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Dismiss(ctx, id)
}
