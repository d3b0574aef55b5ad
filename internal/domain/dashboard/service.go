package dashboard

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

var validWidgetTypes = map[WidgetType]struct{}{
	WidgetUpcoming:      {},
	WidgetPets:          {},
	WidgetVaccinations:  {},
	WidgetRecentUpdates: {},
	WidgetPlanUsage:     {},
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

// Get devuelve las preferencias; un usuario sin layout guardado
// recibe el set vacío (no es error).
func (s *Service) Get(ctx context.Context, userID string) (Preferences, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Preferences{}, ErrInvalidInput
	}

	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Preferences{UserID: userID, Widgets: []Widget{}}, nil
		}
		return Preferences{}, err
	}
	return p, nil
}

type WidgetInput struct {
	ID       string
	Type     string
	Position int
	Enabled  bool
}

// Put reemplaza el layout completo.
func (s *Service) Put(ctx context.Context, userID string, widgets []WidgetInput) (Preferences, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Preferences{}, ErrInvalidInput
	}

	out := make([]Widget, 0, len(widgets))
	for _, w := range widgets {
		wt := WidgetType(strings.TrimSpace(w.Type))
		if _, ok := validWidgetTypes[wt]; !ok {
			return Preferences{}, ErrInvalidInput
		}
		id := strings.TrimSpace(w.ID)
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, Widget{
			ID:       id,
			Type:     wt,
			Position: w.Position,
			Enabled:  w.Enabled,
		})
	}

	p := Preferences{
		UserID:    userID,
		Widgets:   out,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}
