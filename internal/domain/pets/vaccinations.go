package pets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type VaccinationInput struct {
	Name            string
	AdministeredAt  time.Time
	NextDueAt       *time.Time
	NotificationsOn bool
}

func (s *Service) AddVaccination(ctx context.Context, petID string, in VaccinationInput) (Pet, Vaccination, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, Vaccination{}, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, Vaccination{}, ErrInvalidInput
	}
	if in.AdministeredAt.IsZero() {
		return Pet{}, Vaccination{}, ErrInvalidInput
	}

	v := Vaccination{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		AdministeredAt:  in.AdministeredAt,
		NextDueAt:       in.NextDueAt,
		NotificationsOn: in.NotificationsOn,
	}

	p.Vaccinations = append(p.Vaccinations, v)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, Vaccination{}, err
	}
	return p, v, nil
}

type VaccinationPatch struct {
	Name            *string
	AdministeredAt  *time.Time
	NextDueAt       *time.Time
	ClearNextDue    bool
	NotificationsOn *bool
	Completed       *bool
}

func (s *Service) UpdateVaccination(ctx context.Context, petID, vaccinationID string, in VaccinationPatch) (Pet, Vaccination, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, Vaccination{}, err
	}

	idx := -1
	for i := range p.Vaccinations {
		if p.Vaccinations[i].ID == vaccinationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Pet{}, Vaccination{}, ErrNotFound
	}

	v := p.Vaccinations[idx]
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, Vaccination{}, ErrInvalidInput
		}
		v.Name = strings.TrimSpace(*in.Name)
	}
	if in.AdministeredAt != nil {
		v.AdministeredAt = *in.AdministeredAt
	}
	if in.ClearNextDue {
		v.NextDueAt = nil
	} else if in.NextDueAt != nil {
		v.NextDueAt = in.NextDueAt
	}
	if in.NotificationsOn != nil {
		v.NotificationsOn = *in.NotificationsOn
	}
	if in.Completed != nil {
		v.Completed = *in.Completed
	}

	p.Vaccinations[idx] = v
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, Vaccination{}, err
	}
	return p, v, nil
}

func (s *Service) RemoveVaccination(ctx context.Context, petID, vaccinationID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	kept := p.Vaccinations[:0]
	found := false
	for _, v := range p.Vaccinations {
		if v.ID == vaccinationID {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return Pet{}, ErrNotFound
	}

	p.Vaccinations = kept
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
