package pets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type VetVisitInput struct {
	Reason          string
	VisitedAt       time.Time
	NextVisitAt     *time.Time
	NotificationsOn bool
}

func (s *Service) AddVetVisit(ctx context.Context, petID string, in VetVisitInput) (Pet, VetVisit, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, VetVisit{}, err
	}

	if in.VisitedAt.IsZero() {
		return Pet{}, VetVisit{}, ErrInvalidInput
	}

	v := VetVisit{
		ID:              uuid.NewString(),
		Reason:          strings.TrimSpace(in.Reason),
		VisitedAt:       in.VisitedAt,
		NextVisitAt:     in.NextVisitAt,
		NotificationsOn: in.NotificationsOn,
	}

	p.VetVisits = append(p.VetVisits, v)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, VetVisit{}, err
	}
	return p, v, nil
}

type VetVisitPatch struct {
	Reason          *string
	VisitedAt       *time.Time
	NextVisitAt     *time.Time
	ClearNextVisit  bool
	NotificationsOn *bool
	Completed       *bool
}

func (s *Service) UpdateVetVisit(ctx context.Context, petID, visitID string, in VetVisitPatch) (Pet, VetVisit, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, VetVisit{}, err
	}

	idx := -1
	for i := range p.VetVisits {
		if p.VetVisits[i].ID == visitID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Pet{}, VetVisit{}, ErrNotFound
	}

	v := p.VetVisits[idx]
	if in.Reason != nil {
		v.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.VisitedAt != nil {
		v.VisitedAt = *in.VisitedAt
	}
	if in.ClearNextVisit {
		v.NextVisitAt = nil
	} else if in.NextVisitAt != nil {
		v.NextVisitAt = in.NextVisitAt
	}
	if in.NotificationsOn != nil {
		v.NotificationsOn = *in.NotificationsOn
	}
	if in.Completed != nil {
		v.Completed = *in.Completed
	}

	p.VetVisits[idx] = v
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, VetVisit{}, err
	}
	return p, v, nil
}

func (s *Service) RemoveVetVisit(ctx context.Context, petID, visitID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	kept := p.VetVisits[:0]
	found := false
	for _, v := range p.VetVisits {
		if v.ID == visitID {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return Pet{}, ErrNotFound
	}

	p.VetVisits = kept
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
