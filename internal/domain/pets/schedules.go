package pets

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// validScheduleTypes es el set cerrado aceptado por la API.
var validScheduleTypes = map[ScheduleType]struct{}{
	ScheduleFeeding:    {},
	ScheduleMedication: {},
	ScheduleExercise:   {},
	ScheduleGrooming:   {},
	ScheduleTraining:   {},
	ScheduleOther:      {},
}

var validFrequencies = map[Frequency]struct{}{
	FrequencyDaily:   {},
	FrequencyWeekly:  {},
	FrequencyMonthly: {},
}

type ScheduleInput struct {
	Type            string
	Time            string
	Frequency       string
	Notes           string
	NotificationsOn bool
}

// AddSchedule agrega una rutina al agregado y persiste la mascota completa.
// OJO: no validamos el formato del Time acá; el sweep lo parsea y si no
// matchea el patrón 12h simplemente lo saltea.
func (s *Service) AddSchedule(ctx context.Context, petID string, in ScheduleInput) (Pet, Schedule, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, Schedule{}, err
	}

	st := ScheduleType(strings.TrimSpace(in.Type))
	if _, ok := validScheduleTypes[st]; !ok {
		return Pet{}, Schedule{}, ErrInvalidInput
	}
	freq := Frequency(strings.TrimSpace(in.Frequency))
	if freq == "" {
		freq = FrequencyDaily
	}
	if _, ok := validFrequencies[freq]; !ok {
		return Pet{}, Schedule{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Time) == "" {
		return Pet{}, Schedule{}, ErrInvalidInput
	}

	sch := Schedule{
		ID:              uuid.NewString(),
		Type:            st,
		Time:            strings.TrimSpace(in.Time),
		Frequency:       freq,
		Notes:           strings.TrimSpace(in.Notes),
		NotificationsOn: in.NotificationsOn,
	}

	p.Schedules = append(p.Schedules, sch)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, Schedule{}, err
	}
	return p, sch, nil
}

type SchedulePatch struct {
	Type            *string
	Time            *string
	Frequency       *string
	Notes           *string
	NotificationsOn *bool
	Completed       *bool
}

func (s *Service) UpdateSchedule(ctx context.Context, petID, scheduleID string, in SchedulePatch) (Pet, Schedule, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, Schedule{}, err
	}

	idx := -1
	for i := range p.Schedules {
		if p.Schedules[i].ID == scheduleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Pet{}, Schedule{}, ErrNotFound
	}

	sch := p.Schedules[idx]
	if in.Type != nil {
		st := ScheduleType(strings.TrimSpace(*in.Type))
		if _, ok := validScheduleTypes[st]; !ok {
			return Pet{}, Schedule{}, ErrInvalidInput
		}
		sch.Type = st
	}
	if in.Time != nil {
		if strings.TrimSpace(*in.Time) == "" {
			return Pet{}, Schedule{}, ErrInvalidInput
		}
		sch.Time = strings.TrimSpace(*in.Time)
	}
	if in.Frequency != nil {
		freq := Frequency(strings.TrimSpace(*in.Frequency))
		if _, ok := validFrequencies[freq]; !ok {
			return Pet{}, Schedule{}, ErrInvalidInput
		}
		sch.Frequency = freq
	}
	if in.Notes != nil {
		sch.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.NotificationsOn != nil {
		sch.NotificationsOn = *in.NotificationsOn
	}
	if in.Completed != nil {
		sch.Completed = *in.Completed
	}

	p.Schedules[idx] = sch
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, Schedule{}, err
	}
	return p, sch, nil
}

func (s *Service) RemoveSchedule(ctx context.Context, petID, scheduleID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	kept := p.Schedules[:0]
	found := false
	for _, sch := range p.Schedules {
		if sch.ID == scheduleID {
			found = true
			continue
		}
		kept = append(kept, sch)
	}
	if !found {
		return Pet{}, ErrNotFound
	}

	p.Schedules = kept
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
