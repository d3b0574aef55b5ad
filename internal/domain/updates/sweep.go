package updates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-care-backend/internal/domain/pets"
	"pet-care-backend/internal/metrics"
)

// toleranceMinutes es la ventana de matcheo de schedules: asumimos que el
// sweep corre más o menos una vez por minuto.
const toleranceMinutes = 1

// reminderHour es la hora fija (09:00) para recordatorios por fecha
// (vacunas y visitas al vet, que no tienen hora propia).
const reminderHour = 9

// Check ejecuta un sweep para el usuario: recorre todas sus mascotas,
// evalúa schedules, vacunas y visitas, y materializa los updates que
// correspondan al instante actual. Devuelve SOLO los creados en esta
// invocación (los duplicados ya activos se saltean).
//
// Es seguro invocarlo en loop (polling): el dedup por
// (user, sourceID, scheduledFor) lo hace idempotente.
func (s *Service) Check(ctx context.Context, userID string) ([]Update, error) {
	return s.sweep(ctx, userID, s.now())
}

func (s *Service) sweep(ctx context.Context, userID string, now time.Time) ([]Update, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	metrics.SweepRuns.Inc()

	petList, err := s.pets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	created := make([]Update, 0)

	// Cada obligación se evalúa de forma independiente: un Time inválido en
	// un schedule no corta el resto. Un fallo del store sí corta el sweep,
	// pero lo ya creado queda persistido y no se repite en el próximo pase.
	for _, p := range petList {
		for _, sch := range p.Schedules {
			u, ok, err := s.checkSchedule(ctx, p, sch, now)
			if err != nil {
				return created, err
			}
			if ok {
				metrics.UpdatesCreated.WithLabelValues(string(KindSchedule)).Inc()
				created = append(created, u)
			}
		}

		for _, v := range p.Vaccinations {
			u, ok, err := s.checkVaccination(ctx, p, v, now)
			if err != nil {
				return created, err
			}
			if ok {
				metrics.UpdatesCreated.WithLabelValues(string(KindVaccination)).Inc()
				created = append(created, u)
			}
		}

		for _, vv := range p.VetVisits {
			u, ok, err := s.checkVetVisit(ctx, p, vv, now)
			if err != nil {
				return created, err
			}
			if ok {
				metrics.UpdatesCreated.WithLabelValues(string(KindVetVisit)).Inc()
				created = append(created, u)
			}
		}
	}

	return created, nil
}

// checkSchedule matchea la hora del schedule contra el minuto actual con
// tolerancia de ±1. Las tres frecuencias (daily/weekly/monthly) se evalúan
// igual: si el minuto matchea, notifica. La frecuencia se guarda pero
// todavía no filtra instancias.
func (s *Service) checkSchedule(ctx context.Context, p pets.Pet, sch pets.Schedule, now time.Time) (Update, bool, error) {
	if !sch.NotificationsOn {
		return Update{}, false, nil
	}

	hour, minute, err := parseClockTime(sch.Time)
	if err != nil {
		// Falla suave: este schedule se saltea, el resto sigue.
		s.warn("skipping schedule with unparseable time", map[string]any{
			"pet_id":      p.ID,
			"schedule_id": sch.ID,
			"time":        sch.Time,
		})
		return Update{}, false, nil
	}

	schedMin := hour*60 + minute
	nowMin := now.Hour()*60 + now.Minute()
	diff := schedMin - nowMin
	if diff < 0 {
		diff = -diff
	}
	if diff > toleranceMinutes {
		return Update{}, false, nil
	}

	occurrence := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	msg := fmt.Sprintf("It's %s time for %s.", strings.ToLower(sch.Type.Label()), p.Name)
	if sch.Notes != "" {
		msg += " " + sch.Notes
	}

	return s.createIfNew(ctx, Update{
		UserID:       p.OwnerUserID,
		Kind:         KindSchedule,
		Title:        sch.Type.Label() + " Reminder",
		Message:      msg,
		PetID:        p.ID,
		PetName:      p.Name,
		SourceID:     sch.ID,
		ScheduledFor: occurrence,
	}, now)
}

func (s *Service) checkVaccination(ctx context.Context, p pets.Pet, v pets.Vaccination, now time.Time) (Update, bool, error) {
	if !v.NotificationsOn || v.NextDueAt == nil {
		return Update{}, false, nil
	}
	if !dueOnOrBefore(*v.NextDueAt, now) {
		return Update{}, false, nil
	}

	occurrence := reminderInstant(now)
	msg := fmt.Sprintf("%s is due for the %s vaccine (%s).",
		p.Name, v.Name, v.NextDueAt.Format("2006-01-02"))

	return s.createIfNew(ctx, Update{
		UserID:       p.OwnerUserID,
		Kind:         KindVaccination,
		Title:        "Vaccination Due",
		Message:      msg,
		PetID:        p.ID,
		PetName:      p.Name,
		SourceID:     v.ID,
		ScheduledFor: occurrence,
	}, now)
}

func (s *Service) checkVetVisit(ctx context.Context, p pets.Pet, v pets.VetVisit, now time.Time) (Update, bool, error) {
	if !v.NotificationsOn || v.NextVisitAt == nil {
		return Update{}, false, nil
	}
	if !dueOnOrBefore(*v.NextVisitAt, now) {
		return Update{}, false, nil
	}

	occurrence := reminderInstant(now)
	msg := fmt.Sprintf("%s has a vet visit due (%s).",
		p.Name, v.NextVisitAt.Format("2006-01-02"))
	if v.Reason != "" {
		msg += " Reason: " + v.Reason
	}

	return s.createIfNew(ctx, Update{
		UserID:       p.OwnerUserID,
		Kind:         KindVetVisit,
		Title:        "Vet Visit Reminder",
		Message:      msg,
		PetID:        p.ID,
		PetName:      p.Name,
		SourceID:     v.ID,
		ScheduledFor: occurrence,
	}, now)
}

// dueOnOrBefore compara a granularidad de día (la hora del NextDueAt no importa).
func dueOnOrBefore(due, now time.Time) bool {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.After(today)
}

func reminderInstant(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), reminderHour, 0, 0, 0, now.Location())
}
