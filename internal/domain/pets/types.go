package pets

import "time"

// ScheduleType define los tipos de rutina soportados.
type ScheduleType string

const (
	ScheduleFeeding    ScheduleType = "feeding"
	ScheduleMedication ScheduleType = "medication"
	ScheduleExercise   ScheduleType = "exercise"
	ScheduleGrooming   ScheduleType = "grooming"
	ScheduleTraining   ScheduleType = "training"
	ScheduleOther      ScheduleType = "other"
)

// Label devuelve el nombre "humano" del tipo (para títulos de notificación).
func (t ScheduleType) Label() string {
	switch t {
	case ScheduleFeeding:
		return "Feeding"
	case ScheduleMedication:
		return "Medication"
	case ScheduleExercise:
		return "Exercise"
	case ScheduleGrooming:
		return "Grooming"
	case ScheduleTraining:
		return "Training"
	default:
		return "Care"
	}
}

// Frequency define la recurrencia de un schedule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Schedule es una rutina con hora fija (ej: darle comida a las "7:30 PM").
// Time se guarda tal cual lo manda el cliente, en formato 12h con AM/PM;
// el sweep de notificaciones lo parsea y si no es válido lo ignora.
type Schedule struct {
	ID   string
	Type ScheduleType

	Time      string
	Frequency Frequency
	Notes     string

	NotificationsOn bool
	Completed       bool
}

// Vaccination registra una vacuna aplicada y, opcionalmente,
// la fecha de la próxima dosis (solo fecha, sin hora).
type Vaccination struct {
	ID   string
	Name string

	AdministeredAt time.Time
	NextDueAt      *time.Time

	NotificationsOn bool
	Completed       bool
}

// VetVisit registra una visita al veterinario y la próxima cita sugerida.
type VetVisit struct {
	ID     string
	Reason string

	VisitedAt   time.Time
	NextVisitAt *time.Time

	NotificationsOn bool
	Completed       bool
}
