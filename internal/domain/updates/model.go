package updates

import "time"

// Kind indica qué clase de obligación generó el update.
type Kind string

const (
	KindSchedule    Kind = "schedule"
	KindVaccination Kind = "vaccination"
	KindVetVisit    Kind = "vetVisit"
)

// Update es una notificación del feed del usuario.
//
// Invariante: como máximo UN update activo por (UserID, SourceID, ScheduledFor).
// Dismiss lo desactiva (soft delete), nunca se borra físicamente desde acá.
type Update struct {
	ID     string
	UserID string

	Kind    Kind
	Title   string
	Message string

	// PetID/PetName denormalizados para no hacer join al listar el feed.
	PetID   string
	PetName string

	// SourceID es el ID estable de la obligación (schedule/vacuna/visita)
	// que originó el update; es la clave de dedup junto con ScheduledFor.
	SourceID     string
	ScheduledFor time.Time

	Read   bool
	Active bool

	CreatedAt time.Time
}
