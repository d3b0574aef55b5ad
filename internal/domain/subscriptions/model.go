package subscriptions

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Subscription vincula un usuario con un plan.
// Invariante: a lo sumo UNA suscripción activa por usuario; cambiar de plan
// cancela la vigente y crea una nueva (no se pisan ni se apilan).
type Subscription struct {
	ID     string
	UserID string
	PlanID string

	Status    Status
	StartedAt time.Time
	EndedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
