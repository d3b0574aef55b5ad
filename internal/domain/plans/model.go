package plans

import "time"

// PlanName es el set cerrado de planes ofrecidos.
type PlanName string

const (
	PlanFree     PlanName = "Free Mode"
	PlanPremium1 PlanName = "Premium Tier 1"
	PlanPremium2 PlanName = "Premium Tier 2"
)

type Plan struct {
	ID   string
	Name PlanName

	MaxPets int

	// Feature flags del plan.
	HealthRecords bool
	DataExport    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
