package capabilities

import "context"

// Feature son los flags booleanos que expone un plan.
type Feature string

const (
	FeatureHealthRecords Feature = "health_records"
	FeatureDataExport    Feature = "data_export"
)

// Resolver responde las capacidades efectivas de un usuario según su
// suscripción vigente. Lo implementa el módulo subscriptions; se define
// acá como port para no crear ciclos de imports (pets/exports -> subscriptions).
type Resolver interface {
	MaxPets(ctx context.Context, userID string) (int, error)
	HasFeature(ctx context.Context, userID string, f Feature) (bool, error)
}
