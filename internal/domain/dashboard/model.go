package dashboard

import "time"

// WidgetType define los widgets soportados por el dashboard del front.
type WidgetType string

const (
	WidgetUpcoming      WidgetType = "upcoming_reminders"
	WidgetPets          WidgetType = "my_pets"
	WidgetVaccinations  WidgetType = "vaccination_status"
	WidgetRecentUpdates WidgetType = "recent_updates"
	WidgetPlanUsage     WidgetType = "plan_usage"
)

type Widget struct {
	ID       string
	Type     WidgetType
	Position int
	Enabled  bool
}

// Preferences es el layout de widgets elegido por el usuario.
// Se reemplaza entero en cada PUT (no hay patch por widget).
type Preferences struct {
	UserID    string
	Widgets   []Widget
	UpdatedAt time.Time
}
