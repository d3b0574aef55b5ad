package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"pet-care-backend/internal/domain/dashboard"
)

type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func (r *DashboardRepo) Get(ctx context.Context, userID string) (dashboard.Preferences, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, widgets, updated_at
		FROM dashboard_preferences
		WHERE user_id = $1
	`, userID)

	var p dashboard.Preferences
	var widgets []byte
	if err := row.Scan(&p.UserID, &widgets, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return dashboard.Preferences{}, dashboard.ErrNotFound
		}
		return dashboard.Preferences{}, err
	}
	if err := json.Unmarshal(widgets, &p.Widgets); err != nil {
		return dashboard.Preferences{}, err
	}
	return p, nil
}

// Put reemplaza el layout completo. Upsert por PK: el primer PUT crea la fila.
func (r *DashboardRepo) Put(ctx context.Context, p dashboard.Preferences) error {
	widgets, err := json.Marshal(p.Widgets)
	if err != nil {
		return err
	}
	if p.Widgets == nil {
		widgets = []byte("[]")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO dashboard_preferences (user_id, widgets, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE
		SET widgets = EXCLUDED.widgets, updated_at = EXCLUDED.updated_at
	`, p.UserID, widgets, p.UpdatedAt)
	return err
}
