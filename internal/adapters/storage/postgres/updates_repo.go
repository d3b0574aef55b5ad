package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-care-backend/internal/domain/updates"
)

type UpdatesRepo struct {
	db *sql.DB
}

func NewUpdatesRepo(db *sql.DB) *UpdatesRepo {
	return &UpdatesRepo{db: db}
}

// Create inserta con ON CONFLICT DO NOTHING contra el índice parcial de
// dedup: si dos sweeps corren a la vez, el segundo insert es un no-op.
func (r *UpdatesRepo) Create(ctx context.Context, u updates.Update) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO updates (
			id, user_id, kind, title, message,
			pet_id, pet_name, source_id, scheduled_for,
			read, active, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (user_id, source_id, scheduled_for) WHERE active DO NOTHING
	`,
		u.ID,
		u.UserID,
		string(u.Kind),
		u.Title,
		u.Message,
		u.PetID,
		u.PetName,
		u.SourceID,
		u.ScheduledFor,
		u.Read,
		u.Active,
		u.CreatedAt,
	)
	return err
}

func (r *UpdatesRepo) HasActive(ctx context.Context, userID, sourceID string, scheduledFor time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM updates
			WHERE user_id = $1 AND source_id = $2 AND scheduled_for = $3 AND active
		)
	`, userID, sourceID, scheduledFor).Scan(&exists)
	return exists, err
}

func (r *UpdatesRepo) ListActiveByUser(ctx context.Context, userID string, limit int) ([]updates.Update, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id, kind, title, message,
			pet_id, pet_name, source_id, scheduled_for,
			read, active, created_at
		FROM updates
		WHERE user_id = $1 AND active
		ORDER BY scheduled_for DESC, created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]updates.Update, 0)
	for rows.Next() {
		var u updates.Update
		if err := rows.Scan(
			&u.ID,
			&u.UserID,
			&u.Kind,
			&u.Title,
			&u.Message,
			&u.PetID,
			&u.PetName,
			&u.SourceID,
			&u.ScheduledFor,
			&u.Read,
			&u.Active,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UpdatesRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM updates WHERE user_id = $1 AND active AND NOT read`,
		userID,
	).Scan(&count)
	return count, err
}

func (r *UpdatesRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE updates SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return updates.ErrNotFound
	}
	return nil
}

func (r *UpdatesRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE updates SET read = TRUE WHERE user_id = $1 AND active AND NOT read`,
		userID)
	return err
}

func (r *UpdatesRepo) Dismiss(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE updates SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return updates.ErrNotFound
	}
	return nil
}
