package postgres

import (
	"context"
	"database/sql"

	"pet-care-backend/internal/domain/exports"
)

type ExportsRepo struct {
	db *sql.DB
}

func NewExportsRepo(db *sql.DB) *ExportsRepo {
	return &ExportsRepo{db: db}
}

func (r *ExportsRepo) Create(ctx context.Context, j exports.Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO export_jobs (id, user_id, format, status, requested_at, completed_at, file_url, error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		j.ID,
		j.UserID,
		string(j.Format),
		string(j.Status),
		j.RequestedAt,
		j.CompletedAt,
		j.FileURL,
		j.Error,
	)
	return err
}

func (r *ExportsRepo) Update(ctx context.Context, j exports.Job) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE export_jobs
		SET status = $2, completed_at = $3, file_url = $4, error = $5
		WHERE id = $1
	`,
		j.ID,
		string(j.Status),
		j.CompletedAt,
		j.FileURL,
		j.Error,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return exports.ErrNotFound
	}
	return nil
}

func (r *ExportsRepo) GetByID(ctx context.Context, id string) (exports.Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, format, status, requested_at, completed_at, file_url, error
		FROM export_jobs
		WHERE id = $1
	`, id)

	j, err := scanExportJob(row)
	if err == sql.ErrNoRows {
		return exports.Job{}, exports.ErrNotFound
	}
	return j, err
}

func (r *ExportsRepo) ListByUser(ctx context.Context, userID string) ([]exports.Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, format, status, requested_at, completed_at, file_url, error
		FROM export_jobs
		WHERE user_id = $1
		ORDER BY requested_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []exports.Job
	for rows.Next() {
		j, err := scanExportJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func scanExportJob(s scanner) (exports.Job, error) {
	var j exports.Job
	var format, status string
	var completedAt sql.NullTime
	err := s.Scan(
		&j.ID,
		&j.UserID,
		&format,
		&status,
		&j.RequestedAt,
		&completedAt,
		&j.FileURL,
		&j.Error,
	)
	j.Format = exports.Format(format)
	j.Status = exports.Status(status)
	if completedAt.Valid {
		t := completedAt.Time
		j.CompletedAt = &t
	}
	return j, err
}
