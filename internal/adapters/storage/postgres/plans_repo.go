package postgres

import (
	"context"
	"database/sql"

	"pet-care-backend/internal/domain/plans"
)

type PlansRepo struct {
	db *sql.DB
}

func NewPlansRepo(db *sql.DB) *PlansRepo {
	return &PlansRepo{db: db}
}

func (r *PlansRepo) Create(ctx context.Context, p plans.Plan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plans (id, name, max_pets, health_records, data_export, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		p.ID,
		string(p.Name),
		p.MaxPets,
		p.HealthRecords,
		p.DataExport,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PlansRepo) Update(ctx context.Context, p plans.Plan) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE plans
		SET name = $2, max_pets = $3, health_records = $4, data_export = $5, updated_at = $6
		WHERE id = $1
	`,
		p.ID,
		string(p.Name),
		p.MaxPets,
		p.HealthRecords,
		p.DataExport,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return plans.ErrNotFound
	}
	return nil
}

func (r *PlansRepo) GetByID(ctx context.Context, id string) (plans.Plan, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *PlansRepo) GetByName(ctx context.Context, name plans.PlanName) (plans.Plan, error) {
	return r.getBy(ctx, `WHERE name = $1`, string(name))
}

func (r *PlansRepo) getBy(ctx context.Context, where string, arg any) (plans.Plan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, max_pets, health_records, data_export, created_at, updated_at
		FROM plans `+where, arg)

	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return plans.Plan{}, plans.ErrNotFound
	}
	return p, err
}

func (r *PlansRepo) List(ctx context.Context) ([]plans.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, max_pets, health_records, data_export, created_at, updated_at
		FROM plans
		ORDER BY max_pets ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []plans.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlan(s scanner) (plans.Plan, error) {
	var p plans.Plan
	var name string
	err := s.Scan(&p.ID, &name, &p.MaxPets, &p.HealthRecords, &p.DataExport, &p.CreatedAt, &p.UpdatedAt)
	p.Name = plans.PlanName(name)
	return p, err
}
