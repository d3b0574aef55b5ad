package postgres

import (
	"context"
	"database/sql"

	"pet-care-backend/internal/domain/subscriptions"
)

type SubscriptionsRepo struct {
	db *sql.DB
}

func NewSubscriptionsRepo(db *sql.DB) *SubscriptionsRepo {
	return &SubscriptionsRepo{db: db}
}

func (r *SubscriptionsRepo) Create(ctx context.Context, s subscriptions.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, plan_id, status, started_at, ended_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		s.ID,
		s.UserID,
		s.PlanID,
		string(s.Status),
		s.StartedAt,
		s.EndedAt,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *SubscriptionsRepo) Update(ctx context.Context, s subscriptions.Subscription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET plan_id = $2, status = $3, started_at = $4, ended_at = $5, updated_at = $6
		WHERE id = $1
	`,
		s.ID,
		s.PlanID,
		string(s.Status),
		s.StartedAt,
		s.EndedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return subscriptions.ErrNotFound
	}
	return nil
}

func (r *SubscriptionsRepo) GetActiveByUser(ctx context.Context, userID string) (subscriptions.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, plan_id, status, started_at, ended_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1
	`, userID)

	s, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return subscriptions.Subscription{}, subscriptions.ErrNotFound
	}
	return s, err
}

func (r *SubscriptionsRepo) ListByUser(ctx context.Context, userID string) ([]subscriptions.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, plan_id, status, started_at, ended_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []subscriptions.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubscription(s scanner) (subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	var status string
	var endedAt sql.NullTime
	err := s.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanID,
		&status,
		&sub.StartedAt,
		&endedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	sub.Status = subscriptions.Status(status)
	if endedAt.Valid {
		t := endedAt.Time
		sub.EndedAt = &t
	}
	return sub, err
}
