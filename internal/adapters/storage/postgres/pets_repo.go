package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"pet-care-backend/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	schedules, vaccinations, visits, err := marshalChildren(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, owner_user_id,
			name, species, breed, sex,
			birth_date, notes,
			schedules, vaccinations, vet_visits,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		toNullDate(p.BirthDate),
		p.Notes,
		schedules,
		vaccinations,
		visits,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	schedules, vaccinations, visits, err := marshalChildren(p)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			sex = $5,
			birth_date = $6,
			notes = $7,
			schedules = $8,
			vaccinations = $9,
			vet_visits = $10,
			updated_at = $11
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		toNullDate(p.BirthDate),
		p.Notes,
		schedules,
		vaccinations,
		visits,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, species, breed, sex,
			birth_date, notes,
			schedules, vaccinations, vet_visits,
			created_at, updated_at
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, species, breed, sex,
			birth_date, notes,
			schedules, vaccinations, vet_visits,
			created_at, updated_at
		FROM pets
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) CountByOwner(ctx context.Context, ownerUserID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pets WHERE owner_user_id = $1`, ownerUserID,
	).Scan(&count)
	return count, err
}

// scanner cubre *sql.Row y *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPet(row scanner) (pets.Pet, error) {
	var p pets.Pet
	var bd sql.NullTime
	var schedules, vaccinations, visits []byte

	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Sex,
		&bd,
		&p.Notes,
		&schedules,
		&vaccinations,
		&visits,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	if bd.Valid {
		t := bd.Time
		p.BirthDate = &t
	}

	if err := json.Unmarshal(schedules, &p.Schedules); err != nil {
		return pets.Pet{}, err
	}
	if err := json.Unmarshal(vaccinations, &p.Vaccinations); err != nil {
		return pets.Pet{}, err
	}
	if err := json.Unmarshal(visits, &p.VetVisits); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func marshalChildren(p pets.Pet) (schedules, vaccinations, visits []byte, err error) {
	if schedules, err = json.Marshal(emptyIfNilSchedules(p.Schedules)); err != nil {
		return nil, nil, nil, err
	}
	if vaccinations, err = json.Marshal(emptyIfNilVaccinations(p.Vaccinations)); err != nil {
		return nil, nil, nil, err
	}
	if visits, err = json.Marshal(emptyIfNilVisits(p.VetVisits)); err != nil {
		return nil, nil, nil, err
	}
	return schedules, vaccinations, visits, nil
}

// jsonb no acepta NULL acá; normalizamos nil -> [].
func emptyIfNilSchedules(in []pets.Schedule) []pets.Schedule {
	if in == nil {
		return []pets.Schedule{}
	}
	return in
}

func emptyIfNilVaccinations(in []pets.Vaccination) []pets.Vaccination {
	if in == nil {
		return []pets.Vaccination{}
	}
	return in
}

func emptyIfNilVisits(in []pets.VetVisit) []pets.VetVisit {
	if in == nil {
		return []pets.VetVisit{}
	}
	return in
}

// birth_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
