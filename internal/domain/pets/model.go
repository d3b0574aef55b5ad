package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, bird, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesBird  Species = "bird"
	SpeciesOther Species = "other"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet es el agregado raíz: los schedules, vacunas y visitas viven
// embebidos dentro de la mascota (no tienen ciclo de vida propio).
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Notes     string

	Schedules    []Schedule
	Vaccinations []Vaccination
	VetVisits    []VetVisit

	CreatedAt time.Time
	UpdatedAt time.Time
}
