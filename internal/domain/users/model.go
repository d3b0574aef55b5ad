package users

import "time"

type User struct {
	ID    string
	Email string
	Name  string

	// PasswordHash es bcrypt; nunca sale por la API.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
