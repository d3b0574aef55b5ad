package exports

import "time"

// Format define los formatos de export soportados.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job es el registro contable de un export de datos.
// Este módulo no genera el archivo: solo lleva el estado del pedido.
type Job struct {
	ID     string
	UserID string

	Format Format
	Status Status

	RequestedAt time.Time
	CompletedAt *time.Time

	FileURL string
	Error   string
}
