package medications

import (
	"time"

	"medremind/internal/engine"
)

// Medication es un tratamiento registrado por un usuario.
type Medication struct {
	ID          string
	OwnerUserID string

	Name   string
	Dosage string
	Times  []string // HH:MM. Vacío = según necesidad

	StartDate engine.Date
	Duration  engine.DurationLabel // "30 days", "Ongoing"

	// Stock: nil = desconocido
	CurrentSupply *int
	TotalSupply   *int
	RefillAt      int

	RefillReminder  bool
	ReminderEnabled bool

	Color          string
	LastRefillDate engine.Date
	Notes          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Engine convierte al registro que entiende el motor de cálculo.
func (m Medication) Engine() engine.Medication {
	times := make([]string, len(m.Times))
	copy(times, m.Times)

	return engine.Medication{
		ID:              m.ID,
		Name:            m.Name,
		Dosage:          m.Dosage,
		Times:           times,
		StartDate:       m.StartDate.String(),
		Duration:        m.Duration,
		CurrentSupply:   m.CurrentSupply,
		TotalSupply:     m.TotalSupply,
		RefillAt:        m.RefillAt,
		RefillReminder:  m.RefillReminder,
		ReminderEnabled: m.ReminderEnabled,
		Color:           m.Color,
		LastRefillDate:  m.LastRefillDate.String(),
	}
}

// EngineAll convierte una lista preservando el orden.
func EngineAll(items []Medication) []engine.Medication {
	out := make([]engine.Medication, 0, len(items))
	for _, m := range items {
		out = append(out, m.Engine())
	}
	return out
}
