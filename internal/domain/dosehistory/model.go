package dosehistory

import (
	"time"

	"medremind/internal/engine"
)

// Entry es una toma (o una toma marcada como no realizada) registrada por el usuario.
type Entry struct {
	ID           string
	OwnerUserID  string
	MedicationID string

	Taken     bool
	Timestamp time.Time // momento de la toma declarado por el cliente

	RecordedAt time.Time
}

func (e Entry) Engine() engine.DoseEntry {
	return engine.DoseEntry{
		ID:           e.ID,
		MedicationID: e.MedicationID,
		Taken:        e.Taken,
		Timestamp:    e.Timestamp,
	}
}

func EngineAll(items []Entry) []engine.DoseEntry {
	out := make([]engine.DoseEntry, 0, len(items))
	for _, e := range items {
		out = append(out, e.Engine())
	}
	return out
}
