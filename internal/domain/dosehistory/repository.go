package dosehistory

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Entry) error
	ListByOwner(ctx context.Context, ownerUserID string, filter ListFilter) ([]Entry, error)
	DeleteByMedication(ctx context.Context, ownerUserID, medicationID string) (int, error)
}

// ListFilter: From inclusivo, To exclusivo. Campos vacíos = sin filtro.
type ListFilter struct {
	From         *time.Time
	To           *time.Time
	MedicationID string
}

// Matches aplica el filtro en memoria (lo usan el repo in-memory y los tests).
func (f ListFilter) Matches(e Entry) bool {
	if f.MedicationID != "" && e.MedicationID != f.MedicationID {
		return false
	}
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && !e.Timestamp.Before(*f.To) {
		return false
	}
	return true
}
