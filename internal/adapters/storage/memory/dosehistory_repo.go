package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"medremind/internal/domain/dosehistory"
)

type doseHistoryRepo struct {
	mu    sync.RWMutex
	items []dosehistory.Entry
}

func NewDoseHistoryRepo() dosehistory.Repository {
	return &doseHistoryRepo{}
}

func (r *doseHistoryRepo) Create(ctx context.Context, e dosehistory.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("dose id required")
	}
	r.items = append(r.items, e)
	return nil
}

func (r *doseHistoryRepo) ListByOwner(ctx context.Context, ownerUserID string, filter dosehistory.ListFilter) ([]dosehistory.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dosehistory.Entry, 0)
	for _, e := range r.items {
		if e.OwnerUserID == ownerUserID && filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *doseHistoryRepo) DeleteByMedication(ctx context.Context, ownerUserID, medicationID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]dosehistory.Entry, 0, len(r.items))
	deleted := 0
	for _, e := range r.items {
		if e.OwnerUserID == ownerUserID && e.MedicationID == medicationID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.items = kept
	return deleted, nil
}
