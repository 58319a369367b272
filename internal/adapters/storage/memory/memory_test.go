package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"medremind/internal/domain/dosehistory"
	"medremind/internal/domain/medications"
	"medremind/internal/engine"
)

func TestMedicationRepo_ListNewestFirstAndScoped(t *testing.T) {
	repo := NewMedicationRepo()
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		owner := "user-1"
		if id == "c" {
			owner = "user-2"
		}
		m := medications.Medication{ID: id, OwnerUserID: owner, Name: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	items, err := repo.ListByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestMedicationRepo_CopiesOnReadAndWrite(t *testing.T) {
	repo := NewMedicationRepo()
	ctx := context.Background()

	m := medications.Medication{ID: "a", OwnerUserID: "user-1", Times: []string{"08:00"}, CurrentSupply: engine.IntPtr(5)}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	m.Times[0] = "23:00"
	*m.CurrentSupply = 0

	got, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Times[0] != "08:00" || *got.CurrentSupply != 5 {
		t.Fatalf("stored medication was mutated: %+v", got)
	}
}

func TestMedicationRepo_NotFound(t *testing.T) {
	repo := NewMedicationRepo()
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, medications.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, medications.Medication{ID: "missing"}); !errors.Is(err, medications.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, medications.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Create(ctx, medications.Medication{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestDoseHistoryRepo_FilterAndDelete(t *testing.T) {
	repo := NewDoseHistoryRepo()
	ctx := context.Background()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	entries := []dosehistory.Entry{
		{ID: "1", OwnerUserID: "user-1", MedicationID: "a", Taken: true, Timestamp: day.Add(8 * time.Hour)},
		{ID: "2", OwnerUserID: "user-1", MedicationID: "a", Taken: true, Timestamp: day.Add(-time.Hour)},
		{ID: "3", OwnerUserID: "user-1", MedicationID: "b", Taken: false, Timestamp: day.Add(9 * time.Hour)},
		{ID: "4", OwnerUserID: "user-2", MedicationID: "a", Taken: true, Timestamp: day.Add(8 * time.Hour)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	to := day.AddDate(0, 0, 1)
	items, err := repo.ListByOwner(ctx, "user-1", dosehistory.ListFilter{From: &day, To: &to, MedicationID: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Fatalf("unexpected items: %+v", items)
	}

	n, err := repo.DeleteByMedication(ctx, "user-1", "a")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	// no toca las tomas de otro usuario
	items, _ = repo.ListByOwner(ctx, "user-2", dosehistory.ListFilter{})
	if len(items) != 1 {
		t.Fatalf("expected other user's entry to survive, got %d", len(items))
	}
}
