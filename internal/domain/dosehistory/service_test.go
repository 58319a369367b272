package dosehistory

import (
	"context"
	"errors"
	"testing"
	"time"

	"medremind/internal/domain/medications"
)

type testRepo struct {
	items []Entry
}

func (r *testRepo) Create(ctx context.Context, e Entry) error {
	r.items = append(r.items, e)
	return nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string, filter ListFilter) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range r.items {
		if e.OwnerUserID == ownerUserID && filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *testRepo) DeleteByMedication(ctx context.Context, ownerUserID, medicationID string) (int, error) {
	kept := r.items[:0]
	n := 0
	for _, e := range r.items {
		if e.OwnerUserID == ownerUserID && e.MedicationID == medicationID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.items = kept
	return n, nil
}

// testMeds conoce medicamentos por "owner/id".
type testMeds map[string]bool

func (m testMeds) Get(ctx context.Context, ownerUserID, id string) (medications.Medication, error) {
	if !m[ownerUserID+"/"+id] {
		return medications.Medication{}, medications.ErrNotFound
	}
	return medications.Medication{ID: id, OwnerUserID: ownerUserID}, nil
}

func newTestService(now time.Time) (*Service, *testRepo) {
	repo := &testRepo{}
	svc := NewService(repo, testMeds{"user-1/med-1": true, "user-1/med-2": true})
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestService_Record_DefaultsTimestampToNow(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 5, 0, 0, time.UTC)
	svc, repo := newTestService(now)

	e, err := svc.Record(context.Background(), "user-1", RecordInput{MedicationID: "med-1", Taken: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" || !e.Timestamp.Equal(now) || !e.RecordedAt.Equal(now) {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(repo.items))
	}
}

func TestService_Record_RejectsUnknownMedication(t *testing.T) {
	svc, repo := newTestService(time.Now())

	_, err := svc.Record(context.Background(), "user-1", RecordInput{MedicationID: "nope", Taken: true})
	if !errors.Is(err, ErrUnknownMedication) {
		t.Fatalf("expected ErrUnknownMedication, got %v", err)
	}

	// medicamento de otro usuario
	_, err = svc.Record(context.Background(), "user-2", RecordInput{MedicationID: "med-1", Taken: true})
	if !errors.Is(err, ErrUnknownMedication) {
		t.Fatalf("expected ErrUnknownMedication for other user, got %v", err)
	}

	_, err = svc.Record(context.Background(), "user-1", RecordInput{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if len(repo.items) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(repo.items))
	}
}

func TestService_List_FiltersByInclusiveDates(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)
	ctx := context.Background()

	for _, ts := range []time.Time{
		time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	} {
		if _, err := svc.Record(ctx, "user-1", RecordInput{MedicationID: "med-1", Taken: true, Timestamp: &ts}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	items, err := svc.List(ctx, "user-1", ListInput{StartDate: "2024-03-08", EndDate: "2024-03-09"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(items))
	}
	if !items[0].Timestamp.After(items[1].Timestamp) {
		t.Fatalf("expected newest first")
	}

	if _, err := svc.List(ctx, "user-1", ListInput{StartDate: "yesterday"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.List(ctx, "user-1", ListInput{StartDate: "2024-03-09", EndDate: "2024-03-08"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted range, got %v", err)
	}
}

func TestService_Today_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, loc) // 04:00 UTC
	svc, _ := newTestService(now)
	ctx := context.Background()

	yesterdayLocal := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC) // 23:30 del 9 en UTC-3
	todayLocal := time.Date(2024, 3, 10, 3, 30, 0, 0, time.UTC)     // 00:30 del 10 en UTC-3
	for _, ts := range []time.Time{yesterdayLocal, todayLocal} {
		if _, err := svc.Record(ctx, "user-1", RecordInput{MedicationID: "med-2", Taken: true, Timestamp: &ts}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	items, err := svc.Today(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || !items[0].Timestamp.Equal(todayLocal) {
		t.Fatalf("expected only today's entry, got %+v", items)
	}
}

func TestService_ClearByMedication(t *testing.T) {
	svc, repo := newTestService(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, id := range []string{"med-1", "med-1", "med-2"} {
		if _, err := svc.Record(ctx, "user-1", RecordInput{MedicationID: id, Taken: true}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	n, err := svc.ClearByMedication(ctx, "user-1", "med-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(repo.items) != 1 {
		t.Fatalf("expected 2 deleted and 1 left, got %d / %d", n, len(repo.items))
	}
}

type countingObserver struct{ taken, missed int }

func (o *countingObserver) DoseRecorded(taken bool) {
	if taken {
		o.taken++
		return
	}
	o.missed++
}

func TestService_Record_NotifiesObserver(t *testing.T) {
	svc, _ := newTestService(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	obs := &countingObserver{}
	svc.WithObserver(obs)
	ctx := context.Background()

	_, _ = svc.Record(ctx, "user-1", RecordInput{MedicationID: "med-1", Taken: true})
	_, _ = svc.Record(ctx, "user-1", RecordInput{MedicationID: "med-1", Taken: false})
	_, _ = svc.Record(ctx, "user-1", RecordInput{MedicationID: "unknown", Taken: true})

	if obs.taken != 1 || obs.missed != 1 {
		t.Fatalf("unexpected observer counts: %+v", obs)
	}
}
