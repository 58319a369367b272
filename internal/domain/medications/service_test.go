package medications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"medremind/internal/engine"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

type testClearer struct {
	calls []string
}

func (c *testClearer) DeleteByMedication(ctx context.Context, ownerUserID, medicationID string) (int, error) {
	c.calls = append(c.calls, ownerUserID+"/"+medicationID)
	return 3, nil
}

func newTestService(now time.Time) (*Service, *testRepo, *testClearer) {
	repo := newTestRepo()
	clearer := &testClearer{}
	svc := NewService(repo, clearer)
	svc.now = func() time.Time { return now }
	return svc, repo, clearer
}

func validInput() Input {
	return Input{
		Name:      "Amoxicillin",
		Dosage:    "500mg",
		Frequency: "Twice daily",
		StartDate: "2024-03-01",
		Duration:  "14 days",
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_UsesFrequencyPreset(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(now)

	m, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == "" {
		t.Fatalf("expected id")
	}
	if got := strings.Join(m.Times, ","); got != "09:00,21:00" {
		t.Fatalf("expected preset times, got %s", got)
	}
	if m.Color == "" {
		t.Fatalf("expected default color")
	}
	if !m.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at from clock")
	}
	if _, ok := repo.byID[m.ID]; !ok {
		t.Fatalf("expected medication persisted")
	}
}

func TestService_Create_NormalizesTimesAndDuration(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	in := validInput()
	in.Times = []string{"8:00", "20:30", "08:00"}
	in.Duration = "Ongoing"

	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(m.Times, ","); got != "08:00,20:30" {
		t.Fatalf("expected normalized times, got %s", got)
	}
	if m.Duration != engine.OngoingLabel {
		t.Fatalf("expected Ongoing, got %q", m.Duration)
	}

	in.Duration = "-1"
	m, err = svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Duration != engine.OngoingLabel {
		t.Fatalf("expected -1 to map to Ongoing, got %q", m.Duration)
	}
}

func TestService_Create_AsNeededHasNoTimes(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	in := validInput()
	in.Frequency = "as_needed"

	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Times) != 0 {
		t.Fatalf("expected no times, got %v", m.Times)
	}
}

func TestService_Create_DefaultsStartDateToToday(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC))

	in := validInput()
	in.StartDate = ""

	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.StartDate != engine.NewDate(2024, 3, 7) {
		t.Fatalf("expected today, got %s", m.StartDate)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	cases := map[string]func(*Input){
		"missing name":      func(in *Input) { in.Name = "  " },
		"missing dosage":    func(in *Input) { in.Dosage = "" },
		"missing duration":  func(in *Input) { in.Duration = "" },
		"zero duration":     func(in *Input) { in.Duration = "0 days" },
		"missing frequency": func(in *Input) { in.Frequency = "" },
		"unknown frequency": func(in *Input) { in.Frequency = "hourly" },
		"bad time":          func(in *Input) { in.Times = []string{"25:00"} },
		"bad start date":    func(in *Input) { in.StartDate = "03/01/2024" },
		"refill without supply": func(in *Input) {
			in.RefillReminder = true
			in.RefillAt = 5
		},
		"refill without threshold": func(in *Input) {
			in.RefillReminder = true
			in.CurrentSupply = engine.IntPtr(30)
		},
		"threshold not below supply": func(in *Input) {
			in.RefillReminder = true
			in.CurrentSupply = engine.IntPtr(30)
			in.RefillAt = 30
		},
		"negative supply": func(in *Input) { in.CurrentSupply = engine.IntPtr(-1) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), "user-1", in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := svc.Create(context.Background(), "", validInput()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without owner, got %v", err)
	}
}

func TestService_Create_TotalSupplyDefaultsToCurrent(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	in := validInput()
	in.RefillReminder = true
	in.CurrentSupply = engine.IntPtr(30)
	in.RefillAt = 10

	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TotalSupply == nil || *m.TotalSupply != 30 {
		t.Fatalf("expected total supply 30, got %v", m.TotalSupply)
	}
}

func TestService_Get_HidesOtherUsersMedications(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	m, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-2", m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", m.ID); err != nil {
		t.Fatalf("expected owner to read, got %v", err)
	}
}

func TestService_Update_KeepsIdentityAndRefillDate(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(created)

	m, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.byID[m.ID]
	stored.LastRefillDate = engine.NewDate(2024, 3, 2)
	repo.byID[m.ID] = stored

	later := created.Add(48 * time.Hour)
	svc.now = func() time.Time { return later }

	in := validInput()
	in.Name = "Amoxicillin forte"
	updated, err := svc.Update(context.Background(), "user-1", m.ID, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != m.ID || updated.OwnerUserID != "user-1" {
		t.Fatalf("identity changed: %+v", updated)
	}
	if updated.Name != "Amoxicillin forte" {
		t.Fatalf("expected name updated, got %s", updated.Name)
	}
	if !updated.CreatedAt.Equal(created) || !updated.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected timestamps: %v %v", updated.CreatedAt, updated.UpdatedAt)
	}
	if updated.LastRefillDate != engine.NewDate(2024, 3, 2) {
		t.Fatalf("expected last refill date kept, got %s", updated.LastRefillDate)
	}
	if updated.Color != m.Color {
		t.Fatalf("expected color kept")
	}
}

func TestService_Delete_ClearsHistory(t *testing.T) {
	svc, repo, clearer := newTestService(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	m, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-2", m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byID[m.ID]; ok {
		t.Fatalf("expected medication deleted")
	}
	if len(clearer.calls) != 1 || clearer.calls[0] != "user-1/"+m.ID {
		t.Fatalf("expected history cleared once, got %v", clearer.calls)
	}
}

func TestService_UpdateSupply(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	in := validInput()
	in.CurrentSupply = engine.IntPtr(30)
	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date := "2024-03-05"
	updated, err := svc.UpdateSupply(context.Background(), "user-1", m.ID, SupplyInput{
		CurrentSupply:  engine.IntPtr(12),
		LastRefillDate: &date,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *updated.CurrentSupply != 12 || *updated.TotalSupply != 30 {
		t.Fatalf("unexpected supply: %d/%d", *updated.CurrentSupply, *updated.TotalSupply)
	}
	if updated.LastRefillDate != engine.NewDate(2024, 3, 5) {
		t.Fatalf("unexpected last refill date: %s", updated.LastRefillDate)
	}

	if _, err := svc.UpdateSupply(context.Background(), "user-1", m.ID, SupplyInput{CurrentSupply: engine.IntPtr(-2)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Refill(t *testing.T) {
	now := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(now)

	in := validInput()
	in.CurrentSupply = engine.IntPtr(60)
	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// stock completo: se rechaza
	if _, err := svc.Refill(context.Background(), "user-1", m.ID); !errors.Is(err, engine.ErrAlreadyFull) {
		t.Fatalf("expected ErrAlreadyFull, got %v", err)
	}

	if _, err := svc.UpdateSupply(context.Background(), "user-1", m.ID, SupplyInput{CurrentSupply: engine.IntPtr(4)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refilled, err := svc.Refill(context.Background(), "user-1", m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *refilled.CurrentSupply != 60 {
		t.Fatalf("expected supply 60, got %d", *refilled.CurrentSupply)
	}
	if refilled.LastRefillDate != engine.NewDate(2024, 3, 9) {
		t.Fatalf("expected last refill today, got %s", refilled.LastRefillDate)
	}
}

func TestService_Refill_UnknownTotal(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC))

	m, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Refill(context.Background(), "user-1", m.ID); !errors.Is(err, engine.ErrSupplyUnknown) {
		t.Fatalf("expected ErrSupplyUnknown, got %v", err)
	}
}

func TestParseFrequency(t *testing.T) {
	for _, s := range []string{"once_daily", "Once daily", "FOUR-TIMES-DAILY", "as needed"} {
		if _, ok := ParseFrequency(s); !ok {
			t.Fatalf("expected %q to parse", s)
		}
	}
	if _, ok := ParseFrequency("weekly"); ok {
		t.Fatalf("expected weekly to be rejected")
	}

	times := TimesFor(FrequencyThreeTimesDaily)
	times[0] = "changed"
	if TimesFor(FrequencyThreeTimesDaily)[0] != "09:00" {
		t.Fatalf("expected preset copy")
	}
}
