package medications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medremind/internal/engine"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

// palette: colores asignados cuando el cliente no manda uno.
var palette = []string{
	"#4CAF50", "#2196F3", "#FF9800", "#E91E63", "#9C27B0",
	"#00ACC1", "#795548", "#3F51B5", "#FF5722", "#689F38",
}

type Service struct {
	repo    Repository
	history HistoryClearer
	now     func() time.Time
}

// NewService: history puede ser nil (no se limpia historial al borrar).
func NewService(repo Repository, history HistoryClearer) *Service {
	return &Service{
		repo:    repo,
		history: history,
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (zona horaria configurada, tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Input es el cuerpo de alta y de reemplazo (PUT).
// Si Times viene vacío se usan los horarios del preset Frequency.
type Input struct {
	Name      string
	Dosage    string
	Frequency string
	Times     []string
	StartDate string // YYYY-MM-DD; vacío = hoy
	Duration  engine.DurationLabel

	CurrentSupply *int
	TotalSupply   *int
	RefillAt      int

	RefillReminder  bool
	ReminderEnabled bool

	Color string
	Notes string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in Input) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.apply(&m, in); err != nil {
		return Medication{}, err
	}
	if m.Color == "" {
		m.Color = defaultColor(m.ID)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Get devuelve ErrNotFound también cuando el medicamento es de otro usuario.
func (s *Service) Get(ctx context.Context, ownerUserID, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrNotFound
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.OwnerUserID != ownerUserID {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

// List devuelve los medicamentos del usuario, más nuevos primero.
func (s *Service) List(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Update reemplaza el registro completo (PUT). Conserva id, dueño, alta y última recarga.
func (s *Service) Update(ctx context.Context, ownerUserID, id string, in Input) (Medication, error) {
	current, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return Medication{}, err
	}

	m := Medication{
		ID:             current.ID,
		OwnerUserID:    current.OwnerUserID,
		LastRefillDate: current.LastRefillDate,
		CreatedAt:      current.CreatedAt,
		UpdatedAt:      s.now(),
	}
	if err := s.apply(&m, in); err != nil {
		return Medication{}, err
	}
	if m.Color == "" {
		m.Color = current.Color
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Delete borra el medicamento y, si hay HistoryClearer, su historial de tomas.
func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	m, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return err
	}
	if s.history != nil {
		if _, err := s.history.DeleteByMedication(ctx, ownerUserID, m.ID); err != nil {
			return fmt.Errorf("clear dose history: %w", err)
		}
	}
	return nil
}

// SupplyInput es un PATCH: nil = no tocar.
type SupplyInput struct {
	CurrentSupply  *int
	TotalSupply    *int
	LastRefillDate *string
}

func (s *Service) UpdateSupply(ctx context.Context, ownerUserID, id string, in SupplyInput) (Medication, error) {
	m, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return Medication{}, err
	}

	if in.CurrentSupply != nil {
		if *in.CurrentSupply < 0 {
			return Medication{}, fmt.Errorf("%w: currentSupply must be >= 0", ErrInvalidInput)
		}
		m.CurrentSupply = engine.IntPtr(*in.CurrentSupply)
	}
	if in.TotalSupply != nil {
		if *in.TotalSupply < 0 {
			return Medication{}, fmt.Errorf("%w: totalSupply must be >= 0", ErrInvalidInput)
		}
		m.TotalSupply = engine.IntPtr(*in.TotalSupply)
	}
	if in.LastRefillDate != nil {
		if strings.TrimSpace(*in.LastRefillDate) == "" {
			m.LastRefillDate = engine.Date{}
		} else {
			d, ok := engine.ParseDate(*in.LastRefillDate)
			if !ok {
				return Medication{}, fmt.Errorf("%w: lastRefillDate must be YYYY-MM-DD", ErrInvalidInput)
			}
			m.LastRefillDate = d
		}
	}

	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Refill completa el stock y registra la fecha de recarga.
// Devuelve engine.ErrAlreadyFull o engine.ErrSupplyUnknown sin modificar nada.
func (s *Service) Refill(ctx context.Context, ownerUserID, id string) (Medication, error) {
	m, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return Medication{}, err
	}

	now := s.now()
	refilled, err := engine.RecordRefill(m.Engine(), engine.DateOf(now))
	if err != nil {
		return Medication{}, err
	}

	m.CurrentSupply = refilled.CurrentSupply
	m.LastRefillDate, _ = engine.ParseDate(refilled.LastRefillDate)
	m.UpdatedAt = now

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// apply valida in y lo vuelca sobre m.
func (s *Service) apply(m *Medication, in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	dosage := strings.TrimSpace(in.Dosage)
	if dosage == "" {
		return fmt.Errorf("%w: dosage is required", ErrInvalidInput)
	}

	dur := engine.ParseDuration(in.Duration)
	if !dur.Ongoing && dur.Days <= 0 {
		return fmt.Errorf("%w: duration is required", ErrInvalidInput)
	}

	times, err := resolveTimes(in.Frequency, in.Times)
	if err != nil {
		return err
	}

	start := engine.DateOf(s.now())
	if strings.TrimSpace(in.StartDate) != "" {
		d, ok := engine.ParseDate(in.StartDate)
		if !ok {
			return fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		start = d
	}

	if err := validateSupply(in); err != nil {
		return err
	}

	m.Name = name
	m.Dosage = dosage
	m.Times = times
	m.StartDate = start
	m.Duration = canonicalDuration(dur)
	m.CurrentSupply = copyInt(in.CurrentSupply)
	m.TotalSupply = copyInt(in.TotalSupply)
	if m.TotalSupply == nil && m.CurrentSupply != nil {
		// en el alta el stock inicial es el total
		m.TotalSupply = copyInt(m.CurrentSupply)
	}
	m.RefillAt = in.RefillAt
	m.RefillReminder = in.RefillReminder
	m.ReminderEnabled = in.ReminderEnabled
	m.Color = strings.TrimSpace(in.Color)
	m.Notes = strings.TrimSpace(in.Notes)
	return nil
}

func resolveTimes(frequency string, times []string) ([]string, error) {
	if len(times) == 0 {
		if strings.TrimSpace(frequency) == "" {
			return nil, fmt.Errorf("%w: frequency is required", ErrInvalidInput)
		}
		f, ok := ParseFrequency(frequency)
		if !ok {
			return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, frequency)
		}
		return TimesFor(f), nil
	}

	seen := make(map[int]bool, len(times))
	out := make([]string, 0, len(times))
	for _, t := range times {
		min, ok := engine.ParseClock(t)
		if !ok {
			return nil, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, t)
		}
		if seen[min] {
			continue
		}
		seen[min] = true
		out = append(out, engine.FormatClock(min))
	}
	return out, nil
}

func validateSupply(in Input) error {
	if in.CurrentSupply != nil && *in.CurrentSupply < 0 {
		return fmt.Errorf("%w: currentSupply must be >= 0", ErrInvalidInput)
	}
	if in.TotalSupply != nil && *in.TotalSupply < 0 {
		return fmt.Errorf("%w: totalSupply must be >= 0", ErrInvalidInput)
	}
	if in.RefillAt < 0 {
		return fmt.Errorf("%w: refillAt must be >= 0", ErrInvalidInput)
	}
	if !in.RefillReminder {
		return nil
	}
	if in.CurrentSupply == nil || *in.CurrentSupply <= 0 {
		return fmt.Errorf("%w: currentSupply is required for refill reminders", ErrInvalidInput)
	}
	if in.RefillAt <= 0 {
		return fmt.Errorf("%w: refillAt is required for refill reminders", ErrInvalidInput)
	}
	if in.RefillAt >= *in.CurrentSupply {
		return fmt.Errorf("%w: refillAt must be lower than currentSupply", ErrInvalidInput)
	}
	return nil
}

func canonicalDuration(d engine.Duration) engine.DurationLabel {
	if d.Ongoing {
		return engine.OngoingLabel
	}
	return engine.DurationLabel(fmt.Sprintf("%d days", d.Days))
}

func defaultColor(id string) string {
	sum := 0
	for _, r := range id {
		sum += int(r)
	}
	return palette[sum%len(palette)]
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return engine.IntPtr(*p)
}
