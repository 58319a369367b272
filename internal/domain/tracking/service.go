package tracking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medremind/internal/domain/dosehistory"
	"medremind/internal/domain/medications"
	"medremind/internal/engine"
)

var ErrInvalidInput = errors.New("invalid input")

type MedicationLister interface {
	List(ctx context.Context, ownerUserID string) ([]medications.Medication, error)
}

type DoseLister interface {
	All(ctx context.Context, ownerUserID string) ([]dosehistory.Entry, error)
}

// Service arma un snapshot fresco por request y delega el cálculo en las vistas.
type Service struct {
	meds  MedicationLister
	doses DoseLister
	now   func() time.Time
}

func NewService(meds MedicationLister, doses DoseLister) *Service {
	return &Service{
		meds:  meds,
		doses: doses,
		now:   time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Snapshot junta medicamentos e historial del usuario.
func (s *Service) Snapshot(ctx context.Context, ownerUserID string) (engine.Snapshot, error) {
	meds, err := s.meds.List(ctx, ownerUserID)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("list medications: %w", err)
	}
	doses, err := s.doses.All(ctx, ownerUserID)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("list dose history: %w", err)
	}
	return engine.Snapshot{
		Medications: medications.EngineAll(meds),
		History:     dosehistory.EngineAll(doses),
		FetchedAt:   s.now(),
	}, nil
}

func (s *Service) Today(ctx context.Context, ownerUserID string) (TodayView, error) {
	snap, err := s.Snapshot(ctx, ownerUserID)
	if err != nil {
		return TodayView{}, err
	}
	return BuildToday(snap, s.now()), nil
}

// Stats acepta days vacío (DefaultStatsDays) o un entero entre 1 y engine.MaxWindowDays.
func (s *Service) Stats(ctx context.Context, ownerUserID, days string) (StatsView, error) {
	n, err := ParseDays(days)
	if err != nil {
		return StatsView{}, err
	}
	snap, err := s.Snapshot(ctx, ownerUserID)
	if err != nil {
		return StatsView{}, err
	}
	return BuildStats(snap, n, s.now()), nil
}

// Calendar acepta month "YYYY-MM" (vacío = mes actual) y selected "YYYY-MM-DD" (vacío = hoy).
func (s *Service) Calendar(ctx context.Context, ownerUserID, month, selected string) (CalendarView, error) {
	now := s.now()
	year, mon, err := ParseMonth(month, now)
	if err != nil {
		return CalendarView{}, err
	}

	var sel engine.Date
	if strings.TrimSpace(selected) != "" {
		d, ok := engine.ParseDate(selected)
		if !ok {
			return CalendarView{}, fmt.Errorf("%w: selected must be YYYY-MM-DD", ErrInvalidInput)
		}
		sel = d
	}

	snap, err := s.Snapshot(ctx, ownerUserID)
	if err != nil {
		return CalendarView{}, err
	}
	return BuildCalendar(snap, year, mon, sel, now), nil
}

func (s *Service) Refills(ctx context.Context, ownerUserID string) ([]RefillView, error) {
	snap, err := s.Snapshot(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return BuildRefills(snap), nil
}

func (s *Service) Plan(ctx context.Context, ownerUserID string) ([]engine.Reminder, error) {
	snap, err := s.Snapshot(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return BuildPlan(snap, s.now()), nil
}

func (s *Service) History(ctx context.Context, ownerUserID, filter string) (HistoryView, error) {
	snap, err := s.Snapshot(ctx, ownerUserID)
	if err != nil {
		return HistoryView{}, err
	}
	return BuildHistory(snap, engine.ParseHistoryFilter(filter), s.now().Location()), nil
}

// ParseDays: vacío = DefaultStatsDays; el resto debe ser un entero entre 1 y engine.MaxWindowDays.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultStatsDays, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: days must be a positive integer", ErrInvalidInput)
	}
	if n > engine.MaxWindowDays {
		return 0, fmt.Errorf("%w: days must be at most %d", ErrInvalidInput, engine.MaxWindowDays)
	}
	return n, nil
}

// ParseMonth: "YYYY-MM"; vacío = mes de now.
func ParseMonth(s string, now time.Time) (int, time.Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}
	return t.Year(), t.Month(), nil
}
