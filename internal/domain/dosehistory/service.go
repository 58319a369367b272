package dosehistory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"medremind/internal/domain/medications"
	"medremind/internal/engine"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownMedication = errors.New("unknown medication")
)

// MedicationFinder es lo que este módulo necesita de medications.
type MedicationFinder interface {
	Get(ctx context.Context, ownerUserID, id string) (medications.Medication, error)
}

// Observer se entera de cada toma registrada (métricas).
type Observer interface {
	DoseRecorded(taken bool)
}

type Service struct {
	repo     Repository
	meds     MedicationFinder
	observer Observer
	now      func() time.Time
}

func NewService(repo Repository, meds MedicationFinder) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// WithClock reemplaza el reloj; su zona define los límites de "hoy".
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

type RecordInput struct {
	MedicationID string
	Taken        bool
	Timestamp    *time.Time // nil = ahora
}

// Record registra una toma. Rechaza medicamentos inexistentes o de otro usuario.
func (s *Service) Record(ctx context.Context, ownerUserID string, in RecordInput) (Entry, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Entry{}, ErrInvalidInput
	}
	medID := strings.TrimSpace(in.MedicationID)
	if medID == "" {
		return Entry{}, fmt.Errorf("%w: medicationId is required", ErrInvalidInput)
	}

	if _, err := s.meds.Get(ctx, ownerUserID, medID); err != nil {
		if errors.Is(err, medications.ErrNotFound) {
			return Entry{}, fmt.Errorf("%w: %s", ErrUnknownMedication, medID)
		}
		return Entry{}, err
	}

	now := s.now()
	ts := now
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = *in.Timestamp
	}

	e := Entry{
		ID:           uuid.NewString(),
		OwnerUserID:  ownerUserID,
		MedicationID: medID,
		Taken:        in.Taken,
		Timestamp:    ts,
		RecordedAt:   now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	if s.observer != nil {
		s.observer.DoseRecorded(e.Taken)
	}
	return e, nil
}

type ListInput struct {
	StartDate    string // YYYY-MM-DD inclusivo
	EndDate      string // YYYY-MM-DD inclusivo
	MedicationID string
}

// List devuelve tomas del usuario, más recientes primero.
// Las fechas se interpretan en la zona del reloj del servicio.
func (s *Service) List(ctx context.Context, ownerUserID string, in ListInput) ([]Entry, error) {
	loc := s.now().Location()
	filter := ListFilter{MedicationID: strings.TrimSpace(in.MedicationID)}

	if strings.TrimSpace(in.StartDate) != "" {
		d, ok := engine.ParseDate(in.StartDate)
		if !ok {
			return nil, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		from := d.Time(loc)
		filter.From = &from
	}
	if strings.TrimSpace(in.EndDate) != "" {
		d, ok := engine.ParseDate(in.EndDate)
		if !ok {
			return nil, fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		to := d.AddDays(1).Time(loc)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, fmt.Errorf("%w: startDate after endDate", ErrInvalidInput)
	}

	return s.list(ctx, ownerUserID, filter)
}

// Today devuelve las tomas del día actual.
func (s *Service) Today(ctx context.Context, ownerUserID string) ([]Entry, error) {
	now := s.now()
	today := engine.DateOf(now)
	from := today.Time(now.Location())
	to := today.AddDays(1).Time(now.Location())
	return s.list(ctx, ownerUserID, ListFilter{From: &from, To: &to})
}

// All devuelve el historial completo (lo usa el snapshot de las vistas).
func (s *Service) All(ctx context.Context, ownerUserID string) ([]Entry, error) {
	return s.list(ctx, ownerUserID, ListFilter{})
}

// ClearByMedication borra el historial de un medicamento y devuelve cuántas tomas se borraron.
func (s *Service) ClearByMedication(ctx context.Context, ownerUserID, medicationID string) (int, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return 0, fmt.Errorf("%w: medicationId is required", ErrInvalidInput)
	}
	return s.repo.DeleteByMedication(ctx, ownerUserID, medicationID)
}

func (s *Service) list(ctx context.Context, ownerUserID string, filter ListFilter) ([]Entry, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}
