// Package tracking arma las vistas derivadas (hoy, estadísticas, calendario, recargas,
// recordatorios, historial) a partir de un snapshot. Lo usan la API y la CLI.
package tracking

import (
	"sort"
	"time"

	"medremind/internal/engine"
)

// DefaultStatsDays es la ventana de estadísticas cuando no se indica otra.
const DefaultStatsDays = 30

type NextDoseView struct {
	MedicationID string          `json:"medicationId"`
	Name         string          `json:"name"`
	Dosage       string          `json:"dosage,omitempty"`
	Next         engine.NextDose `json:"next"`
}

type TodayView struct {
	Date      engine.Date            `json:"date"`
	Doses     []engine.ScheduleEntry `json:"doses"`
	Progress  engine.DayProgress     `json:"progress"`
	NextDoses []NextDoseView         `json:"nextDoses"`
}

type MedicationStat struct {
	engine.AdherenceStat
	Band engine.Band `json:"band"`
}

type StatsView struct {
	Days        int              `json:"days"`
	From        engine.Date      `json:"from"`
	To          engine.Date      `json:"to"`
	Overall     int              `json:"overallRate"`
	Band        engine.Band      `json:"band"`
	Medications []MedicationStat `json:"medications"`
}

type CalendarView struct {
	Year          int                     `json:"year"`
	Month         time.Month              `json:"month"`
	Selected      engine.Date             `json:"selected"`
	Weeks         [][]engine.CalendarCell `json:"weeks"`
	SelectedDoses []engine.ScheduleEntry  `json:"selectedDoses"`
}

type RefillView struct {
	MedicationID   string              `json:"medicationId"`
	Name           string              `json:"name"`
	CurrentSupply  *int                `json:"currentSupply,omitempty"`
	TotalSupply    *int                `json:"totalSupply,omitempty"`
	RefillAt       int                 `json:"refillAt"`
	LastRefillDate string              `json:"lastRefillDate,omitempty"`
	Supply         engine.SupplyStatus `json:"supply"`
	NeedsRefill    bool                `json:"needsRefill"`
}

type MedicationRef struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage,omitempty"`
	Color  string `json:"color,omitempty"`
}

type HistoryView struct {
	Filter      engine.HistoryFilter     `json:"filter"`
	Days        []engine.HistoryDay      `json:"days"`
	Medications map[string]MedicationRef `json:"medications"`
}

// BuildToday: plan del día, progreso y próxima toma de cada medicamento activo con horarios.
func BuildToday(s engine.Snapshot, now time.Time) TodayView {
	today := engine.DateOf(now)
	doses := engine.DaySchedule(s, today, now)

	next := make([]NextDoseView, 0)
	for _, m := range s.ActiveOn(today) {
		nd, ok := engine.NextDoseTime(m, now)
		if !ok {
			continue
		}
		next = append(next, NextDoseView{MedicationID: m.ID, Name: m.Name, Dosage: m.Dosage, Next: nd})
	}
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Next.At.Before(next[j].Next.At)
	})

	return TodayView{
		Date:      today,
		Doses:     doses,
		Progress:  engine.ProgressFor(doses),
		NextDoses: next,
	}
}

// BuildStats: adherencia de los últimos days días (entre 1 y engine.MaxWindowDays) terminando hoy.
func BuildStats(s engine.Snapshot, days int, now time.Time) StatsView {
	days = max(1, min(days, engine.MaxWindowDays))
	from, to := engine.WindowForDays(days, now)
	stats := engine.StatsForAll(s.Medications, s.History, from, to, now)

	view := StatsView{
		Days:        days,
		From:        from,
		To:          to,
		Medications: make([]MedicationStat, 0, len(stats)),
	}

	taken, total := 0, 0
	for _, st := range stats {
		taken += st.TakenDoses
		total += st.TotalDoses
		view.Medications = append(view.Medications, MedicationStat{
			AdherenceStat: st,
			Band:          engine.AdherenceBand(st.AdherenceRate),
		})
	}
	view.Overall = engine.RateOf(taken, total)
	view.Band = engine.AdherenceBand(view.Overall)
	return view
}

// BuildCalendar: grilla del mes y plan del día seleccionado (hoy si selected es cero).
func BuildCalendar(s engine.Snapshot, year int, month time.Month, selected engine.Date, now time.Time) CalendarView {
	if selected.IsZero() {
		selected = engine.DateOf(now)
	}
	return CalendarView{
		Year:          year,
		Month:         month,
		Selected:      selected,
		Weeks:         engine.BuildMonthGrid(year, month, s.History, selected, now),
		SelectedDoses: engine.DaySchedule(s, selected, now),
	}
}

// BuildRefills: estado de stock por medicamento; los que necesitan recarga primero.
func BuildRefills(s engine.Snapshot) []RefillView {
	out := make([]RefillView, 0, len(s.Medications))
	for _, m := range s.Medications {
		out = append(out, RefillView{
			MedicationID:   m.ID,
			Name:           m.Name,
			CurrentSupply:  m.CurrentSupply,
			TotalSupply:    m.TotalSupply,
			RefillAt:       m.RefillAt,
			LastRefillDate: m.LastRefillDate,
			Supply:         engine.SupplyStatusOf(m),
			NeedsRefill:    engine.NeedsRefillAlert(m),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NeedsRefill && !out[j].NeedsRefill
	})
	return out
}

func BuildPlan(s engine.Snapshot, now time.Time) []engine.Reminder {
	return engine.PlanReminders(s.Medications, now)
}

func BuildHistory(s engine.Snapshot, filter engine.HistoryFilter, loc *time.Location) HistoryView {
	refs := make(map[string]MedicationRef, len(s.Medications))
	for _, m := range s.Medications {
		refs[m.ID] = MedicationRef{Name: m.Name, Dosage: m.Dosage, Color: m.Color}
	}
	return HistoryView{
		Filter:      filter,
		Days:        engine.GroupHistory(s.History, filter, loc),
		Medications: refs,
	}
}
