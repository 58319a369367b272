package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type DoseStatus string

const (
	StatusTaken   DoseStatus = "taken"
	StatusMissed  DoseStatus = "missed"
	StatusPending DoseStatus = "pending"
)

// ScheduleEntry es una dosis esperada (o la única entrada de un "según necesidad") para una fecha.
type ScheduleEntry struct {
	MedicationID string     `json:"medicationId"`
	Name         string     `json:"name,omitempty"`
	Dosage       string     `json:"dosage,omitempty"`
	Date         Date       `json:"date"`
	ExpectedTime *string    `json:"expectedTime"` // nil = según necesidad
	Status       DoseStatus `json:"status"`
}

// NextDose es la próxima toma relativa a "now".
type NextDose struct {
	Time     string    `json:"time"` // HH:MM normalizado
	Minutes  int       `json:"minutes"`
	Tomorrow bool      `json:"tomorrow"`
	At       time.Time `json:"at"`
}

// ParseClock convierte "HH:MM" (o "H:MM") a minutos desde medianoche.
func ParseClock(s string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, false
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 || len(m) != 2 {
		return 0, false
	}
	return hh*60 + mm, true
}

// FormatClock es la inversa de ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ExpectedTimes devuelve los horarios del medicamento ordenados por hora del día.
// Los horarios mal formados se descartan: nunca deben producir una dosis "perdida".
// Vacío = según necesidad.
func ExpectedTimes(m Medication) []string {
	type slot struct {
		raw string
		min int
	}
	slots := make([]slot, 0, len(m.Times))
	for _, t := range m.Times {
		min, ok := ParseClock(t)
		if !ok {
			continue
		}
		slots = append(slots, slot{raw: strings.TrimSpace(t), min: min})
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].min < slots[j].min })

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.raw)
	}
	return out
}

// ScheduleFor clasifica las dosis esperadas de m en date.
//
// Granularidad por día: una sola toma con taken=true marca todas las dosis del día como tomadas.
// Una toma registrada con taken=false marca el día como perdido.
// Sin registros, una dosis cuya hora ya pasó respecto de now es "missed"; si no, "pending".
// Fuera de la ventana activa devuelve nil.
func ScheduleFor(m Medication, date Date, history []DoseEntry, now time.Time) []ScheduleEntry {
	if !IsActiveOn(m, date) {
		return nil
	}

	loc := now.Location()
	taken, recorded := dayRecord(history, m.ID, date, loc)
	times := ExpectedTimes(m)

	base := ScheduleEntry{
		MedicationID: m.ID,
		Name:         m.Name,
		Dosage:       m.Dosage,
		Date:         date,
	}

	if len(times) == 0 {
		e := base
		switch {
		case taken:
			e.Status = StatusTaken
		case recorded:
			e.Status = StatusMissed
		default:
			e.Status = StatusPending
		}
		return []ScheduleEntry{e}
	}

	today := DateOf(now)
	nowMin := now.Hour()*60 + now.Minute()

	out := make([]ScheduleEntry, 0, len(times))
	for _, t := range times {
		e := base
		e.ExpectedTime = &t

		min, _ := ParseClock(t)
		switch {
		case taken:
			e.Status = StatusTaken
		case recorded:
			e.Status = StatusMissed
		case date.Before(today):
			e.Status = StatusMissed
		case date.Equal(today) && min < nowMin:
			e.Status = StatusMissed
		default:
			e.Status = StatusPending
		}
		out = append(out, e)
	}
	return out
}

// NextDoseTime devuelve el menor horario estrictamente posterior a now (en minutos del día);
// si no hay, el primero del día siguiente con Tomorrow=true. false si no hay horarios.
func NextDoseTime(m Medication, now time.Time) (NextDose, bool) {
	times := ExpectedTimes(m)
	if len(times) == 0 {
		return NextDose{}, false
	}

	nowMin := now.Hour()*60 + now.Minute()
	first, _ := ParseClock(times[0])

	next := NextDose{Minutes: first, Tomorrow: true}
	for _, t := range times {
		min, _ := ParseClock(t)
		if min > nowMin {
			next = NextDose{Minutes: min}
			break
		}
	}

	day := DateOf(now)
	if next.Tomorrow {
		day = day.AddDays(1)
	}
	next.Time = FormatClock(next.Minutes)
	next.At = day.At(next.Minutes, now.Location())
	return next, true
}

// DaySchedule arma el plan del día para todos los medicamentos activos del snapshot,
// ordenado por hora (los "según necesidad" al final).
func DaySchedule(s Snapshot, date Date, now time.Time) []ScheduleEntry {
	out := make([]ScheduleEntry, 0)
	for _, m := range s.Medications {
		out = append(out, ScheduleFor(m, date, s.History, now)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return slotOrder(out[i]) < slotOrder(out[j])
	})
	return out
}

// DayProgress resume cuántas dosis con horario ya se tomaron.
type DayProgress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"` // 0..1
}

// ProgressFor cuenta sólo dosis con horario; los "según necesidad" no suman al total.
func ProgressFor(entries []ScheduleEntry) DayProgress {
	var p DayProgress
	for _, e := range entries {
		if e.ExpectedTime == nil {
			continue
		}
		p.Total++
		if e.Status == StatusTaken {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Ratio = float64(p.Completed) / float64(p.Total)
	}
	return p
}

func slotOrder(e ScheduleEntry) int {
	if e.ExpectedTime == nil {
		return math.MaxInt
	}
	min, _ := ParseClock(*e.ExpectedTime)
	return min
}

// dayRecord indica si hubo alguna toma con taken=true, y si hubo algún registro, para el día.
func dayRecord(history []DoseEntry, medicationID string, date Date, loc *time.Location) (taken, recorded bool) {
	for _, e := range history {
		if e.MedicationID != medicationID || e.Timestamp.IsZero() {
			continue
		}
		if !DateIn(e.Timestamp, loc).Equal(date) {
			continue
		}
		recorded = true
		if e.Taken {
			return true, true
		}
	}
	return false, recorded
}
