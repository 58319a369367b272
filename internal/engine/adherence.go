package engine

import (
	"math"
	"time"
)

// AdherenceStat resume la adherencia de un medicamento en una ventana.
type AdherenceStat struct {
	MedicationID  string `json:"medicationId"`
	Name          string `json:"name,omitempty"`
	TakenDoses    int    `json:"takenDoses"`
	MissedDoses   int    `json:"missedDoses"`
	TotalDoses    int    `json:"totalDoses"`
	AdherenceRate int    `json:"adherenceRate"` // 0..100
}

// StatsFor calcula la adherencia de m en [windowStart, windowEnd].
//
//   - TakenDoses: tomas con taken=true dentro de la ventana.
//   - MissedDoses: días esperados (activos y con horarios) sin toma, sólo hasta hoy inclusive.
//   - AdherenceRate: round(taken/total*100), 0 si total == 0.
func StatsFor(m Medication, history []DoseEntry, windowStart, windowEnd Date, now time.Time) AdherenceStat {
	st := AdherenceStat{MedicationID: m.ID, Name: m.Name}
	if windowStart.IsZero() || windowEnd.IsZero() || windowStart.After(windowEnd) {
		return st
	}

	loc := now.Location()
	today := DateOf(now)

	takenDays := make(map[Date]bool)
	for _, e := range history {
		if e.MedicationID != m.ID || !e.Taken || e.Timestamp.IsZero() {
			continue
		}
		d := DateIn(e.Timestamp, loc)
		if d.Before(windowStart) || d.After(windowEnd) {
			continue
		}
		st.TakenDoses++
		takenDays[d] = true
	}

	if len(ExpectedTimes(m)) > 0 {
		from := windowStart
		if start, ok := ParseDate(m.StartDate); ok && start.After(from) {
			from = start
		}
		to := windowEnd
		if today.Before(to) {
			to = today
		}
		for d := from; !d.After(to); d = d.AddDays(1) {
			if IsActiveOn(m, d) && !takenDays[d] {
				st.MissedDoses++
			}
		}
	}

	st.TotalDoses = st.TakenDoses + st.MissedDoses
	st.AdherenceRate = RateOf(st.TakenDoses, st.TotalDoses)
	return st
}

// StatsForAll calcula cada medicamento por separado, en el mismo orden.
func StatsForAll(meds []Medication, history []DoseEntry, windowStart, windowEnd Date, now time.Time) []AdherenceStat {
	out := make([]AdherenceStat, 0, len(meds))
	for _, m := range meds {
		out = append(out, StatsFor(m, history, windowStart, windowEnd, now))
	}
	return out
}

// MaxWindowDays es la ventana de estadísticas más larga (100 años).
const MaxWindowDays = 36500

// WindowForDays devuelve los últimos n días terminando hoy, con n entre 1 y MaxWindowDays.
func WindowForDays(days int, now time.Time) (Date, Date) {
	days = max(1, min(days, MaxWindowDays))
	today := DateOf(now)
	return today.AddDays(-(days - 1)), today
}

type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// AdherenceBand: >= 80 good, >= 60 fair, resto poor.
func AdherenceBand(rate int) Band {
	switch {
	case rate >= 80:
		return BandGood
	case rate >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

// RateOf: round(taken/total*100) recortado a [0, 100]; 0 si total == 0.
func RateOf(taken, total int) int {
	if total <= 0 {
		return 0
	}
	r := int(math.Round(float64(taken) / float64(total) * 100))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
