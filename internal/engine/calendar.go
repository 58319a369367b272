package engine

import "time"

// CalendarCell es una celda de la grilla mensual. Las celdas de relleno tienen Valid=false
// y ningún otro campo significativo.
type CalendarCell struct {
	Valid         bool `json:"valid"`
	Date          Date `json:"date,omitzero"`
	Day           int  `json:"day,omitempty"`
	IsToday       bool `json:"isToday,omitempty"`
	IsSelected    bool `json:"isSelected,omitempty"`
	HasDoseEvents bool `json:"hasDoseEvents,omitempty"`
}

// BuildMonthGrid arma semanas de 7 celdas empezando en domingo.
// Total de celdas = ceil((primerDíaSemana + díasDelMes) / 7) * 7.
// Un mes inválido devuelve nil.
func BuildMonthGrid(year int, month time.Month, history []DoseEntry, selected Date, now time.Time) [][]CalendarCell {
	if month < time.January || month > time.December {
		return nil
	}

	loc := now.Location()
	today := DateOf(now)

	withEvents := make(map[Date]bool)
	for _, e := range history {
		if e.Timestamp.IsZero() {
			continue
		}
		withEvents[DateIn(e.Timestamp, loc)] = true
	}

	daysInMonth := DaysIn(year, month)
	firstWeekday := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	totalCells := (firstWeekday + daysInMonth + 6) / 7 * 7

	weeks := make([][]CalendarCell, 0, totalCells/7)
	for i := 0; i < totalCells; i++ {
		if i%7 == 0 {
			weeks = append(weeks, make([]CalendarCell, 0, 7))
		}

		var cell CalendarCell
		dayNum := i - firstWeekday + 1
		if dayNum > 0 && dayNum <= daysInMonth {
			d := Date{Year: year, Month: month, Day: dayNum}
			cell = CalendarCell{
				Valid:         true,
				Date:          d,
				Day:           dayNum,
				IsToday:       d.Equal(today),
				IsSelected:    d.Equal(selected),
				HasDoseEvents: withEvents[d],
			}
		}

		weeks[len(weeks)-1] = append(weeks[len(weeks)-1], cell)
	}
	return weeks
}
