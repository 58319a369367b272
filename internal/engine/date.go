package engine

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date es una fecha de calendario sin hora ni zona.
// El valor cero representa "sin fecha".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normaliza (y, m, d) igual que time.Date (ej: 31 de febrero -> 2/3 de marzo).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf devuelve la fecha de calendario de t en su propia zona.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// DateIn devuelve la fecha de calendario de t vista desde loc.
func DateIn(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(t.In(loc))
}

// ParseDate acepta exactamente "YYYY-MM-DD" o un timestamp RFC3339 completo
// (se toma la parte de fecha tal cual viene). Devuelve false si no se puede interpretar.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return Date{}, false
		}
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time devuelve la medianoche de d en loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At devuelve el instante de d a los minutos indicados desde medianoche, en loc.
func (d Date) At(minutes int, loc *time.Location) time.Time {
	return d.Time(loc).Add(time.Duration(minutes) * time.Minute)
}

// MaxDayOffset acota los corrimientos de AddDays (unos 10.000 años).
const MaxDayOffset = 3_650_000

// AddDays satura n en ±MaxDayOffset; más allá time.Date desborda.
func (d Date) AddDays(n int) Date {
	n = max(-MaxDayOffset, min(n, MaxDayOffset))
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Compare devuelve -1, 0 o +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

// DaysIn devuelve la cantidad de días del mes.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, ok := ParseDate(string(b))
	if !ok {
		return fmt.Errorf("invalid date %q", string(b))
	}
	*d = parsed
	return nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
