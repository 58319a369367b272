package engine

import (
	"strconv"
	"strings"
	"unicode"
)

// OngoingLabel es el centinela de tratamiento sin fin.
const OngoingLabel DurationLabel = "Ongoing"

// Duration es la duración ya normalizada.
// Days <= 0 y no Ongoing => nunca activo.
type Duration struct {
	Days    int
	Ongoing bool
}

// ParseDuration interpreta etiquetas libres:
//   - "Ongoing", "ongoing", "-1"      => Ongoing
//   - "30 days", "7", " 14 días"     => entero inicial
//   - vacío / basura                  => 0 días
func ParseDuration(label DurationLabel) Duration {
	s := strings.TrimSpace(string(label))
	if s == "" {
		return Duration{}
	}
	if strings.Contains(strings.ToLower(s), "ongoing") {
		return Duration{Ongoing: true}
	}

	n, ok := leadingInt(s)
	if !ok {
		return Duration{}
	}
	if n == -1 {
		return Duration{Ongoing: true}
	}
	return Duration{Days: n}
}

// Label es el texto para notificaciones.
func (d Duration) Label() string {
	switch {
	case d.Ongoing:
		return "Continuous treatment"
	case d.Days == 1:
		return "1 day"
	case d.Days > 1:
		return strconv.Itoa(d.Days) + " days"
	default:
		return "Duration not specified"
	}
}

// IsActiveOn decide si date cae dentro de la ventana de tratamiento.
// Falla cerrado: sin startDate válida o con duración <= 0 devuelve false.
func IsActiveOn(m Medication, date Date) bool {
	start, ok := ParseDate(m.StartDate)
	if !ok || date.IsZero() {
		return false
	}
	if date.Before(start) {
		return false
	}

	d := ParseDuration(m.Duration)
	if d.Ongoing {
		return true
	}
	if d.Days <= 0 {
		return false
	}
	return !date.After(start.AddDays(d.Days - 1))
}

// LastDay devuelve el último día activo (inclusive).
// false para tratamientos sin fin o sin ventana válida.
func LastDay(m Medication) (Date, bool) {
	start, ok := ParseDate(m.StartDate)
	if !ok {
		return Date{}, false
	}
	d := ParseDuration(m.Duration)
	if d.Ongoing || d.Days <= 0 {
		return Date{}, false
	}
	return start.AddDays(d.Days - 1), true
}

// leadingInt lee el entero (con signo opcional) al inicio de s.
func leadingInt(s string) (int, bool) {
	end := 0
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			end = i + 1
			continue
		}
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			break
		}
		end = i + 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
