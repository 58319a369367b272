package medications

import (
	"strings"

	"medremind/internal/engine"
)

// Frequency define los presets de horarios del formulario de alta.
// @Enum once_daily, twice_daily, three_times_daily, four_times_daily, as_needed
type Frequency string

const (
	FrequencyOnceDaily       Frequency = "once_daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyFourTimesDaily  Frequency = "four_times_daily"
	FrequencyAsNeeded        Frequency = "as_needed"
)

var frequencyTimes = map[Frequency][]string{
	FrequencyOnceDaily:       {"09:00"},
	FrequencyTwiceDaily:      {"09:00", "21:00"},
	FrequencyThreeTimesDaily: {"09:00", "15:00", "21:00"},
	FrequencyFourTimesDaily:  {"09:00", "13:00", "17:00", "21:00"},
	FrequencyAsNeeded:        {},
}

// ParseFrequency acepta la clave ("twice_daily") o la etiqueta del formulario ("Twice daily").
func ParseFrequency(s string) (Frequency, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	f := Frequency(key)
	if _, ok := frequencyTimes[f]; !ok {
		return "", false
	}
	return f, true
}

// TimesFor devuelve una copia de los horarios del preset.
func TimesFor(f Frequency) []string {
	preset := frequencyTimes[f]
	out := make([]string, len(preset))
	copy(out, preset)
	return out
}

// DurationPresets son las duraciones que ofrece el formulario.
var DurationPresets = []engine.DurationLabel{
	"7 days",
	"14 days",
	"30 days",
	"90 days",
	engine.OngoingLabel,
}
