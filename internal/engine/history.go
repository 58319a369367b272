package engine

import (
	"sort"
	"strings"
	"time"
)

type HistoryFilter string

const (
	FilterAll    HistoryFilter = "all"
	FilterTaken  HistoryFilter = "taken"
	FilterMissed HistoryFilter = "missed"
)

// ParseHistoryFilter: cualquier valor desconocido equivale a "all".
func ParseHistoryFilter(s string) HistoryFilter {
	switch HistoryFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterTaken:
		return FilterTaken
	case FilterMissed:
		return FilterMissed
	default:
		return FilterAll
	}
}

func (f HistoryFilter) match(e DoseEntry) bool {
	switch f {
	case FilterTaken:
		return e.Taken
	case FilterMissed:
		return !e.Taken
	default:
		return true
	}
}

// HistoryDay agrupa los registros de un día.
type HistoryDay struct {
	Date    Date        `json:"date"`
	Entries []DoseEntry `json:"entries"`
}

// GroupHistory agrupa por día (en loc), del más reciente al más antiguo;
// dentro del día, los registros también van del más reciente al más antiguo.
func GroupHistory(history []DoseEntry, filter HistoryFilter, loc *time.Location) []HistoryDay {
	byDay := make(map[Date][]DoseEntry)
	for _, e := range history {
		if e.Timestamp.IsZero() || !filter.match(e) {
			continue
		}
		d := DateIn(e.Timestamp, loc)
		byDay[d] = append(byDay[d], e)
	}

	out := make([]HistoryDay, 0, len(byDay))
	for d, entries := range byDay {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})
		out = append(out, HistoryDay{Date: d, Entries: entries})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
