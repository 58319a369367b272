package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"medremind/internal/domain/tracking"
	"medremind/internal/engine"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderToday(w io.Writer, v tracking.TodayView) error {
	fmt.Fprintf(w, "%s  %d/%d taken\n", v.Date, v.Progress.Completed, v.Progress.Total)
	if len(v.Doses) == 0 {
		fmt.Fprintln(w, "No doses scheduled today.")
		return nil
	}

	tw := newTable(w)
	for _, d := range v.Doses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", slotTime(d.ExpectedTime), d.Name, d.Dosage, d.Status)
	}
	return tw.Flush()
}

func renderNext(w io.Writer, items []tracking.NextDoseView) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No upcoming doses.")
		return nil
	}
	tw := newTable(w)
	for _, n := range items {
		day := "today"
		if n.Next.Tomorrow {
			day = "tomorrow"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.Next.Time, day, n.Name, n.Dosage)
	}
	return tw.Flush()
}

func renderRefills(w io.Writer, items []tracking.RefillView) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No medications.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tSUPPLY\tLEVEL\tLAST REFILL\t")
	for _, r := range items {
		mark := ""
		if r.NeedsRefill {
			mark = "refill"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, supplyText(r), r.Supply.Tier, dash(r.LastRefillDate), mark)
	}
	return tw.Flush()
}

func renderStats(w io.Writer, v tracking.StatsView) error {
	fmt.Fprintf(w, "%s .. %s (%d days)  overall %d%% %s\n", v.From, v.To, v.Days, v.Overall, v.Band)
	if len(v.Medications) == 0 {
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tTAKEN\tMISSED\tTOTAL\tRATE")
	for _, m := range v.Medications {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d%% %s\n", m.Name, m.TakenDoses, m.MissedDoses, m.TotalDoses, m.AdherenceRate, m.Band)
	}
	return tw.Flush()
}

// renderCalendar dibuja la grilla: [dd] seleccionado, dd* con tomas, dd< hoy.
func renderCalendar(w io.Writer, v tracking.CalendarView) error {
	fmt.Fprintf(w, "%s %d\n", v.Month, v.Year)
	fmt.Fprintln(w, " Su   Mo   Tu   We   Th   Fr   Sa")
	for _, week := range v.Weeks {
		var b strings.Builder
		for _, c := range week {
			b.WriteString(calendarCell(c))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	fmt.Fprintf(w, "\n%s\n", v.Selected)
	if len(v.SelectedDoses) == 0 {
		fmt.Fprintln(w, "No doses scheduled.")
		return nil
	}
	tw := newTable(w)
	for _, d := range v.SelectedDoses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", slotTime(d.ExpectedTime), d.Name, d.Dosage, d.Status)
	}
	return tw.Flush()
}

func calendarCell(c engine.CalendarCell) string {
	if !c.Valid {
		return "     "
	}
	mark := " "
	switch {
	case c.HasDoseEvents:
		mark = "*"
	case c.IsToday:
		mark = "<"
	}
	if c.IsSelected {
		return fmt.Sprintf("[%2d]%s", c.Day, mark)
	}
	return fmt.Sprintf(" %2d %s", c.Day, mark)
}

func renderHistory(w io.Writer, v tracking.HistoryView, loc *time.Location) error {
	if len(v.Days) == 0 {
		fmt.Fprintln(w, "No dose history.")
		return nil
	}
	tw := newTable(w)
	for _, day := range v.Days {
		fmt.Fprintf(tw, "%s\t\t\t\n", day.Date)
		for _, e := range day.Entries {
			name := e.MedicationID
			if ref, ok := v.Medications[e.MedicationID]; ok {
				name = ref.Name
			}
			status := "taken"
			if !e.Taken {
				status = "missed"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t\n", e.Timestamp.In(loc).Format("15:04"), name, status)
		}
	}
	return tw.Flush()
}

func renderPlan(w io.Writer, plan []engine.Reminder, loc *time.Location) error {
	if len(plan) == 0 {
		fmt.Fprintln(w, "Nothing to remind.")
		return nil
	}
	tw := newTable(w)
	for _, r := range plan {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.At.In(loc).Format("2006-01-02 15:04"), r.Kind, r.Message)
	}
	return tw.Flush()
}

func slotTime(t *string) string {
	if t == nil {
		return "as needed"
	}
	return *t
}

func supplyText(r tracking.RefillView) string {
	if r.CurrentSupply == nil || r.TotalSupply == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", *r.CurrentSupply, *r.TotalSupply)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
