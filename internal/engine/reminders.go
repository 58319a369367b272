package engine

import (
	"fmt"
	"sort"
	"time"
)

type ReminderKind string

const (
	ReminderDose   ReminderKind = "dose"
	ReminderRefill ReminderKind = "refill"
)

// Reminder es algo que el cliente debería programar como notificación.
// El motor no entrega nada: sólo decide qué y cuándo.
type Reminder struct {
	MedicationID string       `json:"medicationId"`
	Name         string       `json:"name"`
	Kind         ReminderKind `json:"kind"`
	At           time.Time    `json:"at"`
	Message      string       `json:"message"`
}

// PlanReminders arma el plan de notificaciones:
//   - dosis: próxima toma de cada medicamento con recordatorio activo y activo ese día;
//   - recarga: medicamentos con recordatorio de recarga en nivel Low (se notifica ya).
//
// Ordenado por hora.
func PlanReminders(meds []Medication, now time.Time) []Reminder {
	out := make([]Reminder, 0)
	for _, m := range meds {
		if m.ReminderEnabled {
			if next, ok := NextDoseTime(m, now); ok && IsActiveOn(m, DateOf(next.At)) {
				out = append(out, Reminder{
					MedicationID: m.ID,
					Name:         m.Name,
					Kind:         ReminderDose,
					At:           next.At,
					Message:      doseMessage(m),
				})
			}
		}

		if NeedsRefillAlert(m) {
			st := SupplyStatusOf(m)
			out = append(out, Reminder{
				MedicationID: m.ID,
				Name:         m.Name,
				Kind:         ReminderRefill,
				At:           now,
				Message:      fmt.Sprintf("%s is running low (%d%%)", m.Name, st.Display),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

func doseMessage(m Medication) string {
	if m.Dosage == "" {
		return fmt.Sprintf("Time to take %s", m.Name)
	}
	return fmt.Sprintf("Time to take %s (%s)", m.Name, m.Dosage)
}
