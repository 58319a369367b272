// Package engine calcula, de forma pura, el estado derivado de un tratamiento:
// ventana activa, dosis esperadas y su estado, nivel de stock, adherencia y calendario.
//
// Nada aquí hace I/O ni lee el reloj: "now" y el snapshot de datos siempre llegan como parámetros.
package engine

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Medication es el registro tal como llega de la API.
// Los campos de fecha/duración/stock se guardan "crudos" para poder normalizarlos sin fallar.
type Medication struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Dosage string `json:"dosage"`

	// Times: "HH:MM". Vacío = "según necesidad".
	Times []string `json:"times"`

	StartDate string        `json:"startDate"` // YYYY-MM-DD
	Duration  DurationLabel `json:"duration"`  // "30 days", "Ongoing", ...

	CurrentSupply *int `json:"currentSupply,omitempty"`
	TotalSupply   *int `json:"totalSupply,omitempty"`
	RefillAt      int  `json:"refillAt"`

	RefillReminder  bool `json:"refillReminder"`
	ReminderEnabled bool `json:"reminderEnabled"`

	Color          string `json:"color,omitempty"`
	LastRefillDate string `json:"lastRefillDate,omitempty"`
}

// DoseEntry es una toma registrada.
type DoseEntry struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medicationId"`
	Taken        bool      `json:"taken"`
	Timestamp    time.Time `json:"timestamp"`
}

// Snapshot es una foto inmutable de medicamentos + historial.
// No se asume que sea la más reciente.
type Snapshot struct {
	Medications []Medication `json:"medications"`
	History     []DoseEntry  `json:"history"`
	FetchedAt   time.Time    `json:"fetchedAt"`
}

// Medication busca por id.
func (s Snapshot) Medication(id string) (Medication, bool) {
	for _, m := range s.Medications {
		if m.ID == id {
			return m, true
		}
	}
	return Medication{}, false
}

// ActiveOn filtra los medicamentos activos en date, preservando el orden.
func (s Snapshot) ActiveOn(date Date) []Medication {
	out := make([]Medication, 0, len(s.Medications))
	for _, m := range s.Medications {
		if IsActiveOn(m, date) {
			out = append(out, m)
		}
	}
	return out
}

// HistoryFor devuelve las tomas de un medicamento.
func (s Snapshot) HistoryFor(medicationID string) []DoseEntry {
	return historyFor(s.History, medicationID)
}

func historyFor(history []DoseEntry, medicationID string) []DoseEntry {
	out := make([]DoseEntry, 0)
	for _, e := range history {
		if e.MedicationID == medicationID {
			out = append(out, e)
		}
	}
	return out
}

// DurationLabel acepta en JSON tanto strings ("30 days", "Ongoing") como números (30, -1).
type DurationLabel string

func (d *DurationLabel) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DurationLabel(s)
		return nil
	}

	// Número (también 1e3 o 7.5): -1 era el centinela de "Ongoing" en el formulario.
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) {
		// Valor raro: lo dejamos como texto y el resolver lo tratará como 0.
		*d = DurationLabel(strings.Trim(string(b), `"`))
		return nil
	}
	if f < 0 {
		*d = OngoingLabel
		return nil
	}
	n := MaxDayOffset
	if f < MaxDayOffset {
		n = int(math.Floor(f))
	}
	*d = DurationLabel(strconv.Itoa(n) + " days")
	return nil
}

// IntPtr es un atajo para armar Medication en código y tests.
func IntPtr(n int) *int { return &n }
