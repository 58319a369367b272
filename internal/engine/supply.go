package engine

import (
	"errors"
	"math"
)

var (
	ErrAlreadyFull   = errors.New("supply already full")
	ErrSupplyUnknown = errors.New("total supply unknown")
)

type SupplyTier string

const (
	TierGood    SupplyTier = "Good"
	TierMedium  SupplyTier = "Medium"
	TierLow     SupplyTier = "Low"
	TierUnknown SupplyTier = "Unknown"
)

// mediumThreshold: por debajo (o igual) de este porcentaje el stock es "Medium".
const mediumThreshold = 50.0

// SupplyStatus: Percentage es el valor sin recortar (puede pasar de 100 si se sobrecargó);
// Display es el mismo valor recortado a [0, 100] y redondeado, sólo para mostrar.
type SupplyStatus struct {
	Percentage float64    `json:"percentage"`
	Display    int        `json:"display"`
	Tier       SupplyTier `json:"tier"`
}

// SupplyStatusOf clasifica el stock. Los empates van al nivel más urgente (<=).
func SupplyStatusOf(m Medication) SupplyStatus {
	if m.CurrentSupply == nil || m.TotalSupply == nil || *m.TotalSupply <= 0 {
		return SupplyStatus{Tier: TierUnknown}
	}

	pct := float64(*m.CurrentSupply) / float64(*m.TotalSupply) * 100

	st := SupplyStatus{
		Percentage: pct,
		Display:    int(math.Round(math.Min(math.Max(pct, 0), 100))),
	}
	switch {
	case pct <= float64(m.RefillAt):
		st.Tier = TierLow
	case pct <= mediumThreshold:
		st.Tier = TierMedium
	default:
		st.Tier = TierGood
	}
	return st
}

// NeedsRefillAlert: recordatorio de recarga activo y stock en nivel Low.
func NeedsRefillAlert(m Medication) bool {
	return m.RefillReminder && SupplyStatusOf(m).Tier == TierLow
}

// RecordRefill devuelve una copia de m con el stock completo y lastRefillDate = today.
// Se rechaza (no es un no-op silencioso) si ya está al 100% o si el total es desconocido.
func RecordRefill(m Medication, today Date) (Medication, error) {
	if m.TotalSupply == nil || *m.TotalSupply <= 0 {
		return m, ErrSupplyUnknown
	}
	if m.CurrentSupply != nil && SupplyStatusOf(m).Percentage >= 100 {
		return m, ErrAlreadyFull
	}

	out := m
	out.CurrentSupply = IntPtr(*m.TotalSupply)
	out.LastRefillDate = today.String()
	return out, nil
}
