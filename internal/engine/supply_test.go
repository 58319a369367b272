package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSupply(current, total *int, refillAt int) Medication {
	return Medication{ID: "m", Name: "Metformin", CurrentSupply: current, TotalSupply: total, RefillAt: refillAt}
}

func TestSupplyStatusOf_LowAtRefillThreshold(t *testing.T) {
	st := SupplyStatusOf(withSupply(IntPtr(15), IntPtr(100), 20))
	assert.Equal(t, TierLow, st.Tier)
	assert.InDelta(t, 15.0, st.Percentage, 1e-9)
	assert.Equal(t, 15, st.Display)
}

func TestSupplyStatusOf_Tiers(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		refill  int
		want    SupplyTier
	}{
		{"tie with refill goes low", 20, 100, 20, TierLow},
		{"tie with medium goes medium", 50, 100, 20, TierMedium},
		{"just above medium", 51, 100, 20, TierGood},
		{"zero current is low", 0, 30, 20, TierLow},
		{"full", 30, 30, 20, TierGood},
		{"refill above medium", 60, 100, 70, TierLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SupplyStatusOf(withSupply(IntPtr(tc.current), IntPtr(tc.total), tc.refill))
			assert.Equal(t, tc.want, got.Tier)
		})
	}
}

func TestSupplyStatusOf_Unknown(t *testing.T) {
	for _, m := range []Medication{
		withSupply(nil, IntPtr(100), 20),
		withSupply(IntPtr(10), nil, 20),
		withSupply(IntPtr(10), IntPtr(0), 20),
		withSupply(IntPtr(10), IntPtr(-3), 20),
	} {
		st := SupplyStatusOf(m)
		assert.Equal(t, TierUnknown, st.Tier)
		assert.Zero(t, st.Display)
	}
}

func TestSupplyStatusOf_OverfillKeepsRawPercentage(t *testing.T) {
	st := SupplyStatusOf(withSupply(IntPtr(120), IntPtr(100), 20))
	assert.Equal(t, TierGood, st.Tier)
	assert.InDelta(t, 120.0, st.Percentage, 1e-9)
	assert.Equal(t, 100, st.Display)
}

func TestSupplyStatusOf_TierNeverImprovesAsSupplyDrops(t *testing.T) {
	rank := map[SupplyTier]int{TierGood: 2, TierMedium: 1, TierLow: 0}
	prev := rank[TierGood]
	for current := 100; current >= 0; current-- {
		st := SupplyStatusOf(withSupply(IntPtr(current), IntPtr(100), 25))
		require.LessOrEqual(t, rank[st.Tier], prev, "current=%d", current)
		prev = rank[st.Tier]
	}
}

func TestNeedsRefillAlert(t *testing.T) {
	m := withSupply(IntPtr(5), IntPtr(100), 20)
	assert.False(t, NeedsRefillAlert(m))

	m.RefillReminder = true
	assert.True(t, NeedsRefillAlert(m))

	m.CurrentSupply = IntPtr(80)
	assert.False(t, NeedsRefillAlert(m))
}

func TestRecordRefill(t *testing.T) {
	today := NewDate(2024, time.May, 2)

	got, err := RecordRefill(withSupply(IntPtr(10), IntPtr(60), 20), today)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentSupply)
	assert.Equal(t, 60, *got.CurrentSupply)
	assert.Equal(t, "2024-05-02", got.LastRefillDate)

	got, err = RecordRefill(withSupply(nil, IntPtr(60), 20), today)
	require.NoError(t, err)
	assert.Equal(t, 60, *got.CurrentSupply)
}

func TestRecordRefill_DoesNotMutateInput(t *testing.T) {
	m := withSupply(IntPtr(10), IntPtr(60), 20)
	_, err := RecordRefill(m, NewDate(2024, time.May, 2))
	require.NoError(t, err)
	assert.Equal(t, 10, *m.CurrentSupply)
	assert.Empty(t, m.LastRefillDate)
}

func TestRecordRefill_Rejections(t *testing.T) {
	today := NewDate(2024, time.May, 2)

	_, err := RecordRefill(withSupply(IntPtr(60), IntPtr(60), 20), today)
	assert.ErrorIs(t, err, ErrAlreadyFull)

	_, err = RecordRefill(withSupply(IntPtr(70), IntPtr(60), 20), today)
	assert.ErrorIs(t, err, ErrAlreadyFull)

	_, err = RecordRefill(withSupply(IntPtr(10), nil, 20), today)
	assert.ErrorIs(t, err, ErrSupplyUnknown)
}
