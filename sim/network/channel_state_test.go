package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannelStates_FreshTimelinesAreFreeWithSentinel(t *testing.T) {
	// GIVEN three fresh timelines
	states := NewChannelStates(3)

	// THEN each holds exactly FREE at 0 and BLOCKED at +Inf
	require.Len(t, states, 3)
	for i, s := range states {
		assert.Equal(t, []Boundary{{At: 0, Status: Free}, {At: math.Inf(1), Status: Blocked}}, s.Boundaries(), "state %d", i)
		assert.Equal(t, Free, s.StatusAt(0))
		assert.Equal(t, Free, s.StatusAt(1e9))
	}
}

func TestNewChannelStates_AreIndependent(t *testing.T) {
	states := NewChannelStates(2)
	states[0].Reserve(1, 2)

	assert.Equal(t, Blocked, states[0].StatusAt(1.5))
	assert.Equal(t, Free, states[1].StatusAt(1.5))
	assert.Equal(t, 2, states[1].Len())
}

func TestChannelState_NavigationLookups(t *testing.T) {
	// GIVEN boundaries at 0 (FREE), 10 (BLOCKED), 10.5 (FREE), +Inf
	s := NewChannelState()
	s.Reserve(10, 10.5)

	tests := []struct {
		name string
		fn   func(float64) (Boundary, bool)
		t    float64
		want float64
	}{
		{"floor on boundary", s.Floor, 10, 10},
		{"floor between", s.Floor, 10.2, 10},
		{"lower on boundary", s.Lower, 10, 0},
		{"lower between", s.Lower, 10.2, 10},
		{"ceiling on boundary", s.Ceiling, 10.5, 10.5},
		{"ceiling between", s.Ceiling, 10.2, 10.5},
		{"higher on boundary", s.Higher, 10.5, math.Inf(1)},
		{"higher between", s.Higher, 5, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := tc.fn(tc.t)
			require.True(t, ok)
			assert.Equal(t, tc.want, b.At)
		})
	}

	_, ok := s.Lower(0)
	assert.False(t, ok, "nothing lies below the 0 boundary")
	_, ok = s.Higher(math.Inf(1))
	assert.False(t, ok, "nothing lies above the sentinel")
}

func TestChannelState_StatusAt_UsesGreatestBoundaryAtOrBefore(t *testing.T) {
	s := NewChannelState()
	s.Reserve(10, 10.5)

	assert.Equal(t, Free, s.StatusAt(9.999))
	assert.Equal(t, Blocked, s.StatusAt(10))
	assert.Equal(t, Blocked, s.StatusAt(10.4999))
	assert.Equal(t, Free, s.StatusAt(10.5), "end of a reservation is exclusive")
	assert.Equal(t, Blocked, s.StatusAt(math.Inf(1)))
}

func TestChannelState_Reserve_KeepsExistingEndBoundary(t *testing.T) {
	// GIVEN a reservation [10.5, 11)
	s := NewChannelState()
	s.Reserve(10.5, 11)

	// WHEN an abutting window [10, 10.5) is reserved
	s.Reserve(10, 10.5)

	// THEN the BLOCKED boundary at 10.5 survives, no FREE gap is opened
	assert.Equal(t, []Boundary{
		{At: 0, Status: Free},
		{At: 10, Status: Blocked},
		{At: 10.5, Status: Blocked},
		{At: 11, Status: Free},
		{At: math.Inf(1), Status: Blocked},
	}, s.Boundaries())
	assert.Equal(t, Blocked, s.StatusAt(10.7))
}

func TestChannelState_Compact_PreservesStatusFromCutoff(t *testing.T) {
	// GIVEN several reservations
	s := NewChannelState()
	s.Reserve(1, 2)
	s.Reserve(3, 4)
	s.Reserve(5, 6)
	before := map[float64]AirtimeStatus{}
	probes := []float64{3.5, 4, 4.5, 5, 5.5, 6, 100}
	for _, p := range probes {
		before[p] = s.StatusAt(p)
	}

	// WHEN compacting before 3.5 (floor boundary is 3)
	removed := s.Compact(3.5)

	// THEN boundaries 1 and 2 are gone, 0 and 3 remain
	assert.Equal(t, 2, removed)
	bs := s.Boundaries()
	assert.Equal(t, 0.0, bs[0].At)
	assert.Equal(t, 3.0, bs[1].At)
	assert.Equal(t, math.Inf(1), bs[len(bs)-1].At)
	for _, p := range probes {
		assert.Equal(t, before[p], s.StatusAt(p), "status at %v", p)
	}
}

func TestChannelState_Compact_NothingToRemove(t *testing.T) {
	s := NewChannelState()
	assert.Equal(t, 0, s.Compact(100))
	s.Reserve(10, 11)
	assert.Equal(t, 0, s.Compact(5))
	assert.Equal(t, 4, s.Len())
}

func TestAirtimeStatus_String(t *testing.T) {
	assert.Equal(t, "FREE", Free.String())
	assert.Equal(t, "BLOCKED", Blocked.String())
	assert.Equal(t, "AirtimeStatus(7)", AirtimeStatus(7).String())
}
