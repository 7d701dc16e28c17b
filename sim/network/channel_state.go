// Package network provides the NetworkModel implementations for the airtime
// simulator. The NetworkModel interface is defined in sim/ (parent package).
// This package provides AirTimeNetworkModel (shared-channel contention over
// per-access-point timelines) and PhysicalDistanceModel (closed-form
// propagation delay).
package network

import (
	"fmt"
	"math"

	"github.com/google/btree"
)

// AirtimeStatus is the occupancy of a channel from a boundary onwards.
type AirtimeStatus int

const (
	Free AirtimeStatus = iota
	Blocked
)

func (s AirtimeStatus) String() string {
	switch s {
	case Free:
		return "FREE"
	case Blocked:
		return "BLOCKED"
	default:
		return fmt.Sprintf("AirtimeStatus(%d)", int(s))
	}
}

// Boundary is a point on a timeline where occupancy may change.
type Boundary struct {
	At     float64
	Status AirtimeStatus
}

func boundaryLess(a, b Boundary) bool {
	return a.At < b.At
}

// sentinel bounds every scan; it is BLOCKED and never removed.
var sentinel = Boundary{At: math.Inf(1), Status: Blocked}

const btreeDegree = 16

// ChannelState is the occupancy timeline of one access point: an ordered set
// of boundaries where the status in effect at time t is the status of the
// greatest boundary <= t.
//
// Invariants: boundary times are unique and strictly ordered; a boundary at 0
// and the BLOCKED +Inf sentinel are always present.
//
// ChannelState is not safe for concurrent use.
type ChannelState struct {
	tree *btree.BTreeG[Boundary]
}

// NewChannelState returns a timeline that is free from time 0 onwards.
func NewChannelState() *ChannelState {
	tree := btree.NewG[Boundary](btreeDegree, boundaryLess)
	tree.ReplaceOrInsert(Boundary{At: 0, Status: Free})
	tree.ReplaceOrInsert(sentinel)
	return &ChannelState{tree: tree}
}

// NewChannelStates creates count independent timelines.
func NewChannelStates(count int) []*ChannelState {
	states := make([]*ChannelState, count)
	for i := range states {
		states[i] = NewChannelState()
	}
	return states
}

// StatusAt returns the status in effect at t. For t >= 0 the 0 boundary
// guarantees a result.
func (c *ChannelState) StatusAt(t float64) AirtimeStatus {
	b, ok := c.Floor(t)
	if !ok {
		return Blocked
	}
	return b.Status
}

// Floor returns the greatest boundary <= t.
func (c *ChannelState) Floor(t float64) (Boundary, bool) {
	var out Boundary
	found := false
	c.tree.DescendLessOrEqual(Boundary{At: t}, func(b Boundary) bool {
		out, found = b, true
		return false
	})
	return out, found
}

// Lower returns the greatest boundary < t.
func (c *ChannelState) Lower(t float64) (Boundary, bool) {
	var out Boundary
	found := false
	c.tree.DescendLessOrEqual(Boundary{At: t}, func(b Boundary) bool {
		if b.At == t {
			return true
		}
		out, found = b, true
		return false
	})
	return out, found
}

// Ceiling returns the least boundary >= t.
func (c *ChannelState) Ceiling(t float64) (Boundary, bool) {
	var out Boundary
	found := false
	c.tree.AscendGreaterOrEqual(Boundary{At: t}, func(b Boundary) bool {
		out, found = b, true
		return false
	})
	return out, found
}

// Higher returns the least boundary > t.
func (c *ChannelState) Higher(t float64) (Boundary, bool) {
	var out Boundary
	found := false
	c.tree.AscendGreaterOrEqual(Boundary{At: t}, func(b Boundary) bool {
		if b.At == t {
			return true
		}
		out, found = b, true
		return false
	})
	return out, found
}

// Reserve marks [start, end) as BLOCKED. A FREE boundary is placed at end only
// when no boundary exists there yet: an existing one already describes the
// state after end. The caller must have verified that [start, end) is free.
func (c *ChannelState) Reserve(start, end float64) {
	c.tree.ReplaceOrInsert(Boundary{At: start, Status: Blocked})
	if !c.tree.Has(Boundary{At: end}) {
		c.tree.ReplaceOrInsert(Boundary{At: end, Status: Free})
	}
}

// Compact removes every boundary strictly between 0 and the floor boundary of
// before. StatusAt(t) is unchanged for all t >= before; earlier history is
// lost. Returns the number of boundaries removed.
func (c *ChannelState) Compact(before float64) int {
	floor, ok := c.Floor(before)
	if !ok || floor.At <= 0 {
		return 0
	}
	var stale []Boundary
	c.tree.AscendRange(Boundary{At: 0}, floor, func(b Boundary) bool {
		if b.At > 0 {
			stale = append(stale, b)
		}
		return true
	})
	for _, b := range stale {
		c.tree.Delete(b)
	}
	return len(stale)
}

// Len returns the number of boundaries, sentinels included.
func (c *ChannelState) Len() int {
	return c.tree.Len()
}

// Boundaries returns the timeline in ascending order.
func (c *ChannelState) Boundaries() []Boundary {
	out := make([]Boundary, 0, c.tree.Len())
	c.tree.Ascend(func(b Boundary) bool {
		out = append(out, b)
		return true
	})
	return out
}
