package network

import (
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/edge-sim/airtime-sim/sim"
)

// SlotResult is the outcome of one slot search. When Scheduled is false the
// transfer could not be placed within the lookahead window, Delay is 0, and
// the timeline was not modified.
type SlotResult struct {
	Scheduled bool
	Start     float64 // reserved window start
	End       float64 // reserved window end (exclusive)
	Delay     float64 // waiting time plus transmission time
	Probes    int     // candidate start times examined
}

// ChannelScheduler allocates airtime on per-access-point timelines.
//
// Requests for different access points may run concurrently; requests for the
// same access point are serialized, because the lookups and the two inserts of
// a reservation are not atomic as a unit.
type ChannelScheduler struct {
	cfg    sim.ChannelConfig
	states []*ChannelState
	locks  []sync.Mutex
}

// NewChannelScheduler creates one free timeline per access point.
func NewChannelScheduler(cfg sim.ChannelConfig, accessPoints int) (*ChannelScheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if accessPoints <= 0 {
		return nil, sim.NewConfigError("access_points", "must be > 0, got %d", accessPoints)
	}
	return &ChannelScheduler{
		cfg:    cfg,
		states: NewChannelStates(accessPoints),
		locks:  make([]sync.Mutex, accessPoints),
	}, nil
}

// Schedule places a transfer request using the configured time resolution as
// the lookahead window.
func (s *ChannelScheduler) Schedule(req sim.TransferRequest, now float64) (SlotResult, error) {
	return s.RequestSlot(req.AccessPointID, req.BytesToTransmit, now, s.cfg.TimeResolution)
}

// RequestSlot searches access point ap's timeline for the earliest window of
// bytesToTransmit airtime that starts in [now, now+lookahead) and lies
// entirely inside one free region. On success the window is reserved
// permanently.
//
// Out-of-domain arguments are reported as *sim.ConfigError before the
// timeline is touched. Not finding a window is not an error.
func (s *ChannelScheduler) RequestSlot(ap int, bytesToTransmit int64, now, lookahead float64) (SlotResult, error) {
	return s.requestSlot(ap, bytesToTransmit, now, lookahead, nil)
}

// requestSlot is RequestSlot with an optional visit callback that sees every
// candidate start time in order.
func (s *ChannelScheduler) requestSlot(ap int, bytesToTransmit int64, now, lookahead float64, visit func(probe float64)) (SlotResult, error) {
	if bytesToTransmit <= 0 {
		return SlotResult{}, sim.NewConfigError("bytes_to_transmit", "nothing to transmit (%d bytes)", bytesToTransmit)
	}
	if ap < 0 || ap >= len(s.states) {
		return SlotResult{}, sim.NewConfigError("access_point", "%d out of range [0, %d)", ap, len(s.states))
	}
	if now < 0 || math.IsNaN(now) || math.IsInf(now, 0) {
		return SlotResult{}, sim.NewConfigError("now", "must be a non-negative finite time, got %v", now)
	}
	if !(lookahead > 0) || math.IsInf(lookahead, 0) {
		return SlotResult{}, sim.NewConfigError("lookahead", "must be a positive finite duration, got %v", lookahead)
	}
	duration := float64(bytesToTransmit) / s.cfg.BytesPerSecond()
	if !(duration > 0) || math.IsInf(duration, 0) {
		return SlotResult{}, sim.NewConfigError("transmission_time", "must be positive and finite, got %v", duration)
	}

	s.locks[ap].Lock()
	defer s.locks[ap].Unlock()

	state := s.states[ap]
	threshold := now + lookahead
	var result SlotResult
	for probe := now; probe < threshold; {
		result.Probes++
		if visit != nil {
			visit(probe)
		}
		end := probe + duration
		startFloor, _ := state.Floor(probe)
		startHigher, _ := state.Higher(probe)
		endLower, okLower := state.Lower(end)
		endCeiling, _ := state.Ceiling(end)

		// No boundary inside (probe, end) and the region holding probe is free.
		if okLower && startFloor.At == endLower.At && startHigher.At == endCeiling.At && startFloor.Status == Free {
			state.Reserve(probe, end)
			result.Scheduled = true
			result.Start = probe
			result.End = end
			result.Delay = probe - now + duration
			logrus.Debugf("airtime: ap %d reserved [%.6f, %.6f) after %d probe(s)", ap, probe, end, result.Probes)
			return result, nil
		}
		probe = startHigher.At
	}

	logrus.Debugf("airtime: ap %d has no %.6fs window in [%.6f, %.6f)", ap, duration, now, threshold)
	return result, nil
}

// Compact drops stale boundaries before the given time on every access point.
// Safe only when no later request uses a now earlier than before.
func (s *ChannelScheduler) Compact(before float64) int {
	removed := 0
	for i, state := range s.states {
		s.locks[i].Lock()
		removed += state.Compact(before)
		s.locks[i].Unlock()
	}
	return removed
}

// StatusAt reports the status of access point ap at t.
func (s *ChannelScheduler) StatusAt(ap int, t float64) AirtimeStatus {
	s.locks[ap].Lock()
	defer s.locks[ap].Unlock()
	return s.states[ap].StatusAt(t)
}

// Boundaries returns a snapshot of access point ap's timeline.
func (s *ChannelScheduler) Boundaries(ap int) []Boundary {
	s.locks[ap].Lock()
	defer s.locks[ap].Unlock()
	return s.states[ap].Boundaries()
}

// AccessPointCount returns the number of timelines.
func (s *ChannelScheduler) AccessPointCount() int {
	return len(s.states)
}

// BoundaryCount returns the number of boundaries on access point ap's timeline.
func (s *ChannelScheduler) BoundaryCount(ap int) int {
	s.locks[ap].Lock()
	defer s.locks[ap].Unlock()
	return s.states[ap].Len()
}
