package mobility

import (
	"math"
	"math/rand"
	"sort"

	"github.com/edge-sim/airtime-sim/sim"
)

// waypoint is a stay at one access point starting at a given time.
type waypoint struct {
	at float64
	ap int
}

// NomadicMobility moves each device between access points: it dwells at one
// for a normally distributed pause, then relocates to a uniformly chosen
// access point. Trajectories are precomputed up to the horizon, so lookups
// are deterministic and independent of query order.
type NomadicMobility struct {
	accessPoints []sim.Location
	trajectories [][]waypoint
}

// NewNomadicMobility precomputes trajectories for devices over [0, horizon].
func NewNomadicMobility(accessPoints []sim.Location, devices int, horizon, pauseMean, pauseStdDev float64, rng *rand.Rand) (*NomadicMobility, error) {
	if len(accessPoints) == 0 {
		return nil, sim.NewConfigError("access_points", "nomadic mobility needs at least one access point")
	}
	if devices <= 0 {
		return nil, sim.NewConfigError("mobile_devices", "must be > 0, got %d", devices)
	}
	if !(horizon >= 0) || math.IsInf(horizon, 0) {
		return nil, sim.NewConfigError("simulation_time", "must be a non-negative finite time, got %v", horizon)
	}
	pause := Normal{Mean: pauseMean, StdDev: pauseStdDev}
	if err := pause.validate("mobility.pause_time"); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, sim.NewConfigError("rng", "nomadic mobility needs a random source")
	}

	n := len(accessPoints)
	trajectories := make([][]waypoint, devices)
	for d := range trajectories {
		t := 0.0
		path := []waypoint{{at: 0, ap: rng.Intn(n)}}
		for {
			t += pause.draw(rng)
			if t >= horizon {
				break
			}
			path = append(path, waypoint{at: t, ap: rng.Intn(n)})
		}
		trajectories[d] = path
	}
	return &NomadicMobility{accessPoints: accessPoints, trajectories: trajectories}, nil
}

// Location returns the access point the device is staying at, at time t.
func (m *NomadicMobility) Location(deviceID int, t float64) sim.Location {
	path := m.trajectories[deviceID]
	// first waypoint strictly after t, minus one
	i := sort.Search(len(path), func(i int) bool { return path[i].at > t }) - 1
	if i < 0 {
		i = 0
	}
	return m.accessPoints[path[i].ap]
}

func (m *NomadicMobility) AccessPointLocation(ap int) sim.Location {
	return m.accessPoints[ap]
}

// Handovers returns how many times the device changes stay during the run.
func (m *NomadicMobility) Handovers(deviceID int) int {
	return len(m.trajectories[deviceID]) - 1
}
