package mobility

import (
	"math"
	"math/rand"
	"sort"

	"github.com/edge-sim/airtime-sim/sim"
)

// Normal is a normal distribution truncated to positive values: draws at or
// below zero are replaced by the mean.
type Normal struct {
	Mean   float64
	StdDev float64
}

func (n Normal) draw(rng *rand.Rand) float64 {
	v := rng.NormFloat64()*n.StdDev + n.Mean
	if v <= 0 {
		return n.Mean
	}
	return v
}

func (n Normal) validate(field string) error {
	if !(n.Mean > 0) || math.IsInf(n.Mean, 0) {
		return sim.NewConfigError(field+"_mean", "must be a positive finite number, got %v", n.Mean)
	}
	if n.StdDev < 0 || math.IsNaN(n.StdDev) {
		return sim.NewConfigError(field+"_stddev", "must be non-negative, got %v", n.StdDev)
	}
	return nil
}

type point struct{ x, y float64 }

// leg is one trip: leave from at depart, reach to at arrive, then pause there
// until the next leg departs.
type leg struct {
	depart, arrive float64
	from, to       point
}

// RandomWaypointMobility moves each device in straight lines between
// uniformly drawn points of the area. Each trip runs at a velocity drawn per
// trip and ends with a drawn pause. A device is served by the access point
// nearest to its current position.
type RandomWaypointMobility struct {
	accessPoints []sim.Location
	trips        [][]leg
}

// NewRandomWaypointMobility precomputes every device's trips over [0, horizon].
// velocity is in meters per second, pause in seconds.
func NewRandomWaypointMobility(accessPoints []sim.Location, devices int, areaX, areaY, horizon float64, velocity, pause Normal, rng *rand.Rand) (*RandomWaypointMobility, error) {
	if len(accessPoints) == 0 {
		return nil, sim.NewConfigError("access_points", "random waypoint mobility needs at least one access point")
	}
	if devices <= 0 {
		return nil, sim.NewConfigError("mobile_devices", "must be > 0, got %d", devices)
	}
	if !(areaX > 0) || !(areaY > 0) || math.IsInf(areaX, 0) || math.IsInf(areaY, 0) {
		return nil, sim.NewConfigError("area", "random waypoint needs a positive finite area, got %vx%v", areaX, areaY)
	}
	if !(horizon >= 0) || math.IsInf(horizon, 0) {
		return nil, sim.NewConfigError("simulation_time", "must be a non-negative finite time, got %v", horizon)
	}
	if err := velocity.validate("mobility.velocity"); err != nil {
		return nil, err
	}
	if err := pause.validate("mobility.pause_time"); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, sim.NewConfigError("rng", "random waypoint mobility needs a random source")
	}

	randomPoint := func() point {
		return point{x: rng.Float64() * areaX, y: rng.Float64() * areaY}
	}
	trips := make([][]leg, devices)
	for d := range trips {
		t := 0.0
		at := randomPoint()
		var path []leg
		for {
			dest := randomPoint()
			arrive := t + math.Hypot(dest.x-at.x, dest.y-at.y)/velocity.draw(rng)
			path = append(path, leg{depart: t, arrive: arrive, from: at, to: dest})
			t = arrive + pause.draw(rng)
			at = dest
			if t >= horizon {
				break
			}
		}
		trips[d] = path
	}
	return &RandomWaypointMobility{accessPoints: accessPoints, trips: trips}, nil
}

// Location interpolates the device's position at t and attaches the nearest
// access point.
func (m *RandomWaypointMobility) Location(deviceID int, t float64) sim.Location {
	path := m.trips[deviceID]
	i := sort.Search(len(path), func(i int) bool { return path[i].depart > t }) - 1
	if i < 0 {
		i = 0
	}
	l := path[i]
	p := l.to
	if t < l.arrive {
		f := math.Max(0, (t-l.depart)/(l.arrive-l.depart))
		p = point{x: l.from.x + f*(l.to.x-l.from.x), y: l.from.y + f*(l.to.y-l.from.y)}
	}
	return sim.Location{X: p.x, Y: p.y, ServingAccessPoint: m.nearest(p)}
}

// nearest returns the closest access point; ties go to the lower index.
func (m *RandomWaypointMobility) nearest(p point) int {
	best, bestDist := 0, math.Inf(1)
	for i, ap := range m.accessPoints {
		if d := math.Hypot(ap.X-p.x, ap.Y-p.y); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (m *RandomWaypointMobility) AccessPointLocation(ap int) sim.Location {
	return m.accessPoints[ap]
}

// Trips returns how many trips the device starts during the run.
func (m *RandomWaypointMobility) Trips(deviceID int) int {
	return len(m.trips[deviceID])
}
