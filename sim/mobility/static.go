package mobility

import (
	"github.com/edge-sim/airtime-sim/sim"
)

// StaticMobility pins device i to access point i mod n for the whole run,
// positioned at the access point itself.
type StaticMobility struct {
	accessPoints []sim.Location
}

// NewStaticMobility creates a StaticMobility over the given access points.
func NewStaticMobility(accessPoints []sim.Location) (*StaticMobility, error) {
	if len(accessPoints) == 0 {
		return nil, sim.NewConfigError("access_points", "static mobility needs at least one access point")
	}
	return &StaticMobility{accessPoints: accessPoints}, nil
}

func (m *StaticMobility) Location(deviceID int, t float64) sim.Location {
	return m.accessPoints[deviceID%len(m.accessPoints)]
}

func (m *StaticMobility) AccessPointLocation(ap int) sim.Location {
	return m.accessPoints[ap]
}
