package mobility

import "github.com/edge-sim/airtime-sim/sim"

func init() {
	sim.NewMobilityModelFunc = NewMobilityModel
}

// NewMobilityModel creates the named MobilityModel with access points laid out
// on a grid over the scenario area.
func NewMobilityModel(name string, deps sim.MobilityDeps) (sim.MobilityModel, error) {
	if deps.AccessPoints <= 0 {
		return nil, sim.NewConfigError("access_points", "must be > 0, got %d", deps.AccessPoints)
	}
	aps := GridLayout(deps.AccessPoints, deps.AreaXSize, deps.AreaYSize)
	switch name {
	case "static":
		m, err := NewStaticMobility(aps)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "nomadic":
		m, err := NewNomadicMobility(aps, deps.Devices, deps.Horizon, deps.PauseMean, deps.PauseStdDev, deps.RNG)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "rwp":
		velocity := Normal{Mean: deps.VelocityMean, StdDev: deps.VelocityStdDev}
		pause := Normal{Mean: deps.PauseMean, StdDev: deps.PauseStdDev}
		m, err := NewRandomWaypointMobility(aps, deps.Devices, deps.AreaXSize, deps.AreaYSize, deps.Horizon, velocity, pause, deps.RNG)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, sim.NewConfigError("mobility.model", "unknown model %q", name)
}
