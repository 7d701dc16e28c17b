// register.go wires sim/network constructors into the sim package's registration
// variable (NewNetworkModelFunc). This init() runs when any package imports
// sim/network, breaking the import cycle between sim/ (interface owner) and
// sim/network/ (implementation). Production code imports sim/network directly;
// test code in package sim uses network_import_test.go for the blank import.
package network

import (
	"github.com/edge-sim/airtime-sim/sim"
)

func init() {
	sim.NewNetworkModelFunc = NewNetworkModel
}

// NewNetworkModel creates the named NetworkModel. The returned model still
// needs Initialize.
func NewNetworkModel(name string, deps sim.NetworkModelDeps) (sim.NetworkModel, error) {
	switch name {
	case "airtime":
		m, err := NewAirTimeNetworkModel(deps)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "distance":
		m, err := NewPhysicalDistanceModel(deps)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, sim.NewConfigError("network_model", "unknown model %q", name)
}
