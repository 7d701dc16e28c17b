package sim_test

// Blank imports trigger the init() of sim/network and sim/mobility, which
// register NewNetworkModelFunc and NewMobilityModelFunc. This allows package
// sim's internal test files to build simulators from scenarios without
// importing the implementations directly (which would create an import cycle).
import (
	_ "github.com/edge-sim/airtime-sim/sim/mobility"
	_ "github.com/edge-sim/airtime-sim/sim/network"
)
