package sim

import "math/rand"

// Location is a point in the simulated area together with the access point
// serving it. For access points themselves ServingAccessPoint is their own index.
type Location struct {
	X                  float64
	Y                  float64
	ServingAccessPoint int
}

// MobilityModel resolves where a mobile device is, and which access point
// serves it, at a simulated time.
type MobilityModel interface {
	// Location returns the device's location at time t. Times are non-decreasing
	// across calls in a run but implementations must not rely on it.
	Location(deviceID int, t float64) Location

	// AccessPointLocation returns the fixed position of access point ap.
	AccessPointLocation(ap int) Location
}

// MobilityDeps carries everything a MobilityModel constructor may need.
type MobilityDeps struct {
	Devices        int
	AccessPoints   int
	AreaXSize      float64
	AreaYSize      float64
	Horizon        float64
	PauseMean      float64
	PauseStdDev    float64
	VelocityMean   float64 // meters per second
	VelocityStdDev float64
	RNG            *rand.Rand
}

// NewMobilityModelFunc is set by sim/mobility's init().
var NewMobilityModelFunc func(name string, deps MobilityDeps) (MobilityModel, error)
