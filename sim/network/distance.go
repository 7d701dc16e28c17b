package network

import (
	"fmt"
	"math"

	"github.com/edge-sim/airtime-sim/sim"
)

const speedOfLight = 299792458.0 // m/s

// wirelessSpeed is the propagation speed over the air.
const wirelessSpeed = speedOfLight

// PhysicalDistanceModel derives latency from propagation alone: no queueing,
// no bandwidth. Mobile-to-edge latency is the distance to the serving access
// point divided by the wireless propagation speed; the remaining links use
// the configured fixed delays.
type PhysicalDistanceModel struct {
	propagation sim.PropagationConfig
	clock       sim.Clock
	mobility    sim.MobilityModel
}

// NewPhysicalDistanceModel validates deps and returns the model.
func NewPhysicalDistanceModel(deps sim.NetworkModelDeps) (*PhysicalDistanceModel, error) {
	if err := deps.Propagation.Validate(); err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		return nil, fmt.Errorf("distance model: clock is required")
	}
	if deps.Mobility == nil {
		return nil, fmt.Errorf("distance model: mobility model is required")
	}
	return &PhysicalDistanceModel{
		propagation: deps.Propagation,
		clock:       deps.Clock,
		mobility:    deps.Mobility,
	}, nil
}

// Initialize is a no-op.
func (m *PhysicalDistanceModel) Initialize() error {
	return nil
}

// UploadDelay: source must be a mobile device.
func (m *PhysicalDistanceModel) UploadDelay(sourceDeviceID, destDeviceID int, task *sim.Task) (float64, error) {
	return m.physicalLatency(sourceDeviceID, destDeviceID)
}

// DownloadDelay: destination must be a mobile device.
func (m *PhysicalDistanceModel) DownloadDelay(sourceDeviceID, destDeviceID int, task *sim.Task) (float64, error) {
	return m.physicalLatency(destDeviceID, sourceDeviceID)
}

// physicalLatency returns the one-way latency between a lower device (a mobile
// device, or an edge device talking to the orchestrator) and an upper device
// (edge device, orchestrator or cloud).
func (m *PhysicalDistanceModel) physicalLatency(lowerDeviceID, upperDeviceID int) (float64, error) {
	if lowerDeviceID == sim.GenericEdgeDeviceID && upperDeviceID == sim.EdgeOrchestratorID {
		return m.propagation.InternalLANDelay, nil
	}
	if !isMobileDevice(lowerDeviceID) {
		return 0, sim.NewConfigError("lower_device", "%d is not a mobile device", lowerDeviceID)
	}

	switch upperDeviceID {
	case sim.GenericEdgeDeviceID:
		return m.wlanDelay(lowerDeviceID), nil
	case sim.EdgeOrchestratorID:
		return m.wlanDelay(lowerDeviceID) + m.propagation.InternalLANDelay, nil
	case sim.CloudDatacenterID:
		return m.propagation.WANPropagationDelay, nil
	}
	return 0, sim.NewConfigError("upper_device", "%d is a mobile device or an unknown device", upperDeviceID)
}

func (m *PhysicalDistanceModel) wlanDelay(mobileDeviceID int) float64 {
	device := m.mobility.Location(mobileDeviceID, m.clock.Now())
	ap := m.mobility.AccessPointLocation(device.ServingAccessPoint)
	distance := math.Hypot(ap.X-device.X, ap.Y-device.Y)
	return distance / wirelessSpeed
}

func isMobileDevice(id int) bool {
	return id >= 0 && id != sim.CloudDatacenterID && id != sim.EdgeOrchestratorID && id != sim.GenericEdgeDeviceID
}

func (m *PhysicalDistanceModel) UploadStarted(accessPoint sim.Location, destDeviceID int)      {}
func (m *PhysicalDistanceModel) UploadFinished(accessPoint sim.Location, destDeviceID int)     {}
func (m *PhysicalDistanceModel) DownloadStarted(accessPoint sim.Location, sourceDeviceID int)  {}
func (m *PhysicalDistanceModel) DownloadFinished(accessPoint sim.Location, sourceDeviceID int) {}
