package network

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edge-sim/airtime-sim/sim"
)

// AirTimeNetworkModel computes WLAN transfer delays by reserving airtime on
// the serving access point's shared channel. Transfers always run between a
// mobile device and the cloud.
//
// It is meant to be used with the stream load generator: a new wave of tasks
// arrives every time resolution, so a transfer must be placed before the next
// wave or not at all. The lookahead window is therefore the time resolution.
type AirTimeNetworkModel struct {
	channel      sim.ChannelConfig
	accessPoints int
	clock        sim.Clock
	mobility     sim.MobilityModel
	scheduler    *ChannelScheduler
}

// NewAirTimeNetworkModel validates deps and returns an uninitialized model.
// Initialize must be called before any delay query.
func NewAirTimeNetworkModel(deps sim.NetworkModelDeps) (*AirTimeNetworkModel, error) {
	if err := deps.Channel.Validate(); err != nil {
		return nil, err
	}
	if deps.AccessPoints <= 0 {
		return nil, sim.NewConfigError("access_points", "must be > 0, got %d", deps.AccessPoints)
	}
	if deps.Clock == nil {
		return nil, fmt.Errorf("airtime model: clock is required")
	}
	if deps.Mobility == nil {
		return nil, fmt.Errorf("airtime model: mobility model is required")
	}
	return &AirTimeNetworkModel{
		channel:      deps.Channel,
		accessPoints: deps.AccessPoints,
		clock:        deps.Clock,
		mobility:     deps.Mobility,
	}, nil
}

// Initialize creates one free timeline per access point.
func (m *AirTimeNetworkModel) Initialize() error {
	scheduler, err := NewChannelScheduler(m.channel, m.accessPoints)
	if err != nil {
		return fmt.Errorf("airtime model: %w", err)
	}
	m.scheduler = scheduler
	return nil
}

// UploadDelay reserves airtime for task's input. dest must be the cloud.
func (m *AirTimeNetworkModel) UploadDelay(sourceDeviceID, destDeviceID int, task *sim.Task) (float64, error) {
	if destDeviceID != sim.CloudDatacenterID {
		return 0, sim.NewConfigError("dest_device", "airtime uploads must target the cloud, got device %d", destDeviceID)
	}
	return m.findAirTimeSlot(sourceDeviceID, task.InputSize)
}

// DownloadDelay reserves airtime for task's output. source must be the cloud.
func (m *AirTimeNetworkModel) DownloadDelay(sourceDeviceID, destDeviceID int, task *sim.Task) (float64, error) {
	if sourceDeviceID != sim.CloudDatacenterID {
		return 0, sim.NewConfigError("source_device", "airtime downloads must come from the cloud, got device %d", sourceDeviceID)
	}
	return m.findAirTimeSlot(destDeviceID, task.OutputSize)
}

func (m *AirTimeNetworkModel) findAirTimeSlot(deviceID int, bytesToTransmit int64) (float64, error) {
	if m.scheduler == nil {
		return 0, fmt.Errorf("airtime model: not initialized")
	}
	if bytesToTransmit <= 0 {
		return 0, sim.NewConfigError("bytes_to_transmit", "nothing to transmit for device %d (%d bytes)", deviceID, bytesToTransmit)
	}
	now := m.clock.Now()
	loc := m.mobility.Location(deviceID, now)
	req := sim.TransferRequest{
		DeviceID:        deviceID,
		AccessPointID:   loc.ServingAccessPoint,
		BytesToTransmit: bytesToTransmit,
	}
	result, err := m.scheduler.Schedule(req, now)
	if err != nil {
		return 0, err
	}
	if !result.Scheduled {
		logrus.Warnf("airtime: device %d (ap %d) %d bytes not schedulable at %.6fs", deviceID, req.AccessPointID, bytesToTransmit, now)
	}
	return result.Delay, nil
}

// Compact drops airtime history before the given time. Satisfies sim.TimelineCompactor.
func (m *AirTimeNetworkModel) Compact(before float64) int {
	if m.scheduler == nil {
		return 0
	}
	return m.scheduler.Compact(before)
}

// AccessPointCount satisfies sim.TimelineInspector.
func (m *AirTimeNetworkModel) AccessPointCount() int {
	if m.scheduler == nil {
		return 0
	}
	return m.scheduler.AccessPointCount()
}

// BoundaryCount satisfies sim.TimelineInspector.
func (m *AirTimeNetworkModel) BoundaryCount(ap int) int {
	if m.scheduler == nil {
		return 0
	}
	return m.scheduler.BoundaryCount(ap)
}

// Scheduler exposes the underlying channel scheduler.
func (m *AirTimeNetworkModel) Scheduler() *ChannelScheduler {
	return m.scheduler
}

// Occupancy is baked into the timeline when a slot is reserved, so the
// lifecycle hooks have nothing to track.

func (m *AirTimeNetworkModel) UploadStarted(accessPoint sim.Location, destDeviceID int)      {}
func (m *AirTimeNetworkModel) UploadFinished(accessPoint sim.Location, destDeviceID int)     {}
func (m *AirTimeNetworkModel) DownloadStarted(accessPoint sim.Location, sourceDeviceID int)  {}
func (m *AirTimeNetworkModel) DownloadFinished(accessPoint sim.Location, sourceDeviceID int) {}
