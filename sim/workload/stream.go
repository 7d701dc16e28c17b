package workload

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/edge-sim/airtime-sim/sim"
)

// StreamLoadGenerator produces one task per device every time resolution:
// each task carries the stream data captured during the previous tick.
// Each device runs exactly one application for the whole run.
type StreamLoadGenerator struct {
	devices       int
	activityStart float64
	horizon       float64
	resolution    float64
	apps          []AppProfile
	appOfDevice   []int
}

// NewStreamLoadGenerator builds a generator from a validated scenario.
// With more than one application, devices are assigned an application
// uniformly at random from rng; with one, every device runs it.
func NewStreamLoadGenerator(sc *sim.Scenario, rng *rand.Rand) (*StreamLoadGenerator, error) {
	if sc.MobileDevices <= 0 {
		return nil, sim.NewConfigError("mobile_devices", "must be > 0, got %d", sc.MobileDevices)
	}
	if !(sc.Channel.TimeResolution > 0) {
		return nil, sim.NewConfigError("time_resolution", "must be > 0, got %v", sc.Channel.TimeResolution)
	}
	if len(sc.Applications) == 0 {
		return nil, sim.NewConfigError("applications", "at least one application is required")
	}
	apps := make([]AppProfile, len(sc.Applications))
	for i, spec := range sc.Applications {
		p, err := NewAppProfile(spec)
		if err != nil {
			return nil, err
		}
		apps[i] = p
	}
	if len(apps) > 1 && rng == nil {
		return nil, fmt.Errorf("stream load generator: rng is required with %d applications", len(apps))
	}

	appOfDevice := make([]int, sc.MobileDevices)
	if len(apps) > 1 {
		for d := range appOfDevice {
			appOfDevice[d] = rng.Intn(len(apps))
		}
	}
	return &StreamLoadGenerator{
		devices:       sc.MobileDevices,
		activityStart: sc.ClientActivityStart,
		horizon:       sc.SimulationTime,
		resolution:    sc.Channel.TimeResolution,
		apps:          apps,
		appOfDevice:   appOfDevice,
	}, nil
}

// TaskTypeOfDevice returns the application index run by deviceID.
func (g *StreamLoadGenerator) TaskTypeOfDevice(deviceID int) int {
	return g.appOfDevice[deviceID]
}

// Generate returns every task of the run sorted by start time, then device.
// IDs are task_0, task_1, ... in that order.
func (g *StreamLoadGenerator) Generate() []*sim.Task {
	var tasks []*sim.Task
	for d := 0; d < g.devices; d++ {
		app := g.apps[g.appOfDevice[d]]
		upload := app.BytesPerTick(g.resolution)
		length := app.MIPerTick(g.resolution)
		// multiply rather than accumulate so tick times do not drift
		for k := 0; ; k++ {
			start := g.activityStart + float64(k)*g.resolution
			if start >= g.horizon {
				break
			}
			tasks = append(tasks, &sim.Task{
				DeviceID:   d,
				AppType:    g.appOfDevice[d],
				StartTime:  start,
				Length:     length,
				InputSize:  upload,
				OutputSize: app.Spec.DownloadSize,
				State:      sim.TaskGenerated,
			})
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].StartTime != tasks[j].StartTime {
			return tasks[i].StartTime < tasks[j].StartTime
		}
		return tasks[i].DeviceID < tasks[j].DeviceID
	})
	for i, t := range tasks {
		t.ID = fmt.Sprintf("task_%d", i)
	}
	logrus.Infof("Generated %d stream tasks for %d devices", len(tasks), g.devices)
	return tasks
}
