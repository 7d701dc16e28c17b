package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edge-sim/airtime-sim/sim/trace"
)

// stubNetwork returns fixed delays and counts lifecycle calls.
type stubNetwork struct {
	upload, download float64
	err              error

	initialized       bool
	started, finished int
}

func (n *stubNetwork) Initialize() error {
	n.initialized = true
	return nil
}

func (n *stubNetwork) UploadDelay(src, dst int, task *Task) (float64, error) {
	return n.upload, n.err
}

func (n *stubNetwork) DownloadDelay(src, dst int, task *Task) (float64, error) {
	return n.download, n.err
}

func (n *stubNetwork) UploadStarted(Location, int)    { n.started++ }
func (n *stubNetwork) UploadFinished(Location, int)   { n.finished++ }
func (n *stubNetwork) DownloadStarted(Location, int)  { n.started++ }
func (n *stubNetwork) DownloadFinished(Location, int) { n.finished++ }

type compactingNetwork struct {
	stubNetwork
	compactedAt []float64
}

func (n *compactingNetwork) Compact(before float64) int {
	n.compactedAt = append(n.compactedAt, before)
	return 0
}

// oneAccessPoint serves every device from access point 0.
type oneAccessPoint struct{}

func (oneAccessPoint) Location(int, float64) Location   { return Location{} }
func (oneAccessPoint) AccessPointLocation(int) Location { return Location{} }

type recordingObserver struct {
	scheduled, failed int
}

func (o *recordingObserver) ObserveTransfer(_ Direction, _ int, scheduled bool, _ float64) {
	if scheduled {
		o.scheduled++
	} else {
		o.failed++
	}
}

func newStubSimulator(t *testing.T, cfg SimConfig, network NetworkModel, tasks []*Task) *Simulator {
	t.Helper()
	s := NewSimulator(cfg, oneAccessPoint{}, tasks)
	require.NoError(t, s.SetNetworkModel(network))
	return s
}

func TestSimulator_TaskLifecycle_Completes(t *testing.T) {
	// GIVEN fixed 0.2s uploads, 0.1s downloads and a 100 MIPS cloud
	network := &stubNetwork{upload: 0.2, download: 0.1}
	task := &Task{ID: "task_0", StartTime: 1, Length: 50}
	s := newStubSimulator(t, SimConfig{Horizon: 10, CloudMIPS: 100}, network, []*Task{task})

	// WHEN the simulation runs
	require.NoError(t, s.Run())

	// THEN the task completes after upload + processing + download
	assert.True(t, network.initialized)
	assert.Equal(t, TaskCompleted, task.State)
	assert.InDelta(t, 0.5, task.ProcessingTime, 1e-12)
	assert.InDelta(t, 1.8, task.CompletedTime, 1e-12)
	assert.InDelta(t, 0.8, task.E2ELatency(), 1e-12)
	assert.Equal(t, 2, network.started)
	assert.Equal(t, 2, network.finished)
	assert.Equal(t, 1, s.Metrics.CompletedTasks)
	assert.Equal(t, []float64{0.2}, s.Metrics.UploadDelays)
}

func TestSimulator_ZeroUploadDelay_DropsTask(t *testing.T) {
	network := &stubNetwork{upload: 0, download: 0.1}
	task := &Task{ID: "task_0", StartTime: 0}
	s := newStubSimulator(t, SimConfig{Horizon: 10}, network, []*Task{task})

	require.NoError(t, s.Run())

	assert.Equal(t, TaskFailed, task.State)
	assert.Equal(t, "upload not schedulable", task.FailedReason)
	assert.Equal(t, 1, s.Metrics.FailedUploads)
	assert.Equal(t, 0, s.Metrics.CompletedTasks)
	assert.Equal(t, 0, network.started, "a dropped transfer never starts")
}

func TestSimulator_ZeroDownloadDelay_DropsTask(t *testing.T) {
	network := &stubNetwork{upload: 0.1, download: 0}
	task := &Task{ID: "task_0", StartTime: 0}
	s := newStubSimulator(t, SimConfig{Horizon: 10}, network, []*Task{task})

	require.NoError(t, s.Run())

	assert.Equal(t, TaskFailed, task.State)
	assert.Equal(t, 1, s.Metrics.FailedDownloads)
	assert.Equal(t, 0, s.Metrics.FailedUploads)
}

func TestSimulator_ConfigErrorAbortsRun(t *testing.T) {
	network := &stubNetwork{err: NewConfigError("bytes_to_transmit", "nothing to transmit")}
	tasks := []*Task{{ID: "task_0", StartTime: 0}, {ID: "task_1", StartTime: 1}}
	s := newStubSimulator(t, SimConfig{Horizon: 10}, network, tasks)

	err := s.Run()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "task_0")
	assert.Equal(t, TaskGenerated, tasks[1].State, "later events never run")
}

func TestSimulator_HorizonStopsEventLoop(t *testing.T) {
	// GIVEN a task whose upload would complete after the horizon
	network := &stubNetwork{upload: 3, download: 0.1}
	task := &Task{ID: "task_0", StartTime: 1}
	late := &Task{ID: "task_1", StartTime: 5}
	s := newStubSimulator(t, SimConfig{Horizon: 2}, network, []*Task{task, late})

	require.NoError(t, s.Run())

	assert.Equal(t, TaskUploading, task.State)
	assert.Equal(t, 1, s.Metrics.GeneratedTasks, "tasks starting after the horizon are never generated")
	assert.Equal(t, 1.0, s.Metrics.SimEndedTime)
}

func TestSimulator_EqualTimestamps_CompletionsBeforeArrivals(t *testing.T) {
	// GIVEN task_0's upload finishing exactly when task_1 arrives
	network := &stubNetwork{upload: 1, download: 1}
	first := &Task{ID: "task_0", StartTime: 0}
	second := &Task{ID: "task_1", StartTime: 1}
	s := newStubSimulator(t, SimConfig{Horizon: 10}, network, []*Task{second, first})

	var order []string
	s.Observer = observerFunc(func(dir Direction) { order = append(order, string(dir)) })

	require.NoError(t, s.Run())

	// THEN task_0 reaches its download request before task_1's upload request
	assert.Equal(t, []string{"upload", "download", "upload", "download"}, order)
}

type observerFunc func(dir Direction)

func (f observerFunc) ObserveTransfer(dir Direction, _ int, _ bool, _ float64) { f(dir) }

func TestSimulator_Compaction_RunsEveryResolutionWhileWorkRemains(t *testing.T) {
	network := &compactingNetwork{stubNetwork: stubNetwork{upload: 0.1, download: 0.1}}
	tasks := []*Task{{ID: "task_0", StartTime: 0}, {ID: "task_1", StartTime: 2.5}}
	cfg := SimConfig{Horizon: 100, TimeResolution: 1, CompactTimeline: true}
	s := newStubSimulator(t, cfg, network, tasks)

	require.NoError(t, s.Run())

	assert.Equal(t, []float64{1, 2, 3}, network.compactedAt)
}

func TestSimulator_Compaction_OffByDefault(t *testing.T) {
	network := &compactingNetwork{stubNetwork: stubNetwork{upload: 0.1, download: 0.1}}
	s := newStubSimulator(t, SimConfig{Horizon: 100, TimeResolution: 1}, network, []*Task{{ID: "task_0", StartTime: 5}})

	require.NoError(t, s.Run())

	assert.Empty(t, network.compactedAt)
}

func TestSimulator_TraceAndObserverSeeEveryDecision(t *testing.T) {
	network := &stubNetwork{upload: 0.1, download: 0}
	tasks := []*Task{{ID: "task_0", StartTime: 0, DeviceID: 4}, {ID: "task_1", StartTime: 1}}
	s := newStubSimulator(t, SimConfig{Horizon: 10}, network, tasks)
	s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTransfers})
	observer := &recordingObserver{}
	s.Observer = observer

	require.NoError(t, s.Run())

	assert.Equal(t, 2, observer.scheduled)
	assert.Equal(t, 2, observer.failed)
	require.Len(t, s.Trace.Transfers, 4)
	assert.Equal(t, "task_0", s.Trace.Transfers[0].TaskID)
	assert.Equal(t, 4, s.Trace.Transfers[0].DeviceID)
	assert.Equal(t, "upload", s.Trace.Transfers[0].Direction)
	assert.False(t, s.Trace.Transfers[1].Scheduled)
}

func TestSimulator_WarmUpTransfers_SkipObserverButNotTrace(t *testing.T) {
	// GIVEN one task inside the 2s warm-up and one after it
	network := &stubNetwork{upload: 0.1, download: 0.1}
	tasks := []*Task{{ID: "task_0", StartTime: 1}, {ID: "task_1", StartTime: 3}}
	s := newStubSimulator(t, SimConfig{Horizon: 10, WarmUpPeriod: 2}, network, tasks)
	s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTransfers})
	observer := &recordingObserver{}
	s.Observer = observer

	require.NoError(t, s.Run())

	// THEN the observer agrees with the metrics: only task_1's two transfers
	assert.Equal(t, 2, observer.scheduled)
	assert.Equal(t, len(s.Metrics.UploadDelays)+len(s.Metrics.DownloadDelays), observer.scheduled)
	assert.Len(t, s.Trace.Transfers, 4)
}

func TestSimulator_Run_RequiresCollaborators(t *testing.T) {
	s := NewSimulator(SimConfig{Horizon: 1}, oneAccessPoint{}, nil)
	assert.Error(t, s.Run())
	assert.Error(t, s.SetNetworkModel(nil))
}

// airtimeScenario is one access point at 8 Mbps (1e6 bytes/s) and a 1s lookahead.
func airtimeScenario() *Scenario {
	sc := DefaultScenario()
	sc.SimulationTime = 10
	sc.MobileDevices = 3
	sc.AccessPoints = 1
	sc.Channel.WLANBandwidthMbps = 8
	sc.Channel.TimeResolution = 1
	sc.Mobility = MobilitySpec{Model: "static"}
	return sc
}

func TestNewSimulatorFromScenario_AirtimeContention(t *testing.T) {
	// GIVEN three devices on one access point, each uploading 0.6s of data at t=0
	tasks := make([]*Task, 3)
	for i := range tasks {
		tasks[i] = &Task{ID: fmt.Sprintf("task_%d", i), DeviceID: i, InputSize: 600_000, OutputSize: 100_000}
	}
	s, err := NewSimulatorFromScenario(airtimeScenario(), 42, tasks)
	require.NoError(t, err)

	// WHEN the run completes
	require.NoError(t, s.Run())

	// THEN the first two uploads are serialized and the third does not fit in [0, 1)
	assert.InDelta(t, 0.6, tasks[0].UploadDelay, 1e-9)
	assert.InDelta(t, 1.2, tasks[1].UploadDelay, 1e-9)
	assert.Equal(t, TaskFailed, tasks[2].State)
	assert.Equal(t, 1, s.Metrics.FailedUploads)

	// task_0's download waits for task_1's upload to clear the channel at 1.2
	assert.InDelta(t, 0.7, tasks[0].DownloadDelay, 1e-9)
	assert.InDelta(t, 1.3, tasks[0].E2ELatency(), 1e-9)
	// task_1's download follows at 1.3
	assert.InDelta(t, 0.2, tasks[1].DownloadDelay, 1e-9)
	assert.InDelta(t, 1.4, tasks[1].E2ELatency(), 1e-9)
	assert.Equal(t, 2, s.Metrics.CompletedTasks)
}

func TestNewSimulatorFromScenario_SameSeedSameMetrics(t *testing.T) {
	run := func() *Metrics {
		sc := DefaultScenario()
		sc.SimulationTime = 20
		sc.MobileDevices = 30
		sc.Channel.WLANBandwidthMbps = 20
		var tasks []*Task
		for tick := 0; tick < 19; tick++ {
			for d := 0; d < sc.MobileDevices; d++ {
				tasks = append(tasks, &Task{ID: "t", DeviceID: d, StartTime: float64(tick + 1), InputSize: 400_000, OutputSize: 1000})
			}
		}
		s, err := NewSimulatorFromScenario(sc, 11, tasks)
		require.NoError(t, err)
		require.NoError(t, s.Run())
		return s.Metrics
	}

	a, b := run(), run()

	assert.Equal(t, a, b)
	assert.Positive(t, a.FailedUploads, "20 Mbps cannot carry 30 uploads of 0.16s per second on 4 access points")
	assert.Positive(t, a.CompletedTasks)
}

func TestNewSimulatorFromScenario_InvalidScenario(t *testing.T) {
	sc := airtimeScenario()
	sc.Channel.WLANBandwidthMbps = 0

	_, err := NewSimulatorFromScenario(sc, 1, nil)

	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestNewSimulatorFromScenario_DistanceModel(t *testing.T) {
	sc := airtimeScenario()
	sc.NetworkModel = "distance"
	task := &Task{ID: "task_0", DeviceID: 0, InputSize: 1, OutputSize: 1}
	s, err := NewSimulatorFromScenario(sc, 1, []*Task{task})
	require.NoError(t, err)

	require.NoError(t, s.Run())

	assert.Equal(t, TaskCompleted, task.State)
	assert.InDelta(t, 2*sc.Channel.WANPropagationDelay, task.E2ELatency(), 1e-12)
}

func TestNewSimulatorFromScenario_DistanceModelWithWaypointMobility(t *testing.T) {
	// GIVEN a device walking between four access points
	sc := DefaultScenario()
	sc.SimulationTime = 60
	sc.MobileDevices = 1
	sc.NetworkModel = "distance"
	sc.Mobility.Model = "rwp"
	task := &Task{ID: "task_0", DeviceID: 0, StartTime: 5, InputSize: 1, OutputSize: 1}
	s, err := NewSimulatorFromScenario(sc, 3, []*Task{task})
	require.NoError(t, err)

	require.NoError(t, s.Run())

	// THEN the cloud round trip still completes over the WAN
	assert.Equal(t, TaskCompleted, task.State)
	assert.InDelta(t, 2*sc.Channel.WANPropagationDelay, task.E2ELatency(), 1e-12)
}
