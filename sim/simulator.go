// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edge-sim/airtime-sim/sim/trace"
)

type queuedEvent struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface with deterministic ordering.
// Order by: timestamp → event type → scheduling sequence.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []queuedEvent

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	ti, tj := eq[i].ev.Timestamp(), eq[j].ev.Timestamp()
	if ti != tj {
		return ti < tj
	}
	if eq[i].ev.Type() != eq[j].ev.Type() {
		return eq[i].ev.Type() < eq[j].ev.Type()
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(queuedEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, the network and
// mobility collaborators, and the event loop.
type Simulator struct {
	Clock   float64
	Horizon float64
	// EventQueue has all the simulator events: arrivals, transfer completions, compactions
	EventQueue EventQueue
	Network    NetworkModel
	Mobility   MobilityModel
	Tasks      []*Task
	Metrics    *Metrics
	// Trace is nil unless decision tracing was requested
	Trace *trace.SimulationTrace
	// Observer is nil unless an external metrics sink was attached
	Observer TransferObserver

	config  SimConfig
	nextSeq uint64
}

// NewSimulator creates a simulator for the given tasks. A NetworkModel must be
// attached with SetNetworkModel before Run.
func NewSimulator(cfg SimConfig, mobility MobilityModel, tasks []*Task) *Simulator {
	return &Simulator{
		Clock:      0,
		Horizon:    cfg.Horizon,
		EventQueue: make(EventQueue, 0),
		Mobility:   mobility,
		Tasks:      tasks,
		Metrics:    NewMetrics(cfg.WarmUpPeriod),
		config:     cfg,
	}
}

// NewSimulatorFromScenario validates the scenario, builds the registered
// mobility and network models it names, and returns a ready-to-run simulator.
func NewSimulatorFromScenario(sc *Scenario, seed int64, tasks []*Task) (*Simulator, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if NewMobilityModelFunc == nil {
		return nil, fmt.Errorf("no mobility models registered (import sim/mobility)")
	}
	if NewNetworkModelFunc == nil {
		return nil, fmt.Errorf("no network models registered (import sim/network)")
	}

	rng := NewPartitionedRNG(NewSimulationKey(seed))
	mobility, err := NewMobilityModelFunc(sc.Mobility.Model, MobilityDeps{
		Devices:        sc.MobileDevices,
		AccessPoints:   sc.AccessPoints,
		AreaXSize:      sc.AreaXSize,
		AreaYSize:      sc.AreaYSize,
		Horizon:        sc.SimulationTime,
		PauseMean:      sc.Mobility.PauseTimeMean,
		PauseStdDev:    sc.Mobility.PauseTimeStdDev,
		VelocityMean:   sc.Mobility.VelocityMean,
		VelocityStdDev: sc.Mobility.VelocityStdDev,
		RNG:            rng.ForSubsystem(SubsystemMobility),
	})
	if err != nil {
		return nil, fmt.Errorf("mobility model: %w", err)
	}

	s := NewSimulator(sc.SimConfig(), mobility, tasks)
	network, err := NewNetworkModelFunc(sc.NetworkModel, NetworkModelDeps{
		Channel:      sc.ChannelConfig(),
		Propagation:  sc.PropagationConfig(),
		AccessPoints: sc.AccessPoints,
		Clock:        s,
		Mobility:     mobility,
	})
	if err != nil {
		return nil, fmt.Errorf("network model: %w", err)
	}
	if err := s.SetNetworkModel(network); err != nil {
		return nil, err
	}
	return s, nil
}

// Now returns the current simulated time. Simulator satisfies Clock.
func (sim *Simulator) Now() float64 {
	return sim.Clock
}

// SetNetworkModel initializes and attaches the network model.
func (sim *Simulator) SetNetworkModel(m NetworkModel) error {
	if m == nil {
		return fmt.Errorf("network model must not be nil")
	}
	if err := m.Initialize(); err != nil {
		return fmt.Errorf("initializing network model: %w", err)
	}
	sim.Network = m
	return nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, queuedEvent{ev: ev, seq: sim.nextSeq})
	sim.nextSeq++
}

// Run executes events until the queue drains or the horizon is passed.
// A configuration error raised while handling an event aborts the run.
func (sim *Simulator) Run() error {
	if sim.Network == nil {
		return fmt.Errorf("no network model attached")
	}
	if sim.Mobility == nil {
		return fmt.Errorf("no mobility model attached")
	}

	for _, task := range sim.Tasks {
		if task.StartTime > sim.Horizon {
			continue
		}
		task.State = TaskGenerated
		sim.Metrics.recordGenerated(task)
		sim.Schedule(&TaskArrivalEvent{baseEvent: baseEvent{time: task.StartTime}, Task: task})
	}
	if sim.compactionEnabled() {
		sim.Schedule(&CompactionEvent{baseEvent: baseEvent{time: sim.config.TimeResolution}})
	}

	for len(sim.EventQueue) > 0 {
		qe := heap.Pop(&sim.EventQueue).(queuedEvent)
		if qe.ev.Timestamp() > sim.Horizon {
			break
		}
		sim.Clock = qe.ev.Timestamp()
		logrus.Debugf("[t=%.6fs] Executing %T", sim.Clock, qe.ev)
		if err := qe.ev.Execute(sim); err != nil {
			return fmt.Errorf("event %T at %.6fs: %w", qe.ev, sim.Clock, err)
		}
	}
	sim.Metrics.SimEndedTime = min(sim.Clock, sim.Horizon)
	logrus.Infof("[t=%.6fs] Simulation ended", sim.Clock)
	return nil
}

func (sim *Simulator) compactionEnabled() bool {
	if !sim.config.CompactTimeline || !positiveFinite(sim.config.TimeResolution) {
		return false
	}
	_, ok := sim.Network.(TimelineCompactor)
	return ok
}

func (sim *Simulator) compact() {
	compactor, ok := sim.Network.(TimelineCompactor)
	if !ok {
		return
	}
	removed := compactor.Compact(sim.Clock)
	logrus.Debugf("[t=%.6fs] compacted %d airtime boundaries", sim.Clock, removed)
	// keep compacting only while other work remains
	if len(sim.EventQueue) > 0 {
		sim.Schedule(&CompactionEvent{baseEvent: baseEvent{time: sim.Clock + sim.config.TimeResolution}})
	}
}

func (sim *Simulator) startUpload(task *Task) error {
	task.State = TaskUploading
	delay, err := sim.Network.UploadDelay(task.DeviceID, CloudDatacenterID, task)
	if err != nil {
		return fmt.Errorf("upload delay for %s: %w", task.ID, err)
	}
	loc := sim.Mobility.Location(task.DeviceID, sim.Clock)
	scheduled := delay > 0
	sim.recordTransfer(task, DirectionUpload, loc.ServingAccessPoint, scheduled, delay)
	if !scheduled {
		sim.failTask(task, DirectionUpload)
		return nil
	}
	task.UploadDelay = delay
	sim.Network.UploadStarted(loc, CloudDatacenterID)
	sim.Schedule(&UploadCompletedEvent{baseEvent: baseEvent{time: sim.Clock + delay}, Task: task})
	return nil
}

func (sim *Simulator) finishUpload(task *Task) {
	loc := sim.Mobility.Location(task.DeviceID, sim.Clock)
	sim.Network.UploadFinished(loc, CloudDatacenterID)

	task.State = TaskProcessing
	if sim.config.CloudMIPS > 0 {
		task.ProcessingTime = float64(task.Length) / sim.config.CloudMIPS
	}
	sim.Metrics.recordProcessing(task)
	sim.Schedule(&ProcessingCompletedEvent{baseEvent: baseEvent{time: sim.Clock + task.ProcessingTime}, Task: task})
}

func (sim *Simulator) startDownload(task *Task) error {
	task.State = TaskDownloading
	delay, err := sim.Network.DownloadDelay(CloudDatacenterID, task.DeviceID, task)
	if err != nil {
		return fmt.Errorf("download delay for %s: %w", task.ID, err)
	}
	loc := sim.Mobility.Location(task.DeviceID, sim.Clock)
	scheduled := delay > 0
	sim.recordTransfer(task, DirectionDownload, loc.ServingAccessPoint, scheduled, delay)
	if !scheduled {
		sim.failTask(task, DirectionDownload)
		return nil
	}
	task.DownloadDelay = delay
	sim.Network.DownloadStarted(loc, CloudDatacenterID)
	sim.Schedule(&DownloadCompletedEvent{baseEvent: baseEvent{time: sim.Clock + delay}, Task: task})
	return nil
}

func (sim *Simulator) finishDownload(task *Task) {
	loc := sim.Mobility.Location(task.DeviceID, sim.Clock)
	sim.Network.DownloadFinished(loc, CloudDatacenterID)

	task.State = TaskCompleted
	task.CompletedTime = sim.Clock
	sim.Metrics.recordCompleted(task)
}

func (sim *Simulator) failTask(task *Task, dir Direction) {
	task.State = TaskFailed
	task.FailedReason = fmt.Sprintf("%s not schedulable", dir)
	logrus.Debugf("[t=%.6fs] %s dropped: %s", sim.Clock, task.ID, task.FailedReason)
}

// recordTransfer reports one scheduling decision. Metrics and the observer
// skip warm-up tasks; the trace keeps every decision.
func (sim *Simulator) recordTransfer(task *Task, dir Direction, ap int, scheduled bool, delay float64) {
	sim.Metrics.recordTransfer(task, dir, scheduled, delay)
	if sim.Observer != nil && sim.Metrics.counts(task) {
		sim.Observer.ObserveTransfer(dir, ap, scheduled, delay)
	}
	if sim.Trace != nil && sim.Trace.Config.Level != trace.TraceLevelNone {
		sim.Trace.RecordTransfer(trace.TransferRecord{
			TaskID:      task.ID,
			DeviceID:    task.DeviceID,
			AccessPoint: ap,
			Direction:   string(dir),
			Clock:       sim.Clock,
			Delay:       delay,
			Scheduled:   scheduled,
		})
	}
}
