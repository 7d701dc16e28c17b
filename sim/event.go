package sim

import "github.com/sirupsen/logrus"

// EventType orders events that share a timestamp.
type EventType int

// Lower values execute first at equal timestamps. Completions run before new
// arrivals so that a finished upload releases its task before the next wave
// of requests is admitted, and compaction runs last.
const (
	EventTypeDownloadCompleted EventType = iota
	EventTypeUploadCompleted
	EventTypeProcessingCompleted
	EventTypeTaskArrival
	EventTypeCompaction
)

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in seconds) and an Execute method
// that advances simulation state when invoked. A non-nil error from Execute
// aborts the run.
type Event interface {
	Timestamp() float64
	Type() EventType
	Execute(*Simulator) error
}

type baseEvent struct {
	time float64
}

func (e *baseEvent) Timestamp() float64 {
	return e.time
}

// TaskArrivalEvent marks the start of a task: its input is offered to the
// network for upload to the cloud.
type TaskArrivalEvent struct {
	baseEvent
	Task *Task
}

func (e *TaskArrivalEvent) Type() EventType { return EventTypeTaskArrival }

// Execute requests an upload slot for the task.
func (e *TaskArrivalEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< TaskArrival: %s (device %d) at %.6fs", e.Task.ID, e.Task.DeviceID, e.time)
	return sim.startUpload(e.Task)
}

// UploadCompletedEvent fires when a task's input has reached the cloud.
type UploadCompletedEvent struct {
	baseEvent
	Task *Task
}

func (e *UploadCompletedEvent) Type() EventType { return EventTypeUploadCompleted }

// Execute hands the task to cloud processing.
func (e *UploadCompletedEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< UploadCompleted: %s at %.6fs", e.Task.ID, e.time)
	sim.finishUpload(e.Task)
	return nil
}

// ProcessingCompletedEvent fires when the cloud has finished executing a task.
type ProcessingCompletedEvent struct {
	baseEvent
	Task *Task
}

func (e *ProcessingCompletedEvent) Type() EventType { return EventTypeProcessingCompleted }

// Execute requests a download slot for the task's output.
func (e *ProcessingCompletedEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< ProcessingCompleted: %s at %.6fs", e.Task.ID, e.time)
	return sim.startDownload(e.Task)
}

// DownloadCompletedEvent fires when a task's output is back on the device.
type DownloadCompletedEvent struct {
	baseEvent
	Task *Task
}

func (e *DownloadCompletedEvent) Type() EventType { return EventTypeDownloadCompleted }

// Execute records the completed task.
func (e *DownloadCompletedEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< DownloadCompleted: %s at %.6fs", e.Task.ID, e.time)
	sim.finishDownload(e.Task)
	return nil
}

// CompactionEvent drops network history older than the current clock and
// reschedules itself one time resolution later.
type CompactionEvent struct {
	baseEvent
}

func (e *CompactionEvent) Type() EventType { return EventTypeCompaction }

// Execute compacts the network model's timelines.
func (e *CompactionEvent) Execute(sim *Simulator) error {
	sim.compact()
	return nil
}
