package sim

// Clock supplies the current simulated time.
type Clock interface {
	Now() float64
}

// NetworkModel computes transfer delays between mobile devices and the rest
// of the system. Two implementations exist in sim/network: the airtime
// contention model and the closed-form physical distance model.
//
// A returned delay of 0 means the transfer cannot be scheduled within the
// expected horizon; the caller decides what to do with the task. Errors are
// reserved for configuration problems (*ConfigError) and abort the run.
type NetworkModel interface {
	Initialize() error

	// UploadDelay returns the delay for sending task's input from source to dest.
	UploadDelay(sourceDeviceID, destDeviceID int, task *Task) (float64, error)

	// DownloadDelay returns the delay for sending task's output from source to dest.
	DownloadDelay(sourceDeviceID, destDeviceID int, task *Task) (float64, error)

	// Lifecycle hooks for models that track active transfers explicitly.
	UploadStarted(accessPoint Location, destDeviceID int)
	UploadFinished(accessPoint Location, destDeviceID int)
	DownloadStarted(accessPoint Location, sourceDeviceID int)
	DownloadFinished(accessPoint Location, sourceDeviceID int)
}

// TimelineCompactor is implemented by network models that keep per-access-point
// history which can be dropped once the clock has moved past it.
type TimelineCompactor interface {
	// Compact drops history strictly before the given time and returns the
	// number of entries removed.
	Compact(before float64) int
}

// TimelineInspector exposes per-access-point timeline sizes for reporting.
type TimelineInspector interface {
	AccessPointCount() int
	BoundaryCount(ap int) int
}

// NetworkModelDeps carries everything a NetworkModel constructor may need.
type NetworkModelDeps struct {
	Channel      ChannelConfig
	Propagation  PropagationConfig
	AccessPoints int
	Clock        Clock
	Mobility     MobilityModel
}

// NewNetworkModelFunc is set by sim/network's init().
var NewNetworkModelFunc func(name string, deps NetworkModelDeps) (NetworkModel, error)

// TransferObserver receives every transfer decision made during a run.
type TransferObserver interface {
	ObserveTransfer(direction Direction, accessPoint int, scheduled bool, delay float64)
}
