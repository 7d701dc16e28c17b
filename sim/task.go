package sim

// TaskState is the lifecycle stage of a Task.
type TaskState string

const (
	TaskGenerated   TaskState = "generated"
	TaskUploading   TaskState = "uploading"
	TaskProcessing  TaskState = "processing"
	TaskDownloading TaskState = "downloading"
	TaskCompleted   TaskState = "completed"
	TaskFailed      TaskState = "failed"
)

// Direction identifies which leg of a task a transfer belongs to.
type Direction string

const (
	DirectionUpload   Direction = "upload"
	DirectionDownload Direction = "download"
)

// Task is one unit of offloaded work: an upload to the cloud, processing,
// and a download of the result back to the mobile device.
type Task struct {
	ID         string
	DeviceID   int
	AppType    int     // index into the scenario's applications
	StartTime  float64 // seconds
	Length     int64   // million instructions
	InputSize  int64   // bytes uploaded
	OutputSize int64   // bytes downloaded

	State TaskState

	UploadDelay    float64
	ProcessingTime float64
	DownloadDelay  float64
	CompletedTime  float64
	FailedReason   string
}

// E2ELatency is the time from task start to download completion.
// Only meaningful once the task is completed.
func (t *Task) E2ELatency() float64 {
	return t.CompletedTime - t.StartTime
}

// TransferRequest is the per-query view handed to the channel scheduler.
// It is built fresh for every delay query and never stored.
type TransferRequest struct {
	DeviceID        int
	AccessPointID   int
	BytesToTransmit int64
}
