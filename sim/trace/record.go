// Package trace provides decision-trace recording for transfer scheduling analysis.
// This package has no dependencies on sim/ or its sub-packages: it stores pure data types.
package trace

// TransferRecord captures a single upload or download scheduling decision.
type TransferRecord struct {
	TaskID      string
	DeviceID    int
	AccessPoint int
	Direction   string  // "upload" or "download"
	Clock       float64 // simulated time of the request, seconds
	Delay       float64 // granted delay in seconds; 0 when not scheduled
	Scheduled   bool
}
