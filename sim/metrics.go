// Tracks simulation-wide transfer and task metrics.

package sim

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Tasks that start before the warm-up period are excluded from every counter.
type Metrics struct {
	WarmUpPeriod float64

	GeneratedTasks  int
	CompletedTasks  int
	FailedUploads   int
	FailedDownloads int

	// Delay samples in seconds, one per scheduled transfer / completed task
	UploadDelays    []float64
	DownloadDelays  []float64
	ProcessingTimes []float64
	E2ELatencies    []float64

	SimEndedTime float64
}

// NewMetrics creates an empty Metrics.
func NewMetrics(warmUpPeriod float64) *Metrics {
	return &Metrics{
		WarmUpPeriod:    warmUpPeriod,
		UploadDelays:    make([]float64, 0),
		DownloadDelays:  make([]float64, 0),
		ProcessingTimes: make([]float64, 0),
		E2ELatencies:    make([]float64, 0),
	}
}

func (m *Metrics) counts(task *Task) bool {
	return task.StartTime >= m.WarmUpPeriod
}

func (m *Metrics) recordGenerated(task *Task) {
	if m.counts(task) {
		m.GeneratedTasks++
	}
}

func (m *Metrics) recordTransfer(task *Task, dir Direction, scheduled bool, delay float64) {
	if !m.counts(task) {
		return
	}
	switch {
	case dir == DirectionUpload && scheduled:
		m.UploadDelays = append(m.UploadDelays, delay)
	case dir == DirectionUpload:
		m.FailedUploads++
	case scheduled:
		m.DownloadDelays = append(m.DownloadDelays, delay)
	default:
		m.FailedDownloads++
	}
}

func (m *Metrics) recordProcessing(task *Task) {
	if m.counts(task) {
		m.ProcessingTimes = append(m.ProcessingTimes, task.ProcessingTime)
	}
}

func (m *Metrics) recordCompleted(task *Task) {
	if m.counts(task) {
		m.CompletedTasks++
		m.E2ELatencies = append(m.E2ELatencies, task.E2ELatency())
	}
}

// DelayStats summarizes a sample of delays in milliseconds.
type DelayStats struct {
	Count  int     `json:"count"`
	MeanMs float64 `json:"mean_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P90Ms  float64 `json:"p90_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
}

// MetricsSummary is the serializable end-of-run report.
type MetricsSummary struct {
	RunID           string     `json:"run_id"`
	SimEndedTimeS   float64    `json:"sim_ended_time_s"`
	GeneratedTasks  int        `json:"generated_tasks"`
	CompletedTasks  int        `json:"completed_tasks"`
	FailedUploads   int        `json:"failed_uploads"`
	FailedDownloads int        `json:"failed_downloads"`
	FailureRate     float64    `json:"failure_rate"`
	UploadDelay     DelayStats `json:"upload_delay"`
	DownloadDelay   DelayStats `json:"download_delay"`
	ProcessingTime  DelayStats `json:"processing_time"`
	EndToEndLatency DelayStats `json:"e2e_latency"`
}

// Summary computes the end-of-run report. runID tags the report for later
// correlation with trace and metrics files.
func (m *Metrics) Summary(runID string) MetricsSummary {
	s := MetricsSummary{
		RunID:           runID,
		SimEndedTimeS:   m.SimEndedTime,
		GeneratedTasks:  m.GeneratedTasks,
		CompletedTasks:  m.CompletedTasks,
		FailedUploads:   m.FailedUploads,
		FailedDownloads: m.FailedDownloads,
		UploadDelay:     NewDelayStats(m.UploadDelays),
		DownloadDelay:   NewDelayStats(m.DownloadDelays),
		ProcessingTime:  NewDelayStats(m.ProcessingTimes),
		EndToEndLatency: NewDelayStats(m.E2ELatencies),
	}
	if m.GeneratedTasks > 0 {
		s.FailureRate = float64(m.FailedUploads+m.FailedDownloads) / float64(m.GeneratedTasks)
	}
	return s
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	s := m.Summary("")
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Simulated Time       : %.2f s\n", s.SimEndedTimeS)
	fmt.Printf("Generated Tasks      : %d\n", s.GeneratedTasks)
	fmt.Printf("Completed Tasks      : %d\n", s.CompletedTasks)
	fmt.Printf("Failed Uploads       : %d\n", s.FailedUploads)
	fmt.Printf("Failed Downloads     : %d\n", s.FailedDownloads)
	fmt.Printf("Failure Rate         : %.4f\n", s.FailureRate)
	if s.CompletedTasks > 0 {
		fmt.Printf("Mean Upload Delay    : %.3f ms (p99 %.3f ms)\n", s.UploadDelay.MeanMs, s.UploadDelay.P99Ms)
		fmt.Printf("Mean Download Delay  : %.3f ms (p99 %.3f ms)\n", s.DownloadDelay.MeanMs, s.DownloadDelay.P99Ms)
		fmt.Printf("Mean E2E Latency     : %.3f ms (p99 %.3f ms)\n", s.EndToEndLatency.MeanMs, s.EndToEndLatency.P99Ms)
	}
}

// SaveResults writes the summary as indented JSON.
func (m *Metrics) SaveResults(runID, path string) error {
	data, err := json.MarshalIndent(m.Summary(runID), "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results %q: %w", path, err)
	}
	logrus.Infof("Results written to %s", path)
	return nil
}

// NewDelayStats summarizes a sample given in seconds. The input is not modified.
func NewDelayStats(samples []float64) DelayStats {
	if len(samples) == 0 {
		return DelayStats{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return DelayStats{
		Count:  len(sorted),
		MeanMs: CalculateMean(sorted) * 1000,
		P50Ms:  CalculatePercentile(sorted, 50) * 1000,
		P90Ms:  CalculatePercentile(sorted, 90) * 1000,
		P99Ms:  CalculatePercentile(sorted, 99) * 1000,
		MaxMs:  sorted[len(sorted)-1] * 1000,
	}
}

// CalculatePercentile returns the p-th percentile of sorted data using linear
// interpolation between closest ranks. Returns 0 for empty data.
func CalculatePercentile(data []float64, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return data[n-1]
	}
	if lowerIdx == upperIdx {
		return data[lowerIdx]
	}
	return data[lowerIdx] + (data[upperIdx]-data[lowerIdx])*(rank-float64(lowerIdx))
}

// CalculateMean returns the arithmetic mean, or 0 for empty data.
func CalculateMean(numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, number := range numbers {
		sum += number
	}
	return sum / float64(len(numbers))
}
