package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edge-sim/airtime-sim/sim"
)

type fakeInspector struct {
	counts []int
}

func (f fakeInspector) AccessPointCount() int    { return len(f.counts) }
func (f fakeInspector) BoundaryCount(ap int) int { return f.counts[ap] }

func TestTransferCollector_ObserveTransfer_CountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTransferCollector(reg)
	require.NoError(t, err)

	c.ObserveTransfer(sim.DirectionUpload, 0, true, 0.5)
	c.ObserveTransfer(sim.DirectionUpload, 0, true, 1.0)
	c.ObserveTransfer(sim.DirectionUpload, 0, false, 0)
	c.ObserveTransfer(sim.DirectionDownload, 1, true, 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Transfers.WithLabelValues("upload", "scheduled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Transfers.WithLabelValues("upload", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Transfers.WithLabelValues("download", "scheduled")))
	// failed transfers carry no delay sample
	assert.Equal(t, 2, testutil.CollectAndCount(c.TransferDelays))
}

func TestTransferCollector_RecordTimelines_SetsGaugePerAccessPoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTransferCollector(reg)
	require.NoError(t, err)

	c.RecordTimelines(fakeInspector{counts: []int{2, 7}})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.TimelineBoundaries.WithLabelValues("0")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.TimelineBoundaries.WithLabelValues("1")))
}

func TestNewTransferCollector_RegisterTwice_ReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewTransferCollector(reg)
	require.NoError(t, err)
	second, err := NewTransferCollector(reg)
	require.NoError(t, err)

	first.ObserveTransfer(sim.DirectionUpload, 0, true, 0.1)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Transfers.WithLabelValues("upload", "scheduled")))
}

func TestTransferCollector_NilReceiver_NoPanic(t *testing.T) {
	var c *TransferCollector
	assert.NotPanics(t, func() {
		c.ObserveTransfer(sim.DirectionUpload, 0, true, 1)
		c.RecordTimelines(fakeInspector{counts: []int{1}})
	})
}

func TestTransferCollector_WriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTransferCollector(reg)
	require.NoError(t, err)
	c.ObserveTransfer(sim.DirectionDownload, 0, false, 0)

	path := filepath.Join(t.TempDir(), "airtime.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `airtime_transfers_total{direction="download",outcome="failed"} 1`))
}
