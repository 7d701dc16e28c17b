// Package observability exposes simulation outcomes as Prometheus metrics.
package observability

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edge-sim/airtime-sim/sim"
)

// TransferCollector bundles Prometheus metrics for transfer scheduling.
// It satisfies sim.TransferObserver.
type TransferCollector struct {
	gatherer prometheus.Gatherer

	Transfers          *prometheus.CounterVec
	TransferDelays     *prometheus.HistogramVec
	TimelineBoundaries *prometheus.GaugeVec
}

// NewTransferCollector registers transfer metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewTransferCollector(reg prometheus.Registerer) (*TransferCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	transfers, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airtime_transfers_total",
		Help: "Transfer requests by direction and outcome (scheduled or failed).",
	}, []string{"direction", "outcome"}), "airtime_transfers_total")
	if err != nil {
		return nil, err
	}

	delays, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airtime_transfer_delay_seconds",
		Help:    "Granted transfer delay (waiting plus transmission) in simulated seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"direction"}), "airtime_transfer_delay_seconds")
	if err != nil {
		return nil, err
	}

	boundaries, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "airtime_timeline_boundaries",
		Help: "Boundaries held by each access point's airtime timeline.",
	}, []string{"access_point"}), "airtime_timeline_boundaries")
	if err != nil {
		return nil, err
	}

	return &TransferCollector{
		gatherer:           gatherer,
		Transfers:          transfers,
		TransferDelays:     delays,
		TimelineBoundaries: boundaries,
	}, nil
}

// ObserveTransfer records one scheduling decision.
func (c *TransferCollector) ObserveTransfer(direction sim.Direction, accessPoint int, scheduled bool, delay float64) {
	if c == nil {
		return
	}
	outcome := "failed"
	if scheduled {
		outcome = "scheduled"
		c.TransferDelays.WithLabelValues(string(direction)).Observe(delay)
	}
	c.Transfers.WithLabelValues(string(direction), outcome).Inc()
}

// RecordTimelines sets the boundary gauge for every access point of the model.
func (c *TransferCollector) RecordTimelines(inspector sim.TimelineInspector) {
	if c == nil || inspector == nil {
		return
	}
	for ap := 0; ap < inspector.AccessPointCount(); ap++ {
		c.TimelineBoundaries.WithLabelValues(strconv.Itoa(ap)).Set(float64(inspector.BoundaryCount(ap)))
	}
}

// WriteTextfile writes every gathered metric to path in the Prometheus text
// exposition format.
func (c *TransferCollector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("writing metrics %q: %w", path, err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
