package sim

import "math"

// Well-known device identifiers for non-mobile endpoints.
// Mobile devices are numbered from 0; these sit far above any device count.
const (
	CloudDatacenterID   = 1000
	EdgeOrchestratorID  = 1002
	GenericEdgeDeviceID = 1003
)

// ChannelConfig groups the shared wireless channel parameters.
type ChannelConfig struct {
	BandwidthMbps  float64 // WLAN bandwidth per access point in Mbps (must be > 0)
	TimeResolution float64 // workload tick in seconds; also the slot-search lookahead (must be > 0)
}

// NewChannelConfig creates a ChannelConfig.
func NewChannelConfig(bandwidthMbps, timeResolution float64) ChannelConfig {
	return ChannelConfig{
		BandwidthMbps:  bandwidthMbps,
		TimeResolution: timeResolution,
	}
}

// BytesPerSecond is the effective throughput of one access point.
func (c ChannelConfig) BytesPerSecond() float64 {
	return c.BandwidthMbps * 1e6 / 8
}

// Validate checks that bandwidth and resolution are positive and finite.
func (c ChannelConfig) Validate() error {
	if !positiveFinite(c.BandwidthMbps) {
		return NewConfigError("wlan_bandwidth_mbps", "must be a positive finite number, got %v", c.BandwidthMbps)
	}
	if !positiveFinite(c.TimeResolution) {
		return NewConfigError("time_resolution", "must be a positive finite number, got %v", c.TimeResolution)
	}
	return nil
}

// PropagationConfig groups fixed link latencies used by the distance model.
type PropagationConfig struct {
	WANPropagationDelay float64 // mobile device <-> cloud, seconds
	InternalLANDelay    float64 // edge device <-> orchestrator, seconds
}

// Validate checks that both delays are non-negative and finite.
func (p PropagationConfig) Validate() error {
	if p.WANPropagationDelay < 0 || math.IsNaN(p.WANPropagationDelay) || math.IsInf(p.WANPropagationDelay, 0) {
		return NewConfigError("wan_propagation_delay", "must be a non-negative finite number, got %v", p.WANPropagationDelay)
	}
	if p.InternalLANDelay < 0 || math.IsNaN(p.InternalLANDelay) || math.IsInf(p.InternalLANDelay, 0) {
		return NewConfigError("lan_internal_delay", "must be a non-negative finite number, got %v", p.InternalLANDelay)
	}
	return nil
}

// SimConfig groups the kernel parameters of a single run.
type SimConfig struct {
	Horizon         float64 // simulation end in seconds
	WarmUpPeriod    float64 // tasks starting earlier are excluded from metrics
	CloudMIPS       float64 // cloud processing speed; 0 means processing is instantaneous
	TimeResolution  float64 // interval between timeline compactions
	CompactTimeline bool    // drop airtime boundaries older than the current clock
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
