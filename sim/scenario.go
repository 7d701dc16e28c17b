package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the full scenario file. It is loaded once before the run starts
// and treated as immutable afterwards.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	SimulationTime      float64           `yaml:"simulation_time"`       // seconds
	WarmUpPeriod        float64           `yaml:"warm_up_period"`        // seconds
	ClientActivityStart float64           `yaml:"client_activity_start"` // first task start time, seconds
	MobileDevices       int               `yaml:"mobile_devices"`
	AccessPoints        int               `yaml:"access_points"`
	AreaXSize           float64           `yaml:"area_x_size"` // meters
	AreaYSize           float64           `yaml:"area_y_size"` // meters
	NetworkModel        string            `yaml:"network_model"`
	CloudMIPS           float64           `yaml:"cloud_mips"`
	Channel             ChannelSpec       `yaml:"channel"`
	Mobility            MobilitySpec      `yaml:"mobility"`
	Applications        []ApplicationSpec `yaml:"applications"`
}

// ChannelSpec is the channel section of a scenario file.
type ChannelSpec struct {
	WLANBandwidthMbps   float64 `yaml:"wlan_bandwidth_mbps"`
	TimeResolution      float64 `yaml:"time_resolution"`
	WANPropagationDelay float64 `yaml:"wan_propagation_delay"`
	LANInternalDelay    float64 `yaml:"lan_internal_delay"`
	CompactTimeline     bool    `yaml:"compact_timeline"`
}

// MobilitySpec is the mobility section of a scenario file.
type MobilitySpec struct {
	Model           string  `yaml:"model"`
	PauseTimeMean   float64 `yaml:"pause_time_mean"`   // seconds
	PauseTimeStdDev float64 `yaml:"pause_time_stddev"` // seconds
	VelocityMean    float64 `yaml:"velocity_mean"`     // m/s, rwp only
	VelocityStdDev  float64 `yaml:"velocity_stddev"`   // m/s, rwp only
}

// ApplicationSpec describes one streaming application run by mobile devices.
type ApplicationSpec struct {
	Name                 string  `yaml:"name"`
	VideoXSize           int     `yaml:"video_x_size"`
	VideoYSize           int     `yaml:"video_y_size"`
	BitsPerPixel         int     `yaml:"bits_per_pixel"`
	FPS                  float64 `yaml:"fps"`
	CompressionFactor    float64 `yaml:"compression_factor"`
	InstructionsPerPixel int     `yaml:"instructions_per_pixel"`
	DownloadSize         int64   `yaml:"download_size"` // bytes
}

// ValidNetworkModels is the set of recognized network model names.
var ValidNetworkModels = map[string]bool{"airtime": true, "distance": true}

// ValidMobilityModels is the set of recognized mobility model names.
var ValidMobilityModels = map[string]bool{"static": true, "nomadic": true, "rwp": true}

// DefaultScenario returns the scenario used when no file is given.
func DefaultScenario() *Scenario {
	return &Scenario{
		SimulationTime:      300,
		WarmUpPeriod:        0,
		ClientActivityStart: 1,
		MobileDevices:       50,
		AccessPoints:        4,
		AreaXSize:           1000,
		AreaYSize:           1000,
		NetworkModel:        "airtime",
		CloudMIPS:           0,
		Channel: ChannelSpec{
			WLANBandwidthMbps:   300,
			TimeResolution:      1,
			WANPropagationDelay: 0.1,
			LANInternalDelay:    0.005,
		},
		Mobility: MobilitySpec{
			Model:           "nomadic",
			PauseTimeMean:   8,
			PauseTimeStdDev: 2,
			VelocityMean:    1,
			VelocityStdDev:  0.5,
		},
		Applications: []ApplicationSpec{
			{
				Name:                 "video_stream",
				VideoXSize:           640,
				VideoYSize:           480,
				BitsPerPixel:         24,
				FPS:                  15,
				CompressionFactor:    0.05,
				InstructionsPerPixel: 40,
				DownloadSize:         1000,
			},
		},
	}
}

// LoadScenario reads and strictly parses a YAML scenario file.
// Unknown fields are rejected so that typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Marshal renders the scenario as YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// ChannelConfig extracts the channel parameters.
func (s *Scenario) ChannelConfig() ChannelConfig {
	return NewChannelConfig(s.Channel.WLANBandwidthMbps, s.Channel.TimeResolution)
}

// PropagationConfig extracts the fixed link latencies.
func (s *Scenario) PropagationConfig() PropagationConfig {
	return PropagationConfig{
		WANPropagationDelay: s.Channel.WANPropagationDelay,
		InternalLANDelay:    s.Channel.LANInternalDelay,
	}
}

// SimConfig extracts the kernel parameters.
func (s *Scenario) SimConfig() SimConfig {
	return SimConfig{
		Horizon:         s.SimulationTime,
		WarmUpPeriod:    s.WarmUpPeriod,
		CloudMIPS:       s.CloudMIPS,
		TimeResolution:  s.Channel.TimeResolution,
		CompactTimeline: s.Channel.CompactTimeline,
	}
}

// Validate checks every section and returns the first *ConfigError found.
func (s *Scenario) Validate() error {
	if !positiveFinite(s.SimulationTime) {
		return NewConfigError("simulation_time", "must be a positive finite number, got %v", s.SimulationTime)
	}
	if s.WarmUpPeriod < 0 || s.WarmUpPeriod >= s.SimulationTime {
		return NewConfigError("warm_up_period", "must be in [0, simulation_time), got %v", s.WarmUpPeriod)
	}
	if s.ClientActivityStart < 0 {
		return NewConfigError("client_activity_start", "must be non-negative, got %v", s.ClientActivityStart)
	}
	if s.MobileDevices <= 0 {
		return NewConfigError("mobile_devices", "must be > 0, got %d", s.MobileDevices)
	}
	if s.MobileDevices >= CloudDatacenterID {
		return NewConfigError("mobile_devices", "must be < %d, got %d", CloudDatacenterID, s.MobileDevices)
	}
	if s.AccessPoints <= 0 {
		return NewConfigError("access_points", "must be > 0, got %d", s.AccessPoints)
	}
	if s.AreaXSize < 0 || s.AreaYSize < 0 {
		return NewConfigError("area", "sizes must be non-negative, got %vx%v", s.AreaXSize, s.AreaYSize)
	}
	if !ValidNetworkModels[s.NetworkModel] {
		return NewConfigError("network_model", "unknown model %q", s.NetworkModel)
	}
	if s.CloudMIPS < 0 {
		return NewConfigError("cloud_mips", "must be non-negative, got %v", s.CloudMIPS)
	}
	if err := s.ChannelConfig().Validate(); err != nil {
		return err
	}
	if err := s.PropagationConfig().Validate(); err != nil {
		return err
	}
	if !ValidMobilityModels[s.Mobility.Model] {
		return NewConfigError("mobility.model", "unknown model %q", s.Mobility.Model)
	}
	if s.Mobility.Model == "nomadic" || s.Mobility.Model == "rwp" {
		if !positiveFinite(s.Mobility.PauseTimeMean) {
			return NewConfigError("mobility.pause_time_mean", "must be a positive finite number, got %v", s.Mobility.PauseTimeMean)
		}
		if s.Mobility.PauseTimeStdDev < 0 {
			return NewConfigError("mobility.pause_time_stddev", "must be non-negative, got %v", s.Mobility.PauseTimeStdDev)
		}
	}
	if s.Mobility.Model == "rwp" {
		if !positiveFinite(s.Mobility.VelocityMean) {
			return NewConfigError("mobility.velocity_mean", "must be a positive finite number, got %v", s.Mobility.VelocityMean)
		}
		if s.Mobility.VelocityStdDev < 0 {
			return NewConfigError("mobility.velocity_stddev", "must be non-negative, got %v", s.Mobility.VelocityStdDev)
		}
		if !positiveFinite(s.AreaXSize) || !positiveFinite(s.AreaYSize) {
			return NewConfigError("area", "rwp mobility needs a positive area, got %vx%v", s.AreaXSize, s.AreaYSize)
		}
	}
	if len(s.Applications) == 0 {
		return NewConfigError("applications", "at least one application is required")
	}
	for i, app := range s.Applications {
		if err := app.Validate(); err != nil {
			return fmt.Errorf("applications[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks that every dimension of the application is positive.
func (a ApplicationSpec) Validate() error {
	if a.Name == "" {
		return NewConfigError("name", "must not be empty")
	}
	if a.VideoXSize <= 0 || a.VideoYSize <= 0 {
		return NewConfigError("video size", "must be > 0, got %dx%d", a.VideoXSize, a.VideoYSize)
	}
	if a.BitsPerPixel <= 0 {
		return NewConfigError("bits_per_pixel", "must be > 0, got %d", a.BitsPerPixel)
	}
	if !positiveFinite(a.FPS) {
		return NewConfigError("fps", "must be a positive finite number, got %v", a.FPS)
	}
	if !positiveFinite(a.CompressionFactor) {
		return NewConfigError("compression_factor", "must be a positive finite number, got %v", a.CompressionFactor)
	}
	if a.InstructionsPerPixel < 0 {
		return NewConfigError("instructions_per_pixel", "must be non-negative, got %d", a.InstructionsPerPixel)
	}
	if a.DownloadSize <= 0 {
		return NewConfigError("download_size", "must be > 0, got %d", a.DownloadSize)
	}
	return nil
}
