package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelConfig_BytesPerSecond(t *testing.T) {
	tests := []struct {
		mbps float64
		want float64
	}{
		{8, 1_000_000},
		{300, 37_500_000},
		{0.5, 62_500},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NewChannelConfig(tc.mbps, 1).BytesPerSecond(), "%v Mbps", tc.mbps)
	}
}

func TestChannelConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ChannelConfig
		field string
	}{
		{"valid", NewChannelConfig(300, 1), ""},
		{"zero bandwidth", NewChannelConfig(0, 1), "wlan_bandwidth_mbps"},
		{"negative bandwidth", NewChannelConfig(-8, 1), "wlan_bandwidth_mbps"},
		{"NaN bandwidth", NewChannelConfig(math.NaN(), 1), "wlan_bandwidth_mbps"},
		{"zero resolution", NewChannelConfig(8, 0), "time_resolution"},
		{"infinite resolution", NewChannelConfig(8, math.Inf(1)), "time_resolution"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigError
			if assert.True(t, errors.As(err, &ce)) {
				assert.Equal(t, tc.field, ce.Field)
			}
		})
	}
}

func TestPropagationConfig_Validate(t *testing.T) {
	assert.NoError(t, PropagationConfig{}.Validate())
	assert.NoError(t, PropagationConfig{WANPropagationDelay: 0.1, InternalLANDelay: 0.005}.Validate())
	assert.True(t, errors.Is(PropagationConfig{WANPropagationDelay: -1}.Validate(), ErrInvalidConfig))
	assert.True(t, errors.Is(PropagationConfig{InternalLANDelay: math.Inf(1)}.Validate(), ErrInvalidConfig))
}
