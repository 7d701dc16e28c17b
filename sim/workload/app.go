// Package workload generates task streams for the airtime simulator.
package workload

import (
	"fmt"
	"math"

	"github.com/edge-sim/airtime-sim/sim"
)

// AppProfile is an application spec with its derived stream rates.
type AppProfile struct {
	Spec                 sim.ApplicationSpec
	BitsPerSecond        int64 // compressed video bitrate
	InstructionsPerFrame int64
}

// NewAppProfile validates spec and derives the bitrate and per-frame work.
func NewAppProfile(spec sim.ApplicationSpec) (AppProfile, error) {
	if err := spec.Validate(); err != nil {
		return AppProfile{}, fmt.Errorf("application %q: %w", spec.Name, err)
	}
	pixels := float64(spec.VideoXSize) * float64(spec.VideoYSize)
	return AppProfile{
		Spec:                 spec,
		BitsPerSecond:        int64(math.Ceil(pixels * float64(spec.BitsPerPixel) * spec.FPS * spec.CompressionFactor)),
		InstructionsPerFrame: int64(pixels) * int64(spec.InstructionsPerPixel),
	}, nil
}

// BytesPerTick is the upload size of one task covering resolution seconds of stream.
func (p AppProfile) BytesPerTick(resolution float64) int64 {
	return int64(math.Ceil(float64(p.BitsPerSecond) * resolution / 8))
}

// MIPerTick is the processing length, in million instructions, of one task
// covering resolution seconds of stream.
func (p AppProfile) MIPerTick(resolution float64) int64 {
	return int64(math.Ceil(float64(p.InstructionsPerFrame) * p.Spec.FPS * resolution / 1e6))
}
