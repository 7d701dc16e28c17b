package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the seed a run is reproduced from. Same key, same scenario:
// same trajectories, same task stream, same airtime reservations.
type SimulationKey int64

// NewSimulationKey wraps a --seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Random stream names. Each consumer draws from its own stream so that, for
// example, adding an application profile never moves a device's handovers.
const (
	// SubsystemWorkload feeds application assignment. It is seeded with the
	// key itself, so a workload stream matches rand.NewSource(seed).
	SubsystemWorkload = "workload"

	// SubsystemMobility feeds pause times, velocities and waypoints.
	SubsystemMobility = "mobility"
)

// PartitionedRNG hands out one *rand.Rand per named stream, all derived from
// a single SimulationKey. Streams other than the workload one are seeded with
// key XOR fnv1a64(name).
//
// Model construction happens on one goroutine before the event loop starts;
// PartitionedRNG is not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: map[string]*rand.Rand{}}
}

// ForSubsystem returns the stream for name, creating it on first use. Later
// calls return the same generator, continuing where the previous caller left off.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.streams[name]; ok {
		return r
	}
	seed := int64(p.key)
	if name != SubsystemWorkload {
		seed ^= fnv1a64(name)
	}
	r := rand.New(rand.NewSource(seed))
	p.streams[name] = r
	return r
}

func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
