package plan

import (
	"hash/fnv"
	"math/rand"
)

// SeedKey uniquely identifies a reproducible optimization run. Two runs with
// the same SeedKey, layout and configuration produce identical results.
type SeedKey int64

// NewSeedKey creates a SeedKey from a seed value.
func NewSeedKey(seed int64) SeedKey {
	return SeedKey(seed)
}

// PartitionedRNG provides deterministic, isolated RNG instances per named
// consumer (one per optimization strategy).
//
// Derivation: masterSeed XOR fnv1a64(name).
//
// Thread-safety: NOT thread-safe. Derive every RNG from the coordinating
// goroutine, then hand each *rand.Rand to exactly one worker.
type PartitionedRNG struct {
	key     SeedKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SeedKey.
func NewPartitionedRNG(key SeedKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// For returns the deterministically-seeded RNG for name. The same name
// always returns the same (cached) instance. Never returns nil.
func (p *PartitionedRNG) For(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.streams[name] = rng
	return rng
}

// Key returns the SeedKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SeedKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
