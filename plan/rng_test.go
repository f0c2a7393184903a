package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameSeedSameStreams(t *testing.T) {
	a := NewPartitionedRNG(NewSeedKey(42))
	b := NewPartitionedRNG(NewSeedKey(42))

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.For("genetic").Int63(), b.For("genetic").Int63())
	}
}

func TestPartitionedRNG_NamesAreIsolated(t *testing.T) {
	// GIVEN two generators with the same seed
	a := NewPartitionedRNG(NewSeedKey(7))
	b := NewPartitionedRNG(NewSeedKey(7))

	// WHEN one stream is drained on a only
	for i := 0; i < 100; i++ {
		a.For("annealing").Int63()
	}

	// THEN the other named stream is unaffected
	assert.Equal(t, a.For("genetic").Int63(), b.For("genetic").Int63())
	assert.NotEqual(t, NewPartitionedRNG(7).For("x").Int63(), NewPartitionedRNG(7).For("y").Int63())
}

func TestPartitionedRNG_ForIsCached(t *testing.T) {
	p := NewPartitionedRNG(NewSeedKey(1))
	assert.Same(t, p.For("a"), p.For("a"))
	assert.Equal(t, SeedKey(1), p.Key())
}
