package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipeVesselPreservesChunkOrder(t *testing.T) {
	v := NewPipeVessel(1e-12)

	c1 := ChunkWithVolume(Blood(0), 0.001)
	c2 := ChunkWithVolume(Water(0), 0.002)
	c3 := ChunkWithVolume(Blood(0), 0.003)

	v.Fill(PortA, c1)
	v.Fill(PortA, c2)
	v.Fill(PortA, c3)

	// Fill order at A is c1, c2, c3; the deque's front is the most-recently
	// filled (c3), so draining from B (the far end) sees them oldest-first.
	drained := v.Drain(PortB, v.Volume())

	assert.Len(t, drained, 3)
	assert.InDelta(t, c1.Volume(), drained[0].Volume(), 1e-12)
	assert.InDelta(t, c2.Volume(), drained[1].Volume(), 1e-12)
	assert.InDelta(t, c3.Volume(), drained[2].Volume(), 1e-12)
}

func TestPipeVesselMergesSubThresholdChunks(t *testing.T) {
	v := NewPipeVessel(1e-6)

	v.Fill(PortA, ChunkWithVolume(Blood(0), 1e-9))
	v.Fill(PortA, ChunkWithVolume(Blood(0), 1e-9))

	assert.Len(t, v.Chunks(), 1)
	assert.InDelta(t, 2e-9, v.Volume(), 1e-15)
}

func TestPipeVesselDrainSplitsFinalChunk(t *testing.T) {
	v := NewPipeVessel(1e-12)
	v.Fill(PortA, ChunkWithVolume(Blood(0), 0.01))

	drained := v.Drain(PortA, 0.004)
	assert.Len(t, drained, 1)
	assert.InDelta(t, 0.004, drained[0].Volume(), 1e-12)
	assert.InDelta(t, 0.006, v.Volume(), 1e-12)
}

func TestReservoirVesselFillDrainReset(t *testing.T) {
	r := &ReservoirVessel{}
	assert.Equal(t, 0.0, r.Volume())

	r.Fill(ChunkWithVolume(Blood(0), 0.002))
	r.Fill(ChunkWithVolume(Water(0), 0.001))
	assert.InDelta(t, 0.003, r.Volume(), 1e-12)

	taken := r.Drain(0.0015)
	assert.InDelta(t, 0.0015, taken.Volume(), 1e-12)
	assert.InDelta(t, 0.0015, r.Volume(), 1e-12)

	r.Reset()
	assert.Equal(t, 0.0, r.Volume())
}
