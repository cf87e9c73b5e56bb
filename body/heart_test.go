package body

import (
	"testing"

	"github.com/danvil/gosim/flowsim"
	"github.com/stretchr/testify/assert"
)

// TestCreateHeartBuildsChambersAndValves exercises scenario 5's setup step:
// the four pipes of each chain plus the connecting vessel should exist,
// the chamber ids should resolve to pipes, and both ventricles should
// carry a throughflow valve.
func TestCreateHeartBuildsChambersAndValves(t *testing.T) {
	net := flowsim.NewFlowNet()
	chambers, err := CreateHeart(net, "heart")
	assert.NoError(t, err)

	assert.Equal(t, 9, len(net.PipeIds()), "4 blue chamber pipes + 4 red chamber pipes + 1 heart vessel")

	for _, id := range []flowsim.PipeId{chambers.BlueAtrium, chambers.BlueVentricle, chambers.RedAtrium, chambers.RedVentricle} {
		_, ok := net.Definition(id)
		assert.True(t, ok)
	}

	blueVentricleState, ok := net.StatePtr(chambers.BlueVentricle)
	assert.True(t, ok)
	assert.Equal(t, flowsim.ValveThroughflow, blueVentricleState.Valve.Def.Kind)

	redVentricleState, ok := net.StatePtr(chambers.RedVentricle)
	assert.True(t, ok)
	assert.Equal(t, flowsim.ValveThroughflow, redVentricleState.Valve.Def.Kind)
}

// TestHeartBeatsAndConverges exercises scenario 5's convergence check: over
// a long enough run, the cycle's adopted rate should settle on its target
// bpm, and the beat-to-beat EMA should start tracking a stable, positive
// rate once beats start arriving. The cycle's own beat frequency is not
// bpm/60 exactly (fixed-duration diastole/arterial-systole stages plus a
// rate-dependent systole duration set the real period), so this only
// checks internal consistency, not an exact beat count.
func TestHeartBeatsAndConverges(t *testing.T) {
	net := flowsim.NewFlowNet()
	chambers, err := CreateHeart(net, "heart")
	assert.NoError(t, err)

	heart := NewHeart(chambers, 60)

	const dt = 0.01
	const seconds = 30.0
	steps := int(seconds / dt)

	beats := 0
	for i := 0; i < steps; i++ {
		heart.Step(net, dt)
		net.Step(dt)
		if heart.Beat {
			beats++
		}
	}

	assert.InDelta(t, 60.0, heart.Cycle.CurrentBpm(), 1.0, "current rate should have fully adopted the target after 20 half-lives")
	assert.Greater(t, beats, 0, "a 30 second run should produce at least one beat")
	assert.Greater(t, heart.HeartRateEma.Bpm(), 0.0, "the beat-to-beat EMA should report a positive rate once beats arrive")
}
