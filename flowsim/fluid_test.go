package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMixCommutativeAndAssociative(t *testing.T) {
	a := Blood(0.002)
	b := Water(0.001)
	c := FluidComposition{SolventVolume: 0.0005, SolventDensity: 1020, SolventViscosity: 2e-3, OxygenVolume: 1e-6}

	ab := Mix(a, b)
	ba := Mix(b, a)
	assert.InDelta(t, ab.Volume(), ba.Volume(), 1e-15)
	assert.InDelta(t, ab.MassAndVolume().Mass, ba.MassAndVolume().Mass, 1e-9)

	left := Mix(Mix(a, b), c)
	right := Mix(a, Mix(b, c))
	assert.InDelta(t, left.Volume(), right.Volume(), 1e-12)
	assert.InDelta(t, left.MassAndVolume().Mass, right.MassAndVolume().Mass, 1e-9)
}

func TestScalePreservesIntensiveProperties(t *testing.T) {
	a := Blood(0.002)
	scaled := Scale(a, 2.0)
	assert.InDelta(t, 0.004, scaled.SolventVolume, 1e-12)
	assert.Equal(t, a.SolventDensity, scaled.SolventDensity)
	assert.Equal(t, a.SolventViscosity, scaled.SolventViscosity)
}

func TestOxygenSaturation(t *testing.T) {
	c := FluidComposition{OxyHemoglobin: 3, DeoxyHemoglobin: 1}
	assert.InDelta(t, 0.75, c.OxygenSaturation(), 1e-12)

	empty := FluidComposition{}
	assert.Equal(t, 0.0, empty.OxygenSaturation())
}
