package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurbulentFlow(t *testing.T) {
	m := NewTurbulentFlowModel(Cylinder{Radius: 0.001, Length: 0.05}, DensityBlood, ViscosityBlood, 1.0)
	assert.InDelta(t, 2.6179938779914943e-6, m.Flow(1000.0), 2.6179938779914943e-6*1e-4)

	m = NewTurbulentFlowModel(Cylinder{Radius: 0.012, Length: 0.35}, DensityBlood, ViscosityBlood, 0.1)
	assert.InDelta(t, 3.5221237395075298e-5, m.Flow(1000.0), 3.5221237395075298e-5*1e-4)
}

func TestTurbulentFlowDx(t *testing.T) {
	m := NewTurbulentFlowModel(Cylinder{Radius: 0.010, Length: 1.000}, DensityBlood, ViscosityBlood, 1.0)

	for _, x := range []float64{-1000, -100, 0, 100, 1000} {
		dx := 0.001
		y1 := m.Flow(x)
		y2 := m.Flow(x + dx)
		expected := (y2 - y1) / dx
		actual := m.FlowDx(x + 0.5*dx)
		assert.InDelta(t, expected, actual, absForTest(expected)*1e-4+1e-9)
	}
}

func absForTest(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
