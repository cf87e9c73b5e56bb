package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalloonTubePressureModelVolume(t *testing.T) {
	m := NewBalloonTubePressureModel(DefaultElasticTubeBundle(), -1000.0)
	v0 := m.Tubes.NominalVolume()

	pmax := m.MaxPressure()
	assert.InDelta(t, 29629.6, pmax, 29629.6*1e-4)

	vmax := m.VolumeAtMaxPressure()
	assert.InDelta(t, 0.176715e-3, vmax, 0.176715e-3*1e-4)

	v, err := m.Volume(0)
	assert.NoError(t, err)
	assert.InDelta(t, v0, v, v0*1e-4)

	v, err = m.Volume(pmax)
	assert.NoError(t, err)
	assert.InDelta(t, vmax, v, vmax*1e-4)

	v, err = m.Volume(0.5 * pmax)
	assert.NoError(t, err)
	assert.InDelta(t, 9.47010620333547e-5, v, 9.47010620333547e-5*1e-4)

	for _, q := range []float64{0.01, 0.2, 0.35, 0.67, 0.99} {
		expected := q * pmax
		v, err := m.Volume(expected)
		assert.NoError(t, err)
		actual := m.Pressure(v)
		assert.InDelta(t, expected, actual, expected*1e-4)
	}
}

func TestHoopTubePressureModelRoundTrip(t *testing.T) {
	bundle := DefaultElasticTubeBundle()
	m := NewHoopTubePressureModel(bundle, -2000.0)

	for _, p := range []float64{-1500, -500, 0, 1000, 5000, 20000} {
		v, err := m.Volume(p)
		assert.NoError(t, err)
		actual := m.Pressure(v)
		if p == 0 {
			assert.InDelta(t, p, actual, 1e-4)
			continue
		}
		assert.InDelta(t, p, actual, abs(p)*1e-4)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
