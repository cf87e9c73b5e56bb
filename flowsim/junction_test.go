package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJunctionPressureSolverThreeEqualPorts(t *testing.T) {
	solver := NewJunctionPressureSolver()

	addPort := func(pipe PipeId, baselinePressure float64) {
		shape := Cylinder{Radius: 0.005, Length: 0.10}
		flowModel := NewTurbulentFlowModel(shape, DensityBlood, ViscosityBlood, 1.0)
		bundle := ElasticTubeBundle{Radius: shape.Radius, Length: shape.Length, WallThickness: 0.001, YoungsModulus: 1_000_000.0, Count: 1}
		pressureModel := NewHoopTubePressureModel(bundle, -1000.0)
		v0 := bundle.NominalVolume()
		solver.AddPort(Port{Pipe: pipe, Side: PortA}, flowModel, baselinePressure, pressureModel, v0)
	}

	addPort(0, 1000.0)
	addPort(1, 2000.0)
	addPort(2, 3000.0)

	err := solver.Solve()
	assert.NoError(t, err)

	pressure, solved := solver.Pressure()
	assert.True(t, solved)
	assert.InDelta(t, 2000.0, pressure, 2000.0*1e-4)

	q1, _ := solver.Flow(Port{Pipe: 0, Side: PortA})
	q2, _ := solver.Flow(Port{Pipe: 1, Side: PortA})
	q3, _ := solver.Flow(Port{Pipe: 2, Side: PortA})

	assert.InDelta(t, 0.00023118092336703333, q1, 0.00023118092336703333*1e-4)
	assert.InDelta(t, 0.0, q2, 1e-9)
	assert.InDelta(t, -0.00023118092336703333, q3, 0.00023118092336703333*1e-4)
	assert.InDelta(t, 0.0, q1+q2+q3, FlowConservationThreshold)
}

func TestJunctionPressureSolverNoPorts(t *testing.T) {
	solver := NewJunctionPressureSolver()
	err := solver.Solve()
	assert.Error(t, err)
	var flowErr *FlowError
	assert.ErrorAs(t, err, &flowErr)
	assert.Equal(t, KindNoPorts, flowErr.Kind())
}
