package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

// TestExchangeVolumesConservesMass exercises the exchange's mass
// conservation (not the junction-failure scenario): a junction whose
// predicted ΔV nets to (approximately) zero should leave no residual in
// its transient reservoir, and the actual per-port ΔV it hands back should
// sum to the same (approximately) zero net.
func TestExchangeVolumesConservesMass(t *testing.T) {
	net := NewFlowNet()

	geom := DefaultPipeGeometryConfig()
	def0, err := geom.Build("supply")
	assert.NoError(t, err)
	v0, err := def0.Elasticity.Volume(0)
	assert.NoError(t, err)
	id0 := net.AddPipe(def0, NewPipeState(v0, Blood(1e-4), MinChunkVolume))

	def1, err := geom.Build("demand-a")
	assert.NoError(t, err)
	v1, err := def1.Elasticity.Volume(0)
	assert.NoError(t, err)
	id1 := net.AddPipe(def1, NewPipeState(v1, Blood(0), MinChunkVolume))

	def2, err := geom.Build("demand-b")
	assert.NoError(t, err)
	v2, err := def2.Elasticity.Volume(0)
	assert.NoError(t, err)
	id2 := net.AddPipe(def2, NewPipeState(v2, Blood(0), MinChunkVolume))

	j := net.Topology().Connect(Port{Pipe: id0, Side: PortB}, Port{Pipe: id1, Side: PortA})
	net.Topology().ConnectToJunction(Port{Pipe: id2, Side: PortA}, j)

	supplyPort := Port{Pipe: id0, Side: PortB}
	demandA := Port{Pipe: id1, Side: PortA}
	demandB := Port{Pipe: id2, Side: PortA}

	predicted := map[Port]float64{
		supplyPort: -2e-6,
		demandA:    1e-6,
		demandB:    1e-6,
	}

	result := ExchangeVolumes(net, j, predicted, 0.01)

	assert.InDelta(t, 0.0, result.Residual, 1e-12)

	netSum := result.ActualDeltaVolume[supplyPort] + result.ActualDeltaVolume[demandA] + result.ActualDeltaVolume[demandB]
	assert.True(t, floats.EqualWithinAbs(netSum, 0, 1e-9), "actual deltas should net to ~0, got %g", netSum)
}
