package flowsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopologyConnectMergesJunctions(t *testing.T) {
	topo := NewFlowNetTopology()

	p0b := Port{Pipe: 0, Side: PortB}
	p1a := Port{Pipe: 1, Side: PortA}
	p1b := Port{Pipe: 1, Side: PortB}
	p2a := Port{Pipe: 2, Side: PortA}

	j1 := topo.Connect(p0b, p1a)
	j2 := topo.Connect(p1b, p2a)

	// p1a and p1b both belong to pipe 1, but were connected into two
	// independent junctions above; connecting them should merge.
	merged := topo.Connect(p1a, p1b)
	_ = j1
	_ = j2

	got, ok := topo.JunctionOf(p0b)
	assert.True(t, ok)
	assert.Equal(t, merged, got)

	got, ok = topo.JunctionOf(p2a)
	assert.True(t, ok)
	assert.Equal(t, merged, got)

	assert.Len(t, topo.Ports(merged), 4)
}

func TestConnectChainAndLoop(t *testing.T) {
	topo := NewFlowNetTopology()
	pipes := []PipeId{0, 1, 2, 3}
	topo.ConnectChain(pipes)

	for i := 0; i+1 < len(pipes); i++ {
		jb, ok := topo.JunctionOf(Port{Pipe: pipes[i], Side: PortB})
		assert.True(t, ok)
		ja, ok := topo.JunctionOf(Port{Pipe: pipes[i+1], Side: PortA})
		assert.True(t, ok)
		assert.Equal(t, jb, ja)
	}

	// Ends are unattached after a chain.
	_, ok := topo.JunctionOf(Port{Pipe: pipes[0], Side: PortA})
	assert.False(t, ok)
	_, ok = topo.JunctionOf(Port{Pipe: pipes[len(pipes)-1], Side: PortB})
	assert.False(t, ok)

	loopTopo := NewFlowNetTopology()
	loopTopo.ConnectLoop(pipes)
	_, ok = loopTopo.JunctionOf(Port{Pipe: pipes[0], Side: PortA})
	assert.True(t, ok)
	_, ok = loopTopo.JunctionOf(Port{Pipe: pipes[len(pipes)-1], Side: PortB})
	assert.True(t, ok)
}
