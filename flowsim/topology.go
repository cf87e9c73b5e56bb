package flowsim

// FlowNetTopology is the bipartite relation between pipe ports and
// junctions: a two-way index between (PipeId, PortTag) and JuncId. No
// owning pointers cross this boundary, only indices.
type FlowNetTopology struct {
	portToJunc map[Port]JuncId
	junctions  *IntMap[map[Port]struct{}]
}

func NewFlowNetTopology() *FlowNetTopology {
	return &FlowNetTopology{
		portToJunc: make(map[Port]JuncId),
		junctions:  NewIntMap[map[Port]struct{}](),
	}
}

// JunctionOf returns the junction a port belongs to, if any.
func (t *FlowNetTopology) JunctionOf(port Port) (JuncId, bool) {
	j, ok := t.portToJunc[port]
	return j, ok
}

// Ports returns the set of ports belonging to a junction.
func (t *FlowNetTopology) Ports(j JuncId) []Port {
	set, ok := t.junctions.Get(int(j))
	if !ok {
		return nil
	}
	out := make([]Port, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

func (t *FlowNetTopology) Junctions() *IntMap[map[Port]struct{}] {
	return t.junctions
}

// ConnectToNewJunction returns the port's existing junction if it already
// has one (idempotent), otherwise allocates a fresh junction containing
// just this port.
func (t *FlowNetTopology) ConnectToNewJunction(port Port) JuncId {
	if j, ok := t.portToJunc[port]; ok {
		return j
	}
	idx := t.junctions.Insert(map[Port]struct{}{port: {}})
	j := JuncId(idx)
	t.portToJunc[port] = j
	return j
}

// ConnectToJunction adds port to junction j, overwriting any previous
// membership. The caller is responsible for removing port from its old
// junction's set if consistency matters to them.
func (t *FlowNetTopology) ConnectToJunction(port Port, j JuncId) {
	set, ok := t.junctions.Get(int(j))
	if !ok {
		set = map[Port]struct{}{}
	}
	set[port] = struct{}{}
	t.junctions.Set(int(j), set)
	t.portToJunc[port] = j
}

// Connect joins two ports, handling all four attachment cases: neither
// attached (new junction), one attached (extend it), both in the same
// junction (no-op), both in different junctions (merge).
func (t *FlowNetTopology) Connect(p1, p2 Port) JuncId {
	j1, ok1 := t.portToJunc[p1]
	j2, ok2 := t.portToJunc[p2]

	switch {
	case !ok1 && !ok2:
		idx := t.junctions.Insert(map[Port]struct{}{p1: {}, p2: {}})
		j := JuncId(idx)
		t.portToJunc[p1] = j
		t.portToJunc[p2] = j
		return j
	case ok1 && !ok2:
		t.ConnectToJunction(p2, j1)
		return j1
	case !ok1 && ok2:
		t.ConnectToJunction(p1, j2)
		return j2
	case j1 == j2:
		return j1
	default:
		return t.joinJunctions(j1, j2)
	}
}

// joinJunctions moves every port of j2 into j1 and removes j2.
func (t *FlowNetTopology) joinJunctions(j1, j2 JuncId) JuncId {
	set2, ok := t.junctions.Get(int(j2))
	if !ok {
		return j1
	}
	set1, _ := t.junctions.Get(int(j1))
	if set1 == nil {
		set1 = map[Port]struct{}{}
	}
	for p := range set2 {
		set1[p] = struct{}{}
		t.portToJunc[p] = j1
	}
	t.junctions.Set(int(j1), set1)
	t.junctions.Remove(int(j2))
	return j1
}

// ConnectChain wires port B of each pipe to port A of the next.
func (t *FlowNetTopology) ConnectChain(pipes []PipeId) {
	for i := 0; i+1 < len(pipes); i++ {
		t.Connect(Port{Pipe: pipes[i], Side: PortB}, Port{Pipe: pipes[i+1], Side: PortA})
	}
}

// ConnectLoop is ConnectChain plus a final link from the last pipe's B port
// back to the first pipe's A port.
func (t *FlowNetTopology) ConnectLoop(pipes []PipeId) {
	t.ConnectChain(pipes)
	if len(pipes) >= 2 {
		t.Connect(Port{Pipe: pipes[len(pipes)-1], Side: PortB}, Port{Pipe: pipes[0], Side: PortA})
	}
}
