package flowsim

// PipeId and JuncId are dense, stable integer handles into a FlowNet's
// IntMap slabs — never pointers, so the graph can be expressed purely by
// index even though pipes and junctions reference each other.
type PipeId int
type JuncId int

// PipeDefinition is everything about a pipe that's static within one step:
// its geometry, its elasticity model, and the per-port knobs external
// agents (valves, pumps) drive.
type PipeDefinition struct {
	Name string

	Shape       Cylinder
	StrandCount float64

	FluidHint FluidComposition

	ExternalPortPressure PortMap[float64]
	PortAreaFactor       PortMap[float64]

	Elasticity       HoopTubePressureModel
	CollapsePressure float64

	GroundAngle float64
	DarcyFactor float64
	Damping     float64
}

// NewPipeDefinition validates geometry and builds the elasticity model
// scaled to the bundle's strand count. InvalidGeometry is the one error
// kind returned synchronously, since a malformed pipe can't be stepped at
// all.
func NewPipeDefinition(name string, shape Cylinder, strandCount float64, collapsePressure float64, wallThickness, youngsModulus float64) (PipeDefinition, error) {
	if !shape.IsNonZero() || strandCount <= 0 || wallThickness <= 0 || youngsModulus <= 0 {
		return PipeDefinition{}, newFlowError(KindInvalidGeometry, "pipe %q has non-positive radius, length, strand count, wall thickness or Young's modulus", name)
	}

	bundle := ElasticTubeBundle{
		Radius:        shape.Radius,
		Length:        shape.Length,
		WallThickness: wallThickness,
		YoungsModulus: youngsModulus,
		Count:         strandCount,
	}

	return PipeDefinition{
		Name:             name,
		Shape:            shape,
		StrandCount:      strandCount,
		PortAreaFactor:   PortMap[float64]{1, 1},
		Elasticity:       NewHoopTubePressureModel(bundle, collapsePressure),
		CollapsePressure: collapsePressure,
		DarcyFactor:      64.0 / 2000.0,
	}, nil
}

// NominalVolume is the bundle's volume at zero elastic pressure.
func (d PipeDefinition) NominalVolume() float64 {
	return d.Elasticity.Tubes.NominalVolume()
}

// PipeState is the dynamic, per-tick state of a pipe: its stored volume and
// the velocity of flow into each port.
type PipeState struct {
	Volume   float64
	Velocity PortMap[float64]

	Vessel *PipeVessel

	Valve ValveState

	Stats FlowStats
}

// NewPipeState creates an initial state filled to fillVolume with the given
// fluid, and a vessel with the given minimum-chunk-volume threshold.
func NewPipeState(fillVolume float64, fluid FluidComposition, minChunkVolume float64) *PipeState {
	vessel := NewPipeVessel(minChunkVolume)
	if fillVolume > 0 {
		vessel.Fill(PortA, ChunkWithVolume(fluid, fillVolume))
	}
	return &PipeState{
		Volume: fillVolume,
		Vessel: vessel,
		Stats:  NewFlowStats(),
	}
}

// ThroughflowVelocity is the net flow from A to B that doesn't change the
// pipe's stored volume.
func (s PipeState) ThroughflowVelocity() float64 {
	return (s.Velocity[PortA] - s.Velocity[PortB]) / 2
}

// InflowVelocity is the net flow into the pipe, changing its stored volume.
func (s PipeState) InflowVelocity() float64 {
	return (s.Velocity[PortA] + s.Velocity[PortB]) / 2
}

// pipeScratch holds the per-pipe derived quantities the derivative
// evaluation recomputes every call: cross-section area, strand radius,
// mass, and the per-port forces that feed into junction equalisation.
type pipeScratch struct {
	volume           float64
	crossSectionArea float64
	strandRadius     float64
	mass             float64
	effectiveLength  float64
	force            PortMap[float64]
}
