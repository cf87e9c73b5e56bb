package flowsim

// PipeGeometryConfig groups everything needed to build a PipeDefinition:
// geometry plus its elasticity parameters. Kept as one record (rather than
// scattering these across call sites) so a caller building many similar
// pipes can vary just the fields that differ.
type PipeGeometryConfig struct {
	Shape            Cylinder
	StrandCount      float64
	WallThickness    float64
	YoungsModulus    float64
	CollapsePressure float64
	DarcyFactor      float64
	Damping          float64
	GroundAngle      float64
}

// DefaultPipeGeometryConfig matches the bundle used throughout the
// end-to-end scenarios: r=0.01m, L=1m, wall 1mm, E=1MPa, strand_count=10.
func DefaultPipeGeometryConfig() PipeGeometryConfig {
	return PipeGeometryConfig{
		Shape:            Cylinder{Radius: 0.01, Length: 1.0},
		StrandCount:      10,
		WallThickness:     0.001,
		YoungsModulus:    1_000_000.0,
		CollapsePressure: -2000,
		DarcyFactor:      64.0 / 2000.0,
		Damping:          0,
		GroundAngle:      0,
	}
}

// Build constructs a PipeDefinition from this geometry config.
func (c PipeGeometryConfig) Build(name string) (PipeDefinition, error) {
	def, err := NewPipeDefinition(name, c.Shape, c.StrandCount, c.CollapsePressure, c.WallThickness, c.YoungsModulus)
	if err != nil {
		return PipeDefinition{}, err
	}
	def.DarcyFactor = c.DarcyFactor
	def.Damping = c.Damping
	def.GroundAngle = c.GroundAngle
	return def, nil
}

// FluidDefaults groups the bulk fluid properties a pipe is seeded with,
// separately from its geometry.
type FluidDefaults struct {
	Blood FluidComposition
	Water FluidComposition
}

func DefaultFluidDefaults() FluidDefaults {
	return FluidDefaults{
		Blood: Blood(0),
		Water: Water(0),
	}
}

// MinChunkVolume is the default threshold below which PipeVessel merges an
// incoming chunk into its neighbor rather than growing the deque.
const MinChunkVolume = 1e-9
