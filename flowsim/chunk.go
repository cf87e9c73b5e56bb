package flowsim

// FluidChunk is an indivisible parcel of fluid: a composition plus cached
// mass/volume and density/viscosity summaries. The caches are recomputed on
// every mutation rather than lazily, since chunks change far less often
// than they're read (every derivative evaluation reads volume/density).
type FluidChunk struct {
	fluid           FluidComposition
	massVolume      FluidMassVolume
	densityVisc     FluidDensityViscosity
}

func ChunkFromComposition(c FluidComposition) FluidChunk {
	return FluidChunk{
		fluid:       c,
		massVolume:  c.MassAndVolume(),
		densityVisc: c.DensityAndViscosity(),
	}
}

// ChunkWithVolume builds a chunk from c, then rescales it to have exactly
// the given volume.
func ChunkWithVolume(c FluidComposition, volume float64) FluidChunk {
	chunk := ChunkFromComposition(c)
	chunk.SetVolume(volume)
	return chunk
}

func (c FluidChunk) Fluid() FluidComposition { return c.fluid }
func (c FluidChunk) Volume() float64         { return c.massVolume.Volume }
func (c FluidChunk) Mass() float64           { return c.massVolume.Mass }
func (c FluidChunk) Density() float64        { return c.densityVisc.Density }
func (c FluidChunk) Viscosity() float64      { return c.densityVisc.Viscosity }

// CloneWithVolume returns a copy of c rescaled to the given volume.
func (c FluidChunk) CloneWithVolume(volume float64) FluidChunk {
	return ScaleChunk(c, volume/c.Volume())
}

// SetVolume rescales c in place to have exactly the given volume. A chunk
// with no volume cannot be scaled, so its solvent volume is set directly.
func (c *FluidChunk) SetVolume(volume float64) {
	if c.Volume() <= 0 {
		fluid := c.fluid
		fluid.SolventVolume = volume - fluid.OxygenVolume
		*c = ChunkFromComposition(fluid)
		return
	}
	*c = ScaleChunk(*c, volume/c.Volume())
}

// Split divides c into (scale(c,q), scale(c,1-q)) with q in [0,1].
func Split(c FluidChunk, q float64) (FluidChunk, FluidChunk) {
	return ScaleChunk(c, q), ScaleChunk(c, 1-q)
}

// SplitByVolume divides c into a chunk of exactly firstVolume and the rest.
// If firstVolume exceeds c's volume, the whole chunk is returned as the
// first half and the second half is empty.
func SplitByVolume(c FluidChunk, firstVolume float64) (FluidChunk, FluidChunk) {
	secondVolume := c.Volume() - firstVolume
	if secondVolume < 0 {
		secondVolume = 0
	}
	firstVolume = c.Volume() - secondVolume
	if c.Volume() <= 0 {
		return c, c
	}
	return Split(c, firstVolume/c.Volume())
}

// SplitOffByVolume removes splitOffVolume from c (mutating it in place) and
// returns the removed part.
func SplitOffByVolume(c *FluidChunk, splitOffVolume float64) FluidChunk {
	remainingVolume := c.Volume() - splitOffVolume
	if remainingVolume < 0 {
		remainingVolume = 0
	}
	var remaining, other FluidChunk
	if c.Volume() > 0 {
		remaining, other = Split(*c, remainingVolume/c.Volume())
	} else {
		remaining, other = *c, *c
	}
	*c = remaining
	return other
}

// MixChunks combines two chunks: mass adds, composition adds component-wise.
func MixChunks(a, b FluidChunk) FluidChunk {
	return ChunkFromComposition(Mix(a.fluid, b.fluid))
}

// ScaleChunk scales a chunk's amounts by s, leaving density/viscosity caches
// (intensive properties) unchanged.
func ScaleChunk(a FluidChunk, s float64) FluidChunk {
	return FluidChunk{
		fluid:       Scale(a.fluid, s),
		massVolume:  ScaleFluidMassVolume(a.massVolume, s),
		densityVisc: a.densityVisc,
	}
}
