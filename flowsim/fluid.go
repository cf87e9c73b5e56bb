package flowsim

// Blood and water defaults, matching the configuration knobs spec.md lists
// for the fluid model.
const (
	DensityBlood   = 1.06e3
	ViscosityBlood = 3e-3
	DensityWater   = 1e3
	ViscosityWater = 1e-3

	// OxygenDensitySTP approximates dissolved/carried oxygen's volume
	// contribution at standard temperature and pressure; the tracked
	// composition keeps oxygen as a volume, not a mole count, so this is
	// the conversion used whenever oxygen mass needs computing.
	OxygenDensitySTP = 1.429

	// HemoglobinMolarMass is used only to fold hemoglobin's (negligible,
	// but non-zero) mass into the composition's total mass.
	HemoglobinMolarMass = 64_500e-3 // kg/mol
)

// FluidComposition is a vector of solvent and solute amounts. It never
// carries a cached anything; FluidMassVolume and FluidDensityViscosity are
// the derived summaries, recomputed whenever the composition changes.
//
// Tracked solutes are bounded to what the cardiovascular supplement needs:
// dissolved oxygen (by volume) and oxygenated/deoxygenated hemoglobin (by
// mole count). Everything else is absorbed into the solvent.
type FluidComposition struct {
	SolventVolume    float64
	SolventDensity   float64
	SolventViscosity float64

	OxygenVolume    float64
	OxyHemoglobin   float64
	DeoxyHemoglobin float64
}

// Water returns a pure-water composition of the given volume.
func Water(volume float64) FluidComposition {
	return FluidComposition{
		SolventVolume:    volume,
		SolventDensity:   DensityWater,
		SolventViscosity: ViscosityWater,
	}
}

// Blood returns a plain-blood composition (no oxygen, no hemoglobin tagged)
// of the given volume; callers add oxygen/hemoglobin solutes separately.
func Blood(volume float64) FluidComposition {
	return FluidComposition{
		SolventVolume:    volume,
		SolventDensity:   DensityBlood,
		SolventViscosity: ViscosityBlood,
	}
}

// Volume is deterministic from the amounts: solvent volume plus the volume
// of dissolved oxygen. Hemoglobin's own volume is not modeled.
func (c FluidComposition) Volume() float64 {
	return c.SolventVolume + c.OxygenVolume
}

func (c FluidComposition) totalHemoglobin() float64 {
	return c.OxyHemoglobin + c.DeoxyHemoglobin
}

// OxygenSaturation is the SO2 fraction: oxygenated over total hemoglobin.
// Returns 0 when there is no hemoglobin to saturate.
func (c FluidComposition) OxygenSaturation() float64 {
	total := c.totalHemoglobin()
	if total <= 0 {
		return 0
	}
	return c.OxyHemoglobin / total
}

// Mix combines two compositions: amounts add component-wise. Commutative and
// associative up to floating point rounding.
func Mix(a, b FluidComposition) FluidComposition {
	va, vb := a.SolventVolume, b.SolventVolume
	total := va + vb

	out := FluidComposition{
		SolventVolume:   total,
		OxygenVolume:    a.OxygenVolume + b.OxygenVolume,
		OxyHemoglobin:   a.OxyHemoglobin + b.OxyHemoglobin,
		DeoxyHemoglobin: a.DeoxyHemoglobin + b.DeoxyHemoglobin,
	}
	if total <= 0 {
		out.SolventDensity = (a.SolventDensity + b.SolventDensity) / 2
		out.SolventViscosity = (a.SolventViscosity + b.SolventViscosity) / 2
		return out
	}
	out.SolventDensity = (a.SolventDensity*va + b.SolventDensity*vb) / total
	out.SolventViscosity = (a.SolventViscosity*va + b.SolventViscosity*vb) / total
	return out
}

// Scale multiplies every amount by s, leaving density and viscosity (both
// intensive) unchanged.
func Scale(a FluidComposition, s float64) FluidComposition {
	return FluidComposition{
		SolventVolume:    a.SolventVolume * s,
		SolventDensity:   a.SolventDensity,
		SolventViscosity: a.SolventViscosity,
		OxygenVolume:     a.OxygenVolume * s,
		OxyHemoglobin:    a.OxyHemoglobin * s,
		DeoxyHemoglobin:  a.DeoxyHemoglobin * s,
	}
}

// FluidMassVolume is a derived summary: total mass and total volume.
type FluidMassVolume struct {
	Mass   float64
	Volume float64
}

func (c FluidComposition) MassAndVolume() FluidMassVolume {
	volume := c.Volume()
	mass := c.SolventDensity*c.SolventVolume +
		OxygenDensitySTP*c.OxygenVolume +
		HemoglobinMolarMass*c.totalHemoglobin()
	return FluidMassVolume{Mass: mass, Volume: volume}
}

func ScaleFluidMassVolume(a FluidMassVolume, s float64) FluidMassVolume {
	return FluidMassVolume{Mass: a.Mass * s, Volume: a.Volume * s}
}

// FluidDensityViscosity is a derived summary: bulk density and viscosity.
// Solutes are assumed not to perturb the solvent's viscosity in this model.
type FluidDensityViscosity struct {
	Density   float64
	Viscosity float64
}

func (c FluidComposition) DensityAndViscosity() FluidDensityViscosity {
	mv := c.MassAndVolume()
	density := c.SolventDensity
	if mv.Volume > 0 {
		density = mv.Mass / mv.Volume
	}
	return FluidDensityViscosity{Density: density, Viscosity: c.SolventViscosity}
}
