package flowsim

import "math"

// ElasticTubeBundle is the geometry and mechanical properties of count
// parallel, identical elastic tubes treated as one lumped element.
type ElasticTubeBundle struct {
	Radius        float64
	Length        float64
	WallThickness float64
	YoungsModulus float64
	Count         float64
}

func DefaultElasticTubeBundle() ElasticTubeBundle {
	return ElasticTubeBundle{
		Radius:        0.005,
		Length:        1.000,
		WallThickness: 0.001,
		YoungsModulus: 1_000_000.0,
		Count:         1,
	}
}

func (b ElasticTubeBundle) Cylinder() Cylinder {
	return Cylinder{Radius: b.Radius, Length: b.Length}
}

// NominalVolume is the volume at which the elastic wall exerts no pressure:
// pi*r^2*L*count.
func (b ElasticTubeBundle) NominalVolume() float64 {
	return b.RadiusToVolume(b.Radius)
}

func (b ElasticTubeBundle) VolumeToRadius(volume float64) float64 {
	return CylinderRadius(volume/b.Count, b.Length)
}

func (b ElasticTubeBundle) RadiusToVolume(radius float64) float64 {
	return CylinderVolume(radius, b.Length) * b.Count
}

// HoopTubePressure is the elastic stress model for an inflated tube above
// its nominal radius: P = E*tau*(r-r0)/(r*r0).
func HoopTubePressure(r, r0, wallThickness, youngsModulus float64) float64 {
	return (wallThickness * youngsModulus * (r - r0)) / (r * r0)
}

// TubeLawPressure models the collapsed (below-nominal-radius) regime:
// P = pmin*(1 - (r/r0)^(2/n)), with n chosen so the tangent at r=r0 matches
// HoopTubePressure's.
func TubeLawPressure(r, r0, wallThickness, youngsModulus, pmin float64) float64 {
	n := -2 * pmin * r0 / (youngsModulus * wallThickness)
	return pmin * (1 - math.Pow(r/r0, 2/n))
}

// BalloonTubePressure is an alternate elastic model (pressure peaks then
// drops again with volume, as an inflating balloon does), kept alongside
// HoopTubePressure as an alternate pressure curve (see
// BalloonTubePressureModel).
func BalloonTubePressure(r, r0, wallThickness, youngsModulus float64) float64 {
	return youngsModulus * wallThickness * (r0 / r) * ((r - r0) / (r * r))
}

func BalloonTubeMaxPressure(r0, wallThickness, youngsModulus float64) float64 {
	return 4 * wallThickness * youngsModulus / (27 * r0)
}

func BalloonTubeVolumeAtMaxPressure(r0, length float64) float64 {
	return 9. / 4. * math.Pi * length * r0 * r0
}

// PressureInverseNewtonCap and PressureInverseTolerance bound the Newton
// solve Volume runs to invert Pressure.
const (
	PressureInverseNewtonCap  = 25
	PressureInverseTolerance  = 1e-3
)

// HoopTubePressureModel is the pressure(volume) curve used by pipes in this
// module: Hoop stress above nominal radius, tube law below.
type HoopTubePressureModel struct {
	Tubes            ElasticTubeBundle
	CollapsePressure float64
}

func NewHoopTubePressureModel(tubes ElasticTubeBundle, collapsePressure float64) HoopTubePressureModel {
	return HoopTubePressureModel{Tubes: tubes, CollapsePressure: collapsePressure}
}

func (m HoopTubePressureModel) Pressure(volume float64) float64 {
	r := m.Tubes.VolumeToRadius(volume)
	if r < m.Tubes.Radius {
		return TubeLawPressure(r, m.Tubes.Radius, m.Tubes.WallThickness, m.Tubes.YoungsModulus, m.CollapsePressure)
	}
	return HoopTubePressure(r, m.Tubes.Radius, m.Tubes.WallThickness, m.Tubes.YoungsModulus)
}

// PressureDx is a numeric derivative of Pressure, used by the Newton solve
// in Volume.
func (m HoopTubePressureModel) PressureDx(volume float64) float64 {
	dv := math.Max(volume*1e-4, 1e-9)
	p1 := m.Pressure(volume)
	p2 := m.Pressure(volume + dv)
	return (p2 - p1) / dv
}

// Volume inverts Pressure via Newton iteration from the nominal volume, per
// spec.md's pressure-inverse solver: cap 25 iterations, tolerance 1e-3 Pa.
// On failure the best guess is returned alongside a PressureInversionFailure.
func (m HoopTubePressureModel) Volume(pressure float64) (float64, error) {
	objective := func(v float64) float64 { return m.Pressure(v) - pressure }
	derivative := m.PressureDx
	v0 := m.Tubes.NominalVolume()
	res := newtonSolve(v0, PressureInverseTolerance, PressureInverseNewtonCap, objective, derivative)
	if !res.Converged {
		return res.BestGuess(), newFlowError(KindPressureInversionFailure, "pressure inversion did not converge after %d iterations", res.Iterations)
	}
	return res.X, nil
}

// BalloonTubePressureModel is the alternate pressure curve: pressure rises
// then falls again with volume past a maximum, like inflating a real
// balloon. No pipe uses it: PipeDefinition.Elasticity is always a
// HoopTubePressureModel, so this model is only evaluated directly.
type BalloonTubePressureModel struct {
	Tubes            ElasticTubeBundle
	CollapsePressure float64
}

func NewBalloonTubePressureModel(tubes ElasticTubeBundle, collapsePressure float64) BalloonTubePressureModel {
	return BalloonTubePressureModel{Tubes: tubes, CollapsePressure: collapsePressure}
}

func (m BalloonTubePressureModel) Pressure(volume float64) float64 {
	r := m.Tubes.VolumeToRadius(volume)
	if r < m.Tubes.Radius {
		return TubeLawPressure(r, m.Tubes.Radius, m.Tubes.WallThickness, m.Tubes.YoungsModulus, m.CollapsePressure)
	}
	return BalloonTubePressure(r, m.Tubes.Radius, m.Tubes.WallThickness, m.Tubes.YoungsModulus)
}

func (m BalloonTubePressureModel) PressureDx(volume float64) float64 {
	dv := math.Max(volume*1e-4, 1e-9)
	p1 := m.Pressure(volume)
	p2 := m.Pressure(volume + dv)
	return (p2 - p1) / dv
}

func (m BalloonTubePressureModel) MaxPressure() float64 {
	return BalloonTubeMaxPressure(m.Tubes.Radius, m.Tubes.WallThickness, m.Tubes.YoungsModulus)
}

func (m BalloonTubePressureModel) VolumeAtMaxPressure() float64 {
	return BalloonTubeVolumeAtMaxPressure(m.Tubes.Radius, m.Tubes.Length) * m.Tubes.Count
}

// Volume inverts Pressure; if pressure exceeds MaxPressure there is no
// solution on the rising branch and VolumeAtMaxPressure is returned instead.
func (m BalloonTubePressureModel) Volume(pressure float64) (float64, error) {
	maxPressure := m.MaxPressure()
	if pressure > maxPressure {
		return m.VolumeAtMaxPressure(), newFlowError(KindPressureInversionFailure, "pressure %.3f exceeds balloon model max pressure %.3f", pressure, maxPressure)
	}
	objective := func(v float64) float64 { return m.Pressure(v) - pressure }
	res := newtonSolve(m.Tubes.NominalVolume(), PressureInverseTolerance, PressureInverseNewtonCap, objective, m.PressureDx)
	if !res.Converged {
		return res.BestGuess(), newFlowError(KindPressureInversionFailure, "pressure inversion did not converge after %d iterations", res.Iterations)
	}
	return res.X, nil
}
