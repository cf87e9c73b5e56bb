package flowsim

import "math"

// PoiseuillePipeConductance is the Poiseuille's law conductance of a
// cylindrical pipe: pi*r^4 / (8*L*viscosity). Used only as the initial
// guess for junction equalisation, per spec.md's glossary.
func PoiseuillePipeConductance(radius, length, viscosity float64) float64 {
	return math.Pi * math.Pow(radius, 4) / (8 * length * viscosity)
}

// PoiseuilleFlowModel is a purely linear flow(pressureDifference) model.
type PoiseuilleFlowModel struct {
	conductance float64
}

func NewPoiseuilleFlowModel(cyl Cylinder, viscosity, conductanceFactor float64) PoiseuilleFlowModel {
	return PoiseuilleFlowModel{
		conductance: PoiseuillePipeConductance(cyl.Radius, cyl.Length, viscosity) * conductanceFactor,
	}
}

func (m PoiseuilleFlowModel) Conductance() float64 { return m.conductance }

func (m PoiseuilleFlowModel) Flow(dp float64) float64   { return m.conductance * dp }
func (m PoiseuilleFlowModel) FlowDx(dp float64) float64 { return m.conductance }

// TurbulentFlowModel follows Poiseuille until a critical pressure (set by
// the Reynolds number at which flow is expected to transition) and is
// proportional to sqrt(dP) beyond it. Non-physical, but matches the curve
// the spec's pipe force balance assumes.
type TurbulentFlowModel struct {
	poiseuilleConductance float64
	criticalPressure      float64
}

// CriticalReynolds is the Reynolds number around which laminar flow is
// assumed to transition to turbulent flow.
const CriticalReynolds = 1500.0

func NewTurbulentFlowModel(cyl Cylinder, density, viscosity, conductanceFactor float64) TurbulentFlowModel {
	poiseuille := PoiseuillePipeConductance(cyl.Radius, cyl.Length, viscosity) * conductanceFactor
	critical := CriticalPressure(CriticalReynolds, cyl.Radius, cyl.Length, density, viscosity) * conductanceFactor
	return TurbulentFlowModel{poiseuilleConductance: poiseuille, criticalPressure: critical}
}

func (m TurbulentFlowModel) Conductance() float64 { return m.poiseuilleConductance }

func (m TurbulentFlowModel) Flow(dp float64) float64 {
	return m.poiseuilleConductance * turbulentCurve(dp, m.criticalPressure)
}

func (m TurbulentFlowModel) FlowDx(dp float64) float64 {
	return m.poiseuilleConductance * turbulentCurveDx(dp, m.criticalPressure)
}

func turbulentCurve(x, x0 float64) float64 {
	if x < 0 {
		return -turbulentCurve(-x, x0)
	}
	if x <= x0 {
		return x
	}
	return math.Sqrt((2*x - x0) * x0)
}

func turbulentCurveDx(x, x0 float64) float64 {
	if x0 <= 0 {
		return 0
	}
	x = math.Abs(x)
	if x <= x0 {
		return 1
	}
	return x0 / math.Sqrt((2*x-x0)*x0)
}

// CriticalPressure is the pressure (after Poiseuille) that realises the
// given Reynolds number for a pipe of the given shape and fluid.
func CriticalPressure(reynolds, radius, length, density, viscosity float64) float64 {
	return reynolds * 4 * viscosity * viscosity * length / (math.Pow(radius, 3) * density)
}
