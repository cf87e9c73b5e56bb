package flowsim

// FlowConservationThreshold is the convergence tolerance for junction
// pressure equalisation, and the residual above which a leftover junction
// reservoir volume is reported as MassNotConserved.
const FlowConservationThreshold = 1e-8

// JunctionNewtonCap is the junction solver's iteration cap. This
// deliberately differs from the pressure-inversion solver's 25: spec.md
// raises the junction cap to 125 so pathological, stiffly-coupled
// junctions get more chances to converge before being reported as
// DidNotConverge.
const JunctionNewtonCap = 125

type junctionPort struct {
	flowModel       TurbulentFlowModel
	pressureBaseline float64
	pressureModel   HoopTubePressureModel
	currentVolume   float64
	currentPressure float64
}

// JunctionPressureSolver finds the pressure at a junction that zeroes net
// flow across all its incident ports, starting from a Poiseuille-linear
// guess and refining by Newton iteration against the (possibly turbulent)
// flow model of each port.
type JunctionPressureSolver struct {
	ports map[Port]junctionPort

	solved   bool
	pressure float64
}

func NewJunctionPressureSolver() *JunctionPressureSolver {
	return &JunctionPressureSolver{ports: make(map[Port]junctionPort)}
}

func (s *JunctionPressureSolver) Reset() {
	s.ports = make(map[Port]junctionPort)
	s.solved = false
	s.pressure = 0
}

func (s *JunctionPressureSolver) AddPort(port Port, flowModel TurbulentFlowModel, pressureBaseline float64, pressureModel HoopTubePressureModel, currentVolume float64) {
	currentPressure := pressureBaseline + pressureModel.Pressure(currentVolume)
	s.ports[port] = junctionPort{
		flowModel:        flowModel,
		pressureBaseline: pressureBaseline,
		pressureModel:    pressureModel,
		currentVolume:    currentVolume,
		currentPressure:  currentPressure,
	}
}

// solvePoiseuille computes the conductance-weighted average pressure: the
// equalised pressure if every port were purely Poiseuille-linear.
func (s *JunctionPressureSolver) solvePoiseuille() (float64, bool) {
	var num, den float64
	for _, p := range s.ports {
		g := p.flowModel.Conductance()
		num += g * p.currentPressure
		den += g
	}
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}

// Solve finds the equalisation pressure. Errors are never fatal to the
// caller: NoPorts and NoConductance are reported at debug level,
// DidNotConverge at warn, and in every failure case the junction keeps
// whatever pressure it last had (or none, if this is its first step).
func (s *JunctionPressureSolver) Solve() error {
	if len(s.ports) == 0 {
		return newFlowError(KindNoPorts, "junction has no incident ports")
	}

	p0, ok := s.solvePoiseuille()
	if !ok {
		return newFlowError(KindNoConductance, "junction has zero total Poiseuille conductance")
	}

	objective := func(x float64) float64 {
		var total float64
		for _, p := range s.ports {
			total += p.flowModel.Flow(x - p.currentPressure)
		}
		return total
	}
	derivative := func(x float64) float64 {
		var total float64
		for _, p := range s.ports {
			total += p.flowModel.FlowDx(x - p.currentPressure)
		}
		return total
	}

	res := newtonSolve(p0, FlowConservationThreshold, JunctionNewtonCap, objective, derivative)
	if !res.Converged {
		return newFlowError(KindDidNotConverge, "junction pressure solve did not converge after %d iterations", res.Iterations)
	}

	s.solved = true
	s.pressure = res.X
	return nil
}

func (s *JunctionPressureSolver) Pressure() (float64, bool) {
	return s.pressure, s.solved
}

// Flow returns the equalised flow at port, or false if the solver has not
// converged.
func (s *JunctionPressureSolver) Flow(port Port) (float64, bool) {
	if !s.solved {
		return 0, false
	}
	p, ok := s.ports[port]
	if !ok {
		return 0, false
	}
	return p.flowModel.Flow(s.pressure - p.currentPressure), true
}
