package flowsim

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SolverConfig groups the solver-numerics knobs in one record. FlowNet.Step
// reads FlowConservationThreshold and Integrator from it. JunctionNewtonCap,
// PressureInverseNewtonCap and PressureInverseTolerance only record the
// defaults: the junction solver and HoopTubePressureModel.Volume use the
// package constants of the same names, so changing these three fields has
// no effect.
type SolverConfig struct {
	FlowConservationThreshold float64
	JunctionNewtonCap         int
	PressureInverseNewtonCap  int
	PressureInverseTolerance  float64
	Integrator                Integrator
}

// DefaultSolverConfig matches the values named throughout the component
// design: a 1e-8 flow-conservation threshold, a 125-iteration junction cap,
// a 25-iteration pressure-inversion cap at 1e-3 Pa tolerance, classic RK4.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		FlowConservationThreshold: FlowConservationThreshold,
		JunctionNewtonCap:         JunctionNewtonCap,
		PressureInverseNewtonCap:  PressureInverseNewtonCap,
		PressureInverseTolerance:  PressureInverseTolerance,
		Integrator:                IntegratorRK4,
	}
}

// FlowNet is a complete flow network: pipe definitions, their topology, and
// (in a parallel slab) their dynamic state. External agents mutate pipe
// definitions' external-pressure and valve fields between ticks; the step
// driver owns everything else.
type FlowNet struct {
	Config SolverConfig

	pipes    *IntMap[PipeDefinition]
	states   *IntMap[PipeState]
	topology *FlowNetTopology

	ode *FlowNetOde

	// StepErrors accumulates this tick's per-entity errors (never fatal);
	// the caller drains it after Step returns.
	StepErrors []error
}

func NewFlowNet() *FlowNet {
	net := &FlowNet{
		Config:   DefaultSolverConfig(),
		pipes:    NewIntMap[PipeDefinition](),
		states:   NewIntMap[PipeState](),
		topology: NewFlowNetTopology(),
	}
	net.ode = NewFlowNetOde(net)
	return net
}

// AddPipe inserts a pipe definition and its initial state, returning the
// new pipe's id.
func (net *FlowNet) AddPipe(def PipeDefinition, state *PipeState) PipeId {
	idx := net.pipes.Insert(def)
	net.states.Set(idx, *state)
	return PipeId(idx)
}

func (net *FlowNet) Definition(id PipeId) (PipeDefinition, bool) {
	return net.pipes.Get(int(id))
}

func (net *FlowNet) DefinitionPtr(id PipeId) (*PipeDefinition, bool) {
	return net.pipes.GetPtr(int(id))
}

func (net *FlowNet) State(id PipeId) (PipeState, bool) {
	return net.states.Get(int(id))
}

func (net *FlowNet) StatePtr(id PipeId) (*PipeState, bool) {
	return net.states.GetPtr(int(id))
}

func (net *FlowNet) Topology() *FlowNetTopology { return net.topology }

// PipeIds returns every currently-occupied pipe id, in slot order.
func (net *FlowNet) PipeIds() []PipeId {
	ids := make([]PipeId, 0, net.pipes.Len())
	net.pipes.Iter(func(i int, _ *PipeDefinition) { ids = append(ids, PipeId(i)) })
	return ids
}

// PipeFlowState is the per-tick diagnostic snapshot external interfaces
// read: per-port pressure, the (optional) turbulent-corrected junction
// pressure, and flow.
type PipeFlowState struct {
	Pressure         PortMap[float64]
	JunctionPressure PortMap[*float64]
	Flow             PortMap[float64]
}

// Step advances the whole network by one tick, in the order fixed by the
// component design: apply agent updates (left to the caller, before Step
// is invoked), integrate, exchange volume, recompute velocities and
// pressures, update valves, update stats, then solve each junction's
// equalisation pressure.
func (net *FlowNet) Step(dt float64) map[PipeId]PipeFlowState {
	net.StepErrors = net.StepErrors[:0]

	y := net.ode.ReadState()
	yNext := Step(net.Config.Integrator, net.ode, 0, dt, y)
	net.ode.WriteState(yNext)

	predicted := net.predictedDeltaVolume(yNext, dt)
	actualDV := make(map[Port]float64, len(predicted))

	net.topology.Junctions().Iter(func(j int, portsSet *map[Port]struct{}) {
		junctionDV := make(map[Port]float64, len(*portsSet))
		for p := range *portsSet {
			junctionDV[p] = predicted[p]
		}
		result := ExchangeVolumes(net, JuncId(j), junctionDV, dt)
		for p, dv := range result.ActualDeltaVolume {
			actualDV[p] = dv
		}
		if result.Residual > net.Config.FlowConservationThreshold {
			net.StepErrors = append(net.StepErrors, newFlowError(KindMassNotConserved,
				"junction %d left %.3e m^3 unexchanged residual", j, result.Residual))
		}
	})

	out := make(map[PipeId]PipeFlowState, net.pipes.Len())
	net.pipes.Iter(func(i int, def *PipeDefinition) {
		st, _ := net.states.GetPtr(i)
		volume := math.Max(st.Vessel.Volume(), 0)
		st.Volume = volume
		area := volume / def.Shape.Length

		var flow PortMap[float64]
		var pressure PortMap[float64]
		var jp PortMap[*float64]

		for _, side := range [2]PortTag{PortA, PortB} {
			port := Port{Pipe: PipeId(i), Side: side}

			var v float64
			if _, attached := predicted[port]; attached {
				actual := actualDV[port]
				v = RecomputeVelocity(actual, area, dt)
				flow[side.Index()] = actual / dt
			} else {
				// Not attached to any junction: no exchange happened here,
				// so the velocity is whatever the ODE integrated it to
				// (pinned at 0 by its own derivative, per the unattached
				// case in the force-balance step).
				v = yNext.AtVec(stateIndex(i) + side.Index())
				flow[side.Index()] = v * area
			}
			st.Velocity[side.Index()] = v

			p := def.ExternalPortPressure[side.Index()] + def.Elasticity.Pressure(volume)
			pressure[side.Index()] = p

			if pj, ok := net.ode.JunctionPressureAt(port); ok {
				threshold := 0.0
				drivingPressure := p - pj
				st.Valve.Step(side, drivingPressure, threshold)
				def.PortAreaFactor[side.Index()] = st.Valve.AreaFactor(side)
			}
		}

		st.Stats.Observe(pressure, flow, dt)

		out[PipeId(i)] = PipeFlowState{Pressure: pressure, JunctionPressure: jp, Flow: flow}
	})

	net.solveJunctionPressures(out)

	return out
}

// solveJunctionPressures runs the Newton-based turbulent-flow equaliser
// (spec.md 4.5) once per junction per tick, independently of the closed-form
// linearisation Eval uses to drive valve hysteresis above. Its result is the
// externally-visible PipeFlowState.JunctionPressure; a junction that fails
// to solve (no incident ports, zero total conductance, or no convergence
// within the Newton cap) reports into net.StepErrors and is left with no
// JunctionPressure entry for this tick.
func (net *FlowNet) solveJunctionPressures(out map[PipeId]PipeFlowState) {
	net.topology.Junctions().Iter(func(j int, portsSet *map[Port]struct{}) {
		solver := NewJunctionPressureSolver()
		for p := range *portsSet {
			def, ok := net.pipes.Get(int(p.Pipe))
			if !ok {
				continue
			}
			st, ok := net.states.Get(int(p.Pipe))
			if !ok {
				continue
			}
			dv := st.Vessel.AverageComposition().DensityAndViscosity()
			density, viscosity := dv.Density, dv.Viscosity
			if density <= 0 {
				density = DensityBlood
			}
			if viscosity <= 0 {
				viscosity = ViscosityBlood
			}
			flowModel := NewTurbulentFlowModel(def.Shape, density, viscosity, def.PortAreaFactor[p.Side.Index()])
			solver.AddPort(p, flowModel, def.ExternalPortPressure[p.Side.Index()], def.Elasticity, st.Volume)
		}

		if err := solver.Solve(); err != nil {
			net.StepErrors = append(net.StepErrors, err)
			return
		}

		pressure, _ := solver.Pressure()
		for p := range *portsSet {
			flowState := out[p.Pipe]
			pCopy := pressure
			flowState.JunctionPressure[p.Side.Index()] = &pCopy
			out[p.Pipe] = flowState
		}
	})
}

// predictedDeltaVolume computes, per port, ΔV_side = v_side * dt * A from
// the post-integration state — spec.md 4.7's starting point for exchange.
func (net *FlowNet) predictedDeltaVolume(y *mat.VecDense, dt float64) map[Port]float64 {
	out := make(map[Port]float64, 2*net.pipes.Len())
	net.pipes.Iter(func(i int, def *PipeDefinition) {
		base := stateIndex(i)
		volume := math.Max(y.AtVec(base+2), 0)
		area := volume / def.Shape.Length
		for _, side := range [2]PortTag{PortA, PortB} {
			if _, attached := net.topology.JunctionOf(Port{Pipe: PipeId(i), Side: side}); !attached {
				continue
			}
			v := y.AtVec(base + side.Index())
			out[Port{Pipe: PipeId(i), Side: side}] = v * dt * area
		}
	})
	return out
}
