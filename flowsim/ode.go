package flowsim

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Gravity is the constant used by the gravity force term.
const Gravity = 9.80665

// stateIndex returns the offset of pipe i's [vA, vB, V] triple in the
// packed state vector.
func stateIndex(i int) int { return 3 * i }

// FlowNetOde evaluates the force-balance derivative of a FlowNet's packed
// state vector [vA_0, vB_0, V_0, vA_1, vB_1, V_1, ...]. It implements the
// gonum/mat-flavored ODE interface RK4 (rk4.go) drives.
type FlowNetOde struct {
	net *FlowNet

	// junctionPressure is repopulated on every Eval call: per-pipe,
	// per-port closed-form equalisation pressure (spec.md 4.6 step 3),
	// kept around afterwards so the step driver can read back what each
	// port's junction pressure was for this derivative evaluation.
	junctionPressure map[Port]float64
}

func NewFlowNetOde(net *FlowNet) *FlowNetOde {
	return &FlowNetOde{net: net, junctionPressure: make(map[Port]float64)}
}

// ReadState packs the net's current pipe states into a state vector.
func (ode *FlowNetOde) ReadState() *mat.VecDense {
	n := ode.net.pipes.SlotCount()
	y := mat.NewVecDense(3*n, nil)
	ode.net.pipes.Iter(func(i int, _ *PipeDefinition) {
		st, _ := ode.net.states.Get(i)
		base := stateIndex(i)
		y.SetVec(base+0, st.Velocity[PortA])
		y.SetVec(base+1, st.Velocity[PortB])
		y.SetVec(base+2, st.Volume)
	})
	return y
}

// WriteState writes a post-integration state vector back into the net's
// pipe states.
func (ode *FlowNetOde) WriteState(y *mat.VecDense) {
	ode.net.pipes.Iter(func(i int, _ *PipeDefinition) {
		st, _ := ode.net.states.GetPtr(i)
		base := stateIndex(i)
		st.Velocity[PortA] = y.AtVec(base + 0)
		st.Velocity[PortB] = y.AtVec(base + 1)
		st.Volume = math.Max(y.AtVec(base+2), 0)
	})
}

// Eval implements the ODE interface: derivative of y at time t.
func (ode *FlowNetOde) Eval(t float64, y *mat.VecDense) *mat.VecDense {
	net := ode.net
	n := net.pipes.SlotCount()
	dy := mat.NewVecDense(3*n, nil)

	type portForce struct {
		area float64
		mass float64
		f    PortMap[float64]
	}
	scratch := make(map[int]portForce, n)

	net.pipes.Iter(func(i int, def *PipeDefinition) {
		base := stateIndex(i)
		st, _ := net.states.Get(i)

		volume := math.Max(y.AtVec(base+2), 0)
		area := volume / def.Shape.Length
		strandRadius := math.Sqrt(area / (math.Pi * def.StrandCount))
		density := st.Vessel.AverageComposition().DensityAndViscosity().Density
		if density <= 0 {
			density = DensityBlood
		}
		viscosity := st.Vessel.AverageComposition().DensityAndViscosity().Viscosity
		if viscosity <= 0 {
			viscosity = ViscosityBlood
		}
		mass := density * volume
		effectiveLength := 0.5 * def.Shape.Length

		var f PortMap[float64]
		for _, side := range [2]PortTag{PortA, PortB} {
			v := y.AtVec(base + side.Index())
			areaEff := area * def.PortAreaFactor[side]

			pump := def.ExternalPortPressure[side] * areaEff
			elas := -def.Elasticity.Pressure(volume) * areaEff

			gravSign := -1.0
			if side == PortB {
				gravSign = 1.0
			}
			grav := mass * Gravity * math.Sin(def.GroundAngle) * gravSign

			visc := -8 * math.Pi * viscosity * def.StrandCount * effectiveLength * v

			turb := -(math.Pi / 4) * def.DarcyFactor * density * strandRadius * def.StrandCount * effectiveLength * v * math.Abs(v)

			damp := -def.Damping * def.StrandCount * v

			f[side.Index()] = pump + elas + grav + visc + turb + damp
		}

		scratch[i] = portForce{area: area, mass: mass, f: f}
	})

	// Junction closed-form equalisation: P_J = -(sum A/m * F) / (sum A^2/m)
	net.topology.Junctions().Iter(func(_ int, portsSet *map[Port]struct{}) {
		var h, z float64
		for p := range *portsSet {
			sc, ok := scratch[int(p.Pipe)]
			if !ok {
				continue
			}
			if sc.mass <= 0 {
				continue
			}
			h += sc.f[p.Side.Index()] * sc.area / sc.mass
			z += sc.area * sc.area / sc.mass
		}
		var pj float64
		if z > 0 {
			pj = -h / z
		}
		for p := range *portsSet {
			ode.junctionPressure[p] = pj
		}
	})

	net.pipes.Iter(func(i int, def *PipeDefinition) {
		base := stateIndex(i)
		sc := scratch[i]

		var dv [2]float64
		for _, side := range [2]PortTag{PortA, PortB} {
			port := Port{Pipe: PipeId(i), Side: side}
			if pj, ok := ode.junctionPressure[port]; ok && sc.mass > 0 {
				dv[side.Index()] = (sc.f[side.Index()] + pj*sc.area) / sc.mass
			} else {
				dv[side.Index()] = 0
			}
		}

		vA := y.AtVec(base + 0)
		vB := y.AtVec(base + 1)

		dy.SetVec(base+0, dv[0])
		dy.SetVec(base+1, dv[1])
		dy.SetVec(base+2, (vA+vB)*sc.area)

		_ = def
	})

	return dy
}

// JunctionPressureAt returns the closed-form junction pressure (from the
// most recent Eval) at a given port.
func (ode *FlowNetOde) JunctionPressureAt(port Port) (float64, bool) {
	p, ok := ode.junctionPressure[port]
	return p, ok
}
