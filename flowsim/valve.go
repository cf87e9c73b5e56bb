package flowsim

// FlowDirection names which way a Throughflow valve permits flow.
type FlowDirection int

const (
	AtoB FlowDirection = iota
	BtoA
)

// ValveKind is the closed set of valve behaviors. Open/Closed are static;
// Throughflow/Inflow/Outflow gate on the sign of the driving pressure at
// each port independently.
type ValveKind int

const (
	ValveOpen ValveKind = iota
	ValveClosed
	ValveThroughflow
	ValveInflow
	ValveOutflow
)

// ValveDef is the static configuration of a valve: its kind, the
// conductance factor it falls back to when fully closed, the direction (for
// Throughflow) and the hysteresis band width.
type ValveDef struct {
	Kind                   ValveKind
	Direction              FlowDirection
	ConductanceFactorClosed float64
	Hysteresis             float64
}

// ValveState tracks, per port, whether the valve currently considers that
// port open, so hysteresis can be applied against the previous state
// instead of the raw driving pressure alone.
type ValveState struct {
	Def  ValveDef
	Open PortMap[bool]
}

func NewValveState(def ValveDef) ValveState {
	return ValveState{Def: def, Open: PortMap[bool]{true, true}}
}

// wantsOpen reports whether a port should conduct, given a kind and which
// side the valve cares about for directional kinds.
func (v ValveState) wantsOpen(side PortTag, drivingPressure float64, threshold float64) bool {
	switch v.Def.Kind {
	case ValveOpen:
		return true
	case ValveClosed:
		return false
	case ValveInflow:
		return drivingPressure >= 0
	case ValveOutflow:
		return drivingPressure <= 0
	case ValveThroughflow:
		// A Throughflow valve only restricts the port that flow would have
		// to cross against; the permitted direction's port stays open.
		if v.Def.Direction == AtoB {
			if side == PortA {
				return drivingPressure >= 0
			}
			return drivingPressure <= 0
		}
		if side == PortA {
			return drivingPressure <= 0
		}
		return drivingPressure >= 0
	default:
		return true
	}
}

// Step applies the hysteresis rule to one port: a closed port opens once
// the driving pressure (pipe pressure minus junction pressure at that side)
// exceeds threshold*(1+h); an open port closes once it falls below
// threshold/(1+h). threshold is always 0 in this module (a valve reacts to
// the sign of the differential, not a nonzero setpoint), kept as a
// parameter so a future pressure-activated valve can reuse this function.
func (v *ValveState) Step(side PortTag, drivingPressure, threshold float64) {
	switch v.Def.Kind {
	case ValveOpen:
		v.Open[side.Index()] = true
		return
	case ValveClosed:
		v.Open[side.Index()] = false
		return
	}

	h := v.Def.Hysteresis
	isOpen := v.Open[side.Index()]

	openBand := threshold * (1 + h)
	closeBand := threshold / (1 + h)

	wantOpen := v.wantsOpen(side, drivingPressure, threshold)

	switch {
	case !isOpen && drivingPressure > openBand && wantOpen:
		v.Open[side.Index()] = true
	case isOpen && (drivingPressure < closeBand || !wantOpen):
		v.Open[side.Index()] = false
	}
}

// AreaFactor returns the port area factor this valve implies: 1 when open,
// the closed-state conductance factor otherwise.
func (v ValveState) AreaFactor(side PortTag) float64 {
	if v.Open[side.Index()] {
		return 1
	}
	return v.Def.ConductanceFactorClosed
}
