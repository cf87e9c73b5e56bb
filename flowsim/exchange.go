package flowsim

// JunctionExchangeResult is what one junction's volume exchange pass
// produced this tick: the actual (post-fulfilment) per-port ΔV, and any
// residual left in the transient reservoir once every port has been
// serviced.
type JunctionExchangeResult struct {
	ActualDeltaVolume map[Port]float64
	Residual          float64
}

// ExchangeVolumes runs the two-phase, mass-preserving exchange for one
// junction: phase 1 tallies supply against demand and derives fulfilment
// factors, phase 2 drains every outflow port into the junction's reservoir
// (globally, before any inflow happens), phase 3 fills every inflow port
// back out of that reservoir. predictedDeltaVolume is ΔV_side = v_side · dt
// · A for every port at this junction, keyed the same way net.topology
// reports membership.
func ExchangeVolumes(net *FlowNet, junction JuncId, predictedDeltaVolume map[Port]float64, dt float64) JunctionExchangeResult {
	var supply, demand float64
	for _, dv := range predictedDeltaVolume {
		if dv < 0 {
			supply += -dv
		} else if dv > 0 {
			demand += dv
		}
	}

	var sFull, dFull float64
	if supply > 0 && demand > 0 {
		sFull = 1
		dFull = supply / demand
	}

	reservoir := &ReservoirVessel{}
	actual := make(map[Port]float64, len(predictedDeltaVolume))

	// Phase 2: outflow, globally, before any inflow.
	for port, dv := range predictedDeltaVolume {
		if dv >= 0 {
			continue
		}
		drainVolume := -dv * sFull
		actual[port] = -drainVolume
		if drainVolume <= 0 {
			continue
		}
		st, ok := net.states.GetPtr(int(port.Pipe))
		if !ok {
			continue
		}
		for _, chunk := range st.Vessel.Drain(port.Side, drainVolume) {
			reservoir.Fill(chunk)
		}
		st.Volume = st.Vessel.Volume()
	}

	// Phase 3: inflow, out of the same reservoir.
	for port, dv := range predictedDeltaVolume {
		if dv <= 0 {
			continue
		}
		fillVolume := dv * dFull
		if fillVolume <= 0 {
			actual[port] = 0
			continue
		}
		st, ok := net.states.GetPtr(int(port.Pipe))
		if !ok {
			actual[port] = 0
			continue
		}
		chunk := reservoir.Drain(fillVolume)
		actual[port] = chunk.Volume()
		st.Vessel.Fill(port.Side, chunk)
		st.Volume = st.Vessel.Volume()
	}

	return JunctionExchangeResult{ActualDeltaVolume: actual, Residual: reservoir.Volume()}
}

// RecomputeVelocity turns an actual (post-fulfilment) ΔV back into a
// velocity, given the port's cross-section area.
func RecomputeVelocity(actualDeltaVolume, area, dt float64) float64 {
	if area <= 0 || dt <= 0 {
		return 0
	}
	return actualDeltaVolume / (area * dt)
}
