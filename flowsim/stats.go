package flowsim

import "math"

// Ema is an exponential moving average with a half-life specified in
// seconds rather than a raw decay constant, so callers can reason about it
// in terms of "how long until a step change is half-forgotten" instead of
// tuning a dimensionless alpha by hand.
type Ema struct {
	HalfLife float64
	value    float64
	primed   bool
}

func NewEma(halfLife float64) Ema {
	return Ema{HalfLife: halfLife}
}

func (e Ema) Value() float64 {
	return e.value
}

// Update folds sample into the average over a step of dt seconds.
func (e *Ema) Update(sample, dt float64) {
	if !e.primed {
		e.value = sample
		e.primed = true
		return
	}
	if e.HalfLife <= 0 {
		e.value = sample
		return
	}
	alpha := 1 - math.Exp(-math.Ln2*dt/e.HalfLife)
	e.value += alpha * (sample - e.value)
}

// RateEma is an Ema over a quantity that's naturally a rate (flow, in this
// module's case): identical update rule, kept as a distinct type so a
// pressure Ema and a flow RateEma can't be mixed up at a call site.
type RateEma struct {
	Ema
}

func NewRateEma(halfLife float64) RateEma {
	return RateEma{Ema: NewEma(halfLife)}
}

// FlowStatsHalfLife is the default smoothing window for both the pressure
// and flow EMAs a pipe tracks.
const FlowStatsHalfLife = 0.25

// FlowStats is the smoothed, per-port view of a pipe's recent behavior:
// pressure and flow, each as an EMA, so diagnostics and valve logic that
// want a damped signal don't have to keep their own history.
type FlowStats struct {
	PressureEma PortMap[Ema]
	FlowEma     PortMap[RateEma]
}

func NewFlowStats() FlowStats {
	return FlowStats{
		PressureEma: PortMap[Ema]{NewEma(FlowStatsHalfLife), NewEma(FlowStatsHalfLife)},
		FlowEma:     PortMap[RateEma]{NewRateEma(FlowStatsHalfLife), NewRateEma(FlowStatsHalfLife)},
	}
}

// Observe folds one tick's per-port pressure and flow into the stats.
func (s *FlowStats) Observe(pressure, flow PortMap[float64], dt float64) {
	for _, side := range [2]PortTag{PortA, PortB} {
		i := side.Index()
		p := s.PressureEma[i]
		p.Update(pressure[i], dt)
		s.PressureEma[i] = p

		f := s.FlowEma[i]
		f.Update(flow[i], dt)
		s.FlowEma[i] = f
	}
}

// PressureDifferential is the smoothed pressure drop from side to its
// opposite.
func (s FlowStats) PressureDifferential(side PortTag) float64 {
	return s.PressureEma[side.Index()].Value() - s.PressureEma[side.Opposite().Index()].Value()
}

// StorageFlow is the smoothed net flow into the pipe (both ports'
// contributions combined), positive when the pipe is filling.
func (s FlowStats) StorageFlow() float64 {
	return s.FlowEma[PortA.Index()].Value() + s.FlowEma[PortB.Index()].Value()
}
