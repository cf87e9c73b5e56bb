package body

import (
	"math"

	"github.com/danvil/gosim/flowsim"
)

// chamberGeometry is one chamber's shape, wall and elasticity, matching the
// template's anatomical measurements.
type chamberGeometry struct {
	Radius           float64
	Length           float64
	WallThickness    float64
	YoungsModulus    float64
	StrandCount      float64
	CollapsePressure float64
}

func (g chamberGeometry) build(name string) (flowsim.PipeDefinition, error) {
	shape := flowsim.Cylinder{Radius: g.Radius, Length: g.Length}
	return flowsim.NewPipeDefinition(name, shape, g.StrandCount, g.CollapsePressure, g.WallThickness, g.YoungsModulus)
}

var (
	systemicVeins = chamberGeometry{Radius: 0.008, Length: 0.150, WallThickness: 0.0007, YoungsModulus: 36_000.0, StrandCount: 3, CollapsePressure: -2000.0}
	blueAtrium    = chamberGeometry{Radius: 0.014, Length: 0.035, WallThickness: 0.0025, YoungsModulus: 60_000.0, StrandCount: 1, CollapsePressure: -500.0}
	blueVentricle = chamberGeometry{Radius: 0.022, Length: 0.045, WallThickness: 0.004, YoungsModulus: 75_000.0, StrandCount: 1, CollapsePressure: -1_000.0}
	pulmonaryArtery = chamberGeometry{Radius: 0.006, Length: 0.200, WallThickness: 0.0015, YoungsModulus: 300_000.0, StrandCount: 2, CollapsePressure: -1_000.0}
	pulmonaryVeins  = chamberGeometry{Radius: 0.006, Length: 0.150, WallThickness: 0.0005, YoungsModulus: 45_000.0, StrandCount: 4, CollapsePressure: -1_000.0}
	redAtrium       = chamberGeometry{Radius: 0.018, Length: 0.035, WallThickness: 0.0025, YoungsModulus: 60_000.0, StrandCount: 1, CollapsePressure: -500.0}
	redVentricle    = chamberGeometry{Radius: 0.028, Length: 0.055, WallThickness: 0.010, YoungsModulus: 120_000.0, StrandCount: 1, CollapsePressure: -1_500.0}
	aorta           = chamberGeometry{Radius: 0.0125, Length: 0.300, WallThickness: 0.002, YoungsModulus: 400_000.0, StrandCount: 1, CollapsePressure: -1_000.0}
	heartVessel     = chamberGeometry{Radius: 0.010, Length: 0.080, WallThickness: 0.002, YoungsModulus: 50_000.0, StrandCount: 1, CollapsePressure: -500.0}
)

// HeartChambers names the entry points an external agent (the beat state
// machine) drives every tick.
type HeartChambers struct {
	BlueAtrium    flowsim.PipeId
	BlueVentricle flowsim.PipeId
	RedAtrium     flowsim.PipeId
	RedVentricle  flowsim.PipeId
}

// Heart couples a CardiacCycle state machine to the four chamber pipes it
// drives, plus the monitoring state a bedside-style readout would want.
type Heart struct {
	Cycle    *CardiacCycle
	Chambers HeartChambers

	Beat          bool
	HeartRateEma  BeatEma
	Stage         CardiacCycleStage
	StageProgress float64
}

func NewHeart(chambers HeartChambers, initialBpm float64) *Heart {
	return &Heart{
		Cycle:        NewCardiacCycle(initialBpm),
		Chambers:     chambers,
		HeartRateEma: NewBeatEma(5.0),
	}
}

// TargetBpm lets an external agent (exertion, medication, a higher-level
// autonomic model) retune the heart rate; the cycle adopts it gradually.
func (h *Heart) TargetBpm(bpm float64) {
	h.Cycle.SetTargetBpm(bpm)
}

// Step advances the cardiac cycle by dt and applies this tick's external
// chamber pressures into net, then updates the heart's own statistics.
func (h *Heart) Step(net *flowsim.FlowNet, dt float64) {
	h.Cycle.Step(dt)
	stage, q := h.Cycle.Stage()

	setPressure := func(id flowsim.PipeId, pressure float64) {
		def, ok := net.DefinitionPtr(id)
		if !ok {
			return
		}
		def.ExternalPortPressure[flowsim.PortA.Index()] = pressure
		def.ExternalPortPressure[flowsim.PortB.Index()] = pressure
	}

	switch stage {
	case DiastolePhase1:
		setPressure(h.Chambers.RedAtrium, 0)
		setPressure(h.Chambers.BlueAtrium, 0)
		setPressure(h.Chambers.RedVentricle, 0)
		setPressure(h.Chambers.BlueVentricle, 0)
	case ArterialSystole:
		a := attack(q)
		setPressure(h.Chambers.RedAtrium, -1_000.0*a)
		setPressure(h.Chambers.BlueAtrium, -1_000.0*a)
		setPressure(h.Chambers.RedVentricle, 0)
		setPressure(h.Chambers.BlueVentricle, 0)
	case Systole:
		a := attack(q)
		setPressure(h.Chambers.RedAtrium, 0)
		setPressure(h.Chambers.BlueAtrium, 0)
		setPressure(h.Chambers.RedVentricle, -16_000.0*a)
		setPressure(h.Chambers.BlueVentricle, -3_300.0*a)
	}

	h.Beat = h.Cycle.Beat()
	h.HeartRateEma.Step(dt, h.Beat)
	h.Stage, h.StageProgress = stage, q
}

// CreateHeart builds the two ventricle/atrium/artery chains (pulmonary:
// systemic_veins -> blue_atrium -> blue_ventricle -> pulmonary_artery;
// systemic: pulmonary_veins -> red_atrium -> red_ventricle -> aorta), the
// heart's own tissue-supply vessel linking aorta back to systemic_veins,
// throughflow valves on both ventricles, and returns the chamber ids a
// Heart needs to drive.
func CreateHeart(net *flowsim.FlowNet, namePrefix string) (HeartChambers, error) {
	build := func(suffix string, g chamberGeometry) (flowsim.PipeId, error) {
		def, err := g.build(namePrefix + "_" + suffix)
		if err != nil {
			return 0, err
		}
		fillVolume, err := def.Elasticity.Volume(0)
		if err != nil {
			fillVolume = def.NominalVolume()
		}
		state := flowsim.NewPipeState(fillVolume, flowsim.Blood(0), flowsim.MinChunkVolume)
		return net.AddPipe(def, state), nil
	}

	chain := func(names []string, geoms []chamberGeometry) ([]flowsim.PipeId, error) {
		ids := make([]flowsim.PipeId, len(names))
		for i := range names {
			id, err := build(names[i], geoms[i])
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		net.Topology().ConnectChain(ids)
		net.Topology().ConnectToNewJunction(flowsim.Port{Pipe: ids[0], Side: flowsim.PortA})
		net.Topology().ConnectToNewJunction(flowsim.Port{Pipe: ids[len(ids)-1], Side: flowsim.PortB})
		return ids, nil
	}

	blue, err := chain(
		[]string{"systemic_veins", "blue_atrium", "blue_ventricle", "pulmonary_artery"},
		[]chamberGeometry{systemicVeins, blueAtrium, blueVentricle, pulmonaryArtery},
	)
	if err != nil {
		return HeartChambers{}, err
	}

	red, err := chain(
		[]string{"pulmonary_veins", "red_atrium", "red_ventricle", "aorta"},
		[]chamberGeometry{pulmonaryVeins, redAtrium, redVentricle, aorta},
	)
	if err != nil {
		return HeartChambers{}, err
	}

	applyThroughflowValve(net, blue[2])
	applyThroughflowValve(net, red[2])

	vessel, err := build("heart_vessel", heartVessel)
	if err != nil {
		return HeartChambers{}, err
	}

	net.Topology().Connect(flowsim.Port{Pipe: red[3], Side: flowsim.PortB}, flowsim.Port{Pipe: vessel, Side: flowsim.PortA})
	net.Topology().Connect(flowsim.Port{Pipe: vessel, Side: flowsim.PortB}, flowsim.Port{Pipe: blue[0], Side: flowsim.PortA})

	return HeartChambers{
		BlueAtrium:    blue[1],
		BlueVentricle: blue[2],
		RedAtrium:     red[1],
		RedVentricle:  red[2],
	}, nil
}

func applyThroughflowValve(net *flowsim.FlowNet, id flowsim.PipeId) {
	st, ok := net.StatePtr(id)
	if !ok {
		return
	}
	st.Valve = flowsim.NewValveState(flowsim.ValveDef{
		Kind:                    flowsim.ValveThroughflow,
		Direction:               flowsim.AtoB,
		ConductanceFactorClosed: 0,
		Hysteresis:              0.10,
	})
}

// pulmonaryOxygenUptake is a simple saturating model of how quickly blood
// passing through the pulmonary loop re-saturates with oxygen. Nothing in
// the body template calls it: Heart.Step and the cardio step system move
// blood without changing its oxygenation.
func pulmonaryOxygenUptake(existing flowsim.FluidComposition, flow, dt float64) flowsim.FluidComposition {
	total := existing.OxyHemoglobin + existing.DeoxyHemoglobin
	if total <= 0 || flow <= 0 {
		return existing
	}
	rate := 1 - math.Exp(-flow*dt/total)
	reoxygenated := existing.DeoxyHemoglobin * rate
	existing.OxyHemoglobin += reoxygenated
	existing.DeoxyHemoglobin -= reoxygenated
	return existing
}
