// Package body wires flowsim networks into organ-level templates — today,
// a human cardiovascular loop driven by a heartbeat state machine.
package body

import (
	"math"

	"github.com/danvil/gosim/flowsim"
)

// CardiacBpmAdoptionHalflife is how long it takes the cycle's current rate
// to close half the gap to a newly set target rate.
const CardiacBpmAdoptionHalflife = 1.50

// CardiacCycleStage is the three-stage heartbeat state machine: no
// contraction, then atrial contraction, then ventricular contraction.
type CardiacCycleStage int

const (
	DiastolePhase1 CardiacCycleStage = iota
	ArterialSystole
	Systole
)

func (s CardiacCycleStage) next() CardiacCycleStage {
	switch s {
	case DiastolePhase1:
		return ArterialSystole
	case ArterialSystole:
		return Systole
	default:
		return DiastolePhase1
	}
}

func (s CardiacCycleStage) String() string {
	switch s {
	case DiastolePhase1:
		return "DiastolePhase1"
	case ArterialSystole:
		return "ArterialSystole"
	case Systole:
		return "Systole"
	default:
		return "Unknown"
	}
}

// CardiacCycle tracks heart rate (as a slowly-adopted target) and which
// stage of the beat is in progress, advancing stage_time each tick and
// transitioning once the current stage's duration elapses.
type CardiacCycle struct {
	targetRate  float64 // beats per second
	currentRate float64

	stage        CardiacCycleStage
	stageTime    float64
	stagePercent float64

	beat bool
}

// NewCardiacCycle starts at the given bpm, already settled (current rate
// equals target), in DiastolePhase1.
func NewCardiacCycle(bpm float64) *CardiacCycle {
	rate := bpm / 60.0
	return &CardiacCycle{targetRate: rate, currentRate: rate, stage: DiastolePhase1}
}

func (c *CardiacCycle) SetTargetBpm(bpm float64) {
	c.targetRate = bpm / 60.0
}

func (c *CardiacCycle) CurrentBpm() float64 {
	return c.currentRate * 60.0
}

// Step advances the cycle by dt seconds: the current rate adopts toward
// the target with CardiacBpmAdoptionHalflife, then the active stage's
// timer advances, possibly rolling over into the next stage.
func (c *CardiacCycle) Step(dt float64) {
	alpha := 1.0 - math.Exp(-math.Ln2*dt/CardiacBpmAdoptionHalflife)
	c.currentRate += alpha * (c.targetRate - c.currentRate)

	c.stageTime += dt
	var target float64
	switch c.stage {
	case DiastolePhase1:
		target = 0.40
	case ArterialSystole:
		target = 0.15
	case Systole:
		target = SystoleDuration(c.currentRate)
	}

	c.stagePercent = c.stageTime / target

	c.beat = false
	if c.stageTime >= target {
		c.stageTime = 0
		c.stagePercent = 0
		c.stage = c.stage.next()
		if c.stage == Systole {
			c.beat = true
		}
	}
}

// Stage returns the current stage and how far through it (0..1) the cycle
// is.
func (c *CardiacCycle) Stage() (CardiacCycleStage, float64) {
	return c.stage, c.stagePercent
}

// Beat reports whether this tick's Step just started a new Systole.
func (c *CardiacCycle) Beat() bool {
	return c.beat
}

// SystoleDuration is an empirical fit of ventricular systole duration
// against heart rate (beats per second).
//
// Reference: https://pmc.ncbi.nlm.nih.gov/articles/PMC7328879/
func SystoleDuration(heartRate float64) float64 {
	return 0.383451 + math.Pow(1.0/heartRate, 0.3558)
}

// ArterialSystoleDuration and DiastolePhase1Duration are the guesstimate
// analogues for the other two stages, kept for callers that want a rate
// dependent target instead of the fixed 0.15s/0.40s the cycle itself uses.
func ArterialSystoleDuration(heartRate float64) float64 {
	return 0.1 / heartRate
}

func DiastolePhase1Duration(heartRate float64) float64 {
	return 0.9/heartRate - SystoleDuration(heartRate)
}

// attack is the sqrt(sin) envelope the heart applies to each contraction's
// external pressure: zero at the stage boundaries, peaking mid-stage. Its
// shape was tuned by the original implementers rather than derived
// physically; preserved as-is.
func attack(stagePercent float64) float64 {
	return math.Sqrt(math.Sin(stagePercent * math.Pi))
}

// BeatEma smooths the instantaneous beat-to-beat period into a slowly
// adopted heart-rate estimate, the way a bedside monitor would rather than
// reporting raw instantaneous rate.
type BeatEma struct {
	period  flowsim.Ema
	elapsed float64
}

func NewBeatEma(halfLife float64) BeatEma {
	return BeatEma{period: flowsim.NewEma(halfLife)}
}

// Step accumulates dt seconds; on a beat, the elapsed time since the last
// beat is folded into the period estimate (weighted by itself, so a slow
// beat counts for proportionally more evidence) and the accumulator
// resets.
func (b *BeatEma) Step(dt float64, beat bool) {
	b.elapsed += dt
	if beat {
		if b.elapsed > 0 {
			b.period.Update(b.elapsed, b.elapsed)
		}
		b.elapsed = 0
	}
}

func (b BeatEma) Bpm() float64 {
	p := b.period.Value()
	if p <= 0 {
		return 0
	}
	return 60.0 / p
}
