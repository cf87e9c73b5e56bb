package body

import (
	"errors"

	gosim "github.com/danvil/gosim"
	"github.com/danvil/gosim/flowsim"
)

// CardioModule installs a single-heart cardiovascular loop: a FlowNet built
// by CreateHeart, the Heart driving it, and the per-tick system that steps
// both.
type CardioModule struct {
	// InitialBpm seeds the cardiac cycle's starting (and initial target)
	// heart rate. Defaults to 60 when zero.
	InitialBpm float64
}

// FlowSnapshot is the most recent tick's per-pipe diagnostic snapshot,
// installed as a resource so callers (the CLI's dump scheduler, tests)
// can read it without re-stepping the network.
type FlowSnapshot map[flowsim.PipeId]flowsim.PipeFlowState

func (m CardioModule) Install(app *gosim.App, cmd *gosim.Commands) {
	bpm := m.InitialBpm
	if bpm <= 0 {
		bpm = 60
	}

	net := flowsim.NewFlowNet()
	chambers, err := CreateHeart(net, "heart")
	if err != nil {
		app.Logger().WithComponent("cardio").Errorf("failed to build heart topology: %v", err)
		return
	}
	heart := NewHeart(chambers, bpm)
	snapshot := make(FlowSnapshot)

	cmd.AddResources(net, heart, &snapshot)

	app.UseSystem(gosim.Sys(cardioStepSystem).InStage(gosim.Update))
}

func cardioStepSystem(app *gosim.App) {
	t := gosim.MustResource[gosim.Time](app)
	if t.Dt <= 0 {
		return
	}
	net := gosim.MustResource[flowsim.FlowNet](app)
	heart := gosim.MustResource[Heart](app)
	snapshot := gosim.MustResource[FlowSnapshot](app)

	heart.Step(net, t.Dt)
	flowStates := net.Step(t.Dt)

	if len(net.StepErrors) > 0 {
		logger := app.Logger().WithComponent("cardio")
		for _, err := range net.StepErrors {
			level := "warn"
			var flowErr *flowsim.FlowError
			if errors.As(err, &flowErr) {
				level = flowErr.Kind().LogLevel()
			}
			switch level {
			case "debug":
				logger.Debugf("%v", err)
			case "error":
				logger.Errorf("%v", err)
			default:
				logger.Warnf("%v", err)
			}
		}
		net.StepErrors = nil
	}

	for k := range *snapshot {
		delete(*snapshot, k)
	}
	for id, st := range flowStates {
		(*snapshot)[id] = st
	}
}
