package gosim

import "time"

// Time is the wall-clock-to-simulated-dt bridge. FrameCount counts the
// ticks the time system has run.
type Time struct {
	Time       time.Time
	Duration   time.Duration
	Dt         float64
	FrameCount uint64
}

// TimeModule installs the Time resource and the system that advances it.
// Flow-net integration is just as sensitive to a stalled dt as rigid-body
// physics is, so the same 10fps clamp applies here.
type TimeModule struct {
	// FixedDt, when non-zero, bypasses the wall clock and always advances
	// by exactly this amount. Used by the CLI and by tests that need
	// deterministic step counts instead of wall-clock jitter.
	FixedDt float64
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{Time: time.Now()})

	fixedDt := mod.FixedDt
	app.UseSystem(Sys(func(app *App) {
		timeSystem(MustResource[Time](app), fixedDt)
	}).InStage(Prelude))
}

func timeSystem(t *Time, fixedDt float64) {
	if fixedDt > 0 {
		t.Duration = time.Duration(fixedDt * float64(time.Second))
		t.Dt = fixedDt
		t.Time = t.Time.Add(t.Duration)
		t.FrameCount++
		return
	}

	now := time.Now()
	dur := now.Sub(t.Time)
	dt := dur.Seconds()
	if dt > 0.1 {
		dt = 0.1
	}

	t.Duration = dur
	t.Dt = dt
	t.Time = now
	t.FrameCount++
}
