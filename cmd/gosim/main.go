// Command gosim runs the embedded cardiovascular body template for a fixed
// number of ticks, dumping per-pipe diagnostics as it goes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	gosim "github.com/danvil/gosim"
	"github.com/danvil/gosim/body"
	"github.com/danvil/gosim/flowsim"
)

func main() {
	ticks := flag.Int("ticks", 1200, "number of simulation ticks to run")
	dt := flag.Float64("dt", 0.01, "fixed seconds per tick")
	bpm := flag.Float64("bpm", 60, "initial/target heart rate in beats per minute")
	csvDir := flag.String("csv-dir", "", "directory to write per-tick pipe CSV dumps into (empty disables)")
	dotPath := flag.String("dot", "", "path to write the network's topology as a DOT graph (empty disables)")
	chunkBudget := flag.Int("chunk-dump-budget", 4, "max pipes per tick that get full per-chunk detail dumps")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	runID := uuid.New().String()

	app := gosim.NewApp()
	app.UseModules(
		gosim.LoggingModule{Prefix: "gosim", Debug: *debug},
		gosim.TimeModule{FixedDt: *dt},
		body.CardioModule{InitialBpm: *bpm},
	)
	app.Build()

	net := gosim.MustResource[flowsim.FlowNet](app)
	heart := gosim.MustResource[body.Heart](app)
	logger := app.Logger()

	if *dotPath != "" {
		if err := dumpTopology(*dotPath, net); err != nil {
			logger.Errorf("failed to write topology dot file: %v", err)
		}
	}

	var dumpDir string
	if *csvDir != "" {
		dumpDir = filepath.Join(*csvDir, runID)
		if err := os.MkdirAll(dumpDir, 0o755); err != nil {
			logger.Errorf("failed to create csv dump dir %q: %v", dumpDir, err)
			dumpDir = ""
		}
	}

	ids := net.PipeIds()
	states := make([]*gosim.FairAllocState, len(ids))
	for i := range states {
		states[i] = &gosim.FairAllocState{}
	}
	alloc := gosim.NewFairAlloc(*chunkBudget).WithRoundUpThreshold(1e-6)
	requests := make([]int, len(ids))
	for i := range ids {
		requests[i] = 1
	}

	runOneTick := func(tick int) {
		app.Run(1)

		if dumpDir == "" {
			return
		}

		snapshot := gosim.MustResource[body.FlowSnapshot](app)

		summaryPath := filepath.Join(dumpDir, fmt.Sprintf("tick_%06d.csv", tick))
		if f, err := os.Create(summaryPath); err == nil {
			_ = flowsim.WritePipeCSV(f, net, *snapshot)
			f.Close()
		}

		gosim.Warmup(alloc, requests, states)
		granted := gosim.Allocate(alloc, requests, states)

		for i, id := range ids {
			if granted[i] == 0 {
				continue
			}
			detailPath := filepath.Join(dumpDir, fmt.Sprintf("tick_%06d_pipe_%d_chunks.csv", tick, id))
			if f, err := os.Create(detailPath); err == nil {
				_ = flowsim.WriteChunkDetail(f, net, id)
				f.Close()
			}
		}
	}

	for tick := 0; tick < *ticks; tick++ {
		runOneTick(tick)
		if tick%100 == 0 {
			logger.Infof("tick=%d stage=%s heart_rate_ema=%.1fbpm", tick, heart.Stage, heart.HeartRateEma.Bpm())
		}
	}

	logger.Infof("run %s complete: %d ticks, final heart rate %.1f bpm", runID, *ticks, heart.Cycle.CurrentBpm())
}

func dumpTopology(path string, net *flowsim.FlowNet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return flowsim.WriteTopologyDOT(f, net)
}
