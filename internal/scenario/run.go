package scenario

import (
	"log/slog"
	"math/rand/v2"

	"smew/internal/narrate"
	"smew/internal/sim"
)

// RunOptions configures a complete run of a scenario.
type RunOptions struct {
	Seed    uint64
	Steps   int
	Events  EventFilter
	Sink    narrate.Sink
	Logger  *slog.Logger
	Metrics *sim.Metrics
}

// Result is the outcome of a run.
type Result struct {
	Seed  uint64
	Steps int
	Ticks int
	Ended bool
	Lines []string
}

// Run builds the scenario, advances it for up to opts.Steps ticks (or the
// scenario default) and returns the narration it produced. Lines are also
// forwarded to opts.Sink as they are emitted.
func (sc *Scenario) Run(opts RunOptions) (*Result, error) {
	rec := &narrate.Recorder{}
	sink := narrate.Sink(rec)
	if opts.Sink != nil {
		sink = narrate.Tee(rec, opts.Sink)
	}

	story, err := sc.Build(BuildOptions{
		Logger: opts.Logger,
		Events: opts.Events,
		Model: []sim.Option{
			sim.WithSeed(opts.Seed),
			sim.WithSink(sink),
			sim.WithMetrics(opts.Metrics),
		},
	})
	if err != nil {
		return nil, err
	}
	defer story.Close()

	steps, err := story.Model.Generate(sc.MaxSteps(opts.Steps))
	res := &Result{
		Seed:  opts.Seed,
		Steps: steps,
		Ticks: story.Model.Ticks(),
		Ended: story.Model.Ended(),
		Lines: rec.Lines(),
	}
	return res, err
}

// PickSeed returns the first non-nil seed, or a random one.
func PickSeed(seeds ...*uint64) uint64 {
	for _, s := range seeds {
		if s != nil {
			return *s
		}
	}
	return rand.Uint64()
}
