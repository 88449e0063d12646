package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"smew/internal/narrate"
	"smew/internal/scenario"
	"smew/internal/sim"
	"smew/internal/store"
	"smew/pkg/errutil"
)

type runFlags struct {
	seed    uint64
	steps   int
	events  []string
	save    bool
	quiet   bool
	metrics bool
}

func runCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run a scenario and print its narration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *uint64
			if cmd.Flags().Changed("seed") {
				seed = &flags.seed
			}
			return runScenario(cmd, args[0], seed, flags)
		},
	}
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Random seed (defaults to the scenario or project seed)")
	cmd.Flags().IntVar(&flags.steps, "steps", 0, "Maximum number of ticks")
	cmd.Flags().StringSliceVar(&flags.events, "events", nil, "Glob patterns selecting which events may fire")
	cmd.Flags().BoolVar(&flags.save, "save", false, "Store the transcript")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Do not print narration")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false, "Print run metrics in Prometheus text format")
	return cmd
}

func runScenario(cmd *cobra.Command, name string, seed *uint64, flags runFlags) error {
	ctx := context.Background()

	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}
	sc, err := loadScenario(cfg, name)
	if err != nil {
		return err
	}

	var db store.Store
	if flags.save {
		if db, err = openStore(ctx, cfg); err != nil {
			return err
		}
		defer db.Close(ctx)
	}

	opts := scenario.RunOptions{
		Seed:   scenario.PickSeed(seed, sc.Seed, cfg.Run.Seed),
		Steps:  flags.steps,
		Logger: logger,
	}
	if opts.Steps <= 0 {
		opts.Steps = cfg.Run.Steps
	}
	if len(flags.events) > 0 {
		if opts.Events, err = scenario.MatchEvents(flags.events...); err != nil {
			return err
		}
	}
	if !flags.quiet {
		opts.Sink = narrate.NewWriterSink(os.Stdout)
	}
	var reg *prometheus.Registry
	if flags.metrics {
		reg = prometheus.NewRegistry()
		opts.Metrics = sim.NewMetrics(reg)
	}

	res, err := sc.Run(opts)
	if err != nil {
		errutil.LogError(logger, "run failed", err)
		return err
	}
	logger.Info("run finished", "scenario", name, "seed", res.Seed, "ticks", res.Ticks, "ended", res.Ended)

	if db != nil {
		t := &store.Transcript{
			Scenario: name,
			Title:    sc.Title,
			Seed:     res.Seed,
			Steps:    res.Steps,
			Ticks:    res.Ticks,
			Ended:    res.Ended,
			Lines:    res.Lines,
		}
		if err := db.SaveTranscript(ctx, t); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved transcript %s\n", t.ID)
	}

	if reg != nil {
		return writeMetrics(os.Stdout, reg)
	}
	return nil
}

func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
	}
	return nil
}
