package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"smew/internal/scenario"
)

func eventsCmd() *cobra.Command {
	var patterns []string
	cmd := &cobra.Command{
		Use:   "events <scenario>",
		Short: "List a scenario's events and how many instances match its initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, args[0], patterns)
		},
	}
	cmd.Flags().StringSliceVar(&patterns, "events", nil, "Glob patterns selecting which events to list")
	return cmd
}

func runEvents(cmd *cobra.Command, name string, patterns []string) error {
	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}
	sc, err := loadScenario(cfg, name)
	if err != nil {
		return err
	}

	opts := scenario.BuildOptions{Logger: logger}
	if len(patterns) > 0 {
		if opts.Events, err = scenario.MatchEvents(patterns...); err != nil {
			return err
		}
	}
	story, err := sc.Build(opts)
	if err != nil {
		return err
	}
	defer story.Close()

	possible := make(map[string]int)
	for _, in := range story.Model.Possible() {
		possible[in.Def.Name]++
	}

	defs := story.Model.Events()
	if len(defs) == 0 {
		fmt.Fprintln(os.Stdout, "No events found.")
		return nil
	}
	for _, def := range defs {
		tags := "any"
		if len(def.Tags) > 0 {
			tags = strings.Join(def.Tags, ", ")
		}
		fmt.Fprintf(os.Stdout, "%s [%s] candidates=%d possible=%d\n",
			def.Name, tags, len(story.Model.Candidates(def)), possible[def.Name])
	}
	return nil
}
