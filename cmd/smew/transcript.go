package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func transcriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Inspect saved run transcripts",
	}
	cmd.AddCommand(transcriptListCmd())
	cmd.AddCommand(transcriptShowCmd())
	cmd.AddCommand(transcriptSearchCmd())
	return cmd
}

func transcriptListCmd() *cobra.Command {
	var scenarioName string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved transcripts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscriptList(cmd, scenarioName, limit)
		},
	}
	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Scenario to filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of transcripts")
	return cmd
}

func runTranscriptList(cmd *cobra.Command, scenarioName string, limit int) error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	items, err := db.ListTranscripts(ctx, scenarioName, limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, "No transcripts found.")
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(os.Stdout, "%s %s seed=%d ticks=%d ended=%t lines=%d\n",
			item.ID, item.Scenario, item.Seed, item.Ticks, item.Ended, item.Lines)
	}
	return nil
}

func transcriptShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscriptShow(cmd, args[0])
		},
	}
}

func runTranscriptShow(cmd *cobra.Command, id string) error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	t, err := db.GetTranscript(ctx, id)
	if err != nil {
		return err
	}
	title := t.Title
	if title == "" {
		title = t.Scenario
	}
	fmt.Fprintf(os.Stdout, "%s (seed %d, %d ticks)\n\n", title, t.Seed, t.Ticks)
	for _, line := range t.Lines {
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}

func transcriptSearchCmd() *cobra.Command {
	var scenarioName string
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search narration across saved transcripts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscriptSearch(cmd, args[0], scenarioName)
		},
	}
	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Scenario to filter")
	return cmd
}

func runTranscriptSearch(cmd *cobra.Command, query, scenarioName string) error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}
	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	results, err := db.Search(ctx, query, scenarioName)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}
	for _, result := range results {
		fmt.Fprintf(os.Stdout, "%s:%d score=%.2f %s\n", result.TranscriptID, result.Line, result.Score, result.Snippet)
	}
	return nil
}
