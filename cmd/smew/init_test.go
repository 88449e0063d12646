package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smew/internal/config"
	"smew/internal/scenario"
	"smew/internal/sim"
	"smew/internal/validate"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "dreams"))

	cfg, err := config.LoadProjectConfig(filepath.Join(dir, "smew.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dreams", cfg.Project)
	assert.Equal(t, 50, cfg.Run.Steps)

	path, ok := cfg.ScenarioPath("bedroom")
	require.True(t, ok)
	sc, err := scenario.Load(path)
	require.NoError(t, err)

	report, err := validate.Run(sc)
	require.NoError(t, err)
	assert.False(t, report.HasErrors())

	res, err := sc.Run(scenario.RunOptions{Seed: 3, Steps: cfg.Run.Steps})
	require.NoError(t, err)
	assert.True(t, res.Ended, "Chris falls asleep within the step budget")
	assert.Equal(t, "Chris falls asleep.", res.Lines[len(res.Lines)-1])

	err = runInit(dir, "dreams")
	assert.ErrorContains(t, err, "already exists")
}

func TestWriteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := sim.NewMetrics(reg)
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "dreams"))

	sc, err := scenario.Load(filepath.Join(dir, "scenarios", "bedroom.yaml"))
	require.NoError(t, err)
	_, err = sc.Run(scenario.RunOptions{Seed: 3, Steps: 50, Metrics: metrics})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, reg))
	out := buf.String()
	assert.Contains(t, out, "smew_ticks_total")
	assert.Contains(t, out, `smew_events_fired_total{event="FallAsleep"} 1`)
}

func TestPrintIssues(t *testing.T) {
	var buf bytes.Buffer
	printIssues(&buf, []validate.Issue{
		{Code: "unknown_tag", Message: "no actor is tagged ghost", Event: "Haunt", FilePath: "ghosts.lua"},
		{Code: "untagged_actor", Message: "actor has no tags", Actor: "Bob"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  - Haunt (ghosts.lua): no actor is tagged ghost (unknown_tag)", lines[0])
	assert.Equal(t, "  - Bob: actor has no tags (untagged_actor)", lines[1])
}
