package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"smew/internal/scenario"
	"smew/internal/store"
	"smew/pkg/errutil"
)

type RunScenarioInput struct {
	Scenario string   `json:"scenario" jsonschema:"configured scenario name or path to a scenario file"`
	Seed     *uint64  `json:"seed,omitempty" jsonschema:"random seed; defaults to the scenario or project seed"`
	Steps    int      `json:"steps,omitempty" jsonschema:"maximum number of ticks"`
	Events   []string `json:"events,omitempty" jsonschema:"glob patterns selecting which events may fire"`
	Save     bool     `json:"save,omitempty" jsonschema:"store the transcript"`
}

type ScenarioInput struct {
	Scenario string `json:"scenario" jsonschema:"configured scenario name or path to a scenario file"`
}

type GetTranscriptInput struct {
	ID string `json:"id" jsonschema:"transcript id"`
}

type ListTranscriptsInput struct {
	Scenario string `json:"scenario,omitempty" jsonschema:"restrict to one scenario"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of transcripts"`
}

type SearchTranscriptsInput struct {
	Query    string `json:"query" jsonschema:"search terms"`
	Scenario string `json:"scenario,omitempty" jsonschema:"restrict to one scenario"`
}

type RunOutput struct {
	TranscriptID string   `json:"transcript_id,omitempty"`
	Scenario     string   `json:"scenario"`
	Seed         uint64   `json:"seed"`
	Steps        int      `json:"steps"`
	Ticks        int      `json:"ticks"`
	Ended        bool     `json:"ended"`
	Lines        []string `json:"lines"`
}

type EventOutput struct {
	Name     string   `json:"name"`
	Tags     []string `json:"tags,omitempty"`
	Slots    int      `json:"slots"`
	Possible int      `json:"possible"`
}

type ListEventsOutput struct {
	Events []EventOutput `json:"events"`
}

type ActorOutput struct {
	Name       string         `json:"name"`
	Tags       []string       `json:"tags"`
	Properties map[string]any `json:"properties"`
}

type RelationshipOutput struct {
	Subject string `json:"subject"`
	Label   string `json:"label"`
	Object  string `json:"object"`
}

type WorldOutput struct {
	Title         string               `json:"title,omitempty"`
	Actors        []ActorOutput        `json:"actors"`
	Relationships []RelationshipOutput `json:"relationships"`
	Possible      []string             `json:"possible"`
}

type ListTranscriptsOutput struct {
	Transcripts []store.TranscriptSummary `json:"transcripts"`
}

type SearchTranscriptsOutput struct {
	Results []store.SearchResult `json:"results"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "run_scenario",
		Description: "Run a scenario and return the narration it produced",
	}, s.handleRunScenario)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_events",
		Description: "List a scenario's events and how many instances are possible at the start",
	}, s.handleListEvents)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "describe_world",
		Description: "Return a scenario's initial actors, relationships and possible events",
	}, s.handleDescribeWorld)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_transcript",
		Description: "Retrieve a saved transcript",
	}, s.handleGetTranscript)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_transcripts",
		Description: "List saved transcripts, newest first",
	}, s.handleListTranscripts)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_transcripts",
		Description: "Search narration across saved transcripts",
	}, s.handleSearchTranscripts)
}

func (s *Server) handleRunScenario(ctx context.Context, req *sdk.CallToolRequest, input RunScenarioInput) (*sdk.CallToolResult, RunOutput, error) {
	sc, err := s.loadScenario(input.Scenario)
	if err != nil {
		return nil, RunOutput{}, err
	}
	if input.Save && s.db == nil {
		return nil, RunOutput{}, fmt.Errorf("no transcript store configured")
	}

	opts := scenario.RunOptions{
		Steps:   input.Steps,
		Logger:  s.logger,
		Metrics: s.metrics,
	}
	if s.cfg != nil {
		opts.Seed = scenario.PickSeed(input.Seed, sc.Seed, s.cfg.Run.Seed)
		if opts.Steps <= 0 {
			opts.Steps = s.cfg.Run.Steps
		}
	} else {
		opts.Seed = scenario.PickSeed(input.Seed, sc.Seed)
	}
	if len(input.Events) > 0 {
		if opts.Events, err = scenario.MatchEvents(input.Events...); err != nil {
			return nil, RunOutput{}, err
		}
	}

	res, err := sc.Run(opts)
	if err != nil {
		errutil.LogError(s.logger, "run_scenario failed", err)
		return nil, RunOutput{}, err
	}

	out := RunOutput{
		Scenario: input.Scenario,
		Seed:     res.Seed,
		Steps:    res.Steps,
		Ticks:    res.Ticks,
		Ended:    res.Ended,
		Lines:    res.Lines,
	}
	if out.Lines == nil {
		out.Lines = []string{}
	}
	if input.Save {
		t := &store.Transcript{
			Scenario: input.Scenario,
			Title:    sc.Title,
			Seed:     res.Seed,
			Steps:    res.Steps,
			Ticks:    res.Ticks,
			Ended:    res.Ended,
			Lines:    out.Lines,
		}
		if err := s.db.SaveTranscript(ctx, t); err != nil {
			return nil, RunOutput{}, err
		}
		out.TranscriptID = t.ID
	}
	return nil, out, nil
}

func (s *Server) handleListEvents(ctx context.Context, req *sdk.CallToolRequest, input ScenarioInput) (*sdk.CallToolResult, ListEventsOutput, error) {
	story, err := s.buildStory(input.Scenario)
	if err != nil {
		return nil, ListEventsOutput{}, err
	}
	defer story.Close()

	possible := make(map[string]int)
	for _, in := range story.Model.Possible() {
		possible[in.Def.Name]++
	}

	defs := story.Model.Events()
	output := make([]EventOutput, 0, len(defs))
	for _, def := range defs {
		output = append(output, EventOutput{
			Name:     def.Name,
			Tags:     append([]string{}, def.Tags...),
			Slots:    def.Slots(),
			Possible: possible[def.Name],
		})
	}
	return nil, ListEventsOutput{Events: output}, nil
}

func (s *Server) handleDescribeWorld(ctx context.Context, req *sdk.CallToolRequest, input ScenarioInput) (*sdk.CallToolResult, WorldOutput, error) {
	story, err := s.buildStory(input.Scenario)
	if err != nil {
		return nil, WorldOutput{}, err
	}
	defer story.Close()

	out := WorldOutput{
		Title:         story.Scenario.Title,
		Actors:        []ActorOutput{},
		Relationships: []RelationshipOutput{},
		Possible:      []string{},
	}
	for _, a := range story.Model.Actors() {
		props := make(map[string]any)
		for key, value := range a.Properties() {
			props[key] = value.Any()
		}
		out.Actors = append(out.Actors, ActorOutput{Name: a.Name(), Tags: append([]string{}, a.Tags()...), Properties: props})
	}
	for _, rel := range story.Model.Relationships() {
		out.Relationships = append(out.Relationships, RelationshipOutput{Subject: rel.Subject, Label: rel.Label, Object: rel.Object})
	}
	for _, in := range story.Model.Possible() {
		out.Possible = append(out.Possible, in.String())
	}
	return nil, out, nil
}

func (s *Server) handleGetTranscript(ctx context.Context, req *sdk.CallToolRequest, input GetTranscriptInput) (*sdk.CallToolResult, store.Transcript, error) {
	if s.db == nil {
		return nil, store.Transcript{}, fmt.Errorf("no transcript store configured")
	}
	if input.ID == "" {
		return nil, store.Transcript{}, fmt.Errorf("id is required")
	}
	t, err := s.db.GetTranscript(ctx, input.ID)
	if err != nil {
		return nil, store.Transcript{}, err
	}
	return nil, *t, nil
}

func (s *Server) handleListTranscripts(ctx context.Context, req *sdk.CallToolRequest, input ListTranscriptsInput) (*sdk.CallToolResult, ListTranscriptsOutput, error) {
	if s.db == nil {
		return nil, ListTranscriptsOutput{}, fmt.Errorf("no transcript store configured")
	}
	items, err := s.db.ListTranscripts(ctx, input.Scenario, input.Limit)
	if err != nil {
		return nil, ListTranscriptsOutput{}, err
	}
	return nil, ListTranscriptsOutput{Transcripts: items}, nil
}

func (s *Server) handleSearchTranscripts(ctx context.Context, req *sdk.CallToolRequest, input SearchTranscriptsInput) (*sdk.CallToolResult, SearchTranscriptsOutput, error) {
	if s.db == nil {
		return nil, SearchTranscriptsOutput{}, fmt.Errorf("no transcript store configured")
	}
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchTranscriptsOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.Search(ctx, input.Query, input.Scenario)
	if err != nil {
		return nil, SearchTranscriptsOutput{}, err
	}
	return nil, SearchTranscriptsOutput{Results: results}, nil
}

// loadScenario resolves a configured scenario name first, then a path.
func (s *Server) loadScenario(name string) (*scenario.Scenario, error) {
	if name == "" {
		return nil, fmt.Errorf("scenario is required")
	}
	path := name
	if s.cfg != nil {
		if p, ok := s.cfg.ScenarioPath(name); ok {
			path = p
		}
	}
	return scenario.Load(path)
}

func (s *Server) buildStory(name string) (*scenario.Story, error) {
	sc, err := s.loadScenario(name)
	if err != nil {
		return nil, err
	}
	return sc.Build(scenario.BuildOptions{Logger: s.logger})
}
