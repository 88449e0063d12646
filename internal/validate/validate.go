// Package validate lints a scenario against its script without running it.
package validate

import (
	"fmt"
	"log/slog"

	"smew/internal/scenario"
	"smew/internal/script"
	"smew/internal/sim"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeNoEvents              = "no_events"
	codeDanglingActor         = "dangling_relationship_actor"
	codeSelfRelationship      = "self_relationship"
	codeUnknownTag            = "unknown_tag"
	codeTooFewCandidates      = "too_few_candidates"
	codeUntaggedActor         = "untagged_actor"
	codeDuplicateRelationship = "duplicate_relationship"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Event    string
	Actor    string
	FilePath string
}

type Report struct {
	Issues []Issue
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Report) HasErrors() bool { return r.Count(SeverityError) > 0 }

// Run loads the scenario's script and checks it together with the cast.
func Run(sc *scenario.Scenario) (*Report, error) {
	if sc == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	scr, err := script.Load(sc.ScriptPath(), script.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	defer scr.Close()

	return Check(sc, scr.Definitions()), nil
}

// Check reports problems that make a scenario fail or events unreachable.
// Events added to the world by actions are not known statically, so tag
// and candidate problems are warnings.
func Check(sc *scenario.Scenario, defs []sim.Definition) *Report {
	issues := make([]Issue, 0)
	scriptPath := sc.ScriptPath()

	if len(defs) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeNoEvents,
			Message:  "script defines no events",
			FilePath: scriptPath,
		})
	}

	declared := make(map[string]struct{})
	byTag := make(map[string]int)
	total := 0
	for _, spec := range sc.Actors {
		for _, name := range spec.AllNames() {
			declared[name] = struct{}{}
			total++
			if len(spec.Tags) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeUntaggedActor,
					Message:  "actor has no tags and can only fill untagged slots",
					Actor:    name,
				})
			}
			for _, tag := range uniqueTags(spec.Tags) {
				byTag[tag]++
			}
		}
	}

	issues = append(issues, checkRelationships(sc.Relationships, declared)...)

	for _, def := range defs {
		issues = append(issues, checkEvent(def, byTag, total, scriptPath)...)
	}

	return &Report{Issues: issues}
}

func checkRelationships(rels []scenario.RelationshipSpec, declared map[string]struct{}) []Issue {
	var issues []Issue
	seen := make(map[scenario.RelationshipSpec]struct{})
	for _, rel := range rels {
		for _, name := range []string{rel.Subject, rel.Object} {
			if _, ok := declared[name]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeDanglingActor,
					Message:  fmt.Sprintf("relationship %s %s %s names an undeclared actor", rel.Subject, rel.Label, rel.Object),
					Actor:    name,
				})
			}
		}
		if rel.Subject == rel.Object {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeSelfRelationship,
				Message:  fmt.Sprintf("%s is related to itself by %s", rel.Subject, rel.Label),
				Actor:    rel.Subject,
			})
		}
		key := scenario.RelationshipSpec{Subject: rel.Subject, Label: rel.Label, Object: rel.Object}
		if _, dup := seen[key]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeDuplicateRelationship,
				Message:  fmt.Sprintf("relationship %s %s %s is declared twice", rel.Subject, rel.Label, rel.Object),
				Actor:    rel.Subject,
			})
		}
		seen[key] = struct{}{}
	}
	return issues
}

func checkEvent(def sim.Definition, byTag map[string]int, total int, scriptPath string) []Issue {
	if len(def.Tags) == 0 {
		if def.Slots() > total {
			return []Issue{{
				Severity: SeverityWarn,
				Code:     codeTooFewCandidates,
				Message:  fmt.Sprintf("event takes %d distinct actors but the cast has %d", def.Slots(), total),
				Event:    def.Name,
				FilePath: scriptPath,
			}}
		}
		return nil
	}

	var issues []Issue
	needed := make(map[string]int)
	for _, tag := range def.Tags {
		needed[tag]++
	}
	for _, tag := range uniqueTags(def.Tags) {
		have := byTag[tag]
		switch {
		case have == 0:
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnknownTag,
				Message:  fmt.Sprintf("no actor is tagged %q, so the event can never match", tag),
				Event:    def.Name,
				FilePath: scriptPath,
			})
		case have < needed[tag]:
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeTooFewCandidates,
				Message:  fmt.Sprintf("event needs %d distinct %q actors but the cast has %d", needed[tag], tag, have),
				Event:    def.Name,
				FilePath: scriptPath,
			})
		}
	}
	return issues
}

func uniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
