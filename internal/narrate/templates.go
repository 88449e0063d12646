// Package narrate renders narration templates and delivers the resulting lines.
package narrate

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/samber/oops"
)

var (
	// ErrMissingVar indicates a {placeholder} with no matching variable.
	ErrMissingVar = errors.New("missing narration variable")
	// ErrNoTemplate indicates there is nothing to choose from.
	ErrNoTemplate = errors.New("no narration template")
)

// maxExpansionDepth bounds #symbol# recursion through groups.
const maxExpansionDepth = 16

// Vars are the substitutions for one narration call.
type Vars map[string]any

// Templates is either a flat list of lines or a set of named groups. Lines
// are chosen uniformly at random; a group is chosen explicitly by name.
type Templates struct {
	Lines  []string            `yaml:"lines,omitempty" json:"lines,omitempty"`
	Groups map[string][]string `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// Flat builds Templates from a list of lines.
func Flat(lines ...string) Templates {
	return Templates{Lines: lines}
}

// Grouped builds Templates from named groups.
func Grouped(groups map[string][]string) Templates {
	return Templates{Groups: groups}
}

func (t Templates) IsEmpty() bool {
	return len(t.Lines) == 0 && len(t.Groups) == 0
}

// Render picks one of the flat lines uniformly and substitutes vars.
func (t Templates) Render(rng *rand.Rand, vars Vars) (string, error) {
	if len(t.Lines) == 0 {
		return "", oops.Code("NO_TEMPLATE").Wrapf(ErrNoTemplate, "no flat narration lines")
	}
	return t.expand(rng, pick(rng, t.Lines), vars, 0)
}

// RenderGroup picks one line of the named group uniformly and substitutes vars.
func (t Templates) RenderGroup(rng *rand.Rand, group string, vars Vars) (string, error) {
	lines := t.Groups[group]
	if len(lines) == 0 {
		return "", oops.Code("NO_TEMPLATE").With("group", group).Wrapf(ErrNoTemplate, "narration group %q", group)
	}
	return t.expand(rng, pick(rng, lines), vars, 0)
}

// Format substitutes vars into a literal template without choosing.
func Format(text string, vars Vars) (string, error) {
	return Templates{}.expand(nil, text, vars, 0)
}

func pick(rng *rand.Rand, lines []string) string {
	if len(lines) == 1 || rng == nil {
		return lines[0]
	}
	return lines[rng.IntN(len(lines))]
}

// expand performs {name} substitution and tracery-style #symbol# expansion.
// A #symbol# resolves to a variable first and otherwise to a random line of
// the group with that name, expanded recursively.
func (t Templates) expand(rng *rand.Rand, text string, vars Vars, depth int) (string, error) {
	if depth > maxExpansionDepth {
		return "", oops.Code("EXPANSION_TOO_DEEP").With("depth", depth).Errorf("narration expansion exceeds depth %d", maxExpansionDepth)
	}

	var out strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			out.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			out.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				out.WriteString(text[i:])
				return out.String(), nil
			}
			name := text[i+1 : i+1+end]
			value, ok := vars[name]
			if !ok {
				return "", oops.Code("MISSING_VAR").With("var", name).Wrapf(ErrMissingVar, "{%s}", name)
			}
			out.WriteString(render(value))
			i += end + 1
		case c == '#':
			end := strings.IndexByte(text[i+1:], '#')
			if end < 0 {
				out.WriteString(text[i:])
				return out.String(), nil
			}
			symbol := text[i+1 : i+1+end]
			if !isSymbol(symbol) {
				out.WriteByte(c)
				continue
			}
			expanded, err := t.symbol(rng, symbol, vars, depth)
			if err != nil {
				return "", err
			}
			out.WriteString(expanded)
			i += end + 1
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), nil
}

func (t Templates) symbol(rng *rand.Rand, symbol string, vars Vars, depth int) (string, error) {
	if value, ok := vars[symbol]; ok {
		return render(value), nil
	}
	if lines := t.Groups[symbol]; len(lines) > 0 {
		return t.expand(rng, pick(rng, lines), vars, depth+1)
	}
	return "", oops.Code("MISSING_VAR").With("var", symbol).Wrapf(ErrMissingVar, "#%s#", symbol)
}

func isSymbol(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && r != '-' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func render(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
