// Package parser converts raw utterances into structured parsed commands.
// It normalizes input, consults the registry for scored candidates, extracts
// placeholder parameters from the winning template, and resolves
// pronoun-style parameter values against the session workspace context.
package parser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"voxcmd/internal/logger"
	"voxcmd/internal/registry"
	"voxcmd/internal/workspace"
	"voxcmd/pkg/voxtypes"
)

// DefaultConfidenceThreshold gates how good the best registry match must be
// before the parser commits to it. Anything below is a defined "no match"
// and is handed off to the host's AI fallback.
const DefaultConfidenceThreshold = 0.6

// pronounValues is the closed set of extracted values that are resolved
// against workspace state by parameter-name heuristics.
var pronounValues = map[string]bool{
	"this":    true,
	"that":    true,
	"it":      true,
	"current": true,
	"here":    true,
}

// Matcher parses utterances against a command registry.
type Matcher struct {
	registry  *registry.Registry
	threshold float64
	log       *log.Logger
}

// Option customizes a Matcher.
type Option func(*Matcher)

// WithThreshold overrides the confidence threshold.
func WithThreshold(t float64) Option {
	return func(m *Matcher) {
		if t > 0 {
			m.threshold = t
		}
	}
}

// New creates a Matcher over the given registry.
func New(reg *registry.Registry, opts ...Option) *Matcher {
	m := &Matcher{
		registry:  reg,
		threshold: DefaultConfidenceThreshold,
		log:       logger.NewStyledLogger("Matcher"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the active confidence threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Normalize lowercases the utterance, collapses internal whitespace, and
// strips one trailing punctuation character.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.Join(strings.Fields(text), " ")
	if n := len(text); n > 0 {
		switch text[n-1] {
		case '.', ',', '!', '?', ';', ':':
			text = strings.TrimSpace(text[:n-1])
		}
	}
	return text
}

// Parse converts one utterance into a ParsedCommand. It returns nil when the
// utterance is empty after normalization or when no registry candidate
// reaches the confidence threshold; nil is the defined hand-off point to an
// external general-purpose AI fallback, not an error.
func (m *Matcher) Parse(text string, ws *workspace.Context) *voxtypes.ParsedCommand {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	matches := m.registry.FindMatches(normalized)
	if len(matches) == 0 || matches[0].Confidence < m.threshold {
		m.log.Debug("No match above threshold", "utterance", normalized, "candidates", len(matches))
		return nil
	}

	best := matches[0]
	logger.MatcherStep(normalized, best.Template.ID, best.Confidence)

	// Re-extract parameters against the winning template's own patterns,
	// first structural match in declaration order wins. A fallback match
	// via edit distance may extract nothing; that leaves parameters empty.
	params := map[string]string{}
	for _, cp := range m.registry.Patterns(best.Template.ID) {
		if extracted, ok := cp.Extract(normalized); ok {
			params = extracted
			break
		}
	}

	if ws != nil {
		m.resolvePronouns(params, ws)
	}

	return &voxtypes.ParsedCommand{
		Intent:     best.Template.ID,
		Category:   best.Template.Category,
		Parameters: params,
		Confidence: best.Confidence,
		RawText:    normalized,
		Matched:    best.Template,
	}
}

// resolvePronouns substitutes pronoun-style parameter values from workspace
// state. "selected"/"selection" substitute the editor selection regardless
// of parameter name (empty string if unset, never dropped).
func (m *Matcher) resolvePronouns(params map[string]string, ws *workspace.Context) {
	for name, value := range params {
		v := strings.ToLower(strings.TrimSpace(value))

		if v == "selected" || v == "selection" {
			params[name] = ws.SelectedText()
			continue
		}
		if !pronounValues[v] {
			continue
		}

		switch strings.ToLower(name) {
		case "filename", "file":
			if f := ws.CurrentFile(); f != "" {
				params[name] = f
			}
		case "text", "code":
			params[name] = ws.SelectedText()
		case "branch":
			if b := ws.GitBranch(); b != "" {
				params[name] = b
			}
		}
	}
}

// ParseAlternatives parses each speech-recognition hypothesis and keeps the
// highest-confidence non-nil result.
func (m *Matcher) ParseAlternatives(texts []string, ws *workspace.Context) *voxtypes.ParsedCommand {
	var best *voxtypes.ParsedCommand
	for _, text := range texts {
		cmd := m.Parse(text, ws)
		if cmd == nil {
			continue
		}
		if best == nil || cmd.Confidence > best.Confidence {
			best = cmd
		}
	}
	return best
}

// Validate checks that a parsed command references a registered template,
// meets the confidence threshold, and carries a non-empty value for every
// placeholder its matched patterns declare. Missing values are reported one
// error string each; validation never blocks execution by itself.
func (m *Matcher) Validate(cmd *voxtypes.ParsedCommand) voxtypes.ValidationResult {
	result := voxtypes.ValidationResult{Valid: true}

	if cmd == nil {
		return voxtypes.ValidationResult{Valid: false, Errors: []string{"no command to validate"}}
	}
	if cmd.Matched == nil {
		result.Valid = false
		result.Errors = append(result.Errors, "no matched command template")
		return result
	}
	if _, ok := m.registry.Get(cmd.Matched.ID); !ok {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("command %q is not registered", cmd.Matched.ID))
	}
	if cmd.Confidence < m.threshold {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("confidence %.2f below threshold %.2f", cmd.Confidence, m.threshold))
	}

	for _, name := range m.declaredParams(cmd.Matched.ID) {
		if cmd.Parameters[name] == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("missing required parameter %q", name))
		}
	}
	return result
}

// declaredParams collects the distinct placeholder names across a template's
// patterns, in declaration order.
func (m *Matcher) declaredParams(id string) []string {
	seen := map[string]bool{}
	var names []string
	for _, cp := range m.registry.Patterns(id) {
		for _, n := range cp.Names {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}
