// Package registry manages the catalog of command templates for the voxcmd
// pipeline. It provides thread-safe registration, category and keyword
// lookup, and the confidence-scored matching the parser depends on.
//
// Patterns are compiled once at registration time: each {name} placeholder
// becomes a wildcard capture group in an anchored, case-insensitive regexp.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"voxcmd/internal/logger"
	"voxcmd/pkg/voxtypes"
)

// placeholderPattern recognizes {name} placeholders inside template patterns.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// similarityFloor is the minimum confidence for a template/pattern pair to
// count as a candidate match.
const similarityFloor = 0.5

// CompiledPattern pairs a raw template pattern with its anchored matcher and
// the placeholder names in positional order.
type CompiledPattern struct {
	Raw    string
	Regexp *regexp.Regexp
	Names  []string
}

// Extract runs the compiled matcher against text and returns the captured
// parameter values keyed by placeholder name. The second return is false if
// the pattern does not structurally match.
func (p *CompiledPattern) Extract(text string) (map[string]string, bool) {
	m := p.Regexp.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(p.Names))
	for i, name := range p.Names {
		params[name] = strings.TrimSpace(m[i+1])
	}
	return params, true
}

// Compile converts a raw pattern into its anchored case-insensitive matcher.
// Literal pattern text is quoted; each {name} placeholder becomes a lazy
// wildcard capture group.
func Compile(raw string) (*CompiledPattern, error) {
	names := make([]string, 0, 2)
	var b strings.Builder
	b.WriteString(`(?i)^`)

	rest := raw
	for {
		loc := placeholderPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(regexp.QuoteMeta(rest))
			break
		}
		b.WriteString(regexp.QuoteMeta(rest[:loc[0]]))
		b.WriteString(`(.+?)`)
		names = append(names, rest[loc[2]:loc[3]])
		rest = rest[loc[1]:]
	}
	b.WriteString(`$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", raw, err)
	}
	return &CompiledPattern{Raw: raw, Regexp: re, Names: names}, nil
}

// Match is one scored template candidate returned by FindMatches.
type Match struct {
	Template   *voxtypes.CommandTemplate
	Confidence float64
	Pattern    *CompiledPattern
}

type entry struct {
	template *voxtypes.CommandTemplate
	compiled []*CompiledPattern
}

// Registry holds the registered command templates. It is safe for concurrent
// use; after startup it is effectively read-only and may be shared across
// sessions.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string // registration order, preserved for tie-breaking
	log     interface {
		Warn(msg interface{}, keyvals ...interface{})
	}
}

// New creates an empty command registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		log:     logger.Logger,
	}
}

// Register inserts a template, or overwrites an existing one with the same
// ID. Overwriting is non-fatal and logs a warning. The template's patterns
// are compiled here, once, so matching never recompiles.
func (r *Registry) Register(t *voxtypes.CommandTemplate) error {
	if t == nil {
		return fmt.Errorf("template cannot be nil")
	}
	if t.ID == "" {
		return fmt.Errorf("template ID cannot be empty")
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("template %s: invalid category %q", t.ID, t.Category)
	}
	if len(t.Patterns) == 0 {
		return fmt.Errorf("template %s: at least one pattern is required", t.ID)
	}

	compiled := make([]*CompiledPattern, 0, len(t.Patterns))
	for _, raw := range t.Patterns {
		cp, err := Compile(raw)
		if err != nil {
			return fmt.Errorf("template %s: %w", t.ID, err)
		}
		compiled = append(compiled, cp)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[t.ID]; exists {
		r.log.Warn("Overwriting registered command", "id", t.ID)
	} else {
		r.order = append(r.order, t.ID)
	}
	r.entries[t.ID] = &entry{template: t, compiled: compiled}
	return nil
}

// Get retrieves a template by ID.
func (r *Registry) Get(id string) (*voxtypes.CommandTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.template, true
}

// Patterns returns the compiled patterns for a template in declaration
// order. The parser uses these to re-extract parameters from the winning
// template.
func (r *Registry) Patterns(id string) []*CompiledPattern {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil
	}
	return e.compiled
}

// All returns every registered template in registration order.
func (r *Registry) All() []*voxtypes.CommandTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*voxtypes.CommandTemplate, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].template)
	}
	return out
}

// Count returns the number of registered templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// GetByCategory returns all templates in the given category, in registration
// order.
func (r *Registry) GetByCategory(cat voxtypes.CommandCategory) []*voxtypes.CommandTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*voxtypes.CommandTemplate
	for _, id := range r.order {
		if t := r.entries[id].template; t.Category == cat {
			out = append(out, t)
		}
	}
	return out
}

// Search returns templates whose description, patterns, or examples contain
// the keyword (case-insensitive substring).
func (r *Registry) Search(keyword string) []*voxtypes.CommandTemplate {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*voxtypes.CommandTemplate
	for _, id := range r.order {
		t := r.entries[id].template
		if templateContains(t, keyword) {
			out = append(out, t)
		}
	}
	return out
}

func templateContains(t *voxtypes.CommandTemplate, keyword string) bool {
	if strings.Contains(strings.ToLower(t.Description), keyword) {
		return true
	}
	for _, p := range t.Patterns {
		if strings.Contains(strings.ToLower(p), keyword) {
			return true
		}
	}
	for _, e := range t.Examples {
		if strings.Contains(strings.ToLower(e), keyword) {
			return true
		}
	}
	return false
}

// Suggestions returns up to limit pattern strings that start with the given
// partial utterance, for host-side autocomplete.
func (r *Registry) Suggestions(partial string, limit int) []string {
	partial = strings.ToLower(strings.TrimSpace(partial))
	if partial == "" || limit <= 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, id := range r.order {
		for _, p := range r.entries[id].template.Patterns {
			if strings.HasPrefix(strings.ToLower(p), partial) {
				out = append(out, p)
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// FindMatches scores every template against the input text and returns all
// candidates above the similarity floor, sorted by descending confidence.
// Ties keep registration order.
//
// An exact structural match against a compiled pattern (placeholders
// capturing free-form text) scores 1.0. Otherwise the score is the
// normalized edit-distance similarity between the raw pattern, placeholders
// literal, and the text.
func (r *Registry) FindMatches(text string) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Match
	for _, id := range r.order {
		e := r.entries[id]
		best := Match{Template: e.template}
		for _, cp := range e.compiled {
			conf := scorePattern(cp, text)
			if conf > best.Confidence {
				best.Confidence = conf
				best.Pattern = cp
			}
			if conf == 1.0 {
				break
			}
		}
		if best.Confidence > similarityFloor {
			matches = append(matches, best)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

func scorePattern(cp *CompiledPattern, text string) float64 {
	if cp.Regexp.MatchString(text) {
		return 1.0
	}
	return similarity(strings.ToLower(text), strings.ToLower(cp.Raw))
}

// similarity is 1 - levenshtein(a, b) / max(len(a), len(b)).
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}
