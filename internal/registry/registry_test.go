package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxcmd/pkg/voxtypes"
)

func newTemplate(id string, cat voxtypes.CommandCategory, patterns ...string) *voxtypes.CommandTemplate {
	return &voxtypes.CommandTemplate{
		ID:          id,
		Category:    cat,
		Patterns:    patterns,
		Description: "test command " + id,
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		input      string
		wantMatch  bool
		wantParams map[string]string
	}{
		{
			name:       "plain pattern matches verbatim",
			pattern:    "save the file",
			input:      "save the file",
			wantMatch:  true,
			wantParams: map[string]string{},
		},
		{
			name:      "plain pattern is anchored",
			pattern:   "save the file",
			input:     "please save the file",
			wantMatch: false,
		},
		{
			name:       "single placeholder captures free text",
			pattern:    "go to line {line}",
			input:      "go to line 42",
			wantMatch:  true,
			wantParams: map[string]string{"line": "42"},
		},
		{
			name:       "two placeholders split on literal text",
			pattern:    "move the {actor} to {location}",
			input:      "move the cube to the origin",
			wantMatch:  true,
			wantParams: map[string]string{"actor": "cube", "location": "the origin"},
		},
		{
			name:       "matching is case insensitive",
			pattern:    "git status",
			input:      "Git Status",
			wantMatch:  true,
			wantParams: map[string]string{},
		},
		{
			name:      "regex metacharacters in literal text are quoted",
			pattern:   "scale by {n} (uniform)",
			input:     "scale by 2 uniform",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, err := Compile(tt.pattern)
			require.NoError(t, err)

			params, ok := cp.Extract(tt.input)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantParams, params)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(newTemplate("file.save", voxtypes.CategoryFile, "save {filename}")))
	assert.Equal(t, 1, r.Count())

	// Re-registration overwrites by ID and does not grow the registry.
	updated := newTemplate("file.save", voxtypes.CategoryFile, "save {filename}", "save it all")
	require.NoError(t, r.Register(updated))
	assert.Equal(t, 1, r.Count())

	got, ok := r.Get("file.save")
	require.True(t, ok)
	assert.Len(t, got.Patterns, 2)
}

func TestRegisterRejectsInvalidTemplates(t *testing.T) {
	r := New()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newTemplate("", voxtypes.CategoryFile, "save")))
	assert.Error(t, r.Register(newTemplate("x", voxtypes.CommandCategory("bogus"), "save")))
	assert.Error(t, r.Register(&voxtypes.CommandTemplate{ID: "x", Category: voxtypes.CategoryFile}))
	assert.Equal(t, 0, r.Count())
}

func TestFindMatchesExact(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newTemplate("nav.goto_line", voxtypes.CategoryNavigation, "go to line {line}")))
	require.NoError(t, r.Register(newTemplate("level.play", voxtypes.CategoryEngineLevel, "play the game")))

	matches := r.FindMatches("go to line 42")
	require.NotEmpty(t, matches)
	assert.Equal(t, "nav.goto_line", matches[0].Template.ID)
	assert.Equal(t, 1.0, matches[0].Confidence)

	matches = r.FindMatches("play the game")
	require.NotEmpty(t, matches)
	assert.Equal(t, "level.play", matches[0].Template.ID)
	assert.Equal(t, 1.0, matches[0].Confidence)
}

func TestFindMatchesEditDistanceFallback(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newTemplate("level.play", voxtypes.CategoryEngineLevel, "play the game")))

	// One substitution away from the pattern: similarity 12/13.
	matches := r.FindMatches("play the gama")
	require.Len(t, matches, 1)
	assert.Equal(t, "level.play", matches[0].Template.ID)
	assert.InDelta(t, 1.0-1.0/13.0, matches[0].Confidence, 1e-9)
	assert.Less(t, matches[0].Confidence, 1.0)
}

func TestFindMatchesFloor(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newTemplate("level.play", voxtypes.CategoryEngineLevel, "play the game")))

	assert.Empty(t, r.FindMatches("xyz totally unknown gibberish"))
}

func TestFindMatchesTieKeepsRegistrationOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newTemplate("first", voxtypes.CategoryGeneral, "do {x}")))
	require.NoError(t, r.Register(newTemplate("second", voxtypes.CategoryGeneral, "do {y}")))

	matches := r.FindMatches("do something")
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Template.ID)
	assert.Equal(t, "second", matches[1].Template.ID)
	assert.Equal(t, matches[0].Confidence, matches[1].Confidence)
}

func TestGetByCategory(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newTemplate("git.push", voxtypes.CategoryGit, "push")))
	require.NoError(t, r.Register(newTemplate("file.save", voxtypes.CategoryFile, "save")))
	require.NoError(t, r.Register(newTemplate("git.pull", voxtypes.CategoryGit, "pull")))

	gits := r.GetByCategory(voxtypes.CategoryGit)
	require.Len(t, gits, 2)
	assert.Equal(t, "git.push", gits[0].ID)
	assert.Equal(t, "git.pull", gits[1].ID)
	assert.Empty(t, r.GetByCategory(voxtypes.CategoryEnginePhysics))
}

func TestSearch(t *testing.T) {
	r := New()
	spawn := newTemplate("actor.spawn", voxtypes.CategoryEngineActor, "spawn a {actor}")
	spawn.Description = "spawn an actor in the level"
	spawn.Examples = []string{"spawn a cube"}
	require.NoError(t, r.Register(spawn))
	require.NoError(t, r.Register(newTemplate("git.push", voxtypes.CategoryGit, "push")))

	assert.Len(t, r.Search("spawn"), 1)
	assert.Len(t, r.Search("CUBE"), 1) // matches example, case-insensitive
	assert.Empty(t, r.Search("landscape"))
	assert.Empty(t, r.Search("  "))
}

func TestSuggestions(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(newTemplate("git.push", voxtypes.CategoryGit, "push", "push my changes")))
	require.NoError(t, r.Register(newTemplate("level.play", voxtypes.CategoryEngineLevel, "play the game")))

	got := r.Suggestions("pu", 10)
	assert.Equal(t, []string{"push", "push my changes"}, got)

	assert.Len(t, r.Suggestions("p", 1), 1)
	assert.Empty(t, r.Suggestions("", 10))
}
