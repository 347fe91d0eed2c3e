package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxcmd/internal/registry"
	"voxcmd/internal/testutils"
	"voxcmd/pkg/voxtypes"
)

func TestTemplatesCorpus(t *testing.T) {
	templates := Templates()
	require.NotEmpty(t, templates)

	seen := map[string]bool{}
	covered := map[voxtypes.CommandCategory]bool{}
	for _, tmpl := range templates {
		assert.NotEmpty(t, tmpl.ID)
		assert.True(t, tmpl.Category.IsValid(), "template %s has invalid category %q", tmpl.ID, tmpl.Category)
		assert.NotEmpty(t, tmpl.Patterns, "template %s has no patterns", tmpl.ID)
		assert.NotEmpty(t, tmpl.Description, "template %s has no description", tmpl.ID)
		assert.False(t, seen[tmpl.ID], "duplicate template ID %s", tmpl.ID)
		seen[tmpl.ID] = true
		covered[tmpl.Category] = true
	}

	// Every category has at least one builtin.
	for _, cat := range voxtypes.AllCategories() {
		assert.True(t, covered[cat], "no builtin template in category %s", cat)
	}
}

func TestTemplatesReturnsFreshCopies(t *testing.T) {
	first := Templates()
	first[0].Handler = testutils.OKHandler(nil, "x")
	first[0].Patterns[0] = "mutated"

	second := Templates()
	assert.Nil(t, second[0].Handler)
	assert.NotEqual(t, "mutated", second[0].Patterns[0])
}

func TestDestructiveBuiltinsRequireConfirmation(t *testing.T) {
	guarded := map[string]bool{}
	for _, tmpl := range Templates() {
		if tmpl.RequiresConfirmation {
			guarded[tmpl.ID] = true
		}
	}
	for _, id := range []string{"file.delete", "git.force_push", "git.discard", "actor.delete"} {
		assert.True(t, guarded[id], "%s must require confirmation", id)
	}
}

func TestRegisterBindsHandlers(t *testing.T) {
	reg := registry.New()
	var calls testutils.CallLog
	require.NoError(t, Register(reg, HandlerMap{
		"file.save": testutils.OKHandler(&calls, "file.save"),
	}))
	assert.Equal(t, len(Templates()), reg.Count())

	// Bound handler runs.
	saved, ok := reg.Get("file.save")
	require.True(t, ok)
	result, err := saved.Handler(nil, voxtypes.ContextSnapshot{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"file.save"}, calls.Calls())

	// Unbound templates get the failing stub.
	unbound, ok := reg.Get("level.play")
	require.True(t, ok)
	require.NotNil(t, unbound.Handler)
	result, err = unbound.Handler(nil, voxtypes.ContextSnapshot{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "no handler bound for level.play", result.Message)
}

func TestLoadFile(t *testing.T) {
	yamlDoc := `
- id: custom.build_all
  category: general
  patterns:
    - build everything
    - rebuild the project
  description: build all targets
  examples:
    - build everything
- id: custom.wipe_cache
  category: file
  patterns:
    - wipe the cache
  description: wipe the derived data cache
  requires_confirmation: true
`
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0600))

	reg := registry.New()
	var calls testutils.CallLog
	require.NoError(t, LoadFile(reg, path, HandlerMap{
		"custom.build_all": testutils.OKHandler(&calls, "build"),
	}))
	assert.Equal(t, 2, reg.Count())

	build, ok := reg.Get("custom.build_all")
	require.True(t, ok)
	assert.Equal(t, voxtypes.CategoryGeneral, build.Category)
	assert.Len(t, build.Patterns, 2)

	wipe, ok := reg.Get("custom.wipe_cache")
	require.True(t, ok)
	assert.True(t, wipe.RequiresConfirmation)
	result, err := wipe.Handler(nil, voxtypes.ContextSnapshot{})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestLoadFileErrors(t *testing.T) {
	reg := registry.New()

	assert.Error(t, LoadFile(reg, filepath.Join(t.TempDir(), "missing.yaml"), nil))

	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("{not: [valid"), 0600))
	assert.Error(t, LoadFile(reg, badPath, nil))

	// Invalid category is rejected at registration.
	invalid := "- id: x.y\n  category: bogus\n  patterns: [do x]\n  description: d\n"
	invalidPath := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalidPath, []byte(invalid), 0600))
	assert.Error(t, LoadFile(reg, invalidPath, nil))
}

func TestBuiltinTieBreaks(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Register(reg, nil))

	// "go to line 42" structurally matches both goto_line and goto_file;
	// goto_line is registered first and wins the tie.
	matches := reg.FindMatches("go to line 42")
	require.NotEmpty(t, matches)
	assert.Equal(t, "nav.goto_line", matches[0].Template.ID)
	assert.Equal(t, 1.0, matches[0].Confidence)
}
