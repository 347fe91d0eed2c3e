package workspace

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxcmd/pkg/voxtypes"
)

func turnWithParams(params map[string]string) *voxtypes.ParsedCommand {
	return &voxtypes.ParsedCommand{Intent: "test.cmd", Parameters: params}
}

func TestEditorState(t *testing.T) {
	c := New()

	c.SetCurrentFile("GameMode.cpp")
	assert.Equal(t, "GameMode.cpp", c.CurrentFile())

	c.SetSelectedText("return nullptr;")
	assert.Equal(t, "return nullptr;", c.SelectedText())
	c.SetSelectedText("")
	assert.Equal(t, "", c.SelectedText())

	c.SetGitBranch("main")
	assert.Equal(t, "main", c.GitBranch())
}

func TestOnlineUsers(t *testing.T) {
	c := New()

	c.AddOnlineUser("alice")
	c.AddOnlineUser("bob")
	c.AddOnlineUser("alice") // duplicate ignored
	assert.Equal(t, []string{"alice", "bob"}, c.Snapshot().OnlineUsers)

	c.RemoveOnlineUser("alice")
	assert.Equal(t, []string{"bob"}, c.Snapshot().OnlineUsers)

	c.RemoveOnlineUser("nobody") // absent user is a no-op
	assert.Equal(t, []string{"bob"}, c.Snapshot().OnlineUsers)
}

func TestHistoryRingBuffer(t *testing.T) {
	c := NewWithCapacity(3)

	for i := 1; i <= 5; i++ {
		c.AddConversationTurn(fmt.Sprintf("utterance %d", i), nil, nil)
	}

	all := c.History(0)
	require.Len(t, all, 3)
	assert.Equal(t, "utterance 3", all[0].Utterance)
	assert.Equal(t, "utterance 5", all[2].Utterance)

	last := c.History(2)
	require.Len(t, last, 2)
	assert.Equal(t, "utterance 4", last[0].Utterance)
	assert.Equal(t, "utterance 5", last[1].Utterance)

	// Requests past the buffer clamp to what exists.
	assert.Len(t, c.History(100), 3)
}

func TestEntityUpdatesFromTurns(t *testing.T) {
	c := New()

	c.AddConversationTurn("spawn a cube", turnWithParams(map[string]string{"actor": "cube"}), nil)
	c.AddConversationTurn("move it to the spawn point", turnWithParams(map[string]string{"location": "the spawn point"}), nil)
	c.AddConversationTurn("set intensity to 5000", turnWithParams(map[string]string{"intensity": "5000"}), nil)

	last, ok := c.Entity(EntityLast)
	require.True(t, ok)
	assert.Equal(t, "cube", last)

	loc, ok := c.Entity(EntityLocation)
	require.True(t, ok)
	assert.Equal(t, "the spawn point", loc)

	val, ok := c.Entity(EntityValue)
	require.True(t, ok)
	assert.Equal(t, "5000", val)

	// Unrecognized parameter names and empty values never enter the map.
	c.AddConversationTurn("noop", turnWithParams(map[string]string{"frobnicator": "x", "actor": ""}), nil)
	last, _ = c.Entity(EntityLast)
	assert.Equal(t, "cube", last)
}

func TestResolveReferences(t *testing.T) {
	tests := []struct {
		name     string
		entities map[string]string
		input    string
		want     string
	}{
		{
			name:     "it resolves to last entity",
			entities: map[string]string{EntityLast: "cube"},
			input:    "delete it",
			want:     "delete cube",
		},
		{
			name:     "there resolves to last location",
			entities: map[string]string{EntityLocation: "the spawn point"},
			input:    "move the light there",
			want:     "move the light the spawn point",
		},
		{
			name:     "the same resolves before shorter words",
			entities: map[string]string{EntityLast: "PointLight"},
			input:    "spawn the same",
			want:     "spawn PointLight",
		},
		{
			name:     "unknown reference left untouched",
			entities: map[string]string{},
			input:    "delete it",
			want:     "delete it",
		},
		{
			name:     "word boundary prevents substring rewrite",
			entities: map[string]string{EntityLast: "cube"},
			input:    "edit the italics",
			want:     "edit the italics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			for k, v := range tt.entities {
				c.SetEntity(k, v)
			}
			assert.Equal(t, tt.want, c.ResolveReferences(tt.input))
		})
	}
}

func TestFrequentEntities(t *testing.T) {
	c := New()

	c.AddConversationTurn("a", turnWithParams(map[string]string{"actor": "cube"}), nil)
	c.AddConversationTurn("b", turnWithParams(map[string]string{"actor": "sphere"}), nil)
	c.AddConversationTurn("c", turnWithParams(map[string]string{"location": "origin"}), nil)
	c.AddConversationTurn("d", turnWithParams(map[string]string{"actor": "cone"}), nil)

	got := c.FrequentEntities(0)
	require.Len(t, got, 2)
	assert.Equal(t, voxtypes.EntityCount{Key: EntityLast, Count: 3}, got[0])
	assert.Equal(t, voxtypes.EntityCount{Key: EntityLocation, Count: 1}, got[1])

	assert.Len(t, c.FrequentEntities(1), 1)
}

func TestFrequentEntitiesTieOrder(t *testing.T) {
	c := New()

	c.SetEntity(EntityValue, "5")
	c.SetEntity(EntityLast, "cube")

	got := c.FrequentEntities(0)
	require.Len(t, got, 2)
	assert.Equal(t, EntityValue, got[0].Key) // first seen wins the tie
	assert.Equal(t, EntityLast, got[1].Key)
}

func TestSnapshotIsolation(t *testing.T) {
	c := New()
	c.SetCurrentFile("A.cpp")
	c.SetOpenFiles([]string{"A.cpp", "B.cpp"})
	c.SetEntity(EntityLast, "cube")
	c.SetCursor(voxtypes.CursorPosition{Line: 3, Column: 14})

	snap := c.Snapshot()
	assert.Equal(t, "A.cpp", snap.CurrentFile)
	assert.Equal(t, []string{"A.cpp", "B.cpp"}, snap.OpenFiles)
	assert.Equal(t, 3, snap.Cursor.Line)

	// Mutating the snapshot must not touch the live context.
	snap.OpenFiles[0] = "Z.cpp"
	snap.Entities[EntityLast] = "sphere"
	assert.Equal(t, []string{"A.cpp", "B.cpp"}, c.Snapshot().OpenFiles)
	v, _ := c.Entity(EntityLast)
	assert.Equal(t, "cube", v)
}

func TestReset(t *testing.T) {
	c := New()
	c.SetCurrentFile("A.cpp")
	c.SetGitBranch("main")
	c.AddConversationTurn("x", turnWithParams(map[string]string{"actor": "cube"}), nil)

	c.Reset()

	assert.Empty(t, c.CurrentFile())
	assert.Empty(t, c.GitBranch())
	assert.Empty(t, c.History(0))
	_, ok := c.Entity(EntityLast)
	assert.False(t, ok)
	assert.Empty(t, c.FrequentEntities(0))
}
