package executor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"voxcmd/internal/testutils"
	"voxcmd/internal/workspace"
	"voxcmd/pkg/voxtypes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingSink captures the audio cues the executor emits.
type recordingSink struct {
	mu     sync.Mutex
	sounds []voxtypes.SoundKind
	spoken []string
}

func (s *recordingSink) PlaySound(kind voxtypes.SoundKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, kind)
}

func (s *recordingSink) Speak(_ context.Context, text string, _ voxtypes.SpeechOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
	return nil
}

func (s *recordingSink) Sounds() []voxtypes.SoundKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]voxtypes.SoundKind(nil), s.sounds...)
}

func parsed(id string, h voxtypes.Handler, confirm bool) *voxtypes.ParsedCommand {
	return &voxtypes.ParsedCommand{
		Intent:     id,
		Parameters: map[string]string{},
		Confidence: 1.0,
		RawText:    id,
		Matched: &voxtypes.CommandTemplate{
			ID:                   id,
			Category:             voxtypes.CategoryGeneral,
			Patterns:             []string{id},
			Description:          "run " + id,
			Handler:              h,
			RequiresConfirmation: confirm,
		},
	}
}

func TestExecuteSuccess(t *testing.T) {
	ws := workspace.New()
	sink := &recordingSink{}
	var calls testutils.CallLog
	e := New(ws, sink, nil)

	result := e.Execute(context.Background(), parsed("a", testutils.OKHandler(&calls, "a"), false), Options{})

	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, "a done", result.Message)
	assert.False(t, result.Timestamp.IsZero())
	assert.GreaterOrEqual(t, result.Duration.Nanoseconds(), int64(0))
	assert.Equal(t, []string{"a"}, calls.Calls())

	// Exactly one processing cue and one outcome cue.
	assert.Equal(t, []voxtypes.SoundKind{voxtypes.SoundProcessing, voxtypes.SoundSuccess}, sink.Sounds())

	// Outcome lands in the session history.
	history := ws.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].Utterance)
	assert.True(t, history[0].Result.Success)
}

func TestExecuteHandlerError(t *testing.T) {
	ws := workspace.New()
	sink := &recordingSink{}
	e := New(ws, sink, nil)

	boom := errors.New("asset locked")
	cmd := parsed("a", func(map[string]string, voxtypes.ContextSnapshot) (*voxtypes.ExecutionResult, error) {
		return nil, boom
	}, false)

	result := e.Execute(context.Background(), cmd, Options{})
	assert.False(t, result.Success)
	assert.Equal(t, "asset locked", result.Message)
	assert.ErrorIs(t, result.Err, boom)
	assert.Equal(t, []voxtypes.SoundKind{voxtypes.SoundProcessing, voxtypes.SoundError}, sink.Sounds())

	// Failures are recorded too.
	assert.Len(t, ws.History(0), 1)
}

func TestExecutePanicRecovered(t *testing.T) {
	ws := workspace.New()
	e := New(ws, &recordingSink{}, nil)

	result := e.Execute(context.Background(), parsed("boom", testutils.PanicHandler("blew up"), false), Options{})
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "blew up")
	require.Error(t, result.Err)
}

func TestExecuteNilCommand(t *testing.T) {
	ws := workspace.New()
	e := New(ws, &recordingSink{}, nil)

	result := e.Execute(context.Background(), nil, Options{})
	assert.False(t, result.Success)
	assert.Equal(t, "no command handler found", result.Message)

	result = e.Execute(context.Background(), &voxtypes.ParsedCommand{Intent: "x"}, Options{})
	assert.False(t, result.Success)
	assert.Equal(t, "no command handler found", result.Message)
}

func TestExecuteMissingHandler(t *testing.T) {
	e := New(workspace.New(), &recordingSink{}, nil)

	result := e.Execute(context.Background(), parsed("a", nil, false), Options{})
	assert.False(t, result.Success)
	assert.Equal(t, "no command handler found", result.Message)
}

func TestExecuteConfirmation(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		ws := workspace.New()
		sink := &recordingSink{}
		confirmer := &testutils.MockConfirmer{Answer: false}
		var calls testutils.CallLog
		e := New(ws, sink, confirmer)

		result := e.Execute(context.Background(), parsed("file.delete", testutils.OKHandler(&calls, "del"), true), Options{})
		assert.False(t, result.Success)
		assert.Equal(t, "cancelled by user", result.Message)
		assert.Empty(t, calls.Calls())  // handler never invoked
		assert.Empty(t, sink.Sounds()) // no cues on decline
		assert.Len(t, confirmer.Prompts(), 1)
		assert.Len(t, ws.History(0), 1)
	})

	t.Run("accepted", func(t *testing.T) {
		confirmer := &testutils.MockConfirmer{Answer: true}
		var calls testutils.CallLog
		e := New(workspace.New(), &recordingSink{}, confirmer)

		result := e.Execute(context.Background(), parsed("file.delete", testutils.OKHandler(&calls, "del"), true), Options{})
		assert.True(t, result.Success)
		assert.Equal(t, []string{"del"}, calls.Calls())
	})

	t.Run("skip option bypasses prompt", func(t *testing.T) {
		confirmer := &testutils.MockConfirmer{Answer: false}
		var calls testutils.CallLog
		e := New(workspace.New(), &recordingSink{}, confirmer)

		result := e.Execute(context.Background(), parsed("file.delete", testutils.OKHandler(&calls, "del"), true), Options{SkipConfirmation: true})
		assert.True(t, result.Success)
		assert.Empty(t, confirmer.Prompts())
	})

	t.Run("nil confirmer declines", func(t *testing.T) {
		var calls testutils.CallLog
		e := New(workspace.New(), &recordingSink{}, nil)

		result := e.Execute(context.Background(), parsed("file.delete", testutils.OKHandler(&calls, "del"), true), Options{})
		assert.False(t, result.Success)
		assert.Equal(t, "cancelled by user", result.Message)
	})

	t.Run("prompt error declines", func(t *testing.T) {
		confirmer := &testutils.MockConfirmer{Answer: true, Err: errors.New("tty gone")}
		var calls testutils.CallLog
		e := New(workspace.New(), &recordingSink{}, confirmer)

		result := e.Execute(context.Background(), parsed("file.delete", testutils.OKHandler(&calls, "del"), true), Options{})
		assert.False(t, result.Success)
		assert.Empty(t, calls.Calls())
	})
}

func TestExecuteSilent(t *testing.T) {
	sink := &recordingSink{}
	e := New(workspace.New(), sink, nil)

	e.Execute(context.Background(), parsed("a", testutils.OKHandler(nil, "a"), false), Options{Silent: true})
	assert.Empty(t, sink.Sounds())
	assert.Empty(t, sink.spoken)
}

func TestExecuteAnnounce(t *testing.T) {
	sink := &recordingSink{}
	e := New(workspace.New(), sink, nil)

	e.Execute(context.Background(), parsed("a", testutils.OKHandler(nil, "a"), false), Options{Announce: true})
	assert.Equal(t, []string{"a done"}, sink.spoken)
}

func TestExecuteSequenceFailFast(t *testing.T) {
	var calls testutils.CallLog
	e := New(workspace.New(), &recordingSink{}, nil)

	cmds := []*voxtypes.ParsedCommand{
		parsed("one", testutils.OKHandler(&calls, "one"), false),
		parsed("two", testutils.FailHandler(&calls, "two"), false),
		parsed("three", testutils.OKHandler(&calls, "three"), false),
	}

	results := e.ExecuteSequence(context.Background(), cmds, Options{})
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, []string{"one", "two"}, calls.Calls())
}

func TestExecuteParallel(t *testing.T) {
	var calls testutils.CallLog
	e := New(workspace.New(), &recordingSink{}, nil)

	cmds := []*voxtypes.ParsedCommand{
		parsed("one", testutils.OKHandler(&calls, "one"), false),
		parsed("two", testutils.FailHandler(&calls, "two"), false),
		parsed("three", testutils.OKHandler(&calls, "three"), false),
	}

	results := e.ExecuteParallel(context.Background(), cmds, Options{})
	require.Len(t, results, 3)

	// Input order is preserved regardless of completion order; a failure
	// does not cancel its siblings.
	assert.Equal(t, "one done", results[0].Message)
	assert.Equal(t, "two failed", results[1].Message)
	assert.Equal(t, "three done", results[2].Message)
	assert.ElementsMatch(t, []string{"one", "two", "three"}, calls.Calls())
}
