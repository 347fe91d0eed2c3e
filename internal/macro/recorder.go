package macro

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"voxcmd/internal/chain"
	"voxcmd/internal/executor"
	"voxcmd/internal/logger"
	"voxcmd/pkg/voxtypes"
)

// State is the recorder's lifecycle state.
type State int

// The recorder is either idle or recording; there is no paused state.
const (
	StateIdle State = iota
	StateRecording
)

// String returns the state name.
func (s State) String() string {
	if s == StateRecording {
		return "recording"
	}
	return "idle"
}

// Recorder captures sequences of successful utterances under a name and
// replays them later through the chainer, reusing its chaining semantics,
// including fail-fast abort.
type Recorder struct {
	mu      sync.Mutex
	state   State
	name    string
	buffer  []string
	store   *Store
	chainer *chain.Chainer
	log     *log.Logger
}

// NewRecorder creates a Recorder over the given store and chainer.
func NewRecorder(store *Store, chainer *chain.Chainer) *Recorder {
	return &Recorder{
		store:   store,
		chainer: chainer,
		log:     logger.NewStyledLogger("Macro"),
	}
}

// State returns the current recorder state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// StartRecording transitions idle to recording and clears the buffer. It
// fails if a recording is already in progress or the name is empty.
func (r *Recorder) StartRecording(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("macro name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateRecording {
		return fmt.Errorf("already recording macro %q", r.name)
	}
	r.state = StateRecording
	r.name = name
	r.buffer = nil
	r.log.Debug("Recording started", "macro", name)
	return nil
}

// RecordCommand appends a raw command string to the buffer. It is a no-op
// unless a recording is in progress.
func (r *Recorder) RecordCommand(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return
	}
	if text = strings.TrimSpace(text); text != "" {
		r.buffer = append(r.buffer, text)
	}
}

// StopRecording transitions recording to idle and persists the buffered
// commands as a macro keyed by lowercase name, overwriting any prior macro
// of the same name.
func (r *Recorder) StopRecording() (*voxtypes.Macro, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return nil, fmt.Errorf("not recording")
	}

	m := &voxtypes.Macro{
		ID:        uuid.New().String(),
		Name:      r.name,
		Commands:  append([]string(nil), r.buffer...),
		CreatedAt: time.Now(),
	}
	r.store.Put(m)
	r.state = StateIdle
	r.name = ""
	r.buffer = nil
	r.log.Debug("Recording stopped", "macro", m.Name, "commands", len(m.Commands))
	return m, nil
}

// CancelRecording discards the buffer without saving.
func (r *Recorder) CancelRecording() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateIdle
	r.name = ""
	r.buffer = nil
}

// PlayMacro looks a macro up case-insensitively, increments its usage
// counter, and replays it by joining the stored commands with " and " and
// handing the joined utterance to the chainer.
func (r *Recorder) PlayMacro(ctx context.Context, name string, opts executor.Options) (*chain.Result, error) {
	m, ok := r.store.Get(name)
	if !ok {
		return nil, fmt.Errorf("macro %q not found", name)
	}
	if len(m.Commands) == 0 {
		return nil, fmt.Errorf("macro %q has no commands", name)
	}

	m.UsageCount++
	r.log.Debug("Replaying macro", "macro", m.Name, "usage", m.UsageCount)
	return r.chainer.ExecuteChain(ctx, strings.Join(m.Commands, " and "), opts), nil
}
