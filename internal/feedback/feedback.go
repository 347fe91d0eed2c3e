// Package feedback turns execution outcomes into audio tones and spoken
// confirmations. Tone sequences are deterministic per sound kind so the
// generated audio parameters can be snapshot tested without a device; speech
// is serialized through a single slot, with a new utterance cancelling any
// in-flight one.
package feedback

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"voxcmd/internal/logger"
	"voxcmd/pkg/voxtypes"
)

// Emitter renders audio feedback through injected device handles. A nil
// synthesizer or toner renders nothing; the emitter stays usable either way.
type Emitter struct {
	synth voxtypes.Synthesizer
	toner voxtypes.Toner
	log   *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the in-flight utterance
	gen    uint64             // identifies which utterance owns the slot
	muted  bool
}

// New creates an Emitter over the given speech and tone devices. Either may
// be nil.
func New(synth voxtypes.Synthesizer, toner voxtypes.Toner) *Emitter {
	return &Emitter{
		synth: synth,
		toner: toner,
		log:   logger.NewStyledLogger("Feedback"),
	}
}

// SetMuted toggles all audio output.
func (e *Emitter) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
}

// Muted reports whether output is suppressed.
func (e *Emitter) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Speak renders text as speech, blocking until playback ends or the context
// is cancelled. Starting a new utterance cancels any in-flight one; speech
// is a single-slot mailbox, not a queue.
func (e *Emitter) Speak(ctx context.Context, text string, opts voxtypes.SpeechOptions) error {
	e.mu.Lock()
	if e.muted || e.synth == nil || text == "" {
		e.mu.Unlock()
		return nil
	}
	if e.cancel != nil {
		e.cancel()
	}
	speechCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	logger.FeedbackEvent("speech", text)
	err := e.synth.Speak(speechCtx, text, opts)

	// Interruption must be read before releasing the context, or an engine
	// error is indistinguishable from a cancelled utterance.
	interrupted := speechCtx.Err() != nil
	cancel()
	e.mu.Lock()
	// Release the slot only if a newer utterance has not claimed it.
	if e.gen == gen {
		e.cancel = nil
	}
	e.mu.Unlock()

	if err != nil && !interrupted {
		e.log.Error("Speech synthesis failed", "error", err)
		return err
	}
	return nil
}

// Cancel stops any in-flight utterance.
func (e *Emitter) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// PlaySound renders the fixed tone sequence for a sound kind. It is
// fire-and-forget; invalid kinds are ignored with a warning.
func (e *Emitter) PlaySound(kind voxtypes.SoundKind) {
	if !kind.IsValid() {
		e.log.Warn("Unknown sound kind", "kind", kind)
		return
	}
	e.mu.Lock()
	muted := e.muted
	toner := e.toner
	e.mu.Unlock()

	if muted || toner == nil {
		return
	}
	logger.FeedbackEvent("tone", kind.String())
	toner.Play(ToneSequence(kind))
}

// DescribeEngineError maps a speech-engine error code to its fixed
// user-facing message. Unknown codes get a generic message; all engine
// errors are non-fatal and the pipeline returns to listening afterward.
func DescribeEngineError(code string) string {
	switch code {
	case "no-speech":
		return "I didn't hear anything. Try again."
	case "audio-capture":
		return "No microphone was found. Check your audio input."
	case "not-allowed":
		return "Microphone access was denied. Enable it to use voice commands."
	case "network":
		return "Speech recognition needs a network connection."
	case "aborted":
		return "Listening was cancelled."
	default:
		return "Speech recognition failed. Try again."
	}
}
