package voxtypes

import (
	"context"
	"time"
)

// SoundKind names one of the fixed audio cues the pipeline emits.
type SoundKind string

// The closed set of sound kinds. Each maps to a fixed synthesized tone
// sequence, deterministic given the kind.
const (
	SoundSuccess      SoundKind = "success"
	SoundError        SoundKind = "error"
	SoundListening    SoundKind = "listening"
	SoundProcessing   SoundKind = "processing"
	SoundNotification SoundKind = "notification"
)

// AllSoundKinds returns every valid sound kind in declaration order.
func AllSoundKinds() []SoundKind {
	return []SoundKind{SoundSuccess, SoundError, SoundListening, SoundProcessing, SoundNotification}
}

// String returns the sound kind as its wire string.
func (k SoundKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is a member of the closed set.
func (k SoundKind) IsValid() bool {
	switch k {
	case SoundSuccess, SoundError, SoundListening, SoundProcessing, SoundNotification:
		return true
	}
	return false
}

// Waveform selects the oscillator shape for a tone segment.
type Waveform string

// Supported oscillator shapes.
const (
	WaveSine     Waveform = "sine"
	WaveSquare   Waveform = "square"
	WaveTriangle Waveform = "triangle"
	WaveSawtooth Waveform = "sawtooth"
)

// ToneSegment is one note of a synthesized cue. Sequences of segments are
// deterministic per SoundKind so audio parameter generation can be snapshot
// tested without an audio device.
type ToneSegment struct {
	FrequencyHz float64
	Duration    time.Duration
	Gain        float64
	Wave        Waveform
}

// SpeechOptions tunes a single spoken confirmation.
type SpeechOptions struct {
	Rate   float64 // playback rate multiplier, 0 means engine default
	Pitch  float64 // pitch multiplier, 0 means engine default
	Volume float64 // 0..1, 0 means engine default
}

// Synthesizer renders spoken text. Implementations wrap the external
// browser/OS speech engine; playback blocks until the utterance finishes or
// the context is cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, text string, opts SpeechOptions) error
}

// Toner renders a synthesized tone sequence. Play is fire-and-forget from
// the caller's perspective; implementations decide whether to block.
type Toner interface {
	Play(segments []ToneSegment)
}

// Confirmer obtains an explicit yes/no from the user before a guarded
// command runs.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// FallbackClient is the hand-off point for utterances the matcher cannot
// parse. Implementations call a general-purpose AI model and return its
// free-form suggestion.
type FallbackClient interface {
	ProviderName() string
	IsConfigured() bool
	Suggest(ctx context.Context, utterance string, snapshot ContextSnapshot) (string, error)
}
