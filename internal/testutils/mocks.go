// Package testutils provides shared fakes for pipeline tests: a recording
// speech synthesizer, a recording tone sink, a scripted confirmer, and
// handler builders.
package testutils

import (
	"context"
	"sync"

	"voxcmd/pkg/voxtypes"
)

// MockSynthesizer records spoken texts. If Block is set, Speak waits until
// its context is cancelled, which lets tests observe cancellation of
// in-flight utterances.
type MockSynthesizer struct {
	mu     sync.Mutex
	spoken []string
	Block  bool
	Err    error
}

// SetBlock toggles blocking for subsequent Speak calls.
func (m *MockSynthesizer) SetBlock(block bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Block = block
}

// Speak records the text and optionally blocks until cancelled.
func (m *MockSynthesizer) Speak(ctx context.Context, text string, _ voxtypes.SpeechOptions) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	block := m.Block
	err := m.Err
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

// Spoken returns a copy of everything spoken so far.
func (m *MockSynthesizer) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}

// MockToner records every tone sequence played.
type MockToner struct {
	mu     sync.Mutex
	played [][]voxtypes.ToneSegment
}

// Play records the segments.
func (m *MockToner) Play(segments []voxtypes.ToneSegment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, segments)
}

// Played returns a copy of the recorded sequences.
func (m *MockToner) Played() [][]voxtypes.ToneSegment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]voxtypes.ToneSegment(nil), m.played...)
}

// MockConfirmer answers every prompt with Answer and records the prompts.
type MockConfirmer struct {
	mu      sync.Mutex
	Answer  bool
	Err     error
	prompts []string
}

// Confirm records the prompt and returns the scripted answer.
func (m *MockConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.Answer, m.Err
}

// Prompts returns a copy of the prompts seen so far.
func (m *MockConfirmer) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// CallLog collects handler invocations in order, safely across goroutines.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

// Append records a call.
func (l *CallLog) Append(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, entry)
}

// Calls returns a copy of the recorded entries.
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// OKHandler returns a handler that logs its invocation and succeeds.
func OKHandler(log *CallLog, name string) voxtypes.Handler {
	return func(_ map[string]string, _ voxtypes.ContextSnapshot) (*voxtypes.ExecutionResult, error) {
		if log != nil {
			log.Append(name)
		}
		return &voxtypes.ExecutionResult{Success: true, Message: name + " done"}, nil
	}
}

// FailHandler returns a handler that logs its invocation and fails.
func FailHandler(log *CallLog, name string) voxtypes.Handler {
	return func(_ map[string]string, _ voxtypes.ContextSnapshot) (*voxtypes.ExecutionResult, error) {
		if log != nil {
			log.Append(name)
		}
		return &voxtypes.ExecutionResult{Success: false, Message: name + " failed"}, nil
	}
}

// PanicHandler returns a handler that panics when invoked.
func PanicHandler(msg string) voxtypes.Handler {
	return func(_ map[string]string, _ voxtypes.ContextSnapshot) (*voxtypes.ExecutionResult, error) {
		panic(msg)
	}
}
