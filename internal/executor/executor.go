// Package executor runs parsed commands through their registered handlers.
// It enforces the confirmation policy, recovers handler panics, stamps
// timing metadata, records every outcome in the workspace history, and
// triggers audio feedback. Sequential execution is fail-fast; parallel
// execution waits for all handlers and preserves input order in the results.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"voxcmd/internal/logger"
	"voxcmd/internal/workspace"
	"voxcmd/pkg/voxtypes"
)

// FeedbackSink is the slice of the feedback emitter the executor needs.
type FeedbackSink interface {
	PlaySound(kind voxtypes.SoundKind)
	Speak(ctx context.Context, text string, opts voxtypes.SpeechOptions) error
}

// Options tunes a single execution.
type Options struct {
	// SkipConfirmation bypasses the yes/no prompt on guarded commands.
	SkipConfirmation bool

	// Silent suppresses all audio cues and spoken feedback.
	Silent bool

	// Announce speaks the result message after the outcome cue.
	Announce bool
}

// Executor dispatches parsed commands to their handlers.
type Executor struct {
	ws        *workspace.Context
	feedback  FeedbackSink
	confirmer voxtypes.Confirmer
	log       *log.Logger
}

// New creates an Executor bound to a session's workspace context. The
// feedback sink and confirmer may be nil; a nil confirmer declines every
// guarded command.
func New(ws *workspace.Context, feedback FeedbackSink, confirmer voxtypes.Confirmer) *Executor {
	return &Executor{
		ws:        ws,
		feedback:  feedback,
		confirmer: confirmer,
		log:       logger.NewStyledLogger("Executor"),
	}
}

// Execute runs one parsed command and returns its result. Failures of every
// kind are converted to a failed ExecutionResult; Execute never propagates
// handler errors or panics. Every result, success or failure, is appended to
// the workspace history.
func (e *Executor) Execute(ctx context.Context, cmd *voxtypes.ParsedCommand, opts Options) *voxtypes.ExecutionResult {
	start := time.Now()

	if cmd == nil || cmd.Matched == nil {
		result := e.finish(start, &voxtypes.ExecutionResult{
			Success: false,
			Message: "no command handler found",
		})
		e.record("", cmd, result)
		return result
	}

	tmpl := cmd.Matched
	logger.CommandExecution(cmd.Intent, cmd.Parameters)

	if tmpl.RequiresConfirmation && !opts.SkipConfirmation {
		if !e.confirm(ctx, cmd) {
			result := e.finish(start, &voxtypes.ExecutionResult{
				Success: false,
				Message: "cancelled by user",
			})
			e.record(cmd.RawText, cmd, result)
			return result
		}
	}

	if !opts.Silent {
		e.playSound(voxtypes.SoundProcessing)
	}

	result := e.invoke(cmd)
	result = e.finish(start, result)
	e.record(cmd.RawText, cmd, result)

	if !opts.Silent {
		if result.Success {
			e.playSound(voxtypes.SoundSuccess)
		} else {
			e.playSound(voxtypes.SoundError)
		}
		if opts.Announce && result.Message != "" {
			e.speak(ctx, result.Message)
		}
	}
	return result
}

// invoke calls the handler with panic recovery. A panic or returned error
// becomes a failed result; it never crosses the executor boundary.
func (e *Executor) invoke(cmd *voxtypes.ParsedCommand) (result *voxtypes.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Handler panic recovered", "intent", cmd.Intent, "panic", r)
			result = &voxtypes.ExecutionResult{
				Success: false,
				Message: fmt.Sprintf("command %s failed: %v", cmd.Intent, r),
				Err:     fmt.Errorf("handler panic: %v", r),
			}
		}
	}()

	if cmd.Matched.Handler == nil {
		return &voxtypes.ExecutionResult{
			Success: false,
			Message: "no command handler found",
		}
	}

	res, err := cmd.Matched.Handler(cmd.Parameters, e.ws.Snapshot())
	if err != nil {
		msg := err.Error()
		if res != nil && res.Message != "" {
			msg = res.Message
		}
		return &voxtypes.ExecutionResult{
			Success: false,
			Message: msg,
			Err:     err,
		}
	}
	if res == nil {
		return &voxtypes.ExecutionResult{Success: true}
	}
	return res
}

func (e *Executor) confirm(ctx context.Context, cmd *voxtypes.ParsedCommand) bool {
	if e.confirmer == nil {
		e.log.Warn("Confirmation required but no confirmer configured", "intent", cmd.Intent)
		return false
	}
	prompt := fmt.Sprintf("Are you sure you want to %s?", cmd.Matched.Description)
	ok, err := e.confirmer.Confirm(ctx, prompt)
	if err != nil {
		e.log.Error("Confirmation prompt failed", "intent", cmd.Intent, "error", err)
		return false
	}
	return ok
}

func (e *Executor) finish(start time.Time, result *voxtypes.ExecutionResult) *voxtypes.ExecutionResult {
	result.Duration = time.Since(start)
	result.Timestamp = time.Now()
	return result
}

func (e *Executor) record(utterance string, cmd *voxtypes.ParsedCommand, result *voxtypes.ExecutionResult) {
	if e.ws != nil {
		e.ws.AddConversationTurn(utterance, cmd, result)
	}
}

func (e *Executor) playSound(kind voxtypes.SoundKind) {
	if e.feedback != nil {
		e.feedback.PlaySound(kind)
	}
}

func (e *Executor) speak(ctx context.Context, text string) {
	if e.feedback != nil {
		_ = e.feedback.Speak(ctx, text, voxtypes.SpeechOptions{})
	}
}

// ExecuteSequence runs commands one at a time in input order and stops at
// the first failure. Results for commands after the failure are absent from
// the returned slice; their handlers are never invoked.
func (e *Executor) ExecuteSequence(ctx context.Context, cmds []*voxtypes.ParsedCommand, opts Options) []*voxtypes.ExecutionResult {
	results := make([]*voxtypes.ExecutionResult, 0, len(cmds))
	for _, cmd := range cmds {
		result := e.Execute(ctx, cmd, opts)
		results = append(results, result)
		if !result.Success {
			break
		}
	}
	return results
}

// ExecuteParallel fires all handlers concurrently and waits for every one to
// settle. The returned slice matches input order regardless of completion
// order; a failure does not cancel its siblings.
func (e *Executor) ExecuteParallel(ctx context.Context, cmds []*voxtypes.ParsedCommand, opts Options) []*voxtypes.ExecutionResult {
	results := make([]*voxtypes.ExecutionResult, len(cmds))
	var wg sync.WaitGroup
	for i, cmd := range cmds {
		wg.Add(1)
		go func(i int, cmd *voxtypes.ParsedCommand) {
			defer wg.Done()
			results[i] = e.Execute(ctx, cmd, opts)
		}(i, cmd)
	}
	wg.Wait()
	return results
}
