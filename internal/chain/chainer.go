// Package chain detects and executes multi-clause utterances. A chained
// utterance like "spawn a cube and play the game" is split on connective
// separators and driven fragment by fragment through the matcher and
// executor with abort-on-failure semantics.
package chain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"voxcmd/internal/executor"
	"voxcmd/internal/logger"
	"voxcmd/internal/parser"
	"voxcmd/internal/workspace"
	"voxcmd/pkg/voxtypes"
)

// separators are the connective phrases that mark a chained utterance, in
// split order. Detection is a plain substring test surrounded by spaces, not
// word-boundary tokenization: an utterance like "open the sandbox and play"
// splits correctly, but a separator appearing inside free-form captured text
// will also split. Existing command phrasing relies on this behavior, so it
// is kept as-is.
var separators = []string{" and ", " then ", " after that ", " next "}

// DefaultPause is the settling delay between fragment executions, giving the
// external engine time to apply side effects.
const DefaultPause = 500 * time.Millisecond

// FragmentResult records the outcome of one chain fragment.
type FragmentResult struct {
	Fragment string
	Command  *voxtypes.ParsedCommand
	Result   *voxtypes.ExecutionResult
}

// Result summarizes a chain execution.
type Result struct {
	Fragments []string
	Outcomes  []FragmentResult
	Completed int  // fragments that executed successfully
	Aborted   bool // true if a failure stopped the remaining chain
}

// Chainer splits chained utterances and drives them through the pipeline.
type Chainer struct {
	matcher  *parser.Matcher
	executor *executor.Executor
	ws       *workspace.Context
	feedback executor.FeedbackSink
	pause    time.Duration
	log      *log.Logger
}

// Option customizes a Chainer.
type Option func(*Chainer)

// WithPause overrides the inter-fragment settling delay. Zero disables it.
func WithPause(d time.Duration) Option {
	return func(c *Chainer) {
		c.pause = d
	}
}

// New creates a Chainer over a session's matcher, executor, and workspace.
func New(m *parser.Matcher, ex *executor.Executor, ws *workspace.Context, feedback executor.FeedbackSink, opts ...Option) *Chainer {
	c := &Chainer{
		matcher:  m,
		executor: ex,
		ws:       ws,
		feedback: feedback,
		pause:    DefaultPause,
		log:      logger.NewStyledLogger("Chainer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsChainedCommand reports whether the text contains a chain separator.
func IsChainedCommand(text string) bool {
	lower := strings.ToLower(text)
	for _, sep := range separators {
		if strings.Contains(lower, sep) {
			return true
		}
	}
	return false
}

// SplitChain splits a chained utterance into its fragments, preserving
// left-to-right order. Each separator is applied in turn to every fragment
// produced by the previous pass; empty fragments are dropped.
func SplitChain(text string) []string {
	fragments := []string{text}
	for _, sep := range separators {
		var next []string
		for _, frag := range fragments {
			next = append(next, splitInsensitive(frag, sep)...)
		}
		fragments = next
	}

	out := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		if trimmed := strings.TrimSpace(frag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// splitInsensitive splits text on every case-insensitive occurrence of sep.
func splitInsensitive(text, sep string) []string {
	var parts []string
	lower := strings.ToLower(text)
	for {
		idx := strings.Index(lower, sep)
		if idx < 0 {
			parts = append(parts, text)
			return parts
		}
		parts = append(parts, text[:idx])
		text = text[idx+len(sep):]
		lower = lower[idx+len(sep):]
	}
}

// ExecuteChain splits the utterance and executes each fragment in order.
// The first fragment that fails to parse or fails to execute aborts the
// remaining chain; results already produced are retained in the returned
// summary. One spoken progress update is emitted per fragment, plus a final
// tally. A settling pause separates fragment executions.
func (c *Chainer) ExecuteChain(ctx context.Context, text string, opts executor.Options) *Result {
	fragments := SplitChain(text)
	result := &Result{Fragments: fragments}

	c.log.Debug("Executing chain", "fragments", len(fragments), "utterance", text)

	for i, frag := range fragments {
		if i > 0 && c.pause > 0 {
			if !sleepCtx(ctx, c.pause) {
				result.Aborted = true
				break
			}
		}

		cmd := c.matcher.Parse(frag, c.ws)
		if cmd == nil {
			failure := &voxtypes.ExecutionResult{
				Success:   false,
				Message:   fmt.Sprintf("could not understand %q", frag),
				Timestamp: time.Now(),
			}
			c.ws.AddConversationTurn(frag, nil, failure)
			result.Outcomes = append(result.Outcomes, FragmentResult{Fragment: frag, Result: failure})
			result.Aborted = true
			c.speak(ctx, opts, fmt.Sprintf("Stopping: I could not understand step %d.", i+1))
			break
		}

		execResult := c.executor.Execute(ctx, cmd, opts)
		result.Outcomes = append(result.Outcomes, FragmentResult{Fragment: frag, Command: cmd, Result: execResult})

		if !execResult.Success {
			result.Aborted = true
			c.speak(ctx, opts, fmt.Sprintf("Step %d of %d failed: %s", i+1, len(fragments), execResult.Message))
			break
		}

		result.Completed++
		c.speak(ctx, opts, fmt.Sprintf("Step %d of %d done.", i+1, len(fragments)))
	}

	c.speak(ctx, opts, c.tally(result))
	return result
}

func (c *Chainer) tally(r *Result) string {
	if r.Aborted {
		return fmt.Sprintf("Completed %d of %d commands before stopping.", r.Completed, len(r.Fragments))
	}
	return fmt.Sprintf("Completed all %d commands.", len(r.Fragments))
}

func (c *Chainer) speak(ctx context.Context, opts executor.Options, text string) {
	if opts.Silent || c.feedback == nil {
		return
	}
	_ = c.feedback.Speak(ctx, text, voxtypes.SpeechOptions{})
}

// sleepCtx pauses for d, returning false if the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
