// Package session wires one user's command pipeline together: registry,
// workspace context, matcher, chainer, executor, feedback, macros, and the
// optional AI fallback. Every dependency is injected and owned per session,
// so concurrent sessions never share mutable state; only the registry,
// read-only after startup, is shared.
package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"voxcmd/internal/chain"
	"voxcmd/internal/config"
	"voxcmd/internal/executor"
	"voxcmd/internal/feedback"
	"voxcmd/internal/logger"
	"voxcmd/internal/macro"
	"voxcmd/internal/parser"
	"voxcmd/internal/registry"
	"voxcmd/internal/workspace"
	"voxcmd/pkg/voxtypes"
)

// Options configures a new session. Registry is required; everything else
// has a working default.
type Options struct {
	Config      *config.Config
	Registry    *registry.Registry
	Synthesizer voxtypes.Synthesizer
	Toner       voxtypes.Toner
	Confirmer   voxtypes.Confirmer
	Fallback    voxtypes.FallbackClient
}

// Session is the public API surface of the pipeline for one user.
type Session struct {
	ID string

	registry   *registry.Registry
	ws         *workspace.Context
	matcher    *parser.Matcher
	executor   *executor.Executor
	chainer    *chain.Chainer
	feedback   *feedback.Emitter
	recorder   *macro.Recorder
	macroStore *macro.Store
	fallback   voxtypes.FallbackClient
	log        *log.Logger
}

// New creates a fully wired session.
func New(opts Options) (*Session, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("session requires a command registry")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{
			ConfidenceThreshold: config.DefaultConfidenceThreshold,
			HistoryCapacity:     config.DefaultHistoryCapacity,
			ChainPause:          config.DefaultChainPause,
			MacroStorePath:      config.DefaultMacroFileName,
		}
	}

	ws := workspace.NewWithCapacity(cfg.HistoryCapacity)
	emitter := feedback.New(opts.Synthesizer, opts.Toner)
	emitter.SetMuted(cfg.Mute)
	matcher := parser.New(opts.Registry, parser.WithThreshold(cfg.ConfidenceThreshold))
	exec := executor.New(ws, emitter, opts.Confirmer)
	chainer := chain.New(matcher, exec, ws, emitter, chain.WithPause(cfg.ChainPause))
	store := macro.NewStore(cfg.MacroStorePath)
	if err := store.Load(); err != nil {
		logger.Warn("Failed to load macro store", "error", err)
	}

	return &Session{
		ID:         uuid.New().String(),
		registry:   opts.Registry,
		ws:         ws,
		matcher:    matcher,
		executor:   exec,
		chainer:    chainer,
		feedback:   emitter,
		recorder:   macro.NewRecorder(store, chainer),
		macroStore: store,
		fallback:   opts.Fallback,
		log:        logger.NewStyledLogger("Session"),
	}, nil
}

// Workspace exposes the session's context store for host callbacks.
func (s *Session) Workspace() *workspace.Context {
	return s.ws
}

// Feedback exposes the session's feedback emitter.
func (s *Session) Feedback() *feedback.Emitter {
	return s.feedback
}

// Macros exposes the session's macro store for listing and persistence.
func (s *Session) Macros() *macro.Store {
	return s.macroStore
}

// Parse converts one utterance into a parsed command, nil when no template
// matches with enough confidence.
func (s *Session) Parse(text string) *voxtypes.ParsedCommand {
	return s.matcher.Parse(text, s.ws)
}

// Validate checks a parsed command's parameters against its template.
func (s *Session) Validate(cmd *voxtypes.ParsedCommand) voxtypes.ValidationResult {
	return s.matcher.Validate(cmd)
}

// Execute parses and runs a single utterance. Chained utterances are routed
// through the chainer; their summary is folded into one result.
func (s *Session) Execute(ctx context.Context, text string, opts executor.Options) *voxtypes.ExecutionResult {
	if chain.IsChainedCommand(text) {
		chainResult := s.chainer.ExecuteChain(ctx, text, opts)
		result := summarizeChain(chainResult)
		s.recordIfSuccessful(text, result)
		return result
	}

	cmd := s.Parse(text)
	result := s.executor.Execute(ctx, cmd, opts)
	s.recordIfSuccessful(text, result)
	return result
}

// ExecuteChain splits and runs a multi-clause utterance, returning the full
// per-fragment summary.
func (s *Session) ExecuteChain(ctx context.Context, text string, opts executor.Options) *chain.Result {
	return s.chainer.ExecuteChain(ctx, text, opts)
}

// recordIfSuccessful feeds successful utterances into an active macro
// recording. Failures are never recorded.
func (s *Session) recordIfSuccessful(text string, result *voxtypes.ExecutionResult) {
	if result != nil && result.Success {
		s.recorder.RecordCommand(text)
	}
}

func summarizeChain(r *chain.Result) *voxtypes.ExecutionResult {
	msg := fmt.Sprintf("completed %d of %d commands", r.Completed, len(r.Fragments))
	var last *voxtypes.ExecutionResult
	if n := len(r.Outcomes); n > 0 {
		last = r.Outcomes[n-1].Result
	}
	result := &voxtypes.ExecutionResult{
		Success: !r.Aborted,
		Message: msg,
		Data:    map[string]any{"fragments": len(r.Fragments), "completed": r.Completed},
	}
	if last != nil {
		result.Timestamp = last.Timestamp
		if !last.Success {
			result.Err = last.Err
			result.Message = fmt.Sprintf("%s; stopped at: %s", msg, last.Message)
		}
	}
	return result
}

// HandleTranscript processes one speech-recognition event. Interim events
// are ignored; final events are parsed, preferring the best-scoring
// hypothesis among the transcript and its alternatives, and executed. When
// nothing parses and an AI fallback is configured, its suggestion is spoken
// and returned in the result message.
func (s *Session) HandleTranscript(ctx context.Context, ev voxtypes.TranscriptEvent, opts executor.Options) *voxtypes.ExecutionResult {
	if !ev.IsFinal {
		return nil
	}

	if chain.IsChainedCommand(ev.Transcript) {
		return s.Execute(ctx, ev.Transcript, opts)
	}

	hypotheses := append([]string{ev.Transcript}, ev.Alternatives...)
	cmd := s.matcher.ParseAlternatives(hypotheses, s.ws)
	if cmd == nil {
		return s.handOff(ctx, ev.Transcript, opts)
	}

	result := s.executor.Execute(ctx, cmd, opts)
	s.recordIfSuccessful(ev.Transcript, result)
	return result
}

// handOff routes an unparseable utterance to the AI fallback, when one is
// configured. Without a fallback the result is a plain "did not understand"
// failure; either way the utterance lands in the conversation history.
func (s *Session) handOff(ctx context.Context, utterance string, opts executor.Options) *voxtypes.ExecutionResult {
	result := &voxtypes.ExecutionResult{
		Success: false,
		Message: fmt.Sprintf("could not understand %q", utterance),
	}

	if s.fallback != nil && s.fallback.IsConfigured() {
		suggestion, err := s.fallback.Suggest(ctx, utterance, s.ws.Snapshot())
		if err != nil {
			s.log.Error("Fallback suggestion failed", "provider", s.fallback.ProviderName(), "error", err)
		} else {
			result.Message = suggestion
			result.Data = map[string]any{"action": "fallback", "provider": s.fallback.ProviderName()}
			if !opts.Silent {
				_ = s.feedback.Speak(ctx, suggestion, voxtypes.SpeechOptions{})
			}
		}
	}

	s.ws.AddConversationTurn(utterance, nil, result)
	return result
}

// StartRecording begins capturing utterances under a macro name.
func (s *Session) StartRecording(name string) error {
	return s.recorder.StartRecording(name)
}

// StopRecording saves the current recording and returns the macro.
func (s *Session) StopRecording() (*voxtypes.Macro, error) {
	return s.recorder.StopRecording()
}

// CancelRecording discards the current recording.
func (s *Session) CancelRecording() {
	s.recorder.CancelRecording()
}

// PlayMacro replays a saved macro through the chainer.
func (s *Session) PlayMacro(ctx context.Context, name string, opts executor.Options) (*chain.Result, error) {
	return s.recorder.PlayMacro(ctx, name, opts)
}

// Suggestions returns completions for a partial utterance.
func (s *Session) Suggestions(partial string, limit int) []string {
	return s.registry.Suggestions(partial, limit)
}

// SearchCommands finds templates by keyword across descriptions, patterns,
// and examples.
func (s *Session) SearchCommands(keyword string) []*voxtypes.CommandTemplate {
	return s.registry.Search(keyword)
}

// CommandsHelp renders the full command catalog grouped by category.
func (s *Session) CommandsHelp() string {
	var b strings.Builder
	for _, cat := range voxtypes.AllCategories() {
		templates := s.registry.GetByCategory(cat)
		if len(templates) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", cat)
		sort.SliceStable(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
		for _, t := range templates {
			fmt.Fprintf(&b, "  %-24s %s\n", t.ID, t.Description)
			for _, ex := range t.Examples {
				fmt.Fprintf(&b, "%28s e.g. %q\n", "", ex)
			}
		}
	}
	return b.String()
}

// Workspace-change notifications, pushed by the host application.

// FileOpened records a file switch and adds it to the open file list.
func (s *Session) FileOpened(path string) {
	s.ws.SetCurrentFile(path)
}

// BranchSwitched records a git branch change.
func (s *Session) BranchSwitched(branch string) {
	s.ws.SetGitBranch(branch)
}

// SelectionChanged records the new editor selection.
func (s *Session) SelectionChanged(text string) {
	s.ws.SetSelectedText(text)
}

// UserJoined records a collaborator coming online.
func (s *Session) UserJoined(user string) {
	s.ws.AddOnlineUser(user)
}

// UserLeft records a collaborator going offline.
func (s *Session) UserLeft(user string) {
	s.ws.RemoveOnlineUser(user)
}

// Close cancels in-flight speech and resets session state. Macros are not
// saved implicitly; call Macros().Save() first to persist them.
func (s *Session) Close() {
	s.feedback.Cancel()
	s.ws.Reset()
}
