// Package voxtypes defines the shared types and interfaces used across the
// voxcmd command pipeline. It contains the command template model, parsed
// command and execution result structures, and the closed enums for
// categories, sound kinds, and execution statuses.
package voxtypes

import (
	"time"
)

// CommandCategory identifies the functional area a command template belongs to.
type CommandCategory string

// The closed set of command categories. Templates registered with any other
// value are rejected at load time.
const (
	CategoryFile            CommandCategory = "file"
	CategoryNavigation      CommandCategory = "navigation"
	CategoryGit             CommandCategory = "git"
	CategoryCollaboration   CommandCategory = "collaboration"
	CategoryEngineActor     CommandCategory = "engine-actor"
	CategoryEngineAsset     CommandCategory = "engine-asset"
	CategoryEngineLevel     CommandCategory = "engine-level"
	CategoryEngineLandscape CommandCategory = "engine-landscape"
	CategoryEnginePhysics   CommandCategory = "engine-physics"
	CategoryGeneral         CommandCategory = "general"
)

// AllCategories returns every valid command category in declaration order.
func AllCategories() []CommandCategory {
	return []CommandCategory{
		CategoryFile,
		CategoryNavigation,
		CategoryGit,
		CategoryCollaboration,
		CategoryEngineActor,
		CategoryEngineAsset,
		CategoryEngineLevel,
		CategoryEngineLandscape,
		CategoryEnginePhysics,
		CategoryGeneral,
	}
}

// String returns the category as its wire string.
func (c CommandCategory) String() string {
	return string(c)
}

// IsValid reports whether the category is a member of the closed set.
func (c CommandCategory) IsValid() bool {
	switch c {
	case CategoryFile, CategoryNavigation, CategoryGit, CategoryCollaboration,
		CategoryEngineActor, CategoryEngineAsset, CategoryEngineLevel,
		CategoryEngineLandscape, CategoryEnginePhysics, CategoryGeneral:
		return true
	}
	return false
}

// ExecutionStatus tracks the lifecycle of a command execution.
type ExecutionStatus string

// The closed set of execution statuses.
const (
	StatusPending   ExecutionStatus = "pending"
	StatusExecuting ExecutionStatus = "executing"
	StatusSuccess   ExecutionStatus = "success"
	StatusFailed    ExecutionStatus = "failed"
	StatusCancelled ExecutionStatus = "cancelled"
)

// String returns the status as its wire string.
func (s ExecutionStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is a member of the closed set.
func (s ExecutionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusExecuting, StatusSuccess, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Handler is the typed contract every command template handler implements.
// It receives the parameters extracted from the utterance and a read-only
// snapshot of the session context, and returns the execution outcome. A
// returned error is converted by the executor into a failed ExecutionResult;
// it never propagates past the executor boundary.
type Handler func(params map[string]string, snapshot ContextSnapshot) (*ExecutionResult, error)

// CommandTemplate is a registered command definition. Templates are immutable
// once registered; re-registering the same ID overwrites the previous entry
// and logs a warning.
type CommandTemplate struct {
	// ID uniquely identifies the template, e.g. "nav.goto_line".
	ID string `yaml:"id"`

	// Category places the template in the help and suggestion indexes.
	Category CommandCategory `yaml:"category"`

	// Patterns are the utterance shapes this template matches. Each may
	// contain zero or more {name} placeholders. Patterns are tried in
	// declaration order when extracting parameters.
	Patterns []string `yaml:"patterns"`

	// Description is the human-readable summary shown in help output.
	Description string `yaml:"description"`

	// Examples are sample utterances shown in help and searched by keyword.
	Examples []string `yaml:"examples"`

	// Handler performs the actual operation. Handlers are supplied by the
	// host application; the pipeline never touches the engine itself.
	Handler Handler `yaml:"-"`

	// RequiresConfirmation gates execution behind an explicit yes/no prompt.
	RequiresConfirmation bool `yaml:"requires_confirmation"`
}

// ParsedCommand is the structured intent produced by the matcher for one
// utterance. It is immutable after construction and is retained only in the
// session's conversation history.
type ParsedCommand struct {
	// Intent is the ID of the matched template.
	Intent string

	// Category is copied from the matched template.
	Category CommandCategory

	// Parameters holds the values extracted from the utterance, keyed by
	// placeholder name.
	Parameters map[string]string

	// Confidence is the 0..1 match score.
	Confidence float64

	// RawText is the normalized utterance the command was parsed from.
	RawText string

	// Matched is the template that produced this command. A nil Matched
	// signals an unparseable utterance that should be handed off to a
	// general-purpose AI fallback.
	Matched *CommandTemplate
}

// ExecutionResult is the outcome of one handler invocation. It is produced
// once per execution and never mutated after return.
type ExecutionResult struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Err       error          `json:"-"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
}

// ValidationResult reports whether a parsed command satisfies its template's
// parameter requirements. Errors are advisory; callers decide whether to
// prompt the user or abort.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// TranscriptEvent is one recognition event from the external speech engine.
// Interim events (IsFinal=false) are display-only and are never parsed or
// executed.
type TranscriptEvent struct {
	Transcript   string   `json:"transcript"`
	Confidence   float64  `json:"confidence"`
	IsFinal      bool     `json:"isFinal"`
	Alternatives []string `json:"alternatives,omitempty"`
}
