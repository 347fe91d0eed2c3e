package voxtypes

import "time"

// ConversationTurn records one utterance and its outcome in the session
// history ring buffer.
type ConversationTurn struct {
	Utterance string
	Command   *ParsedCommand
	Result    *ExecutionResult
	At        time.Time
}

// CursorPosition is the host editor's cursor location in the current file.
type CursorPosition struct {
	Line   int
	Column int
}

// ContextSnapshot is a read-only copy of the session workspace state handed
// to handlers and the AI fallback. Mutating a snapshot has no effect on the
// live context.
type ContextSnapshot struct {
	CurrentFile  string
	OpenFiles    []string
	SelectedText string
	GitBranch    string
	OnlineUsers  []string
	Cursor       CursorPosition

	// Entities is the pronoun-resolution map (last_entity, last_location,
	// last_value) as of the snapshot.
	Entities map[string]string
}

// EntityCount pairs an entity key with its occurrence count across the
// session history.
type EntityCount struct {
	Key   string
	Count int
}
