// Package workspace maintains per-session editor state for the voxcmd
// pipeline: the current file, selection, git branch, online users, a bounded
// ring buffer of conversation turns, and the entity map used for pronoun
// resolution.
package workspace

import (
	"sort"
	"strings"
	"sync"
	"time"

	"voxcmd/pkg/voxtypes"
)

// DefaultHistoryCapacity bounds the conversation ring buffer.
const DefaultHistoryCapacity = 50

// Entity map keys maintained from each conversation turn.
const (
	EntityLast     = "last_entity"
	EntityLocation = "last_location"
	EntityValue    = "last_value"
)

// referenceWords are the literal tokens ResolveReferences rewrites from the
// entity map. Unknown references are left untouched, never fabricated.
var referenceWords = []string{"the same", "this", "that", "it", "there"}

// Context is the mutable session workspace state. One instance exists per
// session; instances never cross session boundaries, so methods take a mutex
// only to guard against host callbacks racing the pipeline.
type Context struct {
	mu sync.RWMutex

	currentFile  string
	openFiles    []string
	selectedText string
	gitBranch    string
	onlineUsers  []string
	cursor       voxtypes.CursorPosition

	history  []voxtypes.ConversationTurn
	capacity int

	entities   map[string]string
	entitySeen map[string]int // occurrence counts across history
	seenOrder  []string       // first-seen order, for tie-breaking
}

// New creates a workspace context with the default history capacity.
func New() *Context {
	return NewWithCapacity(DefaultHistoryCapacity)
}

// NewWithCapacity creates a workspace context with a custom ring buffer
// capacity. Capacities below one fall back to the default.
func NewWithCapacity(capacity int) *Context {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &Context{
		capacity:   capacity,
		entities:   make(map[string]string),
		entitySeen: make(map[string]int),
	}
}

// SetCurrentFile records the file the editor has focused.
func (c *Context) SetCurrentFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentFile = path
}

// CurrentFile returns the focused file path, empty if none.
func (c *Context) CurrentFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentFile
}

// SetOpenFiles replaces the open file list.
func (c *Context) SetOpenFiles(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openFiles = append([]string(nil), paths...)
}

// SetSelectedText records the editor selection. An empty string clears it.
func (c *Context) SetSelectedText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedText = text
}

// SelectedText returns the current selection, empty string if unset.
func (c *Context) SelectedText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedText
}

// SetGitBranch records the active git branch.
func (c *Context) SetGitBranch(branch string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gitBranch = branch
}

// GitBranch returns the active git branch.
func (c *Context) GitBranch() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gitBranch
}

// SetOnlineUsers replaces the online user list.
func (c *Context) SetOnlineUsers(users []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onlineUsers = append([]string(nil), users...)
}

// AddOnlineUser appends a user if not already present.
func (c *Context) AddOnlineUser(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.onlineUsers {
		if u == user {
			return
		}
	}
	c.onlineUsers = append(c.onlineUsers, user)
}

// RemoveOnlineUser drops a user from the online list.
func (c *Context) RemoveOnlineUser(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, u := range c.onlineUsers {
		if u == user {
			c.onlineUsers = append(c.onlineUsers[:i], c.onlineUsers[i+1:]...)
			return
		}
	}
}

// SetCursor records the editor cursor position.
func (c *Context) SetCursor(pos voxtypes.CursorPosition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = pos
}

// AddConversationTurn appends one (utterance, command, result) turn to the
// ring buffer, silently dropping the oldest entry past capacity, and updates
// the entity map used for pronoun resolution.
func (c *Context) AddConversationTurn(utterance string, cmd *voxtypes.ParsedCommand, result *voxtypes.ExecutionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, voxtypes.ConversationTurn{
		Utterance: utterance,
		Command:   cmd,
		Result:    result,
		At:        time.Now(),
	})
	if len(c.history) > c.capacity {
		c.history = c.history[len(c.history)-c.capacity:]
	}

	if cmd != nil {
		c.updateEntities(cmd.Parameters)
	}
}

// updateEntities routes extracted parameters into the pronoun-resolution map
// by parameter-name heuristics. Caller holds the lock.
func (c *Context) updateEntities(params map[string]string) {
	for name, value := range params {
		if value == "" {
			continue
		}
		key := entityKeyForParam(name)
		if key == "" {
			continue
		}
		c.entities[key] = value
		if c.entitySeen[key] == 0 {
			c.seenOrder = append(c.seenOrder, key)
		}
		c.entitySeen[key]++
	}
}

func entityKeyForParam(name string) string {
	switch strings.ToLower(name) {
	case "filename", "file", "actor", "asset", "branch", "name", "user", "text", "code":
		return EntityLast
	case "location", "position", "line", "path", "destination":
		return EntityLocation
	case "value", "amount", "count", "scale", "intensity", "speed":
		return EntityValue
	}
	return ""
}

// History returns the last n conversation turns, oldest first. A non-positive
// n returns the whole buffer.
func (c *Context) History(n int) []voxtypes.ConversationTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || n > len(c.history) {
		n = len(c.history)
	}
	out := make([]voxtypes.ConversationTurn, n)
	copy(out, c.history[len(c.history)-n:])
	return out
}

// Entity returns the current value for an entity key.
func (c *Context) Entity(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entities[key]
	return v, ok
}

// SetEntity records an entity value directly, for host callbacks.
func (c *Context) SetEntity(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities[key] = value
	if c.entitySeen[key] == 0 {
		c.seenOrder = append(c.seenOrder, key)
	}
	c.entitySeen[key]++
}

// ResolveReferences rewrites literal reference words ("this", "that", "it",
// "there", "the same") to the last known entity value when one exists.
// Unknown references are left untouched.
func (c *Context) ResolveReferences(text string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lower := strings.ToLower(text)
	for _, word := range referenceWords {
		value := c.entities[EntityLast]
		if word == "there" {
			value = c.entities[EntityLocation]
		}
		if value == "" {
			continue
		}
		for {
			idx := indexWord(lower, word)
			if idx < 0 {
				break
			}
			text = text[:idx] + value + text[idx+len(word):]
			lower = strings.ToLower(text)
		}
	}
	return text
}

// indexWord finds word in text at a word boundary, -1 if absent.
func indexWord(text, word string) int {
	from := 0
	for {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			return -1
		}
		idx += from
		beforeOK := idx == 0 || text[idx-1] == ' '
		after := idx + len(word)
		afterOK := after == len(text) || text[after] == ' ' || text[after] == ',' || text[after] == '.'
		if beforeOK && afterOK {
			return idx
		}
		from = idx + 1
	}
}

// FrequentEntities ranks entity keys by occurrence count across the session
// history, descending, ties broken by first-seen order.
func (c *Context) FrequentEntities(limit int) []voxtypes.EntityCount {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]voxtypes.EntityCount, 0, len(c.seenOrder))
	for _, key := range c.seenOrder {
		out = append(out, voxtypes.EntityCount{Key: key, Count: c.entitySeen[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Snapshot returns a read-only copy of the workspace state for handlers and
// the AI fallback.
func (c *Context) Snapshot() voxtypes.ContextSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entities := make(map[string]string, len(c.entities))
	for k, v := range c.entities {
		entities[k] = v
	}
	return voxtypes.ContextSnapshot{
		CurrentFile:  c.currentFile,
		OpenFiles:    append([]string(nil), c.openFiles...),
		SelectedText: c.selectedText,
		GitBranch:    c.gitBranch,
		OnlineUsers:  append([]string(nil), c.onlineUsers...),
		Cursor:       c.cursor,
		Entities:     entities,
	}
}

// Reset clears all session state. Called on logout or reconnect.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentFile = ""
	c.openFiles = nil
	c.selectedText = ""
	c.gitBranch = ""
	c.onlineUsers = nil
	c.cursor = voxtypes.CursorPosition{}
	c.history = nil
	c.entities = make(map[string]string)
	c.entitySeen = make(map[string]int)
	c.seenOrder = nil
}
