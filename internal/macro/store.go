// Package macro records named sequences of raw command strings and replays
// them through the chainer. Macros persist to a JSON document with an
// explicit schema version so the format can evolve safely.
package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"voxcmd/internal/logger"
	"voxcmd/pkg/voxtypes"
)

// SchemaVersion is the version written to new macro store files. Loads
// accept any file with the same major version; a newer major is rejected
// rather than silently misread.
const SchemaVersion = "1.0.0"

// storeDocument is the on-disk shape of the macro store.
type storeDocument struct {
	SchemaVersion string            `json:"schemaVersion"`
	Macros        []*voxtypes.Macro `json:"macros"`
}

// Store holds macros in memory, keyed by lowercase name, with explicit
// Save/Load persistence. Persistence is never automatic.
type Store struct {
	mu     sync.RWMutex
	path   string
	macros map[string]*voxtypes.Macro
}

// NewStore creates a macro store persisting at the given file path.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		macros: make(map[string]*voxtypes.Macro),
	}
}

// Put inserts or overwrites a macro under its lowercase name.
func (s *Store) Put(m *voxtypes.Macro) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.macros[strings.ToLower(m.Name)] = m
}

// Get looks a macro up case-insensitively.
func (s *Store) Get(name string) (*voxtypes.Macro, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.macros[strings.ToLower(name)]
	return m, ok
}

// Delete removes a macro by name. It reports whether a macro was removed.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(name)
	if _, ok := s.macros[key]; !ok {
		return false
	}
	delete(s.macros, key)
	return true
}

// All returns every stored macro, sorted by name.
func (s *Store) All() []*voxtypes.Macro {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*voxtypes.Macro, 0, len(s.macros))
	for _, m := range s.macros {
		out = append(out, m)
	}
	sortMacros(out)
	return out
}

func sortMacros(ms []*voxtypes.Macro) {
	sort.Slice(ms, func(i, j int) bool {
		return strings.ToLower(ms[i].Name) < strings.ToLower(ms[j].Name)
	})
}

// Save writes the store to disk as a versioned JSON document.
func (s *Store) Save() error {
	s.mu.RLock()
	doc := storeDocument{
		SchemaVersion: SchemaVersion,
		Macros:        make([]*voxtypes.Macro, 0, len(s.macros)),
	}
	for _, m := range s.macros {
		doc.Macros = append(doc.Macros, m)
	}
	s.mu.RUnlock()
	sortMacros(doc.Macros)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode macro store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create macro store directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write macro store: %w", err)
	}
	return nil
}

// Load reads the store from disk, replacing the in-memory contents. A
// missing file is not an error. Files written before the schema version was
// introduced (a bare JSON array) are read as version 0 and upgraded on the
// next Save.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read macro store: %w", err)
	}

	var macros []*voxtypes.Macro
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		// Legacy unversioned format.
		if err := json.Unmarshal(data, &macros); err != nil {
			return fmt.Errorf("failed to decode legacy macro store: %w", err)
		}
		logger.Warn("Loaded legacy macro store without schema version", "path", s.path)
	} else {
		var doc storeDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to decode macro store: %w", err)
		}
		if err := checkSchemaVersion(doc.SchemaVersion); err != nil {
			return err
		}
		macros = doc.Macros
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.macros = make(map[string]*voxtypes.Macro, len(macros))
	for _, m := range macros {
		if m != nil && m.Name != "" {
			s.macros[strings.ToLower(m.Name)] = m
		}
	}
	return nil
}

func checkSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("macro store is missing its schema version")
	}
	stored, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("macro store has invalid schema version %q: %w", version, err)
	}
	current := semver.MustParse(SchemaVersion)
	if stored.Major() > current.Major() {
		return fmt.Errorf("macro store schema version %s is newer than supported %s", version, SchemaVersion)
	}
	return nil
}
