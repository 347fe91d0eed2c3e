// Package catalog defines the builtin command template corpus and loads
// additional templates from YAML files. Handlers are bound at startup from a
// HandlerMap supplied by the host application; the templates themselves
// never touch the engine.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"voxcmd/internal/logger"
	"voxcmd/internal/registry"
	"voxcmd/pkg/voxtypes"
)

// HandlerMap binds template IDs to host-supplied handlers.
type HandlerMap map[string]voxtypes.Handler

// Register installs the builtin corpus into a registry, binding handlers
// from the map. Templates without a bound handler get a stub that fails with
// a "no handler bound" message, so the pipeline stays exercisable before the
// host wires the engine bridge.
func Register(reg *registry.Registry, handlers HandlerMap) error {
	for _, t := range Templates() {
		bind(t, handlers)
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("failed to register builtin %s: %w", t.ID, err)
		}
	}
	return nil
}

// LoadFile reads extra templates from a YAML file and registers them,
// binding handlers the same way as the builtins.
func LoadFile(reg *registry.Registry, path string, handlers HandlerMap) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	var templates []*voxtypes.CommandTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return fmt.Errorf("failed to parse template file %s: %w", path, err)
	}

	for _, t := range templates {
		if t == nil {
			continue
		}
		bind(t, handlers)
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("template file %s: %w", path, err)
		}
	}
	logger.Info("Loaded templates from file", "path", path, "count", len(templates))
	return nil
}

func bind(t *voxtypes.CommandTemplate, handlers HandlerMap) {
	if h, ok := handlers[t.ID]; ok {
		t.Handler = h
		return
	}
	id := t.ID
	t.Handler = func(_ map[string]string, _ voxtypes.ContextSnapshot) (*voxtypes.ExecutionResult, error) {
		return &voxtypes.ExecutionResult{
			Success: false,
			Message: fmt.Sprintf("no handler bound for %s", id),
		}, nil
	}
}
