package main

import (
	"fmt"
	"strings"

	"voxcmd/internal/catalog"
	"voxcmd/pkg/voxtypes"
)

// demoHandlers binds a printing handler to every builtin template so the
// CLI can exercise the full pipeline without an engine attached. The real
// host supplies handlers that bridge to the editor.
func demoHandlers() catalog.HandlerMap {
	handlers := make(catalog.HandlerMap)
	for _, t := range catalog.Templates() {
		id := t.ID
		desc := t.Description
		handlers[id] = func(params map[string]string, _ voxtypes.ContextSnapshot) (*voxtypes.ExecutionResult, error) {
			msg := desc
			if len(params) > 0 {
				parts := make([]string, 0, len(params))
				for k, v := range params {
					parts = append(parts, fmt.Sprintf("%s=%q", k, v))
				}
				msg = fmt.Sprintf("%s (%s)", desc, strings.Join(parts, ", "))
			}
			return &voxtypes.ExecutionResult{
				Success: true,
				Message: msg,
				Data:    map[string]any{"action": id},
			}, nil
		}
	}
	return handlers
}
