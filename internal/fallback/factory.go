package fallback

import (
	"fmt"
	"strings"
	"sync"

	"voxcmd/internal/logger"
	"voxcmd/pkg/voxtypes"
)

// suggestSystemPrompt frames the hand-off request for every provider.
const suggestSystemPrompt = "You assist users of a voice-controlled 3D editor. " +
	"The command matcher could not parse the user's utterance. Suggest, in one " +
	"short sentence, what they likely wanted and the phrasing that would work, " +
	"or answer the question directly if it is not a command."

// buildSuggestPrompt assembles the user message from the utterance and the
// parts of the workspace state useful for disambiguation.
func buildSuggestPrompt(utterance string, snapshot voxtypes.ContextSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Utterance: %q\n", utterance)
	if snapshot.CurrentFile != "" {
		fmt.Fprintf(&b, "Current file: %s\n", snapshot.CurrentFile)
	}
	if snapshot.GitBranch != "" {
		fmt.Fprintf(&b, "Git branch: %s\n", snapshot.GitBranch)
	}
	if snapshot.SelectedText != "" {
		fmt.Fprintf(&b, "Selection: %s\n", snapshot.SelectedText)
	}
	if last, ok := snapshot.Entities["last_entity"]; ok {
		fmt.Fprintf(&b, "Last referenced entity: %s\n", last)
	}
	return b.String()
}

// Factory creates and caches fallback clients per provider and API key.
type Factory struct {
	mu      sync.RWMutex
	clients map[string]voxtypes.FallbackClient
}

// NewFactory creates an empty client factory.
func NewFactory() *Factory {
	return &Factory{clients: make(map[string]voxtypes.FallbackClient)}
}

// ClientFor returns a fallback client for the provider, creating and caching
// one if needed. Supported providers: openai, anthropic, gemini.
func (f *Factory) ClientFor(provider, apiKey, model string) (voxtypes.FallbackClient, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key cannot be empty for provider %q", provider)
	}

	cacheKey := fmt.Sprintf("%s:%s:%s", provider, apiKey, model)

	f.mu.RLock()
	if client, ok := f.clients[cacheKey]; ok {
		f.mu.RUnlock()
		return client, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if client, ok := f.clients[cacheKey]; ok {
		return client, nil
	}

	var client voxtypes.FallbackClient
	switch strings.ToLower(provider) {
	case "openai":
		client = NewOpenAIClient(apiKey, model)
	case "anthropic":
		client = NewAnthropicClient(apiKey, model)
	case "gemini", "google":
		client = NewGeminiClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported fallback provider %q", provider)
	}

	f.clients[cacheKey] = client
	logger.Debug("Fallback client created", "provider", provider)
	return client, nil
}
