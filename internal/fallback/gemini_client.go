package fallback

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"voxcmd/internal/logger"
	"voxcmd/pkg/voxtypes"
)

// DefaultGeminiModel is used when no model override is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient implements voxtypes.FallbackClient over the Google Gemini API.
type GeminiClient struct {
	apiKey string
	model  string
	client *genai.Client
}

// NewGeminiClient creates a Gemini fallback client with lazy initialization.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{apiKey: apiKey, model: model}
}

// ProviderName returns "gemini".
func (c *GeminiClient) ProviderName() string {
	return "gemini"
}

// IsConfigured reports whether an API key is present.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("google API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	logger.Debug("Gemini fallback client initialized")
	return nil
}

// Suggest asks the model what the user likely wanted for an unparseable
// utterance, given the workspace state.
func (c *GeminiClient) Suggest(ctx context.Context, utterance string, snapshot voxtypes.ContextSnapshot) (string, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return "", fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: buildSuggestPrompt(utterance, snapshot)}}},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(suggestSystemPrompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var b strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				b.WriteString(part.Text)
			}
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response content")
	}
	return b.String(), nil
}
