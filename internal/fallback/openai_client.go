// Package fallback implements the AI hand-off for utterances the matcher
// cannot parse. The pipeline never calls these clients implicitly; the
// session uses one only when parsing returns no command and a provider is
// configured. Clients initialize lazily on first use.
package fallback

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"voxcmd/internal/logger"
	"voxcmd/pkg/voxtypes"
)

// DefaultOpenAIModel is used when no model override is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient implements voxtypes.FallbackClient over the OpenAI API.
type OpenAIClient struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIClient creates an OpenAI fallback client. The underlying SDK
// client is created on the first request.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{apiKey: apiKey, model: model}
}

// ProviderName returns "openai".
func (c *OpenAIClient) ProviderName() string {
	return "openai"
}

// IsConfigured reports whether an API key is present.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *OpenAIClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("openai API key not configured")
	}
	client := openai.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client
	logger.Debug("OpenAI fallback client initialized")
	return nil
}

// Suggest asks the model what the user likely wanted for an unparseable
// utterance, given the workspace state.
func (c *OpenAIClient) Suggest(ctx context.Context, utterance string, snapshot voxtypes.ContextSnapshot) (string, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return "", fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(suggestSystemPrompt),
			openai.UserMessage(buildSuggestPrompt(utterance, snapshot)),
		},
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}
