package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = "gpt-4o-mini"

// UnavailableMessage is returned instead of an interpretation when no API
// key is configured.
const UnavailableMessage = "AI analysis unavailable: please set OPENAI_API_KEY"

// Client sends prompts to an OpenAI-compatible chat completion endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// ClientConfig selects the credentials, model and endpoint.
type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewClient returns nil when cfg has no API key.
func NewClient(cfg ClientConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(oc), model: model}
}

// Interpret sends prompt as a single user message and returns the reply.
// A nil client yields UnavailableMessage without any network call.
func (c *Client) Interpret(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return UnavailableMessage, nil
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("requesting completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
