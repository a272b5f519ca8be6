package utils

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIOracleClient talks to any OpenAI-compatible chat endpoint. The default
// deployment points it at xAI (grok-3) through the base URL override.
type OpenAIOracleClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIOracleClient(apiKey, baseURL, model string) *OpenAIOracleClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "grok-3"
	}
	return &OpenAIOracleClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIOracleClient) ProposeAlternative(ctx context.Context, req OracleRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a travel optimization expert. Always respond with valid JSON only, no markdown or explanation outside the JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAlternativePrompt(req),
			},
		},
		Temperature: 0.7,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("oracle chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content generated by oracle")
	}

	return CleanJSONResponse(resp.Choices[0].Message.Content), nil
}
