package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOracleClient implements ItineraryOracleInterface on Google's Gemini
// models, forcing JSON output via the response MIME type.
type GeminiOracleClient struct {
	client *genai.Client
	model  string
}

func NewGeminiOracleClient(apiKey, model string) (*GeminiOracleClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiOracleClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiOracleClient) ProposeAlternative(ctx context.Context, req OracleRequest) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.7)
	m.SetTopP(0.8)
	m.SetTopK(20)
	m.SetMaxOutputTokens(4096)

	resp, err := m.GenerateContent(ctx, genai.Text(buildAlternativePrompt(req)))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated by oracle")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	content = CleanJSONResponse(content)
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("oracle returned invalid json")
	}
	return content, nil
}

func (c *GeminiOracleClient) Close() error {
	return c.client.Close()
}
