package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider backs the AI log-analysis pass with Google Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a provider for the given model, defaulting to
// the fast tier, which is plenty for log triage.
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Complete sends a single-turn prompt and returns the model's answer.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem prepends a system instruction to the prompt. Output
// is bounded the same way as the other providers so analysis comments stay
// a readable size.
func (p *GeminiProvider) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: genai.Ptr(int32(maxCompletionTokens)),
		Temperature:     genai.Ptr(float32(analysisTemperature)),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

// Close releases resources
func (p *GeminiProvider) Close() error {
	return nil
}
