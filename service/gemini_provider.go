package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider is the primary citation provider.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider wraps a Gemini client. An empty model name falls back to
// the default.
func NewGeminiProvider(client *genai.Client, model string) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model}
}

// Name implements CitationProvider.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Generate implements CitationProvider.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", newProviderError(p.Name(), gerr.Code, gerr.Message)
		}
		// Network-class failures carry no status; treat as transient.
		return "", &ProviderError{Provider: p.Name(), Message: err.Error(), Transient: true}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ProviderError{Provider: p.Name(), Message: "no candidates returned"}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", &ProviderError{Provider: p.Name(), Message: "empty content"}
	}
	return result, nil
}
