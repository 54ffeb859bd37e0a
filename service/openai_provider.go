package service

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIProvider is the secondary citation provider, tried when the primary
// has exhausted its retries.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider wraps an OpenAI client. An empty model name falls back
// to gpt-4o-mini.
func NewOpenAIProvider(client *openai.Client, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{client: client, model: model}
}

// Name implements CitationProvider.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Generate implements CitationProvider.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", newProviderError(p.Name(), apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", &ProviderError{Provider: p.Name(), Message: err.Error(), Transient: true}
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: p.Name(), Message: "no choices returned"}
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", &ProviderError{Provider: p.Name(), Message: "empty content"}
	}
	return result, nil
}
