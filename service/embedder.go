package service

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const embeddingModel = openai.SmallEmbedding3

// Embedder wraps the OpenAI embeddings API for both query-time and
// ingest-time vectorization. Both sides must use the same model or the
// cosine distances are meaningless.
type Embedder struct {
	client *openai.Client
}

// NewEmbedder creates an embedder backed by the given OpenAI client.
func NewEmbedder(client *openai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed vectorizes a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch vectorizes a batch of texts in one API call, preserving order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: embeddingModel,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors, want %d", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding response index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	return vectors, nil
}
