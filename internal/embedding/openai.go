package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIModel is the OpenAI model used for generating embeddings
	DefaultOpenAIModel = openai.SmallEmbedding3
	// DefaultOpenAIDimensions is the dimension of text-embedding-3-small vectors
	DefaultOpenAIDimensions = 1536
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when the API returns an unexpected vector size
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// embeddingAPI is the subset of the OpenAI client the embedder depends on
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEmbedder generates embeddings via the OpenAI API. It is an optional
// drop-in replacement for HashEmbedder when an API key is configured and a
// learned embedding model is wanted.
type OpenAIEmbedder struct {
	api        embeddingAPI
	model      openai.EmbeddingModel
	dimensions int
}

// OpenAIConfig holds configuration for the OpenAI embedder.
type OpenAIConfig struct {
	APIKey     string
	Model      openai.EmbeddingModel
	Dimensions int
}

// NewOpenAIEmbedder creates an OpenAIEmbedder with defaults applied.
func NewOpenAIEmbedder(cfg OpenAIConfig) *OpenAIEmbedder {
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultOpenAIDimensions
	}
	return &OpenAIEmbedder{
		api:        openai.NewClient(cfg.APIKey),
		model:      model,
		dimensions: dimensions,
	}
}

// Dimensions returns the embedding vector dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Embed calls the OpenAI API to embed the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	// Dimensions asks the API for vectors truncated to the configured
	// width, so deployments can match the storage column instead of the
	// model's native size.
	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      e.model,
		Dimensions: e.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	vec := resp.Data[0].Embedding
	if len(vec) != e.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, e.dimensions, len(vec))
	}

	return vec, nil
}
