package embedding

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbeddingAPI struct {
	resp openai.EmbeddingResponse
	err  error
	last openai.EmbeddingRequestConverter
}

func (f *fakeEmbeddingAPI) CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.last = conv
	return f.resp, f.err
}

func newOpenAIEmbedder(api embeddingAPI, dimensions int) *OpenAIEmbedder {
	return &OpenAIEmbedder{api: api, model: DefaultOpenAIModel, dimensions: dimensions}
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	api := &fakeEmbeddingAPI{
		resp: openai.EmbeddingResponse{
			Data: []openai.Embedding{{Embedding: []float32{0.1, 0.2, 0.3}}},
		},
	}
	e := newOpenAIEmbedder(api, 3)

	vec, err := e.Embed(context.Background(), "save your changes")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)

	sent, ok := api.last.(openai.EmbeddingRequest)
	require.True(t, ok)
	assert.Equal(t, 3, sent.Dimensions, "requested width must follow config, not the model default")
}

func TestOpenAIEmbedder_EmptyText(t *testing.T) {
	e := newOpenAIEmbedder(&fakeEmbeddingAPI{}, 3)

	_, err := e.Embed(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestOpenAIEmbedder_APIError(t *testing.T) {
	api := &fakeEmbeddingAPI{err: errors.New("rate limited")}
	e := newOpenAIEmbedder(api, 3)

	_, err := e.Embed(context.Background(), "save your changes")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIEmbedder_WrongDimensions(t *testing.T) {
	api := &fakeEmbeddingAPI{
		resp: openai.EmbeddingResponse{
			Data: []openai.Embedding{{Embedding: []float32{0.1, 0.2}}},
		},
	}
	e := newOpenAIEmbedder(api, 3)

	_, err := e.Embed(context.Background(), "save your changes")

	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestOpenAIEmbedder_NoData(t *testing.T) {
	e := newOpenAIEmbedder(&fakeEmbeddingAPI{}, 3)

	_, err := e.Embed(context.Background(), "save your changes")

	assert.Error(t, err)
}

func TestNewOpenAIEmbedder_Defaults(t *testing.T) {
	e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test"})

	assert.Equal(t, DefaultOpenAIDimensions, e.Dimensions())
	assert.Equal(t, DefaultOpenAIModel, e.model)
}
