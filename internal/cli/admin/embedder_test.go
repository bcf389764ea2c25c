package admin

import (
	"testing"

	"github.com/copydesk/copydesk/internal/config"
	"github.com/copydesk/copydesk/internal/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmbedder_HashDefault(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: "hash", EmbeddingDimensions: 768}

	e, err := buildEmbedder(cfg)

	require.NoError(t, err)
	assert.IsType(t, &embedding.HashEmbedder{}, e)
	assert.Equal(t, 768, e.Dimensions())
}

func TestBuildEmbedder_EmptyProviderFallsBackToHash(t *testing.T) {
	cfg := &config.Config{EmbeddingDimensions: 128}

	e, err := buildEmbedder(cfg)

	require.NoError(t, err)
	assert.IsType(t, &embedding.HashEmbedder{}, e)
	assert.Equal(t, 128, e.Dimensions())
}

func TestBuildEmbedder_OpenAI(t *testing.T) {
	cfg := &config.Config{
		EmbeddingProvider:   "openai",
		EmbeddingDimensions: 768,
		OpenAIAPIKey:        "sk-test",
	}

	e, err := buildEmbedder(cfg)

	require.NoError(t, err)
	assert.IsType(t, &embedding.OpenAIEmbedder{}, e)
	assert.Equal(t, 768, e.Dimensions(), "must track the vector column width, not the model default")
}

func TestBuildEmbedder_OpenAIRequiresKey(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: "openai", EmbeddingDimensions: 768}

	_, err := buildEmbedder(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestBuildEmbedder_UnknownProvider(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: "tarot", EmbeddingDimensions: 768}

	_, err := buildEmbedder(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tarot")
}
