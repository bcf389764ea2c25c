package admin

import (
	"fmt"

	"github.com/copydesk/copydesk/internal/config"
	"github.com/copydesk/copydesk/internal/embedding"
)

// buildEmbedder selects the embedding backend from config. The dimension
// always comes from EMBEDDING_DIMENSIONS because the chunks vector column
// width is fixed by migration; the OpenAI embedder requests vectors truncated
// to that size rather than its model default.
func buildEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "", "hash":
		return embedding.NewHashEmbedder(cfg.EmbeddingDimensions), nil
	case "openai":
		if !cfg.HasOpenAI() {
			return nil, fmt.Errorf("EMBEDDING_PROVIDER=openai requires OPENAI_API_KEY")
		}
		return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Dimensions: cfg.EmbeddingDimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}
