package embedding

import (
	"context"
	"fmt"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/kbcurator/internal/rag/embedding/openaiEmbedding"
)

type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
}

// New builds the embedder for the configured provider.
func New(ctx context.Context, cfg config.EmbeddingConfig) (Embedder, error) {
	model, dim := cfg.Model, cfg.Dimensions
	if model == "" || dim <= 0 {
		defModel, defDim := config.ProviderDefaults(cfg.Provider)
		if model == "" {
			model = defModel
		}
		if dim <= 0 {
			dim = defDim
		}
	}

	switch cfg.Provider {
	case config.ProviderDryRun:
		return NewDryRun(), nil
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai: %w", commonModels.ErrMissingAPIKey)
		}
		return openaiEmbedding.New(cfg.APIKey, model, dim), nil
	case config.ProviderGoogle:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("google: %w", commonModels.ErrMissingAPIKey)
		}
		return googleEmbedding.New(ctx, cfg.APIKey, model, dim)
	default:
		return nil, fmt.Errorf("%w: %q", commonModels.ErrUnsupportedProvider, cfg.Provider)
	}
}
