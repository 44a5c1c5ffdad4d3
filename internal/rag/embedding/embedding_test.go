package embedding

import (
	"context"
	"testing"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRun(t *testing.T) {
	e := NewDryRun()
	a, err := e.GetEmbedding(context.Background(), "chip text")
	require.NoError(t, err)
	b, _ := e.GetEmbedding(context.Background(), "chip text")
	c, _ := e.GetEmbedding(context.Background(), "other text")

	assert.Len(t, a, config.DryRunEmbeddingDimension)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for _, v := range a {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}

	batch, err := e.BatchEmbedding(context.Background(), []string{"chip text", "other text"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{a, c}, batch)
}

func TestNew(t *testing.T) {
	e, err := New(context.Background(), config.EmbeddingConfig{Provider: config.ProviderDryRun})
	require.NoError(t, err)
	assert.Equal(t, config.DryRunEmbeddingDimension, e.Dimensions())

	_, err = New(context.Background(), config.EmbeddingConfig{Provider: config.ProviderOpenAI})
	assert.ErrorIs(t, err, commonModels.ErrMissingAPIKey)

	_, err = New(context.Background(), config.EmbeddingConfig{Provider: "cohere"})
	assert.ErrorIs(t, err, commonModels.ErrUnsupportedProvider)

	e, err = New(context.Background(), config.EmbeddingConfig{Provider: config.ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, config.OpenAIEmbeddingModel, e.ModelName())
	assert.Equal(t, config.OpenAIEmbeddingDimension, e.Dimensions())
}
