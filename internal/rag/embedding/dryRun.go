package embedding

import (
	"context"
	"crypto/sha256"

	"github.com/akolanti/kbcurator/internal/config"
)

// dryRun derives a fixed-size vector from the sha256 of the text. It calls no
// service and is deterministic, so pipelines can be exercised offline.
type dryRun struct{}

func NewDryRun() Embedder {
	return dryRun{}
}

func (dryRun) GetEmbedding(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, config.DryRunEmbeddingDimension)
	for i := range vec {
		vec[i] = float32(sum[i]) / 255
	}
	return vec, nil
}

func (d dryRun) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, _ := d.GetEmbedding(ctx, t)
		out = append(out, v)
	}
	return out, nil
}

func (dryRun) Dimensions() int {
	return config.DryRunEmbeddingDimension
}

func (dryRun) ModelName() string {
	return "sha256-16"
}
