package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/customHttpClient"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	api       openai.Client
	model     string
	dimension int
	log       *logger_i.Logger
}

func New(apiKey, model string, dimension int, opts ...option.RequestOption) *Client {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.NewPooledClient()),
		option.WithMaxRetries(0),
	}
	return &Client{
		api:       openai.NewClient(append(base, opts...)...),
		model:     model,
		dimension: dimension,
		log:       logger_i.NewLogger("openai_embedding"),
	}
}

func (c *Client) Dimensions() int {
	return c.dimension
}

func (c *Client) ModelName() string {
	return c.model
}

func (c *Client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.BatchEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("openai embedding returned no vectors")
	}
	return vecs[0], nil
}

// BatchEmbedding embeds texts in one request, preserving input order.
func (c *Client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, config.EmbeddingRequestTimeout)
	defer cancel()

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(c.dimension)),
	})
	if err != nil {
		return nil, c.classify(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d, got %d", commonModels.ErrVectorCountMismatch, len(texts), len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("openai embedding index %d out of range", d.Index)
		}
		out[d.Index] = toFloat32(d.Embedding)
	}
	return out, nil
}

func (c *Client) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		c.log.Error("rate limit hit", "error", err)
		return fmt.Errorf("%w: %v", commonModels.ErrRateLimited, err)
	}
	return fmt.Errorf("openai embedding: %w", err)
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
