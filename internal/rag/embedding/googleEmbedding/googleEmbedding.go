package googleEmbedding

import (
	"context"
	"fmt"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/customHttpClient"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"google.golang.org/genai"
)

const taskType = "RETRIEVAL_DOCUMENT"

type Client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	log       *logger_i.Logger
}

func New(ctx context.Context, apiKey, model string, dimension int) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.NewPooledClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("create google embedding client: %w", err)
	}
	log := logger_i.NewLogger("google_embedding")
	log.Debug("google embedding client created", "model", model, "dimension", dimension)
	return &Client{
		genAi:     c,
		model:     model,
		dimension: int32(dimension),
		log:       log,
	}, nil
}

func (c *Client) Dimensions() int {
	return int(c.dimension)
}

func (c *Client) ModelName() string {
	return c.model
}

func (c *Client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	res, err := c.doCall(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("google embedding returned no vectors")
	}
	return res.Embeddings[0].Values, nil
}

// BatchEmbedding embeds texts in one request. Callers keep batches at or under
// the configured batch size.
func (c *Client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.log.With("traceId", ctx.Value(config.TRACE_ID_KEY), "batch", len(texts))

	res, err := c.doCall(ctx, getContent(texts))
	if err != nil {
		log.Error("error getting embeddings from google", "error", err)
		return nil, err
	}
	out := make([][]float32, 0, len(res.Embeddings))
	for _, e := range res.Embeddings {
		out = append(out, e.Values)
	}
	return out, nil
}

func (c *Client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, config.EmbeddingRequestTimeout)
	defer cancel()

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             taskType,
	})
	if err != nil {
		return nil, classify(err, c.log)
	}
	return result, nil
}
