package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

func traced(ctx context.Context, log *logger_i.Logger) *logger_i.Logger {
	if id, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return log.With("traceId", id)
	}
	return log
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, query string) ([]float32, error) {
	log.Debug("embedding query", "model", s.embedder.ModelName())

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vec, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		log.Error("embedding failed", "error", err)
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vec, nil
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, namespace string, vec []float32, topK int) ([]commonModels.SearchHit, error) {
	log.Debug("searching index", "namespace", namespace, "topK", topK)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	hits, err := s.index.Search(ctx, namespace, vec, topK)
	if err != nil {
		log.Error("vector search failed", "error", err)
		return nil, fmt.Errorf("searching %s: %w", namespace, err)
	}
	return hits, nil
}
