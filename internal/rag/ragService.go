package rag

import (
	"context"
	"time"

	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/internal/rag/embedding"
	"github.com/akolanti/kbcurator/internal/rag/ingest"
	"github.com/akolanti/kbcurator/internal/rag/vectorDB"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

/*
Service is the only surface the CLI, the MCP server and the workers see.
The concrete service holds the embedder and the index so callers never
touch either directly, and tests can hand in mocks for both.
*/
type Service interface {
	EmbedChips(ctx context.Context, opts ingest.Options, chips []chipModel.Chip) (ingest.Result, error)
	SearchChips(ctx context.Context, namespace, query string, topK int) ([]commonModels.SearchHit, error)
	DescribeIndex(ctx context.Context) (commonModels.IndexStats, error)
}

type service struct {
	index    vectorDB.Index
	embedder embedding.Embedder
	logger   *logger_i.Logger
}

func NewService(index vectorDB.Index, em embedding.Embedder) Service {
	return &service{
		index:    index,
		embedder: em,
		logger:   logger_i.NewLogger("rag_service"),
	}
}

func (s *service) EmbedChips(ctx context.Context, opts ingest.Options, chips []chipModel.Chip) (ingest.Result, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embed_chips", time.Since(start)) }()

	res, err := ingest.ProcessChipIngestion(ctx, opts, chips, s.embedder, s.index)
	if err != nil {
		s.logger.Error("chip ingestion failed", "namespace", opts.Namespace, "error", err)
	}
	return res, err
}

func (s *service) SearchChips(ctx context.Context, namespace, query string, topK int) ([]commonModels.SearchHit, error) {
	log := traced(ctx, s.logger)
	if namespace == "" {
		return nil, commonModels.ErrNamespaceRequired
	}

	vec, err := s.executeEmbeddingStep(ctx, log, query)
	if err != nil {
		return nil, err
	}
	return s.executeVectorSearchStep(ctx, log, namespace, vec, topK)
}

func (s *service) DescribeIndex(ctx context.Context) (commonModels.IndexStats, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("describe_index", time.Since(start)) }()
	return s.index.DescribeIndex(ctx)
}
