package ingest

import (
	"context"
	"fmt"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/internal/rag/embedding"
	"github.com/akolanti/kbcurator/internal/rag/vectorDB"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

// BatchIngest embeds and upserts in batches of config.UpsertBatchSize.
// It stops at the first failing batch and returns how much was written before it.
func BatchIngest(ctx context.Context, vectors []commonModels.ChipVector, idx vectorDB.Index, e embedding.Embedder, namespace string) (int, int, error) {
	log := logger_i.NewLogger("batch_ingestion").With("traceId", ctx.Value(config.TRACE_ID_KEY))

	upserted, batches := 0, 0
	for i := 0; i < len(vectors); i += config.UpsertBatchSize {
		if err := ctx.Err(); err != nil {
			return upserted, batches, err
		}
		end := min(i+config.UpsertBatchSize, len(vectors))
		current := vectors[i:end]

		texts := make([]string, len(current))
		for j, v := range current {
			texts[j] = v.Text
		}

		log.Debug("starting embedding call", "batch", batches+1, "size", len(texts))
		embedded, err := e.BatchEmbedding(ctx, texts)
		if err != nil {
			return upserted, batches, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(embedded) != len(current) {
			return upserted, batches, fmt.Errorf("%w: sent %d, got %d", commonModels.ErrVectorCountMismatch, len(current), len(embedded))
		}

		batch := make([]commonModels.ChipVector, len(current))
		for j, v := range current {
			v.Vector = embedded[j]
			batch[j] = v
		}

		if err := idx.UpsertBatch(ctx, namespace, batch); err != nil {
			return upserted, batches, fmt.Errorf("upserting to index failed: %w", err)
		}
		upserted += len(batch)
		batches++
		metrics.CountUpserted(namespace, len(batch))
	}
	return upserted, batches, nil
}
