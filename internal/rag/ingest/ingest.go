package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/metrics"
	"github.com/akolanti/kbcurator/internal/rag/embedding"
	"github.com/akolanti/kbcurator/internal/rag/vectorDB"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

type Options struct {
	Namespace   string
	Family      string
	Overwrite   bool
	WithInsight bool
}

type Result struct {
	Namespace string `json:"namespace"`
	Family    string `json:"family"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
	Chips     int    `json:"chips"`
	Upserted  int    `json:"upserted"`
	Batches   int    `json:"batches"`
	Cleared   bool   `json:"cleared"`
}

func ProcessChipIngestion(ctx context.Context, opts Options, chips []chipModel.Chip, e embedding.Embedder, idx vectorDB.Index) (Result, error) {
	log := logger_i.NewLogger("chip_ingestion").With("traceId", ctx.Value(config.TRACE_ID_KEY), "namespace", opts.Namespace)

	if opts.Namespace == "" {
		return Result{}, commonModels.ErrNamespaceRequired
	}
	if opts.Family == "" {
		opts.Family = config.DefaultChipFamily
	}
	res := Result{
		Namespace: opts.Namespace,
		Family:    opts.Family,
		Model:     e.ModelName(),
		Dimension: e.Dimensions(),
		Chips:     len(chips),
	}

	if opts.Overwrite {
		if err := idx.ClearNamespace(ctx, opts.Namespace); err != nil {
			log.Warn("could not clear namespace, continuing", "error", err)
		} else {
			res.Cleared = true
		}
	}

	if err := idx.EnsureNamespace(ctx, opts.Namespace, e.Dimensions()); err != nil {
		return res, fmt.Errorf("ensure namespace %s: %w", opts.Namespace, err)
	}

	vectors := PrepareVectors(chips, opts.Family, opts.WithInsight)
	log.Info("ingesting chips", "chips", len(vectors), "model", res.Model)

	start := time.Now()
	n, batches, err := BatchIngest(ctx, vectors, idx, e, opts.Namespace)
	metrics.CaptureExecutionMetrics("chip_ingestion", time.Since(start))
	res.Upserted, res.Batches = n, batches
	if err != nil {
		return res, err
	}
	log.Info("ingestion complete", "upserted", n, "batches", batches)
	return res, nil
}
