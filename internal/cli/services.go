package cli

import (
	"context"
	"fmt"

	"github.com/akolanti/kbcurator/internal/classifier"
	"github.com/akolanti/kbcurator/internal/curation"
	"github.com/akolanti/kbcurator/internal/rag"
	"github.com/akolanti/kbcurator/internal/rag/embedding"
	"github.com/akolanti/kbcurator/internal/rag/vectorDB"
	"github.com/akolanti/kbcurator/internal/rag/vectorDB/qdrantDB"
)

// ragService builds the embedder and index for vector commands. A dry run
// uses the hash embedder and the logging index, so no network is touched.
func (a *app) ragService(ctx context.Context, provider string, dryRun bool) (rag.Service, error) {
	if err := a.cfg.UseProvider(provider); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if dryRun {
		return rag.NewService(vectorDB.NewDryRunIndex(), embedding.NewDryRun()), nil
	}

	em, err := embedding.New(ctx, a.cfg.Embedding)
	if err != nil {
		return nil, err
	}
	idx, err := a.index(ctx)
	if err != nil {
		return nil, err
	}
	return rag.NewService(idx, em), nil
}

func (a *app) index(ctx context.Context) (vectorDB.Index, error) {
	holder, err := qdrantDB.New(ctx, a.cfg.VectorIndex)
	if err != nil {
		return nil, fmt.Errorf("connect to %s:%d: %w", a.cfg.VectorIndex.Host, a.cfg.VectorIndex.Port, err)
	}
	return holder, nil
}

// describeService only needs the index; the embedder is never called.
func (a *app) describeService(ctx context.Context) (rag.Service, error) {
	idx, err := a.index(ctx)
	if err != nil {
		return nil, err
	}
	return rag.NewService(idx, embedding.NewDryRun()), nil
}

func (a *app) curationService() curation.Service {
	return curation.NewService(classifier.New(a.cfg.Classifier, a.cfg.Buckets), a.cfg.Validator)
}
