package vectorDB

import (
	"context"
	"sync"

	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

// Index is a namespaced vector store keyed by chip id.
type Index interface {
	EnsureNamespace(ctx context.Context, namespace string, dimension int) error
	ClearNamespace(ctx context.Context, namespace string) error
	UpsertBatch(ctx context.Context, namespace string, vectors []commonModels.ChipVector) error
	Search(ctx context.Context, namespace string, vector []float32, topK int) ([]commonModels.SearchHit, error)
	DescribeIndex(ctx context.Context) (commonModels.IndexStats, error)
}

// DryRunIndex logs what would be written and keeps counts only.
type DryRunIndex struct {
	mu     sync.Mutex
	counts map[string]uint64
	dims   map[string]uint64
	log    *logger_i.Logger
}

func NewDryRunIndex() *DryRunIndex {
	return &DryRunIndex{
		counts: map[string]uint64{},
		dims:   map[string]uint64{},
		log:    logger_i.NewLogger("dry_run_index"),
	}
}

func (d *DryRunIndex) EnsureNamespace(_ context.Context, namespace string, dimension int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.dims[namespace]; !ok {
		d.dims[namespace] = uint64(dimension)
	}
	return nil
}

func (d *DryRunIndex) ClearNamespace(_ context.Context, namespace string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Info("would clear namespace", "namespace", namespace)
	delete(d.counts, namespace)
	return nil
}

func (d *DryRunIndex) UpsertBatch(_ context.Context, namespace string, vectors []commonModels.ChipVector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log.Info("would upsert", "namespace", namespace, "vectors", len(vectors))
	d.counts[namespace] += uint64(len(vectors))
	return nil
}

func (d *DryRunIndex) Search(context.Context, string, []float32, int) ([]commonModels.SearchHit, error) {
	return nil, nil
}

func (d *DryRunIndex) DescribeIndex(context.Context) (commonModels.IndexStats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	stats := commonModels.IndexStats{Host: "dry-run"}
	for ns, dim := range d.dims {
		stats.Namespaces = append(stats.Namespaces, commonModels.NamespaceStats{
			Name: ns, VectorCount: d.counts[ns], Dimension: dim, Status: "dry-run",
		})
		stats.TotalCount += d.counts[ns]
	}
	return stats, nil
}

func (d *DryRunIndex) Count(namespace string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[namespace]
}
