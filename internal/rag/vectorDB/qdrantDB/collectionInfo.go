package qdrantDB

import (
	"context"
	"sort"

	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

// DescribeIndex reports every collection on the server. A collection whose
// info cannot be fetched is listed under Unavailable instead of failing the call.
func (db *ClientHolder) DescribeIndex(ctx context.Context) (commonModels.IndexStats, error) {
	stats := commonModels.IndexStats{Host: db.host}
	names, err := db.QObj.ListCollections(ctx)
	if err != nil {
		return stats, classify("list collections", err)
	}
	sort.Strings(names)

	for _, name := range names {
		ns, err := db.namespaceStats(ctx, name)
		if err != nil {
			db.log.Warn("collection info unavailable", "namespace", name, "error", err)
			stats.Unavailable = append(stats.Unavailable, name)
			continue
		}
		stats.Namespaces = append(stats.Namespaces, ns)
		stats.TotalCount += ns.VectorCount
	}
	return stats, nil
}

func (db *ClientHolder) namespaceStats(ctx context.Context, name string) (commonModels.NamespaceStats, error) {
	info, err := db.QObj.GetCollectionInfo(ctx, name)
	if err != nil {
		return commonModels.NamespaceStats{}, err
	}
	ns := commonModels.NamespaceStats{
		Name:        name,
		VectorCount: info.GetPointsCount(),
		Dimension:   info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize(),
		Status:      info.GetStatus().String(),
	}

	// points_count is approximate while the optimizer runs
	if info.GetStatus() != qdrant.CollectionStatus_Green {
		exact, err := db.QObj.Count(ctx, &qdrant.CountPoints{
			CollectionName: name,
			Exact:          qdrant.PtrOf(true),
		})
		if err == nil {
			ns.VectorCount = exact
		}
	}
	return ns, nil
}
