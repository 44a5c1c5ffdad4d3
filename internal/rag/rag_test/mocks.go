package rag_test

import (
	"context"

	"github.com/akolanti/kbcurator/internal/domain/commonModels"
)

// MockIndex implements vectorDB.Index
type MockIndex struct {
	OnEnsureNamespace func(ctx context.Context, ns string, dim int) error
	OnClearNamespace  func(ctx context.Context, ns string) error
	OnUpsertBatch     func(ctx context.Context, ns string, vectors []commonModels.ChipVector) error
	OnSearch          func(ctx context.Context, ns string, v []float32, topK int) ([]commonModels.SearchHit, error)
	OnDescribeIndex   func(ctx context.Context) (commonModels.IndexStats, error)
}

func (m *MockIndex) EnsureNamespace(ctx context.Context, ns string, dim int) error {
	if m.OnEnsureNamespace != nil {
		return m.OnEnsureNamespace(ctx, ns, dim)
	}
	return nil
}

func (m *MockIndex) ClearNamespace(ctx context.Context, ns string) error {
	if m.OnClearNamespace != nil {
		return m.OnClearNamespace(ctx, ns)
	}
	return nil
}

func (m *MockIndex) UpsertBatch(ctx context.Context, ns string, vectors []commonModels.ChipVector) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, ns, vectors)
	}
	return nil
}

func (m *MockIndex) Search(ctx context.Context, ns string, v []float32, topK int) ([]commonModels.SearchHit, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, ns, v, topK)
	}
	return []commonModels.SearchHit{{ChipID: "default", Score: 1}}, nil
}

func (m *MockIndex) DescribeIndex(ctx context.Context) (commonModels.IndexStats, error) {
	if m.OnDescribeIndex != nil {
		return m.OnDescribeIndex(ctx)
	}
	return commonModels.IndexStats{Host: "mock"}, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	// one dummy vector per text
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) Dimensions() int   { return 2 }
func (m *MockEmbedder) ModelName() string { return "mock-embedder" }
