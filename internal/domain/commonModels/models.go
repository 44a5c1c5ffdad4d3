package commonModels

// ChipVector is one vector-index entry, keyed by chip id.
type ChipVector struct {
	ChipID  string         `json:"chip_id"`
	Text    string         `json:"-"`
	Vector  []float32      `json:"-"`
	Payload map[string]any `json:"payload"`
}

type SearchHit struct {
	ChipID string  `json:"chip_id"`
	Type   string  `json:"type"`
	Score  float64 `json:"score"`
}

type NamespaceStats struct {
	Name        string `json:"name"`
	VectorCount uint64 `json:"vector_count"`
	Dimension   uint64 `json:"dimension"`
	Status      string `json:"status"`
}

type IndexStats struct {
	Host        string           `json:"host"`
	TotalCount  uint64           `json:"total_vector_count"`
	Namespaces  []NamespaceStats `json:"namespaces"`
	Unavailable []string         `json:"unavailable,omitempty"`
}
