package validator

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Batch tracks chip ids seen during one validation run.
type Batch struct {
	mu   sync.Mutex
	seen map[string]string
}

func NewBatch() *Batch {
	return &Batch{seen: map[string]string{}}
}

// Observe records chipID as coming from file. For a repeated id it returns the
// duplicate error naming the file of the first occurrence.
func (b *Batch) Observe(chipID, file string) (string, bool) {
	if chipID == "" {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if first, ok := b.seen[chipID]; ok {
		return fmt.Sprintf("Duplicate chip_id across files (also in %s)", first), true
	}
	b.seen[chipID] = filepath.Base(file)
	return "", false
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.seen)
}
