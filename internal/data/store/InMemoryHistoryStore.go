package store

import (
	"context"
	"sync"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
)

type InMemoryHistoryStore struct {
	lock    *sync.RWMutex
	history map[string][]jobModel.HistoryEntry
}

func InitInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		lock:    new(sync.RWMutex),
		history: make(map[string][]jobModel.HistoryEntry),
	}
}

func (store *InMemoryHistoryStore) PushHistory(ctx context.Context, entry jobModel.HistoryEntry) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	entries := append([]jobModel.HistoryEntry{entry}, store.history[entry.Batch]...)
	if len(entries) > config.HistoryDepth {
		entries = entries[:config.HistoryDepth]
	}
	store.history[entry.Batch] = entries
	return nil
}

func (store *InMemoryHistoryStore) GetHistory(ctx context.Context, batch string) ([]jobModel.HistoryEntry, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	out := make([]jobModel.HistoryEntry, len(store.history[batch]))
	copy(out, store.history[batch])
	return out, nil
}
