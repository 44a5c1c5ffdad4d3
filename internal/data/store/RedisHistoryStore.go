package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/data/redisStore"
	"github.com/akolanti/kbcurator/internal/domain/jobModel"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

const historyKeyPrefix = "history:"

type RedisHistoryStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisHistoryStore(ctx context.Context, opts redisStore.Options) *RedisHistoryStore {
	s := redisStore.GetRedisStore(ctx, opts, config.RedisHistoryStore)
	if s == nil {
		return nil
	}
	return NewRedisHistoryStore(s)
}

func NewRedisHistoryStore(s *redisStore.Store) *RedisHistoryStore {
	return &RedisHistoryStore{
		store:  s,
		logger: logger_i.NewLogger("history_store"),
	}
}

func (s *RedisHistoryStore) PushHistory(ctx context.Context, entry jobModel.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	err = s.store.ListPushCapped(ctx, historyKeyPrefix+entry.Batch, data, config.HistoryDepth, config.RedisHistoryStoreTTL)
	if err != nil {
		s.logger.Error("error saving history", "batch", entry.Batch, "error", err)
	}
	return err
}

func (s *RedisHistoryStore) GetHistory(ctx context.Context, batch string) ([]jobModel.HistoryEntry, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "batch", batch)
	raw, err := s.store.ListGetRecent(ctx, historyKeyPrefix+batch, config.HistoryDepth)
	if err != nil {
		log.Error("error getting history", "error", err)
		return nil, err
	}

	out := make([]jobModel.HistoryEntry, 0, len(raw))
	for _, r := range raw {
		var entry jobModel.HistoryEntry
		if err := json.Unmarshal([]byte(r), &entry); err != nil {
			return nil, fmt.Errorf("history entry for %s: %w", batch, err)
		}
		out = append(out, entry)
	}
	return out, nil
}
