package sink

import (
	"context"
	"fmt"
	"log/slog"

	"feedsink/internal/domain"
	"feedsink/internal/storage/redisstore"
)

// KeyValueSink stores the aggregate document under one key with no expiry.
type KeyValueSink struct {
	store  KeyValueStore
	logger *slog.Logger
}

func NewKeyValueSink(store KeyValueStore, logger *slog.Logger) *KeyValueSink {
	return &KeyValueSink{
		store:  store,
		logger: logger.With("sink", KindKeyValue.String()),
	}
}

// OpenKeyValue connects to the Redis server at address.
func OpenKeyValue(ctx context.Context, address string, logger *slog.Logger) (*KeyValueSink, error) {
	store, err := redisstore.New(ctx, address)
	if err != nil {
		return nil, err
	}
	return NewKeyValueSink(store, logger), nil
}

func (s *KeyValueSink) Write(ctx context.Context, key string, doc []byte) error {
	if err := s.store.Set(ctx, key, doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}

	s.logger.Debug("stored document", "key", key, "bytes", len(doc))
	return nil
}

func (s *KeyValueSink) Close() error {
	return s.store.Close()
}
