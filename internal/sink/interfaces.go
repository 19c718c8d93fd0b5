package sink

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"feedsink/internal/domain"
)

type RowStore interface {
	CreateTable(ctx context.Context, table string) error
	Exists(ctx context.Context, table, uid string) (bool, error)
	Insert(ctx context.Context, table string, item domain.Item, createTime uint32) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithSavepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

type KeyValueStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
	Close() error
}
