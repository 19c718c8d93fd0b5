package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"feedsink/internal/domain"
	"feedsink/internal/storage/sqlstore"
)

const itemSavepoint = "feed_item"

// RelationalSink writes each item as one row of a per-run table, keyed by
// the item's uid.
//
// A row whose uid is already present is left untouched. The existence probe
// does not distinguish "absent" from "probe failed": both lead to an insert
// attempt, and a duplicate caught by the primary key is dropped like any
// other insert failure. Only a schema failure rolls the transaction back.
type RelationalSink struct {
	store  RowStore
	tx     TransactionManager
	closer io.Closer
	logger *slog.Logger
}

func NewRelationalSink(store RowStore, tx TransactionManager, logger *slog.Logger) *RelationalSink {
	return &RelationalSink{
		store:  store,
		tx:     tx,
		logger: logger.With("sink", KindRelational.String()),
	}
}

// OpenRelational connects to the database at address. Close releases the
// connection pool.
func OpenRelational(ctx context.Context, address string, logger *slog.Logger) (*RelationalSink, error) {
	db, dialect, err := sqlstore.Open(ctx, address)
	if err != nil {
		return nil, err
	}

	s := NewRelationalSink(
		sqlstore.NewItemStore(db, dialect),
		sqlstore.NewTransactionManager(db, dialect),
		logger.With("dialect", dialect.Name),
	)
	s.closer = db
	return s, nil
}

func (s *RelationalSink) Write(ctx context.Context, table string, run domain.Run, items []domain.Item) (*domain.PersistStats, error) {
	stats := &domain.PersistStats{}
	createTime := run.CreateTime()

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.CreateTable(ctx, table); err != nil {
			return fmt.Errorf("%w: create table %s: %w", domain.ErrSchema, table, err)
		}

		for _, item := range items {
			uid := item.UID()
			if s.exists(ctx, table, uid) {
				stats.Skipped++
				continue
			}

			err := s.tx.WithSavepoint(ctx, itemSavepoint, func(ctx context.Context) error {
				return s.store.Insert(ctx, table, item, createTime)
			})
			if err != nil {
				stats.Failed++
				s.logger.Debug("insert failed", "uid", uid, "error", err)
				continue
			}

			stats.Written++
			s.logger.Info("inserted item", "uid", uid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// exists reports true only when the probe positively found the row.
func (s *RelationalSink) exists(ctx context.Context, table, uid string) bool {
	var found bool
	err := s.tx.WithSavepoint(ctx, itemSavepoint, func(ctx context.Context) error {
		var err error
		found, err = s.store.Exists(ctx, table, uid)
		return err
	})
	if err != nil {
		s.logger.Debug("existence probe failed, treating as absent", "uid", uid, "error", err)
		return false
	}
	return found
}

func (s *RelationalSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
