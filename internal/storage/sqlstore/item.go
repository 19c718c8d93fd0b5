package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"feedsink/internal/domain"
)

// ItemStore reads and writes feed item rows in per-run tables.
type ItemStore struct {
	db      *sqlx.DB
	dialect Dialect
}

func NewItemStore(db *sqlx.DB, dialect Dialect) *ItemStore {
	return &ItemStore{db: db, dialect: dialect}
}

func (s *ItemStore) CreateTable(ctx context.Context, table string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, s.dialect.CreateTableSQL(table))
	return err
}

// Exists reports whether a row with uid is present in table.
func (s *ItemStore) Exists(ctx context.Context, table, uid string) (bool, error) {
	ext := GetExecutor(ctx, s.db)
	query := ext.Rebind(fmt.Sprintf("SELECT uid FROM %s WHERE uid = ? LIMIT 1", s.dialect.Quote(table)))

	var found string
	err := sqlx.GetContext(ctx, ext, &found, query, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ItemStore) Insert(ctx context.Context, table string, item domain.Item, createTime uint32) error {
	ext := GetExecutor(ctx, s.db)
	query := ext.Rebind(fmt.Sprintf(`
		INSERT INTO %s (uid, title, link, author, description, guid, publish, create_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.dialect.Quote(table)))

	_, err := ext.ExecContext(ctx, query,
		item.UID(),
		item.Title,
		item.Link,
		item.Author,
		item.Description,
		item.GUID,
		item.PublishedAt,
		createTime,
	)
	return err
}

// Count returns the number of rows in table.
func (s *ItemStore) Count(ctx context.Context, table string) (int, error) {
	ext := GetExecutor(ctx, s.db)

	var count int
	err := sqlx.GetContext(ctx, ext, &count, "SELECT COUNT(*) FROM "+s.dialect.Quote(table))
	return count, err
}
