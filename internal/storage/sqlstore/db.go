package sqlstore

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"feedsink/internal/domain"
)

// Open connects to the backend named by address and verifies it with a ping.
func Open(ctx context.Context, address string) (*sqlx.DB, Dialect, error) {
	dialect, dsn, err := ParseAddress(address)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	db, err := sqlx.ConnectContext(ctx, dialect.Driver, dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("%w: connect to %s: %w", domain.ErrConnection, dialect.Name, err)
	}

	if dialect.Name == SQLite.Name {
		// one writer at a time; a second pooled connection would hit SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	return db, dialect, nil
}
