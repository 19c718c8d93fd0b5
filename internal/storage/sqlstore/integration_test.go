//go:build integration

package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"feedsink/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
	dialect   Dialect
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, dialect, err := Open(s.ctx, connStr)
	s.Require().NoError(err)
	s.db = db
	s.dialect = dialect
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, `DROP TABLE IF EXISTS "feed_it"`)
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestDialectDetected() {
	s.Equal("postgres", s.dialect.Name)
	s.True(s.dialect.Savepoints)
}

func (s *PostgresIntegrationSuite) TestFailedInsertDoesNotPoisonTransaction() {
	store := NewItemStore(s.db, s.dialect)
	txm := NewTransactionManager(s.db, s.dialect)

	err := txm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.CreateTable(ctx, "feed_it"); err != nil {
			return err
		}
		s.NoError(txm.WithSavepoint(ctx, "item", func(ctx context.Context) error {
			return store.Insert(ctx, "feed_it", domain.Item{GUID: "a"}, 1)
		}))
		s.Error(txm.WithSavepoint(ctx, "item", func(ctx context.Context) error {
			return store.Insert(ctx, "feed_it", domain.Item{GUID: "a"}, 1)
		}))
		s.NoError(txm.WithSavepoint(ctx, "item", func(ctx context.Context) error {
			return store.Insert(ctx, "feed_it", domain.Item{GUID: "b"}, 1)
		}))
		return nil
	})
	s.NoError(err)

	count, err := store.Count(s.ctx, "feed_it")
	s.NoError(err)
	s.Equal(2, count)
}

func (s *PostgresIntegrationSuite) TestExists() {
	store := NewItemStore(s.db, s.dialect)
	s.Require().NoError(store.CreateTable(s.ctx, "feed_it"))

	item := domain.Item{Link: "https://example.com/x"}
	exists, err := store.Exists(s.ctx, "feed_it", item.UID())
	s.NoError(err)
	s.False(exists)

	s.NoError(store.Insert(s.ctx, "feed_it", item, uint32(time.Now().Unix())))

	exists, err = store.Exists(s.ctx, "feed_it", item.UID())
	s.NoError(err)
	s.True(exists)
}

func (s *PostgresIntegrationSuite) TestSchemaRollback() {
	txm := NewTransactionManager(s.db, s.dialect)
	store := NewItemStore(s.db, s.dialect)

	err := txm.WithTransaction(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(store.CreateTable(ctx, "feed_it"))
		return domain.ErrSchema
	})
	s.ErrorIs(err, domain.ErrSchema)

	_, err = store.Count(s.ctx, "feed_it")
	s.Error(err)
}
