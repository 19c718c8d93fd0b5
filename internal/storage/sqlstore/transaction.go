package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"feedsink/internal/domain"
)

type ctxKey string

const txKey ctxKey = "tx"

type TransactionManager struct {
	db      *sqlx.DB
	dialect Dialect
}

func NewTransactionManager(db *sqlx.DB, dialect Dialect) *TransactionManager {
	return &TransactionManager{db: db, dialect: dialect}
}

// WithTransaction runs fn inside one transaction. The transaction is rolled
// back when fn fails and committed otherwise.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrConnection, err)
	}
	defer tx.Rollback()

	txCtx := context.WithValue(ctx, txKey, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrWrite, err)
	}
	return nil
}

// WithSavepoint runs fn so that its failure undoes only its own statements
// and leaves the enclosing transaction usable. Outside a transaction, or on
// dialects that do not need it, fn runs as is.
func (tm *TransactionManager) WithSavepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	tx := GetTxFromContext(ctx)
	if tx == nil || !tm.dialect.Savepoints {
		return fn(ctx)
	}

	sp := tm.dialect.Quote(name)
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}

	if err := fn(ctx); err != nil {
		_, _ = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp)
		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}

func GetExecutor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
