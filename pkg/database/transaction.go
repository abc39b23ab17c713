package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
)

type txContextKey string

const txStatusKey = txContextKey("txStatus")
const txKey = txContextKey("tx")

const txStatusOpen = "open"

// Tx is the transaction surface the repositories work against
type Tx interface {
	IsOpen() bool
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// Transaction wraps sqlx.Tx so commit and rollback are idempotent and
// context-aware.
type Transaction struct {
	*sqlx.Tx
	logger   ectologger.Logger
	isClosed bool
}

func NewTx(tx *sqlx.Tx, logger ectologger.Logger) Tx {
	return &Transaction{
		Tx:     tx,
		logger: logger,
	}
}

// GetTx returns the transaction already carried by the context, or begins a
// new one. The returned context marks the transaction as owned by an outer
// caller: a Rollback given that context is a no-op, so deferred rollbacks
// must use the context passed in, not the one returned.
func GetTx(ctx context.Context, logger ectologger.Logger, db DB, opts *sql.TxOptions) (context.Context, Tx, error) {
	if carried, ok := ctx.Value(txKey).(Tx); ok && carried != nil && carried.IsOpen() {
		if status, ok := ctx.Value(txStatusKey).(string); ok && status == txStatusOpen {
			return ctx, carried, nil
		}
	}

	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Errorf("error while beginning transaction")
		return ctx, nil, fmt.Errorf("error while beginning transaction")
	}

	opened := NewTx(tx, logger)
	ctx = context.WithValue(ctx, txStatusKey, txStatusOpen)
	ctx = context.WithValue(ctx, txKey, opened)
	return ctx, opened, nil
}

func (t *Transaction) IsOpen() bool {
	return !t.isClosed
}

func (t *Transaction) Rollback(ctx context.Context) error {
	if t.isClosed {
		return nil
	}

	// an open status means the transaction belongs to the caller that
	// created the context; only they may close it
	if status, ok := ctx.Value(txStatusKey).(string); ok && status == txStatusOpen {
		return nil
	}

	if err := t.Tx.Rollback(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while rolling back transaction")
		return fmt.Errorf("error while rolling back transaction")
	}

	t.isClosed = true
	return nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	if t.isClosed {
		return nil
	}

	if err := t.Tx.Commit(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Errorf("error while committing transaction")
		return fmt.Errorf("error while committing transaction")
	}

	t.isClosed = true
	return nil
}
