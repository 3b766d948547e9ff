package trm

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs a function inside a database transaction carried through
// the context. Nested Do calls join the outer transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Manager struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Manager {
	return &Manager{db: db}
}

type ctxKeyTx struct{}

// TxKey is the context key under which the active pgx.Tx travels.
var TxKey = ctxKeyTx{}

// Do executes fn within a transaction. A new transaction is started unless
// one already exists in the context. Errors and panics roll back; success
// commits.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if tx := ctx.Value(TxKey); tx != nil {
		// Already inside a transaction, just run fn in it.
		return fn(ctx)
	}

	var tx pgx.Tx
	tx, err = m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	ctx = context.WithValue(ctx, TxKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("failed to commit tx: %w", commitErr)
		}
	}()

	err = fn(ctx)
	return err
}
