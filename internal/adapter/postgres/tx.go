package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhandos-t/ridelink/pkg/metrics"
	"github.com/zhandos-t/ridelink/pkg/trm"
)

// Querier is the subset of pgx shared by a pool and a transaction.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxOrDB returns the transaction carried in ctx, or the pool when outside one.
func TxOrDB(ctx context.Context, db *pgxpool.Pool) Querier {
	tx, ok := ctx.Value(trm.TxKey).(pgx.Tx)
	if !ok {
		return db
	}
	return tx
}

// recordQuery feeds the database query counter; any non-nil error, domain
// sentinels included, counts as status "error".
func recordQuery(repo, operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.DatabaseQueriesTotal.WithLabelValues(repo, operation, status).Inc()
}
