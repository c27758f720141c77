package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool,
// *pgxpool.Conn and pgx.Tx. Repositories accept whichever is in the
// request context so that tenant-scoped connections and transactions
// flow through without special cases.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// WithQuerier returns a context carrying the given querier.
func WithQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, DBConnKey, q)
}

// QuerierFromContext retrieves the scoped querier from context, or nil
// when the request is not running on a tenant connection or transaction.
func QuerierFromContext(ctx context.Context) Querier {
	q, _ := ctx.Value(DBConnKey).(Querier)
	return q
}
