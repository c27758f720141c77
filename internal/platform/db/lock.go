package db

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LockKey derives a stable advisory lock key from a UUID. The first eight
// bytes of the UUID are interpreted as a big-endian signed integer, which
// matches the bigint argument of pg_advisory_xact_lock.
func LockKey(id uuid.UUID) int64 {
	return int64(binary.BigEndian.Uint64(id[:8]))
}

// WithAdvisoryLock runs fn inside a transaction that holds the
// transaction-scoped advisory lock for the given UUID. The lock is released
// automatically on commit or rollback. The transaction is stored in the
// context passed to fn so repository calls inside fn join it.
func WithAdvisoryLock(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The transaction runs on a fresh pool connection, so the tenant
	// search_path pinned by the middleware has to be restored here.
	if tid := TenantFromContext(ctx); tid != "" {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET search_path TO tenant_%s, shared, public", tid)); err != nil {
			return fmt.Errorf("set search_path: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", LockKey(id)); err != nil {
		return fmt.Errorf("acquire advisory lock: %w", err)
	}

	if err := fn(WithQuerier(ctx, tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
