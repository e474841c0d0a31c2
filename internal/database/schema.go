package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema contains the DDL statements for all application tables.
//
//go:embed schema.sql
var Schema string

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Migrate applies the embedded schema. It is idempotent.
func Migrate(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Reset deletes every row from all application tables and restarts their
// sequences. It destroys carts and orders as well as the catalogue and must
// only run against development databases.
func Reset(ctx context.Context, tx pgx.Tx) error {
	const query = `TRUNCATE order_items, orders, cart_items, carts, products RESTART IDENTITY CASCADE`
	if _, err := tx.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}
