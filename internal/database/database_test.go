package database_test

import (
	"context"
	"testing"

	"simple-shop/internal/config"
	"simple-shop/internal/database"
	"simple-shop/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	t.Run("Migrate is idempotent", func(t *testing.T) {
		require.NoError(t, database.Migrate(ctx, db.Pool))
	})

	t.Run("NUMERIC scans into decimal", func(t *testing.T) {
		var d decimal.Decimal
		err := db.Pool.QueryRow(ctx, `SELECT 0.1::numeric + 0.2::numeric`).Scan(&d)
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("0.3")))
	})

	t.Run("Reset restarts identities", func(t *testing.T) {
		_, err := db.Pool.Exec(ctx, `INSERT INTO products (name, price) VALUES ('a', 1), ('b', 2)`)
		require.NoError(t, err)

		db.Truncate(t)

		var id int64
		require.NoError(t, db.Pool.QueryRow(ctx,
			`INSERT INTO products (name, price) VALUES ('c', 3) RETURNING id`).Scan(&id))
		assert.Equal(t, int64(1), id)
	})
}

func TestNewPoolFromURL_InvalidURL(t *testing.T) {
	_, err := database.NewPoolFromURL(context.Background(), "://not a url", config.DatabaseConfig{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database config")
}
