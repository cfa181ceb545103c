package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and
// ensures the schema exists. Tests that need it are skipped when the
// variable is unset.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, url)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	return db
}
