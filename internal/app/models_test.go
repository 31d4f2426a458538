package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/testutil"
)

func TestMigrate_CreatesEveryTable(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, Migrate(db))
	// second run is a no-op
	require.NoError(t, Migrate(db))

	for _, table := range []string{
		"settings", "warehouses", "products", "product_packs", "users", "addresses",
		"orders", "order_items", "order_status_events", "payments", "provider_events",
		"notifications", "job_runs",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
