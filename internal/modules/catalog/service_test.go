package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/pricing"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/logging"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/testutil"
)

func TestSyncPackPrices(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &Product{}, &ProductPack{})
	now := time.Now().UTC()

	require.NoError(t, db.Create(&Product{
		ID: "p1", Name: "Tomato", Unit: "kg", BaseQuantity: decimal.NewFromInt(1),
		MRPPaise: 4000, SellingPricePaise: 3000, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&[]ProductPack{
		{ID: "k1", ProductID: "p1", Label: "500 g", BaseUnit: "g", BaseQuantity: decimal.NewFromInt(500), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "k2", ProductID: "p1", Label: "2 kg", BaseUnit: "kg", BaseQuantity: decimal.NewFromInt(2), IsActive: true, CreatedAt: now, UpdatedAt: now},
	}).Error)

	svc := NewService(db, logging.Discard())
	packs, err := svc.SyncPackPrices(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, packs, 2)

	var stored []ProductPack
	require.NoError(t, db.Order("id ASC").Find(&stored).Error)
	assert.Equal(t, int64(2000), stored[0].MRPPaise)
	assert.Equal(t, int64(1500), stored[0].SellingPricePaise)
	assert.Equal(t, int64(8000), stored[1].MRPPaise)
	assert.Equal(t, int64(6000), stored[1].SellingPricePaise)
}

func TestSyncPackPrices_BadPackLeavesOthersUntouched(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &Product{}, &ProductPack{})
	now := time.Now().UTC()

	require.NoError(t, db.Create(&Product{
		ID: "p1", Name: "Banana", Unit: "kg", BaseQuantity: decimal.NewFromInt(1),
		MRPPaise: 6000, SellingPricePaise: 5000, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&[]ProductPack{
		{ID: "a", ProductID: "p1", Label: "500 g", BaseUnit: "g", BaseQuantity: decimal.NewFromInt(500), MRPPaise: 1, SellingPricePaise: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "b", ProductID: "p1", Label: "6 pcs", BaseUnit: "pc", BaseQuantity: decimal.NewFromInt(6), MRPPaise: 1, SellingPricePaise: 1, CreatedAt: now, UpdatedAt: now},
	}).Error)

	_, err := NewService(db, logging.Discard()).SyncPackPrices(ctx, "p1")
	assert.ErrorIs(t, err, pricing.ErrConversionUnsupported)

	var a ProductPack
	require.NoError(t, db.First(&a, "id = ?", "a").Error)
	assert.Equal(t, int64(1), a.MRPPaise)
}

func TestSyncPackPrices_UnknownProduct(t *testing.T) {
	db := testutil.NewDB(t, &Product{}, &ProductPack{})
	_, err := NewService(db, logging.Discard()).SyncPackPrices(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPacks_DisplayOrder(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &Product{}, &ProductPack{})
	now := time.Now().UTC()

	require.NoError(t, db.Create(&Product{
		ID: "p1", Name: "Onion", Unit: "kg", BaseQuantity: decimal.NewFromInt(1),
		MRPPaise: 5000, SellingPricePaise: 4000, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&[]ProductPack{
		{ID: "x", ProductID: "p1", Label: "2 kg", BaseUnit: "kg", BaseQuantity: decimal.NewFromInt(2), SortOrder: 2, CreatedAt: now, UpdatedAt: now},
		{ID: "y", ProductID: "p1", Label: "1 kg", BaseUnit: "kg", BaseQuantity: decimal.NewFromInt(1), SortOrder: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "z", ProductID: "other", Label: "1 kg", BaseUnit: "kg", BaseQuantity: decimal.NewFromInt(1), CreatedAt: now, UpdatedAt: now},
	}).Error)

	svc := NewService(db, logging.Discard())
	packs, err := svc.Packs(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, packs, 2)
	assert.Equal(t, "y", packs[0].ID)
	assert.Equal(t, "x", packs[1].ID)

	_, err = svc.Packs(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestActiveWarehouse(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &Warehouse{})

	_, err := ActiveWarehouse(ctx, db)
	assert.ErrorIs(t, err, ErrWarehouseNotConfigured)

	require.NoError(t, db.Create(&Warehouse{ID: "w0", Name: "old", IsActive: false, CreatedAt: time.Now().UTC()}).Error)
	_, err = ActiveWarehouse(ctx, db)
	assert.ErrorIs(t, err, ErrWarehouseNotConfigured)

	require.NoError(t, db.Create(&Warehouse{ID: "w1", Name: "main", IsActive: true, CreatedAt: time.Now().UTC()}).Error)
	w, err := ActiveWarehouse(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "w1", w.ID)
}
