package catalog

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// ActiveWarehouse returns the single active warehouse. More than one active
// row is treated as the oldest one winning.
func ActiveWarehouse(ctx context.Context, tx *gorm.DB) (Warehouse, error) {
	var w Warehouse
	err := tx.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Warehouse{}, ErrWarehouseNotConfigured
	}
	return w, err
}

// LockPacks loads packs FOR UPDATE in id order. Missing ids are simply absent
// from the result.
func LockPacks(ctx context.Context, tx *gorm.DB, ids []string) (map[string]ProductPack, error) {
	ids = sortedUnique(ids)
	var rows []ProductPack
	if len(ids) > 0 {
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).
			Order("id ASC").
			Find(&rows).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[string]ProductPack, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// LockProducts is LockPacks for parent products.
func LockProducts(ctx context.Context, tx *gorm.DB, ids []string) (map[string]Product, error) {
	ids = sortedUnique(ids)
	var rows []Product
	if len(ids) > 0 {
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).
			Order("id ASC").
			Find(&rows).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[string]Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *Repo) PacksByProduct(ctx context.Context, productID string) ([]ProductPack, error) {
	var packs []ProductPack
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order ASC, id ASC").
		Find(&packs).Error
	return packs, err
}

// deterministic lock order across transactions
func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
