package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/pricing"
)

type Service struct {
	db     *gorm.DB
	repo   *Repo
	logger *slog.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, repo: NewRepo(db), logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SyncPackPrices re-derives the price of every pack of a product from the
// product's current base price. All packs are validated before any write,
// so one bad pack leaves the product untouched.
func (s *Service) SyncPackPrices(ctx context.Context, productID string) ([]ProductPack, error) {
	var out []ProductPack

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Product
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var packs []ProductPack
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", p.ID).
			Order("id ASC").
			Find(&packs).Error; err != nil {
			return err
		}

		base := pricing.ProductPricing{
			Unit:              p.Unit,
			BaseQuantity:      p.BaseQuantity,
			MRPPaise:          p.MRPPaise,
			SellingPricePaise: p.SellingPricePaise,
		}
		prices := make([]pricing.PackPrice, len(packs))
		for i, pk := range packs {
			price, err := pricing.CalculatePackPrice(base, pricing.PackSpec{Unit: pk.BaseUnit, BaseQuantity: pk.BaseQuantity})
			if err != nil {
				return err
			}
			prices[i] = price
		}

		now := s.now()
		for i := range packs {
			if err := tx.WithContext(ctx).Model(&ProductPack{}).
				Where("id = ?", packs[i].ID).
				Updates(map[string]any{
					"mrp_paise":           prices[i].MRPPaise,
					"selling_price_paise": prices[i].SellingPricePaise,
					"updated_at":          now,
				}).Error; err != nil {
				return err
			}
			packs[i].MRPPaise = prices[i].MRPPaise
			packs[i].SellingPricePaise = prices[i].SellingPricePaise
			packs[i].UpdatedAt = now
		}
		out = packs
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "pack prices synced", "product_id", productID, "packs", len(out))
	return out, nil
}

// Packs lists the packs of a product in display order.
func (s *Service) Packs(ctx context.Context, productID string) ([]ProductPack, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrProductNotFound
	}
	return s.repo.PacksByProduct(ctx, productID)
}
