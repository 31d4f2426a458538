package dto

import "github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/catalog"

type Pack struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	Label        string `json:"label"`
	BaseUnit     string `json:"base_unit"`
	BaseQuantity string `json:"base_quantity"`
	MRP          Money  `json:"mrp"`
	SellingPrice Money  `json:"selling_price"`
	IsActive     bool   `json:"is_active"`
	IsOutOfStock bool   `json:"is_out_of_stock"`
}

func NewPacks(packs []catalog.ProductPack) []Pack {
	out := make([]Pack, 0, len(packs))
	for _, p := range packs {
		out = append(out, Pack{
			ID:           p.ID,
			ProductID:    p.ProductID,
			Label:        p.Label,
			BaseUnit:     p.BaseUnit,
			BaseQuantity: p.BaseQuantity.String(),
			MRP:          NewMoney(p.MRPPaise),
			SellingPrice: NewMoney(p.SellingPricePaise),
			IsActive:     p.IsActive,
			IsOutOfStock: p.IsOutOfStock,
		})
	}
	return out
}
