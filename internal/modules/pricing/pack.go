package pricing

import "github.com/shopspring/decimal"

// ProductPricing is the parent product's base price point,
// e.g. 3000 paise per 1 kg.
type ProductPricing struct {
	Unit              string
	BaseQuantity      decimal.Decimal
	MRPPaise          int64
	SellingPricePaise int64
}

// PackSpec is the sellable quantity of a pack, e.g. 500 g.
type PackSpec struct {
	Unit         string
	BaseQuantity decimal.Decimal
}

type PackPrice struct {
	MRPPaise          int64
	SellingPricePaise int64
}

// CalculatePackPrice derives a pack's prices from its product:
// price × pack_qty / product_qty (in the pack's unit), rounded half away
// from zero on the final value only.
func CalculatePackPrice(product ProductPricing, pack PackSpec) (PackPrice, error) {
	productUnit, err := NormalizeUnit(product.Unit)
	if err != nil {
		return PackPrice{}, err
	}
	packUnit, err := NormalizeUnit(pack.Unit)
	if err != nil {
		return PackPrice{}, err
	}
	if !product.BaseQuantity.IsPositive() || !pack.BaseQuantity.IsPositive() {
		return PackPrice{}, ErrInvalidBaseQuantity
	}
	if product.MRPPaise < 0 || product.SellingPricePaise < 0 {
		return PackPrice{}, ErrInvalidPrice
	}

	productQty, err := Convert(product.BaseQuantity, productUnit, packUnit)
	if err != nil {
		return PackPrice{}, err
	}

	derive := func(price int64) int64 {
		return decimal.NewFromInt(price).
			Mul(pack.BaseQuantity).
			Div(productQty).
			Round(0).
			IntPart()
	}

	return PackPrice{
		MRPPaise:          derive(product.MRPPaise),
		SellingPricePaise: derive(product.SellingPricePaise),
	}, nil
}
