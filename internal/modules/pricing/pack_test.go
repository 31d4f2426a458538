package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculatePackPrice_KgProductGramPack(t *testing.T) {
	got, err := CalculatePackPrice(
		ProductPricing{Unit: "kg", BaseQuantity: qty("1"), MRPPaise: 4000, SellingPricePaise: 3000},
		PackSpec{Unit: "g", BaseQuantity: qty("500")},
	)
	require.NoError(t, err)
	assert.Equal(t, PackPrice{MRPPaise: 2000, SellingPricePaise: 1500}, got)
}

func TestCalculatePackPrice_Cases(t *testing.T) {
	tests := []struct {
		name    string
		product ProductPricing
		pack    PackSpec
		want    PackPrice
	}{
		{
			name:    "gram product to kg pack",
			product: ProductPricing{Unit: "g", BaseQuantity: qty("250"), MRPPaise: 1000, SellingPricePaise: 900},
			pack:    PackSpec{Unit: "kg", BaseQuantity: qty("1")},
			want:    PackPrice{MRPPaise: 4000, SellingPricePaise: 3600},
		},
		{
			name:    "pieces",
			product: ProductPricing{Unit: "pcs", BaseQuantity: qty("6"), MRPPaise: 6000, SellingPricePaise: 5400},
			pack:    PackSpec{Unit: "piece", BaseQuantity: qty("12")},
			want:    PackPrice{MRPPaise: 12000, SellingPricePaise: 10800},
		},
		{
			name:    "rounds instead of truncating",
			product: ProductPricing{Unit: "kg", BaseQuantity: qty("1"), MRPPaise: 1001, SellingPricePaise: 999},
			pack:    PackSpec{Unit: "g", BaseQuantity: qty("250")},
			// 250.25 -> 250, 249.75 -> 250
			want: PackPrice{MRPPaise: 250, SellingPricePaise: 250},
		},
		{
			name:    "half rounds up",
			product: ProductPricing{Unit: "kg", BaseQuantity: qty("1"), MRPPaise: 1002, SellingPricePaise: 1002},
			pack:    PackSpec{Unit: "g", BaseQuantity: qty("250")},
			want:    PackPrice{MRPPaise: 251, SellingPricePaise: 251}, // 250.5
		},
		{
			name:    "unit spelling is case and space insensitive",
			product: ProductPricing{Unit: " KG ", BaseQuantity: qty("2"), MRPPaise: 8000, SellingPricePaise: 6000},
			pack:    PackSpec{Unit: "Grams", BaseQuantity: qty("500")},
			want:    PackPrice{MRPPaise: 2000, SellingPricePaise: 1500},
		},
		{
			name:    "zero price stays zero",
			product: ProductPricing{Unit: "kg", BaseQuantity: qty("1"), MRPPaise: 0, SellingPricePaise: 0},
			pack:    PackSpec{Unit: "g", BaseQuantity: qty("100")},
			want:    PackPrice{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculatePackPrice(tt.product, tt.pack)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculatePackPrice_Errors(t *testing.T) {
	base := ProductPricing{Unit: "kg", BaseQuantity: qty("1"), MRPPaise: 4000, SellingPricePaise: 3000}

	tests := []struct {
		name    string
		product ProductPricing
		pack    PackSpec
		want    error
	}{
		{"empty product unit", ProductPricing{Unit: "", BaseQuantity: qty("1")}, PackSpec{Unit: "g", BaseQuantity: qty("1")}, ErrInvalidUnit},
		{"empty pack unit", base, PackSpec{Unit: "  ", BaseQuantity: qty("1")}, ErrInvalidUnit},
		{"unknown unit", base, PackSpec{Unit: "litre", BaseQuantity: qty("1")}, ErrUnsupportedUnit},
		{"cross family", base, PackSpec{Unit: "pc", BaseQuantity: qty("1")}, ErrConversionUnsupported},
		{"count to weight", ProductPricing{Unit: "pc", BaseQuantity: qty("1"), MRPPaise: 10}, PackSpec{Unit: "g", BaseQuantity: qty("1")}, ErrConversionUnsupported},
		{"zero pack quantity", base, PackSpec{Unit: "g", BaseQuantity: decimal.Zero}, ErrInvalidBaseQuantity},
		{"negative product quantity", ProductPricing{Unit: "kg", BaseQuantity: qty("-1"), MRPPaise: 1}, PackSpec{Unit: "g", BaseQuantity: qty("1")}, ErrInvalidBaseQuantity},
		{"negative price", ProductPricing{Unit: "kg", BaseQuantity: qty("1"), MRPPaise: -1}, PackSpec{Unit: "g", BaseQuantity: qty("1")}, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculatePackPrice(tt.product, tt.pack)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalculatePackPrice_LinearInPackQuantity(t *testing.T) {
	product := ProductPricing{Unit: "kg", BaseQuantity: qty("1"), MRPPaise: 4999, SellingPricePaise: 3333}

	for _, n := range []int64{50, 100, 125, 250, 333, 500, 750, 1000} {
		single, err := CalculatePackPrice(product, PackSpec{Unit: "g", BaseQuantity: decimal.NewFromInt(n)})
		require.NoError(t, err)
		double, err := CalculatePackPrice(product, PackSpec{Unit: "g", BaseQuantity: decimal.NewFromInt(2 * n)})
		require.NoError(t, err)

		assert.InDelta(t, 2*single.MRPPaise, double.MRPPaise, 1, "mrp for %dg", n)
		assert.InDelta(t, 2*single.SellingPricePaise, double.SellingPricePaise, 1, "selling for %dg", n)
	}
}
