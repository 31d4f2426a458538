package pricing

const (
	DefaultDeliveryFeePaise           int64 = 2000
	DefaultFreeDeliveryThresholdPaise int64 = 30000
	DefaultGSTRateBps                 int64 = 0
)

type TotalsConfig struct {
	DeliveryFeePaise           int64 `json:"delivery_fee_paise"`
	FreeDeliveryThresholdPaise int64 `json:"free_delivery_threshold_paise"`
	GSTRateBps                 int64 `json:"gst_rate_bps"`
}

func DefaultTotalsConfig() TotalsConfig {
	return TotalsConfig{
		DeliveryFeePaise:           DefaultDeliveryFeePaise,
		FreeDeliveryThresholdPaise: DefaultFreeDeliveryThresholdPaise,
		GSTRateBps:                 DefaultGSTRateBps,
	}
}

type Totals struct {
	SubtotalPaise    int64
	DeliveryFeePaise int64
	TaxablePaise     int64
	GSTRateBps       int64
	GSTAmountPaise   int64
	GrandTotalPaise  int64
}

// ComputeTotals applies delivery fee then GST to a subtotal.
// GST is rounded half up in integer arithmetic.
func ComputeTotals(subtotalPaise int64, cfg TotalsConfig) (Totals, error) {
	if subtotalPaise < 0 || cfg.DeliveryFeePaise < 0 || cfg.FreeDeliveryThresholdPaise < 0 || cfg.GSTRateBps < 0 {
		return Totals{}, ErrInvalidTotal
	}

	fee := cfg.DeliveryFeePaise
	if subtotalPaise >= cfg.FreeDeliveryThresholdPaise {
		fee = 0
	}

	taxable := subtotalPaise + fee
	gst := (taxable*cfg.GSTRateBps + 5000) / 10000

	return Totals{
		SubtotalPaise:    subtotalPaise,
		DeliveryFeePaise: fee,
		TaxablePaise:     taxable,
		GSTRateBps:       cfg.GSTRateBps,
		GSTAmountPaise:   gst,
		GrandTotalPaise:  subtotalPaise + fee + gst,
	}, nil
}
