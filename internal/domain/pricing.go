package domain

import "github.com/shopspring/decimal"

const (
	FreeShippingThreshold int64 = 500
	FlatShippingFee       int64 = 50
)

var taxRate = decimal.RequireFromString("0.18")

type PriceSummary struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Tax rounds half away from zero, which equals half-up for money amounts.
func Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()
}

func Shipping(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

func Price(subtotal int64) PriceSummary {
	tax := Tax(subtotal)
	shipping := Shipping(subtotal)
	return PriceSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
