package domain

import "github.com/shopspring/decimal"

// DefaultFreeShippingThreshold 免运费门槛（EUR）
var DefaultFreeShippingThreshold = decimal.NewFromInt(100)

var hundred = decimal.NewFromInt(100)

// ShippingProgress 免运费进度
type ShippingProgress struct {
	// Percent 0..100，保留两位小数
	Percent decimal.Decimal
	// Remaining 距离门槛的差额（EUR），不小于 0
	Remaining decimal.Decimal
	Qualified bool
}

// FreeShippingProgress 以 EUR 计算进度；门槛不大于 0 时视为已达标
func FreeShippingProgress(totalEUR, threshold decimal.Decimal) ShippingProgress {
	if !threshold.IsPositive() {
		return ShippingProgress{Percent: hundred, Remaining: decimal.Zero, Qualified: true}
	}

	percent := decimal.Min(totalEUR.Mul(hundred).DivRound(threshold, 2), hundred)
	return ShippingProgress{
		Percent:   percent,
		Remaining: decimal.Max(threshold.Sub(totalEUR), decimal.Zero),
		Qualified: totalEUR.GreaterThanOrEqual(threshold),
	}
}
