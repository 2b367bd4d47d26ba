package domain

import "github.com/shopspring/decimal"

// MinorUnits converts a decimal currency amount into integer minor units
// (cents for USD). Rounding is half away from zero; real two-decimal retail
// prices convert exactly, with no float anywhere on the path.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
