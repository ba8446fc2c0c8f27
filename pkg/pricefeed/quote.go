package pricefeed

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FallbackPrice is reported when no live price could be obtained.
var FallbackPrice = decimal.NewFromInt(1)

// Quote is a price together with whether it came from the price source.
type Quote struct {
	Price decimal.Decimal
	Fresh bool
	// Reason explains why a stale quote was returned.
	Reason string
}

func Fresh(price decimal.Decimal) Quote {
	return Quote{Price: price, Fresh: true}
}

func Stale(price decimal.Decimal, reason string) Quote {
	return Quote{Price: price, Reason: reason}
}

// Float returns the price as a float64, as consumed by callers that only need an approximate number.
func (q Quote) Float() float64 {
	f, _ := q.Price.Float64()
	return f
}

// Scaled returns the price multiplied by 10^decimals and truncated, for on-chain integer prices.
func (q Quote) Scaled(decimals int32) *big.Int {
	return q.Price.Shift(decimals).Truncate(0).BigInt()
}
