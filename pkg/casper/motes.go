package casper

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MotesPerCSPR is the number of motes in one CSPR.
const MotesPerCSPR = 1_000_000_000

var motesPerCSPR = decimal.NewFromInt(MotesPerCSPR)

// CSPRToMotes converts a decimal CSPR amount such as "12.5" to motes. Fractions of a mote are rejected.
func CSPRToMotes(cspr string) (*big.Int, error) {
	d, err := decimal.NewFromString(cspr)
	if err != nil {
		return nil, fmt.Errorf("invalid CSPR amount %q: %w", cspr, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid CSPR amount %q: negative", cspr)
	}
	motes := d.Mul(motesPerCSPR)
	if !motes.Equal(motes.Truncate(0)) {
		return nil, fmt.Errorf("invalid CSPR amount %q: more than 9 decimal places", cspr)
	}
	return motes.BigInt(), nil
}

// MotesToCSPR renders motes as a decimal CSPR string.
func MotesToCSPR(motes *big.Int) string {
	return decimal.NewFromBigInt(motes, 0).Div(motesPerCSPR).String()
}
