// Package units converts between on-chain fixed-point integers and the
// decimal values exposed over HTTP. On-chain amounts are integers scaled by a
// fixed power of ten: 6 for the stable token, 18 for tranche share tokens.
// This package is the single place responsible for that scaling.
package units

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Token scales used by the deployed contracts.
const (
	// StableTokenDecimals is the fixed-point scale of the stable token (USDC).
	StableTokenDecimals int32 = 6
	// ShareTokenDecimals is the fixed-point scale of tranche share tokens.
	ShareTokenDecimals int32 = 18
)

// ErrInvalidAmount reports an amount that cannot be represented on-chain
// (negative, or not a finite number).
var ErrInvalidAmount = errors.New("invalid amount")

// ToChainUnits multiplies v by 10^exponent and truncates to an integer.
// Values exactly representable with at most exponent fractional digits
// round-trip through ToDecimal without loss; extra fractional digits are
// truncated, not rounded.
func ToChainUnits(v decimal.Decimal, exponent int32) (*big.Int, error) {
	if v.IsNegative() {
		return nil, fmt.Errorf("%w: negative value %s", ErrInvalidAmount, v)
	}
	return v.Shift(exponent).Truncate(0).BigInt(), nil
}

// ToDecimal divides a chain-scaled integer by 10^exponent. The division is
// exact: no precision is lost in this direction.
func ToDecimal(v *big.Int, exponent int32) decimal.Decimal {
	return decimal.NewFromBigInt(v, -exponent)
}

// ParseAmount parses a user-supplied amount string. Non-numeric input,
// including NaN and infinities, fails with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}
