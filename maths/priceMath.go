package maths

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// quotePrecision is the decimal precision used for intermediate divisions.
// Large enough that the only loss on the contract surface is the final floor.
const quotePrecision = 48

var twoPow64Decimal = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0)

var twoPow128Decimal = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0)

// decimalSqrt computes √x at ~60 significant digits via big.Float.
func decimalSqrt(x decimal.Decimal) decimal.Decimal {
	s := new(big.Float).SetPrec(200).Sqrt(x.BigFloat().SetPrec(200))
	out, _ := decimal.NewFromString(s.Text('f', -1))
	return out
}

// PriceToSqrtPrice converts a human-readable token-B-per-token-A price into
// the Q64.64 sqrt price the ledger program operates on:
//
//	sqrtPrice = floor(sqrt(price / 10^(tokenADecimal-tokenBDecimal)) * 2^64)
//
// The final value is truncated, never rounded up.
func PriceToSqrtPrice(price decimal.Decimal, tokenADecimal, tokenBDecimal uint8) (*big.Int, error) {
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("price %s: %w", price, ErrInvalidRange)
	}

	// 10^(tokenADecimal - tokenBDecimal)
	decimalsAdjustment := decimal.New(1, int32(tokenADecimal)-int32(tokenBDecimal))
	adjusted := price.DivRound(decimalsAdjustment, quotePrecision)

	return decimalSqrt(adjusted).Mul(twoPow64Decimal).Floor().BigInt(), nil
}

// SqrtPriceToPrice is the inverse relation:
//
//	price = sqrtPrice^2 / 2^128 * 10^(tokenADecimal-tokenBDecimal)
//
// Round-trip through PriceToSqrtPrice is approximate, not exact, because of
// the floor truncation there.
func SqrtPriceToPrice(sqrtPrice *big.Int, tokenADecimal, tokenBDecimal uint8) (decimal.Decimal, error) {
	if sqrtPrice.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("sqrt price %s: %w", sqrtPrice, ErrInvalidRange)
	}

	d := decimal.NewFromBigInt(sqrtPrice, 0)
	price := d.Mul(d).DivRound(twoPow128Decimal, quotePrecision)
	return price.Mul(decimal.New(1, int32(tokenADecimal)-int32(tokenBDecimal))), nil
}

// CalculateInitSqrtPrice calculates the initial sqrt price based on token amounts and price bounds.
//
// a = L * (1/s - 1/pb)
//
// b = L * (s - pa)
//
// b/a = (s - pa) / (1/s - 1/pb)
//
// With: x = 1 / pb and y = b/a
//
// => s ^ 2 + s * (-pa + x * y) - y = 0
//
// s = [(pa - xy) + √((xy - pa)² + 4y)]/2
func CalculateInitSqrtPrice(
	tokenAAmount, tokenBAmount, minSqrtPrice, maxSqrtPrice *big.Int,
) (*big.Int, error) {
	if tokenAAmount.Sign() == 0 || tokenBAmount.Sign() == 0 {
		return nil, ErrZeroAmount
	}

	amountADecimal, amountBDecimal :=
		new(big.Float).SetInt(tokenAAmount), new(big.Float).SetInt(tokenBAmount)

	minSqrtPriceDecimal := new(big.Float).Quo(
		new(big.Float).SetInt(minSqrtPrice), big.NewFloat(math.Pow(2, 64)),
	)

	maxSqrtPriceDecimal := new(big.Float).Quo(
		new(big.Float).SetInt(maxSqrtPrice), big.NewFloat(math.Pow(2, 64)),
	)

	x, y :=
		new(big.Float).Quo(big.NewFloat(1), maxSqrtPriceDecimal),
		new(big.Float).Quo(amountBDecimal, amountADecimal)
	xy := new(big.Float).Mul(x, y)

	paMinusXY, xyMinusPa :=
		new(big.Float).Sub(minSqrtPriceDecimal, xy),
		new(big.Float).Sub(xy, minSqrtPriceDecimal)

	fourY := new(big.Float).Mul(big.NewFloat(4), y)
	discriminant := new(big.Float).Add(
		new(big.Float).Mul(xyMinusPa, xyMinusPa),
		fourY,
	)

	// sqrt_discriminant = √discriminant
	discriminant.Sqrt(discriminant)

	result := new(big.Float).Mul(
		new(big.Float).Quo(new(big.Float).Add(discriminant, paMinusXY), big.NewFloat(2)),
		big.NewFloat(math.Pow(2, 64)),
	)

	r, _ := result.Int(nil)
	return r, nil
}
