package helpers

import (
	"fmt"
	"math/big"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"

	"github.com/MeteoraAg/cp-amm-sdk/constants"
	"github.com/MeteoraAg/cp-amm-sdk/maths"
	"github.com/MeteoraAg/cp-amm-sdk/types"
)

// slippageToBps converts a percent with up to two decimal places into basis
// points. Anything finer than a basis point is rejected rather than silently
// truncated.
func slippageToBps(rate decimal.Decimal) (*big.Int, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("slippage %s%%: %w", rate, maths.ErrInvalidRange)
	}
	bps := rate.Mul(decimal.NewFromInt(100))
	if !bps.IsInteger() {
		return nil, fmt.Errorf("slippage %s%% finer than a basis point: %w", rate, maths.ErrInvalidRange)
	}
	return bps.BigInt(), nil
}

// GetMinAmountWithSlippage returns the least acceptable amount after applying
// the slippage tolerance, rounded against the user.
//
// - amount: the quoted amount.
//
// - rate: the slippage tolerance as a percent (e.g. 0.5 for 0.5%).
func GetMinAmountWithSlippage(amount *big.Int, rate decimal.Decimal) (*big.Int, error) {
	bps, err := slippageToBps(rate)
	if err != nil {
		return nil, err
	}
	return maths.MulDiv(
		amount,
		new(big.Int).Sub(big.NewInt(constants.BasisPointMax), bps),
		big.NewInt(constants.BasisPointMax),
		types.RoundingDown,
	), nil
}

// GetMaxAmountWithSlippage returns the most the user is willing to pay after
// applying the slippage tolerance, rounded against the user.
func GetMaxAmountWithSlippage(amount *big.Int, rate decimal.Decimal) (*big.Int, error) {
	bps, err := slippageToBps(rate)
	if err != nil {
		return nil, err
	}
	return maths.MulDiv(
		amount,
		new(big.Int).Add(big.NewInt(constants.BasisPointMax), bps),
		big.NewInt(constants.BasisPointMax),
		types.RoundingUp,
	), nil
}

// GetPriceImpact measures how far the execution fell short of the spot-price
// ideal, as a percent:
//
//	(idealAmount - actualAmount) * 100 / idealAmount
func GetPriceImpact(actualAmount, idealAmount *big.Int) decimal.Decimal {
	if idealAmount.Sign() == 0 {
		return decimal.Zero
	}
	ideal := decimal.NewFromBigInt(idealAmount, 0)
	actual := decimal.NewFromBigInt(actualAmount, 0)
	return ideal.Sub(actual).Mul(decimal.NewFromInt(100)).DivRound(ideal, 8)
}

// GetPriceImpactFromSqrtPrices is the sqrt-price form of the same measure.
// The decimals adjustment cancels out of the ratio:
//
//	|nextSqrtPrice² - currentSqrtPrice²| * 100 / currentSqrtPrice²
func GetPriceImpactFromSqrtPrices(nextSqrtPrice, currentSqrtPrice *big.Int) decimal.Decimal {
	if currentSqrtPrice.Sign() == 0 {
		return decimal.Zero
	}
	next := decimal.NewFromBigInt(nextSqrtPrice, 0)
	current := decimal.NewFromBigInt(currentSqrtPrice, 0)

	nextSquared := next.Mul(next)
	currentSquared := current.Mul(current)

	return nextSquared.Sub(currentSquared).Abs().
		Mul(decimal.NewFromInt(100)).
		DivRound(currentSquared, 8)
}

func BigIntToUint128(b *big.Int) (ag_binary.Uint128, error) {
	if b.Sign() < 0 {
		return ag_binary.Uint128{}, fmt.Errorf("value must be unsigned: %w", maths.ErrArithmeticOverflow)
	}

	if b.BitLen() > 128 {
		return ag_binary.Uint128{}, fmt.Errorf("value %s exceeds 128 bits: %w", b.String(), maths.ErrArithmeticOverflow)
	}

	var buf [16]byte
	b.FillBytes(buf[:]) // zero-pads on the left

	ag_binary.ReverseBytes(buf[:])

	var u ag_binary.Uint128
	if err := u.UnmarshalWithDecoder(ag_binary.NewBinDecoder(buf[:])); err != nil {
		return ag_binary.Uint128{}, err
	}
	return u, nil
}

// Must helper
func MustBigIntToUint128(b *big.Int) ag_binary.Uint128 {
	v, err := BigIntToUint128(b)
	if err != nil {
		panic(fmt.Errorf("cannot fit big.Int into Uint128: %s", err.Error()))
	}
	return v
}
