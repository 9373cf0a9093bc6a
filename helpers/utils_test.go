package helpers_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeteoraAg/cp-amm-sdk/helpers"
	"github.com/MeteoraAg/cp-amm-sdk/maths"
)

func TestSlippageBounds(t *testing.T) {
	t.Parallel()

	amount := big.NewInt(1_000_000)

	t.Run("one percent either way", func(t *testing.T) {
		minOut, err := helpers.GetMinAmountWithSlippage(amount, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.EqualValues(t, 990_000, minOut.Int64())

		maxIn, err := helpers.GetMaxAmountWithSlippage(amount, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.EqualValues(t, 1_010_000, maxIn.Int64())
	})

	t.Run("half a percent", func(t *testing.T) {
		minOut, err := helpers.GetMinAmountWithSlippage(amount, decimal.RequireFromString("0.5"))
		require.NoError(t, err)
		assert.EqualValues(t, 995_000, minOut.Int64())
	})

	t.Run("zero slippage is the identity", func(t *testing.T) {
		minOut, err := helpers.GetMinAmountWithSlippage(amount, decimal.Zero)
		require.NoError(t, err)
		assert.Zero(t, minOut.Cmp(amount))
	})

	t.Run("rounding favors the pool", func(t *testing.T) {
		// 999 * 9999/10000 = 998.9001 floors; 999 * 10001/10000 = 999.0999 ceils
		minOut, err := helpers.GetMinAmountWithSlippage(big.NewInt(999), decimal.RequireFromString("0.01"))
		require.NoError(t, err)
		assert.EqualValues(t, 998, minOut.Int64())

		maxIn, err := helpers.GetMaxAmountWithSlippage(big.NewInt(999), decimal.RequireFromString("0.01"))
		require.NoError(t, err)
		assert.EqualValues(t, 1_000, maxIn.Int64())
	})

	t.Run("rejects out-of-range rates", func(t *testing.T) {
		_, err := helpers.GetMinAmountWithSlippage(amount, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, maths.ErrInvalidRange)

		_, err = helpers.GetMaxAmountWithSlippage(amount, decimal.NewFromInt(101))
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})

	t.Run("rejects rates finer than a basis point", func(t *testing.T) {
		_, err := helpers.GetMinAmountWithSlippage(amount, decimal.RequireFromString("0.001"))
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})
}

func TestGetPriceImpact(t *testing.T) {
	t.Parallel()

	t.Run("shortfall as a percent of the ideal", func(t *testing.T) {
		out := helpers.GetPriceImpact(big.NewInt(990), big.NewInt(1_000))
		assert.True(t, out.Equal(decimal.NewFromInt(1)), "got %s", out)
	})

	t.Run("zero ideal yields zero", func(t *testing.T) {
		assert.True(t, helpers.GetPriceImpact(big.NewInt(0), big.NewInt(0)).IsZero())
	})

	t.Run("sqrt price form is symmetric in direction", func(t *testing.T) {
		current := new(big.Int).Lsh(big.NewInt(1), 64)
		lower := new(big.Int).Sub(current, big.NewInt(1_000_000_000))

		down := helpers.GetPriceImpactFromSqrtPrices(lower, current)
		assert.True(t, down.IsPositive())
	})
}

func TestBigIntToUint128(t *testing.T) {
	t.Parallel()

	t.Run("round trips through the wire type", func(t *testing.T) {
		for _, v := range []*big.Int{
			big.NewInt(0),
			big.NewInt(123_456_789),
			new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)),
		} {
			u, err := helpers.BigIntToUint128(v)
			require.NoError(t, err)
			assert.Zero(t, u.BigInt().Cmp(v), "value %s", v)
		}
	})

	t.Run("rejects negatives and overflow", func(t *testing.T) {
		_, err := helpers.BigIntToUint128(big.NewInt(-1))
		assert.ErrorIs(t, err, maths.ErrArithmeticOverflow)

		_, err = helpers.BigIntToUint128(new(big.Int).Lsh(big.NewInt(1), 128))
		assert.ErrorIs(t, err, maths.ErrArithmeticOverflow)
	})

	t.Run("must panics on overflow", func(t *testing.T) {
		assert.Panics(t, func() {
			helpers.MustBigIntToUint128(new(big.Int).Lsh(big.NewInt(1), 129))
		})
	})
}
