package maths_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeteoraAg/cp-amm-sdk/constants"
	"github.com/MeteoraAg/cp-amm-sdk/maths"
)

func TestPriceToSqrtPrice(t *testing.T) {
	t.Parallel()

	t.Run("unit price with equal decimals is 2^64", func(t *testing.T) {
		out, err := maths.PriceToSqrtPrice(decimal.NewFromInt(1), 9, 9)
		require.NoError(t, err)
		assert.Zero(t, out.Cmp(new(big.Int).Lsh(big.NewInt(1), 64)))
	})

	t.Run("price of four doubles the sqrt", func(t *testing.T) {
		out, err := maths.PriceToSqrtPrice(decimal.NewFromInt(4), 6, 6)
		require.NoError(t, err)
		assert.Zero(t, out.Cmp(new(big.Int).Lsh(big.NewInt(1), 65)))
	})

	t.Run("decimals adjustment shifts the price", func(t *testing.T) {
		// price 1 with 9/6 decimals is a raw ratio of 1e-3
		withAdjustment, err := maths.PriceToSqrtPrice(decimal.NewFromInt(1), 9, 6)
		require.NoError(t, err)

		raw, err := maths.PriceToSqrtPrice(decimal.NewFromFloat(0.001), 6, 6)
		require.NoError(t, err)

		assert.Zero(t, withAdjustment.Cmp(raw))
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		_, err := maths.PriceToSqrtPrice(decimal.Zero, 9, 9)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)

		_, err = maths.PriceToSqrtPrice(decimal.NewFromInt(-1), 9, 9)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})
}

func TestSqrtPriceToPrice(t *testing.T) {
	t.Parallel()

	t.Run("2^64 is unit price", func(t *testing.T) {
		out, err := maths.SqrtPriceToPrice(new(big.Int).Lsh(big.NewInt(1), 64), 9, 9)
		require.NoError(t, err)
		assert.True(t, out.Equal(decimal.NewFromInt(1)), "got %s", out)
	})

	t.Run("rejects non-positive sqrt price", func(t *testing.T) {
		_, err := maths.SqrtPriceToPrice(big.NewInt(0), 9, 9)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})

	t.Run("round trip stays within a part per billion", func(t *testing.T) {
		tolerance := decimal.New(1, -9)
		for _, tc := range []struct {
			price                        string
			tokenADecimal, tokenBDecimal uint8
		}{
			{"1", 9, 9},
			{"0.000001", 9, 6},
			{"152.337", 6, 6},
			{"98765432.1", 6, 9},
		} {
			price := decimal.RequireFromString(tc.price)

			sqrtPrice, err := maths.PriceToSqrtPrice(price, tc.tokenADecimal, tc.tokenBDecimal)
			require.NoError(t, err)

			back, err := maths.SqrtPriceToPrice(sqrtPrice, tc.tokenADecimal, tc.tokenBDecimal)
			require.NoError(t, err)

			relErr := back.Sub(price).Abs().Div(price)
			assert.True(t, relErr.LessThan(tolerance),
				"price %s: round trip %s off by %s", tc.price, back, relErr)
		}
	})
}

func TestCalculateInitSqrtPrice(t *testing.T) {
	t.Parallel()

	t.Run("rejects zero amounts", func(t *testing.T) {
		_, err := maths.CalculateInitSqrtPrice(
			big.NewInt(0), big.NewInt(1), constants.MinSqrtPrice, constants.MaxSqrtPrice,
		)
		assert.ErrorIs(t, err, maths.ErrZeroAmount)

		_, err = maths.CalculateInitSqrtPrice(
			big.NewInt(1), big.NewInt(0), constants.MinSqrtPrice, constants.MaxSqrtPrice,
		)
		assert.ErrorIs(t, err, maths.ErrZeroAmount)
	})

	t.Run("result stays inside the bounds", func(t *testing.T) {
		out, err := maths.CalculateInitSqrtPrice(
			big.NewInt(1_000_000_000),
			big.NewInt(2_000_000_000),
			constants.MinSqrtPrice,
			constants.MaxSqrtPrice,
		)
		require.NoError(t, err)
		assert.True(t, out.Cmp(constants.MinSqrtPrice) > 0)
		assert.True(t, out.Cmp(constants.MaxSqrtPrice) < 0)
	})
}
