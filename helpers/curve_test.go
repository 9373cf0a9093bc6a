package helpers_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeteoraAg/cp-amm-sdk/constants"
	"github.com/MeteoraAg/cp-amm-sdk/helpers"
	"github.com/MeteoraAg/cp-amm-sdk/maths"
	"github.com/MeteoraAg/cp-amm-sdk/types"
)

func q64(v int64) *big.Int {
	return new(big.Int).Lsh(big.NewInt(v), 64)
}

func TestGetNextSqrtPrice(t *testing.T) {
	t.Parallel()

	t.Run("zero amount leaves the price untouched", func(t *testing.T) {
		out, err := helpers.GetNextSqrtPrice(big.NewInt(0), q64(1), q64(1), true)
		require.NoError(t, err)
		assert.Zero(t, out.Cmp(q64(1)))
	})

	t.Run("aToB moves the price down", func(t *testing.T) {
		// L = 1<<128, √P = 1<<64, Δx = 1<<64:
		// next = ceil(1<<192 / (1<<128 + 1<<128)) = 1<<63
		liquidity := new(big.Int).Lsh(big.NewInt(1), 128)
		out, err := helpers.GetNextSqrtPrice(q64(1), q64(1), liquidity, true)
		require.NoError(t, err)
		assert.Zero(t, out.Cmp(new(big.Int).Lsh(big.NewInt(1), 63)))
	})

	t.Run("bToA moves the price up by amount<<128/L", func(t *testing.T) {
		liquidity := new(big.Int).Lsh(big.NewInt(1), 128)
		out, err := helpers.GetNextSqrtPrice(big.NewInt(1_000), q64(1), liquidity, false)
		require.NoError(t, err)

		want := new(big.Int).Add(q64(1), big.NewInt(1_000))
		assert.Zero(t, out.Cmp(want))
	})

	t.Run("rejects zero liquidity", func(t *testing.T) {
		_, err := helpers.GetNextSqrtPrice(big.NewInt(1), q64(1), big.NewInt(0), true)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})

	t.Run("rejects non-positive sqrt price", func(t *testing.T) {
		_, err := helpers.GetNextSqrtPrice(big.NewInt(1), big.NewInt(0), q64(1), false)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})
}

func TestLiquidityDeltaRoundTrip(t *testing.T) {
	t.Parallel()

	var (
		minSqrtPrice = q64(1)
		maxSqrtPrice = q64(4)
		sqrtPrice    = q64(2)
		amountA      = big.NewInt(1_000_000_000)
		amountB      = big.NewInt(3_000_000_000)
	)

	t.Run("amounts recovered from a delta never exceed the inputs", func(t *testing.T) {
		liquidityFromA, err := helpers.GetLiquidityDeltaFromAmountA(amountA, sqrtPrice, maxSqrtPrice)
		require.NoError(t, err)
		liquidityFromB, err := helpers.GetLiquidityDeltaFromAmountB(amountB, minSqrtPrice, sqrtPrice)
		require.NoError(t, err)

		liquidity := maths.MinBigInt(liquidityFromA, liquidityFromB)

		backA := helpers.GetAmountAFromLiquidityDelta(liquidity, sqrtPrice, maxSqrtPrice, types.RoundingUp)
		backB := helpers.GetAmountBFromLiquidityDelta(liquidity, minSqrtPrice, sqrtPrice, types.RoundingUp)

		assert.True(t, backA.Cmp(amountA) <= 0, "token A: %s > %s", backA, amountA)
		assert.True(t, backB.Cmp(amountB) <= 0, "token B: %s > %s", backB, amountB)
	})

	t.Run("delta from amounts is monotone in the budget", func(t *testing.T) {
		small, err := helpers.GetLiquidityDeltaFromAmountA(big.NewInt(1_000), sqrtPrice, maxSqrtPrice)
		require.NoError(t, err)
		large, err := helpers.GetLiquidityDeltaFromAmountA(big.NewInt(2_000), sqrtPrice, maxSqrtPrice)
		require.NoError(t, err)
		assert.Equal(t, -1, small.Cmp(large))
	})

	t.Run("coincident prices are rejected", func(t *testing.T) {
		_, err := helpers.GetLiquidityDeltaFromAmountA(amountA, sqrtPrice, sqrtPrice)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)

		_, err = helpers.GetLiquidityDeltaFromAmountB(amountB, sqrtPrice, sqrtPrice)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})
}

func TestGetAmountBFromLiquidityDelta(t *testing.T) {
	t.Parallel()

	// L = 1<<128 scales the Q64.64 price delta back to token units
	liquidity := new(big.Int).Lsh(big.NewInt(1), 128)
	out := helpers.GetAmountBFromLiquidityDelta(liquidity, q64(1), q64(3), types.RoundingDown)
	assert.Zero(t, out.Cmp(q64(2)))
}

func TestGetSwapAmount(t *testing.T) {
	t.Parallel()

	var (
		liquidity     = new(big.Int).Lsh(big.NewInt(1_000_000_000_000), 64)
		sqrtPrice     = q64(1)
		onePercentFee = big.NewInt(constants.FeeDenominator / 100)
		inAmount      = big.NewInt(1_000_000)
	)

	t.Run("fee on output for aToB under both-token mode", func(t *testing.T) {
		out, err := helpers.GetSwapAmount(
			inAmount, sqrtPrice, liquidity,
			constants.MinSqrtPrice, constants.MaxSqrtPrice,
			onePercentFee, true, types.CollectFeeModeBothToken,
		)
		require.NoError(t, err)

		assert.True(t, out.AmountOut.Sign() > 0)
		assert.True(t, out.TotalFee.Sign() > 0)
		assert.Equal(t, -1, out.NextSqrtPrice.Cmp(sqrtPrice))

		// net output plus fee is the gross curve output
		gross := helpers.GetAmountBFromLiquidityDelta(
			liquidity, out.NextSqrtPrice, sqrtPrice, types.RoundingDown,
		)
		assert.Zero(t, new(big.Int).Add(out.AmountOut, out.TotalFee).Cmp(gross))
	})

	t.Run("fee on input for bToA under only-B mode", func(t *testing.T) {
		out, err := helpers.GetSwapAmount(
			inAmount, sqrtPrice, liquidity,
			constants.MinSqrtPrice, constants.MaxSqrtPrice,
			onePercentFee, false, types.CollectFeeModeOnlyB,
		)
		require.NoError(t, err)

		// 1% of the input, rounded up
		assert.EqualValues(t, 10_000, out.TotalFee.Int64())
		assert.Equal(t, 1, out.NextSqrtPrice.Cmp(sqrtPrice))
	})

	t.Run("fill stops at the lower bound", func(t *testing.T) {
		out, err := helpers.GetSwapAmount(
			inAmount, constants.MinSqrtPrice, liquidity,
			constants.MinSqrtPrice, constants.MaxSqrtPrice,
			onePercentFee, true, types.CollectFeeModeBothToken,
		)
		require.NoError(t, err)

		assert.Zero(t, out.AmountOut.Sign())
		assert.Zero(t, out.NextSqrtPrice.Cmp(constants.MinSqrtPrice))
	})

	t.Run("pool pinned at the upper bound yields nothing for B input", func(t *testing.T) {
		out, err := helpers.GetSwapAmount(
			inAmount, constants.MaxSqrtPrice, liquidity,
			constants.MinSqrtPrice, constants.MaxSqrtPrice,
			onePercentFee, false, types.CollectFeeModeOnlyB,
		)
		require.NoError(t, err)

		assert.Zero(t, out.AmountOut.Sign())
		assert.Zero(t, out.NextSqrtPrice.Cmp(constants.MaxSqrtPrice))
	})

	t.Run("fill stops at the upper bound", func(t *testing.T) {
		thinLiquidity := new(big.Int).Lsh(big.NewInt(1), 128)
		out, err := helpers.GetSwapAmount(
			q64(2), q64(1), thinLiquidity,
			constants.MinSqrtPrice, q64(2),
			onePercentFee, false, types.CollectFeeModeBothToken,
		)
		require.NoError(t, err)

		assert.Zero(t, out.NextSqrtPrice.Cmp(q64(2)))
		// output is what the curve yields between √P=1 and the bound
		gross := helpers.GetAmountAFromLiquidityDelta(
			thinLiquidity, q64(1), q64(2), types.RoundingDown,
		)
		assert.Zero(t, new(big.Int).Add(out.AmountOut, out.TotalFee).Cmp(gross))
	})
}

func TestGetNextSqrtPriceFromOutput(t *testing.T) {
	t.Parallel()

	liquidity := new(big.Int).Lsh(big.NewInt(1), 128)

	t.Run("token B output lowers the price", func(t *testing.T) {
		out, err := helpers.GetNextSqrtPriceFromOutput(q64(2), liquidity, big.NewInt(1_000), true)
		require.NoError(t, err)
		assert.Zero(t, out.Cmp(new(big.Int).Sub(q64(2), big.NewInt(1_000))))
	})

	t.Run("token A output raises the price", func(t *testing.T) {
		out, err := helpers.GetNextSqrtPriceFromOutput(q64(2), liquidity, big.NewInt(0), false)
		require.NoError(t, err)
		assert.Zero(t, out.Cmp(q64(2)))
	})

	t.Run("output beyond curve capacity errors", func(t *testing.T) {
		_, err := helpers.GetNextSqrtPriceFromOutput(q64(2), liquidity, q64(1), false)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})

	t.Run("rejects non-positive sqrt price", func(t *testing.T) {
		_, err := helpers.GetNextSqrtPriceFromOutput(big.NewInt(0), liquidity, big.NewInt(1), true)
		assert.ErrorIs(t, err, maths.ErrInvalidRange)
	})

	t.Run("empty pool errors on both branches", func(t *testing.T) {
		for _, isB := range []bool{true, false} {
			_, err := helpers.GetNextSqrtPriceFromOutput(q64(1), big.NewInt(0), big.NewInt(1_000), isB)
			assert.ErrorIs(t, err, maths.ErrInvalidRange, "isB=%v", isB)
		}
	})
}
