package helpers_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeteoraAg/cp-amm-sdk/helpers"
	"github.com/MeteoraAg/cp-amm-sdk/state"
)

func testVesting() *state.VestingAccount {
	return &state.VestingAccount{
		CliffPoint:           1_000,
		PeriodFrequency:      10,
		NumberOfPeriod:       5,
		CliffUnlockLiquidity: helpers.MustBigIntToUint128(big.NewInt(100)),
		LiquidityPerPeriod:   helpers.MustBigIntToUint128(big.NewInt(20)),
	}
}

func TestIsVestingComplete(t *testing.T) {
	t.Parallel()

	vesting := testVesting()

	assert.False(t, helpers.IsVestingComplete(vesting, big.NewInt(1_049)))
	assert.True(t, helpers.IsVestingComplete(vesting, big.NewInt(1_050)))
}

func TestGetAvailableVestingLiquidity(t *testing.T) {
	t.Parallel()

	t.Run("nothing before the cliff", func(t *testing.T) {
		out := helpers.GetAvailableVestingLiquidity(testVesting(), big.NewInt(999))
		assert.Zero(t, out.Sign())
	})

	t.Run("cliff amount at the cliff", func(t *testing.T) {
		out := helpers.GetAvailableVestingLiquidity(testVesting(), big.NewInt(1_000))
		assert.EqualValues(t, 100, out.Int64())
	})

	t.Run("periods unlock linearly", func(t *testing.T) {
		out := helpers.GetAvailableVestingLiquidity(testVesting(), big.NewInt(1_030))
		// cliff 100 + 3 periods * 20
		assert.EqualValues(t, 160, out.Int64())
	})

	t.Run("periods cap at numberOfPeriod", func(t *testing.T) {
		out := helpers.GetAvailableVestingLiquidity(testVesting(), big.NewInt(10_000))
		assert.EqualValues(t, 200, out.Int64())
	})

	t.Run("released liquidity is deducted", func(t *testing.T) {
		vesting := testVesting()
		vesting.TotalReleasedLiquidity = helpers.MustBigIntToUint128(big.NewInt(150))
		out := helpers.GetAvailableVestingLiquidity(vesting, big.NewInt(10_000))
		assert.EqualValues(t, 50, out.Int64())
	})

	t.Run("zero frequency unlocks only the cliff", func(t *testing.T) {
		vesting := testVesting()
		vesting.PeriodFrequency = 0
		out := helpers.GetAvailableVestingLiquidity(vesting, big.NewInt(10_000))
		assert.EqualValues(t, 100, out.Int64())
	})
}
