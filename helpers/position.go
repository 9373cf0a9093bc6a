package helpers

import (
	"fmt"
	"math/big"

	"github.com/MeteoraAg/cp-amm-sdk/constants"
	"github.com/MeteoraAg/cp-amm-sdk/maths"
	"github.com/MeteoraAg/cp-amm-sdk/state"
)

// TotalPositionLiquidity is the sum of a position's unlocked, vested and
// permanently locked liquidity. Fees and rewards accrue on the whole of it.
func TotalPositionLiquidity(position *state.PositionAccount) *big.Int {
	total := position.UnlockedLiquidity.BigInt()
	total.Add(total, position.VestedLiquidity.BigInt())
	total.Add(total, position.PermanentLockedLiquidity.BigInt())
	return total
}

// perLiquidityDelta is the distance from a position checkpoint to the pool
// accumulator, mod 2^256. Accumulators only grow, so after a wrap the pool
// value compares below the checkpoint while the modular difference stays
// the true accrual.
func perLiquidityDelta(poolAccumulator, checkpoint state.U256) *big.Int {
	delta := new(big.Int).Sub(poolAccumulator.BigInt(), checkpoint.BigInt())
	if delta.Sign() < 0 {
		delta.Add(delta, u256Modulus)
	}
	return delta
}

var u256Modulus = new(big.Int).Lsh(big.NewInt(1), 256)

// accrue settles the checkpoint gap onto a liquidity amount:
//
//	pending + ((accumulator - checkpoint) mod 2^256) * liquidity >> 128
func accrue(pending uint64, poolAccumulator, checkpoint state.U256, liquidity *big.Int) *big.Int {
	earned := perLiquidityDelta(poolAccumulator, checkpoint)
	earned.Mul(earned, liquidity)
	earned.Rsh(earned, constants.LiquidityScale)
	return earned.Add(earned, new(big.Int).SetUint64(pending))
}

// GetUnclaimedFees returns the position's claimable swap fees in both tokens:
// the settled pendings plus everything accrued since the last checkpoint.
func GetUnclaimedFees(
	pool *state.PoolAccount, position *state.PositionAccount,
) (feeTokenA, feeTokenB *big.Int) {
	liquidity := TotalPositionLiquidity(position)

	feeTokenA = accrue(
		position.FeeAPending,
		pool.FeeAPerLiquidity,
		position.FeeAPerTokenCheckpoint,
		liquidity,
	)
	feeTokenB = accrue(
		position.FeeBPending,
		pool.FeeBPerLiquidity,
		position.FeeBPerTokenCheckpoint,
		liquidity,
	)
	return feeTokenA, feeTokenB
}

// GetUnclaimedReward returns the position's claimable amount for one reward
// slot. Uninitialized slots yield zero.
func GetUnclaimedReward(
	pool *state.PoolAccount, position *state.PositionAccount, rewardIndex int,
) (*big.Int, error) {
	if rewardIndex < 0 || rewardIndex >= constants.MaxRewards {
		return nil, fmt.Errorf("reward index %d: %w", rewardIndex, maths.ErrInvalidRange)
	}

	poolReward := pool.RewardInfos[rewardIndex]
	if poolReward.Initialized == 0 {
		return big.NewInt(0), nil
	}

	userReward := position.RewardInfos[rewardIndex]
	return accrue(
		userReward.RewardPendings,
		poolReward.RewardPerTokenStored,
		userReward.RewardPerTokenCheckpoint,
		TotalPositionLiquidity(position),
	), nil
}

// GetUnclaimedRewards returns the claimable amounts for every reward slot,
// indexed as the pool stores them.
func GetUnclaimedRewards(
	pool *state.PoolAccount, position *state.PositionAccount,
) []*big.Int {
	rewards := make([]*big.Int, constants.MaxRewards)
	for i := range rewards {
		r, _ := GetUnclaimedReward(pool, position, i)
		rewards[i] = r
	}
	return rewards
}
