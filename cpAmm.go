// Package cpammsdk provides quoting, fee scheduling and accrual math for
// DAMM v2 constant-product pools with bounded sqrt-price ranges. All pool
// math runs on math/big integers in the same fixed-point scales the on-chain
// program uses; nothing here signs or sends transactions.
package cpammsdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"github.com/MeteoraAg/cp-amm-sdk/helpers"
	"github.com/MeteoraAg/cp-amm-sdk/maths"
	"github.com/MeteoraAg/cp-amm-sdk/state"
	"github.com/MeteoraAg/cp-amm-sdk/types"
)

// CpAMM program ID.
var CpAMMProgramId = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")

// CpAMM is the read-side client for the DAMM-V2 program.
type CpAMM struct {
	conn *rpc.Client
}

func NewCpAMM(conn *rpc.Client) *CpAMM {
	return &CpAMM{conn: conn}
}

//// ANCHOR: GETTER/FETCHER FUNCTIONS //////

func (cp *CpAMM) fetchAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	out, err := cp.conn.GetAccountInfo(ctx, account)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("account: %s not found", account.String())
	}
	return out.Value.Data.GetBinary(), nil
}

// FetchPoolState fetches and decodes the Pool state.
func (cp *CpAMM) FetchPoolState(ctx context.Context, pool solana.PublicKey) (*state.PoolAccount, error) {
	data, err := cp.fetchAccountData(ctx, pool)
	if err != nil {
		return nil, err
	}
	return state.DecodePoolAccount(data)
}

// FetchPositionState fetches and decodes the Position state.
func (cp *CpAMM) FetchPositionState(ctx context.Context, position solana.PublicKey) (*state.PositionAccount, error) {
	data, err := cp.fetchAccountData(ctx, position)
	if err != nil {
		return nil, err
	}
	return state.DecodePositionAccount(data)
}

// FetchVestingState fetches and decodes the Vesting state.
func (cp *CpAMM) FetchVestingState(ctx context.Context, vesting solana.PublicKey) (*state.VestingAccount, error) {
	data, err := cp.fetchAccountData(ctx, vesting)
	if err != nil {
		return nil, err
	}
	return state.DecodeVestingAccount(data)
}

// FetchConfigState fetches and decodes the Config state.
func (cp *CpAMM) FetchConfigState(ctx context.Context, config solana.PublicKey) (*state.ConfigAccount, error) {
	data, err := cp.fetchAccountData(ctx, config)
	if err != nil {
		return nil, err
	}
	return state.DecodeConfigAccount(data)
}

type ProgramAccount[T any] struct {
	Account solana.PublicKey
	State   T
}

// GetPositionsByPool retrieves all positions of a pool, sorted by total
// liquidity descending.
func (cp *CpAMM) GetPositionsByPool(
	ctx context.Context, pool solana.PublicKey,
) ([]ProgramAccount[*state.PositionAccount], error) {
	out, err := cp.conn.GetProgramAccountsWithOpts(
		ctx,
		CpAMMProgramId,
		&rpc.GetProgramAccountsOpts{
			Filters: []rpc.RPCFilter{
				helpers.PositionByPoolFilter(pool),
			},
		},
	)
	if err != nil {
		return nil, err
	}

	positions := make([]ProgramAccount[*state.PositionAccount], 0, len(out))
	for _, keyed := range out {
		positionState, err := state.DecodePositionAccount(keyed.Account.Data.GetBinary())
		if err != nil {
			// the filter also matches other account types keyed by pool
			continue
		}
		positions = append(positions, ProgramAccount[*state.PositionAccount]{
			Account: keyed.Pubkey,
			State:   positionState,
		})
	}

	slices.SortFunc(positions, func(a, b ProgramAccount[*state.PositionAccount]) int {
		return helpers.TotalPositionLiquidity(b.State).
			Cmp(helpers.TotalPositionLiquidity(a.State)) // descending
	})

	return slices.Clip(positions), nil
}

// GetAllVestingsByPosition retrieves all vesting accounts locked against a
// position.
func (cp *CpAMM) GetAllVestingsByPosition(
	ctx context.Context, position solana.PublicKey,
) ([]types.Vesting, error) {
	out, err := cp.conn.GetProgramAccountsWithOpts(
		ctx,
		CpAMMProgramId,
		&rpc.GetProgramAccountsOpts{
			Filters: []rpc.RPCFilter{
				helpers.VestingByPositionFilter(position),
			},
		},
	)
	if err != nil {
		return nil, err
	}

	vestings := make([]types.Vesting, 0, len(out))
	for _, keyed := range out {
		vestingState, err := state.DecodeVestingAccount(keyed.Account.Data.GetBinary())
		if err != nil {
			continue
		}
		vestings = append(vestings, types.Vesting{
			Account:      keyed.Pubkey,
			VestingState: vestingState,
		})
	}

	return slices.Clip(vestings), nil
}

// GetCurrentPoint resolves the activation clock: the current slot for
// slot-activated pools, the cluster time for timestamp-activated ones.
func (cp *CpAMM) GetCurrentPoint(ctx context.Context, activationType types.ActivationType) (*big.Int, error) {
	slot, err := cp.conn.GetSlot(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, err
	}

	if activationType == types.ActivationTypeSlot {
		return new(big.Int).SetUint64(slot), nil
	}

	blockTime, err := cp.conn.GetBlockTime(ctx, slot)
	if err != nil {
		return nil, err
	}
	if blockTime == nil {
		return nil, fmt.Errorf("no block time for slot %d", slot)
	}
	return big.NewInt(int64(*blockTime)), nil
}

func (cp *CpAMM) IsPoolExist(ctx context.Context, pool solana.PublicKey) bool {
	_, err := cp.FetchPoolState(ctx, pool)
	return err == nil
}

func (cp CpAMM) IsLockedPosition(position *state.PositionAccount) bool {
	totalLockedLiquidity := new(big.Int).Add(
		position.VestedLiquidity.BigInt(),
		position.PermanentLockedLiquidity.BigInt(),
	)
	return totalLockedLiquidity.Sign() == 1
}

func (cp CpAMM) IsPermanentLockedPosition(position *state.PositionAccount) bool {
	return position.PermanentLockedLiquidity.BigInt().Sign() == 1
}

// CanUnlockPosition checks if a position is eligible for operations that
// require unlocked liquidity, such as removing all liquidity or closing the
// position. It checks both permanent locks and time-based vesting schedules.
func (cp CpAMM) CanUnlockPosition(
	positionState *state.PositionAccount,
	vestings []types.Vesting,
	currentPoint *big.Int,
) (canUnlock bool, reason string) {

	if cp.IsPermanentLockedPosition(positionState) {
		return false, "position is permanently locked"
	}

	// we expect only one vesting per position
	for _, vesting := range vestings {
		if !helpers.IsVestingComplete(vesting.VestingState, currentPoint) {
			return false, "position has incomplete vesting schedule"
		}
	}

	return true, ""
}

//// ANCHOR: QUOTE FUNCTIONS //////

// currentPointFor picks slot or timestamp per the pool's activation type.
func currentPointFor(pool *state.PoolAccount, currentTime, currentSlot uint64) uint64 {
	if types.ActivationType(pool.ActivationType) == types.ActivationTypeTimestamp {
		return currentTime
	}
	return currentSlot
}

func poolFeeNumerator(pool *state.PoolAccount, currentPoint uint64) *big.Int {
	dynamicFeeParams := types.DynamicFeeParams{}
	if h := pool.PoolFees.DynamicFee; h.Initialized != 0 {
		dynamicFeeParams = types.DynamicFeeParams{
			VolatilityAccumulator: h.VolatilityAccumulator.BigInt(),
			BinStep:               h.BinStep,
			VariableFeeControl:    h.VariableFeeControl,
		}
	}

	return helpers.GetFeeNumerator(
		currentPoint,
		new(big.Int).SetUint64(pool.ActivationPoint),
		pool.PoolFees.BaseFee.NumberOfPeriod,
		new(big.Int).SetUint64(pool.PoolFees.BaseFee.PeriodFrequency),
		types.FeeSchedulerMode(pool.PoolFees.BaseFee.FeeSchedulerMode),
		new(big.Int).SetUint64(pool.PoolFees.BaseFee.CliffFeeNumerator),
		new(big.Int).SetUint64(pool.PoolFees.BaseFee.ReductionFactor),
		dynamicFeeParams,
	)
}

// spotOutputAmount is the output inAmount would buy at the current sqrt price
// with unlimited depth, the baseline price impact is measured against.
//
// aToB: out = in * sqrtPrice^2 >> 128. bToA: out = in << 128 / sqrtPrice^2.
func spotOutputAmount(inAmount, sqrtPrice *big.Int, aToB bool) *big.Int {
	priceQ128 := new(big.Int).Mul(sqrtPrice, sqrtPrice)
	if aToB {
		return new(big.Int).Rsh(
			new(big.Int).Mul(inAmount, priceQ128),
			128,
		)
	}
	return new(big.Int).Div(
		new(big.Int).Lsh(inAmount, 128),
		priceQ128,
	)
}

// GetQuote calculates an exact-in swap quote against the pool state. The fill
// stops at the pool's sqrt price bound when the input would push past it, so
// the output can correspond to less input than was offered.
func GetQuote(param types.GetQuoteParams) (types.GetQuoteResult, error) {
	if param.PoolState == nil {
		return types.GetQuoteResult{}, errors.New("missing pool state")
	}
	if param.InAmount == nil || param.InAmount.Sign() <= 0 {
		return types.GetQuoteResult{}, maths.ErrZeroAmount
	}

	pool := param.PoolState
	if !param.InputTokenMint.Equals(pool.TokenAMint) &&
		!param.InputTokenMint.Equals(pool.TokenBMint) {
		return types.GetQuoteResult{}, fmt.Errorf("input mint %s does not belong to the pool", param.InputTokenMint)
	}
	aToB := pool.TokenAMint.Equals(param.InputTokenMint)

	currentPoint := currentPointFor(pool, param.CurrentTime, param.CurrentSlot)
	tradeFeeNumerator := poolFeeNumerator(pool, currentPoint)

	out, err := helpers.GetSwapAmount(
		param.InAmount,
		pool.SqrtPrice.BigInt(),
		pool.Liquidity.BigInt(),
		pool.SqrtMinPrice.BigInt(),
		pool.SqrtMaxPrice.BigInt(),
		tradeFeeNumerator,
		aToB,
		types.CollectFeeMode(pool.CollectFeeMode),
	)
	if err != nil {
		return types.GetQuoteResult{}, err
	}

	feeMode := helpers.GetFeeMode(
		types.CollectFeeMode(pool.CollectFeeMode), !aToB, param.HasReferral,
	)
	breakdown, err := helpers.SplitFees(
		out.TotalFee,
		pool.PoolFees.ProtocolFeePercent,
		pool.PoolFees.PartnerFeePercent,
		pool.PoolFees.ReferralFeePercent,
		param.HasReferral,
	)
	if err != nil {
		return types.GetQuoteResult{}, err
	}

	minSwapOutAmount, err := helpers.GetMinAmountWithSlippage(
		out.AmountOut,
		param.Slippage,
	)
	if err != nil {
		return types.GetQuoteResult{}, err
	}

	// impact compares the curve's pre-fee output against the spot-price ideal
	// for the input the curve actually consumed
	curveInAmount, curveOutAmount := param.InAmount, out.AmountOut
	if feeMode.FeeOnInput {
		curveInAmount = new(big.Int).Sub(param.InAmount, out.TotalFee)
	} else {
		curveOutAmount = new(big.Int).Add(out.AmountOut, out.TotalFee)
	}
	idealOutAmount := spotOutputAmount(curveInAmount, pool.SqrtPrice.BigInt(), aToB)

	return types.GetQuoteResult{
		SwapInAmount:     param.InAmount,
		SwapOutAmount:    out.AmountOut,
		MinSwapOutAmount: minSwapOutAmount,
		TotalFee:         out.TotalFee,
		FeeBreakdown:     breakdown,
		NextSqrtPrice:    out.NextSqrtPrice,
		PriceImpact:      helpers.GetPriceImpact(curveOutAmount, idealOutAmount),
	}, nil
}

// GetQuoteExactOut calculates the input required to receive exactly OutAmount,
// plus the fee attribution for that swap. Unlike exact-in, an output that
// cannot be reached inside the pool's price bounds is an error, not a partial
// fill.
func GetQuoteExactOut(param types.GetQuoteExactOutParams) (types.QuoteExactOutResult, error) {
	if param.PoolState == nil {
		return types.QuoteExactOutResult{}, errors.New("missing pool state")
	}
	if param.OutAmount == nil || param.OutAmount.Sign() <= 0 {
		return types.QuoteExactOutResult{}, maths.ErrZeroAmount
	}

	pool := param.PoolState
	if !param.OutputTokenMint.Equals(pool.TokenAMint) &&
		!param.OutputTokenMint.Equals(pool.TokenBMint) {
		return types.QuoteExactOutResult{}, fmt.Errorf("output mint %s does not belong to the pool", param.OutputTokenMint)
	}

	bToA := pool.TokenAMint.Equals(param.OutputTokenMint)
	tradeDirection := types.TradeDirectionAtoB
	if bToA {
		tradeDirection = types.TradeDirectionBtoA
	}

	currentPoint := currentPointFor(pool, param.CurrentTime, param.CurrentSlot)

	feeMode := helpers.GetFeeMode(
		types.CollectFeeMode(pool.CollectFeeMode), bToA, param.HasReferral,
	)

	out, err := helpers.GetSwapResultFromOutAmount(
		pool,
		param.OutAmount,
		feeMode,
		tradeDirection,
		currentPoint,
	)
	if err != nil {
		return types.QuoteExactOutResult{}, err
	}

	maxInputAmount, err := helpers.GetMaxAmountWithSlippage(
		out.InputAmount,
		param.Slippage,
	)
	if err != nil {
		return types.QuoteExactOutResult{}, err
	}

	return types.QuoteExactOutResult{
		SwapResult:     out.SwapResult,
		InputAmount:    out.InputAmount,
		MaxInputAmount: maxInputAmount,
		PriceImpact: helpers.GetPriceImpactFromSqrtPrices(
			out.SwapResult.NextSqrtPrice,
			pool.SqrtPrice.BigInt(),
		),
	}, nil
}

// GetLiquidityDelta computes the largest liquidity delta both token budgets
// can fund at the current price. At a range edge only the active side
// constrains the result.
func (cp CpAMM) GetLiquidityDelta(param types.LiquidityDeltaParams) (*big.Int, error) {
	atUpperBound := param.SqrtPrice.Cmp(param.SqrtMaxPrice) >= 0
	atLowerBound := param.SqrtPrice.Cmp(param.SqrtMinPrice) <= 0

	if atUpperBound && atLowerBound {
		return nil, fmt.Errorf("degenerate price range: %w", maths.ErrInvalidRange)
	}

	if atUpperBound {
		return helpers.GetLiquidityDeltaFromAmountB(
			param.MaxAmountTokenB,
			param.SqrtMinPrice,
			param.SqrtPrice,
		)
	}
	if atLowerBound {
		return helpers.GetLiquidityDeltaFromAmountA(
			param.MaxAmountTokenA,
			param.SqrtPrice,
			param.SqrtMaxPrice,
		)
	}

	liquidityDeltaFromAmountA, err := helpers.GetLiquidityDeltaFromAmountA(
		param.MaxAmountTokenA,
		param.SqrtPrice,
		param.SqrtMaxPrice,
	)
	if err != nil {
		return nil, err
	}
	liquidityDeltaFromAmountB, err := helpers.GetLiquidityDeltaFromAmountB(
		param.MaxAmountTokenB,
		param.SqrtMinPrice,
		param.SqrtPrice,
	)
	if err != nil {
		return nil, err
	}

	return maths.MinBigInt(liquidityDeltaFromAmountA, liquidityDeltaFromAmountB), nil
}

// GetDepositQuote calculates the matching amount of the other token and the
// liquidity delta for a single-token deposit budget.
func GetDepositQuote(param types.GetDepositQuoteParams) (types.DepositQuote, error) {
	if param.InAmount == nil || param.InAmount.Sign() <= 0 {
		return types.DepositQuote{}, maths.ErrZeroAmount
	}

	var (
		liquidityDelta *big.Int
		outputAmount   *big.Int
		err            error
	)
	if param.IsTokenA {
		liquidityDelta, err = helpers.GetLiquidityDeltaFromAmountA(
			param.InAmount,
			param.SqrtPrice,
			param.MaxSqrtPrice,
		)
		if err != nil {
			return types.DepositQuote{}, err
		}
		outputAmount = helpers.GetAmountBFromLiquidityDelta(
			liquidityDelta,
			param.MinSqrtPrice,
			param.SqrtPrice,
			types.RoundingUp,
		)
	} else {
		liquidityDelta, err = helpers.GetLiquidityDeltaFromAmountB(
			param.InAmount,
			param.MinSqrtPrice,
			param.SqrtPrice,
		)
		if err != nil {
			return types.DepositQuote{}, err
		}
		outputAmount = helpers.GetAmountAFromLiquidityDelta(
			liquidityDelta,
			param.SqrtPrice,
			param.MaxSqrtPrice,
			types.RoundingUp,
		)
	}

	return types.DepositQuote{
		ActualInputAmount: param.InAmount,
		OutputAmount:      outputAmount,
		LiquidityDelta:    liquidityDelta,
	}, nil
}

// GetWithdrawQuote calculates both token amounts a liquidity delta redeems,
// rounded down against the withdrawer.
func GetWithdrawQuote(param types.GetWithdrawQuoteParams) (types.WithdrawQuote, error) {
	if param.LiquidityDelta == nil || param.LiquidityDelta.Sign() <= 0 {
		return types.WithdrawQuote{}, maths.ErrZeroAmount
	}

	return types.WithdrawQuote{
		LiquidityDelta: param.LiquidityDelta,
		OutAmountA: helpers.GetAmountAFromLiquidityDelta(
			param.LiquidityDelta,
			param.SqrtPrice,
			param.MaxSqrtPrice,
			types.RoundingDown,
		),
		OutAmountB: helpers.GetAmountBFromLiquidityDelta(
			param.LiquidityDelta,
			param.MinSqrtPrice,
			param.SqrtPrice,
			types.RoundingDown,
		),
	}, nil
}

// GetUnclaimedFeesAndRewards settles a position's claimables against the
// pool's current accumulators.
func GetUnclaimedFeesAndRewards(
	pool *state.PoolAccount, position *state.PositionAccount,
) types.UnclaimedFeesAndRewards {
	feeTokenA, feeTokenB := helpers.GetUnclaimedFees(pool, position)
	return types.UnclaimedFeesAndRewards{
		FeeTokenA: feeTokenA,
		FeeTokenB: feeTokenB,
		Rewards:   helpers.GetUnclaimedRewards(pool, position),
	}
}

// PreparePoolCreation derives the initial sqrt price and liquidity delta a
// two-sided pool creation deposit funds.
func (cp CpAMM) PreparePoolCreation(param types.PreparePoolCreationParams) (types.PoolCreationAmounts, error) {
	initSqrtPrice, err := maths.CalculateInitSqrtPrice(
		param.TokenAAmount,
		param.TokenBAmount,
		param.MinSqrtPrice,
		param.MaxSqrtPrice,
	)
	if err != nil {
		return types.PoolCreationAmounts{}, err
	}

	liquidityDelta, err := cp.GetLiquidityDelta(types.LiquidityDeltaParams{
		MaxAmountTokenA: param.TokenAAmount,
		MaxAmountTokenB: param.TokenBAmount,
		SqrtPrice:       initSqrtPrice,
		SqrtMinPrice:    param.MinSqrtPrice,
		SqrtMaxPrice:    param.MaxSqrtPrice,
	})
	if err != nil {
		return types.PoolCreationAmounts{}, err
	}

	return types.PoolCreationAmounts{
		InitSqrtPrice:  initSqrtPrice,
		LiquidityDelta: liquidityDelta,
	}, nil
}

// PreparePoolCreationSingleSide derives the liquidity delta a token-A-only
// creation deposit funds at the chosen initial price.
func (cp CpAMM) PreparePoolCreationSingleSide(param types.PreparePoolCreationSingleSideParams) (types.PoolCreationAmounts, error) {
	if param.TokenAAmount == nil || param.TokenAAmount.Sign() <= 0 {
		return types.PoolCreationAmounts{}, maths.ErrZeroAmount
	}
	if param.InitSqrtPrice.Cmp(param.MinSqrtPrice) != 0 {
		return types.PoolCreationAmounts{}, fmt.Errorf("single sided pool must start at its min price: %w", maths.ErrInvalidRange)
	}

	liquidityDelta, err := helpers.GetLiquidityDeltaFromAmountA(
		param.TokenAAmount,
		param.InitSqrtPrice,
		param.MaxSqrtPrice,
	)
	if err != nil {
		return types.PoolCreationAmounts{}, err
	}

	return types.PoolCreationAmounts{
		InitSqrtPrice:  param.InitSqrtPrice,
		LiquidityDelta: liquidityDelta,
	}, nil
}

// SortTokenMints orders two mints the way the program keys pools: the
// byte-wise smaller key is token A. The returned flag reports whether the
// inputs were swapped, in which case a price quoted in the original order
// must be inverted before PriceToSqrtPrice.
func SortTokenMints(tokenX, tokenY solana.PublicKey) (tokenA, tokenB solana.PublicKey, swapped bool) {
	if bytes.Compare(tokenX.Bytes(), tokenY.Bytes()) <= 0 {
		return tokenX, tokenY, false
	}
	return tokenY, tokenX, true
}

// priceInversionPrecision keeps the 1/price inversion well past the Q64.64
// resolution before the sqrt conversion truncates.
const priceInversionPrecision = 48

// PriceToSqrtPriceForMints converts a price quoted in the caller's mint order
// (units of tokenY per unit of tokenX) into the pool-oriented Q64.64 sqrt
// price. When the program's mint ordering swaps the pair, the price is
// inverted and the decimal counts travel with their mints, so the result is
// always the sqrt price the pool itself would carry.
func PriceToSqrtPriceForMints(
	price decimal.Decimal,
	tokenX, tokenY solana.PublicKey,
	tokenXDecimal, tokenYDecimal uint8,
) (tokenA, tokenB solana.PublicKey, sqrtPrice *big.Int, err error) {
	tokenA, tokenB, swapped := SortTokenMints(tokenX, tokenY)

	tokenADecimal, tokenBDecimal := tokenXDecimal, tokenYDecimal
	if swapped {
		if price.Sign() <= 0 {
			return tokenA, tokenB, nil, fmt.Errorf("price %s: %w", price, maths.ErrInvalidRange)
		}
		price = decimal.NewFromInt(1).DivRound(price, priceInversionPrecision)
		tokenADecimal, tokenBDecimal = tokenYDecimal, tokenXDecimal
	}

	sqrtPrice, err = maths.PriceToSqrtPrice(price, tokenADecimal, tokenBDecimal)
	if err != nil {
		return tokenA, tokenB, nil, err
	}
	return tokenA, tokenB, sqrtPrice, nil
}
