package types

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/MeteoraAg/cp-amm-sdk/state"
)

type DynamicFeeParams struct {
	VolatilityAccumulator *big.Int
	BinStep               uint16
	VariableFeeControl    uint32
}

type FeeMode struct {
	FeeOnInput   bool
	FeesOnTokenA bool
	HasReferral  bool
}

// FeeBreakdown attributes a total swap fee. The LP share absorbs any
// flooring residual, so the four parts always sum to the total exactly.
type FeeBreakdown struct {
	LpFee       *big.Int
	ProtocolFee *big.Int
	PartnerFee  *big.Int
	ReferralFee *big.Int
}

type BaseFee struct {
	CliffFeeNumerator *big.Int
	NumberOfPeriod    uint16
	PeriodFrequency   *big.Int
	ReductionFactor   *big.Int
	FeeSchedulerMode  FeeSchedulerMode
}

type DynamicFee struct {
	BinStep                  uint16
	BinStepU128              *big.Int
	FilterPeriod             uint64
	DecayPeriod              uint64
	ReductionFactor          uint64
	MaxVolatilityAccumulator uint64
	VariableFeeControl       uint64
}

type PoolFeesParams struct {
	BaseFee            BaseFee
	ProtocolFeePercent uint8
	PartnerFeePercent  uint8
	ReferralFeePercent uint8
	DynamicFee         *DynamicFee
}

type BaseFeeParams struct {
	CliffFeeNumerator uint64
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
	FeeSchedulerMode  uint8
}

type GetQuoteParams struct {
	InAmount       *big.Int
	InputTokenMint solana.PublicKey
	// Slippage tolerance as a percent with two decimal places (e.g. 0.5 for
	// 0.5%). Converted to integer basis points internally.
	Slippage    decimal.Decimal
	PoolState   *state.PoolAccount
	CurrentTime uint64
	CurrentSlot uint64
	HasReferral bool
}

type GetQuoteResult struct {
	SwapInAmount     *big.Int
	SwapOutAmount    *big.Int
	MinSwapOutAmount *big.Int
	TotalFee         *big.Int
	FeeBreakdown     FeeBreakdown
	NextSqrtPrice    *big.Int
	PriceImpact      decimal.Decimal
}

type GetQuoteExactOutParams struct {
	OutAmount       *big.Int
	OutputTokenMint solana.PublicKey
	Slippage        decimal.Decimal
	PoolState       *state.PoolAccount
	CurrentTime     uint64
	CurrentSlot     uint64
	HasReferral     bool
}

type QuoteExactOutResult struct {
	SwapResult     SwapResult
	InputAmount    *big.Int
	MaxInputAmount *big.Int
	PriceImpact    decimal.Decimal
}

type SwapAmount struct {
	OutputAmount  *big.Int
	NextSqrtPrice *big.Int
}

type SwapResult struct {
	OutputAmount  *big.Int
	NextSqrtPrice *big.Int
	LpFee         *big.Int
	ProtocolFee   *big.Int
	PartnerFee    *big.Int
	ReferralFee   *big.Int
}

type LiquidityDeltaParams struct {
	MaxAmountTokenA *big.Int
	MaxAmountTokenB *big.Int
	SqrtPrice       *big.Int
	SqrtMinPrice    *big.Int
	SqrtMaxPrice    *big.Int
}

type GetDepositQuoteParams struct {
	InAmount     *big.Int
	IsTokenA     bool
	MinSqrtPrice *big.Int
	MaxSqrtPrice *big.Int
	SqrtPrice    *big.Int
}

type DepositQuote struct {
	// The amount used as input.
	ActualInputAmount *big.Int
	// The calculated corresponding amount of the other token.
	OutputAmount *big.Int
	// The amount of liquidity that will be added to the pool.
	LiquidityDelta *big.Int
}

type GetWithdrawQuoteParams struct {
	LiquidityDelta *big.Int
	MinSqrtPrice   *big.Int
	MaxSqrtPrice   *big.Int
	SqrtPrice      *big.Int
}

type WithdrawQuote struct {
	LiquidityDelta *big.Int
	OutAmountA     *big.Int
	OutAmountB     *big.Int
}

type PreparePoolCreationParams struct {
	TokenAAmount *big.Int
	TokenBAmount *big.Int
	MinSqrtPrice *big.Int
	MaxSqrtPrice *big.Int
}

type PreparePoolCreationSingleSideParams struct {
	TokenAAmount  *big.Int
	MinSqrtPrice  *big.Int
	MaxSqrtPrice  *big.Int
	InitSqrtPrice *big.Int
}

type PoolCreationAmounts struct {
	InitSqrtPrice  *big.Int
	LiquidityDelta *big.Int
}

// UnclaimedFeesAndRewards is everything a position could withdraw right now:
// settled-but-unclaimed pendings plus accrual since the last checkpoint.
type UnclaimedFeesAndRewards struct {
	FeeTokenA *big.Int
	FeeTokenB *big.Int
	Rewards   []*big.Int
}

type Vesting struct {
	Account      solana.PublicKey
	VestingState *state.VestingAccount
}
