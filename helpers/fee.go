package helpers

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/MeteoraAg/cp-amm-sdk/constants"
	"github.com/MeteoraAg/cp-amm-sdk/maths"
	"github.com/MeteoraAg/cp-amm-sdk/state"
	"github.com/MeteoraAg/cp-amm-sdk/types"
)

// GetFeeNumerator calculates the effective fee numerator at currentPoint,
// clamped to [MinFeeNumerator, MaxFeeNumerator].
//
// currentPoint - the current slot or unix timestamp, per the pool's activation type.
//
// activationPoint - the point at which the fee schedule starts decaying.
//
// numberOfPeriod - the total number of decay periods in the schedule.
//
// periodFrequency - how many points one period spans.
//
// feeSchedulerMode - linear or exponential decay.
//
// cliffFeeNumerator - the fee numerator at the cliff.
//
// reductionFactor - the per-period reduction (numerator units for linear, bps for exponential).
//
// dynamicFeeParams - optional volatility surcharge inputs; zero value disables it.
func GetFeeNumerator(
	currentPoint uint64,
	activationPoint *big.Int,
	numberOfPeriod uint16,
	periodFrequency *big.Int,
	feeSchedulerMode types.FeeSchedulerMode,
	cliffFeeNumerator *big.Int,
	reductionFactor *big.Int,
	dynamicFeeParams types.DynamicFeeParams,
) *big.Int {

	if periodFrequency.Sign() == 0 ||
		new(big.Int).SetUint64(currentPoint).Cmp(activationPoint) == -1 {
		return new(big.Int).Set(cliffFeeNumerator)
	}

	hold := new(big.Int).Quo(
		new(big.Int).Sub(new(big.Int).SetUint64(currentPoint), activationPoint),
		periodFrequency,
	)

	// period saturates at numberOfPeriod
	period := new(big.Int).SetUint64(uint64(numberOfPeriod))
	if period.Cmp(hold) == 1 {
		period = hold
	}

	feeNumerator := GetBaseFeeNumerator(
		feeSchedulerMode,
		cliffFeeNumerator,
		period,
		reductionFactor,
	)

	dynamicFeeNumerator := big.NewInt(0)
	if dynamicFeeParams.VolatilityAccumulator != nil {
		dynamicFeeNumerator = GetDynamicFeeNumerator(
			dynamicFeeParams.VolatilityAccumulator,
			new(big.Int).SetUint64(uint64(dynamicFeeParams.BinStep)),
			new(big.Int).SetUint64(uint64(dynamicFeeParams.VariableFeeControl)),
		)
	}

	feeNumerator = new(big.Int).Add(feeNumerator, dynamicFeeNumerator)

	if feeNumerator.Cmp(big.NewInt(constants.MinFeeNumerator)) < 0 {
		return big.NewInt(constants.MinFeeNumerator)
	}
	if feeNumerator.Cmp(big.NewInt(constants.MaxFeeNumerator)) > 0 {
		return big.NewInt(constants.MaxFeeNumerator)
	}
	return feeNumerator
}

// GetBaseFeeNumerator
//
// # Fee scheduler
//
// Linear: cliffFeeNumerator - period * reductionFactor (clamped at zero)
//
// Exponential: cliffFeeNumerator * (1 - reductionFactor/BASIS_POINT_MAX)^period
func GetBaseFeeNumerator(
	feeSchedulerMode types.FeeSchedulerMode,
	cliffFeeNumerator *big.Int,
	period *big.Int,
	reductionFactor *big.Int,
) *big.Int {

	if feeSchedulerMode == types.FeeSchedulerModeLinear {
		out := new(big.Int).Sub(
			cliffFeeNumerator,
			new(big.Int).Mul(reductionFactor, period),
		)
		if out.Sign() < 0 {
			return big.NewInt(0)
		}
		return out
	}

	bps := new(big.Int).Quo(
		new(big.Int).Lsh(reductionFactor, constants.ScaleOffset),
		big.NewInt(constants.BasisPointMax),
	)

	base := new(big.Int).Sub(maths.One, bps)
	result := maths.Pow(base, period)

	return new(big.Int).Rsh(
		new(big.Int).Mul(cliffFeeNumerator, result),
		constants.ScaleOffset,
	)
}

// GetDynamicFeeNumerator calculates the volatility surcharge added on top of
// the scheduled base fee.
//
// volatilityAccumulator - the ledger's accumulated volatility measure.
//
// binStep - the size of price bins in the volatility tracker.
//
// variableFeeControl - scales the impact of volatility; zero disables the surcharge.
func GetDynamicFeeNumerator(
	volatilityAccumulator, binStep, variableFeeControl *big.Int,
) *big.Int {
	if variableFeeControl.Sign() == 0 {
		return big.NewInt(0)
	}

	squareVfaBin := new(big.Int).Exp(
		new(big.Int).Mul(volatilityAccumulator, binStep),
		big.NewInt(2),
		nil,
	)

	vFee := new(big.Int).Mul(variableFeeControl, squareVfaBin)

	// ceiling division against the scaling factor
	return new(big.Int).Quo(
		new(big.Int).Add(vFee, constants.DynamicFeeRoundingOffset),
		constants.DynamicFeeScalingFactor,
	)
}

// GetFeeMode determines which token carries the fee and on which side of the
// swap it is charged.
//
// collectFeeMode - the pool's fee collection mode (BothToken or OnlyB).
//
// bToA - true when the swap is from token B to token A.
func GetFeeMode(collectFeeMode types.CollectFeeMode, bToA, hasReferral bool) types.FeeMode {
	feeOnInput := bToA && collectFeeMode == types.CollectFeeModeOnlyB
	feesOnTokenA := bToA && collectFeeMode == types.CollectFeeModeBothToken
	return types.FeeMode{
		FeeOnInput:   feeOnInput,
		FeesOnTokenA: feesOnTokenA,
		HasReferral:  hasReferral,
	}
}

// GetTotalFeeOnAmount charges tradeFeeNumerator/FeeDenominator on amount,
// rounding in the pool's favor.
func GetTotalFeeOnAmount(amount, tradeFeeNumerator *big.Int) *big.Int {
	return maths.MulDiv(
		amount,
		tradeFeeNumerator,
		big.NewInt(constants.FeeDenominator),
		types.RoundingUp,
	)
}

// SplitFees attributes totalFee to the protocol, partner and referral shares.
// Each share is floored from the total independently; the LP share is the
// residual, so the four parts reassemble totalFee exactly.
func SplitFees(
	totalFee *big.Int,
	protocolFeePercent, partnerFeePercent, referralFeePercent uint8,
	hasReferral bool,
) (types.FeeBreakdown, error) {
	sum := uint64(protocolFeePercent) + uint64(partnerFeePercent)
	if hasReferral {
		sum += uint64(referralFeePercent)
	}
	if sum > 100 {
		return types.FeeBreakdown{}, fmt.Errorf("fee percents sum to %d: %w", sum, maths.ErrInvalidRange)
	}

	hundred := big.NewInt(100)
	protocolFee := maths.MulDiv(
		totalFee,
		new(big.Int).SetUint64(uint64(protocolFeePercent)),
		hundred,
		types.RoundingDown,
	)
	partnerFee := maths.MulDiv(
		totalFee,
		new(big.Int).SetUint64(uint64(partnerFeePercent)),
		hundred,
		types.RoundingDown,
	)
	referralFee := big.NewInt(0)
	if hasReferral {
		referralFee = maths.MulDiv(
			totalFee,
			new(big.Int).SetUint64(uint64(referralFeePercent)),
			hundred,
			types.RoundingDown,
		)
	}

	lpFee := new(big.Int).Sub(totalFee, protocolFee)
	lpFee.Sub(lpFee, partnerFee)
	lpFee.Sub(lpFee, referralFee)

	return types.FeeBreakdown{
		LpFee:       lpFee,
		ProtocolFee: protocolFee,
		PartnerFee:  partnerFee,
		ReferralFee: referralFee,
	}, nil
}

// GetSwapAmount runs an exact-in swap against the bounded curve. The price is
// clamped at the pool's sqrt bounds: when the input would push past a bound,
// the fill stops there and the output is whatever the curve yields down to it.
//
// inAmount - the input amount of tokens the user is swapping.
//
// sqrtPrice, liquidity - the pool's current state.
//
// sqrtMinPrice, sqrtMaxPrice - the pool's configured price bounds.
//
// tradeFeeNumerator - the effective fee numerator for this swap.
//
// aToB - swap direction, true for token A in / token B out.
//
// collectFeeMode - which token the pool collects fees in.
func GetSwapAmount(
	inAmount, sqrtPrice, liquidity, sqrtMinPrice, sqrtMaxPrice, tradeFeeNumerator *big.Int,
	aToB bool, collectFeeMode types.CollectFeeMode,
) (*struct{ AmountOut, TotalFee, NextSqrtPrice *big.Int }, error) {

	feeMode, actualInAmount, totalFee := GetFeeMode(collectFeeMode, !aToB, false),
		inAmount, big.NewInt(0)
	if feeMode.FeeOnInput {
		totalFee = GetTotalFeeOnAmount(inAmount, tradeFeeNumerator)
		actualInAmount = new(big.Int).Sub(inAmount, totalFee)
	}

	nextSqrtPrice, err := GetNextSqrtPrice(
		actualInAmount,
		sqrtPrice,
		liquidity,
		aToB,
	)
	if err != nil {
		return nil, err
	}

	if aToB && nextSqrtPrice.Cmp(sqrtMinPrice) < 0 {
		nextSqrtPrice = new(big.Int).Set(sqrtMinPrice)
	}
	if !aToB && nextSqrtPrice.Cmp(sqrtMaxPrice) > 0 {
		nextSqrtPrice = new(big.Int).Set(sqrtMaxPrice)
	}

	// output between the prices actually traversed, rounded down
	var outAmount *big.Int
	if aToB {
		outAmount = GetAmountBFromLiquidityDelta(
			liquidity,
			nextSqrtPrice,
			sqrtPrice,
			types.RoundingDown,
		)
	} else {
		outAmount = GetAmountAFromLiquidityDelta(
			liquidity,
			sqrtPrice,
			nextSqrtPrice,
			types.RoundingDown,
		)
	}

	amountOut := outAmount
	if !feeMode.FeeOnInput {
		totalFee = GetTotalFeeOnAmount(outAmount, tradeFeeNumerator)
		amountOut = new(big.Int).Sub(outAmount, totalFee)
	}

	return &struct {
		AmountOut     *big.Int
		TotalFee      *big.Int
		NextSqrtPrice *big.Int
	}{
		AmountOut: amountOut, TotalFee: totalFee, NextSqrtPrice: nextSqrtPrice,
	}, nil
}

// GetBaseFeeParams builds the on-chain fee schedule parameters for a pool
// decaying from maxBaseFeeBps to minBaseFeeBps over totalDuration.
func GetBaseFeeParams(
	maxBaseFeeBps, minBaseFeeBps uint64,
	feeSchedulerMode types.FeeSchedulerMode,
	numberOfPeriod uint16, totalDuration uint64,
) (types.BaseFeeParams, error) {
	if maxBaseFeeBps == minBaseFeeBps {
		if numberOfPeriod != 0 || totalDuration != 0 {
			return types.BaseFeeParams{}, errors.New("numberOfPeriod and totalDuration must both be zero")
		}

		cliffFeeNumerator := BpsToFeeNumerator(maxBaseFeeBps)
		if !cliffFeeNumerator.IsUint64() {
			return types.BaseFeeParams{}, fmt.Errorf("cannot fit cliffFeeNumerator(%s) into uint64", cliffFeeNumerator)
		}
		return types.BaseFeeParams{CliffFeeNumerator: cliffFeeNumerator.Uint64()}, nil
	}

	if hold := FeeNumeratorToBps(big.NewInt(constants.MaxFeeNumerator)); maxBaseFeeBps > hold {
		return types.BaseFeeParams{}, fmt.Errorf("maxBaseFeeBps %d bps exceeds maximum allowed value of %d bps",
			maxBaseFeeBps, hold)
	}

	if minBaseFeeBps > maxBaseFeeBps {
		return types.BaseFeeParams{}, errors.New("minBaseFee bps must be less than or equal to maxBaseFee bps")
	}

	if numberOfPeriod == 0 || totalDuration == 0 {
		return types.BaseFeeParams{}, errors.New("numberOfPeriod and totalDuration must both be greater than zero")
	}

	maxBaseFeeNumerator, minBaseFeeNumerator, periodFrequency :=
		BpsToFeeNumerator(maxBaseFeeBps),
		BpsToFeeNumerator(minBaseFeeBps),
		new(big.Int).SetUint64(totalDuration/uint64(numberOfPeriod))

	if !maxBaseFeeNumerator.IsUint64() || !periodFrequency.IsUint64() {
		return types.BaseFeeParams{}, fmt.Errorf("either maxBaseFeeNumerator(%s) or periodFrequency(%s) cannot fit into uint64",
			maxBaseFeeNumerator, periodFrequency)
	}

	if feeSchedulerMode == types.FeeSchedulerModeLinear {
		reductionFactor := new(big.Int).Quo(
			new(big.Int).Sub(maxBaseFeeNumerator, minBaseFeeNumerator),
			new(big.Int).SetUint64(uint64(numberOfPeriod)),
		)

		if !reductionFactor.IsUint64() {
			return types.BaseFeeParams{}, fmt.Errorf("cannot fit reductionFactor(%s) into uint64", reductionFactor)
		}

		return types.BaseFeeParams{
			CliffFeeNumerator: maxBaseFeeNumerator.Uint64(),
			NumberOfPeriod:    numberOfPeriod,
			PeriodFrequency:   periodFrequency.Uint64(),
			ReductionFactor:   reductionFactor.Uint64(),
			FeeSchedulerMode:  uint8(feeSchedulerMode),
		}, nil
	}

	// exponential: solve (1 - r/10000)^n = min/max for r
	ratio := float64(minBaseFeeNumerator.Uint64()) / float64(maxBaseFeeNumerator.Uint64())
	decayBase := math.Pow(ratio, 1.0/float64(numberOfPeriod))
	reduction := float64(constants.BasisPointMax) * (1 - decayBase)

	reductionFactor := big.NewInt(int64(reduction))

	return types.BaseFeeParams{
		CliffFeeNumerator: maxBaseFeeNumerator.Uint64(),
		NumberOfPeriod:    numberOfPeriod,
		PeriodFrequency:   periodFrequency.Uint64(),
		ReductionFactor:   reductionFactor.Uint64(),
		FeeSchedulerMode:  uint8(feeSchedulerMode),
	}, nil
}

// BpsToFeeNumerator converts basis points to a fee numerator.
// 1 bps = 0.01% = 0.0001 in decimal
//
// bps - the value in basis points [1-10_000]
func BpsToFeeNumerator(bps uint64) *big.Int {
	return new(big.Int).Quo(
		new(big.Int).SetUint64(bps*constants.FeeDenominator),
		big.NewInt(constants.BasisPointMax),
	)
}

func FeeNumeratorToBps(feeNumerator *big.Int) uint64 {
	return new(big.Int).Quo(
		new(big.Int).Mul(feeNumerator, big.NewInt(constants.BasisPointMax)),
		big.NewInt(constants.FeeDenominator),
	).Uint64()
}

// GetDynamicFeeParams derives a volatility fee configuration whose surcharge
// maxes out at 20% of the base fee when the price moves maxPriceChangeBps.
func GetDynamicFeeParams(
	baseFeeBps uint64, maxPriceChangeBps uint64,
) (types.DynamicFee, error) {
	if maxPriceChangeBps == 0 {
		maxPriceChangeBps = constants.MaxPriceChangeBpsDefault // default 15%
	}

	if maxPriceChangeBps > constants.MaxPriceChangeBpsDefault {
		return types.DynamicFee{}, fmt.Errorf("maxPriceChangeBps (%d bps) must be less than or equal to %d", maxPriceChangeBps, constants.MaxPriceChangeBpsDefault)
	}

	priceRatio := new(big.Float).Add(
		new(big.Float).Quo(
			new(big.Float).SetUint64(maxPriceChangeBps),
			new(big.Float).SetUint64(constants.BasisPointMax),
		),
		big.NewFloat(1),
	)

	twoTo64, _ := new(big.Float).SetPrec(256).SetString("18446744073709551616") // 2^64
	sqrtPriceRatio := new(big.Float).Mul(
		new(big.Float).Sqrt(priceRatio),
		twoTo64,
	)

	sqrtPriceRatioFloored, _ := sqrtPriceRatio.Int(nil)
	deltaBinId := new(big.Int).Mul(
		new(big.Int).Quo(
			new(big.Int).Sub(sqrtPriceRatioFloored, maths.One),
			constants.BinStepBpsU128Default,
		),
		big.NewInt(2),
	)

	maxVolatilityAccumulator := new(big.Int).Mul(deltaBinId, big.NewInt(constants.BasisPointMax))

	squareVfaBin := new(big.Int).Mul(maxVolatilityAccumulator, big.NewInt(constants.BinStepBpsDefault))
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)

	baseFeeNumerator := BpsToFeeNumerator(baseFeeBps)

	maxDynamicFeeNumerator := new(big.Int).Quo(
		new(big.Int).Mul(baseFeeNumerator, big.NewInt(20)), // max dynamic fee = 20% of base fee
		big.NewInt(100),
	)

	vFee := new(big.Int).Sub(
		new(big.Int).Mul(maxDynamicFeeNumerator, constants.DynamicFeeScalingFactor),
		constants.DynamicFeeRoundingOffset,
	)

	variableFeeControl := new(big.Int).Quo(vFee, squareVfaBin)

	if !maxVolatilityAccumulator.IsUint64() {
		return types.DynamicFee{}, errors.New("maxVolatilityAccumulator could not fit into uint64")
	}

	if !variableFeeControl.IsUint64() {
		return types.DynamicFee{}, errors.New("variableFeeControl could not fit into uint64")
	}

	return types.DynamicFee{
		BinStep:                  constants.BinStepBpsDefault,
		BinStepU128:              constants.BinStepBpsU128Default,
		FilterPeriod:             constants.DynamicFeeFilterPeriod,
		DecayPeriod:              constants.DynamicFeeDecayPeriod,
		ReductionFactor:          constants.DynamicFeeReductionFactor,
		MaxVolatilityAccumulator: maxVolatilityAccumulator.Uint64(),
		VariableFeeControl:       variableFeeControl.Uint64(),
	}, nil
}

// GetExcludedFeeAmount strips the trading fee out of a fee-inclusive amount.
func GetExcludedFeeAmount(
	tradeFeeNumerator, includedFeeAmount *big.Int,
) struct{ ExcludedFeeAmount, TradingFee *big.Int } {
	tradingFee := maths.MulDiv(
		includedFeeAmount,
		tradeFeeNumerator,
		big.NewInt(constants.FeeDenominator),
		types.RoundingUp,
	)

	excludedFeeAmount := new(big.Int).Sub(
		includedFeeAmount,
		tradingFee,
	)
	return struct {
		ExcludedFeeAmount *big.Int
		TradingFee        *big.Int
	}{
		ExcludedFeeAmount: excludedFeeAmount,
		TradingFee:        tradingFee,
	}
}

// GetIncludedFeeAmount grosses an excluded-fee amount back up:
//
//	included = excluded * FeeDenominator / (FeeDenominator - tradeFeeNumerator)
//
// rounded up so that stripping the fee again never yields less than the
// excluded amount asked for.
func GetIncludedFeeAmount(
	tradeFeeNumerator, excludedFeeAmount *big.Int,
) (*big.Int, error) {
	denominator := new(big.Int).Sub(
		big.NewInt(constants.FeeDenominator),
		tradeFeeNumerator,
	)
	if denominator.Sign() <= 0 {
		return nil, fmt.Errorf("fee numerator %s: %w", tradeFeeNumerator, maths.ErrInvalidRange)
	}

	includedFeeAmount := maths.MulDiv(
		excludedFeeAmount,
		big.NewInt(constants.FeeDenominator),
		denominator,
		types.RoundingUp,
	)

	// sanity check
	out := GetExcludedFeeAmount(tradeFeeNumerator, includedFeeAmount)
	if out.ExcludedFeeAmount.Cmp(excludedFeeAmount) < 0 {
		return nil, errors.New("inverse amount is less than excluded fee amount")
	}

	return includedFeeAmount, nil
}

// GetInAmountFromAToB calculates the token A input required to produce
// outAmount of token B.
func GetInAmountFromAToB(
	pool *state.PoolAccount, outAmount *big.Int,
) (types.SwapAmount, error) {
	nextSqrtPrice, err := GetNextSqrtPriceFromOutput(
		pool.SqrtPrice.BigInt(), pool.Liquidity.BigInt(), outAmount, true,
	)
	if err != nil {
		return types.SwapAmount{}, err
	}

	if nextSqrtPrice.Cmp(pool.SqrtMinPrice.BigInt()) < 0 {
		return types.SwapAmount{}, fmt.Errorf("requested output exceeds the pool's lower price bound: %w", maths.ErrInvalidRange)
	}

	return types.SwapAmount{
		NextSqrtPrice: nextSqrtPrice,
		OutputAmount: GetAmountAFromLiquidityDelta(
			pool.Liquidity.BigInt(),
			nextSqrtPrice,
			pool.SqrtPrice.BigInt(),
			types.RoundingUp,
		),
	}, nil
}

// GetInAmountFromBToA calculates the token B input required to produce
// outAmount of token A.
func GetInAmountFromBToA(
	pool *state.PoolAccount, outAmount *big.Int,
) (types.SwapAmount, error) {
	nextSqrtPrice, err := GetNextSqrtPriceFromOutput(
		pool.SqrtPrice.BigInt(),
		pool.Liquidity.BigInt(),
		outAmount,
		false,
	)
	if err != nil {
		return types.SwapAmount{}, err
	}

	if nextSqrtPrice.Cmp(pool.SqrtMaxPrice.BigInt()) > 0 {
		return types.SwapAmount{}, fmt.Errorf("requested output exceeds the pool's upper price bound: %w", maths.ErrInvalidRange)
	}
	return types.SwapAmount{
		NextSqrtPrice: nextSqrtPrice,
		OutputAmount: GetAmountBFromLiquidityDelta(
			pool.Liquidity.BigInt(),
			pool.SqrtPrice.BigInt(),
			nextSqrtPrice,
			types.RoundingUp,
		),
	}, nil
}

// GetSwapResultFromOutAmount works an exact-out swap backwards: the input
// required, the price reached, and the fee attribution.
func GetSwapResultFromOutAmount(
	pool *state.PoolAccount,
	outAmount *big.Int, feeMode types.FeeMode,
	tradeDirection types.TradeDirection,
	currentPoint uint64,
) (struct {
	SwapResult  types.SwapResult
	InputAmount *big.Int
}, error) {
	empty := struct {
		SwapResult  types.SwapResult
		InputAmount *big.Int
	}{}

	dynamicFeeParam := types.DynamicFeeParams{}
	if h := pool.PoolFees.DynamicFee; h.Initialized == 1 {
		dynamicFeeParam = types.DynamicFeeParams{
			VolatilityAccumulator: h.VolatilityAccumulator.BigInt(),
			BinStep:               h.BinStep,
			VariableFeeControl:    h.VariableFeeControl,
		}
	}
	tradeFeeNumerator := GetFeeNumerator(
		currentPoint,
		new(big.Int).SetUint64(pool.ActivationPoint),
		pool.PoolFees.BaseFee.NumberOfPeriod,
		new(big.Int).SetUint64(pool.PoolFees.BaseFee.PeriodFrequency),
		types.FeeSchedulerMode(pool.PoolFees.BaseFee.FeeSchedulerMode),
		new(big.Int).SetUint64(pool.PoolFees.BaseFee.CliffFeeNumerator),
		new(big.Int).SetUint64(pool.PoolFees.BaseFee.ReductionFactor),
		dynamicFeeParam,
	)

	breakdown := types.FeeBreakdown{
		LpFee:       big.NewInt(0),
		ProtocolFee: big.NewInt(0),
		PartnerFee:  big.NewInt(0),
		ReferralFee: big.NewInt(0),
	}
	includedFeeOutAmount := outAmount
	var err error

	if !feeMode.FeeOnInput {
		if includedFeeOutAmount, err = GetIncludedFeeAmount(
			tradeFeeNumerator, outAmount); err != nil {
			return empty, err
		}

		totalFee := new(big.Int).Sub(includedFeeOutAmount, outAmount)
		if breakdown, err = SplitFees(
			totalFee,
			pool.PoolFees.ProtocolFeePercent,
			pool.PoolFees.PartnerFeePercent,
			pool.PoolFees.ReferralFeePercent,
			feeMode.HasReferral,
		); err != nil {
			return empty, err
		}
	}

	var tDirection types.SwapAmount
	if tradeDirection == types.TradeDirectionAtoB {
		if tDirection, err = GetInAmountFromAToB(pool, includedFeeOutAmount); err != nil {
			return empty, err
		}
	} else {
		if tDirection, err = GetInAmountFromBToA(pool, includedFeeOutAmount); err != nil {
			return empty, err
		}
	}

	includedFeeInAmount := tDirection.OutputAmount
	if feeMode.FeeOnInput {
		if includedFeeInAmount, err = GetIncludedFeeAmount(
			tradeFeeNumerator, tDirection.OutputAmount); err != nil {
			return empty, err
		}

		totalFee := new(big.Int).Sub(includedFeeInAmount, tDirection.OutputAmount)
		if breakdown, err = SplitFees(
			totalFee,
			pool.PoolFees.ProtocolFeePercent,
			pool.PoolFees.PartnerFeePercent,
			pool.PoolFees.ReferralFeePercent,
			feeMode.HasReferral,
		); err != nil {
			return empty, err
		}
	}

	return struct {
		SwapResult  types.SwapResult
		InputAmount *big.Int
	}{
		SwapResult: types.SwapResult{
			OutputAmount:  outAmount,
			NextSqrtPrice: tDirection.NextSqrtPrice,
			LpFee:         breakdown.LpFee,
			ProtocolFee:   breakdown.ProtocolFee,
			PartnerFee:    breakdown.PartnerFee,
			ReferralFee:   breakdown.ReferralFee,
		},
		InputAmount: includedFeeInAmount,
	}, nil
}
