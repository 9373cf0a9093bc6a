// Package state holds read-only borsh mirrors of the cp-amm ledger accounts.
// The engine never writes these back; every struct is a point-in-time
// snapshot fetched (or supplied) by the caller.
package state

import (
	"bytes"
	"fmt"
	"math/big"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// Anchor account discriminators (sha256("account:<Name>")[:8]).
var (
	PoolAccountDiscriminator     = [8]byte{0xf1, 0x9a, 0x6d, 0x04, 0x11, 0xb1, 0x6d, 0xbc}
	PositionAccountDiscriminator = [8]byte{0xaa, 0xbc, 0x8f, 0xe4, 0x7a, 0x40, 0xf7, 0xd0}
	VestingAccountDiscriminator  = [8]byte{0x64, 0x95, 0x42, 0x8a, 0x5f, 0xc8, 0x80, 0xf1}
	ConfigAccountDiscriminator   = [8]byte{0x9b, 0x0c, 0xaa, 0xe0, 0x1e, 0xfa, 0xcc, 0x82}
)

// U256 is the ledger's unsigned 256-bit little-endian word. The
// fee-per-liquidity accumulators and reward-per-token checkpoints are stored
// at this width and wrap at 2^256.
type U256 [32]uint8

// BigInt interprets the word as an unsigned little-endian integer.
func (u U256) BigInt() *big.Int {
	lo := uint128.FromBytes(u[:16])
	hi := uint128.FromBytes(u[16:])
	v := hi.Big()
	v.Lsh(v, 128)
	return v.Add(v, lo.Big())
}

// U256FromBig truncates v to 256 bits, matching the ledger's storage width.
func U256FromBig(v *big.Int) U256 {
	var u U256
	reduced := new(big.Int).And(v, u256Mask)
	var be [32]byte
	reduced.FillBytes(be[:])
	for i := 0; i < 32; i++ {
		u[i] = be[31-i]
	}
	return u
}

var u256Mask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// BaseFeeStruct is the time-decaying base-fee schedule, fixed at pool creation.
type BaseFeeStruct struct {
	CliffFeeNumerator uint64
	FeeSchedulerMode  uint8
	Padding0          [5]uint8
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
	Padding1          uint64
}

// DynamicFeeStruct carries the volatility-driven fee surcharge state. The
// volatility accumulator is maintained by the ledger program between swaps;
// the engine only reads it.
type DynamicFeeStruct struct {
	Initialized              uint8
	Padding                  [7]uint8
	MaxVolatilityAccumulator uint32
	VariableFeeControl       uint32
	BinStep                  uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	LastUpdateTimestamp      uint64
	BinStepU128              ag_binary.Uint128
	SqrtPriceReference       ag_binary.Uint128
	VolatilityAccumulator    ag_binary.Uint128
	VolatilityReference      ag_binary.Uint128
}

type PoolFeesStruct struct {
	BaseFee            BaseFeeStruct
	ProtocolFeePercent uint8
	PartnerFeePercent  uint8
	ReferralFeePercent uint8
	Padding0           [5]uint8
	DynamicFee         DynamicFeeStruct
	Padding1           [2]uint64
}

// RewardInfo is one of the pool's reward slots.
type RewardInfo struct {
	Initialized     uint8
	RewardTokenFlag uint8
	Padding0        [6]uint8
	Mint            solana.PublicKey
	Vault           solana.PublicKey
	Funder          solana.PublicKey
	RewardDuration  uint64
	RewardDurationEnd uint64
	RewardRate      ag_binary.Uint128
	RewardPerTokenStored U256
	LastUpdateTime  uint64
	CumulativeSecondsWithEmptyLiquidityReward uint64
}

type PoolMetrics struct {
	TotalLpAFee       ag_binary.Uint128
	TotalLpBFee       ag_binary.Uint128
	TotalProtocolAFee uint64
	TotalProtocolBFee uint64
	TotalPartnerAFee  uint64
	TotalPartnerBFee  uint64
	TotalPosition     uint64
	Padding           uint64
}

type PoolAccount struct {
	PoolFees         PoolFeesStruct
	TokenAMint       solana.PublicKey
	TokenBMint       solana.PublicKey
	TokenAVault      solana.PublicKey
	TokenBVault      solana.PublicKey
	WhitelistedVault solana.PublicKey
	Partner          solana.PublicKey
	Liquidity        ag_binary.Uint128
	Padding          ag_binary.Uint128
	ProtocolAFee     uint64
	ProtocolBFee     uint64
	PartnerAFee      uint64
	PartnerBFee      uint64
	SqrtMinPrice     ag_binary.Uint128
	SqrtMaxPrice     ag_binary.Uint128
	SqrtPrice        ag_binary.Uint128
	ActivationPoint  uint64
	ActivationType   uint8
	PoolStatus       uint8
	TokenAFlag       uint8
	TokenBFlag       uint8
	CollectFeeMode   uint8
	PoolType         uint8
	Version          uint8
	Padding0         uint8
	FeeAPerLiquidity U256
	FeeBPerLiquidity U256
	PermanentLockLiquidity ag_binary.Uint128
	Metrics          PoolMetrics
	Creator          solana.PublicKey
	Padding1         [6]uint64
	RewardInfos      [2]RewardInfo
}

// UserRewardInfo is a position's checkpoint against one pool reward slot.
type UserRewardInfo struct {
	RewardPerTokenCheckpoint U256
	RewardPendings           uint64
	TotalClaimedRewards      uint64
}

type PositionMetrics struct {
	TotalClaimedAFee uint64
	TotalClaimedBFee uint64
}

type PositionAccount struct {
	Pool                   solana.PublicKey
	NftMint                solana.PublicKey
	FeeAPerTokenCheckpoint U256
	FeeBPerTokenCheckpoint U256
	FeeAPending            uint64
	FeeBPending            uint64
	UnlockedLiquidity      ag_binary.Uint128
	VestedLiquidity        ag_binary.Uint128
	PermanentLockedLiquidity ag_binary.Uint128
	Metrics                PositionMetrics
	RewardInfos            [2]UserRewardInfo
	Padding                [6]ag_binary.Uint128
}

type VestingAccount struct {
	Position               solana.PublicKey
	CliffPoint             uint64
	PeriodFrequency        uint64
	CliffUnlockLiquidity   ag_binary.Uint128
	LiquidityPerPeriod     ag_binary.Uint128
	TotalReleasedLiquidity ag_binary.Uint128
	NumberOfPeriod         uint16
	Padding0               [14]uint8
	Padding                [4]ag_binary.Uint128
}

type ConfigAccount struct {
	VaultConfigKey       solana.PublicKey
	PoolCreatorAuthority solana.PublicKey
	PoolFees             PoolFeesStruct
	ActivationType       uint8
	CollectFeeMode       uint8
	Padding0             [6]uint8
	SqrtMinPrice         ag_binary.Uint128
	SqrtMaxPrice         ag_binary.Uint128
	Index                uint64
	Padding              [8]uint64
}

func decode(data []byte, discriminator [8]byte, name string, dst any) error {
	if len(data) < 8 {
		return fmt.Errorf("%s account data too short: %d bytes", name, len(data))
	}
	if !bytes.Equal(data[:8], discriminator[:]) {
		return fmt.Errorf("data does not match %s account discriminator", name)
	}
	if err := ag_binary.NewBorshDecoder(data[8:]).Decode(dst); err != nil {
		return fmt.Errorf("decode %s account: %w", name, err)
	}
	return nil
}

func DecodePoolAccount(data []byte) (*PoolAccount, error) {
	acc := new(PoolAccount)
	if err := decode(data, PoolAccountDiscriminator, "pool", acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func DecodePositionAccount(data []byte) (*PositionAccount, error) {
	acc := new(PositionAccount)
	if err := decode(data, PositionAccountDiscriminator, "position", acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func DecodeVestingAccount(data []byte) (*VestingAccount, error) {
	acc := new(VestingAccount)
	if err := decode(data, VestingAccountDiscriminator, "vesting", acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func DecodeConfigAccount(data []byte) (*ConfigAccount, error) {
	acc := new(ConfigAccount)
	if err := decode(data, ConfigAccountDiscriminator, "config", acc); err != nil {
		return nil, err
	}
	return acc, nil
}
