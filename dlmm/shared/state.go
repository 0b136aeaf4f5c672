package shared

import (
	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
)

// Decoded account snapshots. The dlmm packages only read them; simulations work on copies.

type Bin struct {
	AmountX                  uint64
	AmountY                  uint64
	Price                    binary.Uint128
	LiquiditySupply          binary.Uint128
	RewardPerTokenStored     [2]binary.Uint128
	FeeAmountXPerTokenStored binary.Uint128
	FeeAmountYPerTokenStored binary.Uint128
	AmountXIn                binary.Uint128
	AmountYIn                binary.Uint128
}

// IsEmpty reports whether the bin has nothing to give out in the swap direction.
func (b Bin) IsEmpty(swapForY bool) bool {
	if swapForY {
		return b.AmountY == 0
	}
	return b.AmountX == 0
}

// BinArray is a fixed-size group of consecutive bins, starting at Index*MaxBinPerArray.
type BinArray struct {
	Index   int64
	Version uint8
	LbPair  solanago.PublicKey
	Bins    []Bin
}

type BinArrayBitmapExtension struct {
	LbPair                 solanago.PublicKey
	PositiveBinArrayBitmap [12][8]uint64
	NegativeBinArrayBitmap [12][8]uint64
}

type StaticParameters struct {
	BaseFactor               uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	VariableFeeControl       uint32
	MaxVolatilityAccumulator uint32
	MinBinID                 int32
	MaxBinID                 int32
	ProtocolShare            uint16
	BaseFeePowerFactor       uint8
}

type VariableParameters struct {
	VolatilityAccumulator uint32
	VolatilityReference   uint32
	IndexReference        int32
	LastUpdateTimestamp   int64
}

type RewardInfo struct {
	Mint              solanago.PublicKey
	Vault             solanago.PublicKey
	Funder            solanago.PublicKey
	RewardDuration    uint64
	RewardDurationEnd uint64
	RewardRate        binary.Uint128
	LastUpdateTime    uint64
}

type LbPair struct {
	Address        solanago.PublicKey
	Parameters     StaticParameters
	VParameters    VariableParameters
	BinStep        uint16
	ActiveID       int32
	Status         PairStatus
	TokenXMint     solanago.PublicKey
	TokenYMint     solanago.PublicKey
	Reserve        [2]solanago.PublicKey
	RewardInfos    [2]RewardInfo
	Oracle         solanago.PublicKey
	BinArrayBitmap [16]uint64
}

type FeeInfo struct {
	FeeXPerTokenComplete binary.Uint128
	FeeYPerTokenComplete binary.Uint128
	FeeXPending          uint64
	FeeYPending          uint64
}

type UserRewardInfo struct {
	RewardPerTokenCompletes [2]binary.Uint128
	RewardPendings          [2]uint64
}

// Position holds per-bin shares for [LowerBinID, UpperBinID]. The share slices may be longer
// than the width; entries past the width are never read.
type Position struct {
	Address          solanago.PublicKey
	LbPair           solanago.PublicKey
	Owner            solanago.PublicKey
	Operator         solanago.PublicKey
	LowerBinID       int32
	UpperBinID       int32
	LiquidityShares  []binary.Uint128
	FeeInfos         []FeeInfo
	RewardInfos      []UserRewardInfo
	LastUpdatedAt    int64
	TotalClaimedFeeX uint64
	TotalClaimedFeeY uint64
	LockReleasePoint uint64
}

func (p Position) Width() int32 {
	if p.UpperBinID < p.LowerBinID {
		return 0
	}
	return p.UpperBinID - p.LowerBinID + 1
}

func (p Position) Contains(binID int32) bool {
	return binID >= p.LowerBinID && binID <= p.UpperBinID
}
