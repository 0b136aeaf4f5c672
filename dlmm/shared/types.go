package shared

import (
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Enums and common types shared by the dlmm sub-packages.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type StrategyType uint8

const (
	StrategyTypeSpot   StrategyType = 0
	StrategyTypeCurve  StrategyType = 1
	StrategyTypeBidAsk StrategyType = 2
)

func (s StrategyType) String() string {
	switch s {
	case StrategyTypeSpot:
		return "spot"
	case StrategyTypeCurve:
		return "curve"
	case StrategyTypeBidAsk:
		return "bid_ask"
	default:
		return "unknown"
	}
}

// SwapMode decides what a quote does when the pair runs out of liquidity before the input is
// spent.
type SwapMode uint8

const (
	// SwapModeExactIn fails the quote unless the whole input is consumed.
	SwapModeExactIn SwapMode = iota
	// SwapModePartialFill returns what could be filled.
	SwapModePartialFill
)

func (m SwapMode) String() string {
	switch m {
	case SwapModeExactIn:
		return "exact_in"
	case SwapModePartialFill:
		return "partial_fill"
	default:
		return "unknown"
	}
}

type PairStatus uint8

const (
	PairStatusEnabled  PairStatus = 0
	PairStatusDisabled PairStatus = 1
)

// BinDistribution is the share of one side of a deposit assigned to a bin, in basis points.
type BinDistribution struct {
	BinID int32
	XBps  uint64
	YBps  uint64
}

// StrategyParameters describes a linear per-bin deposit: the amount at delta d from the active
// bin is Y0 + DeltaY*|d| on the bid side and X0 + DeltaX*d (priced) on the ask side.
type StrategyParameters struct {
	X0     *big.Int
	Y0     *big.Int
	DeltaX *big.Int
	DeltaY *big.Int
}

// Normalized returns a copy with nil fields replaced by zero.
func (p StrategyParameters) Normalized() StrategyParameters {
	zeroIfNil := func(v *big.Int) *big.Int {
		if v == nil {
			return new(big.Int)
		}
		return v
	}
	return StrategyParameters{
		X0:     zeroIfNil(p.X0),
		Y0:     zeroIfNil(p.Y0),
		DeltaX: zeroIfNil(p.DeltaX),
		DeltaY: zeroIfNil(p.DeltaY),
	}
}

// BidAskParameters are the intermediate base/delta pair produced per side by a builder.
type BidAskParameters struct {
	Base  *big.Int
	Delta *big.Int
}

type BinAmount struct {
	BinID   int32
	AmountX uint64
	AmountY uint64
}

type BinWeight struct {
	BinID  int32
	Weight uint64
}

// SwapQuote is the predicted outcome of an exact-in swap. ProtocolFee excludes HostFee; both are
// part of Fee. PriceImpact is in percent and negative when the swap gets less than the start
// price would give.
type SwapQuote struct {
	ConsumedInAmount      uint64
	OutAmount             uint64
	Fee                   uint64
	ProtocolFee           uint64
	HostFee               uint64
	MinOutAmount          uint64
	PriceImpact           decimal.Decimal
	EndActiveID           int32
	IsPartialFill         bool
	BinArrayIndexes       []int64
	TouchedGroupAddresses []solanago.PublicKey
}

const (
	ScaleOffset = 64
	// MaxExponential bounds the magnitude of a bin id accepted by the pow routine.
	MaxExponential = 0x80000
)

var (
	OneQ64  = new(big.Int).Lsh(big.NewInt(1), ScaleOffset)
	MaxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	U64Max  = new(big.Int).SetUint64(^uint64(0))
)
