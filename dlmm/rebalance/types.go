package rebalance

import (
	"math/big"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/dlmm/strategy"
)

// Withdraw removes Bps of the position's share from every bin of [MinBinID, MaxBinID]. A nil
// bound defaults to the active bin. The range is clipped to the position.
type Withdraw struct {
	MinBinID *int32
	MaxBinID *int32
	Bps      uint64
}

// Deposit adds liquidity to [activeID+MinDeltaID, activeID+MaxDeltaID].
//
// The per bin amounts come from, in order of precedence:
//   - Parameters, used as given;
//   - the strategy solver when SolveExact is set, targeting AmountX and AmountY;
//   - the strategy's bps distribution applied to AmountX and AmountY.
type Deposit struct {
	MinDeltaID       int32
	MaxDeltaID       int32
	Strategy         shared.StrategyType
	FavorXInActiveID bool
	AmountX          uint64
	AmountY          uint64
	SolveExact       bool
	Parameters       *shared.StrategyParameters
}

type SimulateParams struct {
	LbPair shared.LbPair
	// Extension is nil when the pair has no bitmap extension account. Bin arrays beyond the
	// inline bitmap are then treated as uninitialised.
	Extension         *shared.BinArrayBitmapExtension
	BinArrays         []shared.BinArray
	Position          shared.Position
	ShouldClaimFee    bool
	ShouldClaimReward bool
	Withdraws         []Withdraw
	Deposits          []Deposit
	CurrentTimestamp  int64
}

// BinBreakdown is the predicted holding of the position in one bin.
type BinBreakdown struct {
	BinID          int32
	LiquidityShare binary.Uint128
	AmountX        uint64
	AmountY        uint64
	FeeX           uint64
	FeeY           uint64
	Rewards        [2]uint64
}

// DepositParameters is a deposit in the encoding of the rebalance instruction: magnitudes plus
// sign flags.
type DepositParameters struct {
	MinDeltaID       int32
	MaxDeltaID       int32
	X0               *big.Int
	Y0               *big.Int
	DeltaX           *big.Int
	DeltaY           *big.Int
	BitFlag          strategy.BitFlag
	FavorXInActiveID bool
}

// WithdrawParameters is a withdraw with its bounds resolved.
type WithdrawParameters struct {
	MinBinID int32
	MaxBinID int32
	Bps      uint64
}

type SimulationResult struct {
	// Position is the predicted position after the rebalance. An emptied position has
	// UpperBinID < LowerBinID.
	Position shared.Position
	// AmountX and AmountY are the sums of Bins.
	AmountX uint64
	AmountY uint64
	Bins    []BinBreakdown

	AmountXWithdrawn uint64
	AmountYWithdrawn uint64
	AmountXDeposited uint64
	AmountYDeposited uint64
	// Actual amounts net the deposits against what was withdrawn and claimed: only the
	// difference moves between the owner and the pool.
	ActualAmountXDeposited uint64
	ActualAmountYDeposited uint64
	ActualAmountXWithdrawn uint64
	ActualAmountYWithdrawn uint64
	FeeXClaimed            uint64
	FeeYClaimed            uint64
	RewardsClaimed         [2]uint64
	// CompositionFeeX and CompositionFeeY are charged on imbalanced active bin deposits.
	CompositionFeeX uint64
	CompositionFeeY uint64

	// RentalCostLamports is the position account rent change; negative when storage is freed.
	RentalCostLamports int64
	// BinArrayRentLamports is paid for NewBinArrayIndexes, BitmapExtensionRentLamports when the
	// pair needs a bitmap extension it does not have yet.
	BinArrayRentLamports        uint64
	BitmapExtensionRentLamports uint64

	// BinArrayIndexes lists every bin array the instruction touches, ascending.
	BinArrayIndexes         []int64
	NewBinArrayIndexes      []int64
	RequiresBitmapExtension bool
	// BinArrayAddresses matches BinArrayIndexes. Simulate leaves it empty; the dlmm client fills
	// it from the pair address.
	BinArrayAddresses []solanago.PublicKey

	DepositParams  []DepositParameters
	WithdrawParams []WithdrawParameters
}
