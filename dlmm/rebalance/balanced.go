package rebalance

import (
	"math/big"

	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/dlmm/strategy"
)

// Plan is a set of rebalance actions ready to be simulated.
type Plan struct {
	ShouldClaimFee    bool
	ShouldClaimReward bool
	Withdraws         []Withdraw
	Deposits          []Deposit
}

// PositionSummary is what the balanced builder needs to know about a position.
type PositionSummary struct {
	LowerBinID   int32
	UpperBinID   int32
	TotalXAmount uint64
	TotalYAmount uint64
	FeeX         uint64
	FeeY         uint64
}

// BalancedStrategy withdraws the whole position and redeposits around the active bin. The
// redeposit keeps the position's width and is funded by the withdrawn amounts minus
// XWithdrawBps/YWithdrawBps, plus the top up amounts.
type BalancedStrategy struct {
	ActiveID          int32
	BinStep           uint16
	Position          PositionSummary
	TopUpAmountX      uint64
	TopUpAmountY      uint64
	XWithdrawBps      int64
	YWithdrawBps      int64
	Strategy          shared.StrategyType
	FavorXIfImbalance bool
	FavorXInActiveID  bool
}

func capBps(cfg shared.Config, bps int64) uint64 {
	switch {
	case bps < 0:
		return 0
	case uint64(bps) > cfg.BasisPointMax:
		return cfg.BasisPointMax
	default:
		return uint64(bps)
	}
}

// Build solves the redeposit parameters and returns the plan.
func (b BalancedStrategy) Build(cfg shared.Config) (Plan, error) {
	bpsMax := new(big.Int).SetUint64(cfg.BasisPointMax)
	redeposit := func(total, fee uint64, withdrawBps int64) *big.Int {
		amount := new(big.Int).SetUint64(total)
		amount.Add(amount, new(big.Int).SetUint64(fee))
		keep := new(big.Int).SetUint64(cfg.BasisPointMax - capBps(cfg, withdrawBps))
		return amount.Mul(amount, keep).Quo(amount, bpsMax)
	}
	depositX := redeposit(b.Position.TotalXAmount, b.Position.FeeX, b.XWithdrawBps)
	depositX.Add(depositX, new(big.Int).SetUint64(b.TopUpAmountX))
	depositY := redeposit(b.Position.TotalYAmount, b.Position.FeeY, b.YWithdrawBps)
	depositY.Add(depositY, new(big.Int).SetUint64(b.TopUpAmountY))

	width := b.Position.UpperBinID - b.Position.LowerBinID + 1
	if width <= 0 {
		return Plan{}, invalid("position range [%d, %d] is empty", b.Position.LowerBinID, b.Position.UpperBinID)
	}
	binPerBid, binPerAsk := width/2, width/2
	if width%2 == 0 {
		if b.FavorXIfImbalance {
			binPerAsk++
			binPerBid--
		} else {
			binPerAsk--
			binPerBid++
		}
	}
	minDeltaID, maxDeltaID := -binPerBid, binPerAsk

	builder, err := strategy.ForType(cfg, b.Strategy)
	if err != nil {
		return Plan{}, err
	}
	params, err := strategy.BuildLiquidityStrategyParameters(depositX, depositY, minDeltaID, maxDeltaID, b.BinStep, b.FavorXInActiveID, b.ActiveID, builder)
	if err != nil {
		return Plan{}, err
	}

	lower, upper := b.Position.LowerBinID, b.Position.UpperBinID
	return Plan{
		ShouldClaimFee:    true,
		ShouldClaimReward: true,
		Withdraws:         []Withdraw{{MinBinID: &lower, MaxBinID: &upper, Bps: cfg.BasisPointMax}},
		Deposits: []Deposit{{
			MinDeltaID:       minDeltaID,
			MaxDeltaID:       maxDeltaID,
			Strategy:         b.Strategy,
			FavorXInActiveID: b.FavorXInActiveID,
			Parameters:       &params,
		}},
	}, nil
}

// Summarize values a position from a bin array snapshot: amounts redeemable for its shares
// and its unclaimed fees.
func Summarize(cfg shared.Config, pair shared.LbPair, binArrays []shared.BinArray, position shared.Position) (PositionSummary, error) {
	s := newSimulator(cfg, SimulateParams{LbPair: pair, BinArrays: binArrays, Position: position})
	if err := s.loadPosition(position); err != nil {
		return PositionSummary{}, err
	}
	result := &SimulationResult{}
	if err := s.fillPosition(SimulateParams{Position: position}, position.LowerBinID, position.UpperBinID, result); err != nil {
		return PositionSummary{}, err
	}
	summary := PositionSummary{
		LowerBinID:   position.LowerBinID,
		UpperBinID:   position.UpperBinID,
		TotalXAmount: result.AmountX,
		TotalYAmount: result.AmountY,
	}
	var err error
	for _, bin := range result.Bins {
		if summary.FeeX, err = dmath.SafeAddU64(summary.FeeX, bin.FeeX); err != nil {
			return PositionSummary{}, err
		}
		if summary.FeeY, err = dmath.SafeAddU64(summary.FeeY, bin.FeeY); err != nil {
			return PositionSummary{}, err
		}
	}
	return summary, nil
}
