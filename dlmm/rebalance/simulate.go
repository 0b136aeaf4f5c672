package rebalance

import (
	"fmt"

	binary "github.com/gagliardetto/binary"

	"github.com/krazyTry/dlmm-go/dlmm/bitmap"
	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/u128"
)

// Simulate predicts the outcome of a rebalance of params.Position: claim, then every withdraw,
// then every deposit, then the position is resized to the bins still holding something.
func Simulate(cfg shared.Config, params SimulateParams) (*SimulationResult, error) {
	if len(params.Withdraws) == 0 && len(params.Deposits) == 0 {
		return nil, invalid("no rebalance action")
	}
	activeID := params.LbPair.ActiveID

	withdraws, err := resolveWithdraws(cfg, params.Withdraws, activeID)
	if err != nil {
		return nil, err
	}
	deposits, err := sortDeposits(cfg, params.Deposits, activeID)
	if err != nil {
		return nil, err
	}

	s := newSimulator(cfg, params)
	if err := s.loadPosition(params.Position); err != nil {
		return nil, fmt.Errorf("load position: %w", err)
	}

	result := &SimulationResult{WithdrawParams: withdraws}
	if err := s.claim(params.ShouldClaimFee, params.ShouldClaimReward, result); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}

	for _, w := range withdraws {
		if err := s.withdraw(params.Position, w, result); err != nil {
			return nil, fmt.Errorf("withdraw [%d, %d]: %w", w.MinBinID, w.MaxBinID, err)
		}
	}
	for _, d := range deposits {
		if err := s.deposit(d, result); err != nil {
			return nil, err
		}
	}

	var depositLower, depositUpper int32
	if len(deposits) > 0 {
		depositLower = activeID + deposits[0].MinDeltaID
		depositUpper = activeID + deposits[len(deposits)-1].MaxDeltaID
	}
	lower, upper, ok := s.resizedRange(depositLower, depositUpper, len(deposits) > 0)
	if !ok {
		lower, upper = params.Position.LowerBinID, params.Position.LowerBinID-1
	}
	if width := int64(upper) - int64(lower) + 1; width > int64(cfg.PositionMaxLength) {
		return nil, invalid("position width %d exceeds %d", width, cfg.PositionMaxLength)
	}

	if err := s.fillPosition(params, lower, upper, result); err != nil {
		return nil, err
	}
	netTransfers(result)

	result.RentalCostLamports = rentDelta(cfg, params.Position.Width(), result.Position.Width())
	result.BinArrayIndexes = sortedIndexes(s.touched)
	result.NewBinArrayIndexes = sortedIndexes(s.created)
	result.BinArrayRentLamports = uint64(len(result.NewBinArrayIndexes)) * cfg.BinArrayRentLamports
	for _, index := range result.BinArrayIndexes {
		if bitmap.IsOverflowDefaultBinArrayBitmap(cfg, index) {
			result.RequiresBitmapExtension = true
		}
	}
	if s.needsExtension {
		result.BitmapExtensionRentLamports = cfg.BitmapExtensionRentLamports
	}
	return result, nil
}

// fillPosition writes the predicted position and the per bin breakdown for [lower, upper].
func (s *simulator) fillPosition(params SimulateParams, lower, upper int32, result *SimulationResult) error {
	position := params.Position
	position.LowerBinID, position.UpperBinID = lower, upper
	position.LastUpdatedAt = params.CurrentTimestamp

	width := int(position.Width())
	position.LiquidityShares = make([]binary.Uint128, width)
	position.FeeInfos = make([]shared.FeeInfo, width)
	position.RewardInfos = make([]shared.UserRewardInfo, width)
	result.Bins = make([]BinBreakdown, 0, width)

	for i := 0; i < width; i++ {
		binID := lower + int32(i)
		entry := BinBreakdown{BinID: binID}

		if h, ok := s.holdings[binID]; ok {
			share, ok := u128.FromUint256(h.share)
			if !ok {
				return shared.NewError(shared.KindNumericOverflow, "bin %d share exceeds 128 bits", binID)
			}
			entry.LiquidityShare = share
			entry.FeeX, entry.FeeY, entry.Rewards = h.feeX, h.feeY, h.rewards

			position.LiquidityShares[i] = share
			position.FeeInfos[i].FeeXPending, position.FeeInfos[i].FeeYPending = h.feeX, h.feeY
			position.RewardInfos[i].RewardPendings = h.rewards

			if bin, ok := s.bins[binID]; ok {
				position.FeeInfos[i].FeeXPerTokenComplete = bin.FeeAmountXPerTokenStored
				position.FeeInfos[i].FeeYPerTokenComplete = bin.FeeAmountYPerTokenStored
				position.RewardInfos[i].RewardPerTokenCompletes = bin.RewardPerTokenStored

				if !h.share.IsZero() {
					x, y, err := dmath.CalculateOutAmount(*bin, h.share)
					if err != nil {
						return err
					}
					entry.AmountX, entry.AmountY = x, y
				}
			}
		}

		var err error
		if result.AmountX, err = dmath.SafeAddU64(result.AmountX, entry.AmountX); err != nil {
			return err
		}
		if result.AmountY, err = dmath.SafeAddU64(result.AmountY, entry.AmountY); err != nil {
			return err
		}
		result.Bins = append(result.Bins, entry)
	}
	result.Position = position
	return nil
}

// netTransfers offsets deposits against what was withdrawn or claimed on the same side: only the
// difference leaves or enters the owner's wallet.
func netTransfers(result *SimulationResult) {
	outX := result.AmountXWithdrawn + result.FeeXClaimed
	outY := result.AmountYWithdrawn + result.FeeYClaimed
	result.ActualAmountXDeposited, result.ActualAmountXWithdrawn = netOf(result.AmountXDeposited, outX)
	result.ActualAmountYDeposited, result.ActualAmountYWithdrawn = netOf(result.AmountYDeposited, outY)
}

func netOf(deposited, withdrawn uint64) (uint64, uint64) {
	if deposited > withdrawn {
		return deposited - withdrawn, 0
	}
	return 0, withdrawn - deposited
}
