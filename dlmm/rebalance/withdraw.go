package rebalance

import (
	"github.com/holiman/uint256"

	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/u128"
)

// claim moves every checkpointed fee and reward out of the position.
func (s *simulator) claim(shouldClaimFee, shouldClaimReward bool, result *SimulationResult) error {
	var err error
	for _, h := range s.holdings {
		if shouldClaimFee {
			if result.FeeXClaimed, err = dmath.SafeAddU64(result.FeeXClaimed, h.feeX); err != nil {
				return err
			}
			if result.FeeYClaimed, err = dmath.SafeAddU64(result.FeeYClaimed, h.feeY); err != nil {
				return err
			}
			h.feeX, h.feeY = 0, 0
		}
		if shouldClaimReward {
			for i := range h.rewards {
				if result.RewardsClaimed[i], err = dmath.SafeAddU64(result.RewardsClaimed[i], h.rewards[i]); err != nil {
					return err
				}
				h.rewards[i] = 0
			}
		}
	}
	return nil
}

// withdraw burns bps of the position's share in every held bin of the range and pays out the
// bin's reserves pro rata.
func (s *simulator) withdraw(position shared.Position, w WithdrawParameters, result *SimulationResult) error {
	lower, upper := max(w.MinBinID, position.LowerBinID), min(w.MaxBinID, position.UpperBinID)
	for binID := lower; binID <= upper; binID++ {
		h, ok := s.holdings[binID]
		if !ok || h.share.IsZero() {
			continue
		}
		bin, err := s.loadBin(binID, false)
		if err != nil {
			return err
		}

		removed, err := dmath.MulDivU128(h.share, uint256.NewInt(w.Bps), uint256.NewInt(s.cfg.BasisPointMax), shared.RoundingDown)
		if err != nil {
			return err
		}
		if removed.IsZero() {
			continue
		}
		if removed.Gt(u128.ToUint256(bin.LiquiditySupply)) {
			return shared.NewError(shared.KindNumericOverflow, "bin %d: position share exceeds liquidity supply", binID)
		}
		outX, outY, err := dmath.CalculateOutAmount(*bin, removed)
		if err != nil {
			return err
		}

		bin.AmountX -= outX
		bin.AmountY -= outY
		supply := new(uint256.Int).Sub(u128.ToUint256(bin.LiquiditySupply), removed)
		bin.LiquiditySupply, _ = u128.FromUint256(supply) // never above the old supply
		h.share = new(uint256.Int).Sub(h.share, removed)

		if result.AmountXWithdrawn, err = dmath.SafeAddU64(result.AmountXWithdrawn, outX); err != nil {
			return err
		}
		if result.AmountYWithdrawn, err = dmath.SafeAddU64(result.AmountYWithdrawn, outY); err != nil {
			return err
		}
	}
	return nil
}
