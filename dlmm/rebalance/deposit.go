package rebalance

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/krazyTry/dlmm-go/dlmm/distribution"
	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/dlmm/strategy"
	"github.com/krazyTry/dlmm-go/u128"
)

// depositAmounts resolves a deposit into per bin amounts and the parameters it is encoded with.
// A deposit given as a bps distribution has no parameter encoding and returns nil parameters.
func (s *simulator) depositAmounts(d Deposit) ([]shared.BinAmount, *shared.StrategyParameters, error) {
	activeID := s.pair.ActiveID
	binStep := s.pair.BinStep

	params := d.Parameters
	if params == nil && d.SolveExact {
		builder, err := strategy.ForType(s.cfg, d.Strategy)
		if err != nil {
			return nil, nil, err
		}
		solved, err := strategy.BuildLiquidityStrategyParameters(
			new(big.Int).SetUint64(d.AmountX), new(big.Int).SetUint64(d.AmountY),
			d.MinDeltaID, d.MaxDeltaID, binStep, d.FavorXInActiveID, activeID, builder)
		if err != nil {
			return nil, nil, err
		}
		params = &solved
	}

	if params != nil {
		bins, err := strategy.ToAmountIntoBins(s.cfg, activeID, d.MinDeltaID, d.MaxDeltaID, *params, binStep, d.FavorXInActiveID)
		if err != nil {
			return nil, nil, err
		}
		out := make([]shared.BinAmount, len(bins))
		for i, b := range bins {
			x, err := depositAmount(b.BinID, b.AmountX)
			if err != nil {
				return nil, nil, err
			}
			y, err := depositAmount(b.BinID, b.AmountY)
			if err != nil {
				return nil, nil, err
			}
			out[i] = shared.BinAmount{BinID: b.BinID, AmountX: x, AmountY: y}
		}
		return out, params, nil
	}

	binIDs := make([]int32, 0, int(d.MaxDeltaID-d.MinDeltaID)+1)
	for delta := d.MinDeltaID; delta <= d.MaxDeltaID; delta++ {
		binIDs = append(binIDs, activeID+delta)
	}
	dists, err := distribution.Distribute(s.cfg, d.Strategy, activeID, binIDs)
	if err != nil {
		return nil, nil, err
	}
	amounts, err := distribution.ToBinAmounts(s.cfg, d.AmountX, d.AmountY, dists)
	if err != nil {
		return nil, nil, err
	}
	return amounts, nil, nil
}

func depositAmount(binID int32, v *big.Int) (uint64, error) {
	if v.Sign() < 0 {
		return 0, invalid("parameters give bin %d a negative amount %s", binID, v)
	}
	if !v.IsUint64() {
		return 0, shared.NewError(shared.KindNumericOverflow, "bin %d amount %s exceeds u64", binID, v)
	}
	return v.Uint64(), nil
}

// compositionFees charges the implied swap of an imbalanced deposit into the active bin. share is
// what the deposit would mint before fees; whichever side the share redeems more of than was
// put in is paid for by a fee on the other side.
func (s *simulator) compositionFees(bin shared.Bin, share *uint256.Int, amountX, amountY uint64) (uint64, uint64, error) {
	outX, outY, err := dmath.GetOutAmountAfterDeposit(bin, share, amountX, amountY)
	if err != nil {
		return 0, 0, err
	}
	var feeX, feeY uint64
	if outX > amountX && amountY > outY {
		if feeY, err = dmath.ComputeCompositionFee(s.cfg, s.totalFee, amountY-outY); err != nil {
			return 0, 0, err
		}
	}
	if outY > amountY && amountX > outX {
		if feeX, err = dmath.ComputeCompositionFee(s.cfg, s.totalFee, amountX-outX); err != nil {
			return 0, 0, err
		}
	}
	return min(feeX, amountX), min(feeY, amountY), nil
}

// depositToBin mints liquidity share for amountX/amountY in binID and credits it to the position.
func (s *simulator) depositToBin(binID int32, amountX, amountY uint64, result *SimulationResult) error {
	bin, err := s.loadBin(binID, true)
	if err != nil {
		return err
	}
	if amountX == 0 && amountY == 0 {
		return nil
	}
	price := u128.ToUint256(bin.Price)

	if binID == s.pair.ActiveID {
		inLiquidity, err := dmath.GetLiquidity(amountX, amountY, price)
		if err != nil {
			return err
		}
		binLiquidity, err := dmath.GetLiquidity(bin.AmountX, bin.AmountY, price)
		if err != nil {
			return err
		}
		share, err := dmath.GetLiquidityShare(inLiquidity, binLiquidity, u128.ToUint256(bin.LiquiditySupply))
		if err != nil {
			return err
		}
		feeX, feeY, err := s.compositionFees(*bin, share, amountX, amountY)
		if err != nil {
			return err
		}
		protocolX, err := dmath.ComputeProtocolFee(s.cfg, s.pair.Parameters.ProtocolShare, feeX)
		if err != nil {
			return err
		}
		protocolY, err := dmath.ComputeProtocolFee(s.cfg, s.pair.Parameters.ProtocolShare, feeY)
		if err != nil {
			return err
		}
		if bin.AmountX, err = dmath.SafeAddU64(bin.AmountX, feeX-protocolX); err != nil {
			return err
		}
		if bin.AmountY, err = dmath.SafeAddU64(bin.AmountY, feeY-protocolY); err != nil {
			return err
		}
		if result.CompositionFeeX, err = dmath.SafeAddU64(result.CompositionFeeX, feeX); err != nil {
			return err
		}
		if result.CompositionFeeY, err = dmath.SafeAddU64(result.CompositionFeeY, feeY); err != nil {
			return err
		}
		amountX -= feeX
		amountY -= feeY
	}

	inLiquidity, err := dmath.GetLiquidity(amountX, amountY, price)
	if err != nil {
		return err
	}
	binLiquidity, err := dmath.GetLiquidity(bin.AmountX, bin.AmountY, price)
	if err != nil {
		return err
	}
	supply := u128.ToUint256(bin.LiquiditySupply)
	share, err := dmath.GetLiquidityShare(inLiquidity, binLiquidity, supply)
	if err != nil {
		return err
	}

	newSupply, overflow := new(uint256.Int).AddOverflow(supply, share)
	if overflow {
		return shared.NewError(shared.KindNumericOverflow, "bin %d liquidity supply", binID)
	}
	var ok bool
	if bin.LiquiditySupply, ok = u128.FromUint256(newSupply); !ok {
		return shared.NewError(shared.KindNumericOverflow, "bin %d liquidity supply exceeds 128 bits", binID)
	}
	if bin.AmountX, err = dmath.SafeAddU64(bin.AmountX, amountX); err != nil {
		return err
	}
	if bin.AmountY, err = dmath.SafeAddU64(bin.AmountY, amountY); err != nil {
		return err
	}

	h := s.holding(binID)
	h.share = new(uint256.Int).Add(h.share, share)
	return nil
}

// deposit runs one deposit action and records its encoded parameters.
func (s *simulator) deposit(d Deposit, result *SimulationResult) error {
	amounts, params, err := s.depositAmounts(d)
	if err != nil {
		return fmt.Errorf("deposit [%d, %d]: %w", d.MinDeltaID, d.MaxDeltaID, err)
	}
	for _, a := range amounts {
		if err := s.depositToBin(a.BinID, a.AmountX, a.AmountY, result); err != nil {
			return fmt.Errorf("deposit into bin %d: %w", a.BinID, err)
		}
		if result.AmountXDeposited, err = dmath.SafeAddU64(result.AmountXDeposited, a.AmountX); err != nil {
			return err
		}
		if result.AmountYDeposited, err = dmath.SafeAddU64(result.AmountYDeposited, a.AmountY); err != nil {
			return err
		}
	}

	if params != nil {
		flag, encoded := strategy.BuildBitFlagAndNegate(*params)
		result.DepositParams = append(result.DepositParams, DepositParameters{
			MinDeltaID:       d.MinDeltaID,
			MaxDeltaID:       d.MaxDeltaID,
			X0:               encoded.X0,
			Y0:               encoded.Y0,
			DeltaX:           encoded.DeltaX,
			DeltaY:           encoded.DeltaY,
			BitFlag:          flag,
			FavorXInActiveID: d.FavorXInActiveID,
		})
	}
	return nil
}
