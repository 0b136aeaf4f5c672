package quote

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

type BinSwapResult struct {
	AmountInWithFees uint64
	AmountOut        uint64
	Fee              uint64
	ProtocolFee      uint64
	HostFee          uint64
	// Bin is the bin after the swap.
	Bin shared.Bin
}

// SwapAtBin swaps up to amountIn through a single bin at totalFeeRate. When amountIn exceeds what
// the bin can absorb, the bin is drained and the unused remainder is left to the caller.
func SwapAtBin(cfg shared.Config, bin shared.Bin, price *uint256.Int, amountIn uint64, swapForY bool, totalFeeRate uint64, protocolShare uint16, hostFeeBps uint64) (BinSwapResult, error) {
	maxAmountOut := math.GetMaxAmountOut(bin, swapForY)
	maxAmountIn, err := math.GetMaxAmountIn(bin, price, swapForY)
	if err != nil {
		return BinSwapResult{}, err
	}
	maxFee, err := math.ComputeFee(cfg, totalFeeRate, maxAmountIn)
	if err != nil {
		return BinSwapResult{}, err
	}
	if maxAmountIn, err = math.SafeAddU64(maxAmountIn, maxFee); err != nil {
		return BinSwapResult{}, err
	}

	if amountIn > maxAmountIn {
		return settleBin(cfg, bin, maxAmountIn, maxAmountOut, maxFee, swapForY, protocolShare, hostFeeBps)
	}
	fee, err := math.ComputeFeeFromAmount(cfg, totalFeeRate, amountIn)
	if err != nil {
		return BinSwapResult{}, err
	}
	out, err := math.GetAmountOut(amountIn-fee, price, swapForY)
	if err != nil {
		return BinSwapResult{}, err
	}
	return settleBin(cfg, bin, amountIn, min(out, maxAmountOut), fee, swapForY, protocolShare, hostFeeBps)
}

// SwapAtBinWithCap is SwapAtBin with the bin's output limited to maxAmountOut. When the limit
// binds, the input is recomputed to buy exactly maxAmountOut and reachedCap is true.
func SwapAtBinWithCap(cfg shared.Config, bin shared.Bin, price *uint256.Int, amountIn, maxAmountOut uint64, swapForY bool, totalFeeRate uint64, protocolShare uint16, hostFeeBps uint64) (res BinSwapResult, reachedCap bool, err error) {
	res, err = SwapAtBin(cfg, bin, price, amountIn, swapForY, totalFeeRate, protocolShare, hostFeeBps)
	if err != nil || res.AmountOut < maxAmountOut {
		return res, false, err
	}
	if res.AmountOut == maxAmountOut {
		return res, true, nil
	}

	in, err := math.GetAmountIn(maxAmountOut, price, swapForY)
	if err != nil {
		return BinSwapResult{}, false, err
	}
	fee, err := math.ComputeFee(cfg, totalFeeRate, in)
	if err != nil {
		return BinSwapResult{}, false, err
	}
	inWithFees, err := math.SafeAddU64(in, fee)
	if err != nil {
		return BinSwapResult{}, false, err
	}
	if inWithFees > amountIn {
		inWithFees, fee = amountIn, min(fee, amountIn)
	}
	res, err = settleBin(cfg, bin, inWithFees, maxAmountOut, fee, swapForY, protocolShare, hostFeeBps)
	return res, true, err
}

func settleBin(cfg shared.Config, bin shared.Bin, amountInWithFees, amountOut, fee uint64, swapForY bool, protocolShare uint16, hostFeeBps uint64) (BinSwapResult, error) {
	protocolFee, err := math.ComputeProtocolFee(cfg, protocolShare, fee)
	if err != nil {
		return BinSwapResult{}, err
	}
	hostFee, err := math.ComputeHostFee(cfg, hostFeeBps, protocolFee)
	if err != nil {
		return BinSwapResult{}, err
	}

	amountIntoBin := amountInWithFees - fee
	if swapForY {
		if bin.AmountX, err = math.SafeAddU64(bin.AmountX, amountIntoBin); err != nil {
			return BinSwapResult{}, err
		}
		bin.AmountY -= amountOut
	} else {
		if bin.AmountY, err = math.SafeAddU64(bin.AmountY, amountIntoBin); err != nil {
			return BinSwapResult{}, err
		}
		bin.AmountX -= amountOut
	}

	return BinSwapResult{
		AmountInWithFees: amountInWithFees,
		AmountOut:        amountOut,
		Fee:              fee,
		ProtocolFee:      protocolFee - hostFee,
		HostFee:          hostFee,
		Bin:              bin,
	}, nil
}
