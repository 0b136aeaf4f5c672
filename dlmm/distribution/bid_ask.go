package distribution

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// BidAsk is the inverse of Curve: liquidity grows away from the active bin.
type BidAsk struct {
	cfg shared.Config
}

func NewBidAsk(cfg shared.Config) BidAsk {
	return BidAsk{cfg: cfg}
}

func (BidAsk) Type() shared.StrategyType { return shared.StrategyTypeBidAsk }

func (BidAsk) sealed() {}

func (b BidAsk) Distribute(activeBin int32, binIDs []int32) ([]shared.BinDistribution, error) {
	ids, err := sortedBinIDs(binIDs)
	if err != nil {
		return nil, err
	}
	weights, err := gaussianWeights(activeBin, ids, true)
	if err != nil {
		return nil, err
	}
	bpsMax := b.cfg.BasisPointMax
	out := emptyDistributions(ids)
	last := len(out) - 1

	// One-sided: the rounding loss goes to the outermost bin.
	if activeBin < ids[0] {
		total := sumDecimals(weights)
		var sum uint64
		for i := range ids {
			out[i].XBps = toBps(weights[i], total, bpsMax)
			sum += out[i].XBps
		}
		out[last].XBps += bpsMax - sum
		return out, nil
	}
	if activeBin > ids[last] {
		total := sumDecimals(weights)
		var sum uint64
		for i := range ids {
			out[i].YBps = toBps(weights[i], total, bpsMax)
			sum += out[i].YBps
		}
		out[0].YBps += bpsMax - sum
		return out, nil
	}

	bid, ask, active := sides(activeBin, ids)
	totalX, totalY := sideTotals(weights, bid, ask, active)

	var sumX, sumY uint64
	for _, i := range ask {
		out[i].XBps = toBps(weights[i], totalX, bpsMax)
		sumX += out[i].XBps
	}
	for _, i := range bid {
		out[i].YBps = toBps(weights[i], totalY, bpsMax)
		sumY += out[i].YBps
	}
	if active >= 0 {
		half := weights[active].Mul(halfDecimal)
		out[active].XBps = toBps(half, totalX, bpsMax)
		out[active].YBps = toBps(half, totalY, bpsMax)
		sumX += out[active].XBps
		sumY += out[active].YBps
	}

	out[0].YBps += bpsMax - sumY
	out[last].XBps += bpsMax - sumX
	return out, nil
}
