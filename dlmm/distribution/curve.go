package distribution

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// Curve concentrates liquidity around the active bin following a normal curve.
type Curve struct {
	cfg shared.Config
}

func NewCurve(cfg shared.Config) Curve {
	return Curve{cfg: cfg}
}

func (Curve) Type() shared.StrategyType { return shared.StrategyTypeCurve }

func (Curve) sealed() {}

func (c Curve) Distribute(activeBin int32, binIDs []int32) ([]shared.BinDistribution, error) {
	ids, err := sortedBinIDs(binIDs)
	if err != nil {
		return nil, err
	}
	weights, err := gaussianWeights(activeBin, ids, false)
	if err != nil {
		return nil, err
	}
	bpsMax := c.cfg.BasisPointMax
	out := emptyDistributions(ids)

	// One-sided: the rounding loss goes to the bin nearest the active bin.
	if activeBin < ids[0] {
		total := sumDecimals(weights)
		var sum uint64
		for i := range ids {
			out[i].XBps = toBps(weights[i], total, bpsMax)
			sum += out[i].XBps
		}
		out[0].XBps += bpsMax - sum
		return out, nil
	}
	if activeBin > ids[len(ids)-1] {
		total := sumDecimals(weights)
		var sum uint64
		for i := range ids {
			out[i].YBps = toBps(weights[i], total, bpsMax)
			sum += out[i].YBps
		}
		out[len(out)-1].YBps += bpsMax - sum
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
		out[active].XBps = bpsMax - sumX
		out[active].YBps = bpsMax - sumY
		return out, nil
	}
	// The active bin is not part of the range: its share goes to the nearest bin on each side.
	out[ask[0]].XBps += bpsMax - sumX
	out[bid[len(bid)-1]].YBps += bpsMax - sumY
	return out, nil
}

