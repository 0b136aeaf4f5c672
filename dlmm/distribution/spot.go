package distribution

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// Spot gives every bin the same share of its side. The active bin counts as half a bin on
// each side and absorbs the rounding remainder.
type Spot struct {
	cfg shared.Config
}

func NewSpot(cfg shared.Config) Spot {
	return Spot{cfg: cfg}
}

func (Spot) Type() shared.StrategyType { return shared.StrategyTypeSpot }

func (Spot) sealed() {}

func (s Spot) Distribute(activeBin int32, binIDs []int32) ([]shared.BinDistribution, error) {
	ids, err := sortedBinIDs(binIDs)
	if err != nil {
		return nil, err
	}
	bpsMax := s.cfg.BasisPointMax
	out := emptyDistributions(ids)
	bid, ask, active := sides(activeBin, ids)

	if active < 0 {
		// Equal split per side; the remainder goes to the bin farthest from the active bin.
		if len(bid) > 0 {
			per := bpsMax / uint64(len(bid))
			for _, i := range bid {
				out[i].YBps = per
			}
			out[bid[0]].YBps += bpsMax - per*uint64(len(bid))
		}
		if len(ask) > 0 {
			per := bpsMax / uint64(len(ask))
			for _, i := range ask {
				out[i].XBps = per
			}
			out[ask[len(ask)-1]].XBps += bpsMax - per*uint64(len(ask))
		}
		return out, nil
	}

	// bpsMax / (n + 0.5) == 2*bpsMax / (2n + 1)
	yBinBps := 2 * bpsMax / (2*uint64(len(bid)) + 1)
	xBinBps := 2 * bpsMax / (2*uint64(len(ask)) + 1)
	for _, i := range bid {
		out[i].YBps = yBinBps
	}
	for _, i := range ask {
		out[i].XBps = xBinBps
	}
	out[active].YBps = bpsMax - yBinBps*uint64(len(bid))
	out[active].XBps = bpsMax - xBinBps*uint64(len(ask))
	return out, nil
}
