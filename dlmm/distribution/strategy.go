package distribution

import (
	"sort"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// Strategy spreads a deposit over bins. For every result, the non-zero XBps values sum to
// BasisPointMax, as do the non-zero YBps values.
type Strategy interface {
	Type() shared.StrategyType
	Distribute(activeBin int32, binIDs []int32) ([]shared.BinDistribution, error)
	sealed()
}

func ForType(cfg shared.Config, t shared.StrategyType) (Strategy, error) {
	switch t {
	case shared.StrategyTypeSpot:
		return Spot{cfg: cfg}, nil
	case shared.StrategyTypeCurve:
		return Curve{cfg: cfg}, nil
	case shared.StrategyTypeBidAsk:
		return BidAsk{cfg: cfg}, nil
	}
	return nil, shared.NewError(shared.KindInvalidDistributionInput, "unknown strategy type %d", t)
}

// Distribute runs the calculator for t.
func Distribute(cfg shared.Config, t shared.StrategyType, activeBin int32, binIDs []int32) ([]shared.BinDistribution, error) {
	s, err := ForType(cfg, t)
	if err != nil {
		return nil, err
	}
	return s.Distribute(activeBin, binIDs)
}

// sortedBinIDs returns an ascending copy of binIDs, rejecting empty input and duplicates.
func sortedBinIDs(binIDs []int32) ([]int32, error) {
	if len(binIDs) == 0 {
		return nil, shared.NewError(shared.KindInvalidDistributionInput, "no bins to distribute over")
	}
	ids := make([]int32, len(binIDs))
	copy(ids, binIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return nil, shared.NewError(shared.KindInvalidDistributionInput, "duplicate bin id %d", ids[i])
		}
	}
	return ids, nil
}

// sides partitions sorted ids around activeBin into bid positions, ask positions and the
// position of the active bin (-1 when absent).
func sides(activeBin int32, ids []int32) (bid, ask []int, active int) {
	active = -1
	for i, id := range ids {
		switch {
		case id < activeBin:
			bid = append(bid, i)
		case id > activeBin:
			ask = append(ask, i)
		default:
			active = i
		}
	}
	return bid, ask, active
}

func emptyDistributions(ids []int32) []shared.BinDistribution {
	out := make([]shared.BinDistribution, len(ids))
	for i, id := range ids {
		out[i].BinID = id
	}
	return out
}
