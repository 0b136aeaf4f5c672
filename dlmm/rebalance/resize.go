package rebalance

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// allocatedBins is the share-array capacity a position of width needs, in whole chunks of
// DefaultBinPerPosition. An empty position holds none.
func allocatedBins(cfg shared.Config, width int32) int64 {
	if width <= 0 {
		return 0
	}
	chunk := int64(cfg.DefaultBinPerPosition)
	return (int64(width) + chunk - 1) / chunk * chunk
}

// rentDelta is the rent paid (positive) or reclaimed (negative) when the position's capacity
// changes from widthBefore to widthAfter.
func rentDelta(cfg shared.Config, widthBefore, widthAfter int32) int64 {
	bins := allocatedBins(cfg, widthAfter) - allocatedBins(cfg, widthBefore)
	return bins * int64(cfg.PositionBinDataSize) * int64(cfg.RentLamportsPerByte)
}

// resizedRange returns the smallest range holding every bin with share or unclaimed earnings,
// widened to the deposit windows. ok is false when nothing is left.
func (s *simulator) resizedRange(depositLower, depositUpper int32, hasDeposit bool) (lower, upper int32, ok bool) {
	if hasDeposit {
		lower, upper, ok = depositLower, depositUpper, true
	}
	for binID, h := range s.holdings {
		if h.isEmpty() {
			continue
		}
		if !ok {
			lower, upper, ok = binID, binID, true
			continue
		}
		lower, upper = min(lower, binID), max(upper, binID)
	}
	return lower, upper, ok
}
