package rebalance

import (
	"sort"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func invalid(format string, args ...any) error {
	return shared.NewError(shared.KindInvalidDistributionInput, format, args...)
}

// resolveWithdraws fills default bounds, sorts by lower bound and rejects overlaps.
func resolveWithdraws(cfg shared.Config, withdraws []Withdraw, activeID int32) ([]WithdrawParameters, error) {
	out := make([]WithdrawParameters, 0, len(withdraws))
	for _, w := range withdraws {
		if w.Bps > cfg.BasisPointMax {
			return nil, invalid("withdraw bps %d exceeds %d", w.Bps, cfg.BasisPointMax)
		}
		lower, upper := activeID, activeID
		if w.MinBinID != nil {
			lower = *w.MinBinID
		}
		if w.MaxBinID != nil {
			upper = *w.MaxBinID
		}
		if lower > upper {
			return nil, invalid("withdraw range [%d, %d]", lower, upper)
		}
		out = append(out, WithdrawParameters{MinBinID: lower, MaxBinID: upper, Bps: w.Bps})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].MinBinID < out[j].MinBinID })
	for i := 1; i < len(out); i++ {
		if out[i].MinBinID <= out[i-1].MaxBinID {
			return nil, invalid("withdraw ranges [%d, %d] and [%d, %d] overlap",
				out[i-1].MinBinID, out[i-1].MaxBinID, out[i].MinBinID, out[i].MaxBinID)
		}
	}
	return out, nil
}

// sortDeposits returns the deposits ordered by window, rejecting empty and overlapping windows.
func sortDeposits(cfg shared.Config, deposits []Deposit, activeID int32) ([]Deposit, error) {
	out := append([]Deposit(nil), deposits...)
	for _, d := range out {
		if d.MinDeltaID > d.MaxDeltaID {
			return nil, invalid("deposit window [%d, %d]", d.MinDeltaID, d.MaxDeltaID)
		}
		lower, upper := int64(activeID)+int64(d.MinDeltaID), int64(activeID)+int64(d.MaxDeltaID)
		if lower < int64(cfg.MinBinID) || upper > int64(cfg.MaxBinID) {
			return nil, invalid("deposit bins [%d, %d] outside [%d, %d]", lower, upper, cfg.MinBinID, cfg.MaxBinID)
		}
		if d.Parameters == nil && d.AmountX == 0 && d.AmountY == 0 {
			return nil, invalid("deposit [%d, %d] has no amounts", d.MinDeltaID, d.MaxDeltaID)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].MinDeltaID < out[j].MinDeltaID })
	for i := 1; i < len(out); i++ {
		if out[i].MinDeltaID <= out[i-1].MaxDeltaID {
			return nil, invalid("deposit windows [%d, %d] and [%d, %d] overlap",
				out[i-1].MinDeltaID, out[i-1].MaxDeltaID, out[i].MinDeltaID, out[i].MaxDeltaID)
		}
	}
	return out, nil
}
