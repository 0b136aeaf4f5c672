package rebalance

import (
	"sort"

	"github.com/holiman/uint256"

	"github.com/krazyTry/dlmm-go/dlmm/bitmap"
	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/math/pool_fees"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/u128"
)

// holding is the position's stake in one bin: its share plus earnings checkpointed against the
// bin's per-token accumulators.
type holding struct {
	share   *uint256.Int
	feeX    uint64
	feeY    uint64
	rewards [2]uint64
}

func (h *holding) isEmpty() bool {
	return h.share.IsZero() && h.feeX == 0 && h.feeY == 0 && h.rewards[0] == 0 && h.rewards[1] == 0
}

// simulator holds the mutable copies a simulation works on. Snapshots passed in are never
// written to.
type simulator struct {
	cfg    shared.Config
	pair   shared.LbPair
	ext    *shared.BinArrayBitmapExtension
	arrays map[int64]shared.BinArray

	vParams  shared.VariableParameters
	totalFee uint64

	bins           map[int32]*shared.Bin
	holdings       map[int32]*holding
	touched        map[int64]bool
	created        map[int64]bool
	needsExtension bool
}

func newSimulator(cfg shared.Config, params SimulateParams) *simulator {
	pair := params.LbPair
	vParams := pool_fees.UpdateVolatilityParameters(cfg, pair.Parameters, pair.VParameters, pair.ActiveID, params.CurrentTimestamp)
	return &simulator{
		cfg:      cfg,
		pair:     pair,
		ext:      params.Extension,
		arrays:   bitmap.IndexBinArrays(params.BinArrays),
		vParams:  vParams,
		totalFee: pool_fees.GetTotalFee(cfg, pair.BinStep, pair.Parameters, vParams),
		bins:     make(map[int32]*shared.Bin),
		holdings: make(map[int32]*holding),
		touched:  make(map[int64]bool),
		created:  make(map[int64]bool),
	}
}

// loadBin returns the working copy of binID. With create set, a bin in an uninitialised bin
// array is started empty and the array is recorded as created; otherwise a missing array is
// an error.
func (s *simulator) loadBin(binID int32, create bool) (*shared.Bin, error) {
	if bin, ok := s.bins[binID]; ok {
		return bin, nil
	}
	index := bitmap.BinIDToBinArrayIndex(s.cfg, binID)
	if err := bitmap.CheckValidIndex(s.cfg, index); err != nil {
		return nil, err
	}

	var bin shared.Bin
	if array, ok := s.arrays[index]; ok {
		b, err := bitmap.GetBin(s.cfg, array, binID)
		if err != nil {
			return nil, err
		}
		bin = b
	} else {
		set, known := bitmap.IsBinArrayInitialized(s.cfg, index, s.pair, s.ext)
		if set {
			return nil, shared.NewError(shared.KindMissingBinGroupData, "bin array %d is initialised but not supplied", index)
		}
		if !create {
			return nil, shared.NewError(shared.KindMissingBinGroupData, "bin array %d for bin %d not supplied", index, binID)
		}
		if !known {
			s.needsExtension = true
		}
		s.created[index] = true
	}
	if bitmap.IsOverflowDefaultBinArrayBitmap(s.cfg, index) && s.ext == nil {
		s.needsExtension = true
	}

	if u128.IsZero(bin.Price) {
		price, err := dmath.GetPriceFromIDU256(s.cfg, binID, s.pair.BinStep)
		if err != nil {
			return nil, err
		}
		var ok bool
		if bin.Price, ok = u128.FromUint256(price); !ok {
			return nil, shared.NewError(shared.KindNumericOverflow, "bin %d price exceeds 128 bits", binID)
		}
	}
	s.touched[index] = true
	s.bins[binID] = &bin
	return &bin, nil
}

func (s *simulator) holding(binID int32) *holding {
	h, ok := s.holdings[binID]
	if !ok {
		h = &holding{share: new(uint256.Int)}
		s.holdings[binID] = h
	}
	return h
}

// loadPosition checkpoints the position's earnings in every bin it holds. Bins where the position
// has a share must be covered by the supplied bin arrays.
func (s *simulator) loadPosition(position shared.Position) error {
	width := int(position.Width())
	if len(position.LiquidityShares) < width {
		return invalid("position has %d shares for width %d", len(position.LiquidityShares), width)
	}
	for i := 0; i < width; i++ {
		binID := position.LowerBinID + int32(i)
		h := s.holding(binID)
		h.share = u128.ToUint256(position.LiquidityShares[i])

		var feeInfo shared.FeeInfo
		if i < len(position.FeeInfos) {
			feeInfo = position.FeeInfos[i]
		}
		var rewardInfo shared.UserRewardInfo
		if i < len(position.RewardInfos) {
			rewardInfo = position.RewardInfos[i]
		}

		if h.share.IsZero() {
			h.feeX, h.feeY = feeInfo.FeeXPending, feeInfo.FeeYPending
			h.rewards = rewardInfo.RewardPendings
			continue
		}

		bin, err := s.loadBin(binID, false)
		if err != nil {
			return err
		}
		if h.feeX, h.feeY, err = dmath.ClaimableFee(*bin, h.share, feeInfo); err != nil {
			return err
		}
		if h.rewards, err = dmath.ClaimableReward(*bin, h.share, rewardInfo); err != nil {
			return err
		}
	}
	return nil
}

func sortedIndexes(set map[int64]bool) []int64 {
	out := make([]int64, 0, len(set))
	for index := range set {
		out = append(out, index)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
