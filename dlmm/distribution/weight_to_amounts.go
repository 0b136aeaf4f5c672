package distribution

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func floorUint64(d decimal.Decimal) uint64 {
	if !d.IsPositive() {
		return 0
	}
	return d.Floor().BigInt().Uint64()
}

func weightOf(w shared.BinWeight) decimal.Decimal {
	return math.DecimalFromUint64(w.Weight)
}

func weightPerPrice(cfg shared.Config, w shared.BinWeight, binStep uint16) (decimal.Decimal, error) {
	price, err := math.GetPriceOfBinByBinID(cfg, w.BinID, binStep)
	if err != nil {
		return decimal.Zero, err
	}
	return weightOf(w).DivRound(price, weightPrecision), nil
}

// ToAmountBidSide splits totalAmount of Y over the bins at or below activeID by weight.
func ToAmountBidSide(activeID int32, totalAmount uint64, distributions []shared.BinWeight) ([]shared.BinAmount, error) {
	totalWeight := decimal.Zero
	for _, d := range distributions {
		if d.BinID <= activeID {
			totalWeight = totalWeight.Add(weightOf(d))
		}
	}
	if !totalWeight.IsPositive() {
		return nil, shared.NewError(shared.KindInvalidDistributionInput, "no bid side weight")
	}
	total := math.DecimalFromUint64(totalAmount)
	out := make([]shared.BinAmount, len(distributions))
	for i, d := range distributions {
		out[i].BinID = d.BinID
		if d.BinID <= activeID {
			out[i].AmountY = floorUint64(total.Mul(weightOf(d)).DivRound(totalWeight, weightPrecision))
		}
	}
	return out, nil
}

// ToAmountAskSide splits totalAmount of X over the bins at or above activeID by weight/price.
func ToAmountAskSide(cfg shared.Config, activeID int32, binStep uint16, totalAmount uint64, distributions []shared.BinWeight) ([]shared.BinAmount, error) {
	perPrice := make([]decimal.Decimal, len(distributions))
	totalWeight := decimal.Zero
	for i, d := range distributions {
		if d.BinID < activeID {
			continue
		}
		w, err := weightPerPrice(cfg, d, binStep)
		if err != nil {
			return nil, err
		}
		perPrice[i] = w
		totalWeight = totalWeight.Add(w)
	}
	if !totalWeight.IsPositive() {
		return nil, shared.NewError(shared.KindInvalidDistributionInput, "no ask side weight")
	}
	total := math.DecimalFromUint64(totalAmount)
	out := make([]shared.BinAmount, len(distributions))
	for i, d := range distributions {
		out[i].BinID = d.BinID
		if d.BinID >= activeID {
			out[i].AmountX = floorUint64(total.Mul(perPrice[i]).DivRound(totalWeight, weightPrecision))
		}
	}
	return out, nil
}

// activeBinWeights splits the active bin's weight into its X and Y parts. An empty active bin is
// split evenly by value; otherwise the split follows the bin's current composition.
func activeBinWeights(cfg shared.Config, activeID int32, binStep uint16, weight shared.BinWeight, amountXInActiveBin, amountYInActiveBin uint64) (decimal.Decimal, decimal.Decimal, error) {
	p0, err := math.GetPriceOfBinByBinID(cfg, activeID, binStep)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	w := weightOf(weight)
	if amountXInActiveBin == 0 && amountYInActiveBin == 0 {
		return w.DivRound(p0.Mul(decimal.NewFromInt(2)), weightPrecision), w.Mul(halfDecimal), nil
	}
	x := math.DecimalFromUint64(amountXInActiveBin)
	y := math.DecimalFromUint64(amountYInActiveBin)
	wx0, wy0 := decimal.Zero, decimal.Zero
	if amountXInActiveBin != 0 {
		wx0 = w.DivRound(p0.Add(y.DivRound(x, weightPrecision)), weightPrecision)
	}
	if amountYInActiveBin != 0 {
		wy0 = w.DivRound(decimal.NewFromInt(1).Add(p0.Mul(x).DivRound(y, weightPrecision)), weightPrecision)
	}
	return wx0, wy0, nil
}

type sideWeights struct {
	wx0, wy0       decimal.Decimal
	totalX, totalY decimal.Decimal
	perPrice       []decimal.Decimal
	hasActive      bool
}

func computeSideWeights(cfg shared.Config, activeID int32, binStep uint16, amountXInActiveBin, amountYInActiveBin uint64, distributions []shared.BinWeight) (sideWeights, error) {
	sw := sideWeights{wx0: decimal.Zero, wy0: decimal.Zero, perPrice: make([]decimal.Decimal, len(distributions))}
	activeCount := 0
	var active shared.BinWeight
	for _, d := range distributions {
		if d.BinID == activeID {
			activeCount++
			active = d
		}
	}
	sw.hasActive = activeCount == 1
	if sw.hasActive {
		wx0, wy0, err := activeBinWeights(cfg, activeID, binStep, active, amountXInActiveBin, amountYInActiveBin)
		if err != nil {
			return sw, err
		}
		sw.wx0, sw.wy0 = wx0, wy0
	}
	sw.totalX, sw.totalY = sw.wx0, sw.wy0
	for i, d := range distributions {
		switch {
		case d.BinID < activeID:
			sw.totalY = sw.totalY.Add(weightOf(d))
		case d.BinID > activeID || !sw.hasActive:
			w, err := weightPerPrice(cfg, d, binStep)
			if err != nil {
				return sw, err
			}
			sw.perPrice[i] = w
			sw.totalX = sw.totalX.Add(w)
		}
	}
	return sw, nil
}

// ToAmountBothSide fills both sides with a common scale k = min(amountX/ΣwX, amountY/ΣwY), so the
// scarcer token is used up completely.
func ToAmountBothSide(cfg shared.Config, activeID int32, binStep uint16, amountX, amountY, amountXInActiveBin, amountYInActiveBin uint64, distributions []shared.BinWeight) ([]shared.BinAmount, error) {
	sw, err := computeSideWeights(cfg, activeID, binStep, amountXInActiveBin, amountYInActiveBin, distributions)
	if err != nil {
		return nil, err
	}
	if !sw.totalX.IsPositive() || !sw.totalY.IsPositive() {
		return nil, shared.NewError(shared.KindInvalidDistributionInput, "both sides need weight")
	}
	kx := math.DecimalFromUint64(amountX).DivRound(sw.totalX, weightPrecision)
	ky := math.DecimalFromUint64(amountY).DivRound(sw.totalY, weightPrecision)
	k := decimal.Min(kx, ky)

	out := make([]shared.BinAmount, len(distributions))
	for i, d := range distributions {
		out[i].BinID = d.BinID
		switch {
		case d.BinID < activeID:
			out[i].AmountY = floorUint64(k.Mul(weightOf(d)))
		case d.BinID > activeID || !sw.hasActive:
			out[i].AmountX = floorUint64(k.Mul(sw.perPrice[i]))
		default:
			out[i].AmountX = floorUint64(k.Mul(sw.wx0))
			out[i].AmountY = floorUint64(k.Mul(sw.wy0))
		}
	}
	return out, nil
}

// AutoFillYByWeight returns the Y amount that matches amountX under the weight distribution.
func AutoFillYByWeight(cfg shared.Config, activeID int32, binStep uint16, amountX, amountXInActiveBin, amountYInActiveBin uint64, distributions []shared.BinWeight) (uint64, error) {
	sw, err := computeSideWeights(cfg, activeID, binStep, amountXInActiveBin, amountYInActiveBin, distributions)
	if err != nil {
		return 0, err
	}
	kx := decimal.NewFromInt(1)
	if !sw.totalX.IsZero() {
		kx = math.DecimalFromUint64(amountX).DivRound(sw.totalX, weightPrecision)
	}
	return floorUint64(kx.Mul(sw.totalY)), nil
}

// AutoFillXByWeight returns the X amount that matches amountY under the weight distribution.
func AutoFillXByWeight(cfg shared.Config, activeID int32, binStep uint16, amountY, amountXInActiveBin, amountYInActiveBin uint64, distributions []shared.BinWeight) (uint64, error) {
	sw, err := computeSideWeights(cfg, activeID, binStep, amountXInActiveBin, amountYInActiveBin, distributions)
	if err != nil {
		return 0, err
	}
	ky := decimal.NewFromInt(1)
	if !sw.totalY.IsZero() {
		ky = math.DecimalFromUint64(amountY).DivRound(sw.totalY, weightPrecision)
	}
	return floorUint64(ky.Mul(sw.totalX)), nil
}

// FromWeightDistributionToAmount converts weights to per-bin amounts, choosing the bid, ask or
// two-sided conversion from where the bins sit relative to activeID.
func FromWeightDistributionToAmount(cfg shared.Config, amountX, amountY uint64, distributions []shared.BinWeight, binStep uint16, activeID int32, amountXInActiveBin, amountYInActiveBin uint64) ([]shared.BinAmount, error) {
	if len(distributions) == 0 {
		return nil, nil
	}
	sorted := make([]shared.BinWeight, len(distributions))
	copy(sorted, distributions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BinID < sorted[j].BinID })

	if activeID > sorted[len(sorted)-1].BinID {
		return ToAmountBidSide(activeID, amountY, sorted)
	}
	if activeID < sorted[0].BinID {
		return ToAmountAskSide(cfg, activeID, binStep, amountX, sorted)
	}
	return ToAmountBothSide(cfg, activeID, binStep, amountX, amountY, amountXInActiveBin, amountYInActiveBin, sorted)
}
