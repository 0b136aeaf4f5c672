package distribution

import (
	"github.com/shopspring/decimal"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

const weightPrecision = 30

var halfDecimal = decimal.New(5, -1)

// gaussianWeights returns the unnormalised normal density exp(-(id-mean)^2 / 2σ²) for each id,
// or its reciprocal when invert is set. The mean is the active bin, or the nearest edge when the
// active bin lies outside ids; σ is a quarter of the id span with σ² floored at 1.
func gaussianWeights(activeBin int32, ids []int32, invert bool) ([]decimal.Decimal, error) {
	smallest, largest := ids[0], ids[len(ids)-1]
	mean := activeBin
	if activeBin < smallest {
		mean = smallest
	} else if activeBin > largest {
		mean = largest
	}

	stdDev := decimal.NewFromInt32(largest - smallest).Div(decimal.NewFromInt(4))
	variance := decimal.Max(stdDev.Mul(stdDev), decimal.NewFromInt(1))
	twoVariance := variance.Mul(decimal.NewFromInt(2))

	weights := make([]decimal.Decimal, len(ids))
	for i, id := range ids {
		d := decimal.NewFromInt(int64(id) - int64(mean))
		exponent := d.Mul(d).DivRound(twoVariance, weightPrecision)
		e, err := exponent.ExpTaylor(weightPrecision)
		if err != nil {
			return nil, shared.NewError(shared.KindNumericOverflow, "gaussian weight of bin %d: %v", id, err)
		}
		if invert {
			weights[i] = e
		} else {
			weights[i] = decimal.NewFromInt(1).DivRound(e, weightPrecision)
		}
	}
	return weights, nil
}

// toBps returns floor(weight * bpsMax / total).
func toBps(weight, total decimal.Decimal, bpsMax uint64) uint64 {
	if total.IsZero() {
		return 0
	}
	return uint64(weight.Mul(decimal.NewFromInt(int64(bpsMax))).DivRound(total, weightPrecision).Floor().IntPart())
}

// sideTotals sums weights per side; the active bin contributes half to each.
func sideTotals(weights []decimal.Decimal, bid, ask []int, active int) (x, y decimal.Decimal) {
	x, y = decimal.Zero, decimal.Zero
	for _, i := range bid {
		y = y.Add(weights[i])
	}
	for _, i := range ask {
		x = x.Add(weights[i])
	}
	if active >= 0 {
		half := weights[active].Mul(halfDecimal)
		x, y = x.Add(half), y.Add(half)
	}
	return x, y
}

func sumDecimals(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
