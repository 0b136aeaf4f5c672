package strategy

import (
	"math/big"

	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// Spot deposits the same quote value in every bin: delta is always zero.
type Spot struct {
	cfg shared.Config
}

func NewSpot(cfg shared.Config) Spot {
	return Spot{cfg: cfg}
}

func (Spot) Type() shared.StrategyType { return shared.StrategyTypeSpot }

// FindYParameters splits amountY evenly: y0 = amountY / binCount.
func (Spot) FindYParameters(amountY *big.Int, minDeltaID, maxDeltaID int32, activeID int32) (shared.BidAskParameters, error) {
	if minDeltaID > maxDeltaID || amountY.Sign() <= 0 {
		return zeroSide(), nil
	}
	binCount := big.NewInt(int64(maxDeltaID) - int64(minDeltaID) + 1)
	return shared.BidAskParameters{Base: new(big.Int).Quo(amountY, binCount), Delta: new(big.Int)}, nil
}

// FindXParameters returns the largest x0 whose realised amount stays below amountX, starting
// from amountX<<64 / Σ price(-binID).
func (s Spot) FindXParameters(amountX *big.Int, minDeltaID, maxDeltaID int32, binStep uint16, activeID int32) (shared.BidAskParameters, error) {
	if minDeltaID > maxDeltaID || amountX.Sign() <= 0 {
		return zeroSide(), nil
	}
	prices, err := inversePrices(s.cfg, binStep, activeID+minDeltaID, activeID+maxDeltaID)
	if err != nil {
		return shared.BidAskParameters{}, err
	}
	totalWeight := sumBig(prices)
	if totalWeight.Sign() == 0 {
		return shared.BidAskParameters{}, shared.NewError(shared.KindNumericOverflow, "inverse price sum is zero for step %d", binStep)
	}
	estimate := new(big.Int).Lsh(amountX, shared.ScaleOffset)
	estimate.Quo(estimate, totalWeight)

	zero := new(big.Int)
	x0, err := searchUp(estimate, amountX, func(v *big.Int) (*big.Int, error) {
		return askTotal(prices, activeID, activeID+minDeltaID, v, zero), nil
	})
	if err != nil {
		return shared.BidAskParameters{}, err
	}
	return shared.BidAskParameters{Base: x0.Sub(x0, one), Delta: new(big.Int)}, nil
}

// SuggestedParameters is a one sided solution together with the amount it realises.
type SuggestedParameters struct {
	Base   *big.Int
	Delta  *big.Int
	Amount *big.Int
}

// SuggestBalancedXParametersFromY returns ask side parameters worth amountY in quote value.
func (s Spot) SuggestBalancedXParametersFromY(activeID int32, binStep uint16, favorXInActiveID bool, minDeltaID, maxDeltaID int32, amountY *big.Int) (SuggestedParameters, error) {
	if maxDeltaID < 0 {
		return SuggestedParameters{Base: new(big.Int), Delta: new(big.Int), Amount: new(big.Int)}, nil
	}
	x0 := new(big.Int).Quo(amountY, big.NewInt(int64(maxDeltaID)+1))
	bins, err := ToAmountIntoBins(s.cfg, activeID, minDeltaID, maxDeltaID, shared.StrategyParameters{X0: x0}, binStep, favorXInActiveID)
	if err != nil {
		return SuggestedParameters{}, err
	}
	return SuggestedParameters{Base: x0, Delta: new(big.Int), Amount: sumAmountX(bins)}, nil
}

// SuggestBalancedYParametersFromX returns bid side parameters matching amountXInQuoteValue.
func (s Spot) SuggestBalancedYParametersFromX(activeID int32, binStep uint16, favorXInActiveID bool, minDeltaID, maxDeltaID int32, amountXInQuoteValue *big.Int) (SuggestedParameters, error) {
	y0 := new(big.Int).Quo(amountXInQuoteValue, big.NewInt(int64(maxDeltaID)-int64(minDeltaID)+1))
	bins, err := ToAmountIntoBins(s.cfg, activeID, minDeltaID, maxDeltaID, shared.StrategyParameters{Y0: y0}, binStep, favorXInActiveID)
	if err != nil {
		return SuggestedParameters{}, err
	}
	return SuggestedParameters{Base: y0, Delta: new(big.Int), Amount: sumAmountY(bins)}, nil
}

// inversePrices returns price(-binID) for binID in [minBinID, maxBinID], indexed from minBinID,
// iterated from the top bin exactly like GetAmountInBinsAskSide.
func inversePrices(cfg shared.Config, binStep uint16, minBinID, maxBinID int32) ([]*big.Int, error) {
	if minBinID > maxBinID {
		return nil, nil
	}
	baseFactor := dmath.GetQPriceBaseFactor(cfg, binStep)
	start := dmath.Pow(baseFactor, -int64(maxBinID))
	if start == nil {
		return nil, shared.NewError(shared.KindNumericOverflow, "inverse price of bin %d with step %d", maxBinID, binStep)
	}
	base := baseFactor.ToBig()
	price := start.ToBig()

	out := make([]*big.Int, int(maxBinID-minBinID)+1)
	for binID := maxBinID; binID >= minBinID; binID-- {
		out[binID-minBinID] = new(big.Int).Set(price)
		price.Mul(price, base)
		price.Rsh(price, shared.ScaleOffset)
	}
	return out, nil
}

// askTotal is Σ (x0 + delta*(binID-activeID)) * price(-binID) >> 64 over prices starting at
// minBinID.
func askTotal(prices []*big.Int, activeID, minBinID int32, x0, delta *big.Int) *big.Int {
	total := new(big.Int)
	amount := new(big.Int)
	for i, p := range prices {
		d := int64(minBinID) + int64(i) - int64(activeID)
		amount.Mul(delta, big.NewInt(d))
		amount.Add(amount, x0)
		amount.Mul(amount, p)
		total.Add(total, amount.Quo(amount, shared.OneQ64))
	}
	return total
}

// bidTotal is Σ y0 + delta*(activeID-binID) over [minBinID, maxBinID].
func bidTotal(activeID, minBinID, maxBinID int32, y0, delta *big.Int) *big.Int {
	total := new(big.Int)
	amount := new(big.Int)
	for binID := minBinID; binID <= maxBinID; binID++ {
		amount.Mul(delta, big.NewInt(int64(activeID)-int64(binID)))
		amount.Add(amount, y0)
		total.Add(total, amount)
	}
	return total
}

func sumBig(values []*big.Int) *big.Int {
	total := new(big.Int)
	for _, v := range values {
		total.Add(total, v)
	}
	return total
}
