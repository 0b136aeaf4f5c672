package strategy

import (
	"math/big"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// Curve concentrates liquidity at the active bin and decays linearly to zero at the window
// edges.
type Curve struct {
	cfg shared.Config
}

func NewCurve(cfg shared.Config) Curve {
	return Curve{cfg: cfg}
}

func (Curve) Type() shared.StrategyType { return shared.StrategyTypeCurve }

// curveBaseY0 estimates y0 for deltaY = -y0/(m1+1), where the window is [-m1, -m2]:
// y0 = amountY / ((m1-m2+1) - (m1(m1+1)/2 - m2(m2-1)/2)/(m1+1)).
func curveBaseY0(amountY *big.Int, minDeltaID, maxDeltaID int32) *big.Int {
	if minDeltaID > maxDeltaID || amountY.Sign() <= 0 {
		return new(big.Int)
	}
	if minDeltaID == maxDeltaID {
		return new(big.Int).Set(amountY)
	}
	m1 := big.NewInt(-int64(minDeltaID))
	m2 := big.NewInt(-int64(maxDeltaID))
	m1Plus1 := new(big.Int).Add(m1, one)
	if m1Plus1.Sign() <= 0 {
		return new(big.Int)
	}

	b := new(big.Int).Sub(m1, m2)
	b.Add(b, one)
	c := new(big.Int).Mul(m1, m1Plus1)
	c.Quo(c, big.NewInt(2))
	d := new(big.Int).Sub(m2, one)
	d.Mul(d, m2).Quo(d, big.NewInt(2))

	a := new(big.Int).Sub(c, d)
	a.Quo(a, m1Plus1)
	a.Sub(b, a)
	if a.Sign() <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Quo(amountY, a)
}

// FindYParameters returns the largest y0 at or below the estimate whose realised total, with
// deltaY recomputed as -y0/(m1+1), does not exceed amountY.
func (Curve) FindYParameters(amountY *big.Int, minDeltaID, maxDeltaID int32, activeID int32) (shared.BidAskParameters, error) {
	if minDeltaID > maxDeltaID || amountY.Sign() <= 0 {
		return zeroSide(), nil
	}
	divisor := big.NewInt(-int64(minDeltaID) + 1)
	if divisor.Sign() <= 0 {
		return shared.BidAskParameters{}, shared.NewError(shared.KindInvalidDistributionInput, "bid window [%d, %d] lies above the active bin", minDeltaID, maxDeltaID)
	}
	deltaFor := func(base *big.Int) *big.Int {
		delta := new(big.Int).Neg(base)
		return delta.Quo(delta, divisor)
	}
	minBinID, maxBinID := activeID+minDeltaID, activeID+maxDeltaID

	y0, err := searchDown(curveBaseY0(amountY, minDeltaID, maxDeltaID), amountY, func(v *big.Int) (*big.Int, error) {
		return bidTotal(activeID, minBinID, maxBinID, v, deltaFor(v)), nil
	})
	if err != nil {
		return shared.BidAskParameters{}, err
	}
	return shared.BidAskParameters{Base: y0, Delta: deltaFor(y0)}, nil
}

// FindXParameters solves x0 for deltaX = -x0/maxDeltaID, estimate amountX<<64 / (B - C) with
// B = Σ p(m) and C = Σ m*p(m)/maxDeltaID, then searches x0 downward.
func (c Curve) FindXParameters(amountX *big.Int, minDeltaID, maxDeltaID int32, binStep uint16, activeID int32) (shared.BidAskParameters, error) {
	if minDeltaID > maxDeltaID || amountX.Sign() <= 0 {
		return zeroSide(), nil
	}
	minBinID := activeID + minDeltaID
	prices, err := inversePrices(c.cfg, binStep, minBinID, activeID+maxDeltaID)
	if err != nil {
		return shared.BidAskParameters{}, err
	}

	b := sumBig(prices)
	weighted := new(big.Int)
	if maxDeltaID != 0 {
		m2 := big.NewInt(int64(maxDeltaID))
		term := new(big.Int)
		for i, p := range prices {
			term.Mul(big.NewInt(int64(minDeltaID)+int64(i)), p)
			weighted.Add(weighted, term.Quo(term, m2))
		}
	}
	denominator := new(big.Int).Sub(b, weighted)
	if denominator.Sign() <= 0 {
		return zeroSide(), nil
	}
	start := new(big.Int).Lsh(amountX, shared.ScaleOffset)
	start.Quo(start, denominator)

	// deltaX follows x0 so the top bin never goes negative.
	deltaFor := func(base *big.Int) *big.Int {
		delta := new(big.Int)
		if maxDeltaID != 0 {
			delta.Neg(base).Quo(delta, big.NewInt(int64(maxDeltaID)))
		}
		return delta
	}

	x0, err := searchDown(start, amountX, func(v *big.Int) (*big.Int, error) {
		return askTotal(prices, activeID, minBinID, v, deltaFor(v)), nil
	})
	if err != nil {
		return shared.BidAskParameters{}, err
	}
	return shared.BidAskParameters{Base: x0, Delta: deltaFor(x0)}, nil
}

// SuggestBalancedXParametersFromY returns a decaying ask side worth amountY in quote value:
// x0 = 2*amountY/(maxDeltaID+1) and deltaX = -x0/maxDeltaID.
func (c Curve) SuggestBalancedXParametersFromY(activeID int32, binStep uint16, favorXInActiveID bool, minDeltaID, maxDeltaID int32, amountY *big.Int) (SuggestedParameters, error) {
	if maxDeltaID < 0 {
		return SuggestedParameters{Base: new(big.Int), Delta: new(big.Int), Amount: new(big.Int)}, nil
	}
	x0 := new(big.Int).Lsh(amountY, 1)
	x0.Quo(x0, big.NewInt(int64(maxDeltaID)+1))
	deltaX := new(big.Int)
	if maxDeltaID != 0 {
		deltaX.Neg(x0).Quo(deltaX, big.NewInt(int64(maxDeltaID)))
	}

	bins, err := ToAmountIntoBins(c.cfg, activeID, minDeltaID, maxDeltaID, shared.StrategyParameters{X0: x0, DeltaX: deltaX}, binStep, favorXInActiveID)
	if err != nil {
		return SuggestedParameters{}, err
	}
	return SuggestedParameters{Base: x0, Delta: deltaX, Amount: sumAmountX(bins)}, nil
}

// SuggestBalancedYParametersFromX returns a decaying bid side matching amountXInQuoteValue with
// deltaY = -y0/m1, y0 = amount / ((m1-m2+1) - (m1(m1+1)/2 - m2(m2-1)/2)/m1).
func (c Curve) SuggestBalancedYParametersFromX(activeID int32, binStep uint16, favorXInActiveID bool, minDeltaID, maxDeltaID int32, amountXInQuoteValue *big.Int) (SuggestedParameters, error) {
	m1 := big.NewInt(-int64(minDeltaID))
	m2 := big.NewInt(-int64(maxDeltaID))
	if m1.Sign() <= 0 {
		return SuggestedParameters{Base: new(big.Int), Delta: new(big.Int), Amount: new(big.Int)}, nil
	}

	a1 := new(big.Int).Sub(m1, m2)
	a1.Add(a1, one)
	a2 := new(big.Int).Add(m1, one)
	a2.Mul(a2, m1).Quo(a2, big.NewInt(2))
	a3 := new(big.Int).Sub(m2, one)
	a3.Mul(a3, m2).Quo(a3, big.NewInt(2))

	a := new(big.Int).Sub(a2, a3)
	a.Quo(a, m1)
	a.Sub(a1, a)
	if a.Sign() <= 0 {
		return SuggestedParameters{Base: new(big.Int), Delta: new(big.Int), Amount: new(big.Int)}, nil
	}

	y0 := new(big.Int).Quo(amountXInQuoteValue, a)
	deltaY := new(big.Int).Neg(y0)
	deltaY.Quo(deltaY, m1)

	bins, err := ToAmountIntoBins(c.cfg, activeID, minDeltaID, maxDeltaID, shared.StrategyParameters{Y0: y0, DeltaY: deltaY}, binStep, favorXInActiveID)
	if err != nil {
		return SuggestedParameters{}, err
	}
	return SuggestedParameters{Base: y0, Delta: deltaY, Amount: sumAmountY(bins)}, nil
}
