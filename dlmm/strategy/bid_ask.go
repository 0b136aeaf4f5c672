package strategy

import (
	"math/big"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// BidAsk places the least liquidity at the active bin and grows it linearly toward the window
// edges. Its solution is looser than Spot and Curve: the base is pinned from a minimum amount and
// only the delta is refined, so the realised total can undershoot the target by several percent.
type BidAsk struct {
	cfg shared.Config
}

func NewBidAsk(cfg shared.Config) BidAsk {
	return BidAsk{cfg: cfg}
}

func (BidAsk) Type() shared.StrategyType { return shared.StrategyTypeBidAsk }

// bidAskBaseDeltaY solves deltaY for y0 = -deltaY*maxDeltaID + minY0 over the window [-m1, -m2]:
// deltaY = (amountY - minY0) / (-m2(m1-m2+1) + m1(m1+1)/2 - m2(m2-1)/2).
func bidAskBaseDeltaY(amountY *big.Int, minDeltaID, maxDeltaID int32, minY0 *big.Int) *big.Int {
	if minDeltaID > maxDeltaID || amountY.Sign() <= 0 {
		return new(big.Int)
	}
	if minDeltaID == maxDeltaID {
		return new(big.Int).Set(amountY)
	}
	m1 := big.NewInt(-int64(minDeltaID))
	m2 := big.NewInt(-int64(maxDeltaID))

	b := new(big.Int).Sub(m1, m2)
	b.Add(b, one).Mul(b, new(big.Int).Neg(m2))
	c := new(big.Int).Add(m1, one)
	c.Mul(c, m1).Quo(c, big.NewInt(2))
	d := new(big.Int).Sub(m2, one)
	d.Mul(d, m2).Quo(d, big.NewInt(2))

	a := new(big.Int).Sub(c, d)
	a.Add(a, b)
	if a.Sign() <= 0 {
		return new(big.Int)
	}
	delta := new(big.Int).Sub(amountY, minY0)
	return delta.Quo(delta, a)
}

// FindYParameters pins y0 and lowers deltaY until the realised total fits amountY.
func (BidAsk) FindYParameters(amountY *big.Int, minDeltaID, maxDeltaID int32, activeID int32) (shared.BidAskParameters, error) {
	if minDeltaID > maxDeltaID || amountY.Sign() <= 0 {
		return zeroSide(), nil
	}
	binCount := big.NewInt(int64(maxDeltaID) - int64(minDeltaID) + 1)
	totalWeight := new(big.Int).Add(binCount, one)
	totalWeight.Mul(totalWeight, binCount).Quo(totalWeight, big.NewInt(2))
	minY0 := new(big.Int).Quo(amountY, totalWeight)

	baseDelta := bidAskBaseDeltaY(amountY, minDeltaID, maxDeltaID, minY0)
	y0 := new(big.Int).Mul(baseDelta, big.NewInt(-int64(maxDeltaID)))
	y0.Add(y0, minY0)

	minBinID, maxBinID := activeID+minDeltaID, activeID+maxDeltaID
	delta, err := searchDown(baseDelta, amountY, func(v *big.Int) (*big.Int, error) {
		return bidTotal(activeID, minBinID, maxBinID, y0, v), nil
	})
	if err != nil {
		return shared.BidAskParameters{}, err
	}
	return shared.BidAskParameters{Base: y0, Delta: delta}, nil
}

// bidAskMinX0 is amountX<<64 / Σ (binID-minBinID+1) * price(-binID), the x0 that would fill the
// window if every bin were weighted by its distance from the lower edge.
func bidAskMinX0(amountX *big.Int, prices []*big.Int) *big.Int {
	totalWeight := new(big.Int)
	weight := new(big.Int)
	for i, p := range prices {
		totalWeight.Add(totalWeight, weight.Mul(big.NewInt(int64(i)+1), p))
	}
	if totalWeight.Sign() == 0 {
		return new(big.Int)
	}
	minX0 := new(big.Int).Lsh(amountX, shared.ScaleOffset)
	return minX0.Quo(minX0, totalWeight)
}

// FindXParameters pins x0 = -minDeltaID*deltaX + minX0 and lowers deltaX until the realised
// total fits amountX.
func (s BidAsk) FindXParameters(amountX *big.Int, minDeltaID, maxDeltaID int32, binStep uint16, activeID int32) (shared.BidAskParameters, error) {
	if minDeltaID > maxDeltaID || amountX.Sign() <= 0 {
		return zeroSide(), nil
	}
	minBinID := activeID + minDeltaID
	prices, err := inversePrices(s.cfg, binStep, minBinID, activeID+maxDeltaID)
	if err != nil {
		return shared.BidAskParameters{}, err
	}
	minX0 := bidAskMinX0(amountX, prices)

	// C - B = Σ (m - m1) * p(m)
	spread := new(big.Int)
	term := new(big.Int)
	for i, p := range prices {
		spread.Add(spread, term.Mul(big.NewInt(int64(i)), p))
	}
	baseDelta := new(big.Int)
	if spread.Sign() > 0 {
		baseDelta.Sub(amountX, minX0)
		baseDelta.Lsh(baseDelta, shared.ScaleOffset)
		baseDelta.Quo(baseDelta, spread)
	}

	x0 := new(big.Int).Mul(baseDelta, big.NewInt(-int64(minDeltaID)))
	x0.Add(x0, minX0)

	delta, err := searchDown(baseDelta, amountX, func(v *big.Int) (*big.Int, error) {
		return askTotal(prices, activeID, minBinID, x0, v), nil
	})
	if err != nil {
		return shared.BidAskParameters{}, err
	}
	return shared.BidAskParameters{Base: x0, Delta: delta}, nil
}
