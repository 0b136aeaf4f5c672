package strategy

import (
	"math/big"

	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// AmountIntoBin is the signed amount a parameter set places into one bin. Amounts are signed
// because a solver may produce a negative base or delta; the program rejects negative bins.
type AmountIntoBin struct {
	BinID   int32
	AmountX *big.Int
	AmountY *big.Int
}

// shr64 shifts a signed Q64.64 product right by 64, truncating toward zero.
func shr64(v *big.Int) *big.Int {
	return new(big.Int).Quo(v, shared.OneQ64)
}

// OnlyDepositToBidSide reports whether the window lies entirely on the Y side.
func OnlyDepositToBidSide(maxDeltaID int32, favorXInActiveID bool) bool {
	if favorXInActiveID {
		return maxDeltaID < 0
	}
	return maxDeltaID <= 0
}

// OnlyDepositToAskSide reports whether the window lies entirely on the X side.
func OnlyDepositToAskSide(minDeltaID int32, favorXInActiveID bool) bool {
	if favorXInActiveID {
		return minDeltaID >= 0
	}
	return minDeltaID > 0
}

// sideSplit returns the last bid delta and the first ask delta of a two sided window.
func sideSplit(favorXInActiveID bool) (bidEnd, askStart int32) {
	if favorXInActiveID {
		return -1, 0
	}
	return 0, 1
}

// GetAmountInBinsBidSide returns y0 + deltaY*(activeID-binID) for every bin of the window.
func GetAmountInBinsBidSide(activeID, minDeltaID, maxDeltaID int32, deltaY, y0 *big.Int) []AmountIntoBin {
	if minDeltaID > maxDeltaID {
		return nil
	}
	minBinID := activeID + minDeltaID
	maxBinID := activeID + maxDeltaID

	out := make([]AmountIntoBin, 0, int(maxBinID-minBinID)+1)
	for binID := minBinID; binID <= maxBinID; binID++ {
		amountY := new(big.Int).Mul(deltaY, big.NewInt(int64(activeID-binID)))
		amountY.Add(amountY, y0)
		out = append(out, AmountIntoBin{BinID: binID, AmountX: new(big.Int), AmountY: amountY})
	}
	return out
}

// GetAmountInBinsAskSide returns (x0 + deltaX*(binID-activeID)) * price(-binID) >> 64 for every
// bin of the window. The inverse price is stepped from the top bin down by one multiplication with
// the base factor per bin, which is how the program iterates it.
func GetAmountInBinsAskSide(cfg shared.Config, activeID int32, binStep uint16, minDeltaID, maxDeltaID int32, deltaX, x0 *big.Int) ([]AmountIntoBin, error) {
	if minDeltaID > maxDeltaID {
		return nil, nil
	}
	minBinID := activeID + minDeltaID
	maxBinID := activeID + maxDeltaID

	base := dmath.GetQPriceBaseFactor(cfg, binStep).ToBig()
	inverse := dmath.Pow(dmath.GetQPriceBaseFactor(cfg, binStep), -int64(maxBinID))
	if inverse == nil {
		return nil, shared.NewError(shared.KindNumericOverflow, "inverse price of bin %d with step %d", maxBinID, binStep)
	}
	inverseBasePrice := inverse.ToBig()

	out := make([]AmountIntoBin, int(maxBinID-minBinID)+1)
	for binID := maxBinID; binID >= minBinID; binID-- {
		amountX := new(big.Int).Mul(deltaX, big.NewInt(int64(binID-activeID)))
		amountX.Add(amountX, x0)
		amountX = shr64(amountX.Mul(amountX, inverseBasePrice))

		out[binID-minBinID] = AmountIntoBin{BinID: binID, AmountX: amountX, AmountY: new(big.Int)}

		inverseBasePrice.Mul(inverseBasePrice, base)
		inverseBasePrice.Rsh(inverseBasePrice, shared.ScaleOffset)
	}
	return out, nil
}

// ToAmountIntoBins expands strategy parameters into per bin amounts, bid side first.
func ToAmountIntoBins(cfg shared.Config, activeID, minDeltaID, maxDeltaID int32, params shared.StrategyParameters, binStep uint16, favorXInActiveID bool) ([]AmountIntoBin, error) {
	params = params.Normalized()
	if OnlyDepositToBidSide(maxDeltaID, favorXInActiveID) {
		return GetAmountInBinsBidSide(activeID, minDeltaID, maxDeltaID, params.DeltaY, params.Y0), nil
	}
	if OnlyDepositToAskSide(minDeltaID, favorXInActiveID) {
		return GetAmountInBinsAskSide(cfg, activeID, binStep, minDeltaID, maxDeltaID, params.DeltaX, params.X0)
	}

	bidEnd, askStart := sideSplit(favorXInActiveID)
	bid := GetAmountInBinsBidSide(activeID, minDeltaID, bidEnd, params.DeltaY, params.Y0)
	ask, err := GetAmountInBinsAskSide(cfg, activeID, binStep, askStart, maxDeltaID, params.DeltaX, params.X0)
	if err != nil {
		return nil, err
	}
	return append(bid, ask...), nil
}

// TotalAmounts sums the X and Y amounts of bins.
func TotalAmounts(bins []AmountIntoBin) (*big.Int, *big.Int) {
	x, y := new(big.Int), new(big.Int)
	for _, b := range bins {
		x.Add(x, b.AmountX)
		y.Add(y, b.AmountY)
	}
	return x, y
}

func sumAmountX(bins []AmountIntoBin) *big.Int {
	x, _ := TotalAmounts(bins)
	return x
}

func sumAmountY(bins []AmountIntoBin) *big.Int {
	_, y := TotalAmounts(bins)
	return y
}
