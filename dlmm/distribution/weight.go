package distribution

import (
	"math/big"

	"github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

const MaxWeight = 65535

var pricePrecision = big.NewInt(1_000_000_000_000)

// ToWeightDistribution turns a bps distribution into on-chain weights in [1, MaxWeight], valuing
// every bin in Y at its price. Bins whose weight rounds to 0 are dropped.
func ToWeightDistribution(cfg shared.Config, amountX, amountY uint64, distributions []shared.BinDistribution, binStep uint16) ([]shared.BinWeight, error) {
	bpsMax := new(big.Int).SetUint64(cfg.BasisPointMax)
	bigX := new(big.Int).SetUint64(amountX)
	bigY := new(big.Int).SetUint64(amountY)

	quotes := make([]*big.Int, len(distributions))
	total := new(big.Int)
	for i, d := range distributions {
		price, err := math.GetPriceOfBinByBinID(cfg, d.BinID, binStep)
		if err != nil {
			return nil, err
		}
		scaledPrice := price.Mul(math.DecimalFromUint64(pricePrecision.Uint64())).Floor().BigInt()

		quote := new(big.Int).Mul(bigX, new(big.Int).SetUint64(d.XBps))
		quote.Mul(quote, scaledPrice)
		quote.Quo(quote, bpsMax)
		quote.Quo(quote, pricePrecision)

		yQuote := new(big.Int).Mul(bigY, new(big.Int).SetUint64(d.YBps))
		quote.Add(quote, yQuote.Quo(yQuote, bpsMax))

		quotes[i] = quote
		total.Add(total, quote)
	}
	if total.Sign() == 0 {
		return nil, nil
	}

	out := make([]shared.BinWeight, 0, len(distributions))
	for i, d := range distributions {
		w := new(big.Int).Mul(quotes[i], big.NewInt(MaxWeight))
		w.Quo(w, total)
		if w.Sign() > 0 {
			out = append(out, shared.BinWeight{BinID: d.BinID, Weight: w.Uint64()})
		}
	}
	return out, nil
}

// ToBinAmounts applies a bps distribution to deposit totals, rounding every bin down.
func ToBinAmounts(cfg shared.Config, amountX, amountY uint64, distributions []shared.BinDistribution) ([]shared.BinAmount, error) {
	out := make([]shared.BinAmount, len(distributions))
	for i, d := range distributions {
		if d.XBps > cfg.BasisPointMax || d.YBps > cfg.BasisPointMax {
			return nil, shared.NewError(shared.KindInvalidDistributionInput, "bin %d bps above %d", d.BinID, cfg.BasisPointMax)
		}
		x, err := math.SafeMulDivU64(amountX, d.XBps, cfg.BasisPointMax, shared.RoundingDown)
		if err != nil {
			return nil, err
		}
		y, err := math.SafeMulDivU64(amountY, d.YBps, cfg.BasisPointMax, shared.RoundingDown)
		if err != nil {
			return nil, err
		}
		out[i] = shared.BinAmount{BinID: d.BinID, AmountX: x, AmountY: y}
	}
	return out, nil
}
