package quote

import (
	"github.com/shopspring/decimal"

	"github.com/krazyTry/dlmm-go/dlmm/bitmap"
	"github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/math/pool_fees"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

type SwapQuoteParams struct {
	AmountIn    uint64
	SwapForY    bool
	SlippageBps uint64
	LbPair      shared.LbPair
	// Extension may be nil; the quote then treats arrays past the inline bitmap as absent.
	Extension *shared.BinArrayBitmapExtension
	BinArrays []shared.BinArray
	Mode      shared.SwapMode
	// MaxSwappedAmount stops the quote once this much output is filled. Zero means no cap.
	MaxSwappedAmount uint64
	CurrentTimestamp int64
	HostFeeBps       uint64
}

func validateSwapQuoteParams(cfg shared.Config, params SwapQuoteParams) error {
	if params.AmountIn == 0 {
		return shared.NewError(shared.KindInvalidDistributionInput, "amount in must be greater than 0")
	}
	if params.SlippageBps > cfg.BasisPointMax {
		return shared.NewError(shared.KindInvalidDistributionInput, "slippage %d bps exceeds %d", params.SlippageBps, cfg.BasisPointMax)
	}
	if params.Mode > shared.SwapModePartialFill {
		return shared.NewError(shared.KindInvalidDistributionInput, "unknown swap mode %d", params.Mode)
	}
	if params.HostFeeBps > cfg.BasisPointMax {
		return shared.NewError(shared.KindInvalidDistributionInput, "host fee %d bps exceeds %d", params.HostFeeBps, cfg.BasisPointMax)
	}
	return nil
}

// SwapQuote walks the pair's liquidity from the active bin in the swap direction, filling
// AmountIn bin by bin. Only bin arrays marked in the bitmaps are visited; each visited array must
// be present in BinArrays.
func SwapQuote(cfg shared.Config, params SwapQuoteParams) (*shared.SwapQuote, error) {
	if err := validateSwapQuoteParams(cfg, params); err != nil {
		return nil, err
	}

	pair := params.LbPair
	swapForY := params.SwapForY
	sParams := pair.Parameters
	vParams := pool_fees.UpdateReferences(cfg, sParams, pair.VParameters, pair.ActiveID, params.CurrentTimestamp)

	minBinID, maxBinID := cfg.MinBinID, cfg.MaxBinID
	if sParams.MinBinID < sParams.MaxBinID {
		minBinID, maxBinID = max(minBinID, sParams.MinBinID), min(maxBinID, sParams.MaxBinID)
	}

	binArrays := bitmap.IndexBinArrays(params.BinArrays)
	activeID := pair.ActiveID
	inAmountLeft := params.AmountIn

	var (
		outAmount, feeAmount, protocolFee, hostFee uint64
		touched                                    []int64
		started, exhausted, capped                 bool
	)

	for inAmountLeft > 0 {
		index, ok := bitmap.NextBinArrayIndexWithLiquidity(cfg, swapForY, activeID, pair, params.Extension)
		if !ok {
			exhausted = true
			break
		}
		binArray, ok := binArrays[index]
		if !ok {
			return nil, shared.NewError(shared.KindMissingBinGroupData, "bin array %d is marked but not supplied", index)
		}
		if len(touched) == 0 || touched[len(touched)-1] != index {
			touched = append(touched, index)
		}

		lower, upper := bitmap.BinArrayLowerUpperBinID(cfg, index)
		if swapForY && activeID > upper {
			activeID = upper
		} else if !swapForY && activeID < lower {
			activeID = lower
		}

		for inAmountLeft > 0 && activeID >= lower && activeID <= upper {
			if activeID < minBinID || activeID > maxBinID {
				exhausted = true
				break
			}
			vParams = pool_fees.UpdateVolatilityAccumulator(cfg, sParams, vParams, activeID)

			bin, err := bitmap.GetBin(cfg, binArray, activeID)
			if err != nil {
				return nil, err
			}
			if !bin.IsEmpty(swapForY) {
				price, err := math.GetBinPrice(cfg, bin, activeID, pair.BinStep)
				if err != nil {
					return nil, err
				}
				totalFee := pool_fees.GetTotalFee(cfg, pair.BinStep, sParams, vParams)
				var res BinSwapResult
				if params.MaxSwappedAmount > 0 {
					res, capped, err = SwapAtBinWithCap(cfg, bin, price, inAmountLeft, params.MaxSwappedAmount-outAmount, swapForY, totalFee, sParams.ProtocolShare, params.HostFeeBps)
				} else {
					res, err = SwapAtBin(cfg, bin, price, inAmountLeft, swapForY, totalFee, sParams.ProtocolShare, params.HostFeeBps)
				}
				if err != nil {
					return nil, err
				}
				if res.AmountInWithFees > 0 {
					inAmountLeft -= res.AmountInWithFees
					if outAmount, err = math.SafeAddU64(outAmount, res.AmountOut); err != nil {
						return nil, err
					}
					if feeAmount, err = math.SafeAddU64(feeAmount, res.Fee); err != nil {
						return nil, err
					}
					if protocolFee, err = math.SafeAddU64(protocolFee, res.ProtocolFee); err != nil {
						return nil, err
					}
					if hostFee, err = math.SafeAddU64(hostFee, res.HostFee); err != nil {
						return nil, err
					}
					started = true
				}
				if capped {
					break
				}
			}

			if inAmountLeft > 0 {
				if swapForY {
					activeID--
				} else {
					activeID++
				}
			}
		}
		if exhausted || capped {
			break
		}
	}

	if exhausted && params.Mode != shared.SwapModePartialFill {
		return nil, shared.NewError(shared.KindInsufficientLiquidity, "%d of %d left unfilled", inAmountLeft, params.AmountIn)
	}
	if !started {
		return nil, shared.NewError(shared.KindInsufficientLiquidity, "no bin with liquidity in the swap direction")
	}

	impact, err := priceImpact(cfg, pair.BinStep, pair.ActiveID, activeID)
	if err != nil {
		return nil, err
	}

	minOut, err := math.SafeMulDivU64(outAmount, cfg.BasisPointMax-params.SlippageBps, cfg.BasisPointMax, shared.RoundingDown)
	if err != nil {
		return nil, err
	}

	return &shared.SwapQuote{
		ConsumedInAmount: params.AmountIn - inAmountLeft,
		OutAmount:        outAmount,
		Fee:              feeAmount,
		ProtocolFee:      protocolFee,
		HostFee:          hostFee,
		MinOutAmount:     minOut,
		PriceImpact:      impact,
		EndActiveID:      activeID,
		IsPartialFill:    inAmountLeft > 0,
		BinArrayIndexes:  touched,
	}, nil
}

// priceImpact is how far the active bin price moved, |post - pre| / pre, in percent.
func priceImpact(cfg shared.Config, binStep uint16, startID, endID int32) (decimal.Decimal, error) {
	pre, err := math.GetPriceOfBinByBinID(cfg, startID, binStep)
	if err != nil {
		return decimal.Zero, err
	}
	if startID == endID || pre.IsZero() {
		return decimal.Zero, nil
	}
	post, err := math.GetPriceOfBinByBinID(cfg, endID, binStep)
	if err != nil {
		return decimal.Zero, err
	}
	return post.Sub(pre).Abs().Div(pre).Mul(decimal.NewFromInt(100)), nil
}
