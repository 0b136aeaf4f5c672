package meteora

import (
	"github.com/krazyTry/dlmm-go/dlmm"
)

// NewDLMM creates a new DLMM client for one pair.
//
// Example:
//
// meteoraDLMM := NewDLMM(lbPair, dlmm.WithLogger(logger))
//
// meteoraDLMM.SwapQuote(quote.SwapQuoteParams{AmountIn: amountIn, SwapForY: true, SlippageBps: 250, LbPair: pair, BinArrays: binArrays})
//
// meteoraDLMM.SimulateRebalance(rebalance.SimulateParams{LbPair: pair, BinArrays: binArrays, Position: position, Deposits: deposits})
var NewDLMM = dlmm.NewDLMM
