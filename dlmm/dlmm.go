package dlmm

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/krazyTry/dlmm-go/dlmm/distribution"
	"github.com/krazyTry/dlmm-go/dlmm/math/pool_fees"
	"github.com/krazyTry/dlmm-go/dlmm/quote"
	"github.com/krazyTry/dlmm-go/dlmm/rebalance"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/dlmm/strategy"
	lbclmm "github.com/krazyTry/dlmm-go/gen/lb_clmm"
)

var ErrPairMismatch = errors.New("lb pair snapshot does not match client pair")

// DLMM prices swaps and plans liquidity for one pair from account snapshots. It does no I/O
// and is safe for concurrent use.
type DLMM struct {
	lbPair    solanago.PublicKey
	programID solanago.PublicKey
	cfg       shared.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewDLMM creates a client for lbPair.
//
// Example:
//
// pair := solana.MustPublicKeyFromBase58("5rCf1DM8LjKTw4YqhnoLcngyZYeNnQqztScTogYHAS6")
//
// m := NewDLMM(
//
//	pair,
//	WithLogger(logger), // default zap.NewNop()
//
// )
func NewDLMM(lbPair solanago.PublicKey, opts ...Option) *DLMM {
	d := &DLMM{
		lbPair:    lbPair,
		programID: lbclmm.ProgramID,
		cfg:       shared.DefaultConfig(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DLMM) LbPair() solanago.PublicKey { return d.lbPair }

func (d *DLMM) ProgramID() solanago.PublicKey { return d.programID }

func (d *DLMM) Config() shared.Config { return d.cfg }

func (d *DLMM) timestamp(ts int64) int64 {
	if ts != 0 {
		return ts
	}
	return d.now().Unix()
}

func (d *DLMM) checkPair(pair *shared.LbPair) error {
	if pair.Address.IsZero() {
		pair.Address = d.lbPair
		return nil
	}
	if !pair.Address.Equals(d.lbPair) {
		return fmt.Errorf("%w: %s != %s", ErrPairMismatch, pair.Address, d.lbPair)
	}
	return nil
}

// BinArrayAddresses derives the bin array address for every index, in order.
func (d *DLMM) BinArrayAddresses(indexes []int64) ([]solanago.PublicKey, error) {
	out := make([]solanago.PublicKey, 0, len(indexes))
	for _, index := range indexes {
		addr, err := DeriveBinArray(d.lbPair, index, d.programID)
		if err != nil {
			return nil, fmt.Errorf("derive bin array %d: %w", index, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

// BitmapExtensionAddress derives the pair's bin array bitmap extension address.
func (d *DLMM) BitmapExtensionAddress() (solanago.PublicKey, error) {
	return DeriveBinArrayBitmapExtension(d.lbPair, d.programID)
}

// SwapQuote gets the exact in swap quotation and the bin arrays the swap passes through.
// A zero CurrentTimestamp is replaced by the client clock.
//
// Example:
//
// result, _ := m.SwapQuote(quote.SwapQuoteParams{
//
//	AmountIn:    amountIn,
//	SwapForY:    true, // sell X for Y
//	SlippageBps: 100, // 1%
//	LbPair:      pair,
//	Extension:   ext, // nil when the pair has none
//	BinArrays:   binArrays,
//
// })
func (d *DLMM) SwapQuote(params quote.SwapQuoteParams) (*shared.SwapQuote, error) {
	if err := d.checkPair(&params.LbPair); err != nil {
		return nil, err
	}
	params.CurrentTimestamp = d.timestamp(params.CurrentTimestamp)

	result, err := quote.SwapQuote(d.cfg, params)
	if err != nil {
		d.logger.Debug("swap quote failed",
			zap.Stringer("lb_pair", d.lbPair),
			zap.Uint64("amount_in", params.AmountIn),
			zap.Bool("swap_for_y", params.SwapForY),
			zap.Error(err))
		return nil, err
	}
	if result.TouchedGroupAddresses, err = d.BinArrayAddresses(result.BinArrayIndexes); err != nil {
		return nil, err
	}

	d.logger.Debug("swap quote",
		zap.Stringer("lb_pair", d.lbPair),
		zap.Uint64("amount_in", params.AmountIn),
		zap.Stringer("mode", params.Mode),
		zap.Uint64("consumed_in", result.ConsumedInAmount),
		zap.Uint64("amount_out", result.OutAmount),
		zap.Uint64("fee", result.Fee),
		zap.Int32("end_active_id", result.EndActiveID),
		zap.Bool("partial_fill", result.IsPartialFill),
		zap.Stringer("price_impact", result.PriceImpact))
	return result, nil
}

// SwapQuoteWithCap quotes a swap that stops once maxSwappedAmount of output is filled, leaving
// the rest of AmountIn unconsumed.
func (d *DLMM) SwapQuoteWithCap(params quote.SwapQuoteParams, maxSwappedAmount uint64) (*shared.SwapQuote, error) {
	if maxSwappedAmount == 0 {
		return nil, shared.NewError(shared.KindInvalidDistributionInput, "max swapped amount must be greater than 0")
	}
	params.MaxSwappedAmount = maxSwappedAmount
	return d.SwapQuote(params)
}

// FeeInfo returns the pair's base fee, fee at maximum volatility and protocol share, in percent.
func (d *DLMM) FeeInfo(pair shared.LbPair) (pool_fees.FeeInfo, error) {
	if err := d.checkPair(&pair); err != nil {
		return pool_fees.FeeInfo{}, err
	}
	return pool_fees.GetFeeInfo(d.cfg, pair.BinStep, pair.Parameters), nil
}

// DynamicFee returns the total fee in percent a swap at ts would pay in the active bin. A zero ts
// uses the client clock.
func (d *DLMM) DynamicFee(pair shared.LbPair, ts int64) (decimal.Decimal, error) {
	if err := d.checkPair(&pair); err != nil {
		return decimal.Zero, err
	}
	return pool_fees.GetDynamicFee(d.cfg, pair, d.timestamp(ts)), nil
}

// AutoFillByWeight returns the amount of the other token that matches amount under weights, so a
// deposit keeps the distribution's shape. amountIsX tells which token amount is.
func (d *DLMM) AutoFillByWeight(activeID int32, binStep uint16, amount uint64, amountIsX bool, amountXInActiveBin, amountYInActiveBin uint64, weights []shared.BinWeight) (uint64, error) {
	if amountIsX {
		return distribution.AutoFillYByWeight(d.cfg, activeID, binStep, amount, amountXInActiveBin, amountYInActiveBin, weights)
	}
	return distribution.AutoFillXByWeight(d.cfg, activeID, binStep, amount, amountXInActiveBin, amountYInActiveBin, weights)
}

// Distribute returns the bps share of each side assigned to every bin of binIDs.
func (d *DLMM) Distribute(strategyType shared.StrategyType, activeID int32, binIDs []int32) ([]shared.BinDistribution, error) {
	return distribution.Distribute(d.cfg, strategyType, activeID, binIDs)
}

// BuildStrategyParameters solves the linear deposit parameters that spend at most amountX and
// amountY over [activeID+minDeltaID, activeID+maxDeltaID].
func (d *DLMM) BuildStrategyParameters(
	strategyType shared.StrategyType,
	amountX, amountY *big.Int,
	minDeltaID, maxDeltaID int32,
	binStep uint16,
	favorXInActiveID bool,
	activeID int32,
) (shared.StrategyParameters, error) {
	builder, err := strategy.ForType(d.cfg, strategyType)
	if err != nil {
		return shared.StrategyParameters{}, err
	}
	params, err := strategy.BuildLiquidityStrategyParameters(amountX, amountY, minDeltaID, maxDeltaID, binStep, favorXInActiveID, activeID, builder)
	if err != nil {
		return shared.StrategyParameters{}, err
	}
	d.logger.Debug("strategy parameters",
		zap.Stringer("strategy", strategyType),
		zap.Int32("active_id", activeID),
		zap.Int32("min_delta_id", minDeltaID),
		zap.Int32("max_delta_id", maxDeltaID),
		zap.Stringer("x0", params.X0),
		zap.Stringer("y0", params.Y0),
		zap.Stringer("delta_x", params.DeltaX),
		zap.Stringer("delta_y", params.DeltaY))
	return params, nil
}

// SimulateRebalance predicts the outcome of a rebalance and derives the bin array addresses
// the instruction needs.
func (d *DLMM) SimulateRebalance(params rebalance.SimulateParams) (*rebalance.SimulationResult, error) {
	if err := d.checkPair(&params.LbPair); err != nil {
		return nil, err
	}
	params.CurrentTimestamp = d.timestamp(params.CurrentTimestamp)

	result, err := rebalance.Simulate(d.cfg, params)
	if err != nil {
		d.logger.Debug("rebalance simulation failed",
			zap.Stringer("lb_pair", d.lbPair),
			zap.Stringer("position", params.Position.Address),
			zap.Error(err))
		return nil, err
	}
	if result.BinArrayAddresses, err = d.BinArrayAddresses(result.BinArrayIndexes); err != nil {
		return nil, err
	}

	d.logger.Debug("rebalance simulation",
		zap.Stringer("lb_pair", d.lbPair),
		zap.Stringer("position", params.Position.Address),
		zap.Int32("lower_bin_id", result.Position.LowerBinID),
		zap.Int32("upper_bin_id", result.Position.UpperBinID),
		zap.Uint64("amount_x", result.AmountX),
		zap.Uint64("amount_y", result.AmountY),
		zap.Int64("rental_cost_lamports", result.RentalCostLamports),
		zap.Int64s("bin_array_indexes", result.BinArrayIndexes))
	return result, nil
}

// RebalanceToActive builds the withdraw-all and redeposit plan of b and simulates it against
// the snapshot.
func (d *DLMM) RebalanceToActive(b rebalance.BalancedStrategy, snapshot rebalance.SimulateParams) (*rebalance.SimulationResult, error) {
	plan, err := b.Build(d.cfg)
	if err != nil {
		return nil, err
	}
	snapshot.ShouldClaimFee = plan.ShouldClaimFee
	snapshot.ShouldClaimReward = plan.ShouldClaimReward
	snapshot.Withdraws = plan.Withdraws
	snapshot.Deposits = plan.Deposits
	return d.SimulateRebalance(snapshot)
}
