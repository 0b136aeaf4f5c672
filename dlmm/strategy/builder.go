package strategy

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// ParameterBuilder solves the base and delta of one side of a deposit so that the amounts the
// program derives from them add up to at most the target.
type ParameterBuilder interface {
	Type() shared.StrategyType
	// FindXParameters solves the ask side. Deltas are relative to activeID.
	FindXParameters(amountX *big.Int, minDeltaID, maxDeltaID int32, binStep uint16, activeID int32) (shared.BidAskParameters, error)
	// FindYParameters solves the bid side.
	FindYParameters(amountY *big.Int, minDeltaID, maxDeltaID int32, activeID int32) (shared.BidAskParameters, error)
}

// ForType returns the builder of a strategy.
func ForType(cfg shared.Config, t shared.StrategyType) (ParameterBuilder, error) {
	switch t {
	case shared.StrategyTypeSpot:
		return NewSpot(cfg), nil
	case shared.StrategyTypeCurve:
		return NewCurve(cfg), nil
	case shared.StrategyTypeBidAsk:
		return NewBidAsk(cfg), nil
	default:
		return nil, shared.NewError(shared.KindInvalidDistributionInput, "strategy %d not supported", t)
	}
}

func zeroParameters() shared.StrategyParameters {
	return shared.StrategyParameters{X0: new(big.Int), Y0: new(big.Int), DeltaX: new(big.Int), DeltaY: new(big.Int)}
}

func zeroSide() shared.BidAskParameters {
	return shared.BidAskParameters{Base: new(big.Int), Delta: new(big.Int)}
}

// BuildLiquidityStrategyParameters solves both sides of a deposit over
// [activeID+minDeltaID, activeID+maxDeltaID]. The active bin goes to the X side when
// favorXInActiveID is set and to the Y side otherwise; each side is solved independently
// against its own target.
func BuildLiquidityStrategyParameters(amountX, amountY *big.Int, minDeltaID, maxDeltaID int32, binStep uint16, favorXInActiveID bool, activeID int32, builder ParameterBuilder) (shared.StrategyParameters, error) {
	if minDeltaID > maxDeltaID {
		return zeroParameters(), nil
	}
	if amountX == nil {
		amountX = new(big.Int)
	}
	if amountY == nil {
		amountY = new(big.Int)
	}
	if amountX.Sign() <= 0 && amountY.Sign() <= 0 {
		return shared.StrategyParameters{}, shared.NewError(shared.KindInvalidDistributionInput, "both target amounts are zero")
	}

	depositOnlyY := maxDeltaID < 0 || (maxDeltaID == 0 && !favorXInActiveID)
	depositOnlyX := minDeltaID > 0 || (minDeltaID == 0 && favorXInActiveID)

	params := zeroParameters()
	if depositOnlyY {
		y, err := builder.FindYParameters(amountY, minDeltaID, maxDeltaID, activeID)
		if err != nil {
			return shared.StrategyParameters{}, fmt.Errorf("find y parameters: %w", err)
		}
		params.Y0, params.DeltaY = y.Base, y.Delta
		return params, nil
	}
	if depositOnlyX {
		x, err := builder.FindXParameters(amountX, minDeltaID, maxDeltaID, binStep, activeID)
		if err != nil {
			return shared.StrategyParameters{}, fmt.Errorf("find x parameters: %w", err)
		}
		params.X0, params.DeltaX = x.Base, x.Delta
		return params, nil
	}

	bidEnd, askStart := sideSplit(favorXInActiveID)
	y, err := builder.FindYParameters(amountY, minDeltaID, bidEnd, activeID)
	if err != nil {
		return shared.StrategyParameters{}, fmt.Errorf("find y parameters: %w", err)
	}
	x, err := builder.FindXParameters(amountX, askStart, maxDeltaID, binStep, activeID)
	if err != nil {
		return shared.StrategyParameters{}, fmt.Errorf("find x parameters: %w", err)
	}
	params.X0, params.DeltaX = x.Base, x.Delta
	params.Y0, params.DeltaY = y.Base, y.Delta
	return params, nil
}

// BitFlag marks which strategy parameters were negative before encoding.
type BitFlag uint8

const (
	BitFlagX0Negative     BitFlag = 1 << 0
	BitFlagY0Negative     BitFlag = 1 << 1
	BitFlagDeltaXNegative BitFlag = 1 << 2
	BitFlagDeltaYNegative BitFlag = 1 << 3
)

// BuildBitFlagAndNegate encodes params the way the program's rebalance instruction expects:
// magnitudes plus a flag per negative field.
func BuildBitFlagAndNegate(params shared.StrategyParameters) (BitFlag, shared.StrategyParameters) {
	params = params.Normalized()
	var flag BitFlag
	abs := func(v *big.Int, f BitFlag) *big.Int {
		if v.Sign() < 0 {
			flag |= f
			return new(big.Int).Neg(v)
		}
		return new(big.Int).Set(v)
	}
	encoded := shared.StrategyParameters{
		X0:     abs(params.X0, BitFlagX0Negative),
		Y0:     abs(params.Y0, BitFlagY0Negative),
		DeltaX: abs(params.DeltaX, BitFlagDeltaXNegative),
		DeltaY: abs(params.DeltaY, BitFlagDeltaYNegative),
	}
	return flag, encoded
}
