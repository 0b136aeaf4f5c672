package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// Fee rates are expressed in FeePrecision units (1e9 = 100%).

// ComputeFee returns the fee to add on top of amount so that amount is what remains after the fee:
// ceil(amount * fee / (precision - fee)).
func ComputeFee(cfg shared.Config, totalFeeRate uint64, amount uint64) (uint64, error) {
	if totalFeeRate >= cfg.FeePrecision {
		return 0, shared.NewError(shared.KindNumericOverflow, "fee rate %d >= precision", totalFeeRate)
	}
	return SafeMulDivU64(amount, totalFeeRate, cfg.FeePrecision-totalFeeRate, shared.RoundingUp)
}

// ComputeFeeFromAmount returns the fee contained in amountWithFees: ceil(amount * fee / precision).
func ComputeFeeFromAmount(cfg shared.Config, totalFeeRate uint64, amountWithFees uint64) (uint64, error) {
	return SafeMulDivU64(amountWithFees, totalFeeRate, cfg.FeePrecision, shared.RoundingUp)
}

// ComputeProtocolFee is the protocol's floor share of a fee.
func ComputeProtocolFee(cfg shared.Config, protocolShare uint16, feeAmount uint64) (uint64, error) {
	return SafeMulDivU64(feeAmount, uint64(protocolShare), cfg.BasisPointMax, shared.RoundingDown)
}

// ComputeHostFee is the host's floor share of the protocol fee.
func ComputeHostFee(cfg shared.Config, hostFeeBps uint64, protocolFee uint64) (uint64, error) {
	return SafeMulDivU64(protocolFee, hostFeeBps, cfg.BasisPointMax, shared.RoundingDown)
}

// ComputeCompositionFee charges an implicit swap of swapAmount at the active bin:
// swapAmount * fee * (precision + fee) / precision^2.
func ComputeCompositionFee(cfg shared.Config, totalFeeRate uint64, swapAmount uint64) (uint64, error) {
	fee := new(uint256.Int).Mul(uint256.NewInt(swapAmount), uint256.NewInt(totalFeeRate))
	fee.Mul(fee, uint256.NewInt(cfg.FeePrecision+totalFeeRate))
	precision := uint256.NewInt(cfg.FeePrecision)
	fee.Div(fee, new(uint256.Int).Mul(precision, precision))
	return ToUint64(fee)
}
