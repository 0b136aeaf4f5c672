package pool_fees

import (
	"math/big"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// GetBaseFee returns baseFactor * binStep * 10 * 10^powerFactor in FeePrecision units.
func GetBaseFee(binStep uint16, params shared.StaticParameters) *big.Int {
	fee := new(big.Int).SetUint64(uint64(params.BaseFactor))
	fee.Mul(fee, big.NewInt(int64(binStep)))
	fee.Mul(fee, big.NewInt(10))
	return fee.Mul(fee, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(params.BaseFeePowerFactor)), nil))
}

// GetTotalFee caps base + variable fee at the configured maximum rate.
func GetTotalFee(cfg shared.Config, binStep uint16, params shared.StaticParameters, vParams shared.VariableParameters) uint64 {
	total := GetBaseFee(binStep, params)
	total.Add(total, GetVariableFee(binStep, params, vParams.VolatilityAccumulator))
	maxFee := new(big.Int).SetUint64(cfg.MaxFeeRate)
	if total.Cmp(maxFee) > 0 {
		return cfg.MaxFeeRate
	}
	return total.Uint64()
}

// GetMaxTotalFee is the total fee at the maximum volatility accumulator.
func GetMaxTotalFee(cfg shared.Config, binStep uint16, params shared.StaticParameters) uint64 {
	return GetTotalFee(cfg, binStep, params, shared.VariableParameters{VolatilityAccumulator: params.MaxVolatilityAccumulator})
}
