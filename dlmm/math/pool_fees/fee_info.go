package pool_fees

import (
	"github.com/shopspring/decimal"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// FeeInfo is a pair's fee schedule in percent.
type FeeInfo struct {
	BaseFeeRatePercentage decimal.Decimal
	// MaxFeeRatePercentage is the total fee at the maximum volatility accumulator.
	MaxFeeRatePercentage  decimal.Decimal
	ProtocolFeePercentage decimal.Decimal
}

func feeRatePercentage(cfg shared.Config, rate uint64) decimal.Decimal {
	return decimal.NewFromInt(int64(rate)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(cfg.FeePrecision)))
}

// GetFeeInfo reports the base and maximum fee rates and the protocol share of fees.
func GetFeeInfo(cfg shared.Config, binStep uint16, params shared.StaticParameters) FeeInfo {
	base := GetBaseFee(binStep, params)
	return FeeInfo{
		BaseFeeRatePercentage: decimal.NewFromBigInt(base, 0).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(cfg.FeePrecision))),
		MaxFeeRatePercentage:  feeRatePercentage(cfg, GetMaxTotalFee(cfg, binStep, params)),
		ProtocolFeePercentage: decimal.NewFromInt(int64(params.ProtocolShare)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(cfg.BasisPointMax))),
	}
}

// GetDynamicFee is the total fee, in percent, a swap starting at the pair's active bin would pay
// at currentTimestamp.
func GetDynamicFee(cfg shared.Config, pair shared.LbPair, currentTimestamp int64) decimal.Decimal {
	vParams := UpdateVolatilityParameters(cfg, pair.Parameters, pair.VParameters, pair.ActiveID, currentTimestamp)
	return feeRatePercentage(cfg, GetTotalFee(cfg, pair.BinStep, pair.Parameters, vParams))
}
