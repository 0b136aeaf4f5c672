package pool_fees

import (
	"math/big"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

var (
	variableFeeScalingFactor  = big.NewInt(100_000_000_000)
	variableFeeRoundingOffset = big.NewInt(99_999_999_999)
)

// GetVariableFee returns ceil(variableFeeControl * (volatilityAccumulator * binStep)^2 / 1e11).
func GetVariableFee(binStep uint16, params shared.StaticParameters, volatilityAccumulator uint32) *big.Int {
	if params.VariableFeeControl == 0 {
		return big.NewInt(0)
	}
	squareVfaBin := new(big.Int).Mul(big.NewInt(int64(volatilityAccumulator)), big.NewInt(int64(binStep)))
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)
	vFee := new(big.Int).Mul(big.NewInt(int64(params.VariableFeeControl)), squareVfaBin)
	vFee.Add(vFee, variableFeeRoundingOffset)
	return vFee.Div(vFee, variableFeeScalingFactor)
}
