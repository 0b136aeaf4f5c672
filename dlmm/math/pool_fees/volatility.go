package pool_fees

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// UpdateReferences refreshes the volatility references at the start of a swap. Past the filter
// period the index reference moves to the active bin; the volatility reference decays by the
// reduction factor until the decay period, then resets to zero.
func UpdateReferences(cfg shared.Config, params shared.StaticParameters, vParams shared.VariableParameters, activeID int32, currentTimestamp int64) shared.VariableParameters {
	elapsed := currentTimestamp - vParams.LastUpdateTimestamp
	if elapsed >= int64(params.FilterPeriod) {
		vParams.IndexReference = activeID
		if elapsed < int64(params.DecayPeriod) {
			vr := uint64(vParams.VolatilityAccumulator) * uint64(params.ReductionFactor) / cfg.BasisPointMax
			vParams.VolatilityReference = uint32(vr)
		} else {
			vParams.VolatilityReference = 0
		}
	}
	return vParams
}

// UpdateVolatilityAccumulator sets va = min(vr + |indexReference - activeID| * BasisPointMax, maxVA).
func UpdateVolatilityAccumulator(cfg shared.Config, params shared.StaticParameters, vParams shared.VariableParameters, activeID int32) shared.VariableParameters {
	delta := int64(vParams.IndexReference) - int64(activeID)
	if delta < 0 {
		delta = -delta
	}
	va := uint64(vParams.VolatilityReference) + uint64(delta)*cfg.BasisPointMax
	if va > uint64(params.MaxVolatilityAccumulator) {
		va = uint64(params.MaxVolatilityAccumulator)
	}
	vParams.VolatilityAccumulator = uint32(va)
	return vParams
}

// UpdateVolatilityParameters applies both updates, as done before an active-bin deposit.
func UpdateVolatilityParameters(cfg shared.Config, params shared.StaticParameters, vParams shared.VariableParameters, activeID int32, currentTimestamp int64) shared.VariableParameters {
	vParams = UpdateReferences(cfg, params, vParams, activeID, currentTimestamp)
	return UpdateVolatilityAccumulator(cfg, params, vParams, activeID)
}
