package pool_fees

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func testParameters() shared.StaticParameters {
	return shared.StaticParameters{
		BaseFactor:               10_000,
		FilterPeriod:             30,
		DecayPeriod:              600,
		ReductionFactor:          5_000,
		VariableFeeControl:       40_000,
		MaxVolatilityAccumulator: 350_000,
	}
}

func TestBaseFee(t *testing.T) {
	params := testParameters()
	require.Equal(t, int64(1_000_000), GetBaseFee(10, params).Int64())

	params.BaseFeePowerFactor = 2
	require.Equal(t, int64(100_000_000), GetBaseFee(10, params).Int64())
}

func TestVariableFee(t *testing.T) {
	params := testParameters()
	require.Equal(t, int64(4_000), GetVariableFee(10, params, 10_000).Int64())
	require.Equal(t, int64(1), GetVariableFee(10, params, 1).Int64())
	require.Zero(t, GetVariableFee(10, params, 0).Int64())

	params.VariableFeeControl = 0
	require.Zero(t, GetVariableFee(10, params, 10_000).Int64())
}

func TestTotalFeeIsCapped(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := testParameters()
	require.Equal(t, uint64(1_004_000), GetTotalFee(cfg, 10, params, shared.VariableParameters{VolatilityAccumulator: 10_000}))

	params.BaseFeePowerFactor = 3
	require.Equal(t, cfg.MaxFeeRate, GetTotalFee(cfg, 10, params, shared.VariableParameters{}))
}

func TestUpdateReferences(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := testParameters()
	vParams := shared.VariableParameters{
		VolatilityAccumulator: 20_000,
		VolatilityReference:   7_000,
		IndexReference:        90,
		LastUpdateTimestamp:   1_000,
	}

	within := UpdateReferences(cfg, params, vParams, 100, 1_010)
	require.Equal(t, vParams, within)

	decaying := UpdateReferences(cfg, params, vParams, 100, 1_100)
	require.Equal(t, int32(100), decaying.IndexReference)
	require.Equal(t, uint32(10_000), decaying.VolatilityReference)

	reset := UpdateReferences(cfg, params, vParams, 100, 2_000)
	require.Equal(t, int32(100), reset.IndexReference)
	require.Zero(t, reset.VolatilityReference)
}

func TestUpdateVolatilityAccumulator(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := testParameters()
	vParams := shared.VariableParameters{VolatilityReference: 5_000, IndexReference: 100}

	require.Equal(t, uint32(35_000), UpdateVolatilityAccumulator(cfg, params, vParams, 103).VolatilityAccumulator)
	require.Equal(t, uint32(35_000), UpdateVolatilityAccumulator(cfg, params, vParams, 97).VolatilityAccumulator)
	require.Equal(t, params.MaxVolatilityAccumulator, UpdateVolatilityAccumulator(cfg, params, vParams, 200).VolatilityAccumulator)
}

func TestFeeInfo(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := testParameters()
	params.ProtocolShare = 500

	info := GetFeeInfo(cfg, 10, params)
	require.Equal(t, "0.1", info.BaseFeeRatePercentage.String())
	// base 1_000_000 plus the variable fee at va 350_000
	require.Equal(t, uint64(5_900_000), GetMaxTotalFee(cfg, 10, params))
	require.Equal(t, "0.59", info.MaxFeeRatePercentage.String())
	require.Equal(t, "5", info.ProtocolFeePercentage.String())

	params.BaseFeePowerFactor = 3
	info = GetFeeInfo(cfg, 10, params)
	require.Equal(t, "100", info.BaseFeeRatePercentage.String())
	require.Equal(t, "10", info.MaxFeeRatePercentage.String())
}

func TestDynamicFee(t *testing.T) {
	cfg := shared.DefaultConfig()
	pair := shared.LbPair{
		BinStep:    10,
		ActiveID:   100,
		Parameters: testParameters(),
		VParameters: shared.VariableParameters{
			VolatilityAccumulator: 10_000,
			IndexReference:        100,
		},
	}

	// inside the decay period half of the accumulator survives
	require.Equal(t, "0.1001", GetDynamicFee(cfg, pair, 100).String())
	// past it only the base fee is left
	require.Equal(t, "0.1", GetDynamicFee(cfg, pair, 1_000).String())
}
