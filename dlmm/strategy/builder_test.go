package strategy

import (
	"math/big"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

// withinTarget checks got <= target and got >= target*(1 - toleranceBps/10000).
func withinTarget(t *testing.T, got, target *big.Int, toleranceBps int64, msg string) {
	t.Helper()
	require.True(t, got.Cmp(target) <= 0, "%s: %s above target %s", msg, got, target)
	floor := new(big.Int).Mul(target, big.NewInt(10_000-toleranceBps))
	floor.Quo(floor, big.NewInt(10_000))
	require.True(t, got.Cmp(floor) >= 0, "%s: %s below %s", msg, got, floor)
}

func TestBuildLiquidityStrategyParametersHitsTargets(t *testing.T) {
	cfg := shared.DefaultConfig()
	data, err := os.ReadFile("testdata/targets.json")
	require.NoError(t, err)

	gjson.ParseBytes(data).ForEach(func(_, c gjson.Result) bool {
		st := shared.StrategyType(c.Get("strategy").Uint())
		amountX := bigFromString(t, c.Get("amount_x").String())
		amountY := bigFromString(t, c.Get("amount_y").String())
		minDelta := int32(c.Get("min_delta").Int())
		maxDelta := int32(c.Get("max_delta").Int())
		binStep := uint16(c.Get("bin_step").Uint())
		activeID := int32(c.Get("active_id").Int())
		favorX := c.Get("favor_x").Bool()
		tolerance := c.Get("tolerance_bps").Int()

		builder, err := ForType(cfg, st)
		require.NoError(t, err)
		require.Equal(t, st, builder.Type())

		params, err := BuildLiquidityStrategyParameters(amountX, amountY, minDelta, maxDelta, binStep, favorX, activeID, builder)
		require.NoError(t, err, c.Raw)

		bins, err := ToAmountIntoBins(cfg, activeID, minDelta, maxDelta, params, binStep, favorX)
		require.NoError(t, err, c.Raw)
		require.Len(t, bins, int(maxDelta-minDelta)+1)
		for i, b := range bins {
			require.Equal(t, activeID+minDelta+int32(i), b.BinID)
			require.True(t, b.AmountX.Sign() >= 0, "%s bin %d x %s", st, b.BinID, b.AmountX)
			require.True(t, b.AmountY.Sign() >= 0, "%s bin %d y %s", st, b.BinID, b.AmountY)
		}

		totalX, totalY := TotalAmounts(bins)
		if amountX.Sign() > 0 {
			withinTarget(t, totalX, amountX, tolerance, st.String()+" x")
		} else {
			require.Zero(t, totalX.Sign())
		}
		if amountY.Sign() > 0 {
			withinTarget(t, totalY, amountY, tolerance, st.String()+" y")
		} else {
			require.Zero(t, totalY.Sign())
		}
		return true
	})
}

func TestBuildLiquidityStrategyParametersEdgeCases(t *testing.T) {
	cfg := shared.DefaultConfig()
	builder, err := ForType(cfg, shared.StrategyTypeSpot)
	require.NoError(t, err)

	params, err := BuildLiquidityStrategyParameters(big.NewInt(100), big.NewInt(100), 3, 2, 10, false, 0, builder)
	require.NoError(t, err)
	require.Zero(t, params.X0.Sign())
	require.Zero(t, params.Y0.Sign())
	require.Zero(t, params.DeltaX.Sign())
	require.Zero(t, params.DeltaY.Sign())

	_, err = BuildLiquidityStrategyParameters(big.NewInt(0), nil, -3, 3, 10, false, 0, builder)
	require.ErrorIs(t, err, shared.ErrInvalidDistributionInput)

	_, err = ForType(cfg, shared.StrategyType(7))
	require.ErrorIs(t, err, shared.ErrInvalidDistributionInput)
}

func TestBuildBitFlagAndNegate(t *testing.T) {
	params := shared.StrategyParameters{X0: big.NewInt(-5), Y0: big.NewInt(3), DeltaY: big.NewInt(-1)}
	flag, encoded := BuildBitFlagAndNegate(params)

	require.Equal(t, BitFlagX0Negative|BitFlagDeltaYNegative, flag)
	require.Equal(t, BitFlag(9), flag)
	require.Equal(t, int64(5), encoded.X0.Int64())
	require.Equal(t, int64(3), encoded.Y0.Int64())
	require.Equal(t, int64(0), encoded.DeltaX.Int64())
	require.Equal(t, int64(1), encoded.DeltaY.Int64())
	// the input is left untouched
	require.Equal(t, int64(-5), params.X0.Int64())

	flag, _ = BuildBitFlagAndNegate(shared.StrategyParameters{})
	require.Zero(t, flag)
}
