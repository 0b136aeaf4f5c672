package rebalance

import (
	"os"
	"strconv"
	"testing"

	binary "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/dlmm-go/dlmm/bitmap"
	dmath "github.com/krazyTry/dlmm-go/dlmm/math"
	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/u128"
)

// loadSnapshot builds a pair with bin arrays -1 and 0 and a position owning the whole supply of
// every bin it covers: Y below the active bin, X above it and both in the active bin.
func loadSnapshot(t *testing.T, cfg shared.Config) SimulateParams {
	t.Helper()
	data, err := os.ReadFile("testdata/position.json")
	require.NoError(t, err)
	j := gjson.ParseBytes(data)

	p := j.Get("parameters")
	pair := shared.LbPair{
		BinStep:  uint16(j.Get("bin_step").Uint()),
		ActiveID: int32(j.Get("active_id").Int()),
		Parameters: shared.StaticParameters{
			BaseFactor:               uint16(p.Get("base_factor").Uint()),
			FilterPeriod:             uint16(p.Get("filter_period").Uint()),
			DecayPeriod:              uint16(p.Get("decay_period").Uint()),
			ReductionFactor:          uint16(p.Get("reduction_factor").Uint()),
			VariableFeeControl:       uint32(p.Get("variable_fee_control").Uint()),
			MaxVolatilityAccumulator: uint32(p.Get("max_volatility_accumulator").Uint()),
			ProtocolShare:            uint16(p.Get("protocol_share").Uint()),
		},
	}
	amount := j.Get("bin_amount").Uint()

	var arrays []shared.BinArray
	for _, index := range []int64{-1, 0} {
		array := shared.BinArray{Index: index, Bins: make([]shared.Bin, cfg.MaxBinPerArray)}
		lower, _ := bitmap.BinArrayLowerUpperBinID(cfg, index)
		for i := range array.Bins {
			binID := lower + int32(i)
			bin := &array.Bins[i]
			if binID <= pair.ActiveID {
				bin.AmountY = amount
			}
			if binID >= pair.ActiveID {
				bin.AmountX = amount
			}
			price, err := dmath.GetPriceFromIDU256(cfg, binID, pair.BinStep)
			require.NoError(t, err)
			liquidity, err := dmath.GetLiquidity(bin.AmountX, bin.AmountY, price)
			require.NoError(t, err)
			bin.Price, _ = u128.FromUint256(price)
			bin.LiquiditySupply, _ = u128.FromUint256(liquidity)
		}
		require.NoError(t, bitmap.SetBinArrayInitialized(cfg, index, &pair, nil, true))
		arrays = append(arrays, array)
	}
	index := bitmap.IndexBinArrays(arrays)

	jp := j.Get("position")
	position := shared.Position{
		LowerBinID: int32(jp.Get("lower_bin_id").Int()),
		UpperBinID: int32(jp.Get("upper_bin_id").Int()),
	}
	width := int(position.Width())
	position.LiquidityShares = make([]binary.Uint128, width)
	position.FeeInfos = make([]shared.FeeInfo, width)
	position.RewardInfos = make([]shared.UserRewardInfo, width)
	for i := 0; i < width; i++ {
		binID := position.LowerBinID + int32(i)
		bin, err := bitmap.GetBin(cfg, index[bitmap.BinIDToBinArrayIndex(cfg, binID)], binID)
		require.NoError(t, err)
		position.LiquidityShares[i] = bin.LiquiditySupply

		key := strconv.Itoa(int(binID))
		position.FeeInfos[i].FeeXPending = jp.Get("fee_x_pending." + key).Uint()
		position.FeeInfos[i].FeeYPending = jp.Get("fee_y_pending." + key).Uint()
	}

	return SimulateParams{
		LbPair:           pair,
		BinArrays:        arrays,
		Position:         position,
		CurrentTimestamp: 1_700_000_000,
	}
}

func binPtr(v int32) *int32 { return &v }

func sumBreakdown(bins []BinBreakdown) (x, y uint64) {
	for _, b := range bins {
		x += b.AmountX
		y += b.AmountY
	}
	return x, y
}

func TestSimulateFullWithdraw(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)
	params.ShouldClaimFee = true
	params.Withdraws = []Withdraw{{MinBinID: binPtr(-3), MaxBinID: binPtr(3), Bps: cfg.BasisPointMax}}

	result, err := Simulate(cfg, params)
	require.NoError(t, err)

	require.Equal(t, uint64(4000), result.AmountXWithdrawn)
	require.Equal(t, uint64(4000), result.AmountYWithdrawn)
	require.Equal(t, uint64(7), result.FeeXClaimed)
	require.Equal(t, uint64(5), result.FeeYClaimed)
	require.Equal(t, uint64(4007), result.ActualAmountXWithdrawn)
	require.Equal(t, uint64(4005), result.ActualAmountYWithdrawn)
	require.Zero(t, result.ActualAmountXDeposited)

	require.Zero(t, result.Position.Width())
	require.Equal(t, result.Position.LowerBinID-1, result.Position.UpperBinID)
	require.Empty(t, result.Bins)
	require.Zero(t, result.AmountX)
	require.Zero(t, result.AmountY)

	require.Equal(t, -int64(70*112*6960), result.RentalCostLamports)
	require.Equal(t, []int64{-1, 0}, result.BinArrayIndexes)
	require.Empty(t, result.NewBinArrayIndexes)
	require.Zero(t, result.BinArrayRentLamports)
	require.False(t, result.RequiresBitmapExtension)
	require.Zero(t, result.BitmapExtensionRentLamports)
	require.Equal(t, []WithdrawParameters{{MinBinID: -3, MaxBinID: 3, Bps: cfg.BasisPointMax}}, result.WithdrawParams)

	// the snapshot is not modified
	require.Equal(t, uint64(1000), params.BinArrays[1].Bins[1].AmountX)
}

func TestSimulatePartialWithdrawKeepsTotals(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)
	params.Withdraws = []Withdraw{{MinBinID: binPtr(1), MaxBinID: binPtr(10), Bps: 5000}}

	result, err := Simulate(cfg, params)
	require.NoError(t, err)

	require.GreaterOrEqual(t, result.AmountXWithdrawn, uint64(1497))
	require.LessOrEqual(t, result.AmountXWithdrawn, uint64(1500))
	require.Zero(t, result.AmountYWithdrawn)
	require.Zero(t, result.FeeXClaimed)

	require.Equal(t, int32(-3), result.Position.LowerBinID)
	require.Equal(t, int32(3), result.Position.UpperBinID)
	require.Len(t, result.Bins, 7)
	require.Zero(t, result.RentalCostLamports)

	x, y := sumBreakdown(result.Bins)
	require.Equal(t, result.AmountX, x)
	require.Equal(t, result.AmountY, y)
	require.Equal(t, uint64(4000), result.AmountX+result.AmountXWithdrawn)
	require.Equal(t, uint64(4000), result.AmountY)

	// unclaimed fees stay with the position
	require.Equal(t, uint64(7), result.Bins[5].FeeX)
	require.Equal(t, uint64(7), result.Position.FeeInfos[5].FeeXPending)
}

func TestSimulateDepositIntoNewBinArray(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)
	params.Deposits = []Deposit{{
		MinDeltaID: 100,
		MaxDeltaID: 105,
		Strategy:   shared.StrategyTypeSpot,
		AmountX:    6000,
	}}

	result, err := Simulate(cfg, params)
	require.NoError(t, err)

	require.LessOrEqual(t, result.AmountXDeposited, uint64(6000))
	require.GreaterOrEqual(t, result.AmountXDeposited, uint64(5990))
	require.Zero(t, result.AmountYDeposited)
	require.Equal(t, result.AmountXDeposited, result.ActualAmountXDeposited)
	require.Empty(t, result.DepositParams)

	require.Equal(t, []int64{1}, result.NewBinArrayIndexes)
	require.Equal(t, []int64{-1, 0, 1}, result.BinArrayIndexes)
	require.Equal(t, cfg.BinArrayRentLamports, result.BinArrayRentLamports)

	require.Equal(t, int32(-3), result.Position.LowerBinID)
	require.Equal(t, int32(105), result.Position.UpperBinID)
	require.Equal(t, int64(70*112*6960), result.RentalCostLamports)

	x, y := sumBreakdown(result.Bins)
	require.Equal(t, result.AmountX, x)
	require.Equal(t, result.AmountY, y)
	require.Equal(t, uint64(4000)+result.AmountXDeposited, result.AmountX)
}

func TestSimulateSolvedDeposit(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)
	params.Deposits = []Deposit{{
		MinDeltaID: -2,
		MaxDeltaID: 2,
		Strategy:   shared.StrategyTypeSpot,
		AmountX:    3000,
		AmountY:    3000,
		SolveExact: true,
	}}

	result, err := Simulate(cfg, params)
	require.NoError(t, err)

	require.LessOrEqual(t, result.AmountXDeposited, uint64(3000))
	require.GreaterOrEqual(t, result.AmountXDeposited, uint64(2970))
	require.LessOrEqual(t, result.AmountYDeposited, uint64(3000))
	require.GreaterOrEqual(t, result.AmountYDeposited, uint64(2970))

	require.Len(t, result.DepositParams, 1)
	dp := result.DepositParams[0]
	require.Equal(t, int32(-2), dp.MinDeltaID)
	require.Equal(t, int32(2), dp.MaxDeltaID)
	require.Zero(t, dp.BitFlag)
	require.True(t, dp.X0.Sign() > 0)
	require.True(t, dp.Y0.Sign() > 0)
	require.Empty(t, result.NewBinArrayIndexes)
	require.Equal(t, int32(-3), result.Position.LowerBinID)
	require.Equal(t, int32(3), result.Position.UpperBinID)
}

func TestSimulateMissingBinArray(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)
	params.BinArrays = params.BinArrays[1:]
	params.Withdraws = []Withdraw{{MinBinID: binPtr(-3), MaxBinID: binPtr(3), Bps: 100}}

	_, err := Simulate(cfg, params)
	require.ErrorIs(t, err, shared.ErrMissingBinGroupData)
}

func TestSimulateClaimOverflow(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)
	params.ShouldClaimFee = true
	params.Withdraws = []Withdraw{{MinBinID: binPtr(-3), MaxBinID: binPtr(3), Bps: cfg.BasisPointMax}}
	// bin 2 already has 7 pending, which pushes the total past u64
	params.Position.FeeInfos[0].FeeXPending = ^uint64(0) - 3

	_, err := Simulate(cfg, params)
	require.ErrorIs(t, err, shared.ErrNumericOverflow)
}

func TestSimulateRejectsInvalidActions(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)

	cases := map[string]func(p *SimulateParams){
		"no action": func(p *SimulateParams) {},
		"bps above max": func(p *SimulateParams) {
			p.Withdraws = []Withdraw{{Bps: cfg.BasisPointMax + 1}}
		},
		"overlapping withdraws": func(p *SimulateParams) {
			p.Withdraws = []Withdraw{
				{MinBinID: binPtr(-3), MaxBinID: binPtr(0), Bps: 100},
				{MinBinID: binPtr(0), MaxBinID: binPtr(3), Bps: 100},
			}
		},
		"inverted withdraw": func(p *SimulateParams) {
			p.Withdraws = []Withdraw{{MinBinID: binPtr(2), MaxBinID: binPtr(1), Bps: 100}}
		},
		"inverted deposit": func(p *SimulateParams) {
			p.Deposits = []Deposit{{MinDeltaID: 1, MaxDeltaID: -1, AmountX: 10}}
		},
		"empty deposit": func(p *SimulateParams) {
			p.Deposits = []Deposit{{MinDeltaID: 0, MaxDeltaID: 1}}
		},
		"overlapping deposits": func(p *SimulateParams) {
			p.Deposits = []Deposit{
				{MinDeltaID: 0, MaxDeltaID: 2, AmountX: 10},
				{MinDeltaID: 2, MaxDeltaID: 4, AmountX: 10},
			}
		},
		"deposit out of range": func(p *SimulateParams) {
			p.Deposits = []Deposit{{MinDeltaID: 0, MaxDeltaID: cfg.MaxBinID + 1, AmountX: 10}}
		},
	}
	for name, mutate := range cases {
		p := params
		mutate(&p)
		_, err := Simulate(cfg, p)
		require.ErrorIs(t, err, shared.ErrInvalidDistributionInput, name)
	}
}

func TestSimulateSingleBinDeposit(t *testing.T) {
	cfg := shared.DefaultConfig()
	params := loadSnapshot(t, cfg)
	params.Deposits = []Deposit{{MinDeltaID: 2, MaxDeltaID: 2, Strategy: shared.StrategyTypeSpot, AmountX: 500}}

	result, err := Simulate(cfg, params)
	require.NoError(t, err)
	require.Equal(t, uint64(500), result.AmountXDeposited)
	require.Equal(t, uint64(4500), result.AmountX)
}
