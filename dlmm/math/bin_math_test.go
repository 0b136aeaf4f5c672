package math

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/u128"
)

func q64(v uint64) *uint256.Int {
	return new(uint256.Int).Lsh(uint256.NewInt(v), shared.ScaleOffset)
}

func TestGetLiquidity(t *testing.T) {
	liquidity, err := GetLiquidity(10, 5, q64(2))
	require.NoError(t, err)
	require.Equal(t, q64(25), liquidity)
}

func TestGetLiquidityShare(t *testing.T) {
	share, err := GetLiquidityShare(uint256.NewInt(10), new(uint256.Int), new(uint256.Int))
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(10), share)

	share, err = GetLiquidityShare(uint256.NewInt(10), uint256.NewInt(100), uint256.NewInt(50))
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(5), share)
}

func TestCalculateOutAmount(t *testing.T) {
	bin := shared.Bin{AmountX: 100, AmountY: 200, LiquiditySupply: u128.FromUint64(1000)}
	x, y, err := CalculateOutAmount(bin, uint256.NewInt(250))
	require.NoError(t, err)
	require.Equal(t, uint64(25), x)
	require.Equal(t, uint64(50), y)

	x, y, err = CalculateOutAmount(shared.Bin{AmountX: 100}, uint256.NewInt(250))
	require.NoError(t, err)
	require.Zero(t, x)
	require.Zero(t, y)
}

func TestAmountOutAndMaxIn(t *testing.T) {
	price := q64(2)

	out, err := GetAmountOut(100, price, true)
	require.NoError(t, err)
	require.Equal(t, uint64(200), out)

	out, err = GetAmountOut(101, price, false)
	require.NoError(t, err)
	require.Equal(t, uint64(50), out)

	in, err := GetMaxAmountIn(shared.Bin{AmountY: 201}, price, true)
	require.NoError(t, err)
	require.Equal(t, uint64(101), in)

	in, err = GetMaxAmountIn(shared.Bin{AmountX: 7}, price, false)
	require.NoError(t, err)
	require.Equal(t, uint64(14), in)

	in, err = GetAmountIn(75, price, true)
	require.NoError(t, err)
	require.Equal(t, uint64(38), in)

	in, err = GetAmountIn(75, price, false)
	require.NoError(t, err)
	require.Equal(t, uint64(150), in)
}

func TestSafeAddU64(t *testing.T) {
	sum, err := SafeAddU64(^uint64(0)-1, 1)
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), sum)

	_, err = SafeAddU64(^uint64(0)-10, 11)
	require.ErrorIs(t, err, shared.ErrNumericOverflow)
}

func TestOutAmountAfterDepositOverflow(t *testing.T) {
	_, _, err := GetOutAmountAfterDeposit(shared.Bin{AmountX: ^uint64(0)}, q64(1), 1, 0)
	require.ErrorIs(t, err, shared.ErrNumericOverflow)
}

func TestPendingEarning(t *testing.T) {
	earned, err := PendingEarning(q64(3), q64(10), q64(4))
	require.NoError(t, err)
	require.Equal(t, uint64(18), earned)

	earned, err = PendingEarning(q64(3), q64(4), q64(10))
	require.NoError(t, err)
	require.Zero(t, earned)
}

func TestClaimableFeeAddsPending(t *testing.T) {
	var bin shared.Bin
	bin.FeeAmountXPerTokenStored, _ = u128.FromUint256(q64(5))
	info := shared.FeeInfo{FeeXPending: 7, FeeYPending: 9}

	x, y, err := ClaimableFee(bin, q64(2), info)
	require.NoError(t, err)
	require.Equal(t, uint64(17), x)
	require.Equal(t, uint64(9), y)
}
