package math

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func TestPowZeroExponent(t *testing.T) {
	base := GetQPriceBaseFactor(shared.DefaultConfig(), 25)
	require.Equal(t, u256OneQ64, Pow(base, 0))
}

func TestPowOutOfRange(t *testing.T) {
	base := GetQPriceBaseFactor(shared.DefaultConfig(), 25)
	require.Nil(t, Pow(base, shared.MaxExponential))
	require.Nil(t, Pow(base, -shared.MaxExponential))
	require.Nil(t, Pow(new(uint256.Int), 3))
}

func TestPriceOfFirstBin(t *testing.T) {
	cfg := shared.DefaultConfig()
	base := GetQPriceBaseFactor(cfg, 10)

	price, err := GetPriceFromIDU256(cfg, 1, 10)
	require.NoError(t, err)
	diff := new(uint256.Int)
	if price.Gt(base) {
		diff.Sub(price, base)
	} else {
		diff.Sub(base, price)
	}
	require.True(t, diff.Lt(uint256.NewInt(3)), "price %s base %s", price, base)
}

func TestPriceFromIDIsMonotone(t *testing.T) {
	cfg := shared.DefaultConfig()
	for _, binStep := range []uint16{1, 10, 80, 250} {
		prev, err := GetPriceFromID(cfg, -50, binStep)
		require.NoError(t, err)
		for id := int32(-49); id <= 50; id++ {
			price, err := GetPriceFromID(cfg, id, binStep)
			require.NoError(t, err)
			require.Equal(t, 1, price.Cmp(prev), "bin step %d id %d", binStep, id)
			prev = price
		}
	}
}

func TestPriceOfBinZeroIsOne(t *testing.T) {
	cfg := shared.DefaultConfig()
	price, err := GetPriceFromID(cfg, 0, 100)
	require.NoError(t, err)
	require.Equal(t, 0, price.Cmp(shared.OneQ64))

	value, err := GetPriceOfBinByBinID(cfg, 0, 100)
	require.NoError(t, err)
	require.True(t, value.Equal(decimal.NewFromInt(1)))
}

func TestPriceOfOppositeBinsMultipliesToOne(t *testing.T) {
	cfg := shared.DefaultConfig()
	up, err := GetPriceFromID(cfg, 1000, 20)
	require.NoError(t, err)
	down, err := GetPriceFromID(cfg, -1000, 20)
	require.NoError(t, err)

	product := new(big.Int).Mul(up, down)
	product.Rsh(product, shared.ScaleOffset)
	diff := new(big.Int).Sub(product, shared.OneQ64)
	diff.Abs(diff)
	// relative error below 1e-12
	limit := new(big.Int).Div(shared.OneQ64, big.NewInt(1_000_000_000_000))
	require.True(t, diff.Cmp(limit) < 0, "product %s", product)
}

func TestGetBinIDFromPrice(t *testing.T) {
	cfg := shared.DefaultConfig()
	step := decimal.RequireFromString("1.001")
	// strictly between bins 100 and 101
	price := step.Pow(decimal.NewFromInt(100)).Mul(decimal.RequireFromString("1.0005"))

	lower, err := GetBinIDFromPrice(cfg, price, 10, true)
	require.NoError(t, err)
	require.Equal(t, int32(100), lower)

	upper, err := GetBinIDFromPrice(cfg, price, 10, false)
	require.NoError(t, err)
	require.Equal(t, int32(101), upper)

	_, err = GetBinIDFromPrice(cfg, decimal.Zero, 10, true)
	require.ErrorIs(t, err, shared.ErrInvalidDistributionInput)
}

func TestPricePerLamportRoundTrip(t *testing.T) {
	price := decimal.RequireFromString("152.25")
	perLamport := PricePerLamport(9, 6, price)
	require.True(t, perLamport.Equal(decimal.RequireFromString("0.15225")), perLamport.String())
	require.True(t, FromPricePerLamport(9, 6, perLamport).Equal(price))
}
