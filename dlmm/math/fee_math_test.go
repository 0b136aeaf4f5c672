package math

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func loadFixture(t *testing.T, name string) gjson.Result {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data), "invalid json in %s", name)
	return gjson.ParseBytes(data)
}

func TestFeeFixtures(t *testing.T) {
	cfg := shared.DefaultConfig()
	fixture := loadFixture(t, "fees.json")

	cases := map[string]func(rate, amount uint64) (uint64, error){
		"compute_fee": func(rate, amount uint64) (uint64, error) {
			return ComputeFee(cfg, rate, amount)
		},
		"compute_fee_from_amount": func(rate, amount uint64) (uint64, error) {
			return ComputeFeeFromAmount(cfg, rate, amount)
		},
		"composition_fee": func(rate, amount uint64) (uint64, error) {
			return ComputeCompositionFee(cfg, rate, amount)
		},
	}
	for name, fn := range cases {
		fixture.Get(name).ForEach(func(_, c gjson.Result) bool {
			fee, err := fn(c.Get("rate").Uint(), c.Get("amount").Uint())
			require.NoError(t, err, name)
			require.Equal(t, c.Get("fee").Uint(), fee, "%s %s", name, c.Raw)
			return true
		})
	}
}

func TestComputeFeeRejectsFullRate(t *testing.T) {
	cfg := shared.DefaultConfig()
	_, err := ComputeFee(cfg, cfg.FeePrecision, 100)
	require.ErrorIs(t, err, shared.ErrNumericOverflow)
}

func TestProtocolAndHostFee(t *testing.T) {
	cfg := shared.DefaultConfig()

	protocolFee, err := ComputeProtocolFee(cfg, 500, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(50), protocolFee)

	hostFee, err := ComputeHostFee(cfg, cfg.HostFeeBps, protocolFee)
	require.NoError(t, err)
	require.Equal(t, uint64(10), hostFee)

	protocolFee, err = ComputeProtocolFee(cfg, 500, 19)
	require.NoError(t, err)
	require.Zero(t, protocolFee)
}
