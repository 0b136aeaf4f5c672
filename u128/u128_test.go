package u128

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestParseUint128(t *testing.T) {
	v := GenUint128FromString("18446744073709551617")
	require.Equal(t, uint64(1), v.Hi)
	require.Equal(t, uint64(1), v.Lo)
	require.Equal(t, "18446744073709551617", ToBig(v).String())

	_, err := ParseUint128("-1")
	require.Error(t, err)
	_, err = ParseUint128("340282366920938463463374607431768211456")
	require.Error(t, err)

	top, err := ParseUint128("340282366920938463463374607431768211455")
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), top.Hi)
	require.Equal(t, ^uint64(0), top.Lo)
}

func TestConversions(t *testing.T) {
	big128 := new(big.Int).Lsh(big.NewInt(1), 128)
	_, ok := FromBig(big128)
	require.False(t, ok)
	_, ok = FromBig(big.NewInt(-1))
	require.False(t, ok)

	v, ok := FromBig(new(big.Int).Sub(big128, big.NewInt(1)))
	require.True(t, ok)
	require.Equal(t, uint256.NewInt(0).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1)), ToUint256(v))

	_, ok = FromUint256(new(uint256.Int).Lsh(uint256.NewInt(1), 128))
	require.False(t, ok)
	back, ok := FromUint256(uint256.NewInt(42))
	require.True(t, ok)
	require.Equal(t, FromUint64(42), back)
	require.True(t, IsZero(FromUint64(0)))
}
