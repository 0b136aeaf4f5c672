package strategy

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func linear(k int64) totalFunc {
	return func(v *big.Int) (*big.Int, error) {
		return new(big.Int).Mul(v, big.NewInt(k)), nil
	}
}

func TestSearchDown(t *testing.T) {
	cases := []struct {
		start, target, want int64
	}{
		{100, 10, 3},
		{2, 10, 2},
		{3, 9, 3},
		{0, -50, -17},
		{1 << 40, 1 << 20, 349525},
	}
	for _, c := range cases {
		got, err := searchDown(big.NewInt(c.start), big.NewInt(c.target), linear(3))
		require.NoError(t, err)
		require.Equal(t, c.want, got.Int64(), "start %d target %d", c.start, c.target)
	}
}

func TestSearchUp(t *testing.T) {
	cases := []struct {
		start, target, want int64
	}{
		{0, 10, 4},
		{5, 10, 5},
		{-100, 9, 3},
		{0, 1 << 30, 357913942},
	}
	for _, c := range cases {
		got, err := searchUp(big.NewInt(c.start), big.NewInt(c.target), linear(3))
		require.NoError(t, err)
		require.Equal(t, c.want, got.Int64(), "start %d target %d", c.start, c.target)
	}
}
