package bitmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmapShiftsCrop(t *testing.T) {
	b := New(100)
	require.Equal(t, 100, b.LeadingZeros())
	require.Equal(t, 100, b.TrailingZeros())

	b.Set(99, true)
	require.True(t, b.Test(99))
	require.Equal(t, 0, b.LeadingZeros())
	require.True(t, b.Lsh(1).IsZero())
	require.Equal(t, 98, b.Rsh(1).TrailingZeros())

	b.Set(99, false)
	b.Set(3, true)
	require.Equal(t, 96, b.LeadingZeros())
	require.Equal(t, 3, b.TrailingZeros())
	require.Equal(t, 0, b.Rsh(3).TrailingZeros())
	require.Equal(t, 67, b.Lsh(64).TrailingZeros())
	require.True(t, b.Rsh(4).IsZero())
}

func TestFromWordsIgnoresBitsPastWidth(t *testing.T) {
	b := FromWords(70, []uint64{1, ^uint64(0), 5})
	require.Equal(t, 0, b.TrailingZeros())
	require.Equal(t, 0, b.LeadingZeros())
	require.Equal(t, []uint64{1, 1<<6 - 1}, b.Words())
	require.False(t, b.Test(70))
}
