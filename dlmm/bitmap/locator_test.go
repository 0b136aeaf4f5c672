package bitmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func markedPair(t *testing.T, cfg shared.Config, ext *shared.BinArrayBitmapExtension, indexes ...int64) shared.LbPair {
	t.Helper()
	var pair shared.LbPair
	for _, index := range indexes {
		require.NoError(t, SetBinArrayInitialized(cfg, index, &pair, ext, true))
	}
	return pair
}

func TestInitializedRoundTrip(t *testing.T) {
	cfg := shared.DefaultConfig()
	ext := &shared.BinArrayBitmapExtension{}
	pair := markedPair(t, cfg, ext, -512, 511, 512, -513, 6655, -6656)

	for _, index := range []int64{-512, 511, 512, -513, 6655, -6656} {
		set, known := IsBinArrayInitialized(cfg, index, pair, ext)
		require.True(t, known, "index %d", index)
		require.True(t, set, "index %d", index)
	}
	set, known := IsBinArrayInitialized(cfg, 0, pair, ext)
	require.True(t, known)
	require.False(t, set)

	set, known = IsBinArrayInitialized(cfg, 512, pair, nil)
	require.False(t, known)
	require.False(t, set)

	require.ErrorIs(t, SetBinArrayInitialized(cfg, 600, &pair, nil, true), shared.ErrMissingBinGroupData)
}

func TestNextBinArrayInsideInlineBitmap(t *testing.T) {
	cfg := shared.DefaultConfig()
	pair := markedPair(t, cfg, nil, -2, 5)

	index, ok := NextBinArrayIndexWithLiquidity(cfg, true, 10, pair, nil)
	require.True(t, ok)
	require.Equal(t, int64(-2), index)

	index, ok = NextBinArrayIndexWithLiquidity(cfg, false, 10, pair, nil)
	require.True(t, ok)
	require.Equal(t, int64(5), index)

	// The array holding the active bin comes first in both directions.
	index, ok = NextBinArrayIndexWithLiquidity(cfg, true, 5*cfg.MaxBinPerArray, pair, nil)
	require.True(t, ok)
	require.Equal(t, int64(5), index)
	index, ok = NextBinArrayIndexWithLiquidity(cfg, false, 5*cfg.MaxBinPerArray, pair, nil)
	require.True(t, ok)
	require.Equal(t, int64(5), index)

	_, ok = NextBinArrayIndexWithLiquidity(cfg, false, 6*cfg.MaxBinPerArray, pair, nil)
	require.False(t, ok)
}

func TestNextBinArrayFallsThroughToExtension(t *testing.T) {
	cfg := shared.DefaultConfig()
	ext := &shared.BinArrayBitmapExtension{}
	pair := markedPair(t, cfg, ext, -3, 600, -600)

	index, ok := NextBinArrayIndexWithLiquidity(cfg, false, 0, pair, ext)
	require.True(t, ok)
	require.Equal(t, int64(600), index)

	index, ok = NextBinArrayIndexWithLiquidity(cfg, true, 0, pair, ext)
	require.True(t, ok)
	require.Equal(t, int64(-3), index)

	index, ok = NextBinArrayIndexWithLiquidity(cfg, true, -4*cfg.MaxBinPerArray, pair, ext)
	require.True(t, ok)
	require.Equal(t, int64(-600), index)

	_, ok = NextBinArrayIndexWithLiquidity(cfg, false, 0, pair, nil)
	require.False(t, ok)
}

func TestNextBinArrayInsideExtension(t *testing.T) {
	cfg := shared.DefaultConfig()
	ext := &shared.BinArrayBitmapExtension{}
	pair := markedPair(t, cfg, ext, 10, 600, 800)

	active := 700 * cfg.MaxBinPerArray
	index, ok := NextBinArrayIndexWithLiquidity(cfg, true, active, pair, ext)
	require.True(t, ok)
	require.Equal(t, int64(600), index)

	index, ok = NextBinArrayIndexWithLiquidity(cfg, false, active, pair, ext)
	require.True(t, ok)
	require.Equal(t, int64(800), index)

	// From the negative extension upward the search re-enters the inline bitmap.
	index, ok = NextBinArrayIndexWithLiquidity(cfg, false, -600*cfg.MaxBinPerArray, pair, ext)
	require.True(t, ok)
	require.Equal(t, int64(10), index)
}
