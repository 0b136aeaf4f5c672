package bitmap

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

func internalBitmap(cfg shared.Config, pair shared.LbPair) Bitmap {
	return FromWords(2*int(cfg.BinArrayBitmapSize), pair.BinArrayBitmap[:])
}

// IsBinArrayInitialized reports whether the bitmaps mark index as holding liquidity. known is
// false when the index lies in the extension and no extension was supplied.
func IsBinArrayInitialized(cfg shared.Config, index int64, pair shared.LbPair, ext *shared.BinArrayBitmapExtension) (set bool, known bool) {
	if IsOverflowDefaultBinArrayBitmap(cfg, index) {
		if ext == nil {
			return false, false
		}
		if CheckValidIndex(cfg, index) != nil {
			return false, true
		}
		return ExtensionBit(cfg, ext, index), true
	}
	offset := int(index + int64(cfg.BinArrayBitmapSize))
	return internalBitmap(cfg, pair).Test(offset), true
}

// SetBinArrayInitialized marks index in the inline bitmap or, past its range, in ext.
func SetBinArrayInitialized(cfg shared.Config, index int64, pair *shared.LbPair, ext *shared.BinArrayBitmapExtension, v bool) error {
	if IsOverflowDefaultBinArrayBitmap(cfg, index) {
		if ext == nil {
			return shared.NewError(shared.KindMissingBinGroupData, "bin array %d needs the bitmap extension", index)
		}
		return SetExtensionBit(cfg, ext, index, v)
	}
	bm := internalBitmap(cfg, *pair)
	bm.Set(int(index+int64(cfg.BinArrayBitmapSize)), v)
	copy(pair.BinArrayBitmap[:], bm.Words())
	return nil
}

// NextBinArrayIndexWithLiquidity finds the nearest marked bin array starting from the array
// containing activeID, moving down when swapping for Y and up otherwise. ok is false when no
// marked array exists in that direction, including when the search leaves the inline bitmap
// and ext is nil.
func NextBinArrayIndexWithLiquidity(cfg shared.Config, swapForY bool, activeID int32, pair shared.LbPair, ext *shared.BinArrayBitmapExtension) (int64, bool) {
	lower, upper := cfg.InternalBitmapRange()
	minIndex, maxIndex := cfg.ExtensionBitmapRange()
	size := int64(cfg.BinArrayBitmapSize)
	start := BinIDToBinArrayIndex(cfg, activeID)

	// At most: extension, inline bitmap, extension.
	for range 3 {
		if IsOverflowDefaultBinArrayBitmap(cfg, start) {
			if ext == nil {
				return 0, false
			}
			if start < 0 {
				if swapForY {
					return findSetBit(cfg, ext, start, minIndex)
				}
				if idx, ok := findSetBit(cfg, ext, start, -size-1); ok {
					return idx, true
				}
				start = lower
			} else {
				if !swapForY {
					return findSetBit(cfg, ext, start, maxIndex)
				}
				if idx, ok := findSetBit(cfg, ext, start, size); ok {
					return idx, true
				}
				start = upper
			}
			continue
		}

		bm := internalBitmap(cfg, pair)
		offset := int(start + size)
		if swapForY {
			if lz := bm.Lsh(bm.Len() - 1 - offset).LeadingZeros(); lz < bm.Len() {
				return start - int64(lz), true
			}
			start = lower - 1
		} else {
			if tz := bm.Rsh(offset).TrailingZeros(); tz < bm.Len() {
				return start + int64(tz), true
			}
			start = upper + 1
		}
	}
	return 0, false
}
