package bitmap

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// extensionPosition maps a bin array index outside the inline bitmap to its extension chunk
// and bit. Negative indexes count outward from -1, so -513 is bit 0 of negative chunk 0.
func extensionPosition(cfg shared.Config, index int64) (positive bool, chunk int, bit int) {
	size := int64(cfg.BinArrayBitmapSize)
	if index > 0 {
		return true, int(index/size - 1), int(index % size)
	}
	j := -(index + 1)
	return false, int(j/size - 1), int(j % size)
}

func extensionIndex(cfg shared.Config, positive bool, chunk, bit int) int64 {
	size := int64(cfg.BinArrayBitmapSize)
	v := (int64(chunk)+1)*size + int64(bit)
	if positive {
		return v
	}
	return -v - 1
}

func extensionChunk(cfg shared.Config, ext *shared.BinArrayBitmapExtension, positive bool, chunk int) Bitmap {
	width := int(cfg.BinArrayBitmapSize)
	var src [][8]uint64
	if positive {
		src = ext.PositiveBinArrayBitmap[:]
	} else {
		src = ext.NegativeBinArrayBitmap[:]
	}
	if chunk < 0 || chunk >= len(src) || chunk >= int(cfg.ExtensionBinArrayBitmapSize) {
		return New(width)
	}
	return FromWords(width, src[chunk][:])
}

// ExtensionBit reports whether index is marked in the extension.
func ExtensionBit(cfg shared.Config, ext *shared.BinArrayBitmapExtension, index int64) bool {
	positive, chunk, bit := extensionPosition(cfg, index)
	return extensionChunk(cfg, ext, positive, chunk).Test(bit)
}

// SetExtensionBit marks or clears index in the extension.
func SetExtensionBit(cfg shared.Config, ext *shared.BinArrayBitmapExtension, index int64, v bool) error {
	if !IsOverflowDefaultBinArrayBitmap(cfg, index) {
		return shared.NewError(shared.KindNumericOverflow, "bin array index %d belongs to the inline bitmap", index)
	}
	if err := CheckValidIndex(cfg, index); err != nil {
		return err
	}
	positive, chunk, bit := extensionPosition(cfg, index)
	src := &ext.NegativeBinArrayBitmap
	if positive {
		src = &ext.PositiveBinArrayBitmap
	}
	if chunk >= len(src) {
		return shared.NewError(shared.KindNumericOverflow, "bin array index %d outside the extension", index)
	}
	bm := FromWords(int(cfg.BinArrayBitmapSize), src[chunk][:])
	bm.Set(bit, v)
	copy(src[chunk][:], bm.Words())
	return nil
}

// findSetBit returns the first marked index walking from start to end, both inclusive. Both ends
// must lie on the same side of the inline bitmap. Whole chunks are skipped at a time.
func findSetBit(cfg shared.Config, ext *shared.BinArrayBitmapExtension, start, end int64) (int64, bool) {
	step := int64(1)
	if start > end {
		step = -1
	}
	width := int(cfg.BinArrayBitmapSize)
	for i := start; (step > 0 && i <= end) || (step < 0 && i >= end); {
		positive, chunk, bit := extensionPosition(cfg, i)
		bm := extensionChunk(cfg, ext, positive, chunk)
		// On the negative side a growing index walks down the chunk's bits.
		bitUp := (step > 0) == positive

		found := -1
		if bitUp {
			if n := bm.Rsh(bit).TrailingZeros(); n < width-bit {
				found = bit + n
			}
		} else {
			if n := bm.Lsh(width - 1 - bit).LeadingZeros(); n <= bit {
				found = bit - n
			}
		}

		if found >= 0 {
			idx := extensionIndex(cfg, positive, chunk, found)
			if (step > 0 && idx <= end) || (step < 0 && idx >= end) {
				return idx, true
			}
			return 0, false
		}

		if bitUp {
			i += step * int64(width-bit)
		} else {
			i += step * int64(bit+1)
		}
	}
	return 0, false
}
