package bitmap

import (
	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

// BinIDToBinArrayIndex returns floor(binID / MaxBinPerArray).
func BinIDToBinArrayIndex(cfg shared.Config, binID int32) int64 {
	size := int64(cfg.MaxBinPerArray)
	idx, rem := int64(binID)/size, int64(binID)%size
	if binID < 0 && rem != 0 {
		idx--
	}
	return idx
}

// BinArrayLowerUpperBinID returns the first and last bin id held by bin array index.
func BinArrayLowerUpperBinID(cfg shared.Config, index int64) (int32, int32) {
	lower := index * int64(cfg.MaxBinPerArray)
	upper := lower + int64(cfg.MaxBinPerArray) - 1
	return int32(lower), int32(upper)
}

func IsBinIDWithinBinArray(cfg shared.Config, binID int32, index int64) bool {
	lower, upper := BinArrayLowerUpperBinID(cfg, index)
	return binID >= lower && binID <= upper
}

// GetBinIndexInArray returns the offset of binID inside its bin array.
func GetBinIndexInArray(cfg shared.Config, binID int32) int {
	lower, _ := BinArrayLowerUpperBinID(cfg, BinIDToBinArrayIndex(cfg, binID))
	return int(binID - lower)
}

// BinArrayIndexesCoverage lists, in ascending order, the bin array indexes spanning
// [lowerBinID, upperBinID].
func BinArrayIndexesCoverage(cfg shared.Config, lowerBinID, upperBinID int32) []int64 {
	if upperBinID < lowerBinID {
		return nil
	}
	lower := BinIDToBinArrayIndex(cfg, lowerBinID)
	upper := BinIDToBinArrayIndex(cfg, upperBinID)
	indexes := make([]int64, 0, upper-lower+1)
	for i := lower; i <= upper; i++ {
		indexes = append(indexes, i)
	}
	return indexes
}

// GetBin returns the bin for binID from a bin array snapshot.
func GetBin(cfg shared.Config, binArray shared.BinArray, binID int32) (shared.Bin, error) {
	if !IsBinIDWithinBinArray(cfg, binID, binArray.Index) {
		return shared.Bin{}, shared.NewError(shared.KindMissingBinGroupData, "bin %d is not in bin array %d", binID, binArray.Index)
	}
	i := GetBinIndexInArray(cfg, binID)
	if i >= len(binArray.Bins) {
		return shared.Bin{}, shared.NewError(shared.KindMissingBinGroupData, "bin array %d has %d bins", binArray.Index, len(binArray.Bins))
	}
	return binArray.Bins[i], nil
}

// IndexBinArrays keys bin arrays by index. Later duplicates win.
func IndexBinArrays(binArrays []shared.BinArray) map[int64]shared.BinArray {
	out := make(map[int64]shared.BinArray, len(binArrays))
	for _, ba := range binArrays {
		out[ba.Index] = ba
	}
	return out
}

func IsOverflowDefaultBinArrayBitmap(cfg shared.Config, index int64) bool {
	lower, upper := cfg.InternalBitmapRange()
	return index > upper || index < lower
}

// CheckValidIndex fails when index cannot be tracked by the bitmap and its extension.
func CheckValidIndex(cfg shared.Config, index int64) error {
	lower, upper := cfg.ExtensionBitmapRange()
	if index < lower || index > upper {
		return shared.NewError(shared.KindNumericOverflow, "bin array index %d outside [%d, %d]", index, lower, upper)
	}
	return nil
}
