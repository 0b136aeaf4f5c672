package shared

import "fmt"

// Config bundles the protocol constants the off-chain replica must agree on with the program.
// Every operation receives it explicitly; DefaultConfig matches the deployed program.
type Config struct {
	MaxBinPerArray              int32
	BinArrayBitmapSize          int32
	ExtensionBinArrayBitmapSize int32

	BasisPointMax    uint64
	FeePrecision     uint64
	MaxFeeRate       uint64
	MaxProtocolShare uint64
	HostFeeBps       uint64

	MinBinID int32
	MaxBinID int32

	DefaultBinPerPosition int32
	PositionMaxLength     int32
	NumRewards            int

	PositionBinDataSize         uint64
	RentLamportsPerByte         uint64
	BinArrayRentLamports        uint64
	BitmapExtensionRentLamports uint64
}

func DefaultConfig() Config {
	return Config{
		MaxBinPerArray:              70,
		BinArrayBitmapSize:          512,
		ExtensionBinArrayBitmapSize: 12,

		BasisPointMax:    10_000,
		FeePrecision:     1_000_000_000,
		MaxFeeRate:       100_000_000,
		MaxProtocolShare: 2_500,
		HostFeeBps:       2_000,

		MinBinID: -443636,
		MaxBinID: 443636,

		DefaultBinPerPosition: 70,
		PositionMaxLength:     1400,
		NumRewards:            2,

		PositionBinDataSize: 112,
		// 3480 lamports per byte-year, two years for rent exemption.
		RentLamportsPerByte:         6_960,
		BinArrayRentLamports:        71_437_440,
		BitmapExtensionRentLamports: 11_859_840,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MaxBinPerArray <= 0:
		return fmt.Errorf("invalid config: MaxBinPerArray %d", c.MaxBinPerArray)
	case c.BinArrayBitmapSize <= 0 || c.BinArrayBitmapSize%64 != 0:
		return fmt.Errorf("invalid config: BinArrayBitmapSize %d", c.BinArrayBitmapSize)
	case c.ExtensionBinArrayBitmapSize < 0:
		return fmt.Errorf("invalid config: ExtensionBinArrayBitmapSize %d", c.ExtensionBinArrayBitmapSize)
	case c.BasisPointMax == 0:
		return fmt.Errorf("invalid config: BasisPointMax is zero")
	case c.MaxFeeRate >= c.FeePrecision:
		return fmt.Errorf("invalid config: MaxFeeRate %d >= FeePrecision %d", c.MaxFeeRate, c.FeePrecision)
	case c.MinBinID >= c.MaxBinID:
		return fmt.Errorf("invalid config: bin id range [%d, %d]", c.MinBinID, c.MaxBinID)
	case c.DefaultBinPerPosition <= 0:
		return fmt.Errorf("invalid config: DefaultBinPerPosition %d", c.DefaultBinPerPosition)
	}
	return nil
}

// InternalBitmapRange is the range of bin array indexes tracked by the pair's inline bitmap.
func (c Config) InternalBitmapRange() (int64, int64) {
	size := int64(c.BinArrayBitmapSize)
	return -size, size - 1
}

// ExtensionBitmapRange is the full range of bin array indexes reachable through the extension.
func (c Config) ExtensionBitmapRange() (int64, int64) {
	size := int64(c.BinArrayBitmapSize) * (int64(c.ExtensionBinArrayBitmapSize) + 1)
	return -size, size - 1
}
