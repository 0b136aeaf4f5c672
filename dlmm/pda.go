package dlmm

import (
	"bytes"
	"encoding/binary"

	solanago "github.com/gagliardetto/solana-go"
)

var (
	binArraySeed       = []byte("bin_array")
	bitmapSeed         = []byte("bitmap")
	positionSeed       = []byte("position")
	oracleSeed         = []byte("oracle")
	eventAuthoritySeed = []byte("__event_authority")
)

// sortMints returns the two mints with the lexicographically smaller key first.
func sortMints(mint1, mint2 solanago.PublicKey) ([]byte, []byte) {
	buf1, buf2 := mint1.Bytes(), mint2.Bytes()
	if bytes.Compare(buf1, buf2) == 1 {
		return buf2, buf1
	}
	return buf1, buf2
}

func u16LE(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func i32LE(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func i64LE(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

// DeriveBinArray derives the address of the bin array at index.
func DeriveBinArray(lbPair solanago.PublicKey, index int64, programID solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{binArraySeed, lbPair.Bytes(), i64LE(index)}, programID)
	return pub, err
}

func DeriveBinArrayBitmapExtension(lbPair solanago.PublicKey, programID solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{bitmapSeed, lbPair.Bytes()}, programID)
	return pub, err
}

// DeriveLbPair derives a permissionless pair address. The mints may be given in either order.
func DeriveLbPair(tokenXMint, tokenYMint solanago.PublicKey, binStep, baseFactor uint16, programID solanago.PublicKey) (solanago.PublicKey, error) {
	first, second := sortMints(tokenXMint, tokenYMint)
	pub, _, err := solanago.FindProgramAddress([][]byte{first, second, u16LE(binStep), u16LE(baseFactor)}, programID)
	return pub, err
}

// DerivePosition derives the address of a position opened from base over
// [lowerBinID, lowerBinID+width-1].
func DerivePosition(lbPair, base solanago.PublicKey, lowerBinID, width int32, programID solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{
		positionSeed,
		lbPair.Bytes(),
		base.Bytes(),
		i32LE(lowerBinID),
		i32LE(width),
	}, programID)
	return pub, err
}

func DeriveOracle(lbPair solanago.PublicKey, programID solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{oracleSeed, lbPair.Bytes()}, programID)
	return pub, err
}

func DeriveReserve(lbPair, mint solanago.PublicKey, programID solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{lbPair.Bytes(), mint.Bytes()}, programID)
	return pub, err
}

func DeriveEventAuthority(programID solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{eventAuthoritySeed}, programID)
	return pub, err
}
