package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return errors.New("value overflows Uint128")
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	return nil
}

// GenUint128FromString parses a decimal string, panicking on bad input. Meant for constants and
// test fixtures.
func GenUint128FromString(num string) binary.Uint128 {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		panic(err)
	}
	return *u128
}

func ParseUint128(num string) (binary.Uint128, error) {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		return binary.Uint128{}, err
	}
	return *u128, nil
}

func ToBig(v binary.Uint128) *big.Int {
	out := new(big.Int).SetUint64(v.Hi)
	out.Lsh(out, 64)
	return out.Or(out, new(big.Int).SetUint64(v.Lo))
}

// FromBig converts v to a Uint128; ok is false when v is negative or wider than 128 bits.
func FromBig(v *big.Int) (binary.Uint128, bool) {
	if v == nil {
		return binary.Uint128{}, true
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return binary.Uint128{}, false
	}
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return binary.Uint128{Lo: lo, Hi: hi}, true
}

func ToUint256(v binary.Uint128) *uint256.Int {
	return &uint256.Int{v.Lo, v.Hi, 0, 0}
}

func FromUint256(v *uint256.Int) (binary.Uint128, bool) {
	if v[2] != 0 || v[3] != 0 {
		return binary.Uint128{}, false
	}
	return binary.Uint128{Lo: v[0], Hi: v[1]}, true
}

func IsZero(v binary.Uint128) bool {
	return v.Lo == 0 && v.Hi == 0
}

func FromUint64(v uint64) binary.Uint128 {
	return binary.Uint128{Lo: v}
}
