package math

import (
	"math/big"
	"math/bits"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
)

var (
	u256One     = uint256.NewInt(1)
	u256OneQ64  = new(uint256.Int).Lsh(uint256.NewInt(1), shared.ScaleOffset)
	u256MaxU128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
	u256MaxU64  = uint256.NewInt(^uint64(0))
)

// MulDivU128 computes x*y/denominator with a 256-bit intermediate. The result must fit 128 bits.
func MulDivU128(x, y, denominator *uint256.Int, rounding shared.Rounding) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, shared.NewError(shared.KindNumericOverflow, "division by zero")
	}
	result, overflow := new(uint256.Int).MulDivOverflow(x, y, denominator)
	if overflow {
		return nil, shared.NewError(shared.KindNumericOverflow, "mul div overflow")
	}
	if rounding == shared.RoundingUp {
		if rem := new(uint256.Int).MulMod(x, y, denominator); !rem.IsZero() {
			result.Add(result, u256One)
		}
	}
	if result.Gt(u256MaxU128) {
		return nil, shared.NewError(shared.KindNumericOverflow, "mul div result exceeds 128 bits")
	}
	return result, nil
}

// MulShr computes (x*y) >> offset.
func MulShr(x, y *uint256.Int, offset uint, rounding shared.Rounding) (*uint256.Int, error) {
	return MulDivU128(x, y, new(uint256.Int).Lsh(u256One, offset), rounding)
}

// ShlDiv computes (x << offset) / y.
func ShlDiv(x, y *uint256.Int, offset uint, rounding shared.Rounding) (*uint256.Int, error) {
	return MulDivU128(x, new(uint256.Int).Lsh(u256One, offset), y, rounding)
}

func ToUint64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, shared.NewError(shared.KindNumericOverflow, "%s does not fit u64", v.ToBig().String())
	}
	return v.Uint64(), nil
}

func BigToUint64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, shared.NewError(shared.KindNumericOverflow, "%s does not fit u64", v.String())
	}
	return v.Uint64(), nil
}

// SafeMulDivU64 computes x*y/denominator rounding down, failing when the result exceeds u64.
func SafeMulDivU64(x, y, denominator uint64, rounding shared.Rounding) (uint64, error) {
	v, err := MulDivU128(uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(denominator), rounding)
	if err != nil {
		return 0, err
	}
	return ToUint64(v)
}

// SafeAddU64 adds two token amounts, failing instead of wrapping.
func SafeAddU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, shared.NewError(shared.KindNumericOverflow, "%d + %d overflows u64", a, b)
	}
	return sum, nil
}

func Q64ToDecimal(num *big.Int, decimalPlaces int32) decimal.Decimal {
	if num == nil {
		return decimal.Zero
	}
	out := decimal.NewFromBigInt(num, 0).Div(decimal.NewFromBigInt(shared.OneQ64, 0))
	if decimalPlaces >= 0 {
		return out.Round(decimalPlaces)
	}
	return out
}

func DecimalFromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
