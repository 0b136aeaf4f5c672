package math

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/u128"
)

// GetQPriceBaseFactor returns 1 + binStep/BasisPointMax as a Q64.64 number.
func GetQPriceBaseFactor(cfg shared.Config, binStep uint16) *uint256.Int {
	bps := new(uint256.Int).Lsh(uint256.NewInt(uint64(binStep)), shared.ScaleOffset)
	bps.Div(bps, uint256.NewInt(cfg.BasisPointMax))
	return bps.Add(bps, u256OneQ64)
}

// Pow raises a Q64.64 base to an integer power, truncating at every step the way the program
// does. It returns nil when the result is not representable.
func Pow(base *uint256.Int, exp int64) *uint256.Int {
	invert := exp < 0
	if exp == 0 {
		return new(uint256.Int).Set(u256OneQ64)
	}
	absExp := uint64(exp)
	if invert {
		absExp = uint64(-exp)
	}
	if absExp >= shared.MaxExponential {
		return nil
	}

	squaredBase := new(uint256.Int).Set(base)
	result := new(uint256.Int).Set(u256OneQ64)
	if !squaredBase.Lt(result) {
		if squaredBase.IsZero() {
			return nil
		}
		squaredBase = new(uint256.Int).Div(u256MaxU128, squaredBase)
		invert = !invert
	}

	// 19 bits cover MaxExponential.
	for bit := uint(0); bit <= 18; bit++ {
		if absExp&(1<<bit) != 0 {
			result.Mul(result, squaredBase)
			result.Rsh(result, shared.ScaleOffset)
		}
		squaredBase.Mul(squaredBase, squaredBase)
		squaredBase.Rsh(squaredBase, shared.ScaleOffset)
	}

	if result.IsZero() {
		return nil
	}
	if invert {
		result = new(uint256.Int).Div(u256MaxU128, result)
	}
	if result.Gt(u256MaxU128) {
		return nil
	}
	return result
}

// GetPriceFromIDU256 is GetPriceFromID without the big.Int conversion.
func GetPriceFromIDU256(cfg shared.Config, binID int32, binStep uint16) (*uint256.Int, error) {
	price := Pow(GetQPriceBaseFactor(cfg, binStep), int64(binID))
	if price == nil {
		return nil, shared.NewError(shared.KindNumericOverflow, "price of bin %d with step %d", binID, binStep)
	}
	return price, nil
}

// GetPriceFromID returns the Q64.64 price of binID: (1 + binStep/10000)^binID.
func GetPriceFromID(cfg shared.Config, binID int32, binStep uint16) (*big.Int, error) {
	price, err := GetPriceFromIDU256(cfg, binID, binStep)
	if err != nil {
		return nil, err
	}
	return price.ToBig(), nil
}

// GetBinPrice returns the bin's stored price, or computes it when the bin has none yet.
func GetBinPrice(cfg shared.Config, bin shared.Bin, binID int32, binStep uint16) (*uint256.Int, error) {
	if !u128.IsZero(bin.Price) {
		return u128.ToUint256(bin.Price), nil
	}
	return GetPriceFromIDU256(cfg, binID, binStep)
}

// GetPriceOfBinByBinID returns the real (non fixed-point) price of a bin in lamport units.
func GetPriceOfBinByBinID(cfg shared.Config, binID int32, binStep uint16) (decimal.Decimal, error) {
	price, err := GetPriceFromID(cfg, binID, binStep)
	if err != nil {
		return decimal.Zero, err
	}
	return Q64ToDecimal(price, -1), nil
}

// GetBinIDFromPrice returns the bin id whose price is nearest to price, rounding down when min is
// set and up otherwise.
func GetBinIDFromPrice(cfg shared.Config, price decimal.Decimal, binStep uint16, min bool) (int32, error) {
	if !price.IsPositive() {
		return 0, shared.NewError(shared.KindInvalidDistributionInput, "price must be positive, got %s", price)
	}
	lnPrice, err := price.Ln(32)
	if err != nil {
		return 0, err
	}
	step := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(binStep)).Div(decimal.NewFromInt(int64(cfg.BasisPointMax))))
	lnStep, err := step.Ln(32)
	if err != nil {
		return 0, err
	}
	binID := lnPrice.DivRound(lnStep, 24)
	if min {
		binID = binID.Floor()
	} else {
		binID = binID.Ceil()
	}
	if !binID.IsInteger() || binID.LessThan(decimal.NewFromInt32(cfg.MinBinID)) || binID.GreaterThan(decimal.NewFromInt32(cfg.MaxBinID)) {
		return 0, shared.NewError(shared.KindNumericOverflow, "price %s maps outside the bin id range", price)
	}
	return int32(binID.IntPart()), nil
}

// PricePerLamport converts a token-unit price into a lamport price.
func PricePerLamport(tokenXDecimal, tokenYDecimal int32, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.New(1, tokenYDecimal-tokenXDecimal))
}

// FromPricePerLamport converts a lamport price back into a token-unit price.
func FromPricePerLamport(tokenXDecimal, tokenYDecimal int32, pricePerLamport decimal.Decimal) decimal.Decimal {
	return pricePerLamport.Div(decimal.New(1, tokenYDecimal-tokenXDecimal))
}
