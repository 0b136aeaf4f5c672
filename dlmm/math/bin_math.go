package math

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/dlmm-go/dlmm/shared"
	"github.com/krazyTry/dlmm-go/u128"
)

// GetLiquidity values x and y in y units scaled by 2^64: price*x + (y << 64).
func GetLiquidity(x, y uint64, price *uint256.Int) (*uint256.Int, error) {
	px := new(uint256.Int).Mul(price, uint256.NewInt(x))
	liquidity := new(uint256.Int).Lsh(uint256.NewInt(y), shared.ScaleOffset)
	liquidity, overflow := liquidity.AddOverflow(liquidity, px)
	if overflow || liquidity.Gt(u256MaxU128) {
		return nil, shared.NewError(shared.KindNumericOverflow, "liquidity exceeds 128 bits")
	}
	return liquidity, nil
}

// GetLiquidityShare returns the share minted for inLiquidity added to a bin holding binLiquidity.
func GetLiquidityShare(inLiquidity, binLiquidity, liquiditySupply *uint256.Int) (*uint256.Int, error) {
	if liquiditySupply.IsZero() || binLiquidity.IsZero() {
		return new(uint256.Int).Set(inLiquidity), nil
	}
	return MulDivU128(inLiquidity, liquiditySupply, binLiquidity, shared.RoundingDown)
}

// GetOutAmount returns share*amount/supply rounded down, 0 for an empty supply.
func GetOutAmount(liquidityShare *uint256.Int, amount uint64, liquiditySupply *uint256.Int) (uint64, error) {
	if liquiditySupply.IsZero() {
		return 0, nil
	}
	out, err := MulDivU128(liquidityShare, uint256.NewInt(amount), liquiditySupply, shared.RoundingDown)
	if err != nil {
		return 0, err
	}
	return ToUint64(out)
}

// CalculateOutAmount returns the x and y amounts redeemable for liquidityShare of bin.
func CalculateOutAmount(bin shared.Bin, liquidityShare *uint256.Int) (uint64, uint64, error) {
	supply := u128.ToUint256(bin.LiquiditySupply)
	outX, err := GetOutAmount(liquidityShare, bin.AmountX, supply)
	if err != nil {
		return 0, 0, err
	}
	outY, err := GetOutAmount(liquidityShare, bin.AmountY, supply)
	if err != nil {
		return 0, 0, err
	}
	return outX, outY, nil
}

// GetAmountOut converts an input amount at price into the opposite token, rounding down.
func GetAmountOut(amountIn uint64, price *uint256.Int, swapForY bool) (uint64, error) {
	var (
		out *uint256.Int
		err error
	)
	if swapForY {
		out, err = MulShr(price, uint256.NewInt(amountIn), shared.ScaleOffset, shared.RoundingDown)
	} else {
		out, err = ShlDiv(uint256.NewInt(amountIn), price, shared.ScaleOffset, shared.RoundingDown)
	}
	if err != nil {
		return 0, err
	}
	return ToUint64(out)
}

// GetAmountIn is the fee-less input that buys amountOut at price, rounding up.
func GetAmountIn(amountOut uint64, price *uint256.Int, swapForY bool) (uint64, error) {
	var (
		in  *uint256.Int
		err error
	)
	if swapForY {
		in, err = ShlDiv(uint256.NewInt(amountOut), price, shared.ScaleOffset, shared.RoundingUp)
	} else {
		in, err = MulShr(uint256.NewInt(amountOut), price, shared.ScaleOffset, shared.RoundingUp)
	}
	if err != nil {
		return 0, err
	}
	return ToUint64(in)
}

// GetMaxAmountIn is the fee-less input needed to drain the bin's output side, rounding up.
func GetMaxAmountIn(bin shared.Bin, price *uint256.Int, swapForY bool) (uint64, error) {
	return GetAmountIn(GetMaxAmountOut(bin, swapForY), price, swapForY)
}

func GetMaxAmountOut(bin shared.Bin, swapForY bool) uint64 {
	if swapForY {
		return bin.AmountY
	}
	return bin.AmountX
}

// GetOutAmountAfterDeposit is what liquidityShare would redeem right after depositing
// amountX/amountY into bin.
func GetOutAmountAfterDeposit(bin shared.Bin, liquidityShare *uint256.Int, amountX, amountY uint64) (uint64, uint64, error) {
	supply := new(uint256.Int).Add(u128.ToUint256(bin.LiquiditySupply), liquidityShare)
	binX, err := SafeAddU64(bin.AmountX, amountX)
	if err != nil {
		return 0, 0, err
	}
	binY, err := SafeAddU64(bin.AmountY, amountY)
	if err != nil {
		return 0, 0, err
	}
	outX, err := GetOutAmount(liquidityShare, binX, supply)
	if err != nil {
		return 0, 0, err
	}
	outY, err := GetOutAmount(liquidityShare, binY, supply)
	if err != nil {
		return 0, 0, err
	}
	return outX, outY, nil
}

// PendingEarning returns ((share >> 64) * (stored - complete)) >> 64, the amount earned on a
// per-token accumulator since the last checkpoint.
func PendingEarning(liquidityShare *uint256.Int, stored, complete *uint256.Int) (uint64, error) {
	if stored.Lt(complete) {
		return 0, nil
	}
	delta := new(uint256.Int).Sub(stored, complete)
	share := new(uint256.Int).Rsh(liquidityShare, shared.ScaleOffset)
	out, err := MulShr(share, delta, shared.ScaleOffset, shared.RoundingDown)
	if err != nil {
		return 0, err
	}
	return ToUint64(out)
}

// ClaimableFee returns the x and y swap fees owed to a position's share in bin.
func ClaimableFee(bin shared.Bin, liquidityShare *uint256.Int, info shared.FeeInfo) (uint64, uint64, error) {
	newX, err := PendingEarning(liquidityShare, u128.ToUint256(bin.FeeAmountXPerTokenStored), u128.ToUint256(info.FeeXPerTokenComplete))
	if err != nil {
		return 0, 0, err
	}
	newY, err := PendingEarning(liquidityShare, u128.ToUint256(bin.FeeAmountYPerTokenStored), u128.ToUint256(info.FeeYPerTokenComplete))
	if err != nil {
		return 0, 0, err
	}
	if newX, err = SafeAddU64(newX, info.FeeXPending); err != nil {
		return 0, 0, err
	}
	if newY, err = SafeAddU64(newY, info.FeeYPending); err != nil {
		return 0, 0, err
	}
	return newX, newY, nil
}

// ClaimableReward returns the farming rewards owed to a position's share in bin.
func ClaimableReward(bin shared.Bin, liquidityShare *uint256.Int, info shared.UserRewardInfo) ([2]uint64, error) {
	var out [2]uint64
	for i := range out {
		pending, err := PendingEarning(liquidityShare, u128.ToUint256(bin.RewardPerTokenStored[i]), u128.ToUint256(info.RewardPerTokenCompletes[i]))
		if err != nil {
			return out, err
		}
		if out[i], err = SafeAddU64(pending, info.RewardPendings[i]); err != nil {
			return out, err
		}
	}
	return out, nil
}
