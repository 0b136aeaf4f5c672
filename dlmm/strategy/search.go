package strategy

import "math/big"

// maxGallop bounds how far a search may widen its bracket. 2^256 is far beyond any amount a
// u64 target can require.
const maxGallop = 256

var one = big.NewInt(1)

// totalFunc returns the realised total for a candidate base or delta. It must be non-decreasing in
// its argument for the searches to return the boundary; otherwise they return some candidate that
// still satisfies the bound.
type totalFunc func(v *big.Int) (*big.Int, error)

// searchDown returns the largest v <= start with total(v) <= target. The bracket is widened
// downward by doubling steps and then bisected, so the number of evaluations is logarithmic in the
// distance from start.
func searchDown(start, target *big.Int, total totalFunc) (*big.Int, error) {
	t, err := total(start)
	if err != nil {
		return nil, err
	}
	if t.Cmp(target) <= 0 {
		return new(big.Int).Set(start), nil
	}

	hi := new(big.Int).Set(start)
	step := big.NewInt(1)
	lo := new(big.Int).Sub(start, step)
	for i := 0; ; i++ {
		t, err := total(lo)
		if err != nil {
			return nil, err
		}
		if t.Cmp(target) <= 0 {
			break
		}
		if i >= maxGallop {
			return lo, nil
		}
		hi.Set(lo)
		step.Lsh(step, 1)
		lo.Sub(start, step)
	}
	return bisect(lo, hi, func(v *big.Int) (bool, error) {
		t, err := total(v)
		if err != nil {
			return false, err
		}
		return t.Cmp(target) <= 0, nil
	})
}

// searchUp returns the smallest v >= start with total(v) >= target.
func searchUp(start, target *big.Int, total totalFunc) (*big.Int, error) {
	t, err := total(start)
	if err != nil {
		return nil, err
	}
	if t.Cmp(target) >= 0 {
		return new(big.Int).Set(start), nil
	}

	lo := new(big.Int).Set(start)
	step := big.NewInt(1)
	hi := new(big.Int).Add(start, step)
	for i := 0; ; i++ {
		t, err := total(hi)
		if err != nil {
			return nil, err
		}
		if t.Cmp(target) >= 0 {
			break
		}
		if i >= maxGallop {
			return hi, nil
		}
		lo.Set(hi)
		step.Lsh(step, 1)
		hi.Add(start, step)
	}
	// bisect keeps the last value where ok holds; ok here is "still below target".
	last, err := bisect(lo, hi, func(v *big.Int) (bool, error) {
		t, err := total(v)
		if err != nil {
			return false, err
		}
		return t.Cmp(target) < 0, nil
	})
	if err != nil {
		return nil, err
	}
	return last.Add(last, one), nil
}

// bisect narrows [lo, hi] where ok(lo) holds and ok(hi) does not, returning the last v with ok(v).
func bisect(lo, hi *big.Int, ok func(v *big.Int) (bool, error)) (*big.Int, error) {
	lo, hi = new(big.Int).Set(lo), new(big.Int).Set(hi)
	gap := new(big.Int)
	mid := new(big.Int)
	for gap.Sub(hi, lo).Cmp(one) > 0 {
		mid.Add(lo, hi)
		mid.Rsh(mid, 1)
		good, err := ok(mid)
		if err != nil {
			return nil, err
		}
		if good {
			lo.Set(mid)
		} else {
			hi.Set(mid)
		}
	}
	return lo, nil
}
