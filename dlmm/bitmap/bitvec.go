package bitmap

import "math/bits"

// Bitmap is a fixed-width bit vector stored as little-endian 64-bit limbs: bit i lives in
// limb i/64 at position i%64. Shifts crop to the width.
type Bitmap struct {
	words []uint64
	bits  int
}

func New(width int) Bitmap {
	return Bitmap{words: make([]uint64, (width+63)/64), bits: width}
}

// FromWords copies words into a bitmap of the given width. Missing limbs read as zero.
func FromWords(width int, words []uint64) Bitmap {
	b := New(width)
	copy(b.words, words)
	b.crop()
	return b
}

func (b Bitmap) Len() int {
	return b.bits
}

func (b Bitmap) Words() []uint64 {
	out := make([]uint64, len(b.words))
	copy(out, b.words)
	return out
}

func (b Bitmap) Test(i int) bool {
	if i < 0 || i >= b.bits {
		return false
	}
	return b.words[i/64]&(1<<(uint(i)%64)) != 0
}

func (b Bitmap) Set(i int, v bool) {
	if i < 0 || i >= b.bits {
		return
	}
	if v {
		b.words[i/64] |= 1 << (uint(i) % 64)
	} else {
		b.words[i/64] &^= 1 << (uint(i) % 64)
	}
}

func (b Bitmap) IsZero() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Lsh shifts toward the most significant bit, dropping bits past the width.
func (b Bitmap) Lsh(n int) Bitmap {
	out := New(b.bits)
	if n >= b.bits {
		return out
	}
	limbs, shift := n/64, uint(n%64)
	for i := len(b.words) - 1; i >= limbs; i-- {
		w := b.words[i-limbs] << shift
		if shift != 0 && i-limbs-1 >= 0 {
			w |= b.words[i-limbs-1] >> (64 - shift)
		}
		out.words[i] = w
	}
	out.crop()
	return out
}

// Rsh shifts toward the least significant bit.
func (b Bitmap) Rsh(n int) Bitmap {
	out := New(b.bits)
	if n >= b.bits {
		return out
	}
	limbs, shift := n/64, uint(n%64)
	for i := 0; i+limbs < len(b.words); i++ {
		w := b.words[i+limbs] >> shift
		if shift != 0 && i+limbs+1 < len(b.words) {
			w |= b.words[i+limbs+1] << (64 - shift)
		}
		out.words[i] = w
	}
	return out
}

// LeadingZeros counts zero bits from the top of the width. A zero bitmap returns Len.
func (b Bitmap) LeadingZeros() int {
	top := len(b.words)*64 - b.bits
	for i := len(b.words) - 1; i >= 0; i-- {
		if b.words[i] != 0 {
			return (len(b.words)-1-i)*64 + bits.LeadingZeros64(b.words[i]) - top
		}
	}
	return b.bits
}

// TrailingZeros counts zero bits from bit 0. A zero bitmap returns Len.
func (b Bitmap) TrailingZeros() int {
	for i, w := range b.words {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}
	return b.bits
}

func (b Bitmap) crop() {
	if rem := uint(b.bits % 64); rem != 0 && len(b.words) > 0 {
		b.words[len(b.words)-1] &= (1 << rem) - 1
	}
}
