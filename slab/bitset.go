package slab

import "math/bits"

const wordBits = 64

// bitset is a growable occupancy bitmap, one bit per slot.
type bitset struct {
	words []uint64
	n     int
}

func newBitset(capacity int) bitset {
	return bitset{words: make([]uint64, 0, wordsFor(capacity))}
}

func wordsFor(n int) int {
	return (n + wordBits - 1) / wordBits
}

// resize sets the logical length to n. Bits past the old length read clear.
func (b *bitset) resize(n int) {
	w := wordsFor(n)
	if w > cap(b.words) {
		c := 2 * cap(b.words)
		if c < w {
			c = w
		}
		words := make([]uint64, w, c)
		copy(words, b.words)
		b.words = words
	} else {
		old := len(b.words)
		b.words = b.words[:w]
		clear(b.words[min(old, w):])
	}
	if n < b.n && w > 0 {
		// drop bits past the new length in the last word
		if r := n % wordBits; r != 0 {
			b.words[w-1] &= (1 << r) - 1
		}
	}
	b.n = n
}

func (b *bitset) len() int {
	return b.n
}

func (b *bitset) test(i int) bool {
	return b.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

func (b *bitset) set(i int) {
	b.words[i/wordBits] |= 1 << (i % wordBits)
}

func (b *bitset) unset(i int) {
	b.words[i/wordBits] &^= 1 << (i % wordBits)
}

// fill sets bits [0, n) and resizes to n.
func (b *bitset) fill(n int) {
	words := make([]uint64, wordsFor(n))
	for i := range words {
		words[i] = ^uint64(0)
	}
	if r := n % wordBits; r != 0 {
		words[len(words)-1] = (1 << r) - 1
	}
	b.words = words
	b.n = n
}

// nextClear returns the first clear bit at or after from, or len() when none.
func (b *bitset) nextClear(from int) int {
	if from >= b.n {
		return b.n
	}
	w := from / wordBits
	word := ^b.words[w] &^ ((1 << (from % wordBits)) - 1)
	for {
		if word != 0 {
			i := w*wordBits + bits.TrailingZeros64(word)
			if i >= b.n {
				return b.n
			}
			return i
		}
		w++
		if w >= len(b.words) {
			return b.n
		}
		word = ^b.words[w]
	}
}

// nextSet returns the first set bit at or after from, or len() when none.
func (b *bitset) nextSet(from int) int {
	if from >= b.n {
		return b.n
	}
	w := from / wordBits
	word := b.words[w] &^ ((1 << (from % wordBits)) - 1)
	for {
		if word != 0 {
			return w*wordBits + bits.TrailingZeros64(word)
		}
		w++
		if w >= len(b.words) {
			return b.n
		}
		word = b.words[w]
	}
}

func (b *bitset) count() int {
	n := 0
	for _, word := range b.words {
		n += bits.OnesCount64(word)
	}
	return n
}
