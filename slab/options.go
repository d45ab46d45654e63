package slab

// Options tunes storage growth. The zero value is usable.
type Options struct {
	// Capacity is the number of slots reserved up front.
	Capacity int
	// GrowthFactor multiplies the reserved size when storage is full.
	// Defaults to 2.
	GrowthFactor int
	// MaxCapacity is the largest number of slots the collection will hold.
	// Defaults to the size of the index space.
	MaxCapacity int
	// DisableHint makes Bitmap scan for a free slot from index 0 every time.
	DisableHint bool
}

const minGrowth = 4

func (o Options) normalize() Options {
	if o.GrowthFactor < 2 {
		o.GrowthFactor = 2
	}
	if o.MaxCapacity <= 0 || o.MaxCapacity > maxSlots {
		o.MaxCapacity = maxSlots
	}
	if o.Capacity < 0 {
		o.Capacity = 0
	}
	if o.Capacity > o.MaxCapacity {
		o.Capacity = o.MaxCapacity
	}
	return o
}

// grow returns s resized to n elements. The backing array is reallocated only
// when n exceeds cap(s); the new elements hold whatever the caller wrote there
// last, so callers must initialize them.
func grow[S ~[]E, E any](s S, n int, o *Options) (S, error) {
	if n > o.MaxCapacity {
		return s, ErrCapacityExhausted
	}
	if n <= cap(s) {
		return s[:n], nil
	}

	c := cap(s) * o.GrowthFactor
	if c/o.GrowthFactor != cap(s) {
		c = o.MaxCapacity // overflow
	}
	if c < cap(s)+minGrowth {
		c = cap(s) + minGrowth
	}
	if c < n {
		c = n
	}
	if c > o.MaxCapacity {
		c = o.MaxCapacity
	}

	grown := make(S, n, c)
	copy(grown, s)
	return grown, nil
}
