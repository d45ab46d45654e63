package slab

// Bitmap is a slot array paired with an occupancy bitset. Free slots are found
// by scanning the bitset from a hint that never passes the lowest free slot.
type Bitmap[T any] struct {
	values []T
	used   bitset
	hint   int
	live   int
	opts   Options
}

func NewBitmap[T any](capacity int) *Bitmap[T] {
	return NewBitmapWithOptions[T](Options{Capacity: capacity})
}

func NewBitmapWithOptions[T any](opts Options) *Bitmap[T] {
	opts = opts.normalize()
	return &Bitmap[T]{
		values: make([]T, 0, opts.Capacity),
		used:   newBitset(opts.Capacity),
		opts:   opts,
	}
}

func (b *Bitmap[T]) Insert(value T) (Index, error) {
	from := b.hint
	if b.opts.DisableHint {
		from = 0
	}

	i := b.used.nextClear(from)
	if i == len(b.values) {
		if err := b.extend(i + 1); err != nil {
			return None, err
		}
	}

	b.values[i] = value
	b.used.set(i)
	b.hint = i + 1
	b.live++
	return Index(i), nil
}

// InsertAt occupies a clear index. Indices past the end extend the storage,
// padding the gap with clear slots.
func (b *Bitmap[T]) InsertAt(index Index, value T) error {
	if index == None || !index.below(b.opts.MaxCapacity) {
		return ErrIndexUnavailable
	}

	i := int(index)
	if i < len(b.values) {
		if b.used.test(i) {
			return ErrIndexUnavailable
		}
	} else if err := b.extend(i + 1); err != nil {
		return ErrIndexUnavailable
	}

	b.values[i] = value
	b.used.set(i)
	if i == b.hint {
		b.hint++
	}
	b.live++
	return nil
}

func (b *Bitmap[T]) extend(n int) error {
	old := len(b.values)
	values, err := grow(b.values, n, &b.opts)
	if err != nil {
		return err
	}
	clear(values[old:])
	b.values = values
	b.used.resize(n)
	return nil
}

func (b *Bitmap[T]) Get(index Index) (T, bool) {
	if !b.Contains(index) {
		var zero T
		return zero, false
	}
	return b.values[index], true
}

func (b *Bitmap[T]) Ref(index Index) (*T, bool) {
	if !b.Contains(index) {
		return nil, false
	}
	return &b.values[index], true
}

func (b *Bitmap[T]) Contains(index Index) bool {
	return index.below(len(b.values)) && b.used.test(int(index))
}

func (b *Bitmap[T]) Remove(index Index) (T, bool) {
	var zero T
	if !b.Contains(index) {
		return zero, false
	}

	i := int(index)
	value := b.values[i]
	b.values[i] = zero
	b.used.unset(i)
	b.live--
	if i < b.hint {
		b.hint = i
	}
	return value, true
}

func (b *Bitmap[T]) Len() int {
	return b.live
}

func (b *Bitmap[T]) Capacity() int {
	return len(b.values)
}

// Compact moves every live value into the dense prefix [0, Len()), keeping
// their relative order, and shrinks storage to exactly Len() slots.
//
// Every index issued before Compact is invalid afterwards.
func (b *Bitmap[T]) Compact() {
	dst := 0
	for src := b.used.nextSet(0); src < len(b.values); src = b.used.nextSet(src + 1) {
		if src != dst {
			b.values[dst] = b.values[src]
		}
		dst++
	}

	values := make([]T, b.live)
	copy(values, b.values[:b.live])
	b.values = values
	b.used.fill(b.live)
	b.hint = b.live
}

func (b *Bitmap[T]) Scan() Rows[T] {
	return &bitmapRows[T]{
		b:    b,
		next: 0,
	}
}

type bitmapRows[T any] struct {
	b       *Bitmap[T]
	next    int
	index   Index
	current T
}

func (r *bitmapRows[T]) Next() bool {
	i := r.b.used.nextSet(r.next)
	if i >= len(r.b.values) {
		r.next = len(r.b.values)
		return false
	}
	r.index = Index(i)
	r.current = r.b.values[i]
	r.next = i + 1
	return true
}

func (r *bitmapRows[T]) Read() (Index, T) {
	return r.index, r.current
}

func (r *bitmapRows[T]) Close() {
	var zero T
	r.current = zero
	r.next = len(r.b.values)
}
