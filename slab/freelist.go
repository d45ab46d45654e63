package slab

type slotState uint8

const (
	slotVacant slotState = iota
	slotOccupied
)

// slot is Occupied(value) or Vacant(next). next links vacant slots into the
// free list and is None at the end of the chain.
type slot[T any] struct {
	state slotState
	next  Index
	value T
}

// FreeList is a slot array whose vacant slots form a LIFO linked list
// threaded through the slots themselves.
type FreeList[T any] struct {
	slots []slot[T]
	head  Index
	live  int
	opts  Options
}

func NewFreeList[T any](capacity int) *FreeList[T] {
	return NewFreeListWithOptions[T](Options{Capacity: capacity})
}

func NewFreeListWithOptions[T any](opts Options) *FreeList[T] {
	opts = opts.normalize()
	return &FreeList[T]{
		slots: make([]slot[T], 0, opts.Capacity),
		head:  None,
		opts:  opts,
	}
}

func (f *FreeList[T]) Insert(value T) (Index, error) {
	if f.head != None {
		i := f.head
		s := &f.slots[i]
		f.head = s.next
		*s = slot[T]{state: slotOccupied, next: None, value: value}
		f.live++
		return i, nil
	}

	n := len(f.slots)
	slots, err := grow(f.slots, n+1, &f.opts)
	if err != nil {
		return None, err
	}
	f.slots = slots
	f.slots[n] = slot[T]{state: slotOccupied, next: None, value: value}
	f.live++
	return Index(n), nil
}

// InsertAt occupies a vacant index. Indices past the end extend the storage;
// the slots in between are pushed onto the free list.
func (f *FreeList[T]) InsertAt(index Index, value T) error {
	if index == None || !index.below(f.opts.MaxCapacity) {
		return ErrIndexUnavailable
	}

	n := len(f.slots)
	if index.below(n) {
		if f.slots[index].state == slotOccupied {
			return ErrIndexUnavailable
		}
		f.unlink(index)
		f.slots[index] = slot[T]{state: slotOccupied, next: None, value: value}
		f.live++
		return nil
	}

	slots, err := grow(f.slots, int(index)+1, &f.opts)
	if err != nil {
		return ErrIndexUnavailable
	}
	f.slots = slots
	for j := n; j < int(index); j++ {
		f.slots[j] = slot[T]{state: slotVacant, next: f.head}
		f.head = Index(j)
	}
	f.slots[index] = slot[T]{state: slotOccupied, next: None, value: value}
	f.live++
	return nil
}

// unlink removes a vacant index from the chain. The list is singly linked so
// this walks from the head.
func (f *FreeList[T]) unlink(index Index) {
	if f.head == index {
		f.head = f.slots[index].next
		return
	}
	for prev := f.head; prev != None; prev = f.slots[prev].next {
		if f.slots[prev].next == index {
			f.slots[prev].next = f.slots[index].next
			return
		}
	}
}

func (f *FreeList[T]) Get(index Index) (T, bool) {
	if !index.below(len(f.slots)) || f.slots[index].state != slotOccupied {
		var zero T
		return zero, false
	}
	return f.slots[index].value, true
}

func (f *FreeList[T]) Ref(index Index) (*T, bool) {
	if !index.below(len(f.slots)) || f.slots[index].state != slotOccupied {
		return nil, false
	}
	return &f.slots[index].value, true
}

func (f *FreeList[T]) Contains(index Index) bool {
	return index.below(len(f.slots)) && f.slots[index].state == slotOccupied
}

func (f *FreeList[T]) Remove(index Index) (T, bool) {
	if !index.below(len(f.slots)) || f.slots[index].state != slotOccupied {
		var zero T
		return zero, false
	}

	value := f.slots[index].value
	f.slots[index] = slot[T]{state: slotVacant, next: f.head}
	f.head = index
	f.live--
	return value, true
}

func (f *FreeList[T]) Len() int {
	return f.live
}

func (f *FreeList[T]) Capacity() int {
	return len(f.slots)
}

// Compact drops trailing vacant slots, releases unused backing storage and
// relinks the free list in ascending order. Live indices keep their values.
func (f *FreeList[T]) Compact() {
	n := len(f.slots)
	for n > 0 && f.slots[n-1].state != slotOccupied {
		n--
	}

	slots := make([]slot[T], n)
	copy(slots, f.slots[:n])
	f.slots = slots

	f.head = None
	for i := n - 1; i >= 0; i-- {
		if f.slots[i].state != slotOccupied {
			f.slots[i].next = f.head
			f.head = Index(i)
		}
	}
}

func (f *FreeList[T]) Scan() Rows[T] {
	return &freeListRows[T]{
		f:     f,
		index: -1,
	}
}

type freeListRows[T any] struct {
	f       *FreeList[T]
	index   int
	current T
}

func (r *freeListRows[T]) Next() bool {
	for {
		r.index++
		if r.index >= len(r.f.slots) {
			return false
		}
		if r.f.slots[r.index].state == slotOccupied {
			r.current = r.f.slots[r.index].value
			return true
		}
	}
}

func (r *freeListRows[T]) Read() (Index, T) {
	return Index(r.index), r.current
}

func (r *freeListRows[T]) Close() {
	var zero T
	r.current = zero
	r.index = len(r.f.slots)
}
