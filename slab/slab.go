// Package slab provides stable-index collections: an insertion hands back an
// Index that keeps addressing the same element until that element is removed.
//
// Two implementations share the Collection contract:
//
//   - FreeList keeps vacant slots in an intrusive singly linked list.
//   - Bitmap tracks occupancy in a separate bitset and supports Compact.
//
// Neither implementation is safe for concurrent use.
package slab

import (
	"errors"
	"iter"
	"math"
)

// Index addresses a slot inside one collection instance.
type Index uint32

// None is the end-of-list sentinel. It is never a valid index.
const None Index = math.MaxUint32

// maxSlots is the largest slot count addressable by Index and by int.
const maxSlots = int(uint(math.MaxInt) & uint(None))

// below reports whether i addresses one of n slots. The comparison stays
// unsigned so large indices never wrap to a negative int.
func (i Index) below(n int) bool {
	return uint(i) < uint(n)
}

var ErrIndexUnavailable = errors.New("index unavailable")
var ErrCapacityExhausted = errors.New("capacity exhausted")
var ErrUnknownKind = errors.New("unknown collection kind")

type Collection[T any] interface {
	// Insert stores value in a free slot and returns its index.
	Insert(value T) (Index, error)
	// InsertAt stores value at a vacant index, growing storage if needed.
	InsertAt(index Index, value T) error
	Get(index Index) (T, bool)
	// Ref returns a pointer into backing storage. The pointer is stale after
	// any insertion that grows storage and after Compact.
	Ref(index Index) (*T, bool)
	Contains(index Index) bool
	// Remove vacates index and returns the value it held. Removing a vacant
	// or out of range index is a no-op.
	Remove(index Index) (T, bool)
	Len() int
	Capacity() int
	Scan() Rows[T]
	Compact()
}

// Rows is a cursor over the live elements of a collection in index order.
type Rows[T any] interface {
	Next() bool
	Read() (Index, T)
	Close()
}

// All adapts the Scan cursor of c to a range-over-func sequence.
func All[T any](c Collection[T]) iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		rows := c.Scan()
		defer rows.Close()
		for rows.Next() {
			if !yield(rows.Read()) {
				return
			}
		}
	}
}

type Kind string

const (
	KindFreeList Kind = "freelist"
	KindBitmap   Kind = "bitmap"
)

var Kinds = []Kind{KindFreeList, KindBitmap}

func New[T any](kind Kind, opts Options) (Collection[T], error) {
	switch kind {
	case KindFreeList:
		return NewFreeListWithOptions[T](opts), nil
	case KindBitmap:
		return NewBitmapWithOptions[T](opts), nil
	}
	return nil, ErrUnknownKind
}
