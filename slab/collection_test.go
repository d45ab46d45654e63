package slab

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/fulldump/biff"
)

func newCollection(t testing.TB, kind Kind, opts Options) Collection[string] {
	c, err := New[string](kind, opts)
	if err != nil {
		t.Fatalf("new %s: %v", kind, err)
	}
	return c
}

func TestCollectionContract(t *testing.T) {
	for _, kind := range Kinds {
		biff.Alternative(string(kind), func(a *biff.A) {

			c := newCollection(t, kind, Options{})

			a.Alternative("Insert A,B,C", func(a *biff.A) {
				ia, _ := c.Insert("A")
				ib, _ := c.Insert("B")
				ic, _ := c.Insert("C")
				biff.AssertEqual([]Index{ia, ib, ic}, []Index{0, 1, 2})
				biff.AssertEqual(c.Len(), 3)

				a.Alternative("Remove 1", func(a *biff.A) {
					v, ok := c.Remove(1)
					biff.AssertTrue(ok)
					biff.AssertEqual(v, "B")
					biff.AssertEqual(c.Len(), 2)

					_, ok = c.Get(1)
					biff.AssertFalse(ok)

					a.Alternative("Insert D reuses the slot", func(a *biff.A) {
						id, err := c.Insert("D")
						biff.AssertNil(err)
						biff.AssertEqual(id, Index(1))
						v, ok := c.Get(1)
						biff.AssertTrue(ok)
						biff.AssertEqual(v, "D")
						biff.AssertEqual(c.Capacity(), 3)
					})

					a.Alternative("Remove twice", func(a *biff.A) {
						v, ok := c.Remove(1)
						biff.AssertFalse(ok)
						biff.AssertEqual(v, "")
						biff.AssertEqual(c.Len(), 2)
					})

					a.Alternative("InsertAt vacant", func(a *biff.A) {
						err := c.InsertAt(1, "E")
						biff.AssertNil(err)
						v, _ := c.Get(1)
						biff.AssertEqual(v, "E")
						biff.AssertEqual(c.Len(), 3)
					})
				})

				a.Alternative("InsertAt occupied", func(a *biff.A) {
					err := c.InsertAt(2, "X")
					biff.AssertTrue(errors.Is(err, ErrIndexUnavailable))
					v, _ := c.Get(2)
					biff.AssertEqual(v, "C")
					biff.AssertEqual(c.Len(), 3)
				})

				a.Alternative("InsertAt past the end", func(a *biff.A) {
					err := c.InsertAt(6, "G")
					biff.AssertNil(err)
					biff.AssertEqual(c.Capacity(), 7)
					biff.AssertEqual(c.Len(), 4)
					for i := Index(3); i < 6; i++ {
						biff.AssertFalse(c.Contains(i))
					}

					// the padding is reusable
					seen := map[Index]bool{}
					for _, v := range []string{"p", "q", "r"} {
						i, _ := c.Insert(v)
						seen[i] = true
					}
					biff.AssertEqual(seen, map[Index]bool{3: true, 4: true, 5: true})
					biff.AssertEqual(c.Capacity(), 7)
				})

				a.Alternative("Out of range", func(a *biff.A) {
					_, ok := c.Get(99)
					biff.AssertFalse(ok)
					_, ok = c.Remove(99)
					biff.AssertFalse(ok)
					_, ok = c.Ref(None)
					biff.AssertFalse(ok)
					biff.AssertTrue(errors.Is(c.InsertAt(None, "Z"), ErrIndexUnavailable))
				})

				a.Alternative("Scan", func(a *biff.A) {
					c.Remove(0)
					got := []string{}
					for i, v := range All(c) {
						got = append(got, string(rune('0'+i))+v)
					}
					biff.AssertEqual(got, []string{"1B", "2C"})

					// restartable
					rows := c.Scan()
					n := 0
					for rows.Next() {
						n++
					}
					rows.Close()
					biff.AssertEqual(n, 2)
				})
			})

			a.Alternative("Empty", func(a *biff.A) {
				biff.AssertEqual(c.Len(), 0)
				biff.AssertEqual(c.Capacity(), 0)
				rows := c.Scan()
				biff.AssertFalse(rows.Next())
				c.Compact()
				biff.AssertEqual(c.Capacity(), 0)
			})
		})
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New[int]("linkedhash", Options{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

// TestIndexStability runs a long random insert/remove sequence without
// Compact and checks every live index still resolves to its value.
func TestIndexStability(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			c, _ := New[int](kind, Options{Capacity: 8})
			model := map[Index]int{}
			r := rand.New(rand.NewSource(1))

			for step := 0; step < 20_000; step++ {
				if len(model) == 0 || r.Intn(100) < 55 {
					i, err := c.Insert(step)
					if err != nil {
						t.Fatalf("insert: %v", err)
					}
					if _, exists := model[i]; exists {
						t.Fatalf("step %d: index %d issued while still live", step, i)
					}
					model[i] = step
					continue
				}

				// remove an arbitrary live index
				var victim Index
				k := r.Intn(len(model))
				for i := range model {
					if k == 0 {
						victim = i
						break
					}
					k--
				}
				v, ok := c.Remove(victim)
				if !ok || v != model[victim] {
					t.Fatalf("step %d: remove %d got (%d,%v) want %d", step, victim, v, ok, model[victim])
				}
				delete(model, victim)
			}

			if c.Len() != len(model) {
				t.Fatalf("len=%d want %d", c.Len(), len(model))
			}
			for i, want := range model {
				if got, ok := c.Get(i); !ok || got != want {
					t.Fatalf("index %d: got (%d,%v) want %d", i, got, ok, want)
				}
			}
			n := 0
			for i, v := range All(c) {
				if model[i] != v {
					t.Fatalf("scan index %d: got %d want %d", i, v, model[i])
				}
				n++
			}
			if n != len(model) {
				t.Fatalf("scan visited %d want %d", n, len(model))
			}
		})
	}
}

// A pointer returned by Ref points into backing storage; once an insertion
// reallocates that storage the pointer no longer aliases the collection.
func TestRefInvalidatedByGrowth(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			c, _ := New[int](kind, Options{Capacity: 2})
			c.Insert(10)
			c.Insert(20)

			ref, ok := c.Ref(0)
			if !ok || *ref != 10 {
				t.Fatalf("expected ref to 10")
			}

			// writes through a fresh ref are visible
			*ref = 11
			if v, _ := c.Get(0); v != 11 {
				t.Fatalf("expected write through ref, got %d", v)
			}

			// storage is full: this insertion reallocates
			c.Insert(30)

			*ref = 99
			if v, _ := c.Get(0); v != 11 {
				t.Fatalf("stale ref must not alias storage after growth, got %d", v)
			}

			ref, _ = c.Ref(0)
			*ref = 12
			if v, _ := c.Get(0); v != 12 {
				t.Fatalf("expected write through new ref, got %d", v)
			}
		})
	}
}

func TestCapacityExhausted(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			c, _ := New[int](kind, Options{MaxCapacity: 3})
			for i := 0; i < 3; i++ {
				if _, err := c.Insert(i); err != nil {
					t.Fatalf("insert %d: %v", i, err)
				}
			}
			if _, err := c.Insert(3); !errors.Is(err, ErrCapacityExhausted) {
				t.Fatalf("expected ErrCapacityExhausted, got %v", err)
			}
			if err := c.InsertAt(3, 3); !errors.Is(err, ErrIndexUnavailable) {
				t.Fatalf("expected ErrIndexUnavailable past MaxCapacity, got %v", err)
			}
			if c.Len() != 3 || c.Capacity() != 3 {
				t.Fatalf("failed insert changed state: len=%d cap=%d", c.Len(), c.Capacity())
			}

			// freeing a slot makes room again
			c.Remove(1)
			i, err := c.Insert(4)
			if err != nil || i != 1 {
				t.Fatalf("expected reuse of 1, got %d %v", i, err)
			}
		})
	}
}

func TestHighIndices(t *testing.T) {
	high := []Index{1 << 31, 1<<31 + 7, None - 1, None}
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			c, _ := New[int](kind, Options{MaxCapacity: 8})
			c.Insert(1)
			for _, i := range high {
				if _, ok := c.Get(i); ok {
					t.Fatalf("Get(%d) resolved", i)
				}
				if _, ok := c.Ref(i); ok {
					t.Fatalf("Ref(%d) resolved", i)
				}
				if c.Contains(i) {
					t.Fatalf("Contains(%d)", i)
				}
				if _, ok := c.Remove(i); ok {
					t.Fatalf("Remove(%d) resolved", i)
				}
				if err := c.InsertAt(i, 2); !errors.Is(err, ErrIndexUnavailable) {
					t.Fatalf("InsertAt(%d): expected ErrIndexUnavailable, got %v", i, err)
				}
			}
			if c.Len() != 1 || c.Capacity() > 8 {
				t.Fatalf("state changed: len=%d cap=%d", c.Len(), c.Capacity())
			}
		})
	}
}

func TestIndexBelow(t *testing.T) {
	biff.AssertTrue(Index(0).below(1))
	biff.AssertFalse(Index(1).below(1))
	biff.AssertFalse(Index(0).below(0))
	biff.AssertFalse(Index(1 << 31).below(maxSlots & 0xffff))
	biff.AssertFalse(None.below(maxSlots))
}

func BenchmarkInsertRemove(b *testing.B) {
	for _, kind := range Kinds {
		b.Run(string(kind), func(b *testing.B) {
			c, _ := New[int](kind, Options{Capacity: 1024})
			ids := make([]Index, 0, 1024)
			for i := 0; i < 1024; i++ {
				id, _ := c.Insert(i)
				ids = append(ids, id)
			}

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				k := (i * 7) % len(ids)
				c.Remove(ids[k])
				ids[k], _ = c.Insert(i)
			}
		})
	}
}
