package workload

import (
	"errors"
	"fmt"

	"github.com/fulldump/slabbench/slab"
)

// Generator applies workload steps to one collection and keeps its Tracker in
// agreement with it.
type Generator struct {
	c       slab.Collection[int]
	cfg     Config
	tracker *Tracker
	rand    *Rand
	value   int
	result  Result
}

func NewGenerator(c slab.Collection[int], cfg Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		c:       c,
		cfg:     cfg,
		tracker: NewTracker(cfg.Size),
		rand:    NewRand(cfg.Seed),
	}
}

func (g *Generator) Tracker() *Tracker {
	return g.tracker
}

func (g *Generator) Result() Result {
	r := g.result
	r.Len = g.c.Len()
	r.Capacity = g.c.Capacity()
	r.Tracked = g.tracker.Len()
	return r
}

// phase runs fn under the observer and audits afterwards when configured.
func (g *Generator) phase(p Phase, fn func() error) error {
	var err error
	g.cfg.Observer.Observe(p, func() {
		err = fn()
	})
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return g.verify(p)
}

func (g *Generator) verify(p Phase) error {
	if !g.cfg.Verify {
		return nil
	}
	if err := Audit(g.c, g.tracker); err != nil {
		return fmt.Errorf("after %s: %w", p, err)
	}
	return nil
}

func (g *Generator) nextValue() int {
	v := g.value
	g.value++
	return v
}

func (g *Generator) insert() error {
	i, err := g.c.Insert(g.nextValue())
	if err != nil {
		return err
	}
	g.tracker.Add(i)
	g.result.Inserted++
	return nil
}

func (g *Generator) insertN(n int) error {
	for k := 0; k < n; k++ {
		if err := g.insert(); err != nil {
			return err
		}
	}
	return nil
}

// removePositions drops the given tracker positions from the tracker and the
// collection and returns the freed indices in position order.
func (g *Generator) removePositions(positions []int) []slab.Index {
	freed := g.tracker.Take(positions)
	for _, i := range freed {
		if _, ok := g.c.Remove(i); !ok {
			g.result.Misses++
			continue
		}
		g.result.Removed++
	}
	return freed
}

// Fill inserts n fresh elements.
func (g *Generator) Fill(n int) error {
	return g.phase(PhaseFill, func() error {
		return g.insertN(n)
	})
}

// RemovePass applies the configured pattern once and returns the freed
// indices.
func (g *Generator) RemovePass(cycle int) ([]slab.Index, error) {
	positions, err := g.selectPositions(cycle)
	if err != nil {
		return nil, err
	}
	var freed []slab.Index
	err = g.phase(PhaseRemove, func() error {
		freed = g.removePositions(positions)
		return nil
	})
	return freed, err
}

// Reinsert inserts len(freed) elements, alternating between InsertAt on the
// most recently freed index that is still vacant and a plain Insert. Freed
// indices already reused by an Insert are skipped; once none is left the
// remaining elements go through Insert.
func (g *Generator) Reinsert(freed []slab.Index) error {
	return g.phase(PhaseReinsert, func() error {
		stack := freed
		for k := range freed {
			if k%2 == 0 {
				for len(stack) > 0 && g.c.Contains(stack[len(stack)-1]) {
					stack = stack[:len(stack)-1]
				}
			}
			if k%2 == 0 && len(stack) > 0 {
				i := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				err := g.c.InsertAt(i, g.nextValue())
				if err == nil {
					g.tracker.Add(i)
					g.result.Inserted++
					g.result.InsertedAt++
					continue
				}
				if !errors.Is(err, slab.ErrIndexUnavailable) {
					return err
				}
			}
			if err := g.insert(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Grow inserts n elements beyond replacement.
func (g *Generator) Grow(n int) error {
	return g.phase(PhaseGrow, func() error {
		return g.insertN(n)
	})
}

// Read gets one tracked position out of every ReadStride, shifting the
// selection with the cycle.
func (g *Generator) Read(cycle int) error {
	stride := g.cfg.ReadStride
	return g.phase(PhaseRead, func() error {
		for p := cycle % stride; p < g.tracker.Len(); p += stride {
			g.get(g.tracker.At(p))
		}
		return nil
	})
}

func (g *Generator) get(i slab.Index) {
	v, ok := g.c.Get(i)
	if !ok {
		g.result.Misses++
		return
	}
	g.result.Hits++
	g.result.Checksum += v
}

// Cycle runs one churn cycle: remove, reinsert, grow, read.
func (g *Generator) Cycle(cycle int) error {
	freed, err := g.RemovePass(cycle)
	if err != nil {
		return err
	}
	if err := g.Reinsert(freed); err != nil {
		return err
	}
	if err := g.Grow(g.cfg.Fresh); err != nil {
		return err
	}
	if err := g.Read(cycle); err != nil {
		return err
	}
	g.result.Cycles++
	return nil
}

// Iterate scans the whole collection.
func (g *Generator) Iterate() error {
	return g.phase(PhaseIterate, func() error {
		rows := g.c.Scan()
		defer rows.Close()
		for rows.Next() {
			_, v := rows.Read()
			g.result.Checksum += v
		}
		return nil
	})
}

// Compact compacts the collection and rebaselines the tracker, since the
// previously tracked indices may all be stale. Only Compact itself is
// observed.
func (g *Generator) Compact() error {
	g.cfg.Observer.Observe(PhaseCompact, g.c.Compact)
	g.tracker.Rebaseline(g.c)
	return g.verify(PhaseCompact)
}

// Remove drops the given tracker positions, ascending and distinct.
func (g *Generator) Remove(positions []int) error {
	return g.phase(PhaseRemove, func() error {
		g.removePositions(positions)
		return nil
	})
}

// Insert inserts n fresh elements outside of a churn cycle.
func (g *Generator) Insert(n int) error {
	return g.phase(PhaseInsert, func() error {
		return g.insertN(n)
	})
}

// ReadAll gets every tracked index.
func (g *Generator) ReadAll() error {
	return g.phase(PhaseGet, func() error {
		for p := 0; p < g.tracker.Len(); p++ {
			g.get(g.tracker.At(p))
		}
		return nil
	})
}

// Lookup gets every index in indices, vacant ones included. Indices that do
// not resolve are expected and not counted as misses.
func (g *Generator) Lookup(indices []slab.Index) error {
	return g.phase(PhaseGet, func() error {
		for _, i := range indices {
			if v, ok := g.c.Get(i); ok {
				g.result.Hits++
				g.result.Checksum += v
			}
		}
		return nil
	})
}
