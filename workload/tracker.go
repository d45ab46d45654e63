package workload

import (
	"github.com/fulldump/slabbench/slab"
)

// Tracker holds the indices a workload considers live, in the order they were
// handed out.
type Tracker struct {
	live []slab.Index
}

func NewTracker(capacity int) *Tracker {
	return &Tracker{
		live: make([]slab.Index, 0, capacity),
	}
}

func (t *Tracker) Add(i slab.Index) {
	t.live = append(t.live, i)
}

func (t *Tracker) Len() int {
	return len(t.live)
}

func (t *Tracker) At(position int) slab.Index {
	return t.live[position]
}

func (t *Tracker) Indices() []slab.Index {
	indices := make([]slab.Index, len(t.live))
	copy(indices, t.live)
	return indices
}

// Take removes the given positions and returns the indices stored there. The
// positions must be ascending and distinct; the remaining indices keep their
// relative order.
func (t *Tracker) Take(positions []int) []slab.Index {
	taken := make([]slab.Index, 0, len(positions))
	kept := t.live[:0]
	next := 0
	for p, i := range t.live {
		if next < len(positions) && positions[next] == p {
			taken = append(taken, i)
			next++
			continue
		}
		kept = append(kept, i)
	}
	t.live = kept
	return taken
}

// Rebaseline replaces the tracked set with the valid indices of c in index
// order. Needed after Compact, which may renumber every element.
func (t *Tracker) Rebaseline(c slab.Collection[int]) {
	t.live = t.live[:0]
	rows := c.Scan()
	defer rows.Close()
	for rows.Next() {
		i, _ := rows.Read()
		t.live = append(t.live, i)
	}
}
