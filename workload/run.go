package workload

import (
	"fmt"

	"github.com/fulldump/slabbench/slab"
)

func Run(name Name, c slab.Collection[int], cfg Config) (Result, error) {
	switch name {
	case MixedWorkload:
		return RunMixed(c, cfg)
	case ChurnWorkload:
		return RunChurn(c, cfg)
	case SparseWorkload:
		return RunSparse(c, cfg)
	case CompactionWorkload:
		return RunCompaction(c, cfg)
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownWorkload, name)
}

func positionsWhere(n int, pred func(p int) bool) []int {
	positions := []int{}
	for p := 0; p < n; p++ {
		if pred(p) {
			positions = append(positions, p)
		}
	}
	return positions
}

// RunMixed inserts Size elements, reads them all, removes every third, inserts
// Size/4 more and iterates.
func RunMixed(c slab.Collection[int], cfg Config) (Result, error) {
	g := NewGenerator(c, cfg)
	size := g.cfg.Size

	if err := g.Fill(size); err != nil {
		return g.Result(), err
	}
	if err := g.ReadAll(); err != nil {
		return g.Result(), err
	}
	if err := g.Remove(SelectUniform(g.tracker.Len())); err != nil {
		return g.Result(), err
	}
	if err := g.Insert(size / 4); err != nil {
		return g.Result(), err
	}
	if err := g.Iterate(); err != nil {
		return g.Result(), err
	}
	return g.Result(), nil
}

// RunChurn fills the collection to Size/2 and runs Cycles churn cycles with
// the configured removal pattern.
func RunChurn(c slab.Collection[int], cfg Config) (Result, error) {
	g := NewGenerator(c, cfg)

	if err := g.Fill(g.cfg.Size / 2); err != nil {
		return g.Result(), err
	}
	for cycle := 0; cycle < g.cfg.Cycles; cycle++ {
		if err := g.Cycle(cycle); err != nil {
			return g.Result(), fmt.Errorf("cycle %d: %w", cycle, err)
		}
	}
	return g.Result(), nil
}

// RunSparse fills Size elements, keeps one out of ten, then looks up every
// index ever issued, iterates and inserts Size/10 elements into the holes.
func RunSparse(c slab.Collection[int], cfg Config) (Result, error) {
	g := NewGenerator(c, cfg)
	size := g.cfg.Size

	if err := g.Fill(size); err != nil {
		return g.Result(), err
	}
	issued := g.tracker.Indices()
	sparse := positionsWhere(g.tracker.Len(), func(p int) bool { return p%10 != 0 })
	if err := g.Remove(sparse); err != nil {
		return g.Result(), err
	}

	if err := g.Lookup(issued); err != nil {
		return g.Result(), err
	}
	if err := g.Iterate(); err != nil {
		return g.Result(), err
	}
	if err := g.Insert(size / 10); err != nil {
		return g.Result(), err
	}
	return g.Result(), nil
}

// RunCompaction fills Size elements, removes the odd positions, compacts, and
// keeps working on the new index space: iterate, insert, read.
func RunCompaction(c slab.Collection[int], cfg Config) (Result, error) {
	g := NewGenerator(c, cfg)

	if err := g.Fill(g.cfg.Size); err != nil {
		return g.Result(), err
	}
	odd := positionsWhere(g.tracker.Len(), func(p int) bool { return p%2 == 1 })
	if err := g.Remove(odd); err != nil {
		return g.Result(), err
	}
	if err := g.Compact(); err != nil {
		return g.Result(), err
	}
	if err := g.Iterate(); err != nil {
		return g.Result(), err
	}
	if err := g.Insert(g.cfg.PostCompactInserts); err != nil {
		return g.Result(), err
	}
	if err := g.ReadAll(); err != nil {
		return g.Result(), err
	}
	return g.Result(), nil
}
