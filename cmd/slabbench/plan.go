package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fulldump/slabbench/configuration"
	"github.com/fulldump/slabbench/slab"
	"github.com/fulldump/slabbench/workload"
)

type Benchmark struct {
	Workload workload.Name
	Kind     slab.Kind
	Size     int
	Pattern  workload.Pattern
	Cycles   int
	Seed     uint64
	Samples  int
	Verify   bool
}

func (b *Benchmark) Title() string {
	title := fmt.Sprintf("%s/%s/%d", b.Workload, b.Kind, b.Size)
	if b.Workload == workload.ChurnWorkload {
		title += "/" + string(b.Pattern)
	}
	return title
}

// NewPlan expands the configuration into the list of benchmarks to run.
func NewPlan(c *configuration.Configuration) ([]*Benchmark, error) {

	var names []workload.Name
	switch test := strings.ToUpper(c.Test); test {
	case "ALL":
		names = workload.Names
	case "MIXED", "CHURN", "SPARSE", "COMPACTION":
		names = []workload.Name{workload.Name(strings.ToLower(test))}
	default:
		return nil, fmt.Errorf("unknown test %s", c.Test)
	}

	kinds := []slab.Kind{}
	for _, k := range splitList(c.Kinds) {
		kind := slab.Kind(k)
		if kind != slab.KindFreeList && kind != slab.KindBitmap {
			return nil, fmt.Errorf("%w: %s", slab.ErrUnknownKind, k)
		}
		kinds = append(kinds, kind)
	}

	sizes := []int{}
	for _, s := range splitList(c.Sizes) {
		size, err := strconv.Atoi(s)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("bad size %q", s)
		}
		sizes = append(sizes, size)
	}

	patterns := []workload.Pattern{}
	for _, p := range splitList(c.Patterns) {
		pattern := workload.Pattern(p)
		if pattern != workload.Uniform && pattern != workload.Clustered && pattern != workload.Random {
			return nil, fmt.Errorf("%w: %s", workload.ErrUnknownPattern, p)
		}
		patterns = append(patterns, pattern)
	}
	if len(patterns) == 0 {
		patterns = []workload.Pattern{workload.Uniform}
	}

	samples := c.Samples
	if samples <= 0 {
		samples = 1
	}

	plan := []*Benchmark{}
	for _, name := range names {
		for _, size := range sizes {
			for _, kind := range kinds {
				b := Benchmark{
					Workload: name,
					Kind:     kind,
					Size:     size,
					Cycles:   c.Cycles,
					Seed:     uint64(c.Seed),
					Samples:  samples,
					Verify:   c.Verify,
				}
				if name != workload.ChurnWorkload {
					plan = append(plan, &b)
					continue
				}
				for _, pattern := range patterns {
					churn := b
					churn.Pattern = pattern
					plan = append(plan, &churn)
				}
			}
		}
	}

	return plan, nil
}

// timer is a workload.Observer that accumulates wall time per phase.
type timer struct {
	order  []workload.Phase
	phases map[workload.Phase]time.Duration
}

func newTimer() *timer {
	return &timer{
		phases: map[workload.Phase]time.Duration{},
	}
}

func (t *timer) Observe(phase workload.Phase, fn func()) {
	t0 := time.Now()
	fn()
	took := time.Since(t0)

	if _, seen := t.phases[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.phases[phase] += took
}

func (t *timer) total() (total time.Duration) {
	for _, d := range t.phases {
		total += d
	}
	return
}

// capacity mirrors how each workload would size its collection up front.
func (b *Benchmark) capacity() int {
	if b.Workload == workload.MixedWorkload {
		return b.Size / 2
	}
	return b.Size
}

func (b *Benchmark) Run() (*BenchmarkResult, error) {

	t := newTimer()
	var last workload.Result

	for sample := 0; sample < b.Samples; sample++ {
		c, err := slab.New[int](b.Kind, slab.Options{Capacity: b.capacity()})
		if err != nil {
			return nil, err
		}

		last, err = workload.Run(b.Workload, c, workload.Config{
			Size:     b.Size,
			Cycles:   b.Cycles,
			Pattern:  b.Pattern,
			Seed:     b.Seed,
			Verify:   b.Verify,
			Observer: t,
		})
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", sample, err)
		}
		if last.Misses != 0 {
			return nil, fmt.Errorf("sample %d: %d tracked indices did not resolve", sample, last.Misses)
		}
	}

	r := &BenchmarkResult{
		Title:    b.Title(),
		Workload: string(b.Workload),
		Kind:     string(b.Kind),
		Pattern:  string(b.Pattern),
		Size:     b.Size,
		Samples:  b.Samples,
		Result:   last,
	}

	samples := time.Duration(b.Samples)
	total := t.total() / samples
	r.NanosPerSample = total.Nanoseconds()
	if total > 0 {
		r.ElementsPerSecond = float64(b.Size) / total.Seconds()
	}
	for _, phase := range t.order {
		r.Phases = append(r.Phases, PhaseTiming{
			Phase: string(phase),
			Nanos: (t.phases[phase] / samples).Nanoseconds(),
		})
	}

	return r, nil
}
