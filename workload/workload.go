// Package workload drives deterministic operation sequences against any
// slab.Collection. It keeps its own record of the indices it expects to be
// live (the Tracker) and can audit that record against the collection.
//
// Every phase is run through an Observer so a harness can time it; the
// package itself never reads the clock.
package workload

import (
	"errors"
)

var ErrUnknownPattern = errors.New("unknown removal pattern")
var ErrUnknownWorkload = errors.New("unknown workload")

type Pattern string

const (
	Uniform   Pattern = "uniform"
	Clustered Pattern = "clustered"
	Random    Pattern = "random"
)

var Patterns = []Pattern{Uniform, Clustered, Random}

type Name string

const (
	MixedWorkload      Name = "mixed"
	ChurnWorkload      Name = "churn"
	SparseWorkload     Name = "sparse"
	CompactionWorkload Name = "compaction"
)

var Names = []Name{MixedWorkload, ChurnWorkload, SparseWorkload, CompactionWorkload}

type Phase string

const (
	PhaseFill     Phase = "fill"
	PhaseRemove   Phase = "remove"
	PhaseReinsert Phase = "reinsert"
	PhaseGrow     Phase = "grow"
	PhaseRead     Phase = "read"
	PhaseGet      Phase = "get"
	PhaseIterate  Phase = "iterate"
	PhaseInsert   Phase = "insert"
	PhaseCompact  Phase = "compact"
)

// Observer wraps the execution of a phase, typically to time it.
type Observer interface {
	Observe(phase Phase, fn func())
}

type ObserverFunc func(phase Phase, fn func())

func (f ObserverFunc) Observe(phase Phase, fn func()) {
	f(phase, fn)
}

type direct struct{}

func (direct) Observe(_ Phase, fn func()) {
	fn()
}

type Config struct {
	// Size is the nominal element count. Churn starts half full.
	Size int
	// Cycles is the number of churn cycles.
	Cycles int
	// Pattern selects which tracked indices a churn cycle removes.
	Pattern Pattern
	// Seed feeds the Random pattern.
	Seed uint64
	// Clusters is the number of contiguous runs removed by Clustered.
	Clusters int
	// Fresh is the number of extra inserts per churn cycle.
	Fresh int
	// ReadStride makes a churn cycle read one tracked position out of
	// every ReadStride.
	ReadStride int
	// PostCompactInserts is the number of inserts after compaction.
	PostCompactInserts int
	// Verify audits the tracker against the collection after every phase.
	Verify bool

	Observer Observer
}

const DefaultSeed = 0x5eed

func (c Config) withDefaults() Config {
	if c.Size < 0 {
		c.Size = 0
	}
	if c.Cycles <= 0 {
		c.Cycles = 20
	}
	if c.Pattern == "" {
		c.Pattern = Uniform
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Clusters <= 0 {
		c.Clusters = 1
	}
	if c.Fresh <= 0 {
		c.Fresh = max(c.Size/10, 1)
	}
	if c.ReadStride <= 0 {
		c.ReadStride = 5
	}
	if c.PostCompactInserts <= 0 {
		c.PostCompactInserts = 100
	}
	if c.Observer == nil {
		c.Observer = direct{}
	}
	return c
}

// Result summarizes what a workload observed. Checksum sums every value read
// so the reads cannot be optimized away and runs can be compared.
type Result struct {
	Checksum int `json:"checksum"`
	Hits     int `json:"hits"`
	// Misses counts tracked indices that did not resolve. Always zero unless
	// the collection lost an element.
	Misses   int `json:"misses"`
	Inserted int `json:"inserted"`
	// InsertedAt counts the inserts that reclaimed a freed index by InsertAt.
	InsertedAt int `json:"inserted_at"`
	Removed    int `json:"removed"`
	Cycles     int `json:"cycles"`
	Len        int `json:"len"`
	Capacity   int `json:"capacity"`
	Tracked    int `json:"tracked"`
}
