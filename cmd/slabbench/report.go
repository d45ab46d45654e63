package main

import (
	"fmt"
	"time"

	"github.com/fulldump/slabbench/configuration"
	"github.com/fulldump/slabbench/workload"
)

type Report struct {
	ID         string                       `json:"id"`
	Version    string                       `json:"version"`
	Started    string                       `json:"started"`
	Config     *configuration.Configuration `json:"config"`
	Benchmarks []*BenchmarkResult           `json:"benchmarks"`
}

type PhaseTiming struct {
	Phase string `json:"phase"`
	Nanos int64  `json:"nanos"`
}

// BenchmarkResult holds per-sample averages.
type BenchmarkResult struct {
	Title             string          `json:"title"`
	Workload          string          `json:"workload"`
	Kind              string          `json:"kind"`
	Pattern           string          `json:"pattern,omitempty"`
	Size              int             `json:"size"`
	Samples           int             `json:"samples"`
	NanosPerSample    int64           `json:"nanos_per_sample"`
	ElementsPerSecond float64         `json:"elements_per_second"`
	Phases            []PhaseTiming   `json:"phases"`
	Result            workload.Result `json:"result"`
}

func (r *BenchmarkResult) Print() {
	fmt.Println("took:", time.Duration(r.NanosPerSample))
	fmt.Printf("Throughput: %.2f elements/sec\n", r.ElementsPerSecond)
	for _, p := range r.Phases {
		fmt.Printf("    %-9s %v\n", p.Phase, time.Duration(p.Nanos))
	}
	fmt.Printf("    len=%d capacity=%d checksum=%d\n", r.Result.Len, r.Result.Capacity, r.Result.Checksum)
}
