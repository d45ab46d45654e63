package workload

import (
	"math/bits"
	"math/rand/v2"
	"slices"
)

// randStream is the PCG increment selector paired with Config.Seed.
const randStream = 0x51ab

// Rand is the deterministic generator behind the Random pattern: PCG-DXSM
// (math/rand/v2 NewPCG(seed, 0x51ab)) reduced to [0, n) with a single
// 64x64->128 multiply, keeping the high word. The same seed always yields the
// same sequence.
type Rand struct {
	src *rand.PCG
}

func NewRand(seed uint64) *Rand {
	return &Rand{src: rand.NewPCG(seed, randStream)}
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	hi, _ := bits.Mul64(r.src.Uint64(), uint64(n))
	return int(hi)
}

// SelectUniform picks every third position: 0, 3, 6, ...
func SelectUniform(n int) []int {
	positions := make([]int, 0, (n+2)/3)
	for p := 0; p < n; p += 3 {
		positions = append(positions, p)
	}
	return positions
}

// SelectClustered picks about a quarter of n positions as contiguous runs,
// one run per cluster. Each cluster owns an equal segment of the positions
// and the run offset inside it moves with the cycle.
func SelectClustered(n, cycle, clusters int) []int {
	target := n / 4
	if target == 0 || n <= target {
		return nil
	}
	clusters = max(1, min(clusters, target))

	segment := n / clusters
	run := target / clusters
	positions := make([]int, 0, run*clusters)
	for c := 0; c < clusters; c++ {
		start := c * segment
		if span := segment - run; span > 0 {
			start += (cycle*17 + c*31) % span
		}
		for p := start; p < start+run; p++ {
			positions = append(positions, p)
		}
	}
	return positions
}

// SelectRandom picks n/3 distinct positions with a partial Fisher-Yates
// shuffle. The result is ascending.
func SelectRandom(n int, r *Rand) []int {
	k := n / 3
	if k == 0 {
		return nil
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + r.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	positions := perm[:k]
	slices.Sort(positions)
	return positions
}

func (g *Generator) selectPositions(cycle int) ([]int, error) {
	n := g.tracker.Len()
	switch g.cfg.Pattern {
	case Uniform:
		return SelectUniform(n), nil
	case Clustered:
		return SelectClustered(n, cycle, g.cfg.Clusters), nil
	case Random:
		return SelectRandom(n, g.rand), nil
	}
	return nil, ErrUnknownPattern
}
