package estimator

import (
	"math/rand"

	"github.com/pkg/errors"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
	U "itemfreq/util"
)

// DrawBatch draws batchSize transactions with replacement and adds a hit
// to counts[i] for every candidate i contained in a drawn transaction.
func DrawBatch(store *T.Store, candidates []I.Itemset, batchSize int, rng *rand.Rand, counts []int) {
	for b := 0; b < batchSize; b++ {
		t := store.SampleUniform(rng)
		for i, c := range candidates {
			if c.ContainedIn(t) {
				counts[i]++
			}
		}
	}
}

// Sampler is the running accumulator of one estimation run. It is not
// safe for concurrent use.
type Sampler struct {
	store      *T.Store
	candidates []I.Itemset
	rng        *rand.Rand
	counts     []int
	n          int
	batches    int
}

func NewSampler(store *T.Store, candidates []I.Itemset, rng *rand.Rand) *Sampler {
	return &Sampler{
		store:      store,
		candidates: candidates,
		rng:        rng,
		counts:     make([]int, len(candidates)),
	}
}

func (s *Sampler) Draw(batchSize int) {
	if batchSize <= 0 {
		return
	}
	DrawBatch(s.store, s.candidates, batchSize, s.rng, s.counts)
	s.n += batchSize
	s.batches++
}

// N is the number of samples drawn so far.
func (s *Sampler) N() int { return s.n }

func (s *Sampler) Batches() int { return s.batches }

// Counts returns the live hit counters. Callers must not modify them.
func (s *Sampler) Counts() []int { return s.counts }

func (s *Sampler) Candidates() []I.Itemset { return s.candidates }

// Population is the transaction count of the underlying store.
func (s *Sampler) Population() int { return s.store.Count() }

// Frequencies are all zero before the first draw.
func (s *Sampler) Frequencies() []float64 {
	freqs := make([]float64, len(s.counts))
	for i, c := range s.counts {
		freqs[i] = U.SafeDivide(float64(c), float64(s.n))
	}
	return freqs
}

// MaxFrequency is the largest empirical frequency among the candidates.
func (s *Sampler) MaxFrequency() float64 {
	maxCount := 0
	for _, c := range s.counts {
		if c > maxCount {
			maxCount = c
		}
	}
	return U.SafeDivide(float64(maxCount), float64(s.n))
}

// SampleFrequencies estimates every candidate from a fixed number of draws.
func SampleFrequencies(store *T.Store, candidates []I.Itemset, n int, rng *rand.Rand) ([]float64, error) {
	if store.Count() == 0 {
		return nil, errors.Wrap(T.ErrEmptyStore, "sample frequencies")
	}
	if n < 1 {
		return nil, invalid("sample size must be positive, got %d", n)
	}
	sampler := NewSampler(store, candidates, rng)
	sampler.Draw(n)
	return sampler.Frequencies(), nil
}
