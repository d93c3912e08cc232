package estimator

import (
	"math/rand"

	"github.com/pkg/errors"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
)

// ExactCounts scans every transaction once and returns per-candidate hits.
func ExactCounts(store *T.Store, candidates []I.Itemset) []int {
	counts := make([]int, len(candidates))
	for _, t := range store.All() {
		for i, c := range candidates {
			if c.ContainedIn(t) {
				counts[i]++
			}
		}
	}
	return counts
}

// ExactFrequencies returns the true frequency of each candidate together
// with the number of transactions scanned.
func ExactFrequencies(store *T.Store, candidates []I.Itemset) ([]float64, int, error) {
	total := store.Count()
	if total == 0 {
		return nil, 0, errors.Wrap(T.ErrEmptyStore, "exact frequencies")
	}
	counts := ExactCounts(store, candidates)
	freqs := make([]float64, len(counts))
	for i, c := range counts {
		freqs[i] = float64(c) / float64(total)
	}
	return freqs, total, nil
}

// ExactTopK ranks candidates by true frequency. rng is unused and
// accepted so ExactTopK satisfies TopKFunc.
func ExactTopK(store *T.Store, candidates []I.Itemset, params Params, rng *rand.Rand) (*Result, error) {
	if err := params.validateK(); err != nil {
		return nil, err
	}
	return exactResult(store, candidates, params.K, StopExhausted)
}

func exactResult(store *T.Store, candidates []I.Itemset, k int, reason StopReason) (*Result, error) {
	freqs, total, err := ExactFrequencies(store, candidates)
	if err != nil {
		return nil, err
	}
	return newResult(candidates, freqs, k, total, ProvenanceExact, reason), nil
}

// WorstError is the largest absolute difference between two frequency vectors.
func WorstError(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, ErrMismatchedLengths
	}
	worst := 0.0
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > worst {
			worst = diff
		}
	}
	return worst, nil
}
