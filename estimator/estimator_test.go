package estimator

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
)

// graded builds total transactions where item i (1-based) appears in the
// first shares[i-1]*total of them.
func graded(total int, shares ...float64) *T.Store {
	txs := make([]T.Transaction, total)
	for t := 0; t < total; t++ {
		items := make([]int, 0)
		for i, share := range shares {
			if float64(t) < share*float64(total) {
				items = append(items, i+1)
			}
		}
		txs[t] = T.New(items...)
	}
	return T.NewStore(txs)
}

func randomStore(seed int64, total, items int) *T.Store {
	rng := rand.New(rand.NewSource(seed))
	txs := make([]T.Transaction, total)
	for t := range txs {
		tx := make([]int, 0)
		for item := 1; item <= items; item++ {
			if rng.Intn(2) == 0 {
				tx = append(tx, item)
			}
		}
		txs[t] = T.New(tx...)
	}
	return T.NewStore(txs)
}

func TestExactFrequencies(t *testing.T) {
	store := graded(10, 1, 0.5, 0.2)
	cands := []I.Itemset{{1}, {2}, {3}, {1, 2}, {2, 3}, {4}}

	freqs, n, err := ExactFrequencies(store, cands)
	require.Nil(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, []float64{1, 0.5, 0.2, 0.5, 0.2, 0}, freqs)

	again, _, _ := ExactFrequencies(store, cands)
	assert.Equal(t, freqs, again)

	_, _, err = ExactFrequencies(T.NewStore(nil), cands)
	assert.Equal(t, T.ErrEmptyStore, errors.Cause(err))
}

func TestExactTopKRanking(t *testing.T) {
	store := graded(10, 0.5, 0.8, 0.5, 0.8)
	result, err := ExactTopK(store, I.Singletons(4), Params{K: 3}, nil)
	require.Nil(t, err)
	assert.Equal(t, []I.Itemset{{2}, {4}, {1}}, result.Itemsets)
	assert.Equal(t, []float64{0.8, 0.8, 0.5}, result.Frequencies)
	assert.Equal(t, ProvenanceExact, result.Provenance)
	assert.Equal(t, 10, result.Samples)
}

func TestParamsValidation(t *testing.T) {
	store := graded(10, 0.5)
	cands := I.Singletons(1)
	rng := rand.New(rand.NewSource(1))
	for _, params := range []Params{
		{K: 0, Epsilon: 0.1, Delta: 0.1, SampleInc: 1},
		{K: 1, Epsilon: 0, Delta: 0.1, SampleInc: 1},
		{K: 1, Epsilon: 0.1, Delta: 1, SampleInc: 1},
		{K: 1, Epsilon: 0.1, Delta: 0.1, SampleInc: 0},
	} {
		_, err := ProgressiveTopK(store, cands, params, rng)
		assert.Equal(t, ErrInvalidConfiguration, errors.Cause(err), "%+v", params)
	}
	// sample_inc is not read by the one-shot rules.
	_, err := NewBoundTopK(store, cands, Params{K: 1, Epsilon: 0.1, Delta: 0.1}, rng)
	assert.Nil(t, err)
}

func TestNewBoundSampleSizeMonotone(t *testing.T) {
	prev := 0
	for _, eps := range []float64{0.5, 0.2, 0.1, 0.05, 0.01, 0.005} {
		n := NewBoundSampleSize(10, eps, 0.01)
		assert.True(t, n >= prev, "eps=%v", eps)
		prev = n
	}
	// (ln 20 - ln 0.1) / (2 * 0.01) = 264.9
	assert.Equal(t, 265, NewBoundSampleSize(10, 0.1, 0.1))
}

func TestNewBoundFallsBackToExact(t *testing.T) {
	store := randomStore(3, 5, 4)
	cands := I.Singletons(4)
	params := Params{K: 2, Epsilon: 0.01, Delta: 0.1}

	result, err := NewBoundTopK(store, cands, params, rand.New(rand.NewSource(1)))
	require.Nil(t, err)
	exact, err := ExactTopK(store, cands, params, nil)
	require.Nil(t, err)
	assert.Equal(t, exact.Itemsets, result.Itemsets)
	assert.Equal(t, exact.Frequencies, result.Frequencies)
	assert.Equal(t, ProvenanceExact, result.Provenance)
	assert.Equal(t, 5, result.Samples)
}

func TestNewBoundSamplesFixedSize(t *testing.T) {
	store := graded(1000, 0.9, 0.1)
	params := Params{K: 1, Epsilon: 0.1, Delta: 0.1}
	result, err := NewBoundTopK(store, I.Singletons(2), params, rand.New(rand.NewSource(5)))
	require.Nil(t, err)
	assert.Equal(t, NewBoundSampleSize(2, 0.1, 0.1), result.Samples)
	assert.Equal(t, ProvenanceNewBound, result.Provenance)
	assert.Equal(t, StopConfident, result.Reason)
	assert.Equal(t, []I.Itemset{{1}}, result.Itemsets)
}

func TestSamplesNeverExceedTransactions(t *testing.T) {
	store := randomStore(11, 200, 6)
	cands := I.Pairs(I.Singletons(6))
	for _, topK := range []TopKFunc{NewBoundTopK, RUTopK, ProgressiveTopK, RUProgressiveTopK} {
		for _, eps := range []float64{0.5, 0.1, 0.01} {
			params := Params{K: 3, SampleInc: 25, Epsilon: eps, Delta: 0.05}
			result, err := topK(store, cands, params, rand.New(rand.NewSource(2)))
			require.Nil(t, err)
			assert.True(t, result.Samples <= store.Count())
			assert.Len(t, result.Itemsets, 3)
			for _, f := range result.Frequencies {
				assert.True(t, f >= 0 && f <= 1)
			}
		}
	}
}

func TestRankingStableForSeed(t *testing.T) {
	store := randomStore(21, 500, 8)
	cands := I.Singletons(8)
	params := Params{K: 3, SampleInc: 40, Epsilon: 0.05, Delta: 0.05}
	for _, topK := range []TopKFunc{ProgressiveTopK, RUProgressiveTopK, RUTopK, NewBoundTopK} {
		a, err := topK(store, cands, params, rand.New(rand.NewSource(99)))
		require.Nil(t, err)
		b, err := topK(store, cands, params, rand.New(rand.NewSource(99)))
		require.Nil(t, err)
		assert.Equal(t, a, b)
	}
}

func TestProgressiveStopsWhenSeparated(t *testing.T) {
	store := graded(1000, 1, 0)
	params := Params{K: 1, SampleInc: 50, Epsilon: 0.01, Delta: 0.01}
	result, err := ProgressiveTopK(store, I.Singletons(2), params, rand.New(rand.NewSource(1)))
	require.Nil(t, err)
	assert.Equal(t, StopConfident, result.Reason)
	assert.Equal(t, ProvenanceProgressive, result.Provenance)
	assert.Equal(t, 50, result.Samples)
	assert.Equal(t, 1, result.Batches)
	assert.Equal(t, []I.Itemset{{1}}, result.Itemsets)
}

func TestProgressiveBudgetAndExhaustion(t *testing.T) {
	// Two items present in every transaction are never separated.
	params := Params{K: 1, SampleInc: 10, Epsilon: 0.2, Delta: 0.1}
	budget := NewBoundSampleSize(2, 0.2, 0.1)
	assert.Equal(t, 47, budget)

	large := graded(1000, 1, 1)
	result, err := ProgressiveTopK(large, I.Singletons(2), params, rand.New(rand.NewSource(1)))
	require.Nil(t, err)
	assert.Equal(t, StopBudget, result.Reason)
	assert.Equal(t, ProvenanceProgressive, result.Provenance)
	assert.Equal(t, budget, result.Samples)

	small := graded(20, 1, 1)
	result, err = ProgressiveTopK(small, I.Singletons(2), params, rand.New(rand.NewSource(1)))
	require.Nil(t, err)
	assert.Equal(t, StopExhausted, result.Reason)
	assert.Equal(t, ProvenanceExact, result.Provenance)
	assert.Equal(t, 20, result.Samples)
	assert.Equal(t, []float64{1}, result.Frequencies)
}

func TestRUProgressiveFallsBackToExact(t *testing.T) {
	store := graded(30, 1, 1, 0.5)
	params := Params{K: 1, SampleInc: 7, Epsilon: 0.1, Delta: 0.1}
	result, err := RUProgressiveTopK(store, I.Singletons(3), params, rand.New(rand.NewSource(4)))
	require.Nil(t, err)
	exact, _ := ExactTopK(store, I.Singletons(3), params, nil)
	assert.Equal(t, ProvenanceExact, result.Provenance)
	assert.Equal(t, exact.Itemsets, result.Itemsets)
	assert.Equal(t, exact.Frequencies, result.Frequencies)
	assert.Equal(t, 30, result.Samples)
}

func TestRUProgressiveStopsOnBound(t *testing.T) {
	// Absent items tie at zero, so only the deviation bound can stop the run.
	store := graded(1000, 0, 0)
	params := Params{K: 1, SampleInc: 5, Epsilon: 0.3, Delta: 0.1}
	result, err := RUProgressiveTopK(store, I.Singletons(2), params, rand.New(rand.NewSource(4)))
	require.Nil(t, err)
	assert.Equal(t, StopConfident, result.Reason)
	assert.Equal(t, ProvenanceRUProgressive, result.Provenance)
	assert.Equal(t, 70, result.Samples)
}

func TestSingleCandidateIsSeparated(t *testing.T) {
	store := graded(1000, 0.5)
	params := Params{K: 1, SampleInc: 5, Epsilon: 0.01, Delta: 0.1}
	result, err := ProgressiveTopK(store, I.Singletons(1), params, rand.New(rand.NewSource(4)))
	require.Nil(t, err)
	assert.Equal(t, StopConfident, result.Reason)
	assert.Equal(t, 5, result.Samples)
}

func TestRU(t *testing.T) {
	params := Params{K: 1, Epsilon: 0.3, Delta: 0.1}
	assert.Equal(t, 67, RUInitialBatch(0.3, 0.1))

	// With one candidate the variance term vanishes and the first batch suffices.
	result, err := RUTopK(graded(1000, 0.4), I.Singletons(1), params, rand.New(rand.NewSource(8)))
	require.Nil(t, err)
	assert.Equal(t, StopConfident, result.Reason)
	assert.Equal(t, ProvenanceRU, result.Provenance)
	assert.Equal(t, 67, result.Samples)

	// Negative slack doubles n, clamped to the 33 remaining transactions.
	result, err = RUTopK(graded(100, 1, 1), I.Singletons(2), params, rand.New(rand.NewSource(8)))
	require.Nil(t, err)
	assert.Equal(t, StopExhausted, result.Reason)
	assert.Equal(t, ProvenanceRU, result.Provenance)
	assert.Equal(t, 100, result.Samples)
	assert.Equal(t, 2, result.Batches)
}

func TestRUNextBatch(t *testing.T) {
	assert.Equal(t, 40, RUNextBatch(1, 40, 2, 0.3, 0.1))
	// zero max frequency leaves slack = epsilon.
	assert.Equal(t, RUInitialBatch(0.3, 0.1)-10, RUNextBatch(0, 10, 5, 0.3, 0.1))
	assert.InDelta(t, 0.2990, RUDeviation(0, 67, 1, 0.1), 1e-4)
}

func TestSeparationErrorProb(t *testing.T) {
	prob, scanned := SeparationErrorProb([]int{5, 3}, 10, 2, 0.1)
	assert.Equal(t, 0.0, prob)
	assert.Equal(t, 0, scanned)

	// Well separated counts succeed early.
	counts := []int{0, 0, 100, 0, 0, 0, 0, 0, 0, 100}
	prob, scanned = SeparationErrorProb(counts, 100, 2, 0.01)
	assert.True(t, prob <= 0.01)
	assert.Equal(t, 3, scanned)

	// Tied counts fail at the first position past k.
	prob, scanned = SeparationErrorProb([]int{50, 50, 50, 50}, 100, 1, 0.01)
	assert.Equal(t, 2.0, prob)
	assert.Equal(t, 2, scanned)
}

func TestSeparationTailNonIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for trial := 0; trial < 50; trial++ {
		m := 3 + rng.Intn(20)
		n := 50 + rng.Intn(500)
		counts := make([]int, m)
		for i := range counts {
			counts[i] = rng.Intn(n + 1)
		}
		k := 1 + rng.Intn(m-1)
		sorted := make([]int, m)
		copy(sorted, counts)
		sortDescending(sorted)
		middle := float64(sorted[k-1]+sorted[k]) / 2
		for i := k + 1; i < m; i++ {
			prev := float64(sorted[i-1]) - middle
			cur := float64(sorted[i]) - middle
			assert.True(t, cur*cur >= prev*prev, "tail term grew at %d", i)
		}

		full := 0.0
		for _, c := range sorted {
			d := float64(c) - middle
			full += expTerm(d, n)
		}
		prob, _ := SeparationErrorProb(counts, n, k, 0.05)
		// Early exits agree with the full sum on which side of delta it falls.
		assert.Equal(t, full <= 0.05, prob <= 0.05)
	}
}

func TestDrawBatchAccumulates(t *testing.T) {
	store := graded(10, 1, 0)
	cands := I.Singletons(2)
	counts := make([]int, 2)
	rng := rand.New(rand.NewSource(1))
	DrawBatch(store, cands, 5, rng, counts)
	DrawBatch(store, cands, 7, rng, counts)
	assert.Equal(t, []int{12, 0}, counts)

	freqs, err := SampleFrequencies(store, cands, 20, rng)
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 0}, freqs)
	_, err = SampleFrequencies(store, cands, 0, rng)
	assert.Equal(t, ErrInvalidConfiguration, errors.Cause(err))
}

func TestSamplerFrequencies(t *testing.T) {
	store := graded(4, 1, 0.5)
	sampler := NewSampler(store, []I.Itemset{{1}, {2}, {3}}, rand.New(rand.NewSource(3)))
	assert.Equal(t, []float64{0, 0, 0}, sampler.Frequencies())
	assert.Equal(t, 0.0, sampler.MaxFrequency())

	sampler.Draw(40)
	freqs := sampler.Frequencies()
	assert.Equal(t, 1.0, freqs[0])
	assert.True(t, freqs[1] > 0 && freqs[1] < 1)
	assert.Equal(t, 0.0, freqs[2])
	assert.Equal(t, 1.0, sampler.MaxFrequency())
}

func TestWorstError(t *testing.T) {
	worst, err := WorstError([]float64{0.1, 0.5, 0.3}, []float64{0.2, 0.2, 0.3})
	require.Nil(t, err)
	assert.InDelta(t, 0.3, worst, 1e-12)

	_, err = WorstError([]float64{0.1}, []float64{0.1, 0.2})
	assert.Equal(t, ErrMismatchedLengths, err)
	_, err = WorstError(nil, nil)
	assert.Equal(t, ErrMismatchedLengths, err)
}

func TestNewBoundPrecisionOverTrials(t *testing.T) {
	store := graded(5000, 0.9, 0.7, 0.5, 0.3, 0.1)
	params := Params{K: 2, Epsilon: 0.05, Delta: 0.0001}
	exact, err := ExactTopK(store, I.Singletons(5), params, nil)
	require.Nil(t, err)

	perfect := 0
	for trial := 0; trial < 20; trial++ {
		result, err := NewBoundTopK(store, I.Singletons(5), params, rand.New(rand.NewSource(int64(trial+1))))
		require.Nil(t, err)
		assert.Equal(t, ProvenanceNewBound, result.Provenance)
		if assert.ObjectsAreEqual(I.Keys(exact.Itemsets), I.Keys(result.Itemsets)) {
			perfect++
		}
	}
	assert.Equal(t, 20, perfect)
}
