package estimator

import (
	I "itemfreq/itemset"
	U "itemfreq/util"
)

type Provenance string

const (
	ProvenanceExact         Provenance = "exact"
	ProvenanceNewBound      Provenance = "new-bound"
	ProvenanceRU            Provenance = "RU-bound"
	ProvenanceProgressive   Provenance = "progressive"
	ProvenanceRUProgressive Provenance = "RU-progressive"
)

type StopReason string

const (
	StopConfident StopReason = "confident"
	StopExhausted StopReason = "exhausted"
	StopBudget    StopReason = "budget"
)

// Result is a ranked top-K estimate. Samples counts every transaction
// drawn or scanned to produce it.
type Result struct {
	Itemsets    []I.Itemset `json:"itemsets"`
	Frequencies []float64   `json:"frequencies"`
	Samples     int         `json:"samples"`
	Provenance  Provenance  `json:"provenance"`
	Reason      StopReason  `json:"reason"`
	Batches     int         `json:"batches"`
}

// rankTopK orders candidates by descending frequency, breaking ties by
// enumeration index, and keeps the first k.
func rankTopK(candidates []I.Itemset, freqs []float64, k int) ([]I.Itemset, []float64) {
	order := U.RankByValue(freqs)
	k = U.MinInt(k, len(order))
	top := make([]I.Itemset, k)
	topFreqs := make([]float64, k)
	for i := 0; i < k; i++ {
		top[i] = candidates[order[i]]
		topFreqs[i] = freqs[order[i]]
	}
	return top, topFreqs
}

func newResult(candidates []I.Itemset, freqs []float64, k, samples int,
	provenance Provenance, reason StopReason) *Result {

	top, topFreqs := rankTopK(candidates, freqs, k)
	return &Result{
		Itemsets:    top,
		Frequencies: topFreqs,
		Samples:     samples,
		Provenance:  provenance,
		Reason:      reason,
	}
}
