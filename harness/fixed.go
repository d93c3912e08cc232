package harness

import (
	log "github.com/sirupsen/logrus"

	E "itemfreq/estimator"
	U "itemfreq/util"
)

// FixedSamplePoint is a one-shot sample of the exact top-k itemsets and its
// largest deviation from their true frequencies.
type FixedSamplePoint struct {
	Samples    int     `json:"samples"`
	WorstError float64 `json:"worst_error"`
}

// FixedSample estimates the exact top-k itemsets from n draws. With n below
// one it draws the new-bound size for the configured epsilon and delta.
func (h *Harness) FixedSample(exact *E.Result, n int, seed int64) (*FixedSamplePoint, error) {
	if exact == nil || len(exact.Itemsets) == 0 {
		return nil, ErrEmptyResult
	}
	if n < 1 {
		if err := h.Params.Validate(); err != nil {
			return nil, err
		}
		n = E.NewBoundSampleSize(len(exact.Itemsets), h.Params.Epsilon, h.Params.Delta)
	}

	rng := U.NewRand(U.DeriveSeed(seed, len(AlgorithmNames)))
	approx, err := E.SampleFrequencies(h.store, exact.Itemsets, n, rng)
	if err != nil {
		return nil, err
	}
	worst, err := E.WorstError(approx, exact.Frequencies)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"dataset": h.Dataset, "samples": n,
		"worst_error": worst}).Info("Fixed sample baseline done.")
	return &FixedSamplePoint{Samples: n, WorstError: worst}, nil
}
