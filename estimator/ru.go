package estimator

import (
	"math/rand"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
)

// RU grows the sample with the Riondato-Upfal recurrence until the
// empirical deviation bound drops to epsilon.
type RU struct{}

func (RU) Provenance() Provenance { return ProvenanceRU }

func (RU) Plan(p Plan) (Schedule, error) {
	if err := p.Params.Validate(); err != nil {
		return Schedule{}, err
	}
	return Schedule{
		FirstBatch: RUInitialBatch(p.Params.Epsilon, p.Params.Delta),
		Budget:     p.Transactions,
	}, nil
}

func (RU) Evaluate(s *Sampler, params Params) Decision {
	w := s.MaxFrequency()
	m := len(s.Candidates())
	if RUDeviation(w, s.N(), m, params.Delta) <= params.Epsilon {
		return Decision{Stop: true, Reason: StopConfident}
	}
	return Decision{NextBatch: RUNextBatch(w, s.N(), m, params.Epsilon, params.Delta)}
}

func RUTopK(store *T.Store, candidates []I.Itemset, params Params, rng *rand.Rand) (*Result, error) {
	return Run(store, candidates, params, RU{}, rng)
}
