package estimator

import (
	"math/rand"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
)

// NewBound draws one fixed-size sample sized by the union bound.
type NewBound struct{}

func (NewBound) Provenance() Provenance { return ProvenanceNewBound }

func (NewBound) Plan(p Plan) (Schedule, error) {
	if err := p.Params.Validate(); err != nil {
		return Schedule{}, err
	}
	n := NewBoundSampleSize(p.Candidates, p.Params.Epsilon, p.Params.Delta)
	if n > p.Transactions {
		return Schedule{ExactOnly: true}, nil
	}
	return Schedule{FirstBatch: n, Budget: n}, nil
}

func (NewBound) Evaluate(s *Sampler, params Params) Decision {
	return Decision{Stop: true, Reason: StopConfident}
}

func NewBoundTopK(store *T.Store, candidates []I.Itemset, params Params, rng *rand.Rand) (*Result, error) {
	return Run(store, candidates, params, NewBound{}, rng)
}
