package estimator

import (
	"math/rand"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
	U "itemfreq/util"
)

// Progressive samples in fixed increments until the k-th and (k+1)-th
// ranked candidates are separated with probability at least 1-delta.
type Progressive struct{}

func (Progressive) Provenance() Provenance { return ProvenanceProgressive }

func (Progressive) Plan(p Plan) (Schedule, error) {
	if err := p.Params.validateProgressive(); err != nil {
		return Schedule{}, err
	}
	budget := U.MinInt(p.Transactions, NewBoundSampleSize(p.Candidates, p.Params.Epsilon, p.Params.Delta))
	return Schedule{
		FirstBatch:    p.Params.SampleInc,
		Budget:        budget,
		FallbackExact: true,
	}, nil
}

func (Progressive) Evaluate(s *Sampler, params Params) Decision {
	if separated(s, params) {
		return Decision{Stop: true, Reason: StopConfident}
	}
	return Decision{NextBatch: params.SampleInc}
}

func separated(s *Sampler, params Params) bool {
	errorProb, _ := SeparationErrorProb(s.Counts(), s.N(), params.K, params.Delta)
	return errorProb <= params.Delta
}

func ProgressiveTopK(store *T.Store, candidates []I.Itemset, params Params, rng *rand.Rand) (*Result, error) {
	return Run(store, candidates, params, Progressive{}, rng)
}

// RUProgressive stops on either the separation test or the RU bound.
type RUProgressive struct{}

func (RUProgressive) Provenance() Provenance { return ProvenanceRUProgressive }

func (RUProgressive) Plan(p Plan) (Schedule, error) {
	if err := p.Params.validateProgressive(); err != nil {
		return Schedule{}, err
	}
	return Schedule{
		FirstBatch:    p.Params.SampleInc,
		Budget:        p.Transactions,
		FallbackExact: true,
	}, nil
}

func (RUProgressive) Evaluate(s *Sampler, params Params) Decision {
	if separated(s, params) {
		return Decision{Stop: true, Reason: StopConfident}
	}
	if RUDeviation(s.MaxFrequency(), s.N(), len(s.Candidates()), params.Delta) <= params.Epsilon {
		return Decision{Stop: true, Reason: StopConfident}
	}
	return Decision{NextBatch: params.SampleInc}
}

func RUProgressiveTopK(store *T.Store, candidates []I.Itemset, params Params, rng *rand.Rand) (*Result, error) {
	return Run(store, candidates, params, RUProgressive{}, rng)
}
