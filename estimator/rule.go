package estimator

import (
	"math/rand"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
	U "itemfreq/util"
)

// Plan is what a rule knows before the first draw.
type Plan struct {
	Candidates   int
	Transactions int
	Params       Params
}

// Schedule fixes the first batch and the sample budget of a run. ExactOnly
// skips sampling altogether. FallbackExact replaces the sampled estimate
// with an exact count once the budget reaches the transaction count.
type Schedule struct {
	FirstBatch    int
	Budget        int
	ExactOnly     bool
	FallbackExact bool
}

// Decision is returned after every batch. NextBatch of zero keeps the
// previous batch size.
type Decision struct {
	Stop      bool
	Reason    StopReason
	NextBatch int
}

// StoppingRule decides when a sampled top-K estimate is good enough.
type StoppingRule interface {
	Provenance() Provenance
	Plan(p Plan) (Schedule, error)
	Evaluate(s *Sampler, params Params) Decision
}

// Run drives one sampling run: it draws batches until rule stops it or
// the schedule budget is spent.
func Run(store *T.Store, candidates []I.Itemset, params Params, rule StoppingRule,
	rng *rand.Rand) (*Result, error) {

	total := store.Count()
	if total == 0 {
		return nil, errors.Wrap(T.ErrEmptyStore, string(rule.Provenance()))
	}
	schedule, err := rule.Plan(Plan{Candidates: len(candidates), Transactions: total, Params: params})
	if err != nil {
		return nil, err
	}

	logCtx := log.WithFields(log.Fields{"rule": rule.Provenance(), "candidates": len(candidates),
		"transactions": total, "budget": schedule.Budget})
	if schedule.ExactOnly || len(candidates) == 0 {
		logCtx.Debug("Sample size not below transaction count. Counting exactly.")
		return exactResult(store, candidates, params.K, StopExhausted)
	}

	budget := U.MinInt(schedule.Budget, total)
	sampler := NewSampler(store, candidates, rng)
	batch := schedule.FirstBatch
	for {
		batch = clampBatch(batch, budget-sampler.N())
		sampler.Draw(batch)

		decision := rule.Evaluate(sampler, params)
		logCtx.WithFields(log.Fields{"n": sampler.N(), "batch": batch,
			"stop": decision.Stop}).Debug("Evaluated batch.")
		if decision.Stop {
			return sampledResult(sampler, params.K, rule.Provenance(), decision.Reason), nil
		}

		if sampler.N() >= budget {
			if budget >= total && schedule.FallbackExact {
				logCtx.WithField("n", sampler.N()).Warn("Sampling exhausted the transactions. Falling back to exact count.")
				result, err := exactResult(store, candidates, params.K, StopExhausted)
				if err != nil {
					return nil, err
				}
				result.Batches = sampler.Batches()
				return result, nil
			}
			reason := StopBudget
			if budget >= total {
				reason = StopExhausted
			}
			return sampledResult(sampler, params.K, rule.Provenance(), reason), nil
		}

		if decision.NextBatch > 0 {
			batch = decision.NextBatch
		}
	}
}

func clampBatch(batch, remaining int) int {
	if batch < 1 {
		batch = 1
	}
	if batch > remaining {
		batch = remaining
	}
	return batch
}

func sampledResult(sampler *Sampler, k int, provenance Provenance, reason StopReason) *Result {
	result := newResult(sampler.Candidates(), sampler.Frequencies(), k, sampler.N(), provenance, reason)
	result.Batches = sampler.Batches()
	return result
}
