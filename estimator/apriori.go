package estimator

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	I "itemfreq/itemset"
	T "itemfreq/transaction"
)

// TopKFunc is any of the top-K entry points.
type TopKFunc func(store *T.Store, candidates []I.Itemset, params Params, rng *rand.Rand) (*Result, error)

// AprioriTopK picks the top-K singletons over items 1..itemCount, pairs the
// survivors and returns the top-K pairs. Samples covers both levels.
func AprioriTopK(store *T.Store, itemCount int, params Params, topK TopKFunc, rng *rand.Rand) (*Result, error) {
	if err := params.validateK(); err != nil {
		return nil, err
	}
	if itemCount < 1 {
		return nil, invalid("item count must be positive, got %d", itemCount)
	}
	if itemCount*itemCount < params.K {
		return nil, invalid("k=%d exceeds squared item count %d", params.K, itemCount*itemCount)
	}

	singletons := I.Singletons(itemCount)
	survivors := singletons
	levelOneSamples := 0
	if params.K < itemCount {
		levelOne, err := topK(store, singletons, params, rng)
		if err != nil {
			return nil, err
		}
		survivors = levelOne.Itemsets
		levelOneSamples = levelOne.Samples
	}

	pairs := I.Pairs(survivors)
	logCtx := log.WithFields(log.Fields{"items": itemCount, "k": params.K,
		"survivors": len(survivors), "pairs": len(pairs)})
	if len(pairs) == 0 {
		logCtx.Warn("No pair candidates.")
		return &Result{Itemsets: []I.Itemset{}, Frequencies: []float64{},
			Samples: levelOneSamples, Provenance: ProvenanceExact, Reason: StopExhausted}, nil
	}

	levelTwo, err := topK(store, pairs, params, rng)
	if err != nil {
		return nil, err
	}
	levelTwo.Samples += levelOneSamples
	logCtx.WithField("samples", levelTwo.Samples).Debug("Apriori level two done.")
	return levelTwo, nil
}
