package harness

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	E "itemfreq/estimator"
	M "itemfreq/metrics"
	T "itemfreq/transaction"
	U "itemfreq/util"
)

// Harness runs the Apriori pipeline with several top-K algorithms over
// one dataset and scores them against the exact pipeline.
type Harness struct {
	Dataset   string
	ItemCount int
	Params    E.Params

	store      *T.Store
	exactCache ExactCache
}

func New(dataset string, store *T.Store, itemCount int, params E.Params) (*Harness, error) {
	if store.Count() == 0 {
		return nil, errors.Wrap(T.ErrEmptyStore, dataset)
	}
	if itemCount < 1 {
		itemCount = store.MaxItem()
	}
	return &Harness{Dataset: dataset, ItemCount: itemCount, Params: params, store: store}, nil
}

// WithExactCache makes the harness reuse exact results across runs.
func (h *Harness) WithExactCache(cache ExactCache) *Harness {
	h.exactCache = cache
	return h
}

// Outcome is one algorithm's result in one trial.
type Outcome struct {
	Algorithm  string    `json:"algorithm"`
	Trial      int       `json:"trial"`
	Params     E.Params  `json:"params"`
	Result     *E.Result `json:"result"`
	ElapsedMs  float64   `json:"elapsed_ms"`
	Precision  float64   `json:"precision"`
	WorstError float64   `json:"worst_error"`
	Err        string    `json:"error,omitempty"`
}

// Exact runs the exact pipeline, going through the cache when one is set.
func (h *Harness) Exact() (*E.Result, time.Duration, error) {
	if h.exactCache != nil {
		if result, found := h.exactCache.Get(h.Dataset, h.store.Fingerprint(), h.ItemCount, h.Params.K); found {
			return result, 0, nil
		}
	}
	start := time.Now()
	result, err := E.AprioriTopK(h.store, h.ItemCount, h.Params, E.ExactTopK, nil)
	if err != nil {
		return nil, 0, err
	}
	elapsed := time.Since(start)
	if h.exactCache != nil {
		h.exactCache.Set(h.Dataset, h.store.Fingerprint(), h.ItemCount, h.Params.K, result)
	}
	return result, elapsed, nil
}

func (h *Harness) runOne(algorithm string, params E.Params, trial int, seed int64,
	exact *E.Result) *Outcome {

	outcome := &Outcome{Algorithm: algorithm, Trial: trial, Params: params}
	logCtx := log.WithFields(log.Fields{"dataset": h.Dataset, "algorithm": algorithm, "trial": trial})

	topK, err := GetAlgorithm(algorithm)
	if err != nil {
		outcome.Err = err.Error()
		return outcome
	}

	rng := U.NewRand(U.DeriveSeed(seed, algorithmIndex(algorithm)))
	start := time.Now()
	result, err := E.AprioriTopK(h.store, h.ItemCount, params, topK, rng)
	elapsed := time.Since(start)
	if err != nil {
		logCtx.WithError(err).Error("Top-k pipeline failed.")
		outcome.Err = err.Error()
		return outcome
	}
	outcome.Result = result
	outcome.ElapsedMs = float64(elapsed) / float64(time.Millisecond)

	outcome.Precision, err = Precision(result.Itemsets, exact.Itemsets)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to compute precision.")
		outcome.Err = err.Error()
	}
	if len(result.Itemsets) > 0 {
		trueFreqs, _, err := E.ExactFrequencies(h.store, result.Itemsets)
		if err == nil {
			outcome.WorstError, _ = E.WorstError(result.Frequencies, trueFreqs)
		}
	}

	M.Increment(M.IncrTopKRuns)
	M.RecordLatency(M.LatencyTopK, algorithm, outcome.ElapsedMs)
	M.CountInt(M.CountTopKSamples, algorithm, int64(result.Samples))
	M.CountFloat(M.CountTopKPrecision, algorithm, outcome.Precision)
	if result.Provenance == E.ProvenanceExact && algorithm != string(E.ProvenanceExact) {
		M.Increment(M.IncrExactFallback)
	}
	if result.Reason == E.StopBudget {
		M.Increment(M.IncrBudgetStop)
	}

	logCtx.WithFields(log.Fields{"samples": result.Samples, "precision": outcome.Precision,
		"elapsed_ms": outcome.ElapsedMs, "provenance": result.Provenance,
		"reason": result.Reason}).Info("Top-k pipeline done.")
	return outcome
}

// RunTrial runs every algorithm concurrently against a shared exact result.
// Each algorithm draws from its own source derived from seed.
func (h *Harness) RunTrial(algorithms []string, trial int, seed int64, exact *E.Result) []*Outcome {
	return h.runAll(algorithms, h.Params, trial, seed, exact)
}

func (h *Harness) runAll(algorithms []string, params E.Params, trial int, seed int64,
	exact *E.Result) []*Outcome {

	outcomes := make([]*Outcome, len(algorithms))
	var wg sync.WaitGroup
	wg.Add(len(algorithms))
	for i, algorithm := range algorithms {
		go func(i int, algorithm string) {
			defer wg.Done()
			outcomes[i] = h.runOne(algorithm, params, trial, seed, exact)
		}(i, algorithm)
	}
	wg.Wait()
	return outcomes
}

// Run computes the exact pipeline once and then runs trials of every
// algorithm. Trial t uses seed DeriveSeed(seed, t).
func (h *Harness) Run(runID string, algorithms []string, trials int, seed int64) (*Report, error) {
	if err := ValidateAlgorithms(algorithms); err != nil {
		return nil, err
	}
	if trials < 1 {
		trials = 1
	}

	exact, exactElapsed, err := h.Exact()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:          runID,
		Dataset:        h.Dataset,
		Transactions:   h.store.Count(),
		ItemCount:      h.ItemCount,
		Params:         h.Params,
		Seed:           seed,
		Trials:         trials,
		Algorithms:     algorithms,
		Exact:          exact,
		ExactElapsedMs: float64(exactElapsed) / float64(time.Millisecond),
		CreatedAt:      time.Now().UTC(),
		Outcomes:       make([]*Outcome, 0, trials*len(algorithms)),
	}
	for trial := 0; trial < trials; trial++ {
		report.Outcomes = append(report.Outcomes,
			h.RunTrial(algorithms, trial, U.DeriveSeed(seed, trial), exact)...)
	}
	report.Summaries = Summarize(report.Outcomes)

	report.FixedSample, err = h.FixedSample(exact, 0, seed)
	if err != nil {
		log.WithError(err).WithField("dataset", h.Dataset).Warn("Skipped fixed sample baseline.")
	}
	return report, nil
}
