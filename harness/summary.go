package harness

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the trials of one algorithm.
type Summary struct {
	Algorithm       string  `json:"algorithm"`
	Trials          int     `json:"trials"`
	Failures        int     `json:"failures"`
	MeanPrecision   float64 `json:"mean_precision"`
	StdPrecision    float64 `json:"std_precision"`
	PerfectFraction float64 `json:"perfect_fraction"`
	MeanSamples     float64 `json:"mean_samples"`
	StdSamples      float64 `json:"std_samples"`
	MaxSamples      int     `json:"max_samples"`
	MeanElapsedMs   float64 `json:"mean_elapsed_ms"`
	MeanWorstError  float64 `json:"mean_worst_error"`
}

// Summarize groups outcomes by algorithm, in order of first appearance.
// Failed outcomes are counted but left out of the statistics.
func Summarize(outcomes []*Outcome) []Summary {
	order := make([]string, 0)
	groups := make(map[string][]*Outcome)
	for _, o := range outcomes {
		if _, exists := groups[o.Algorithm]; !exists {
			order = append(order, o.Algorithm)
		}
		groups[o.Algorithm] = append(groups[o.Algorithm], o)
	}

	summaries := make([]Summary, 0, len(order))
	for _, algorithm := range order {
		summary := Summary{Algorithm: algorithm}
		var precisions, samples, elapsed, worst []float64
		perfect := 0
		for _, o := range groups[algorithm] {
			summary.Trials++
			if o.Err != "" || o.Result == nil {
				summary.Failures++
				continue
			}
			precisions = append(precisions, o.Precision)
			samples = append(samples, float64(o.Result.Samples))
			elapsed = append(elapsed, o.ElapsedMs)
			worst = append(worst, o.WorstError)
			if o.Precision == 1 {
				perfect++
			}
			if o.Result.Samples > summary.MaxSamples {
				summary.MaxSamples = o.Result.Samples
			}
		}
		if len(precisions) > 0 {
			summary.MeanPrecision, summary.StdPrecision = meanStd(precisions)
			summary.MeanSamples, summary.StdSamples = meanStd(samples)
			summary.MeanElapsedMs = stat.Mean(elapsed, nil)
			summary.MeanWorstError = stat.Mean(worst, nil)
			summary.PerfectFraction = float64(perfect) / float64(len(precisions))
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// meanStd returns a zero deviation for a single observation instead of NaN.
func meanStd(values []float64) (float64, float64) {
	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
