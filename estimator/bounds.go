package estimator

import (
	"math"

	U "itemfreq/util"
)

// NewBoundSampleSize is the union bound sample size
// ceil((ln(2m) - ln delta) / (2 eps^2)) for m candidates.
func NewBoundSampleSize(candidates int, epsilon, delta float64) int {
	return U.CeilToInt((math.Log(2*float64(candidates)) - math.Log(delta)) / (2 * epsilon * epsilon))
}

// RUInitialBatch is ceil(2 ln(2/delta) / eps^2).
func RUInitialBatch(epsilon, delta float64) int {
	return U.CeilToInt(2 * math.Log(2/delta) / (epsilon * epsilon))
}

// ruVarianceTerm is 2 sqrt(w) sqrt(2 ln m), where w is the largest
// empirical frequency.
func ruVarianceTerm(maxFrequency float64, candidates int) float64 {
	if candidates < 1 {
		return 0
	}
	return 2 * math.Sqrt(maxFrequency) * math.Sqrt(2*math.Log(float64(candidates)))
}

// RUDeviation is the empirical bound
// 2 sqrt(w) sqrt(2 ln m) + sqrt(2 ln(2/delta) / n).
func RUDeviation(maxFrequency float64, n, candidates int, delta float64) float64 {
	return ruVarianceTerm(maxFrequency, candidates) + math.Sqrt(2*math.Log(2/delta)/float64(n))
}

// RUNextBatch returns how many more samples the RU recurrence asks for
// after n draws. A non-positive slack doubles n.
func RUNextBatch(maxFrequency float64, n, candidates int, epsilon, delta float64) int {
	slack := epsilon - ruVarianceTerm(maxFrequency, candidates)
	if slack <= 0 {
		return n
	}
	return U.CeilToInt(2*math.Log(2/delta)/(slack*slack)) - n
}

// SeparationErrorProb sums exp(-2/n (c_i - middle)^2) over the counts
// sorted in descending order, where middle is halfway between the k-th and
// (k+1)-th count. Past position k the scan stops as soon as the sum already
// exceeds delta, or when the remaining terms, each at most the current
// one, cannot push it above delta. It returns the partial sum and the number
// of positions scanned.
func SeparationErrorProb(counts []int, n, k int, delta float64) (float64, int) {
	m := len(counts)
	if k >= m || n <= 0 {
		return 0, 0
	}
	sorted := make([]int, m)
	copy(sorted, counts)
	sortDescending(sorted)

	middle := float64(sorted[k-1]+sorted[k]) / 2
	errorProb := 0.0
	scanned := 0
	for i := 0; i < m; i++ {
		dProb := expTerm(float64(sorted[i])-middle, n)
		errorProb += dProb
		scanned++
		if i >= k {
			if errorProb > delta {
				break
			}
			if errorProb+float64(m-i-1)*dProb <= delta {
				break
			}
		}
	}
	return errorProb, scanned
}

func sortDescending(values []int) {
	order := U.RankByCount(values)
	sorted := make([]int, len(values))
	for i, idx := range order {
		sorted[i] = values[idx]
	}
	copy(values, sorted)
}

func expTerm(diff float64, n int) float64 {
	return math.Exp(-2 / float64(n) * diff * diff)
}
