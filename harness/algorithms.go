package harness

import (
	"github.com/pkg/errors"

	E "itemfreq/estimator"
	I "itemfreq/itemset"
	U "itemfreq/util"
)

var (
	ErrEmptyResult      = errors.New("approximate result is empty")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// AlgorithmNames lists the registered algorithms in seed derivation order.
var AlgorithmNames = []string{
	string(E.ProvenanceExact),
	string(E.ProvenanceNewBound),
	string(E.ProvenanceRU),
	string(E.ProvenanceProgressive),
	string(E.ProvenanceRUProgressive),
}

var algorithms = map[string]E.TopKFunc{
	string(E.ProvenanceExact):         E.ExactTopK,
	string(E.ProvenanceNewBound):      E.NewBoundTopK,
	string(E.ProvenanceRU):            E.RUTopK,
	string(E.ProvenanceProgressive):   E.ProgressiveTopK,
	string(E.ProvenanceRUProgressive): E.RUProgressiveTopK,
}

func GetAlgorithm(name string) (E.TopKFunc, error) {
	topK, exists := algorithms[name]
	if !exists {
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%s", name)
	}
	return topK, nil
}

// ValidateAlgorithms rejects names outside AlgorithmNames. Names are
// case sensitive.
func ValidateAlgorithms(names []string) error {
	if len(names) == 0 {
		return errors.Wrap(ErrUnknownAlgorithm, "no algorithms given")
	}
	for _, name := range names {
		if !U.ContainsStringInArray(AlgorithmNames, name) {
			return errors.Wrapf(ErrUnknownAlgorithm, "%s", name)
		}
	}
	return nil
}

func algorithmIndex(name string) int {
	for i, n := range AlgorithmNames {
		if n == name {
			return i
		}
	}
	return len(AlgorithmNames)
}

// Precision is the share of approx found in exact, comparing itemsets by
// structural identity.
func Precision(approx, exact []I.Itemset) (float64, error) {
	if len(approx) == 0 {
		return 0, ErrEmptyResult
	}
	exactKeys := I.Keys(exact)
	hits := 0
	for _, s := range approx {
		if exactKeys[s.Key()] {
			hits++
		}
	}
	return float64(hits) / float64(len(approx)), nil
}
