package itemset

import (
	"sort"
	"strconv"
	"strings"

	T "itemfreq/transaction"
)

// Itemset is an ordered sequence of distinct item ids.
type Itemset []int

func New(items ...int) Itemset {
	set := make(Itemset, len(items))
	copy(set, items)
	return set
}

// Key is the structural identity used for maps and set comparison.
// The ids are joined in their stored order.
func (s Itemset) Key() string {
	parts := make([]string, len(s))
	for i, item := range s {
		parts[i] = strconv.Itoa(item)
	}
	return strings.Join(parts, ",")
}

func (s Itemset) String() string {
	return "{" + s.Key() + "}"
}

func (s Itemset) ContainedIn(t T.Transaction) bool {
	return t.Contains(s...)
}

func (s Itemset) Equal(other Itemset) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Less orders itemsets lexicographically, shorter prefix first.
func Less(a, b Itemset) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func SortLexicographic(sets []Itemset) {
	sort.SliceStable(sets, func(i, j int) bool {
		return Less(sets[i], sets[j])
	})
}

// Singletons returns {1}..{itemCount}.
func Singletons(itemCount int) []Itemset {
	sets := make([]Itemset, 0, itemCount)
	for item := 1; item <= itemCount; item++ {
		sets = append(sets, Itemset{item})
	}
	return sets
}

// Pairs builds every unordered pair over the members of survivors, after
// sorting them lexicographically. Pairs are emitted in lexicographic order.
func Pairs(survivors []Itemset) []Itemset {
	sorted := make([]Itemset, len(survivors))
	copy(sorted, survivors)
	SortLexicographic(sorted)

	items := make([]int, 0, len(sorted))
	for _, s := range sorted {
		items = append(items, s...)
	}

	pairs := make([]Itemset, 0, len(items)*(len(items)-1)/2)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			pairs = append(pairs, Itemset{items[i], items[j]})
		}
	}
	return pairs
}

// PairCount is C(n, 2).
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Keys returns the structural identities of sets.
func Keys(sets []Itemset) map[string]bool {
	keys := make(map[string]bool, len(sets))
	for _, s := range sets {
		keys[s.Key()] = true
	}
	return keys
}
