package transaction

import "sort"

// Transaction is an immutable set of item ids.
type Transaction struct {
	items map[int]struct{}
	// sorted copy kept for iteration.
	sorted []int
}

func New(items ...int) Transaction {
	set := make(map[int]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	sorted := make([]int, 0, len(set))
	for item := range set {
		sorted = append(sorted, item)
	}
	sort.Ints(sorted)
	return Transaction{items: set, sorted: sorted}
}

// Contains reports whether every given item is present. An empty
// argument list is contained in every transaction.
func (t Transaction) Contains(items ...int) bool {
	for _, item := range items {
		if _, exists := t.items[item]; !exists {
			return false
		}
	}
	return true
}

func (t Transaction) Len() int {
	return len(t.sorted)
}

// Items returns the item ids in ascending order. The slice must not be modified.
func (t Transaction) Items() []int {
	return t.sorted
}
