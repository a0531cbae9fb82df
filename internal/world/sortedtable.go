// Package world holds the compact, hierarchical address index (the "World")
// built by the compression stage and served read-only by the query engine.
package world

import "sort"

// SortedTable is an immutable, ascending, deduplicated sequence of
// comparable values. It is the backing store for the root interning
// tables (streets, house numbers); the nested container levels are
// plain slices. It sorts and dedups once on construction
// and exposes binary-search lookups afterward.
type SortedTable[T comparable] struct {
	items []T
	less  func(a, b T) bool
}

// NewSortedTable builds a SortedTable from an unsorted, possibly
// duplicate-containing slice, using less for ordering. The input slice
// is not mutated; a fresh deduplicated, sorted copy is produced.
func NewSortedTable[T comparable](items []T, less func(a, b T) bool) *SortedTable[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	sort.Slice(cp, func(i, j int) bool { return less(cp[i], cp[j]) })

	out := cp[:0]
	for i, v := range cp {
		if i == 0 || !equalUnder(less, out[len(out)-1], v) {
			out = append(out, v)
		}
	}
	return &SortedTable[T]{items: out, less: less}
}

func equalUnder[T comparable](less func(a, b T) bool, a, b T) bool {
	return !less(a, b) && !less(b, a)
}

// Len returns the number of unique items.
func (t *SortedTable[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.items)
}

// At returns the item at index i. Panics if i is out of range, mirroring
// slice indexing semantics.
func (t *SortedTable[T]) At(i int) T {
	return t.items[i]
}

// IndexOf returns the index of e and true if present, else (0, false).
// Runs in O(log n) via binary search.
func (t *SortedTable[T]) IndexOf(e T) (int, bool) {
	if t == nil {
		return 0, false
	}
	lo, hi := 0, len(t.items)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case t.less(t.items[mid], e):
			lo = mid + 1
		case t.less(e, t.items[mid]):
			hi = mid
		default:
			return mid, true
		}
	}
	return 0, false
}

// Items exposes the underlying sorted slice for iteration. Callers must
// not mutate it.
func (t *SortedTable[T]) Items() []T {
	if t == nil {
		return nil
	}
	return t.items
}
