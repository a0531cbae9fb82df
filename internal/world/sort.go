package world

import "sort"

// sortByUint sorts s in place by a uint32 key extractor.
func sortByUint[T any](s []T, key func(T) uint32) {
	sort.Slice(s, func(i, j int) bool { return key(s[i]) < key(s[j]) })
}

// sortSlice sorts s in place with an explicit less function.
func sortSlice[T any](s []T, less func(a, b T) bool) {
	sort.Slice(s, func(i, j int) bool { return less(s[i], s[j]) })
}
