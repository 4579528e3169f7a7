package internal

import (
	"iter"
	"maps"
	"slices"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// SortedDefines returns the define names of a sequence in sorted order,
// so that dumps and help text are stable between runs.
func SortedDefines[T any](seq iter.Seq2[string, T]) (names []string) {
	return slices.Sorted(maps.Keys(maps.Collect(seq)))
}
