// Package internal holds iterator helpers shared by the analysis packages.
package internal

import (
	"iter"
)

// IterSeqConcat yields every value of each sequence in turn.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return
				}
			}
		}
	}
}

// IterSeqFilter yields the values of seq for which keep is true.
func IterSeqFilter[T any](seq iter.Seq[T], keep func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for val := range seq {
			if keep(val) && !yield(val) {
				return
			}
		}
	}
}
