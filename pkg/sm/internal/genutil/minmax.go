// Package genutil holds the handful of generic numeric helpers the rest of
// pkg/sm needs, adapted from the teacher's pkg/utils array helpers down to
// just the ordered-constraint pair actually exercised here.
package genutil

import "golang.org/x/exp/constraints"

// Min returns the smallest value in input. Panics on an empty input, same
// as the teacher's pkg/utils.Min.
func Min[T constraints.Ordered](input []T) T {
	m := input[0]
	for _, v := range input[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value in input. Panics on an empty input, same
// as the teacher's pkg/utils.Max.
func Max[T constraints.Ordered](input []T) T {
	m := input[0]
	for _, v := range input[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
