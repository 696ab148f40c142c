package perm

import "github.com/matzehuels/heatgrid/pkg/errors"

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// This is the identity permutation of length n.
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Validate checks that p is a total bijection over [0, n): it has length n
// and every index in range appears exactly once.
//
// The returned error carries [errors.ErrCodeInvalidPerm].
func Validate(p []int, n int) error {
	if len(p) != n {
		return errors.New(errors.ErrCodeInvalidPerm, "permutation has %d entries, want %d", len(p), n)
	}
	seen := make([]bool, n)
	for pos, idx := range p {
		if idx < 0 || idx >= n {
			return errors.New(errors.ErrCodeInvalidPerm, "index %d at position %d is outside [0, %d)", idx, pos, n)
		}
		if seen[idx] {
			return errors.New(errors.ErrCodeInvalidPerm, "index %d appears more than once", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Apply returns a new slice with items reordered so that result[i] = items[p[i]].
// The input is not modified.
func Apply[T any](items []T, p []int) []T {
	result := make([]T, len(p))
	for i, idx := range p {
		result[i] = items[idx]
	}
	return result
}
