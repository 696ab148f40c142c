package perm

import "github.com/matzehuels/heatgrid/pkg/errors"

// GroupBy returns the permutation that gathers equal labels together.
//
// Within a group, indices keep their original relative order. Groups are
// ordered by first appearance in labels, or by order when it is non-nil. A
// non-nil order must list every distinct label exactly once; anything else
// would drop or duplicate indices, so it is rejected with
// [errors.ErrCodeInvalidPerm].
//
//	GroupBy([]string{"a", "a", "b", "b", "b", "a"}, nil)              // [0 1 5 2 3 4]
//	GroupBy([]string{"a", "a", "b", "b", "b", "a"}, []string{"b", "a"}) // [2 3 4 0 1 5]
func GroupBy[T comparable](labels []T, order []T) ([]int, error) {
	indices := make(map[T][]int)
	var firstSeen []T
	for i, l := range labels {
		if _, ok := indices[l]; !ok {
			firstSeen = append(firstSeen, l)
		}
		indices[l] = append(indices[l], i)
	}

	groups := firstSeen
	if order != nil {
		listed := make(map[T]bool, len(order))
		for _, l := range order {
			if listed[l] {
				return nil, errors.New(errors.ErrCodeInvalidPerm, "group order lists %v more than once", l)
			}
			if _, ok := indices[l]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidPerm, "group order lists unknown label %v", l)
			}
			listed[l] = true
		}
		if len(listed) != len(indices) {
			var missing []T
			for _, l := range firstSeen {
				if !listed[l] {
					missing = append(missing, l)
				}
			}
			return nil, errors.New(errors.ErrCodeInvalidPerm, "group order is missing labels %v", missing)
		}
		groups = order
	}

	result := make([]int, 0, len(labels))
	for _, l := range groups {
		result = append(result, indices[l]...)
	}
	return result, nil
}

// Breakpoints returns the positions where consecutive labels differ.
// Each breakpoint is the index of the first element of a new segment, so the
// result is strictly increasing and lies within (0, len(labels)).
func Breakpoints[T comparable](labels []T) []int {
	var bp []int
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			bp = append(bp, i)
		}
	}
	return bp
}

// ValidateBreakpoints checks that bp is strictly increasing and every entry is
// strictly within (0, n). An empty bp is valid and means "one segment".
//
// The returned error carries [errors.ErrCodeInvalidRatio].
func ValidateBreakpoints(bp []int, n int) error {
	prev := 0
	for i, b := range bp {
		if b <= 0 || b >= n {
			return errors.New(errors.ErrCodeInvalidRatio, "breakpoint %d is outside (0, %d)", b, n)
		}
		if i > 0 && b <= prev {
			return errors.New(errors.ErrCodeInvalidRatio, "breakpoints must be strictly increasing: %v", bp)
		}
		prev = b
	}
	return nil
}

// Ratios returns the segment lengths delimited by bp over n elements. The
// result has len(bp)+1 positive entries summing to n when bp is valid.
//
//	Ratios([]int{5}, 20) // [5 15]
//	Ratios(nil, 20)      // [20]
func Ratios(bp []int, n int) []int {
	ratios := make([]int, 0, len(bp)+1)
	prev := 0
	for _, b := range bp {
		ratios = append(ratios, b-prev)
		prev = b
	}
	return append(ratios, n-prev)
}

// Bounds returns the half-open [start, end) range of every segment.
func Bounds(bp []int, n int) [][2]int {
	bounds := make([][2]int, 0, len(bp)+1)
	prev := 0
	for _, b := range bp {
		bounds = append(bounds, [2]int{prev, b})
		prev = b
	}
	return append(bounds, [2]int{prev, n})
}

// Floats converts integer ratios to float64 weights.
func Floats(ratios []int) []float64 {
	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = float64(r)
	}
	return out
}
