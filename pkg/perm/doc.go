// Package perm provides the permutation and partition arithmetic shared by the
// deformation engine and the grid layout engine.
//
// # Overview
//
// Reordering a matrix and cutting it into aligned blocks needs three small,
// well-defined pieces of arithmetic:
//
//   - Permutations: an ordering of [0, n) that is a total bijection
//     ([Seq], [Validate], [Apply])
//   - Grouping: a permutation that gathers equal labels together while
//     preserving each group's original relative order ([GroupBy])
//   - Partitions: breakpoints in permuted order and the segment lengths
//     ("ratios") between them ([Breakpoints], [Ratios], [Bounds])
//
// # Labels to Blocks
//
// Given row labels ["a", "a", "b", "b", "b", "a"]:
//
//	order, _ := perm.GroupBy(labels, nil)      // [0 1 5 2 3 4]
//	grouped := perm.Apply(labels, order)       // [a a a b b b]
//	bp := perm.Breakpoints(grouped)            // [3]
//	ratios := perm.Ratios(bp, len(labels))     // [3 3]
//
// The ratios feed the grid's split plans so that every aligned panel is cut
// at the same positions as the main matrix.
package perm
