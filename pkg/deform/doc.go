// Package deform computes and applies the row/column reordering and
// partitioning of a heatmap matrix.
//
// A [Deformation] is bound to one source matrix. Callers configure each axis
// in any combination of three ways:
//
//   - clustering: [Deformation.SetCluster] plus optional linkage parameters;
//     the leaf order of the merge tree becomes the axis permutation
//   - labels: [SplitByLabels] groups equal labels together (by first
//     appearance or a caller order) and cuts the axis at every label change
//   - explicit cuts: [Deformation.SetSplitRow] / [Deformation.SetSplitCol]
//     with breakpoints into the already-permuted order
//
// When an axis is both split and clustered, each segment is clustered on its
// own so the groups stay contiguous.
//
// Clustering runs lazily the first time an order or dendrogram is requested
// and is memoised until the axis configuration changes.
//
// The transform functions ([TransformRow], [TransformCol], [Transform] and the
// vector variants) apply the permutation and partition to arbitrary data of
// matching shape, returning one block per segment. An unsplit axis yields a
// single block, so callers handle both cases uniformly.
//
// A Deformation is not safe for concurrent mutation. Once configured, the
// query and transform functions only read the memoised result.
package deform
