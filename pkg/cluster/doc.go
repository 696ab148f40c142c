// Package cluster implements agglomerative hierarchical clustering, the
// routine the deformation engine uses to order matrix rows and columns.
//
// # Overview
//
// [Linkage] takes a matrix whose rows are observations, computes pairwise
// distances with a [Metric], and repeatedly merges the two closest clusters
// according to a [Method] (Lance-Williams updates). The result is a [Tree]:
//
//   - Merges: n-1 merge records; ids < n are leaves, id n+i is the cluster
//     formed by merge i
//   - LeafOrder: the left-to-right leaf order of the dendrogram, used as the
//     row (or column) permutation of the heatmap
//
// # Usage
//
//	tree, err := cluster.Linkage(m, cluster.Average, cluster.Euclidean)
//	order := tree.LeafOrder()
//
// To cluster columns, pass the transpose:
//
//	tree, err := cluster.Linkage(m.T(), cluster.Ward, cluster.Euclidean)
//
// The [Clusterer] interface lets callers plug in another implementation; the
// deformation engine only depends on the interface.
//
// # Visualisation
//
// [Tree.ToDOT] emits a Graphviz digraph and [RenderSVG] renders it, which is
// useful for inspecting merge structure outside a figure.
package cluster
