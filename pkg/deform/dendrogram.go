package deform

import "github.com/matzehuels/heatgrid/pkg/cluster"

// Dendrogram is the clustering result of one axis. An unsplit axis has a
// single group; a split axis has one group per segment, each clustered on
// its own.
type Dendrogram struct {
	Axis   Axis
	Groups []Group
}

// Group is the merge tree of one contiguous segment of the ordered axis.
type Group struct {
	// Start is the position of the segment's first leaf in the final order.
	Start int
	// Members are the source indices clustered, in pre-clustering order;
	// tree leaf i refers to Members[i].
	Members []int
	Tree    *cluster.Tree
}

// Height returns the tallest merge across all groups.
func (d *Dendrogram) Height() float64 {
	var h float64
	for _, g := range d.Groups {
		h = max(h, g.Tree.Height())
	}
	return h
}

// Links returns the drawing segments of every group. pos maps a position in
// the final axis order to a coordinate.
func (d *Dendrogram) Links(pos func(i int) float64) []cluster.Link {
	var links []cluster.Link
	for _, g := range d.Groups {
		start := g.Start
		links = append(links, g.Tree.Links(func(k int) float64 { return pos(start + k) })...)
	}
	return links
}
