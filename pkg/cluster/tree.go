package cluster

import "slices"

// Merge is one agglomeration step. Left and Right are cluster ids (leaf ids
// are < n, merge i creates id n+i) with Left < Right.
type Merge struct {
	Left, Right int
	Distance    float64
	Size        int
}

// Tree is the merge tree produced by [Linkage].
type Tree struct {
	n      int
	merges []Merge
	order  []int
}

// NewTree builds a Tree from merge records, for callers that run their own
// clustering. merges must describe a complete tree over n leaves.
func NewTree(n int, merges []Merge) *Tree {
	return newTree(n, slices.Clone(merges))
}

func newTree(n int, merges []Merge) *Tree {
	t := &Tree{n: n, merges: merges}
	t.order = t.leafOrder()
	return t
}

// Leaves returns the number of observations.
func (t *Tree) Leaves() int { return t.n }

// Merges returns a copy of the merge records in agglomeration order.
func (t *Tree) Merges() []Merge { return slices.Clone(t.merges) }

// LeafOrder returns a copy of the dendrogram's left-to-right leaf order.
// It is a permutation of [0, Leaves()).
func (t *Tree) LeafOrder() []int { return slices.Clone(t.order) }

// Height returns the distance of the final merge, or 0 for a single leaf.
func (t *Tree) Height() float64 {
	var h float64
	for _, m := range t.merges {
		h = max(h, m.Distance)
	}
	return h
}

// children returns the two cluster ids merged into id, or ok=false for a leaf.
func (t *Tree) children(id int) (left, right int, ok bool) {
	if id < t.n {
		return 0, 0, false
	}
	m := t.merges[id-t.n]
	return m.Left, m.Right, true
}

func (t *Tree) leafOrder() []int {
	if t.n == 0 {
		return nil
	}
	if len(t.merges) == 0 {
		return []int{0}
	}

	order := make([]int, 0, t.n)
	stack := []int{t.n + len(t.merges) - 1}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		left, right, ok := t.children(id)
		if !ok {
			order = append(order, id)
			continue
		}
		stack = append(stack, right, left)
	}
	return order
}

// Link is one inverted-U segment of a drawn dendrogram: two vertical legs at
// the children's positions joined at the merge height.
type Link struct {
	LeftPos, RightPos       float64
	LeftHeight, RightHeight float64
	Height                  float64
}

// Links returns the drawing segments of the tree. pos maps a position in
// LeafOrder (0 for the first drawn leaf) to a coordinate; a merged cluster
// sits midway between its children. Leaves have height 0.
func (t *Tree) Links(pos func(k int) float64) []Link {
	if len(t.merges) == 0 {
		return nil
	}

	x := make([]float64, t.n+len(t.merges))
	h := make([]float64, t.n+len(t.merges))
	for k, leaf := range t.order {
		x[leaf] = pos(k)
	}

	links := make([]Link, len(t.merges))
	for i, m := range t.merges {
		id := t.n + i
		x[id] = (x[m.Left] + x[m.Right]) / 2
		h[id] = m.Distance

		l, r := m.Left, m.Right
		if x[l] > x[r] {
			l, r = r, l
		}
		links[i] = Link{
			LeftPos:     x[l],
			RightPos:    x[r],
			LeftHeight:  h[l],
			RightHeight: h[r],
			Height:      m.Distance,
		}
	}
	return links
}
