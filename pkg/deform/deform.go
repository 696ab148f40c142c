package deform

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/heatgrid/pkg/cluster"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/perm"
)

// Axis selects rows or columns of the source matrix.
type Axis int

const (
	Row Axis = iota
	Col
)

func (a Axis) String() string {
	if a == Col {
		return "col"
	}
	return "row"
}

// Default gap fraction between adjacent segments of a split axis.
const DefaultSpacing = 0.01

// Option configures a Deformation.
type Option func(*Deformation)

// WithClusterer replaces the default agglomerative clustering routine.
func WithClusterer(c cluster.Clusterer) Option {
	return func(d *Deformation) {
		if c != nil {
			d.clusterer = c
		}
	}
}

// Deformation holds the reordering and partition plan for one matrix.
type Deformation struct {
	data      mat.Matrix
	clusterer cluster.Clusterer
	row, col  axisState

	// HSpace and WSpace are the gap fractions between row segments and
	// column segments respectively.
	HSpace, WSpace float64
}

type axisState struct {
	n int

	cluster   bool
	method    cluster.Method
	metric    cluster.Metric
	paramsSet bool

	reindex     []int
	breakpoints []int
	split       bool

	memo result
}

// result is the memoised outcome of ordering an axis.
type result struct {
	done   bool
	order  []int
	dendro *Dendrogram
	err    error
}

func (s *axisState) invalidate() { s.memo = result{} }

// New creates a Deformation over data. Rows and columns of data define the
// lengths of the two axes.
func New(data mat.Matrix, opts ...Option) *Deformation {
	r, c := data.Dims()
	d := &Deformation{
		data:      data,
		clusterer: cluster.Agglomerative{},
		row:       axisState{n: r},
		col:       axisState{n: c},
		HSpace:    DefaultSpacing,
		WSpace:    DefaultSpacing,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clone returns an independent copy sharing only the read-only source
// matrix and the clusterer. Memoised clustering results are shared since
// they are never mutated.
func (d *Deformation) Clone() *Deformation {
	c := *d
	c.row = d.row.clone()
	c.col = d.col.clone()
	return &c
}

func (s axisState) clone() axisState {
	s.reindex = slices.Clone(s.reindex)
	s.breakpoints = slices.Clone(s.breakpoints)
	return s
}

// Dims returns the number of rows and columns of the source matrix.
func (d *Deformation) Dims() (rows, cols int) { return d.row.n, d.col.n }

// Data returns the source matrix.
func (d *Deformation) Data() mat.Matrix { return d.data }

func (d *Deformation) axis(a Axis) *axisState {
	if a == Col {
		return &d.col
	}
	return &d.row
}

// SetCluster marks axes for hierarchical clustering. A false argument leaves
// that axis unchanged.
func (d *Deformation) SetCluster(row, col bool) {
	if row && !d.row.cluster {
		d.row.cluster = true
		d.row.invalidate()
	}
	if col && !d.col.cluster {
		d.col.cluster = true
		d.col.invalidate()
	}
}

// IsClustered reports whether axis a is ordered by clustering.
func (d *Deformation) IsClustered(a Axis) bool { return d.axis(a).cluster }

// SetRowClusterParams records the linkage method and metric for rows.
func (d *Deformation) SetRowClusterParams(method, metric string) error {
	return d.setClusterParams(Row, method, metric)
}

// SetColClusterParams records the linkage method and metric for columns.
func (d *Deformation) SetColClusterParams(method, metric string) error {
	return d.setClusterParams(Col, method, metric)
}

// setClusterParams keeps the first non-empty parameters for an axis. Later
// calls that are empty or repeat the same parameters are no-ops; later calls
// asking for different parameters fail with CLUSTER_CONFLICT.
func (d *Deformation) setClusterParams(a Axis, method, metric string) error {
	if method == "" && metric == "" {
		return nil
	}
	m, err := cluster.ParseMethod(method)
	if err != nil {
		return err
	}
	dm, err := cluster.ParseMetric(metric)
	if err != nil {
		return err
	}

	s := d.axis(a)
	if s.paramsSet {
		if s.method == m && s.metric == dm {
			return nil
		}
		return errors.New(errors.ErrCodeClusterConflict,
			"%s clustering already configured as %s/%s, cannot change to %s/%s",
			a, s.method, s.metric, m, dm)
	}
	s.method, s.metric, s.paramsSet = m, dm, true
	s.invalidate()
	return nil
}

// ClusterParams returns the effective linkage parameters for axis a.
func (d *Deformation) ClusterParams(a Axis) (cluster.Method, cluster.Metric) {
	s := d.axis(a)
	if !s.paramsSet {
		return cluster.DefaultMethod, cluster.DefaultMetric
	}
	return s.method, s.metric
}

// SetSplitRow partitions rows at breakpoints, given as indices into the
// permuted row order.
func (d *Deformation) SetSplitRow(breakpoints []int) error {
	return d.setSplit(Row, breakpoints)
}

// SetSplitCol partitions columns at breakpoints.
func (d *Deformation) SetSplitCol(breakpoints []int) error {
	return d.setSplit(Col, breakpoints)
}

func (d *Deformation) setSplit(a Axis, breakpoints []int) error {
	s := d.axis(a)
	if s.split {
		return errors.New(errors.ErrCodeSplitTwice, "%s axis is already split", a)
	}
	if err := perm.ValidateBreakpoints(breakpoints, s.n); err != nil {
		return err
	}
	s.breakpoints = slices.Clone(breakpoints)
	s.split = true
	s.invalidate()
	return nil
}

// SetRowReindex supplies an explicit row permutation.
func (d *Deformation) SetRowReindex(p []int) error {
	return d.setReindex(Row, p)
}

// SetColReindex supplies an explicit column permutation.
func (d *Deformation) SetColReindex(p []int) error {
	return d.setReindex(Col, p)
}

// setReindex fails once the axis is split, since the breakpoints refer to
// the order in place at split time.
func (d *Deformation) setReindex(a Axis, p []int) error {
	s := d.axis(a)
	if s.split {
		return errors.New(errors.ErrCodeSplitTwice, "%s axis is already split, cannot reindex", a)
	}
	if err := perm.Validate(p, s.n); err != nil {
		return err
	}
	s.reindex = slices.Clone(p)
	s.invalidate()
	return nil
}

// SplitByLabels reorders axis a so equal labels are contiguous and splits it
// at every label change. Groups follow order when given (it must list each
// distinct label exactly once) and first appearance otherwise. Reindex and
// split are applied together or not at all.
func SplitByLabels[T comparable](d *Deformation, a Axis, labels, order []T) error {
	s := d.axis(a)
	if len(labels) != s.n {
		return errors.New(errors.ErrCodeShapeMismatch, "got %d %s labels, want %d", len(labels), a, s.n)
	}
	if s.split {
		return errors.New(errors.ErrCodeSplitTwice, "%s axis is already split", a)
	}
	p, err := perm.GroupBy(labels, order)
	if err != nil {
		return err
	}
	bp := perm.Breakpoints(perm.Apply(labels, p))

	if err := d.setReindex(a, p); err != nil {
		return err
	}
	return d.setSplit(a, bp)
}

// IsSplit reports whether either axis is split.
func (d *Deformation) IsSplit() bool { return d.row.split || d.col.split }

// IsAxisSplit reports whether axis a is split.
func (d *Deformation) IsAxisSplit(a Axis) bool { return d.axis(a).split }

// Breakpoints returns a copy of the breakpoints of axis a, nil if unsplit.
func (d *Deformation) Breakpoints(a Axis) []int { return slices.Clone(d.axis(a).breakpoints) }

// Ratios returns the segment lengths of axis a. They are positive and sum
// to the axis length; an unsplit axis has a single segment.
func (d *Deformation) Ratios(a Axis) []int {
	s := d.axis(a)
	return perm.Ratios(s.breakpoints, s.n)
}

// RowRatios is shorthand for Ratios(Row).
func (d *Deformation) RowRatios() []int { return d.Ratios(Row) }

// ColRatios is shorthand for Ratios(Col).
func (d *Deformation) ColRatios() []int { return d.Ratios(Col) }

// Order returns the final permutation of axis a: result[i] is the source
// index shown at position i. It triggers clustering on first use.
func (d *Deformation) Order(a Axis) ([]int, error) {
	r := d.resolve(a)
	if r.err != nil {
		return nil, r.err
	}
	return slices.Clone(r.order), nil
}

// Dendrogram returns the merge trees of a clustered axis.
func (d *Deformation) Dendrogram(a Axis) (*Dendrogram, error) {
	if !d.axis(a).cluster {
		return nil, errors.New(errors.ErrCodeNotClustered, "%s axis is not clustered", a)
	}
	r := d.resolve(a)
	if r.err != nil {
		return nil, r.err
	}
	return r.dendro, nil
}

// RowDendrogram is shorthand for Dendrogram(Row).
func (d *Deformation) RowDendrogram() (*Dendrogram, error) { return d.Dendrogram(Row) }

// ColDendrogram is shorthand for Dendrogram(Col).
func (d *Deformation) ColDendrogram() (*Dendrogram, error) { return d.Dendrogram(Col) }

// Clustered reports whether clustering for axis a has already been computed.
func (d *Deformation) Clustered(a Axis) bool {
	s := d.axis(a)
	return s.cluster && s.memo.done && s.memo.err == nil
}

func (d *Deformation) resolve(a Axis) result {
	s := d.axis(a)
	if !s.memo.done {
		s.memo = d.compute(a)
	}
	return s.memo
}

func (d *Deformation) compute(a Axis) result {
	s := d.axis(a)
	base := s.reindex
	if base == nil {
		base = perm.Seq(s.n)
	}
	if !s.cluster {
		return result{done: true, order: base}
	}

	var src mat.Matrix = d.data
	if a == Col {
		src = d.data.T()
	}
	method, metric := d.ClusterParams(a)

	order := make([]int, 0, s.n)
	dendro := &Dendrogram{Axis: a}
	for _, b := range perm.Bounds(s.breakpoints, s.n) {
		members := slices.Clone(base[b[0]:b[1]])
		tree, err := d.clusterer.Cluster(selectRows(src, members), method, metric)
		if err != nil {
			return result{done: true, err: fmt.Errorf("cluster %s segment [%d, %d): %w", a, b[0], b[1], err)}
		}
		leaves := tree.LeafOrder()
		if err := perm.Validate(leaves, len(members)); err != nil {
			return result{done: true, err: errors.Wrap(errors.ErrCodeInternal, err, "clusterer returned invalid leaf order")}
		}
		order = append(order, perm.Apply(members, leaves)...)
		dendro.Groups = append(dendro.Groups, Group{Start: b[0], Members: members, Tree: tree})
	}
	return result{done: true, order: order, dendro: dendro}
}

// selectRows copies the listed rows of m into a new dense matrix.
func selectRows(m mat.Matrix, rows []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		out.SetRow(i, mat.Row(nil, r, m))
	}
	return out
}
