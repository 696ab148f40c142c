package plot

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/heatgrid/pkg/cluster"
	"github.com/matzehuels/heatgrid/pkg/deform"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/perm"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// DefaultPanelSize is used for side plans that neither have a size nor
// measure themselves.
const DefaultPanelSize = 1.0

// Option configures a Heatmap.
type Option func(*settings)

type settings struct {
	name      string
	width     float64
	height    float64
	aspect    float64
	square    bool
	namer     grid.Namer
	logger    *log.Logger
	clusterer cluster.Clusterer
	mesh      ColorMeshOptions
}

// WithName sets the grid name, which qualifies the heatmap's panels once it
// is concatenated.
func WithName(name string) Option { return func(s *settings) { s.name = name } }

// WithSize sets the natural canvas size. Zero dimensions are derived from
// the main aspect with CanvasSize.
func WithSize(width, height float64) Option {
	return func(s *settings) { s.width, s.height = width, height }
}

// WithAspect sets the main panel's height/width ratio used to derive the
// natural canvas size. The default is 1.
func WithAspect(aspect float64) Option { return func(s *settings) { s.aspect = aspect } }

// WithSquare forces square cells: the main panel is laid out with aspect 1
// whatever Render is given.
func WithSquare() Option { return func(s *settings) { s.square = true } }

// WithNamer sets the policy for generated grid and panel names.
func WithNamer(n grid.Namer) Option { return func(s *settings) { s.namer = n } }

// WithLogger sets the logger for split and clustering events.
func WithLogger(l *log.Logger) Option { return func(s *settings) { s.logger = l } }

// WithClusterer replaces the hierarchical clustering implementation.
func WithClusterer(c cluster.Clusterer) Option { return func(s *settings) { s.clusterer = c } }

// WithMeshOptions configures the main color mesh.
func WithMeshOptions(o ColorMeshOptions) Option { return func(s *settings) { s.mesh = o } }

// PanelOptions configures a side plan.
type PanelOptions struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	// Size fixes the panel depth. Zero measures the plan when it is a
	// Measurer and uses DefaultPanelSize otherwise.
	Size float64 `toml:"size" yaml:"size" json:"size"`
	Pad  float64 `toml:"pad" yaml:"pad" json:"pad"`
}

// SplitOptions partitions one axis. Exactly one of Cut and Labels is set.
type SplitOptions struct {
	// Cut lists breakpoints in the current axis order.
	Cut []int `toml:"cut" yaml:"cut" json:"cut"`
	// Labels assigns a group to every row or column; the axis is reordered
	// so groups are contiguous and split between them.
	Labels []string `toml:"labels" yaml:"labels" json:"labels"`
	// Order fixes the group order; by default groups appear in the order
	// their first member does.
	Order []string `toml:"order" yaml:"order" json:"order"`
	// Spacing is the gap between segments as a fraction of the panel
	// length; nil uses deform.DefaultSpacing.
	Spacing *float64 `toml:"spacing" yaml:"spacing" json:"spacing"`
}

type placed struct {
	name string
	side grid.Side
	plan Plan
}

type layer struct {
	plan   Plan
	zorder int
}

// Heatmap is a main matrix with side panels, clustering and splits.
type Heatmap struct {
	grid   *grid.Grid
	deform *deform.Deformation
	namer  grid.Namer
	logger *log.Logger
	square bool

	dendrograms []placed
	plots       []placed
	layers      []layer
}

// New creates a heatmap of data drawn as a ColorMesh on the main panel.
func New(data mat.Matrix, opts ...Option) (*Heatmap, error) {
	s := settings{aspect: 1, namer: grid.UUIDNamer{}}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	rows, cols := data.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "heatmap data must not be empty, got %dx%d", rows, cols)
	}
	if s.width == 0 || s.height == 0 {
		s.width, s.height = CanvasSize(s.aspect, s.width, s.height)
	}

	gopts := []grid.Option{grid.WithNamer(s.namer)}
	if s.name != "" {
		gopts = append(gopts, grid.WithName(s.name))
	}
	g, err := grid.New(s.width, s.height, gopts...)
	if err != nil {
		return nil, err
	}

	var dopts []deform.Option
	if s.clusterer != nil {
		dopts = append(dopts, deform.WithClusterer(s.clusterer))
	}

	mesh, err := NewColorMesh(denseRows(data), s.mesh)
	if err != nil {
		return nil, err
	}

	return &Heatmap{
		grid:   g,
		deform: deform.New(data, dopts...),
		namer:  s.namer,
		logger: s.logger,
		square: s.square,
		layers: []layer{{plan: mesh}},
	}, nil
}

func denseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// Name returns the heatmap's grid name.
func (h *Heatmap) Name() string { return h.grid.Name() }

// Grid returns the underlying layout.
func (h *Heatmap) Grid() *grid.Grid { return h.grid }

// Deform returns the underlying deformation.
func (h *Heatmap) Deform() *deform.Deformation { return h.deform }

// Size returns the natural canvas size including side panels.
func (h *Heatmap) Size() (width, height float64) { return h.grid.Size() }

// AddLeft attaches a plan on the left.
func (h *Heatmap) AddLeft(p Plan, opts PanelOptions) error { return h.AddPlot(grid.Left, p, opts) }

// AddRight attaches a plan on the right.
func (h *Heatmap) AddRight(p Plan, opts PanelOptions) error { return h.AddPlot(grid.Right, p, opts) }

// AddTop attaches a plan on the top.
func (h *Heatmap) AddTop(p Plan, opts PanelOptions) error { return h.AddPlot(grid.Top, p, opts) }

// AddBottom attaches a plan on the bottom.
func (h *Heatmap) AddBottom(p Plan, opts PanelOptions) error { return h.AddPlot(grid.Bottom, p, opts) }

// AddPlot attaches a plan as a new panel on side, outside any panels already
// there.
func (h *Heatmap) AddPlot(side grid.Side, p Plan, opts PanelOptions) error {
	name := opts.Name
	if name == "" {
		name = h.namer.Next(p.Kind() + "-" + side.String())
	}

	m, measured := p.(Measurer)
	size := grid.Fixed(DefaultPanelSize)
	var extent float64
	switch {
	case opts.Size > 0:
		size = grid.Fixed(opts.Size)
	case measured:
		size = grid.Auto()
		extent = m.Measure(side)
		if !(extent >= 0) || math.IsInf(extent, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s panel %q measured an invalid size %g", p.Kind(), name, extent)
		}
	}
	if err := h.grid.AddPanel(grid.PanelSpec{
		Name:       name,
		Side:       side,
		Size:       size,
		Pad:        opts.Pad,
		Splittable: p.Splittable(),
	}); err != nil {
		return err
	}
	if size.IsAuto() {
		if err := h.grid.SetMeasuredSize(name, extent); err != nil {
			return err
		}
	}
	h.plots = append(h.plots, placed{name: name, side: side, plan: p})
	return nil
}

// AddLayer draws p over the main panel. Layers are drawn in ascending
// zorder; the main color mesh has zorder 0.
func (h *Heatmap) AddLayer(p Plan, zorder int) {
	h.layers = append(h.layers, layer{plan: p, zorder: zorder})
}

// AddPad inserts empty space on a side.
func (h *Heatmap) AddPad(side grid.Side, size float64) error {
	_, err := h.grid.AddPad(side, size)
	return err
}

// AddTitle adds a Title panel for every non-empty text.
func (h *Heatmap) AddTitle(opts TitleOptions) error {
	pad := DefaultTitlePad
	if opts.Pad != nil {
		pad = *opts.Pad
	}
	for _, t := range []struct {
		side grid.Side
		text string
	}{
		{grid.Left, opts.Left},
		{grid.Right, opts.Right},
		{grid.Top, opts.Top},
		{grid.Bottom, opts.Bottom},
	} {
		if t.text == "" {
			continue
		}
		if err := h.AddPlot(t.side, NewTitle(t.text, opts.FontSize), PanelOptions{Pad: pad}); err != nil {
			return err
		}
	}
	return nil
}

// AddDendrogram clusters the axis that runs along side (rows for left and
// right, columns for top and bottom) and, unless opts.Hide is set, adds a
// panel drawing its merge trees. The first dendrogram on an axis that names
// a method or metric fixes them; a later one naming different parameters
// fails with CLUSTER_CONFLICT.
func (h *Heatmap) AddDendrogram(side grid.Side, opts DendrogramOptions) error {
	if side == grid.Main {
		return errors.New(errors.ErrCodeInvalidInput, "a dendrogram must be placed on a side, not the main panel")
	}
	var spec grid.PanelSpec
	if !opts.Hide {
		size := opts.Size
		if size == 0 {
			size = DefaultDendrogramSize
		}
		name := opts.Name
		if name == "" {
			name = h.namer.Next("dendrogram-" + side.String())
		}
		spec = grid.PanelSpec{Name: name, Side: side, Size: grid.Fixed(size), Pad: opts.Pad, Splittable: true}
		if err := h.grid.CheckPanel(spec); err != nil {
			return err
		}
	}

	a := axisOf(side)
	var err error
	if a == deform.Row {
		err = h.deform.SetRowClusterParams(opts.Method, opts.Metric)
	} else {
		err = h.deform.SetColClusterParams(opts.Method, opts.Metric)
	}
	if err != nil {
		if errors.Is(err, errors.ErrCodeClusterConflict) {
			h.logger.Warn("ignoring dendrogram with conflicting clustering", "axis", a, "err", err)
		}
		return err
	}

	if !opts.Hide {
		if err := h.grid.AddPanel(spec); err != nil {
			return err
		}
		h.dendrograms = append(h.dendrograms, placed{name: spec.Name, side: side, plan: NewDendrogram(opts)})
	}
	h.deform.SetCluster(a == deform.Row, a == deform.Col)
	h.logger.Debug("clustering requested", "grid", h.Name(), "axis", a, "hidden", opts.Hide)
	return nil
}

// SplitRow partitions the rows.
func (h *Heatmap) SplitRow(opts SplitOptions) error { return h.split(deform.Row, opts) }

// SplitCol partitions the columns.
func (h *Heatmap) SplitCol(opts SplitOptions) error { return h.split(deform.Col, opts) }

func (h *Heatmap) split(a deform.Axis, opts SplitOptions) error {
	if (opts.Cut == nil) == (opts.Labels == nil) {
		return errors.New(errors.ErrCodeInvalidInput, "%s split needs either cut points or labels", a)
	}
	spacing := deform.DefaultSpacing
	if opts.Spacing != nil {
		spacing = *opts.Spacing
	}

	var err error
	switch {
	case opts.Labels != nil:
		err = deform.SplitByLabels(h.deform, a, opts.Labels, opts.Order)
	case a == deform.Row:
		err = h.deform.SetSplitRow(opts.Cut)
	default:
		err = h.deform.SetSplitCol(opts.Cut)
	}
	if err != nil {
		return err
	}

	if a == deform.Row {
		h.deform.HSpace = spacing
	} else {
		h.deform.WSpace = spacing
	}
	h.logger.Debug("split axis", "grid", h.Name(), "axis", a, "segments", h.deform.Ratios(a))
	return nil
}

// Freeze resolves the layout at the heatmap's natural size without
// drawing. aspect is the main panel's height/width ratio; 0 lets the main
// panel fill the remaining space.
func (h *Heatmap) Freeze(aspect float64) error {
	w, ht := h.Size()
	return h.freeze(w, ht, aspect)
}

// Render lays out the heatmap on c and draws every plan. A grid frozen
// earlier keeps its layout.
func (h *Heatmap) Render(c render.Canvas, aspect float64) error {
	w, ht := c.Size()
	if err := h.freeze(w, ht, aspect); err != nil {
		return err
	}
	return h.draw(c, h.grid, "")
}

func (h *Heatmap) freeze(w, ht, aspect float64) error {
	if err := h.setupAxes(h.grid, ""); err != nil {
		return err
	}
	if h.grid.IsFrozen() {
		return nil
	}
	if h.square {
		aspect = 1
	}
	return h.grid.Freeze(w, ht, aspect)
}

// scoped resolves panel names in g: unqualified for the heatmap's own grid,
// prefixed with the heatmap's grid name inside a composite.
func scoped(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return grid.Qualify(prefix, name)
}

// setupAxes splits the main panel and every splittable side panel by the
// deformation's ratios. Panels already split are left alone.
func (h *Heatmap) setupAxes(g *grid.Grid, prefix string) error {
	d := h.deform
	if !d.IsSplit() {
		return nil
	}
	rows := perm.Floats(d.RowRatios())
	cols := perm.Floats(d.ColRatios())

	main := scoped(prefix, grid.MainName)
	if !g.IsSplit(main) {
		if err := g.Split(main, grid.SplitPlan{RowRatios: rows, ColRatios: cols, HSpace: d.HSpace, WSpace: d.WSpace}); err != nil {
			return err
		}
		h.logger.Debug("split panel", "panel", main, "rows", len(rows), "cols", len(cols))
	}

	for _, p := range slices.Concat(h.dendrograms, h.plots) {
		if !p.plan.Splittable() || !d.IsAxisSplit(axisOf(p.side)) {
			continue
		}
		name := scoped(prefix, p.name)
		if g.IsSplit(name) {
			continue
		}
		plan := grid.SplitPlan{RowRatios: rows, HSpace: d.HSpace}
		if p.side.Horizontal() {
			plan = grid.SplitPlan{ColRatios: cols, WSpace: d.WSpace}
		}
		if err := g.Split(name, plan); err != nil {
			return err
		}
		h.logger.Debug("split panel", "panel", name, "side", p.side)
	}
	return nil
}

// draw renders every plan onto the frozen grid g.
func (h *Heatmap) draw(c render.Canvas, g *grid.Grid, prefix string) error {
	if err := h.materialise(); err != nil {
		return err
	}
	main, err := g.Get(scoped(prefix, grid.MainName))
	if err != nil {
		return err
	}

	for _, p := range slices.Concat(h.dendrograms, h.plots) {
		panel, err := g.Get(scoped(prefix, p.name))
		if err != nil {
			return err
		}
		rc := &RenderContext{Canvas: c, Panel: panel, Side: p.side, Main: main}
		if p.plan.Splittable() {
			rc.Deform = h.deform
		}
		if err := p.plan.Draw(rc); err != nil {
			return fmt.Errorf("draw %s panel %q: %w", p.plan.Kind(), panel.Name, err)
		}
	}

	layers := slices.Clone(h.layers)
	slices.SortStableFunc(layers, func(a, b layer) int { return a.zorder - b.zorder })
	for _, l := range layers {
		rc := &RenderContext{Canvas: c, Panel: main, Side: grid.Main, Main: main, Deform: h.deform}
		if err := l.plan.Draw(rc); err != nil {
			return fmt.Errorf("draw %s layer: %w", l.plan.Kind(), err)
		}
	}
	return nil
}

// materialise runs pending clustering so its cost shows up in the log.
func (h *Heatmap) materialise() error {
	for _, a := range []deform.Axis{deform.Row, deform.Col} {
		if !h.deform.IsClustered(a) {
			continue
		}
		start := time.Now()
		if _, err := h.deform.Order(a); err != nil {
			return err
		}
		method, metric := h.deform.ClusterParams(a)
		h.logger.Debug("clustered axis", "axis", a, "method", method, "metric", metric, "duration", time.Since(start))
	}
	return nil
}

// clone returns a copy sharing plans but owning its grid and deformation.
func (h *Heatmap) clone() *Heatmap {
	c := *h
	c.deform = h.deform.Clone()
	c.dendrograms = slices.Clone(h.dendrograms)
	c.plots = slices.Clone(h.plots)
	c.layers = slices.Clone(h.layers)
	return &c
}
