package plot

import (
	"github.com/matzehuels/heatgrid/pkg/deform"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/perm"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// DefaultDendrogramSize is the depth of a dendrogram panel.
const DefaultDendrogramSize = 0.5

// DendrogramOptions configures Heatmap.AddDendrogram.
type DendrogramOptions struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	// Method and Metric select the linkage; empty keeps what the axis
	// already uses.
	Method string `toml:"method" yaml:"method" json:"method"`
	Metric string `toml:"metric" yaml:"metric" json:"metric"`
	// Hide clusters the axis without adding a panel.
	Hide      bool    `toml:"hide" yaml:"hide" json:"hide"`
	Size      float64 `toml:"size" yaml:"size" json:"size"`
	Pad       float64 `toml:"pad" yaml:"pad" json:"pad"`
	Color     string  `toml:"color" yaml:"color" json:"color"`
	LineWidth float64 `toml:"line_width" yaml:"line_width" json:"line_width"`
}

// Dendrogram draws the merge trees of the axis its side runs along. Leaves
// touch the edge facing the main panel and the root is at the far edge.
type Dendrogram struct {
	style render.Style
}

// NewDendrogram creates a dendrogram plan.
func NewDendrogram(opts DendrogramOptions) *Dendrogram {
	s := render.Style{Stroke: opts.Color, StrokeWidth: opts.LineWidth}
	if s.Stroke == "" {
		s.Stroke = "#333333"
	}
	if s.StrokeWidth == 0 {
		s.StrokeWidth = 0.75
	}
	return &Dendrogram{style: s}
}

// Kind implements Plan.
func (d *Dendrogram) Kind() string { return "dendrogram" }

// Splittable implements Plan.
func (d *Dendrogram) Splittable() bool { return true }

// Draw implements Plan.
func (d *Dendrogram) Draw(rc *RenderContext) error {
	if rc.Side == grid.Main || rc.Deform == nil {
		return errors.New(errors.ErrCodeInvalidInput, "a dendrogram needs a side panel that follows the deformation")
	}
	a := axisOf(rc.Side)
	dg, err := rc.Deform.Dendrogram(a)
	if err != nil {
		return err
	}
	rows, cols := rc.Deform.Dims()
	n := rows
	if a == deform.Col {
		n = cols
	}
	bounds := perm.Bounds(rc.Deform.Breakpoints(a), n)
	if err := checkCells(rc.Panel, len(bounds)); err != nil {
		return err
	}

	// Leaf centers: position i sits in the cell of the segment holding it.
	centers := make([]float64, 0, n)
	for b, seg := range bounds {
		centers = append(centers, slots(rc.Panel.Cells[b], seg[1]-seg[0], rc.Side)...)
	}

	height := dg.Height()
	if height == 0 {
		height = 1
	}
	p := rc.Panel.Rect
	depth := p.W
	if rc.Side.Horizontal() {
		depth = p.H
	}
	point := func(pos, h float64) (x, y float64) {
		off := h / height * depth
		switch rc.Side {
		case grid.Left:
			return p.Right() - off, pos
		case grid.Right:
			return p.X + off, pos
		case grid.Top:
			return pos, p.Bottom() - off
		default:
			return pos, p.Y + off
		}
	}
	line := func(pos1, h1, pos2, h2 float64) {
		x1, y1 := point(pos1, h1)
		x2, y2 := point(pos2, h2)
		rc.Canvas.Line(x1, y1, x2, y2, d.style)
	}

	for _, l := range dg.Links(func(i int) float64 { return centers[i] }) {
		line(l.LeftPos, l.LeftHeight, l.LeftPos, l.Height)
		line(l.LeftPos, l.Height, l.RightPos, l.Height)
		line(l.RightPos, l.RightHeight, l.RightPos, l.Height)
	}
	return nil
}
