package plot

import (
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// labelPad separates label text from the panel edge facing the main panel.
const labelPad = 0.05

// LabelOptions configures a Labels track.
type LabelOptions struct {
	FontSize float64 `toml:"font_size" yaml:"font_size" json:"font_size"`
	Color    string  `toml:"color" yaml:"color" json:"color"`
}

// Labels writes one text per matrix row (left/right) or column
// (top/bottom), each centred on its row or column. Its panel size is
// measured from the longest text.
type Labels struct {
	texts []string
	opts  LabelOptions
}

// NewLabels creates a label track.
func NewLabels(texts []string, opts LabelOptions) *Labels {
	if opts.FontSize == 0 {
		opts.FontSize = 8
	}
	return &Labels{texts: texts, opts: opts}
}

// Kind implements Plan.
func (l *Labels) Kind() string { return "labels" }

// Splittable implements Plan.
func (l *Labels) Splittable() bool { return true }

// Measure implements Measurer. Top and bottom labels are rotated, so the
// text length is the panel size on every side.
func (l *Labels) Measure(grid.Side) float64 {
	return render.MaxTextWidth(l.texts, l.opts.FontSize) + labelPad
}

// Draw implements Plan.
func (l *Labels) Draw(rc *RenderContext) error {
	cells, bs, err := vectorBlocks(rc, l.texts)
	if err != nil {
		return err
	}
	p := rc.Panel.Rect
	for i, texts := range bs {
		centers := slots(cells[i], len(texts), rc.Side)
		for k, text := range texts {
			ts := render.TextStyle{Size: l.opts.FontSize, Color: l.opts.Color}
			var x, y float64
			switch rc.Side {
			case grid.Left:
				x, y, ts.Anchor = p.Right()-labelPad, centers[k], render.AnchorEnd
			case grid.Right:
				x, y, ts.Anchor = p.X+labelPad, centers[k], render.AnchorStart
			case grid.Top:
				x, y, ts.Anchor, ts.Rotate = centers[k], p.Bottom()-labelPad, render.AnchorStart, -90
			default:
				x, y, ts.Anchor, ts.Rotate = centers[k], p.Y+labelPad, render.AnchorEnd, -90
			}
			rc.Canvas.Text(x, y, text, ts)
		}
	}
	return nil
}

// TitleOptions configures titles added with Heatmap.AddTitle. Empty texts
// are skipped.
type TitleOptions struct {
	Top    string `toml:"top" yaml:"top" json:"top"`
	Bottom string `toml:"bottom" yaml:"bottom" json:"bottom"`
	Left   string `toml:"left" yaml:"left" json:"left"`
	Right  string `toml:"right" yaml:"right" json:"right"`
	// Pad defaults to DefaultTitlePad.
	Pad      *float64 `toml:"pad" yaml:"pad" json:"pad"`
	FontSize float64  `toml:"font_size" yaml:"font_size" json:"font_size"`
}

// DefaultTitlePad is the gap between a title and the panel inside it.
const DefaultTitlePad = 0.1

// Title is a single line of text spanning its panel.
type Title struct {
	text string
	size float64
}

// NewTitle creates a title at size points (12 when 0).
func NewTitle(text string, size float64) *Title {
	if size == 0 {
		size = 12
	}
	return &Title{text: text, size: size}
}

// Kind implements Plan.
func (t *Title) Kind() string { return "title" }

// Splittable implements Plan.
func (t *Title) Splittable() bool { return false }

// Measure implements Measurer. Side titles are rotated, so the line height
// is the panel size on every side.
func (t *Title) Measure(grid.Side) float64 { return render.TextHeight(t.size) }

// Draw implements Plan.
func (t *Title) Draw(rc *RenderContext) error {
	p := rc.Panel.Rect
	ts := render.TextStyle{Size: t.size, Anchor: render.AnchorMiddle, Bold: true}
	switch rc.Side {
	case grid.Left:
		ts.Rotate = -90
	case grid.Right:
		ts.Rotate = 90
	case grid.Main:
		return errors.New(errors.ErrCodeInvalidInput, "a title cannot be drawn on the main panel")
	}
	rc.Canvas.Text(p.CenterX(), p.CenterY(), t.text, ts)
	return nil
}
