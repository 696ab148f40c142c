package plot

import (
	"fmt"
	"math"

	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// ColorMeshOptions configures a ColorMesh.
type ColorMeshOptions struct {
	// Colormap names a built-in colormap; empty uses render.DefaultColormap.
	Colormap string `toml:"colormap" yaml:"colormap" json:"colormap"`
	// VMin and VMax fix the color range; nil spans the data.
	VMin *float64 `toml:"vmin" yaml:"vmin" json:"vmin"`
	VMax *float64 `toml:"vmax" yaml:"vmax" json:"vmax"`
	// Center makes the range symmetric around a value.
	Center *float64 `toml:"center" yaml:"center" json:"center"`
	// Annotate writes each value in its cell using Format.
	Annotate bool    `toml:"annotate" yaml:"annotate" json:"annotate"`
	Format   string  `toml:"format" yaml:"format" json:"format"`
	FontSize float64 `toml:"font_size" yaml:"font_size" json:"font_size"`
	// LineColor and LineWidth outline each cell.
	LineColor string  `toml:"line_color" yaml:"line_color" json:"line_color"`
	LineWidth float64 `toml:"line_width" yaml:"line_width" json:"line_width"`
}

// ColorMesh draws a continuous value matrix as colored cells.
type ColorMesh struct {
	data [][]float64
	cmap render.Colormap
	norm render.Norm
	opts ColorMeshOptions
}

// NewColorMesh validates opts and builds the color normalisation over the
// whole of data, so split blocks share one scale.
func NewColorMesh(data [][]float64, opts ColorMeshOptions) (*ColorMesh, error) {
	cm, err := render.LookupColormap(opts.Colormap)
	if err != nil {
		return nil, err
	}
	norm := render.NewNorm(data, deref(opts.VMin), deref(opts.VMax))
	if opts.Center != nil {
		norm = norm.Centered(*opts.Center)
	}
	if opts.Format == "" {
		opts.Format = "%.2g"
	}
	if opts.FontSize == 0 {
		opts.FontSize = 6
	}
	return &ColorMesh{data: data, cmap: cm, norm: norm, opts: opts}, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// Kind implements Plan.
func (m *ColorMesh) Kind() string { return "colormesh" }

// Splittable implements Plan.
func (m *ColorMesh) Splittable() bool { return true }

// Draw implements Plan.
func (m *ColorMesh) Draw(rc *RenderContext) error {
	bs, err := blocks(rc, m.data)
	if err != nil {
		return err
	}
	for _, b := range bs {
		eachCell(b.rect, b.data, func(x, y, w, h, v float64) {
			if math.IsNaN(v) {
				return
			}
			c := m.cmap.At(m.norm.Scale(v))
			rc.Canvas.Rect(x, y, w, h, render.Style{Fill: c.Hex(), Stroke: m.opts.LineColor, StrokeWidth: m.opts.LineWidth})
			if m.opts.Annotate {
				rc.Canvas.Text(x+w/2, y+h/2, fmt.Sprintf(m.opts.Format, v), render.TextStyle{
					Size:   m.opts.FontSize,
					Color:  render.ContrastText(c),
					Anchor: render.AnchorMiddle,
				})
			}
		})
	}
	return nil
}

// eachCell visits every value of data laid out as a grid over r.
func eachCell[T any](r grid.Rect, data [][]T, fn func(x, y, w, h float64, v T)) {
	if len(data) == 0 || len(data[0]) == 0 {
		return
	}
	h := r.H / float64(len(data))
	w := r.W / float64(len(data[0]))
	for i, row := range data {
		for j, v := range row {
			fn(r.X+float64(j)*w, r.Y+float64(i)*h, w, h, v)
		}
	}
}

// ColorsOptions configures a Colors track.
type ColorsOptions struct {
	// Palette pins categories to colors; others take the next color from
	// Colors (render.ECharts16 when empty).
	Palette map[string]string `toml:"palette" yaml:"palette" json:"palette"`
	Colors  []string          `toml:"colors" yaml:"colors" json:"colors"`
}

// Colors draws a categorical matrix as colored cells.
type Colors struct {
	data    [][]string
	palette *render.Palette
}

// NewColors assigns colors to the categories of data in order of first
// appearance.
func NewColors(data [][]string, opts ColorsOptions) (*Colors, error) {
	for _, c := range opts.Colors {
		if _, err := render.ParseColor(c); err != nil {
			return nil, err
		}
	}
	p := render.NewPalette(opts.Colors...)
	for cat, color := range opts.Palette {
		if _, err := render.ParseColor(color); err != nil {
			return nil, err
		}
		p.Set(cat, color)
	}
	for _, row := range data {
		for _, v := range row {
			p.Color(v)
		}
	}
	return &Colors{data: data, palette: p}, nil
}

// Kind implements Plan.
func (c *Colors) Kind() string { return "colors" }

// Splittable implements Plan.
func (c *Colors) Splittable() bool { return true }

// Legend returns the categories and their colors.
func (c *Colors) Legend() map[string]string {
	out := make(map[string]string)
	for _, cat := range c.palette.Categories() {
		out[cat] = c.palette.Color(cat)
	}
	return out
}

// Draw implements Plan.
func (c *Colors) Draw(rc *RenderContext) error {
	bs, err := blocks(rc, c.data)
	if err != nil {
		return err
	}
	for _, b := range bs {
		eachCell(b.rect, b.data, func(x, y, w, h float64, v string) {
			rc.Canvas.Rect(x, y, w, h, render.Style{Fill: c.palette.Color(v)})
		})
	}
	return nil
}

// SizedMeshOptions configures a SizedMesh.
type SizedMeshOptions struct {
	// Color fills every marker unless Colormap is set, in which case the
	// marker color follows the value too.
	Color    string `toml:"color" yaml:"color" json:"color"`
	Colormap string `toml:"colormap" yaml:"colormap" json:"colormap"`
	// MaxSize is the largest marker diameter as a fraction of the cell.
	MaxSize float64 `toml:"max_size" yaml:"max_size" json:"max_size"`
}

// SizedMesh draws a value matrix as circles whose area follows the value.
type SizedMesh struct {
	data [][]float64
	norm render.Norm
	cmap *render.Colormap
	opts SizedMeshOptions
}

// NewSizedMesh validates opts.
func NewSizedMesh(data [][]float64, opts SizedMeshOptions) (*SizedMesh, error) {
	if opts.MaxSize == 0 {
		opts.MaxSize = 0.9
	}
	if opts.MaxSize < 0 || opts.MaxSize > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sized mesh max_size must be in (0, 1], got %g", opts.MaxSize)
	}
	if opts.Color == "" {
		opts.Color = render.ECharts16[0]
	}
	if _, err := render.ParseColor(opts.Color); err != nil {
		return nil, err
	}
	s := &SizedMesh{data: data, norm: render.NewNorm(data, math.NaN(), math.NaN()), opts: opts}
	if opts.Colormap != "" {
		cm, err := render.LookupColormap(opts.Colormap)
		if err != nil {
			return nil, err
		}
		s.cmap = &cm
	}
	return s, nil
}

// Kind implements Plan.
func (s *SizedMesh) Kind() string { return "sizedmesh" }

// Splittable implements Plan.
func (s *SizedMesh) Splittable() bool { return true }

// Draw implements Plan.
func (s *SizedMesh) Draw(rc *RenderContext) error {
	bs, err := blocks(rc, s.data)
	if err != nil {
		return err
	}
	for _, b := range bs {
		eachCell(b.rect, b.data, func(x, y, w, h, v float64) {
			if math.IsNaN(v) {
				return
			}
			t := s.norm.Scale(v)
			r := 0.5 * s.opts.MaxSize * math.Min(w, h) * math.Sqrt(t)
			if r <= 0 {
				return
			}
			fill := s.opts.Color
			if s.cmap != nil {
				fill = s.cmap.Hex(t)
			}
			rc.Canvas.Circle(x+w/2, y+h/2, r, render.Style{Fill: fill})
		})
	}
	return nil
}
