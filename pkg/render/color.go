package render

import (
	"math"
	"slices"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// DefaultColormap is used by continuous meshes without an explicit map.
const DefaultColormap = "coolwarm"

var colormaps = map[string][]string{
	"coolwarm": {"#3b4cc0", "#7396f5", "#b0cbfc", "#dddddd", "#f6bfa6", "#ea7b60", "#b40426"},
	"viridis":  {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"magma":    {"#000004", "#1c1041", "#4f127b", "#812581", "#b5367a", "#e55964", "#fb8761", "#fec287", "#fcfdbf"},
	"greys":    {"#ffffff", "#000000"},
	"reds":     {"#fff5f0", "#fcbba1", "#fb6a4a", "#cb181d", "#67000d"},
	"blues":    {"#f7fbff", "#c6dbef", "#6baed6", "#2171b5", "#08306b"},
	"greens":   {"#f7fcf5", "#c7e9c0", "#74c476", "#238b45", "#00441b"},
	"purples":  {"#fcfbfd", "#dadaeb", "#9e9ac8", "#6a51a3", "#3f007d"},
}

// ECharts16 is the default categorical palette.
var ECharts16 = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4",
	"#ea7ccc", "#d4ec59", "#60c0dd", "#f0805a", "#26c0c0", "#c1232b", "#27727b", "#fcce10",
}

// Colormap maps values in [0, 1] to colors.
type Colormap struct {
	name  string
	stops []colorful.Color
}

// Colormaps returns the names of the built-in colormaps.
func Colormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupColormap returns a built-in colormap by name (case-insensitive).
// A "_r" suffix reverses it. An empty name yields DefaultColormap.
func LookupColormap(name string) (Colormap, error) {
	if name == "" {
		name = DefaultColormap
	}
	key := strings.ToLower(name)
	reversed := strings.HasSuffix(key, "_r")
	key = strings.TrimSuffix(key, "_r")

	hexes, ok := colormaps[key]
	if !ok {
		return Colormap{}, errors.New(errors.ErrCodeInvalidInput, "unknown colormap %q", name)
	}
	cm, err := NewColormap(name, hexes...)
	if err != nil {
		return Colormap{}, err
	}
	if reversed {
		slices.Reverse(cm.stops)
	}
	return cm, nil
}

// NewColormap builds a colormap from two or more evenly spaced hex stops.
func NewColormap(name string, hexes ...string) (Colormap, error) {
	if len(hexes) < 2 {
		return Colormap{}, errors.New(errors.ErrCodeInvalidInput, "colormap %q needs at least two colors", name)
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			return Colormap{}, err
		}
		stops[i] = c
	}
	return Colormap{name: name, stops: stops}, nil
}

// Name returns the colormap name.
func (c Colormap) Name() string { return c.name }

// At returns the color at t, clamped to [0, 1]. NaN maps to the first stop.
func (c Colormap) At(t float64) colorful.Color {
	if math.IsNaN(t) || t <= 0 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}
	pos := t * float64(len(c.stops)-1)
	i := int(pos)
	return c.stops[i].BlendLab(c.stops[i+1], pos-float64(i)).Clamped()
}

// Hex returns At(t) as a hex string.
func (c Colormap) Hex(t float64) string { return c.At(t).Hex() }

// Norm linearly maps a value range to [0, 1].
type Norm struct {
	Min, Max float64
}

// NewNorm spans the finite values of data. vmin and vmax override the
// bounds when not NaN.
func NewNorm(data [][]float64, vmin, vmax float64) Norm {
	n := Norm{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, row := range data {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			n.Min = math.Min(n.Min, v)
			n.Max = math.Max(n.Max, v)
		}
	}
	if !math.IsNaN(vmin) {
		n.Min = vmin
	}
	if !math.IsNaN(vmax) {
		n.Max = vmax
	}
	if math.IsInf(n.Min, 0) || math.IsInf(n.Max, 0) {
		n = Norm{Min: 0, Max: 1}
	}
	return n
}

// Centered widens n symmetrically so that center maps to 0.5.
func (n Norm) Centered(center float64) Norm {
	d := math.Max(math.Abs(n.Max-center), math.Abs(center-n.Min))
	return Norm{Min: center - d, Max: center + d}
}

// Scale maps v into [0, 1]. A degenerate range maps everything to 0.5.
func (n Norm) Scale(v float64) float64 {
	if n.Max == n.Min {
		return 0.5
	}
	return math.Max(0, math.Min(1, (v-n.Min)/(n.Max-n.Min)))
}

// Palette assigns colors to categories in order of first appearance,
// cycling through colors when there are more categories than colors.
type Palette struct {
	colors []string
	assign map[string]string
	order  []string
}

// NewPalette creates a palette over colors, ECharts16 if none are given.
func NewPalette(colors ...string) *Palette {
	if len(colors) == 0 {
		colors = ECharts16
	}
	return &Palette{colors: slices.Clone(colors), assign: make(map[string]string)}
}

// Set pins a category to a color.
func (p *Palette) Set(category, color string) {
	if _, ok := p.assign[category]; !ok {
		p.order = append(p.order, category)
	}
	p.assign[category] = color
}

// Color returns the color of category, assigning the next one if needed.
func (p *Palette) Color(category string) string {
	if c, ok := p.assign[category]; ok {
		return c
	}
	c := p.colors[len(p.order)%len(p.colors)]
	p.Set(category, c)
	return c
}

// Categories returns the categories in assignment order.
func (p *Palette) Categories() []string { return slices.Clone(p.order) }

// ParseColor parses a hex color (#rgb or #rrggbb).
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(expandHex(s))
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	return c, nil
}

func expandHex(s string) string {
	if len(s) == 4 && s[0] == '#' {
		return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return s
}

// ContrastText returns black or white, whichever reads better on bg.
func ContrastText(bg colorful.Color) string {
	if relativeLuminance(bg) > 0.408 {
		return "#000000"
	}
	return "#ffffff"
}

func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
