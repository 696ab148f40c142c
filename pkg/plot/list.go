package plot

import (
	"slices"

	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// Figure is anything that lays itself out and draws on a canvas: a
// *Heatmap or a *List.
type Figure interface {
	Grid() *grid.Grid
	Size() (width, height float64)
	Freeze(aspect float64) error
	Render(c render.Canvas, aspect float64) error
}

var (
	_ Figure = (*Heatmap)(nil)
	_ Figure = (*List)(nil)
)

// Composable is a *Heatmap or a *List.
type Composable interface {
	layout() *grid.Grid
	members() []*Heatmap
}

func (h *Heatmap) layout() *grid.Grid  { return h.grid }
func (h *Heatmap) members() []*Heatmap { return []*Heatmap{h} }

// List is several heatmaps laid out on one combined grid.
type List struct {
	grid     *grid.Grid
	heatmaps []*Heatmap
}

func (l *List) layout() *grid.Grid  { return l.grid }
func (l *List) members() []*Heatmap { return l.heatmaps }

// Append places b after a in direction dir with pad between them. Both
// inputs are copied: later changes to a or b do not affect the result.
// Member grids must have distinct names.
func Append(dir grid.Direction, a, b Composable, pad float64) (*List, error) {
	var (
		g   *grid.Grid
		err error
	)
	if dir == grid.Vertical {
		g, err = a.layout().AppendVertical(b.layout(), pad)
	} else {
		g, err = a.layout().AppendHorizontal(b.layout(), pad)
	}
	if err != nil {
		return nil, err
	}

	l := &List{grid: g}
	for _, h := range slices.Concat(a.members(), b.members()) {
		l.heatmaps = append(l.heatmaps, h.clone())
	}
	return l, nil
}

// Grid returns the combined layout.
func (l *List) Grid() *grid.Grid { return l.grid }

// Heatmaps returns the member heatmaps in layout order.
func (l *List) Heatmaps() []*Heatmap { return slices.Clone(l.heatmaps) }

// Size returns the natural canvas size of the combined layout.
func (l *List) Size() (width, height float64) { return l.grid.Size() }

// AddPad inserts empty space on a side of the combined layout.
func (l *List) AddPad(side grid.Side, size float64) error {
	_, err := l.grid.AddPad(side, size)
	return err
}

// Render lays out every member on c and draws it. aspect applies to every
// member's main panel; it is 1 when any member was created WithSquare.
func (l *List) Render(c render.Canvas, aspect float64) error {
	w, ht := c.Size()
	if err := l.freeze(w, ht, aspect); err != nil {
		return err
	}
	for _, h := range l.heatmaps {
		if err := h.draw(c, l.grid, h.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Freeze resolves the combined layout at the list's natural size without
// drawing.
func (l *List) Freeze(aspect float64) error {
	w, ht := l.Size()
	return l.freeze(w, ht, aspect)
}

func (l *List) freeze(w, ht, aspect float64) error {
	for _, h := range l.heatmaps {
		if err := h.setupAxes(l.grid, h.Name()); err != nil {
			return err
		}
		if h.square {
			aspect = 1
		}
	}
	if l.grid.IsFrozen() {
		return nil
	}
	return l.grid.Freeze(w, ht, aspect)
}
