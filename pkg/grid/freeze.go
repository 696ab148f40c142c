package grid

import (
	"math"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// Freeze resolves every panel rectangle on a width × height canvas. aspect
// is the main panel's height/width ratio; 0 keeps whatever area is left. For
// a composite grid aspect applies to every member's main panel.
//
// Freeze succeeds at most once. On error nothing is recorded.
func (g *Grid) Freeze(width, height, aspect float64) error {
	if g.frozen {
		return errors.New(errors.ErrCodeAlreadyFrozen, "grid %q is already frozen", g.name)
	}
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return errors.New(errors.ErrCodeCanvasTooSmall, "canvas size must be positive, got %gx%g", width, height)
	}
	if !(aspect >= 0) || math.IsInf(aspect, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "aspect must be a non-negative number, got %g", aspect)
	}

	var l layout
	if err := g.place(Rect{W: width, H: height}, aspect, &l); err != nil {
		return err
	}
	l.commit()
	return nil
}

// layout collects placements so a freeze can be committed atomically.
type layout struct {
	panels []panelPlacement
	grids  []gridPlacement
}

type panelPlacement struct {
	g     *Grid
	i     int
	rect  Rect
	cells []Rect
}

type gridPlacement struct {
	g      *Grid
	bounds Rect
}

func (l *layout) commit() {
	for _, p := range l.panels {
		p.g.panels[p.i].rect = p.rect
		p.g.panels[p.i].cells = p.cells
	}
	for _, gp := range l.grids {
		gp.g.bounds = gp.bounds
		gp.g.frozen = true
	}
}

func (l *layout) add(g *Grid, i int, r Rect) {
	l.panels = append(l.panels, panelPlacement{g: g, i: i, rect: r, cells: cells(r, g.panels[i].split)})
}

// place lays g out inside r.
func (g *Grid) place(r Rect, aspect float64, l *layout) error {
	for _, p := range g.panels {
		if !p.resolved {
			return errors.New(errors.ErrCodeUnresolvedSize, "panel %q in grid %q has auto size and was never measured", p.spec.Name, g.name)
		}
	}

	top, bottom := g.extent(Top), g.extent(Bottom)
	left, right := g.extent(Left), g.extent(Right)
	body := Rect{X: r.X + left, Y: r.Y + top, W: r.W - left - right, H: r.H - top - bottom}
	if body.W <= 0 || body.H <= 0 {
		return errors.New(errors.ErrCodeCanvasTooSmall,
			"grid %q: side panels need %gx%g but the canvas is %gx%g", g.name, left+right, top+bottom, r.W, r.H)
	}

	l.grids = append(l.grids, gridPlacement{g: g, bounds: r})
	if g.stack == nil {
		body = fitAspect(body, aspect)
		l.add(g, 0, body)
	} else if err := g.stack.place(body, aspect, l); err != nil {
		return err
	}
	g.placeSides(body, l)
	return nil
}

// placeSides stacks side panels outward from the edges of inner.
func (g *Grid) placeSides(inner Rect, l *layout) {
	var off float64
	for _, i := range g.sides[Top] {
		p := g.panels[i]
		off += p.spec.Pad + p.size
		l.add(g, i, Rect{X: inner.X, Y: inner.Y - off, W: inner.W, H: p.size})
	}
	off = 0
	for _, i := range g.sides[Bottom] {
		p := g.panels[i]
		off += p.spec.Pad
		l.add(g, i, Rect{X: inner.X, Y: inner.Bottom() + off, W: inner.W, H: p.size})
		off += p.size
	}
	off = 0
	for _, i := range g.sides[Left] {
		p := g.panels[i]
		off += p.spec.Pad + p.size
		l.add(g, i, Rect{X: inner.X - off, Y: inner.Y, W: p.size, H: inner.H})
	}
	off = 0
	for _, i := range g.sides[Right] {
		p := g.panels[i]
		off += p.spec.Pad
		l.add(g, i, Rect{X: inner.Right() + off, Y: inner.Y, W: p.size, H: inner.H})
		off += p.size
	}
}

// cells subdivides r by plan in row-major order. An unsplit panel is a
// single cell.
func cells(r Rect, plan *SplitPlan) []Rect {
	if plan == nil {
		return []Rect{r}
	}
	ys, hs := segments(r.H, plan.RowRatios, plan.HSpace)
	xs, ws := segments(r.W, plan.ColRatios, plan.WSpace)
	out := make([]Rect, 0, len(ys)*len(xs))
	for i := range ys {
		for j := range xs {
			out = append(out, Rect{X: r.X + xs[j], Y: r.Y + ys[i], W: ws[j], H: hs[i]})
		}
	}
	return out
}
