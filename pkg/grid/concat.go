package grid

import (
	"math"
	"slices"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// Direction is the stacking direction of a composite grid.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// stack is the body of a composite grid: member grids laid out side by side
// (Horizontal) or top to bottom (Vertical), with pads[i] between member i
// and i+1.
type stack struct {
	dir     Direction
	members []*Grid
	pads    []float64
}

func (s *stack) clone() *stack {
	c := &stack{dir: s.dir, pads: slices.Clone(s.pads)}
	for _, m := range s.members {
		c.members = append(c.members, m.clone())
	}
	return c
}

// size combines member sizes: summed along the stacking direction, maximum
// across it.
func (s *stack) size() (width, height float64) {
	var along, across float64
	for i, m := range s.members {
		w, h := m.Size()
		if s.dir == Vertical {
			w, h = h, w
		}
		along += w
		across = max(across, h)
		if i < len(s.pads) {
			along += s.pads[i]
		}
	}
	if s.dir == Vertical {
		return across, along
	}
	return along, across
}

// place distributes body among members in proportion to their natural
// sizes. Members are aligned to the top (Horizontal) or left (Vertical).
func (s *stack) place(body Rect, aspect float64, l *layout) error {
	type extent struct{ along, across float64 }
	sizes := make([]extent, len(s.members))
	var sumAlong, maxAcross, pads float64
	for i, m := range s.members {
		w, h := m.Size()
		if s.dir == Vertical {
			w, h = h, w
		}
		sizes[i] = extent{w, h}
		sumAlong += w
		maxAcross = max(maxAcross, h)
	}
	for _, p := range s.pads {
		pads += p
	}

	length, breadth := body.W, body.H
	if s.dir == Vertical {
		length, breadth = body.H, body.W
	}
	avail := length - pads
	if avail <= 0 {
		return errors.New(errors.ErrCodeCanvasTooSmall, "padding of %g leaves no room for %d grids", pads, len(s.members))
	}

	var pos float64
	for i, m := range s.members {
		along := avail * sizes[i].along / sumAlong
		across := breadth * sizes[i].across / maxAcross
		r := Rect{X: body.X + pos, Y: body.Y, W: along, H: across}
		if s.dir == Vertical {
			r = Rect{X: body.X, Y: body.Y + pos, W: across, H: along}
		}
		if err := m.place(r, aspect, l); err != nil {
			return err
		}
		pos += along
		if i < len(s.pads) {
			pos += s.pads[i]
		}
	}
	return nil
}

// AppendHorizontal returns a new composite grid with g on the left and
// other on the right, separated by pad. Neither input is modified and the
// result is in building state.
func (g *Grid) AppendHorizontal(other *Grid, pad float64) (*Grid, error) {
	return join(Horizontal, g, other, pad)
}

// AppendVertical returns a new composite grid with g above other.
func (g *Grid) AppendVertical(other *Grid, pad float64) (*Grid, error) {
	return join(Vertical, g, other, pad)
}

func join(dir Direction, a, b *Grid, pad float64) (*Grid, error) {
	if !(pad >= 0) || math.IsInf(pad, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "padding must be a non-negative number, got %g", pad)
	}
	seen := make(map[string]bool)
	for _, name := range slices.Concat(a.names(), b.names()) {
		if seen[name] {
			return nil, errors.New(errors.ErrCodeDuplicateName, "grid name %q appears in both grids", name)
		}
		seen[name] = true
	}

	st := &stack{dir: dir}
	for i, src := range []*Grid{a, b} {
		if i > 0 {
			st.pads = append(st.pads, pad)
		}
		c := src.clone()
		if c.stack != nil && c.stack.dir == dir && len(c.panels) == 0 {
			st.members = append(st.members, c.stack.members...)
			st.pads = append(st.pads, c.stack.pads...)
			continue
		}
		st.members = append(st.members, c)
	}

	name := a.namer.Next("stack")
	if seen[name] {
		return nil, errors.New(errors.ErrCodeDuplicateName, "generated grid name %q is already in use", name)
	}
	return &Grid{
		name:  name,
		namer: a.namer,
		index: make(map[string]int),
		stack: st,
	}, nil
}
