package grid

import (
	"slices"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// Panel is the resolved geometry of one panel.
type Panel struct {
	Name       string  `json:"name"`
	Side       Side    `json:"side"`
	Rect       Rect    `json:"rect"`
	Cells      []Rect  `json:"cells"`
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	Size       float64 `json:"size,omitempty"`
	Splittable bool    `json:"splittable,omitempty"`
}

// Cell returns the cell at row i, column j.
func (p Panel) Cell(i, j int) Rect { return p.Cells[i*p.Cols+j] }

// Get returns the geometry of a panel. Cells lists the split cells in
// row-major order, or the panel rectangle alone when it is not split.
func (g *Grid) Get(name string) (Panel, error) {
	if !g.frozen {
		return Panel{}, errors.New(errors.ErrCodeNotFrozen, "grid %q must be frozen before querying panel %q", g.name, name)
	}
	owner, i, err := g.find(name)
	if err != nil {
		return Panel{}, err
	}
	return owner.panelAt(i, name), nil
}

func (g *Grid) panelAt(i int, name string) Panel {
	p := g.panels[i]
	rows, cols := 1, 1
	if p.split != nil {
		rows, cols = max(1, len(p.split.RowRatios)), max(1, len(p.split.ColRatios))
	}
	return Panel{
		Name:       name,
		Side:       p.spec.Side,
		Rect:       p.rect,
		Cells:      slices.Clone(p.cells),
		Rows:       rows,
		Cols:       cols,
		Size:       p.size,
		Splittable: p.spec.Splittable,
	}
}

// Panels returns every panel of a frozen grid. Panels of member grids carry
// qualified names.
func (g *Grid) Panels() ([]Panel, error) {
	if !g.frozen {
		return nil, errors.New(errors.ErrCodeNotFrozen, "grid %q must be frozen before listing panels", g.name)
	}
	return g.collect(false), nil
}

func (g *Grid) collect(qualify bool) []Panel {
	out := make([]Panel, 0, len(g.panels))
	for i, p := range g.panels {
		name := p.spec.Name
		if qualify {
			name = Qualify(g.name, name)
		}
		out = append(out, g.panelAt(i, name))
	}
	if g.stack != nil {
		for _, m := range g.stack.members {
			out = append(out, m.collect(true)...)
		}
	}
	return out
}

// Bounds returns the region allotted to the named grid (including its side
// panels) in a frozen grid; name may be g itself or any member. Subtracting its origin from a member panel's
// rectangle gives the panel's position local to that member.
func (g *Grid) Bounds(name string) (Rect, error) {
	if !g.frozen {
		return Rect{}, errors.New(errors.ErrCodeNotFrozen, "grid %q must be frozen before querying bounds", g.name)
	}
	m := g.member(name)
	if m == nil {
		return Rect{}, errors.New(errors.ErrCodeUnknownPanel, "no grid named %q in %q", name, g.name)
	}
	return m.bounds, nil
}

// Qualify joins a grid name and panel name into the form used to address
// member panels of a composite grid.
func Qualify(gridName, panelName string) string {
	return gridName + errors.NameSeparator + panelName
}
