package plot

import (
	"github.com/matzehuels/heatgrid/pkg/deform"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// Plan draws one panel.
type Plan interface {
	// Kind names the plan type; it prefixes generated panel names.
	Kind() string
	// Splittable reports whether the plan's data follows the heatmap's
	// row/column deformation.
	Splittable() bool
	// Draw renders into rc.Panel.
	Draw(rc *RenderContext) error
}

// Measurer is implemented by plans that can size their own panel, such as
// text tracks. Measure returns the extent across the side in canvas units.
type Measurer interface {
	Measure(side grid.Side) float64
}

// RenderContext is what a plan receives when drawn.
type RenderContext struct {
	Canvas render.Canvas
	Panel  grid.Panel
	Side   grid.Side
	// Main is the resolved main panel of the owning heatmap.
	Main grid.Panel
	// Deform is set for splittable plans and nil otherwise.
	Deform *deform.Deformation
}

// axis returns the deformation axis that runs along a side.
func axisOf(side grid.Side) deform.Axis {
	if side.Horizontal() {
		return deform.Col
	}
	return deform.Row
}

// block pairs one panel cell with the data drawn in it.
type block[T any] struct {
	rect grid.Rect
	data [][]T
}

// blocks applies the deformation for the panel's side and pairs each block
// with its cell. Left/right data has one row per matrix row; top/bottom data
// has one column per matrix column; main data has the matrix shape.
func blocks[T any](rc *RenderContext, data [][]T) ([]block[T], error) {
	if rc.Deform == nil {
		return []block[T]{{rect: rc.Panel.Rect, data: data}}, nil
	}

	var out []block[T]
	switch rc.Side {
	case grid.Main:
		bs, err := deform.Transform(rc.Deform, data)
		if err != nil {
			return nil, err
		}
		if err := checkCells(rc.Panel, len(bs)*len(bs[0])); err != nil {
			return nil, err
		}
		for i, row := range bs {
			for j, b := range row {
				out = append(out, block[T]{rect: rc.Panel.Cell(i, j), data: b})
			}
		}
	case grid.Left, grid.Right:
		bs, err := deform.TransformRow(rc.Deform, data)
		if err != nil {
			return nil, err
		}
		if err := checkCells(rc.Panel, len(bs)); err != nil {
			return nil, err
		}
		for i, b := range bs {
			out = append(out, block[T]{rect: rc.Panel.Cells[i], data: b})
		}
	default:
		bs, err := deform.TransformCol(rc.Deform, data)
		if err != nil {
			return nil, err
		}
		if err := checkCells(rc.Panel, len(bs)); err != nil {
			return nil, err
		}
		for j, b := range bs {
			out = append(out, block[T]{rect: rc.Panel.Cells[j], data: b})
		}
	}
	return out, nil
}

// vectorBlocks is blocks for one value per row (left/right) or column
// (top/bottom).
func vectorBlocks[T any](rc *RenderContext, v []T) ([]grid.Rect, [][]T, error) {
	if rc.Side == grid.Main {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "track panels cannot be drawn on the main panel")
	}
	if rc.Deform == nil {
		return []grid.Rect{rc.Panel.Rect}, [][]T{v}, nil
	}
	var (
		bs  [][]T
		err error
	)
	if axisOf(rc.Side) == deform.Row {
		bs, err = deform.TransformRowVector(rc.Deform, v)
	} else {
		bs, err = deform.TransformColVector(rc.Deform, v)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := checkCells(rc.Panel, len(bs)); err != nil {
		return nil, nil, err
	}
	return rc.Panel.Cells, bs, nil
}

func checkCells(p grid.Panel, n int) error {
	if len(p.Cells) != n {
		return errors.New(errors.ErrCodeInternal, "panel %q has %d cells but the data has %d blocks", p.Name, len(p.Cells), n)
	}
	return nil
}

// slots divides a cell into n equal slots along the side's axis and returns
// the center coordinate of each.
func slots(cell grid.Rect, n int, side grid.Side) []float64 {
	out := make([]float64, n)
	for k := range out {
		if axisOf(side) == deform.Col {
			out[k] = cell.X + (float64(k)+0.5)*cell.W/float64(n)
		} else {
			out[k] = cell.Y + (float64(k)+0.5)*cell.H/float64(n)
		}
	}
	return out
}
