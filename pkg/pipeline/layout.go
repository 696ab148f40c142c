package pipeline

import (
	"github.com/matzehuels/heatgrid/pkg/plot"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// ExportLayout freezes fig at its natural size, unless an earlier render
// already did, and lists every resolved panel.
func ExportLayout(fig plot.Figure, aspect float64) (render.Layout, error) {
	if err := fig.Freeze(aspect); err != nil {
		return render.Layout{}, err
	}
	g := fig.Grid()
	panels, err := g.Panels()
	if err != nil {
		return render.Layout{}, err
	}
	w, h := fig.Size()
	return render.Layout{Name: g.Name(), Width: w, Height: h, Panels: panels}, nil
}
