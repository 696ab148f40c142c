package config

import (
	"fmt"

	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/plot"
)

var panelKinds = []string{"labels", "colors", "colormesh", "sized", "title"}

// RenderAspect returns the main panel aspect to render with.
func (f *File) RenderAspect() float64 {
	if f.Aspect == nil {
		return 1
	}
	return *f.Aspect
}

// Build creates the figure. A file with one heatmap yields a
// *plot.Heatmap; several are appended into a *plot.List. opts apply to every
// heatmap, after the file's own settings.
func Build(f *File, opts ...plot.Option) (plot.Figure, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	dir := grid.Horizontal
	if f.Direction == "vertical" {
		dir = grid.Vertical
	}

	var (
		fig plot.Composable
		out plot.Figure
	)
	for i := range f.Heatmaps {
		h, err := buildHeatmap(&f.Heatmaps[i], opts)
		if err != nil {
			return nil, fmt.Errorf("heatmap %d: %w", i, err)
		}
		if fig == nil {
			fig, out = h, h
			continue
		}
		l, err := plot.Append(dir, fig, h, f.Pad)
		if err != nil {
			return nil, err
		}
		fig, out = l, l
	}
	return out, nil
}

func buildHeatmap(c *Heatmap, extra []plot.Option) (*plot.Heatmap, error) {
	m, err := c.Data.Dense()
	if err != nil {
		return nil, err
	}
	opts := []plot.Option{
		plot.WithSize(c.Width, c.Height),
		plot.WithMeshOptions(c.Mesh),
	}
	if c.Name != "" {
		opts = append(opts, plot.WithName(c.Name))
	}
	if c.MainAspect != 0 {
		opts = append(opts, plot.WithAspect(c.MainAspect))
	}
	if c.Square {
		opts = append(opts, plot.WithSquare())
	}
	h, err := plot.New(m, append(opts, extra...)...)
	if err != nil {
		return nil, err
	}

	if c.SplitRows != nil {
		if err := h.SplitRow(*c.SplitRows); err != nil {
			return nil, fmt.Errorf("split rows: %w", err)
		}
	}
	if c.SplitCols != nil {
		if err := h.SplitCol(*c.SplitCols); err != nil {
			return nil, fmt.Errorf("split cols: %w", err)
		}
	}
	for i, d := range c.Dendrograms {
		side, err := grid.ParseSide(d.Side)
		if err != nil {
			return nil, fmt.Errorf("dendrogram %d: %w", i, err)
		}
		if err := h.AddDendrogram(side, d.DendrogramOptions); err != nil {
			return nil, fmt.Errorf("dendrogram %d: %w", i, err)
		}
	}
	for i, p := range c.Panels {
		if err := addPanel(h, &c.Data, p); err != nil {
			return nil, fmt.Errorf("panel %d (%s): %w", i, p.Kind, err)
		}
	}
	for _, p := range c.Pads {
		side, err := grid.ParseSide(p.Side)
		if err != nil {
			return nil, err
		}
		if err := h.AddPad(side, p.Size); err != nil {
			return nil, err
		}
	}
	if c.Title != nil {
		if err := h.AddTitle(*c.Title); err != nil {
			return nil, fmt.Errorf("title: %w", err)
		}
	}
	return h, nil
}

func addPanel(h *plot.Heatmap, data *Matrix, p Panel) error {
	side, err := grid.ParseSide(p.Side)
	if err != nil {
		return err
	}
	plan, err := buildPlan(side, data, p)
	if err != nil {
		return err
	}
	if side == grid.Main {
		h.AddLayer(plan, p.ZOrder)
		return nil
	}
	return h.AddPlot(side, plan, plot.PanelOptions{Name: p.Name, Size: p.Size, Pad: p.PadAt})
}

func buildPlan(side grid.Side, data *Matrix, p Panel) (plot.Plan, error) {
	switch p.Kind {
	case "labels":
		texts, err := labelTexts(data, p)
		if err != nil {
			return nil, err
		}
		return plot.NewLabels(texts, p.Labels), nil
	case "title":
		return plot.NewTitle(p.Text, p.Labels.FontSize), nil
	case "colors":
		cats := p.Categories
		if p.Groups != nil {
			cats = vectorData(side, p.Groups)
		}
		return plot.NewColors(cats, p.Colors)
	case "colormesh":
		return plot.NewColorMesh(p.Values, p.Mesh)
	case "sized":
		return plot.NewSizedMesh(p.Values, p.Sized)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown panel kind %q", p.Kind)
}

func labelTexts(data *Matrix, p Panel) ([]string, error) {
	switch p.Names {
	case "":
		return p.Texts, nil
	case "rows":
		if data.RowLabels == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "names = rows but the matrix has no row labels")
		}
		return data.RowLabels, nil
	case "cols":
		if data.ColLabels == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "names = cols but the matrix has no column labels")
		}
		return data.ColLabels, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "names must be rows or cols, got %q", p.Names)
}

// vectorData shapes one value per row or column as the matrix form a side
// panel expects: a column for left/right, a row for top/bottom.
func vectorData[T any](side grid.Side, v []T) [][]T {
	if side.Horizontal() {
		return [][]T{v}
	}
	out := make([][]T, len(v))
	for i, x := range v {
		out[i] = []T{x}
	}
	return out
}
