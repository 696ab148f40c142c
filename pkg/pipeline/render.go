package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/heatgrid/pkg/plot"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// Render draws fig once per format. The first format freezes the figure's
// grid; later formats reuse that layout.
func Render(ctx context.Context, fig plot.Figure, formats []string, aspect, dpi float64) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		format, err := render.ParseFormat(f)
		if err != nil {
			return nil, err
		}
		data, err := RenderFormat(ctx, fig, format, aspect, dpi)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[string(format)] = data
	}
	return artifacts, nil
}

// RenderFormat produces one artifact.
func RenderFormat(ctx context.Context, fig plot.Figure, format render.Format, aspect, dpi float64) ([]byte, error) {
	w, h := fig.Size()
	switch format {
	case render.FormatSVG, render.FormatPDF:
		svg := render.NewSVG(w, h, render.WithBackground("#ffffff"))
		if err := fig.Render(svg, aspect); err != nil {
			return nil, err
		}
		if format == render.FormatSVG {
			return svg.Bytes(), nil
		}
		return render.ToPDF(ctx, svg.Bytes())
	case render.FormatPNG:
		png, err := render.NewPNG(w, h, dpi)
		if err != nil {
			return nil, err
		}
		if err := fig.Render(png, aspect); err != nil {
			return nil, err
		}
		return png.Bytes()
	case render.FormatJSON:
		l, err := ExportLayout(fig, aspect)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := render.WriteLayout(&buf, l); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
