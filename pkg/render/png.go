package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// DefaultDPI is the raster resolution used when none is given.
const DefaultDPI = 144.0

// Raster limits. MaxPixels bounds width × height of a PNG canvas.
const (
	MaxDPI    = 1200.0
	MaxPixels = 1 << 26
)

// PNG is a Canvas that rasterises with gg.
type PNG struct {
	w, h float64
	dpi  float64
	ctx  *gg.Context
}

// NewPNG creates a raster canvas of width × height canvas units at dpi
// pixels per unit. The background is white. A zero dpi uses DefaultDPI.
func NewPNG(width, height, dpi float64) (*PNG, error) {
	if dpi == 0 {
		dpi = DefaultDPI
	}
	if !finite(dpi) || dpi < 0 || dpi > MaxDPI {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dpi must be in (0, %g], got %v", MaxDPI, dpi)
	}
	if !finite(width) || !finite(height) || width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png canvas size must be positive, got %v × %v", width, height)
	}
	pw, ph := math.Ceil(width*dpi), math.Ceil(height*dpi)
	if pw*ph > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"png of %.0f × %.0f pixels exceeds the %d pixel limit; lower the dpi", pw, ph, MaxPixels)
	}
	ctx := gg.NewContext(int(pw), int(ph))
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()
	return &PNG{w: width, h: height, dpi: dpi, ctx: ctx}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Size implements Canvas.
func (p *PNG) Size() (float64, float64) { return p.w, p.h }

func (p *PNG) px(v float64) float64 { return v * p.dpi }

// Rect implements Canvas.
func (p *PNG) Rect(x, y, w, h float64, s Style) {
	p.ctx.DrawRectangle(p.px(x), p.px(y), p.px(w), p.px(h))
	p.paint(s)
}

// Circle implements Canvas.
func (p *PNG) Circle(cx, cy, r float64, s Style) {
	p.ctx.DrawCircle(p.px(cx), p.px(cy), p.px(r))
	p.paint(s)
}

// Line implements Canvas.
func (p *PNG) Line(x1, y1, x2, y2 float64, s Style) {
	p.ctx.DrawLine(p.px(x1), p.px(y1), p.px(x2), p.px(y2))
	s.Fill = ""
	p.paint(s)
}

// Text implements Canvas. gg's built-in face has a fixed size, so the text
// is scaled to the requested point size.
func (p *PNG) Text(x, y float64, text string, ts TextStyle) {
	color := ts.Color
	if color == "" {
		color = "#000000"
	}
	ax := 0.0
	switch ts.Anchor {
	case AnchorMiddle:
		ax = 0.5
	case AnchorEnd:
		ax = 1
	}

	p.ctx.Push()
	defer p.ctx.Pop()
	p.ctx.SetHexColor(color)
	p.ctx.Translate(p.px(x), p.px(y))
	if ts.Rotate != 0 {
		p.ctx.Rotate(gg.Radians(ts.Rotate))
	}
	scale := ts.Size / PointsPerUnit * p.dpi / p.ctx.FontHeight()
	p.ctx.Scale(scale, scale)
	p.ctx.DrawStringAnchored(text, 0, 0, ax, 0.5)
}

func (p *PNG) paint(s Style) {
	alpha := 1.0
	if s.Opacity > 0 && s.Opacity < 1 {
		alpha = s.Opacity
	}
	if s.Fill != "" {
		p.setColor(s.Fill, alpha)
		if s.Stroke != "" {
			p.ctx.FillPreserve()
		} else {
			p.ctx.Fill()
			return
		}
	}
	if s.Stroke != "" {
		p.setColor(s.Stroke, alpha)
		w := s.StrokeWidth
		if w == 0 {
			w = 1
		}
		p.ctx.SetLineWidth(w / PointsPerUnit * p.dpi)
		p.ctx.Stroke()
		return
	}
	p.ctx.ClearPath()
}

func (p *PNG) setColor(hex string, alpha float64) {
	c, err := ParseColor(hex)
	if err != nil {
		p.ctx.SetRGB(0, 0, 0)
		return
	}
	p.ctx.SetRGBA(c.R, c.G, c.B, alpha)
}

// Bytes encodes the image as PNG.
func (p *PNG) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.ctx.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
