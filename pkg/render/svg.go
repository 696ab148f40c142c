package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// SVGOption configures an SVG canvas.
type SVGOption func(*SVG)

// WithBackground fills the canvas with a color before drawing.
func WithBackground(color string) SVGOption { return func(s *SVG) { s.background = color } }

// WithFontFamily sets the font family for all text.
func WithFontFamily(family string) SVGOption { return func(s *SVG) { s.font = family } }

// SVG is a Canvas that builds an SVG document in memory. Coordinates are
// written in points.
type SVG struct {
	w, h       float64
	background string
	font       string
	buf        bytes.Buffer
}

// NewSVG creates an SVG canvas of width × height canvas units.
func NewSVG(width, height float64, opts ...SVGOption) *SVG {
	s := &SVG{w: width, h: height, font: "Helvetica, Arial, sans-serif"}
	for _, opt := range opts {
		opt(s)
	}
	if s.background != "" {
		s.Rect(0, 0, width, height, Style{Fill: s.background})
	}
	return s
}

// Size implements Canvas.
func (s *SVG) Size() (float64, float64) { return s.w, s.h }

// Rect implements Canvas.
func (s *SVG) Rect(x, y, w, h float64, st Style) {
	fmt.Fprintf(&s.buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"%s/>`+"\n",
		pt(x), pt(y), pt(w), pt(h), styleAttrs(st))
}

// Circle implements Canvas.
func (s *SVG) Circle(cx, cy, r float64, st Style) {
	fmt.Fprintf(&s.buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f"%s/>`+"\n", pt(cx), pt(cy), pt(r), styleAttrs(st))
}

// Line implements Canvas.
func (s *SVG) Line(x1, y1, x2, y2 float64, st Style) {
	st.Fill = ""
	fmt.Fprintf(&s.buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"%s/>`+"\n",
		pt(x1), pt(y1), pt(x2), pt(y2), styleAttrs(st))
}

// Text implements Canvas.
func (s *SVG) Text(x, y float64, text string, ts TextStyle) {
	color := ts.Color
	if color == "" {
		color = "#000000"
	}
	weight := ""
	if ts.Bold {
		weight = ` font-weight="bold"`
	}
	rotate := ""
	if ts.Rotate != 0 {
		rotate = fmt.Sprintf(` transform="rotate(%.1f %.2f %.2f)"`, ts.Rotate, pt(x), pt(y))
	}
	fmt.Fprintf(&s.buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" fill="%s" text-anchor="%s" dominant-baseline="central"%s%s>%s</text>`+"\n",
		pt(x), pt(y), ts.Size, color, ts.Anchor.svg(), weight, rotate, EscapeXML(text))
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		pt(s.w), pt(s.h), pt(s.w), pt(s.h), EscapeXML(s.font))
	out.Write(s.buf.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}

func pt(v float64) float64 { return v * PointsPerUnit }

func styleAttrs(st Style) string {
	var b bytes.Buffer
	if st.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, st.Fill)
	} else {
		b.WriteString(` fill="none"`)
	}
	if st.Stroke != "" {
		w := st.StrokeWidth
		if w == 0 {
			w = 1
		}
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%.2f"`, st.Stroke, w)
	}
	if st.Opacity > 0 && st.Opacity < 1 {
		fmt.Fprintf(&b, ` opacity="%.2f"`, st.Opacity)
	}
	return b.String()
}

// EscapeXML escapes text for use in XML content and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
