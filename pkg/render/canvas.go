package render

import (
	"strings"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// PointsPerUnit converts canvas units (inches) to points.
const PointsPerUnit = 72.0

// Style controls how a shape is filled and outlined. Empty colors disable
// the fill or the stroke.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64 // points
	Opacity     float64 // 0 means opaque
}

// Anchor is the horizontal alignment of text relative to its point.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

func (a Anchor) svg() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

// TextStyle controls text rendering. Text is vertically centred on its
// point and rotated clockwise by Rotate degrees around it.
type TextStyle struct {
	Size   float64 // points
	Color  string
	Anchor Anchor
	Rotate float64
	Bold   bool
}

// Canvas is a drawing surface in canvas units.
type Canvas interface {
	Size() (width, height float64)
	Rect(x, y, w, h float64, s Style)
	Circle(cx, cy, r float64, s Style)
	Line(x1, y1, x2, y2 float64, s Style)
	Text(x, y float64, text string, ts TextStyle)
}

// Format is an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (want svg, png, pdf or json)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	default:
		return "image/svg+xml"
	}
}
