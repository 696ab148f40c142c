package grid

import (
	"strings"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// Side identifies where a panel is attached.
type Side int

const (
	Main Side = iota
	Top
	Bottom
	Left
	Right

	numSides
)

var sideNames = [...]string{"main", "top", "bottom", "left", "right"}

func (s Side) String() string {
	if s < 0 || s >= numSides {
		return "unknown"
	}
	return sideNames[s]
}

// ParseSide converts a side name (case-insensitive) to a Side.
func ParseSide(s string) (Side, error) {
	for i, name := range sideNames {
		if strings.EqualFold(s, name) {
			return Side(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown side %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Horizontal reports whether panels on this side run along the main panel's
// width (top and bottom).
func (s Side) Horizontal() bool { return s == Top || s == Bottom }

// Size is a panel size that is either known up front or measured later.
type Size struct {
	value float64
	auto  bool
}

// Fixed returns a known size.
func Fixed(v float64) Size { return Size{value: v} }

// Auto returns a size resolved by SetMeasuredSize before freeze.
func Auto() Size { return Size{auto: true} }

// IsAuto reports whether the size is deferred.
func (s Size) IsAuto() bool { return s.auto }

// Value returns the fixed size, 0 for Auto.
func (s Size) Value() float64 { return s.value }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// fitAspect shrinks r symmetrically so that H/W equals aspect. A
// non-positive aspect leaves r unchanged.
func fitAspect(r Rect, aspect float64) Rect {
	if aspect <= 0 {
		return r
	}
	if r.H/r.W > aspect {
		h := r.W * aspect
		return Rect{X: r.X, Y: r.Y + (r.H-h)/2, W: r.W, H: h}
	}
	w := r.H / aspect
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y, W: w, H: r.H}
}

// segments divides length into len(ratios) parts proportional to ratios,
// separated by gaps of space*length. It returns each part's offset and
// length.
func segments(length float64, ratios []float64, space float64) (offsets, lengths []float64) {
	if len(ratios) == 0 {
		return []float64{0}, []float64{length}
	}
	gap := space * length
	avail := length - gap*float64(len(ratios)-1)
	var total float64
	for _, r := range ratios {
		total += r
	}

	offsets = make([]float64, len(ratios))
	lengths = make([]float64, len(ratios))
	var pos float64
	for i, r := range ratios {
		offsets[i] = pos
		lengths[i] = avail * r / total
		pos += lengths[i] + gap
	}
	return offsets, lengths
}
