package plot

import "math"

// Canvas size limits, in canvas units per side.
const (
	MinCanvasSize = 2.0
	MaxCanvasSize = 20.0
)

// CanvasSize derives a canvas width and height from the main panel's aspect
// ratio (height/width). Zero w or h means unset. With both set the height
// wins and the width follows the ratio; with only w set the height follows
// it; with neither the height is 4 for tall or square ratios and 2 for wide
// ones. The result is rescaled to stay within [MinCanvasSize, MaxCanvasSize]
// on both sides while keeping the ratio where possible, then clipped.
func CanvasSize(aspect, w, h float64) (width, height float64) {
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		aspect = 1
	}
	switch {
	case h > 0:
		width, height = h/aspect, h
	case w > 0:
		width, height = w, w*aspect
	case aspect >= 1:
		width, height = 4/aspect, 4
	default:
		width, height = 2/aspect, 2
	}

	if s := min(1, width/MinCanvasSize, height/MinCanvasSize); s < 1 {
		width, height = width/s, height/s
	}
	if s := max(1, width/MaxCanvasSize, height/MaxCanvasSize); s > 1 {
		width, height = width/s, height/s
	}
	return clamp(width), clamp(height)
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, MinCanvasSize), MaxCanvasSize)
}
