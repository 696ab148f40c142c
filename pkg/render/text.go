package render

import "unicode/utf8"

const (
	fontCharWidth  = 0.55
	fontLineHeight = 1.2
)

// TextWidth estimates the width of text at size points, in canvas units.
func TextWidth(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * fontCharWidth / PointsPerUnit
}

// TextHeight estimates the height of one line at size points, in canvas
// units.
func TextHeight(size float64) float64 {
	return size * fontLineHeight / PointsPerUnit
}

// MaxTextWidth returns the widest TextWidth among texts.
func MaxTextWidth(texts []string, size float64) float64 {
	var w float64
	for _, t := range texts {
		w = max(w, TextWidth(t, size))
	}
	return w
}
