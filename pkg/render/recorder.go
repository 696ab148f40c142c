package render

// Op is one recorded drawing primitive.
type Op struct {
	Kind   string    `json:"kind"`
	Coords []float64 `json:"coords"`
	Text   string    `json:"text,omitempty"`
	Style  Style     `json:"style,omitzero"`
	Font   TextStyle `json:"font,omitzero"`
}

// Recorder is a Canvas that keeps every primitive instead of drawing.
type Recorder struct {
	W, H float64
	Ops  []Op
}

// NewRecorder creates a recorder of width × height canvas units.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{W: width, H: height}
}

// Size implements Canvas.
func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

// Rect implements Canvas.
func (r *Recorder) Rect(x, y, w, h float64, s Style) {
	r.Ops = append(r.Ops, Op{Kind: "rect", Coords: []float64{x, y, w, h}, Style: s})
}

// Circle implements Canvas.
func (r *Recorder) Circle(cx, cy, radius float64, s Style) {
	r.Ops = append(r.Ops, Op{Kind: "circle", Coords: []float64{cx, cy, radius}, Style: s})
}

// Line implements Canvas.
func (r *Recorder) Line(x1, y1, x2, y2 float64, s Style) {
	r.Ops = append(r.Ops, Op{Kind: "line", Coords: []float64{x1, y1, x2, y2}, Style: s})
}

// Text implements Canvas.
func (r *Recorder) Text(x, y float64, text string, ts TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: "text", Coords: []float64{x, y}, Text: text, Font: ts})
}

// Count returns the number of recorded primitives of a kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
