package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// heatmapGrid builds a grid shaped like a typical heatmap: labels on the
// left, a dendrogram on top and a legend on the right.
func heatmapGrid(t *testing.T, name string, w, h float64) *Grid {
	t.Helper()
	g := newGrid(t, w, h, name)
	mustAdd(t, g, PanelSpec{Name: "labels", Side: Left, Size: Fixed(0.8)})
	mustAdd(t, g, PanelSpec{Name: "dendro", Side: Top, Size: Fixed(0.5), Pad: 0.1})
	mustAdd(t, g, PanelSpec{Name: "legend", Side: Right, Size: Fixed(0.6), Pad: 0.2})
	if err := g.Split(MainName, SplitPlan{RowRatios: []float64{2, 1}, HSpace: 0.05}); err != nil {
		t.Fatal(err)
	}
	return g
}

func localPanels(t *testing.T, g *Grid, member string) map[string]Rect {
	t.Helper()
	origin, err := g.Bounds(member)
	if err != nil {
		t.Fatalf("Bounds(%s): %v", member, err)
	}
	out := make(map[string]Rect)
	for _, name := range []string{MainName, "labels", "dendro", "legend"} {
		q := name
		if g.IsComposite() {
			q = Qualify(member, name)
		}
		out[name] = mustGet(t, g, q).Rect.Offset(-origin.X, -origin.Y)
	}
	return out
}

func TestAppendHorizontal_PreservesGeometry(t *testing.T) {
	a := heatmapGrid(t, "a", 4, 3)
	b := heatmapGrid(t, "b", 5, 2.5)
	if err := a.Freeze(4, 3, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Freeze(5, 2.5, 1); err != nil {
		t.Fatal(err)
	}

	const pad = 0.5
	combined, err := a.AppendHorizontal(b, pad)
	if err != nil {
		t.Fatal(err)
	}
	if combined.IsFrozen() {
		t.Fatal("combined grid must start in building state")
	}
	w, h := combined.Size()
	if w != 4+5+pad || h != 3 {
		t.Fatalf("Size() = %vx%v, want %vx3", w, h, 4+5+pad)
	}
	if err := combined.Freeze(w, h, 1); err != nil {
		t.Fatal(err)
	}

	for _, src := range []*Grid{a, b} {
		want := localPanels(t, src, src.Name())
		got := localPanels(t, combined, src.Name())
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("%s local geometry changed (-want +got):\n%s", src.Name(), diff)
		}
	}

	bb, _ := combined.Bounds("b")
	if bb.X != 4+pad {
		t.Errorf("b starts at x=%v, want %v", bb.X, 4+pad)
	}
}

func TestAppendVertical(t *testing.T) {
	a := heatmapGrid(t, "a", 4, 3)
	b := heatmapGrid(t, "b", 4, 2)
	combined, err := a.AppendVertical(b, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	w, h := combined.Size()
	if w != 4 || h != 5.25 {
		t.Fatalf("Size() = %vx%v, want 4x5.25", w, h)
	}
	if err := combined.Freeze(w, h, 0); err != nil {
		t.Fatal(err)
	}
	bb, _ := combined.Bounds("b")
	if diff := cmp.Diff(Rect{X: 0, Y: 3.25, W: 4, H: 2}, bb, approx); diff != "" {
		t.Errorf("b bounds mismatch (-want +got):\n%s", diff)
	}
	cells := mustGet(t, combined, "b/main").Cells
	if len(cells) != 2 {
		t.Errorf("split plan not carried over: %d cells", len(cells))
	}
}

func TestAppend_DoesNotAliasInputs(t *testing.T) {
	a := heatmapGrid(t, "a", 4, 3)
	b := newGrid(t, 3, 3, "b")
	combined, err := a.AppendHorizontal(b, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := combined.SetMeasuredSize("a/labels", 2); err != nil {
		t.Fatal(err)
	}
	if err := combined.Split("b/main", SplitPlan{ColRatios: []float64{1, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := combined.AddPanel(PanelSpec{Name: "title", Side: Top, Size: Fixed(0.5)}); err != nil {
		t.Fatal(err)
	}
	if b.IsSplit(MainName) {
		t.Error("splitting the combined grid leaked into the input")
	}
	if b.Has("title") || a.Has("title") {
		t.Error("combined side panel leaked into an input")
	}

	if err := a.Freeze(4, 3, 0); err != nil {
		t.Fatal(err)
	}
	if got := mustGet(t, a, "labels").Rect.W; got != 0.8 {
		t.Errorf("input labels width = %v, want 0.8", got)
	}
	if combined.IsFrozen() {
		t.Error("freezing an input froze the combined grid")
	}
}

func TestAppend_NestedAndFlattened(t *testing.T) {
	namer := NewCounterNamer()
	mk := func(name string) *Grid {
		g, err := New(2, 2, WithName(name), WithNamer(namer))
		if err != nil {
			t.Fatal(err)
		}
		return g
	}
	ab, err := mk("a").AppendHorizontal(mk("b"), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	abc, err := ab.AppendHorizontal(mk("c"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, abc.Leaves()); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}
	if w, h := abc.Size(); w != 7.5 || h != 2 {
		t.Errorf("flattened Size() = %vx%v, want 7.5x2", w, h)
	}

	stacked, err := abc.AppendVertical(mk("d"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := stacked.Size(); w != 7.5 || h != 4 {
		t.Errorf("nested Size() = %vx%v, want 7.5x4", w, h)
	}
	if err := stacked.Freeze(7.5, 4, 0); err != nil {
		t.Fatal(err)
	}
	c := mustGet(t, stacked, "c/main").Rect
	if diff := cmp.Diff(Rect{X: 5.5, Y: 0, W: 2, H: 2}, c, approx); diff != "" {
		t.Errorf("c mismatch (-want +got):\n%s", diff)
	}
	// d keeps its natural width, aligned left under the row above.
	d := mustGet(t, stacked, "d/main").Rect
	if diff := cmp.Diff(Rect{X: 0, Y: 2, W: 2, H: 2}, d, approx); diff != "" {
		t.Errorf("d mismatch (-want +got):\n%s", diff)
	}

	panels, err := stacked.Panels()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range panels {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"a/main", "b/main", "c/main", "d/main"}, names); diff != "" {
		t.Errorf("panel names mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend_Errors(t *testing.T) {
	a := newGrid(t, 2, 2, "same")
	b := newGrid(t, 2, 2, "same")
	if _, err := a.AppendHorizontal(b, 0); !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Errorf("duplicate names: err = %v", err)
	}
	c := newGrid(t, 2, 2, "other")
	if _, err := a.AppendVertical(c, -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative pad: err = %v", err)
	}
}

func TestComposite_UnresolvedMemberBlocksFreeze(t *testing.T) {
	a := newGrid(t, 2, 2, "a")
	mustAdd(t, a, PanelSpec{Name: "title", Side: Top, Size: Auto()})
	b := newGrid(t, 2, 2, "b")
	combined, err := a.AppendHorizontal(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := combined.Freeze(4, 2, 0); !errors.Is(err, errors.ErrCodeUnresolvedSize) {
		t.Fatalf("err = %v, want UNRESOLVED_SIZE", err)
	}
	if err := combined.SetMeasuredSize("a/title", 0.5); err != nil {
		t.Fatal(err)
	}
	if err := combined.Freeze(4, 2, 0); err != nil {
		t.Fatal(err)
	}
	if h := mustGet(t, combined, "a/title").Rect.H; h != 0.5 {
		t.Errorf("title height = %v, want 0.5", h)
	}
}
