package plot

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/heatgrid/pkg/cluster"
	"github.com/matzehuels/heatgrid/pkg/deform"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/render"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func newTestHeatmap(t *testing.T, rows, cols int, opts ...Option) *Heatmap {
	t.Helper()
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i*i%7) + float64(i)/10
	}
	opts = append([]Option{WithSize(4, 4), WithNamer(grid.NewCounterNamer())}, opts...)
	h, err := New(mat.NewDense(rows, cols, data), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return h
}

func render0(t *testing.T, h *Heatmap) *render.Recorder {
	t.Helper()
	rec := render.NewRecorder(h.Size())
	if err := h.Render(rec, 0); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return rec
}

func ops(rec *render.Recorder, kind string) []render.Op {
	var out []render.Op
	for _, op := range rec.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// markPlan writes its label at the origin so draw order can be observed.
type markPlan struct{ label string }

func (m markPlan) Kind() string     { return "mark" }
func (m markPlan) Splittable() bool { return false }
func (m markPlan) Draw(rc *RenderContext) error {
	rc.Canvas.Text(0, 0, m.label, render.TextStyle{})
	return nil
}

func TestRender_MainMesh(t *testing.T) {
	h := newTestHeatmap(t, 2, 3)
	rec := render0(t, h)

	if got := rec.Count("rect"); got != 6 {
		t.Errorf("rects = %d, want 6", got)
	}
	main, err := h.Grid().Get(grid.MainName)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(grid.Rect{W: 4, H: 4}, main.Rect, approx); diff != "" {
		t.Errorf("main rect mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SplitRowsAlignsLabels(t *testing.T) {
	h := newTestHeatmap(t, 4, 2)
	if err := h.SplitRow(SplitOptions{Cut: []int{2}}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddLeft(NewLabels([]string{"a", "b", "c", "d"}, LabelOptions{}), PanelOptions{Size: 1}); err != nil {
		t.Fatal(err)
	}
	rec := render0(t, h)

	main, err := h.Grid().Get(grid.MainName)
	if err != nil {
		t.Fatal(err)
	}
	if main.Rows != 2 || main.Cols != 1 {
		t.Fatalf("main split = %dx%d, want 2x1", main.Rows, main.Cols)
	}

	// Mesh rects are emitted block by block, row-major inside a block.
	rects := ops(rec, "rect")
	var wantY []float64
	for i := 0; i < 4; i++ {
		r := rects[2*i].Coords
		wantY = append(wantY, r[1]+r[3]/2)
	}
	var gotY []float64
	var gotText []string
	for _, op := range ops(rec, "text") {
		gotY = append(gotY, op.Coords[1])
		gotText = append(gotText, op.Text)
	}
	if diff := cmp.Diff(wantY, gotY, approx); diff != "" {
		t.Errorf("label rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, gotText); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitRow_LabelsReorder(t *testing.T) {
	h := newTestHeatmap(t, 4, 2)
	err := h.SplitRow(SplitOptions{Labels: []string{"x", "y", "x", "y"}, Order: []string{"y", "x"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.AddRight(NewLabels([]string{"r0", "r1", "r2", "r3"}, LabelOptions{}), PanelOptions{}); err != nil {
		t.Fatal(err)
	}
	rec := render0(t, h)

	var got []string
	for _, op := range ops(rec, "text") {
		got = append(got, op.Text)
	}
	if diff := cmp.Diff([]string{"r1", "r3", "r0", "r2"}, got); diff != "" {
		t.Errorf("label order mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_Errors(t *testing.T) {
	tests := []struct {
		name  string
		first *SplitOptions
		opts  SplitOptions
		want  errors.Code
	}{
		{"neither cut nor labels", nil, SplitOptions{}, errors.ErrCodeInvalidInput},
		{"both cut and labels", nil, SplitOptions{Cut: []int{1}, Labels: []string{"a", "a", "b"}}, errors.ErrCodeInvalidInput},
		{"bad breakpoint", nil, SplitOptions{Cut: []int{3}}, errors.ErrCodeInvalidRatio},
		{"split twice", &SplitOptions{Cut: []int{1}}, SplitOptions{Cut: []int{2}}, errors.ErrCodeSplitTwice},
		{"labels after cut", &SplitOptions{Cut: []int{1}}, SplitOptions{Labels: []string{"a", "b", "a"}}, errors.ErrCodeSplitTwice},
		{"label count", nil, SplitOptions{Labels: []string{"a"}}, errors.ErrCodeShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHeatmap(t, 3, 3)
			if tt.first != nil {
				if err := h.SplitRow(*tt.first); err != nil {
					t.Fatal(err)
				}
			}
			err := h.SplitRow(tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("SplitRow() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestSplitCol_Spacing(t *testing.T) {
	h := newTestHeatmap(t, 2, 4)
	spacing := 0.1
	if err := h.SplitCol(SplitOptions{Cut: []int{2}, Spacing: &spacing}); err != nil {
		t.Fatal(err)
	}
	render0(t, h)

	main, err := h.Grid().Get(grid.MainName)
	if err != nil {
		t.Fatal(err)
	}
	want := []grid.Rect{{X: 0, Y: 0, W: 1.8, H: 4}, {X: 2.2, Y: 0, W: 1.8, H: 4}}
	if diff := cmp.Diff(want, main.Cells, approx); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestAddDendrogram(t *testing.T) {
	tests := []struct {
		name      string
		cut       []int
		wantLines int
	}{
		{"whole axis", nil, 9},
		{"per group", []int{2}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHeatmap(t, 4, 2)
			if err := h.AddDendrogram(grid.Left, DendrogramOptions{Method: "single"}); err != nil {
				t.Fatal(err)
			}
			if tt.cut != nil {
				if err := h.SplitRow(SplitOptions{Cut: tt.cut}); err != nil {
					t.Fatal(err)
				}
			}
			rec := render0(t, h)

			lines := ops(rec, "line")
			if len(lines) != tt.wantLines {
				t.Fatalf("lines = %d, want %d", len(lines), tt.wantLines)
			}
			for _, l := range lines {
				for _, x := range []float64{l.Coords[0], l.Coords[2]} {
					if x < 0 || x > DefaultDendrogramSize+1e-9 {
						t.Errorf("line x = %g outside the dendrogram panel", x)
					}
				}
			}
		})
	}
}

func TestAddDendrogram_Params(t *testing.T) {
	h := newTestHeatmap(t, 3, 3)
	if err := h.AddDendrogram(grid.Left, DendrogramOptions{Method: "complete"}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddDendrogram(grid.Right, DendrogramOptions{Hide: true}); err != nil {
		t.Errorf("empty params after first: %v", err)
	}
	if err := h.AddDendrogram(grid.Right, DendrogramOptions{Method: "complete"}); err != nil {
		t.Errorf("same params after first: %v", err)
	}
	err := h.AddDendrogram(grid.Right, DendrogramOptions{Method: "ward"})
	if !errors.Is(err, errors.ErrCodeClusterConflict) {
		t.Errorf("conflicting params error = %v, want CLUSTER_CONFLICT", err)
	}
	if err := h.AddDendrogram(grid.Top, DendrogramOptions{Method: "ward"}); err != nil {
		t.Errorf("column params are independent of rows: %v", err)
	}
	if err := h.AddDendrogram(grid.Main, DendrogramOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("main side error = %v, want INVALID_INPUT", err)
	}
}

func TestAddDendrogram_FailedPanelKeepsParams(t *testing.T) {
	h := newTestHeatmap(t, 3, 3)
	if err := h.AddLeft(markPlan{"x"}, PanelOptions{Name: "taken"}); err != nil {
		t.Fatal(err)
	}
	err := h.AddDendrogram(grid.Left, DendrogramOptions{Name: "taken", Method: "complete"})
	if !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Fatalf("duplicate name error = %v, want DUPLICATE_NAME", err)
	}
	if method, _ := h.Deform().ClusterParams(deform.Row); method != cluster.DefaultMethod {
		t.Errorf("failed dendrogram fixed method %q", method)
	}
	if h.Deform().IsClustered(deform.Row) {
		t.Error("failed dendrogram requested clustering")
	}
	if err := h.AddDendrogram(grid.Left, DendrogramOptions{Method: "average"}); err != nil {
		t.Errorf("retry with other params: %v", err)
	}
}

func TestAddDendrogram_Hide(t *testing.T) {
	h := newTestHeatmap(t, 3, 3)
	if err := h.AddDendrogram(grid.Top, DendrogramOptions{Hide: true}); err != nil {
		t.Fatal(err)
	}
	rec := render0(t, h)

	if rec.Count("line") != 0 {
		t.Errorf("hidden dendrogram drew %d lines", rec.Count("line"))
	}
	if w, ht := h.Size(); w != 4 || ht != 4 {
		t.Errorf("Size() = %gx%g, want 4x4", w, ht)
	}
	if !h.Deform().IsClustered(deform.Col) {
		t.Error("columns not clustered")
	}
}

func TestAddLayer_ZOrder(t *testing.T) {
	h := newTestHeatmap(t, 1, 1)
	h.AddLayer(markPlan{"high"}, 2)
	h.AddLayer(markPlan{"low"}, -1)
	h.AddLayer(markPlan{"mid"}, 1)
	rec := render0(t, h)

	var got []string
	for _, op := range rec.Ops {
		if op.Kind == "text" {
			got = append(got, op.Text)
		} else {
			got = append(got, op.Kind)
		}
	}
	if diff := cmp.Diff([]string{"low", "rect", "mid", "high"}, got); diff != "" {
		t.Errorf("draw order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddTitle(t *testing.T) {
	h := newTestHeatmap(t, 2, 2)
	if err := h.AddTitle(TitleOptions{Top: "Expression", Left: "Genes"}); err != nil {
		t.Fatal(err)
	}
	w, ht := h.Size()
	lineHeight := render.TextHeight(12)
	if diff := cmp.Diff([]float64{4 + lineHeight + DefaultTitlePad, 4 + lineHeight + DefaultTitlePad}, []float64{w, ht}, approx); diff != "" {
		t.Errorf("Size() mismatch (-want +got):\n%s", diff)
	}
	rec := render0(t, h)

	texts := ops(rec, "text")
	if len(texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(texts))
	}
	for _, op := range texts {
		if !op.Font.Bold {
			t.Errorf("title %q is not bold", op.Text)
		}
		if op.Text == "Genes" && op.Font.Rotate != -90 {
			t.Errorf("left title rotation = %g, want -90", op.Font.Rotate)
		}
	}
}

func TestAddPlot_Sizes(t *testing.T) {
	h := newTestHeatmap(t, 2, 2)
	labels := NewLabels([]string{"short", "a much longer label"}, LabelOptions{})
	if err := h.AddLeft(labels, PanelOptions{Name: "measured"}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddRight(markPlan{"x"}, PanelOptions{Name: "default"}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddTop(markPlan{"x"}, PanelOptions{Name: "fixed", Size: 0.25}); err != nil {
		t.Fatal(err)
	}
	if err := h.AddTop(markPlan{"x"}, PanelOptions{Name: "fixed"}); !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Errorf("duplicate name error = %v, want DUPLICATE_NAME", err)
	}
	render0(t, h)

	want := map[string]float64{
		"measured": labels.Measure(grid.Left),
		"default":  DefaultPanelSize,
		"fixed":    0.25,
	}
	for name, size := range want {
		p, err := h.Grid().Get(name)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(size, p.Size, approx); diff != "" {
			t.Errorf("%s size mismatch (-want +got):\n%s", name, diff)
		}
	}
}

// badMeasure is a plan whose measured extent is unusable.
type badMeasure struct{ markPlan }

func (badMeasure) Measure(grid.Side) float64 { return math.NaN() }

func TestAddPlot_InvalidMeasureLeavesNoPanel(t *testing.T) {
	h := newTestHeatmap(t, 2, 2)
	err := h.AddLeft(badMeasure{markPlan{"x"}}, PanelOptions{Name: "track"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("AddLeft() error = %v, want INVALID_INPUT", err)
	}
	if h.Grid().Has("track") {
		t.Error("panel registered despite failed measurement")
	}
	if err := h.AddLeft(NewLabels([]string{"a", "b"}, LabelOptions{}), PanelOptions{Name: "track"}); err != nil {
		t.Errorf("retry with the same name: %v", err)
	}
	if err := h.Freeze(1); err != nil {
		t.Errorf("Freeze() after failed AddLeft: %v", err)
	}
}

func TestWithSquare(t *testing.T) {
	h := newTestHeatmap(t, 2, 4, WithSize(6, 4), WithSquare())
	render0(t, h)

	main, err := h.Grid().Get(grid.MainName)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(main.Rect.W, main.Rect.H, approx); diff != "" {
		t.Errorf("main panel is not square: %+v", main.Rect)
	}
}

func TestColors_TopFollowsColumnSplit(t *testing.T) {
	h := newTestHeatmap(t, 2, 4)
	if err := h.SplitCol(SplitOptions{Labels: []string{"a", "b", "a", "b"}}); err != nil {
		t.Fatal(err)
	}
	colors, err := NewColors([][]string{{"a", "b", "a", "b"}}, ColorsOptions{Palette: map[string]string{"a": "#ff0000"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.AddTop(colors, PanelOptions{Name: "groups", Size: 0.3}); err != nil {
		t.Fatal(err)
	}
	rec := render0(t, h)

	top, err := h.Grid().Get("groups")
	if err != nil {
		t.Fatal(err)
	}
	if top.Cols != 2 {
		t.Fatalf("top panel cols = %d, want 2", top.Cols)
	}
	rects := ops(rec, "rect")
	if len(rects) != 8+4 {
		t.Fatalf("rects = %d, want 12", len(rects))
	}
	// The first block holds both "a" columns.
	for _, op := range rects[:2] {
		if op.Style.Fill != "#ff0000" {
			t.Errorf("first block fill = %s, want #ff0000", op.Style.Fill)
		}
	}
}

func TestRender_FrozenGridKeepsLayout(t *testing.T) {
	h := newTestHeatmap(t, 2, 2)
	render0(t, h)
	if err := h.SplitRow(SplitOptions{Cut: []int{1}}); err != nil {
		t.Fatal(err)
	}
	err := h.Render(render.NewRecorder(4, 4), 0)
	if !errors.Is(err, errors.ErrCodeAlreadyFrozen) {
		t.Errorf("Render() after freeze with new split error = %v, want ALREADY_FROZEN", err)
	}
}

func TestFreeze_WithoutDrawing(t *testing.T) {
	h := newTestHeatmap(t, 4, 2)
	if err := h.SplitRow(SplitOptions{Cut: []int{2}}); err != nil {
		t.Fatal(err)
	}
	if err := h.Freeze(0); err != nil {
		t.Fatalf("Freeze() error = %v", err)
	}
	main, err := h.Grid().Get(grid.MainName)
	if err != nil {
		t.Fatal(err)
	}
	if main.Rows != 2 || len(main.Cells) != 2 {
		t.Errorf("main split = %d rows, %d cells; want 2, 2", main.Rows, len(main.Cells))
	}
	// A later render reuses the frozen layout.
	rec := render.NewRecorder(h.Size())
	if err := h.Render(rec, 1); err != nil {
		t.Fatalf("Render() after Freeze error = %v", err)
	}
}
