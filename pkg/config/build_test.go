package config

import (
	"testing"

	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/grid"
	"github.com/matzehuels/heatgrid/pkg/plot"
	"github.com/matzehuels/heatgrid/pkg/render"
)

func TestBuild_Single(t *testing.T) {
	f, err := Parse([]byte(tomlFigure), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	fig, err := Build(f, plot.WithNamer(grid.NewCounterNamer()))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	h, ok := fig.(*plot.Heatmap)
	if !ok {
		t.Fatalf("Build() = %T, want *plot.Heatmap", fig)
	}
	if h.Name() != "expr" {
		t.Errorf("Name() = %q", h.Name())
	}
	if got := h.Deform().ColRatios(); len(got) != 2 {
		t.Errorf("column segments = %v, want 2", got)
	}

	rec := render.NewRecorder(fig.Size())
	if err := fig.Render(rec, f.RenderAspect()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// 6 cells annotated, 2 row labels and 1 title.
	if got := rec.Count("text"); got != 6+2+1 {
		t.Errorf("texts = %d, want 9", got)
	}
	if got := rec.Count("line"); got != 3 {
		t.Errorf("dendrogram lines = %d, want 3", got)
	}
}

func TestBuild_List(t *testing.T) {
	input := `
direction = "vertical"
pad = 0.5

[[heatmap]]
name = "a"
data = { values = [[1, 2], [3, 4]] }

[[heatmap.panel]]
side = "top"
kind = "colors"
groups = ["x", "y"]

[[heatmap]]
name = "b"
data = { values = [[1, 2], [3, 4], [5, 6]] }

[[heatmap.panel]]
side = "main"
kind = "sized"
values = [[1, 2], [3, 4], [5, 6]]
zorder = 1

[[heatmap.panel]]
side = "left"
kind = "colors"
groups = ["p", "q", "p"]
size = 0.2
`
	f, err := Parse([]byte(input), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	fig, err := Build(f)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	l, ok := fig.(*plot.List)
	if !ok {
		t.Fatalf("Build() = %T, want *plot.List", fig)
	}
	if got := len(l.Heatmaps()); got != 2 {
		t.Fatalf("heatmaps = %d, want 2", got)
	}

	rec := render.NewRecorder(fig.Size())
	if err := fig.Render(rec, 1); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// a: 4 cells + 2 colors; b: 6 cells + 3 colors.
	if got := rec.Count("rect"); got != 15 {
		t.Errorf("rects = %d, want 15", got)
	}
	// The smallest value gets no marker.
	if got := rec.Count("circle"); got != 5 {
		t.Errorf("circles = %d, want 5", got)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  errors.Code
	}{
		{"ragged data", `{"heatmap": [{"data": {"values": [[1, 2], [3]]}}]}`, errors.ErrCodeShapeMismatch},
		{"bad side", `{"heatmap": [{"data": {"values": [[1]]}, "dendrogram": [{"side": "north"}]}]}`, errors.ErrCodeInvalidInput},
		{"row names missing", `{"heatmap": [{"data": {"values": [[1]]}, "panel": [{"side": "left", "kind": "labels", "names": "rows"}]}]}`, errors.ErrCodeInvalidConfig},
		{"names value", `{"heatmap": [{"data": {"values": [[1]]}, "panel": [{"side": "left", "kind": "labels", "names": "both"}]}]}`, errors.ErrCodeInvalidConfig},
		{"cut and labels", `{"heatmap": [{"data": {"values": [[1], [2], [3]]}, "split_rows": {"cut": [1], "labels": ["a", "b", "c"]}}]}`, errors.ErrCodeInvalidInput},
		{"duplicate names", `{"heatmap": [{"name": "x", "data": {"values": [[1]]}}, {"name": "x", "data": {"values": [[1]]}}]}`, errors.ErrCodeDuplicateName},
		{"cluster conflict", `{"heatmap": [{"data": {"values": [[1], [2]]}, "dendrogram": [{"side": "left", "method": "single"}, {"side": "right", "method": "complete"}]}]}`, errors.ErrCodeClusterConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.input), FormatJSON)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Build(f); !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want code %s", err, tt.want)
			}
		})
	}
}
