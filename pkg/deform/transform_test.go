package deform

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/perm"
)

func grid(r, c int) [][]int {
	out := make([][]int, r)
	for i := range out {
		out[i] = make([]int, c)
		for j := range out[i] {
			out[i][j] = i*10 + j
		}
	}
	return out
}

func TestTransformRow_RoundTrip(t *testing.T) {
	d := New(zeros(6, 3))
	if err := SplitByLabels(d, Row, []string{"a", "a", "b", "b", "b", "a"}, nil); err != nil {
		t.Fatal(err)
	}
	data := grid(6, 3)

	blocks, err := TransformRow(d, data)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	for i, r := range d.RowRatios() {
		if len(blocks[i]) != r {
			t.Errorf("block %d has %d rows, want %d", i, len(blocks[i]), r)
		}
	}

	order, _ := d.Order(Row)
	if diff := cmp.Diff(perm.Apply(data, order), Flatten(blocks)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformRow_Unsplit(t *testing.T) {
	d := New(zeros(3, 2))
	if err := d.SetRowReindex([]int{2, 0, 1}); err != nil {
		t.Fatal(err)
	}
	blocks, err := TransformRow(d, grid(3, 2))
	if err != nil {
		t.Fatal(err)
	}
	want := [][][]int{{{20, 21}, {0, 1}, {10, 11}}}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformCol(t *testing.T) {
	d := New(zeros(2, 4))
	if err := d.SetColReindex([]int{3, 1, 0, 2}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetSplitCol([]int{1}); err != nil {
		t.Fatal(err)
	}
	blocks, err := TransformCol(d, grid(2, 4))
	if err != nil {
		t.Fatal(err)
	}
	want := [][][]int{
		{{3}, {13}},
		{{1, 0, 2}, {11, 10, 12}},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_Both(t *testing.T) {
	d := New(zeros(3, 3))
	if err := d.SetSplitRow([]int{1}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetSplitCol([]int{2}); err != nil {
		t.Fatal(err)
	}
	blocks, err := Transform(d, grid(3, 3))
	if err != nil {
		t.Fatal(err)
	}
	want := [][][][]int{
		{{{0, 1}}, {{2}}},
		{{{10, 11}, {20, 21}}, {{12}, {22}}},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformVectors(t *testing.T) {
	d := New(zeros(4, 3))
	if err := SplitByLabels(d, Row, []string{"b", "a", "b", "a"}, []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	rows, err := TransformRowVector(d, []string{"r0", "r1", "r2", "r3"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{"r1", "r3"}, {"r0", "r2"}}, rows); diff != "" {
		t.Errorf("row vector mismatch (-want +got):\n%s", diff)
	}

	cols, err := TransformColVector(d, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]float64{{1, 2, 3}}, cols); diff != "" {
		t.Errorf("col vector mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_ShapeMismatch(t *testing.T) {
	d := New(zeros(3, 2))
	if _, err := TransformRow(d, grid(2, 2)); !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("TransformRow err = %v", err)
	}
	if _, err := TransformCol(d, grid(3, 3)); !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("TransformCol err = %v", err)
	}
	if _, err := TransformColVector(d, []int{1}); !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("TransformColVector err = %v", err)
	}
}
