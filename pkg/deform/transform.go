package deform

import (
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/perm"
)

// TransformRow permutes the rows of data by the row order and partitions
// them into one block per row segment. len(data) must equal the row count;
// row contents are left as is.
func TransformRow[T any](d *Deformation, data [][]T) ([][][]T, error) {
	return transformOuter(d, Row, data)
}

// TransformCol permutes the columns of every row of data by the column order
// and partitions them into one block per column segment. Every row must have
// one entry per matrix column.
func TransformCol[T any](d *Deformation, data [][]T) ([][][]T, error) {
	order, err := d.Order(Col)
	if err != nil {
		return nil, err
	}
	n := d.col.n
	for i, row := range data {
		if len(row) != n {
			return nil, errors.New(errors.ErrCodeShapeMismatch, "row %d has %d columns, want %d", i, len(row), n)
		}
	}

	bounds := perm.Bounds(d.col.breakpoints, n)
	blocks := make([][][]T, len(bounds))
	for bi, b := range bounds {
		block := make([][]T, len(data))
		for i, row := range data {
			block[i] = perm.Apply(row, order[b[0]:b[1]])
		}
		blocks[bi] = block
	}
	return blocks, nil
}

// Transform applies both row and column deformation to a matrix-shaped data
// set. The result is indexed [rowBlock][colBlock].
func Transform[T any](d *Deformation, data [][]T) ([][][][]T, error) {
	rowBlocks, err := TransformRow(d, data)
	if err != nil {
		return nil, err
	}
	out := make([][][][]T, len(rowBlocks))
	for i, rb := range rowBlocks {
		if out[i], err = TransformCol(d, rb); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// TransformRowVector deforms one value per matrix row, e.g. row labels.
func TransformRowVector[T any](d *Deformation, v []T) ([][]T, error) {
	return transformOuter(d, Row, v)
}

// TransformColVector deforms one value per matrix column.
func TransformColVector[T any](d *Deformation, v []T) ([][]T, error) {
	return transformOuter(d, Col, v)
}

// transformOuter reorders and partitions the elements of items along axis a.
func transformOuter[E any](d *Deformation, a Axis, items []E) ([][]E, error) {
	s := d.axis(a)
	if len(items) != s.n {
		return nil, errors.New(errors.ErrCodeShapeMismatch, "got %d %s entries, want %d", len(items), a, s.n)
	}
	order, err := d.Order(a)
	if err != nil {
		return nil, err
	}
	bounds := perm.Bounds(s.breakpoints, s.n)
	blocks := make([][]E, len(bounds))
	for i, b := range bounds {
		blocks[i] = perm.Apply(items, order[b[0]:b[1]])
	}
	return blocks, nil
}

// Flatten concatenates blocks back into one sequence.
func Flatten[T any](blocks [][]T) []T {
	var out []T
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
