package config

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// Matrix is the data of a heatmap, given inline or as a CSV file.
type Matrix struct {
	Values    [][]float64 `toml:"values" yaml:"values" json:"values,omitempty"`
	RowLabels []string    `toml:"row_labels" yaml:"row_labels" json:"row_labels,omitempty"`
	ColLabels []string    `toml:"col_labels" yaml:"col_labels" json:"col_labels,omitempty"`

	// CSV names a file relative to the figure file. Header takes column
	// labels from the first record and RowNames row labels from the first
	// field of every record.
	CSV      string `toml:"csv" yaml:"csv" json:"csv,omitempty"`
	Header   bool   `toml:"header" yaml:"header" json:"header,omitempty"`
	RowNames bool   `toml:"row_names" yaml:"row_names" json:"row_names,omitempty"`
}

// Dense validates the shape and returns the values as a matrix.
func (m *Matrix) Dense() (*mat.Dense, error) {
	rows := len(m.Values)
	if rows == 0 || len(m.Values[0]) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "matrix is empty")
	}
	cols := len(m.Values[0])
	flat := make([]float64, 0, rows*cols)
	for i, row := range m.Values {
		if len(row) != cols {
			return nil, errors.New(errors.ErrCodeShapeMismatch, "matrix row %d has %d values, want %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	if m.RowLabels != nil && len(m.RowLabels) != rows {
		return nil, errors.New(errors.ErrCodeShapeMismatch, "got %d row labels for %d rows", len(m.RowLabels), rows)
	}
	if m.ColLabels != nil && len(m.ColLabels) != cols {
		return nil, errors.New(errors.ErrCodeShapeMismatch, "got %d column labels for %d columns", len(m.ColLabels), cols)
	}
	return mat.NewDense(rows, cols, flat), nil
}

// load reads m.CSV relative to dir and replaces Values and labels. The CSV
// reference is cleared so the matrix is self-contained afterwards.
func (m *Matrix) load(dir string) error {
	if err := errors.ValidatePath(m.CSV); err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(dir, m.CSV))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "open matrix %s", m.CSV)
	}
	defer f.Close()

	if err := m.ReadCSV(f); err != nil {
		return err
	}
	m.CSV = ""
	return nil
}

// ReadCSV fills Values (and labels, per Header and RowNames) from r. Empty
// fields and NA read as NaN.
func (m *Matrix) ReadCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false
	records, err := cr.ReadAll()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read csv matrix")
	}

	m.Values, m.RowLabels, m.ColLabels = nil, nil, nil
	if m.Header {
		if len(records) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "csv matrix has no header")
		}
		header := records[0]
		if m.RowNames && len(header) > 0 {
			header = header[1:]
		}
		m.ColLabels = header
		records = records[1:]
	}
	for i, rec := range records {
		if m.RowNames {
			if len(rec) == 0 {
				continue
			}
			m.RowLabels = append(m.RowLabels, rec[0])
			rec = rec[1:]
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := parseValue(field)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidConfig, "csv matrix record %d field %d: %q is not a number", i+1, j+1, field)
			}
			row[j] = v
		}
		m.Values = append(m.Values, row)
	}
	return nil
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
