package render

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/heatgrid/pkg/grid"
)

// Layout is the JSON export of a frozen figure layout.
type Layout struct {
	Name   string       `json:"name"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Panels []grid.Panel `json:"panels"`
}

// WriteLayout encodes l as indented JSON.
func WriteLayout(w io.Writer, l Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}
