// Package config reads declarative figure descriptions.
//
// A figure file lists one or more heatmaps, each with its matrix, splits,
// dendrograms and side panels. Files are TOML, YAML or JSON; unknown keys
// are rejected in every format so typos surface as errors:
//
//	direction = "horizontal"
//
//	[[heatmap]]
//	name = "expr"
//	data = { csv = "expr.csv", header = true, row_names = true }
//	split_rows = { labels = ["a", "a", "b"] }
//
//	[[heatmap.dendrogram]]
//	side = "left"
//	method = "average"
//
//	[[heatmap.panel]]
//	side = "right"
//	kind = "labels"
//	names = "rows"
//
// [Build] turns a parsed [File] into a [plot.Figure].
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/plot"
)

// Format is a figure file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name or a file extension with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported figure format %q (want toml, yaml or json)", s)
}

// FormatFromContentType maps an HTTP media type to a Format. Parameters
// such as charset are ignored.
func FormatFromContentType(ct string) (Format, error) {
	mt, _, _ := strings.Cut(ct, ";")
	switch strings.TrimSpace(strings.ToLower(mt)) {
	case "application/toml", "text/toml":
		return FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML, nil
	case "application/json", "":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", ct)
}

// File is a parsed figure file.
type File struct {
	// Direction stacks several heatmaps: "horizontal" (default) or
	// "vertical".
	Direction string `toml:"direction" yaml:"direction" json:"direction,omitempty"`
	// Pad separates stacked heatmaps.
	Pad float64 `toml:"pad" yaml:"pad" json:"pad,omitempty"`
	// Aspect is the main panel height/width ratio at render time. Nil
	// means 1; 0 lets main panels fill the remaining space.
	Aspect   *float64  `toml:"aspect" yaml:"aspect" json:"aspect,omitempty"`
	Heatmaps []Heatmap `toml:"heatmap" yaml:"heatmap" json:"heatmap"`
}

// Heatmap describes one heatmap.
type Heatmap struct {
	Name   string  `toml:"name" yaml:"name" json:"name,omitempty"`
	Width  float64 `toml:"width" yaml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" yaml:"height" json:"height,omitempty"`
	// MainAspect derives the natural canvas size when Width or Height is
	// unset.
	MainAspect float64               `toml:"main_aspect" yaml:"main_aspect" json:"main_aspect,omitempty"`
	Square     bool                  `toml:"square" yaml:"square" json:"square,omitempty"`
	Data       Matrix                `toml:"data" yaml:"data" json:"data"`
	Mesh       plot.ColorMeshOptions `toml:"mesh" yaml:"mesh" json:"mesh,omitzero"`
	SplitRows  *plot.SplitOptions    `toml:"split_rows" yaml:"split_rows" json:"split_rows,omitempty"`
	SplitCols  *plot.SplitOptions    `toml:"split_cols" yaml:"split_cols" json:"split_cols,omitempty"`

	Dendrograms []Dendrogram       `toml:"dendrogram" yaml:"dendrogram" json:"dendrogram,omitempty"`
	Panels      []Panel            `toml:"panel" yaml:"panel" json:"panel,omitempty"`
	Pads        []Pad              `toml:"pads" yaml:"pads" json:"pads,omitempty"`
	Title       *plot.TitleOptions `toml:"title" yaml:"title" json:"title,omitempty"`
}

// Dendrogram places a dendrogram on a side.
type Dendrogram struct {
	Side                   string `toml:"side" yaml:"side" json:"side"`
	plot.DendrogramOptions `yaml:",inline"`
}

// Panel is a side panel, or a layer over the main panel when Side is
// "main".
type Panel struct {
	Side string `toml:"side" yaml:"side" json:"side"`
	// Kind is one of labels, colors, colormesh, sized or title.
	Kind   string  `toml:"kind" yaml:"kind" json:"kind"`
	Name   string  `toml:"name" yaml:"name" json:"name,omitempty"`
	Size   float64 `toml:"size" yaml:"size" json:"size,omitempty"`
	PadAt  float64 `toml:"pad" yaml:"pad" json:"pad,omitempty"`
	ZOrder int     `toml:"zorder" yaml:"zorder" json:"zorder,omitempty"`

	// Texts are the labels of a labels panel; Names takes them from the
	// matrix instead ("rows" or "cols").
	Texts []string `toml:"texts" yaml:"texts" json:"texts,omitempty"`
	Names string   `toml:"names" yaml:"names" json:"names,omitempty"`
	// Text is the text of a title panel.
	Text string `toml:"text" yaml:"text" json:"text,omitempty"`
	// Groups is one category per row (left/right) or column (top/bottom);
	// Categories is the full matrix form.
	Groups     []string    `toml:"groups" yaml:"groups" json:"groups,omitempty"`
	Categories [][]string  `toml:"categories" yaml:"categories" json:"categories,omitempty"`
	Values     [][]float64 `toml:"values" yaml:"values" json:"values,omitempty"`

	Labels plot.LabelOptions     `toml:"labels" yaml:"labels" json:"labels,omitzero"`
	Colors plot.ColorsOptions    `toml:"colors" yaml:"colors" json:"colors,omitzero"`
	Mesh   plot.ColorMeshOptions `toml:"mesh" yaml:"mesh" json:"mesh,omitzero"`
	Sized  plot.SizedMeshOptions `toml:"sized" yaml:"sized" json:"sized,omitzero"`
}

// Pad is empty space on a side.
type Pad struct {
	Side string  `toml:"side" yaml:"side" json:"side"`
	Size float64 `toml:"size" yaml:"size" json:"size"`
}

// Parse decodes a figure file. Unknown keys are an INVALID_CONFIG error.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml figure")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in toml figure: %v", undecoded)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml figure")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse json figure")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported figure format %q", format)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a figure file, choosing the format from its extension, and
// loads CSV matrices relative to the file's directory.
func Load(path string) (*File, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read figure %s", path)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := f.Resolve(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return f, nil
}

// Resolve loads every CSV matrix, relative to dir. An empty dir forbids
// CSV references, which is how untrusted input is handled.
func (f *File) Resolve(dir string) error {
	for i := range f.Heatmaps {
		d := &f.Heatmaps[i].Data
		if d.CSV == "" {
			continue
		}
		if dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "heatmap %d: csv data is not allowed here; inline the values", i)
		}
		if err := d.load(dir); err != nil {
			return fmt.Errorf("heatmap %d: %w", i, err)
		}
	}
	return nil
}

// MaxSize bounds a heatmap's width and height and the pad between heatmaps,
// in canvas units.
const MaxSize = 100.0

// inRange reports whether v is in [0, max]. NaN is out of range.
func inRange(v, max float64) bool { return v >= 0 && v <= max }

// Validate checks what can be checked without the matrix data.
func (f *File) Validate() error {
	if len(f.Heatmaps) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "figure has no heatmaps")
	}
	switch f.Direction {
	case "", "horizontal", "vertical":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "direction must be horizontal or vertical, got %q", f.Direction)
	}
	if !inRange(f.Pad, MaxSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "pad must be in [0, %g], got %v", MaxSize, f.Pad)
	}
	if f.Aspect != nil && !inRange(*f.Aspect, math.MaxFloat64) {
		return errors.New(errors.ErrCodeInvalidConfig, "aspect must be a finite non-negative number, got %v", *f.Aspect)
	}
	for i, h := range f.Heatmaps {
		if !inRange(h.Width, MaxSize) || !inRange(h.Height, MaxSize) {
			return errors.New(errors.ErrCodeInvalidConfig, "heatmap %d: width and height must be in [0, %g], got %v × %v", i, MaxSize, h.Width, h.Height)
		}
		if !inRange(h.MainAspect, math.MaxFloat64) {
			return errors.New(errors.ErrCodeInvalidConfig, "heatmap %d: main_aspect must be a finite non-negative number, got %v", i, h.MainAspect)
		}
		if h.Data.CSV == "" && len(h.Data.Values) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "heatmap %d: data needs values or a csv file", i)
		}
		if h.Data.CSV != "" && len(h.Data.Values) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "heatmap %d: data has both values and a csv file", i)
		}
		for j, p := range h.Panels {
			if !slices.Contains(panelKinds, p.Kind) {
				return errors.New(errors.ErrCodeInvalidConfig, "heatmap %d panel %d: unknown kind %q (want one of %s)", i, j, p.Kind, strings.Join(panelKinds, ", "))
			}
		}
	}
	return nil
}
