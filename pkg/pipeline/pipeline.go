// Package pipeline turns figure descriptions into rendered artifacts.
//
// The CLI and the HTTP server share this package so both apply the same
// defaults, caching and instrumentation.
//
// # Stages
//
//  1. Build: a [config.File] becomes a [plot.Figure]
//  2. Layout: the figure's grid is frozen and exported as [render.Layout]
//  3. Render: the figure is drawn once per requested format
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, file, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/heatgrid/pkg/cache"
	"github.com/matzehuels/heatgrid/pkg/config"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/plot"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// DefaultFormat is rendered when Options.Formats is empty.
const DefaultFormat = render.FormatSVG

// Options configures a pipeline run.
type Options struct {
	// Formats lists the artifacts to produce: svg, png, pdf or json.
	Formats []string `json:"formats,omitempty"`
	// Aspect overrides the figure file's main panel aspect.
	Aspect *float64 `json:"aspect,omitempty"`
	// DPI is the PNG resolution in pixels per canvas unit.
	DPI float64 `json:"dpi,omitempty"`
	// Refresh bypasses cached results; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the formats and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
	for i, f := range o.Formats {
		format, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		o.Formats[i] = string(format)
	}
	if math.IsNaN(o.DPI) || o.DPI < 0 || o.DPI > render.MaxDPI {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be in (0, %g], got %v", render.MaxDPI, o.DPI)
	}
	if a := o.Aspect; a != nil && (math.IsNaN(*a) || math.IsInf(*a, 0) || *a < 0) {
		return errors.New(errors.ErrCodeInvalidInput, "aspect must be a finite non-negative number, got %v", *a)
	}
	if o.DPI == 0 {
		o.DPI = render.DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// aspect resolves the main panel aspect for f.
func (o *Options) aspect(f *config.File) float64 {
	if o.Aspect != nil {
		return *o.Aspect
	}
	return f.RenderAspect()
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Figure is the built figure; nil when every artifact came from the
	// cache.
	Figure plot.Figure

	// FigureHash identifies the figure description; empty when the
	// description cannot be hashed and caching was skipped.
	FigureHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Heatmaps   int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// FigureHash returns a content hash of a resolved figure description, or
// "" when it cannot be encoded (for example a matrix holding NaN).
func FigureHash(f *config.File) string {
	data, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
