package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/heatgrid/pkg/cache"
	"github.com/matzehuels/heatgrid/pkg/config"
	"github.com/matzehuels/heatgrid/pkg/observability"
	"github.com/matzehuels/heatgrid/pkg/plot"
	"github.com/matzehuels/heatgrid/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute renders every requested format of the figure described by f.
// f must be resolved: CSV matrices already loaded.
func (r *Runner) Execute(ctx context.Context, f *config.File, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	aspect := opts.aspect(f)
	result := &Result{FigureHash: FigureHash(f), Stats: Stats{Heatmaps: len(f.Heatmaps)}}

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, result.FigureHash, opts, aspect); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", true)
			return result, nil
		}
	}

	buildStart := time.Now()
	fig, err := r.Build(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Figure = fig
	result.Stats.BuildTime = time.Since(buildStart)

	renderStart := time.Now()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		data, err := RenderFormat(ctx, fig, render.Format(format), aspect, opts.DPI)
		observability.Figure().OnRender(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		r.store(ctx, "artifact", r.artifactKey(result.FigureHash, format, opts.DPI, aspect), data, cache.ArtifactTTL)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Build creates the figure described by f with the runner's logger.
func (r *Runner) Build(ctx context.Context, f *config.File) (plot.Figure, error) {
	start := time.Now()
	fig, err := config.Build(f, plot.WithLogger(r.Logger))
	observability.Figure().OnBuild(ctx, len(f.Heatmaps), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	w, h := fig.Size()
	r.Logger.Debug("built figure", "name", fig.Grid().Name(), "heatmaps", len(f.Heatmaps), "width", w, "height", h)
	return fig, nil
}

// Layout builds and freezes the figure and returns its resolved panels.
// The bool reports a cache hit.
func (r *Runner) Layout(ctx context.Context, f *config.File, opts Options) (render.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return render.Layout{}, false, fmt.Errorf("invalid options: %w", err)
	}
	aspect := opts.aspect(f)
	fig, err := r.Build(ctx, f)
	if err != nil {
		return render.Layout{}, false, fmt.Errorf("build: %w", err)
	}

	hash := FigureHash(f)
	key := ""
	if hash != "" {
		w, h := fig.Size()
		key = r.Keyer.LayoutKey(hash, cache.LayoutKeyOpts{Width: w, Height: h, Aspect: aspect})
	}
	if key != "" && !opts.Refresh {
		if data, hit := r.lookup(ctx, "layout", key); hit {
			var l render.Layout
			if err := json.Unmarshal(data, &l); err == nil {
				return l, true, nil
			}
		}
	}

	start := time.Now()
	l, err := ExportLayout(fig, aspect)
	observability.Figure().OnFreeze(ctx, fig.Grid().Name(), len(l.Panels), time.Since(start), err)
	if err != nil {
		return render.Layout{}, false, fmt.Errorf("layout: %w", err)
	}
	r.Logger.Info("computed layout", "panels", len(l.Panels), "duration", time.Since(start))

	if key != "" {
		if data, err := json.Marshal(l); err == nil {
			r.store(ctx, "layout", key, data, cache.LayoutTTL)
		}
	}
	return l, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactKey(hash, format string, dpi, aspect float64) string {
	if hash == "" {
		return ""
	}
	opts := cache.ArtifactKeyOpts{Format: format, Aspect: aspect}
	if format == string(render.FormatPNG) {
		opts.DPI = dpi
	}
	return r.Keyer.ArtifactKey(hash, opts)
}

// cachedArtifacts returns every requested format from the cache, or false
// if any one is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options, aspect float64) (map[string][]byte, bool) {
	if hash == "" {
		return nil, false
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit := r.lookup(ctx, "artifact", r.artifactKey(hash, format, opts.DPI, aspect))
		if !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// lookup reads a key, treating cache errors as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key_type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// store writes a key; failures are logged, never returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if key == "" {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key_type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
