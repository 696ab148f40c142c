package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/heatgrid/pkg/config"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (one format) or base path (several)
	formats []string // svg, png, pdf, json
	aspect  float64  // main panel aspect; negative keeps the figure's own
	dpi     float64  // png resolution
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formats string
	opts := renderOpts{aspect: -1}

	cmd := &cobra.Command{
		Use:   "render FIGURE",
		Short: "Render a figure file to SVG, PNG, PDF or JSON",
		Long: `Render a figure file (TOML, YAML or JSON) to one or more output formats.

With one format and no --output the artifact is written next to the figure
file. With several formats --output is a base path and each artifact gets
its format's extension.`,
		Example: `  heatgrid render expr.toml
  heatgrid render expr.toml -f svg,png -o out/expr
  heatgrid render expr.yaml -f pdf --aspect 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = splitList(formats)
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "output format(s): svg, png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.aspect, "aspect", opts.aspect, "main panel height/width ratio; 0 fills the canvas (default: from the figure)")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "PNG resolution in pixels per inch")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{Formats: opts.formats, DPI: opts.dpi, Refresh: opts.refresh}
	if opts.aspect >= 0 {
		popts.Aspect = &opts.aspect
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	var spin *Spinner
	if isTerminal(os.Stderr) && c.Logger.GetLevel() > LogDebug {
		spin = newSpinner(cmd.Context(), os.Stderr, "Rendering "+filepath.Base(path))
		spin.Start()
	}
	res, err := runner.Execute(cmd.Context(), f, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	paths := outputPaths(path, opts.output, popts.Formats)
	for _, format := range popts.Formats {
		p := paths[format]
		if filepath.Clean(p) == filepath.Clean(path) {
			return errors.New(errors.ErrCodeInvalidPath, "%s output would overwrite the figure file; pass --output", format)
		}
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
			}
		}
		if err := os.WriteFile(p, res.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", p)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(popts.Formats)))

	printSuccess(out, "Rendered %s", filepath.Base(path))
	printStats(out, res.Stats.Heatmaps, len(popts.Formats), res.CacheInfo.RenderHit)
	for _, format := range popts.Formats {
		printFile(out, paths[format])
	}
	return nil
}

// outputPaths maps each format to its destination. A single format with an
// explicit output uses it verbatim; otherwise the base path (the output or
// the figure path without extension) gets the format as extension.
func outputPaths(figure, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = figure
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
