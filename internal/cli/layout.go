package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/heatgrid/pkg/config"
	"github.com/matzehuels/heatgrid/pkg/pipeline"
	"github.com/matzehuels/heatgrid/pkg/render"
)

type layoutOpts struct {
	json    bool
	aspect  float64
	noCache bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{aspect: -1}

	cmd := &cobra.Command{
		Use:   "layout FIGURE",
		Short: "Print the resolved panel rectangles of a figure",
		Long: `Freeze a figure without drawing it and print where every panel lands.

Coordinates are in inches with the origin at the top-left corner of the
canvas. --json prints the same document the render command writes for -f json.`,
		Example: `  heatgrid layout expr.toml
  heatgrid layout expr.toml --json --aspect 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the layout as JSON")
	cmd.Flags().Float64Var(&opts.aspect, "aspect", opts.aspect, "main panel height/width ratio; 0 fills the canvas (default: from the figure)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, path string, opts layoutOpts) error {
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var popts pipeline.Options
	if opts.aspect >= 0 {
		popts.Aspect = &opts.aspect
	}
	l, hit, err := runner.Layout(cmd.Context(), f, popts)
	if err != nil {
		return err
	}
	c.Logger.Debug("layout", "panels", len(l.Panels), "cached", hit)

	out := cmd.OutOrStdout()
	if opts.json {
		return render.WriteLayout(out, l)
	}
	printLayout(out, l)
	return nil
}
