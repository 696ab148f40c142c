package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/heatgrid/pkg/cluster"
	"github.com/matzehuels/heatgrid/pkg/config"
	"github.com/matzehuels/heatgrid/pkg/deform"
	"github.com/matzehuels/heatgrid/pkg/errors"
	"github.com/matzehuels/heatgrid/pkg/plot"
)

type dendrogramOpts struct {
	axis    string
	heatmap string
	method  string
	metric  string
	svg     bool
	output  string
}

// dendrogramCommand creates the dendrogram command.
func (c *CLI) dendrogramCommand() *cobra.Command {
	opts := dendrogramOpts{axis: "row"}

	cmd := &cobra.Command{
		Use:   "dendrogram FIGURE",
		Short: "Export the merge tree of a clustered axis",
		Long: `Cluster one axis of a heatmap and export its merge tree as Graphviz DOT,
or as SVG with --svg.

A split axis is clustered per segment and yields one tree per segment. With
--output and several trees each file gets a -gN suffix.`,
		Example: `  heatgrid dendrogram expr.toml --axis row
  heatgrid dendrogram expr.toml --axis col --method average --metric cityblock --svg -o cols.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDendrogram(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.axis, "axis", opts.axis, "axis to cluster: row or col")
	cmd.Flags().StringVar(&opts.heatmap, "heatmap", "", "heatmap name (default: the first one)")
	cmd.Flags().StringVar(&opts.method, "method", "", "linkage method (default: the figure's or average)")
	cmd.Flags().StringVar(&opts.metric, "metric", "", "distance metric (default: the figure's or euclidean)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render the tree to SVG instead of DOT")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runDendrogram(cmd *cobra.Command, path string, opts dendrogramOpts) error {
	axis, err := parseAxis(opts.axis)
	if err != nil {
		return err
	}
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	fig, err := config.Build(f, plot.WithLogger(c.Logger))
	if err != nil {
		return err
	}
	h, idx, err := selectHeatmap(fig, opts.heatmap)
	if err != nil {
		return err
	}

	d := h.Deform()
	if opts.method != "" || opts.metric != "" {
		method, metric := d.ClusterParams(axis)
		if opts.method != "" {
			method = cluster.Method(opts.method)
		}
		if opts.metric != "" {
			metric = cluster.Metric(opts.metric)
		}
		set := d.SetRowClusterParams
		if axis == deform.Col {
			set = d.SetColClusterParams
		}
		if err := set(string(method), string(metric)); err != nil {
			return err
		}
	}
	d.SetCluster(axis == deform.Row, axis == deform.Col)
	dg, err := d.Dendrogram(axis)
	if err != nil {
		return err
	}

	labels := f.Heatmaps[idx].Data.RowLabels
	if axis == deform.Col {
		labels = f.Heatmaps[idx].Data.ColLabels
	}

	out := cmd.OutOrStdout()
	for i, g := range dg.Groups {
		dot := g.Tree.ToDOT(memberLabels(g.Members, labels))
		data := []byte(dot)
		if opts.svg {
			if data, err = cluster.RenderSVG(cmd.Context(), dot); err != nil {
				return err
			}
		}
		if opts.output == "" {
			if _, err := out.Write(data); err != nil {
				return err
			}
			continue
		}
		p := groupPath(opts.output, i, len(dg.Groups))
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", p)
		}
		printFile(out, p)
	}
	c.Logger.Debug("exported dendrogram", "heatmap", h.Name(), "axis", axis, "groups", len(dg.Groups))
	return nil
}

func parseAxis(s string) (deform.Axis, error) {
	switch strings.ToLower(s) {
	case "row", "rows":
		return deform.Row, nil
	case "col", "cols", "column", "columns":
		return deform.Col, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown axis %q (want row or col)", s)
}

// selectHeatmap returns the named heatmap of a figure and its position in
// file order. An empty name selects the first heatmap.
func selectHeatmap(fig plot.Figure, name string) (*plot.Heatmap, int, error) {
	var hs []*plot.Heatmap
	switch f := fig.(type) {
	case *plot.Heatmap:
		hs = []*plot.Heatmap{f}
	case *plot.List:
		hs = f.Heatmaps()
	}
	if len(hs) == 0 {
		return nil, 0, errors.New(errors.ErrCodeInternal, "figure has no heatmaps")
	}
	if name == "" {
		return hs[0], 0, nil
	}
	for i, h := range hs {
		if h.Name() == name {
			return h, i, nil
		}
	}
	return nil, 0, errors.New(errors.ErrCodeUnknownPanel, "no heatmap named %q", name)
}

// memberLabels maps tree leaves to the labels of the source indices they
// stand for. Leaves without a label fall back to their source index.
func memberLabels(members []int, labels []string) []string {
	out := make([]string, len(members))
	for i, m := range members {
		if m < len(labels) {
			out[i] = labels[m]
		} else {
			out[i] = strconv.Itoa(m)
		}
	}
	return out
}

func groupPath(output string, i, n int) string {
	if n == 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s-g%d%s", strings.TrimSuffix(output, ext), i+1, ext)
}
