package cluster

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz digraph of the merge tree. Leaves are labelled
// with labels[i] when present and with their index otherwise; internal nodes
// show the merge distance. Pass nil for numeric labels.
func (t *Tree) ToDOT(labels []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Dendrogram {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	for _, leaf := range t.order {
		label := strconv.Itoa(leaf)
		if leaf < len(labels) {
			label = labels[leaf]
		}
		fmt.Fprintf(&buf, "  n%d [label=%q, shape=box, style=\"filled,rounded\"];\n", leaf, label)
	}
	for i, m := range t.merges {
		id := t.n + i
		fmt.Fprintf(&buf, "  n%d [label=\"%.3g\", shape=ellipse];\n", id, m.Distance)
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, m.Left)
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", id, m.Right)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT document (typically from [Tree.ToDOT]) to SVG
// using the in-process Graphviz build.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
