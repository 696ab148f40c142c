// Package plot composes heatmap figures from a main matrix and side panels.
//
// A [Heatmap] owns one [grid.Grid] and one [deform.Deformation]. Side panels
// are [Plan] values attached with AddLeft, AddRight, AddTop and AddBottom;
// extra plans drawn over the main panel are added with AddLayer.
// Clustering is requested with AddDendrogram, partitions with SplitRow and
// SplitCol.
//
// At render time the heatmap splits the main panel and every splittable
// side panel by the deformation's ratios, freezes the grid, and then draws
// every plan with data transformed by the deformation so all panels stay
// aligned:
//
//	h, _ := plot.New(m, plot.WithName("expr"))
//	_ = h.AddLeft(plot.NewLabels(rowNames, plot.LabelOptions{}), plot.PanelOptions{})
//	_ = h.AddDendrogram(grid.Top, plot.DendrogramOptions{})
//	_ = h.SplitRow(plot.SplitOptions{Labels: groups})
//
//	w, ht := h.Size()
//	svg := render.NewSVG(w, ht)
//	err := h.Render(svg, 1)
//
// Heatmaps concatenate with [Append] into a [List] that renders every
// member onto one combined layout.
package plot
