// Package grid is the panel layout engine of a heatmap figure.
//
// A [Grid] has one main panel and four ordered stacks of side panels (top,
// bottom, left, right). Side panels stack outward from the main panel in
// insertion order, each taking its size plus padding across the side and the
// main panel's full extent along it.
//
// # Lifecycle
//
// A grid is built (AddPanel, SetMeasuredSize, Split) and then frozen exactly
// once with [Grid.Freeze], which resolves every rectangle. After freeze the
// grid is read-only and [Grid.Get] returns geometry; before freeze Get fails
// with NOT_FROZEN and after freeze every mutation fails with ALREADY_FROZEN.
// A failed Freeze leaves the grid untouched so the caller can fix it and
// retry.
//
// Panels sized with [Auto] must be measured with [Grid.SetMeasuredSize]
// before freeze.
//
// # Coordinates
//
// Rectangles use canvas units with the origin at the top-left corner and y
// growing downwards. The main panel receives the area left over by the side
// panels and is then shrunk symmetrically to the requested aspect ratio
// (height / width); side panels follow its edges.
//
// # Splitting
//
// [Grid.Split] divides a panel into ratio-sized cells. Top and bottom panels
// split into columns, left and right panels into rows, and the main panel in
// both directions. Gaps between cells are a fraction of the panel's length.
//
// # Concatenation
//
// [Grid.AppendHorizontal] and [Grid.AppendVertical] combine two grids into a
// new composite grid without touching the inputs. Member panels are addressed
// by qualified names "<grid>/<panel>". Freezing the composite at its natural
// [Grid.Size] reproduces each member's own geometry, offset by
// [Grid.Bounds].
package grid
