// Package render draws heatmap figures onto output surfaces.
//
// # Canvas
//
// Panel renderers draw through the [Canvas] interface using canvas units
// (inches, origin top-left, y down) so the same drawing code produces every
// format:
//
//   - [SVG]: vector output built in memory
//   - [PNG]: raster output via github.com/fogleman/gg
//   - [Recorder]: keeps the primitives, used by tests and the JSON export
//
// # Format Conversion
//
// [ToPDF] converts SVG to PDF using the external rsvg-convert tool (from
// librsvg).
//
//	svg := render.NewSVG(w, h)
//	// ... draw ...
//	pdf, err := render.ToPDF(ctx, svg.Bytes())
//
// # Colors
//
// [Colormap] maps normalised values to colors by blending in CIE Lab space
// (github.com/lucasb-eyer/go-colorful); [Palette] assigns categorical colors.
//
// # Text
//
// [TextWidth] and [TextHeight] estimate label extents so auto-sized panels
// can be measured before layout is frozen.
package render
