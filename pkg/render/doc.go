// Package render turns a finalized [diagram.Diagram] into files.
//
// # Overview
//
// Rendering happens in two steps. [ToDOT] serialises the declared graph to
// Graphviz DOT text: nodes in declaration order, clusters as nested
// "cluster_N" subgraphs, and every edge with its direction, labels and
// layout hints. The [Graphviz] backend then lays the DOT source out with
// go-graphviz and encodes the result.
//
//	backend := render.NewGraphviz(
//	    render.WithCache(fileCache, cache.DefaultTTL),
//	    render.WithLogger(logger),
//	)
//	err := d.Finalize(ctx, backend) // writes d.Target().Path()
//
// # Formats
//
//   - png, svg, jpg, jpeg: laid out in-process by Graphviz
//   - pdf: SVG converted with rsvg-convert (librsvg must be installed)
//   - dot: the DOT source itself
//   - mmd: a Mermaid flowchart of the same graph, see [ToMermaid]
//
// # Icons
//
// With [WithIcons] every service node is drawn with the PNG named after its
// category inside the icon directory. A missing file fails the render with
// code MISSING_ASSET. Without icons each category gets a shape and the
// colour of its AWS service group.
//
// # Caching
//
// Artifacts are cached under the SHA-256 of their DOT source plus the
// format, so any change to a diagram invalidates its entry.
//
// [diagram.Diagram]: github.com/matzehuels/mlopsdiagrams/pkg/diagram
package render
