// Package hierarchy renders a POM parent chain as a node-link diagram.
//
// Nodes are POM files labelled with their artifactId and version; arrows
// point from a child to its parent. The target POM is highlighted, and
// aggregator POMs (packaging pom) are drawn with a folder shape.
//
//	dot := hierarchy.ToDOT(h, hierarchy.Options{Detailed: true})
//	svg, err := hierarchy.RenderSVG(ctx, dot)
//
// SVG and PNG output are produced in-process by
// [github.com/goccy/go-graphviz]; no Graphviz installation is needed.
package hierarchy
