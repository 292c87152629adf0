// Package render holds the output formats shared by pomedit's renderers.
//
// The [hierarchy] subpackage draws a POM parent chain as a Graphviz
// diagram: each node is a POM file, each arrow points from a child to the
// parent it inherits from.
//
//	dot := hierarchy.ToDOT(h, hierarchy.Options{})
//	svg, err := hierarchy.RenderSVG(ctx, dot)
//
// [hierarchy]: github.com/matzehuels/pomedit/pkg/render/hierarchy
package render
