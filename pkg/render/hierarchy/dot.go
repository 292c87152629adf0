package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	pomio "github.com/matzehuels/pomedit/pkg/io"
	"github.com/matzehuels/pomedit/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds groupId, packaging and section counts to labels.
	Detailed bool

	// Direction is the Graphviz rankdir: "BT" (default, parents on top),
	// "TB", "LR" or "RL".
	Direction string
}

var directions = map[string]bool{"TB": true, "BT": true, "LR": true, "RL": true}

func (o Options) direction() string {
	if d := strings.ToUpper(o.Direction); directions[d] {
		return d
	}
	return "BT"
}

// ToDOT converts h to Graphviz DOT source.
func ToDOT(h pomio.Hierarchy, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pom {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.direction())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=empty];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("\n")

	for _, n := range h.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range h.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n pomio.Node, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	parts := []string{n.Label()}
	if n.GroupID != "" {
		parts = append(parts, n.GroupID)
	}
	parts = append(parts, n.ID)
	if n.Packaging != "" {
		parts = append(parts, "packaging: "+n.Packaging)
	}
	parts = append(parts, fmt.Sprintf("deps: %d  managed: %d  props: %d", n.Dependencies, n.Managed, n.Properties))
	return strings.Join(parts, "\n")
}

func fmtAttrs(n pomio.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if n.Packaging == "pom" {
		attrs = append(attrs, "shape=folder")
	}
	if n.Target {
		attrs = append(attrs, "fillcolor=\"#dbeafe\"", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces h in format (see the render package's Format constants).
func Render(ctx context.Context, h pomio.Hierarchy, format string, opts Options) ([]byte, error) {
	if err := render.ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case render.FormatJSON:
		var buf bytes.Buffer
		if err := pomio.WriteJSON(h, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case render.FormatDOT:
		return []byte(ToDOT(h, opts)), nil
	case render.FormatPNG:
		return RenderPNG(ctx, ToDOT(h, opts))
	default:
		return RenderSVG(ctx, ToDOT(h, opts))
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
