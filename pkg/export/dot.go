package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/formdeck/formdeck/pkg/form"
	"github.com/formdeck/formdeck/pkg/tree"
)

// ToDOT converts a document's component tree to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Containers are rendered with a grey fill to distinguish them from
// widgets; edges point from parent to child in document order.
func ToDOT(doc *form.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root := doc.Title
	if root == "" {
		root = "form"
	}
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightgrey];\n", "__root__", root)

	doc.Body.Walk(func(n *tree.Node, loc tree.Location) bool {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n), ", "))
		return true
	})

	buf.WriteString("\n")
	doc.Body.Walk(func(n *tree.Node, loc tree.Location) bool {
		parent := loc.ParentID
		if parent == tree.Root {
			parent = "__root__"
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", parent, n.ID)
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *tree.Node) []string {
	label := string(n.Kind)
	if v, ok := n.Props["label"]; ok {
		label = fmt.Sprintf("%s\n%v", n.Kind, v)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Kind.IsContainer() {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
