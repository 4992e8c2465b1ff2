package render

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
)

// DOTOptions configures DOT serialisation.
type DOTOptions struct {
	// Icons draws nodes with their service icon. When nil, each category is
	// drawn as a coloured shape instead.
	Icons *IconSet
}

// ToDOT serialises a diagram to Graphviz DOT. The output is deterministic:
// declaration order is preserved and attributes are sorted by key, so two
// structurally equal diagrams produce identical text.
//
// Edges whose endpoint is a cluster attach to the cluster's first node and
// are clipped at the cluster border with lhead/ltail.
func ToDOT(d *diagram.Diagram, opts DOTOptions) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quoteID(d.Name()))
	writeStmt(&buf, "  ", "graph", graphAttrs(d))
	writeStmt(&buf, "  ", "node", nodeDefaults(d))
	writeStmt(&buf, "  ", "edge", edgeDefaults(d))

	if err := writeItems(&buf, d.Root(), "  ", opts); err != nil {
		return "", err
	}

	for _, e := range d.Edges() {
		from, to := anchorID(e.From()), anchorID(e.To())
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quoteID(from), quoteID(to), formatAttrs(edgeAttrs(e)))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeItems(buf *bytes.Buffer, c *diagram.Cluster, indent string, opts DOTOptions) error {
	for _, it := range c.Items() {
		switch v := it.(type) {
		case *diagram.Node:
			attrs, err := nodeAttrs(v, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, "%s%s [%s];\n", indent, quoteID(v.ID()), formatAttrs(attrs))
		case *diagram.Cluster:
			fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, quoteID(v.ID()))
			writeStmt(buf, indent+"  ", "graph", clusterAttrs(v))
			if err := writeItems(buf, v, indent+"  ", opts); err != nil {
				return err
			}
			fmt.Fprintf(buf, "%s}\n", indent)
		}
	}
	return nil
}

func writeStmt(buf *bytes.Buffer, indent, kind string, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, kind, formatAttrs(attrs))
}

// =============================================================================
// Attribute builders
// =============================================================================

func fontName(d *diagram.Diagram) string {
	if f := d.GraphAttrs().FontName; f != "" {
		return f
	}
	return defaultFont
}

func graphAttrs(d *diagram.Diagram) map[string]string {
	a := d.GraphAttrs()
	m := map[string]string{
		"rankdir":   d.Layout().RankDir(),
		"fontname":  fontName(d),
		"fontcolor": colorText,
	}
	setString(m, "splines", a.Splines)
	setFloat(m, "nodesep", a.NodeSep)
	setFloat(m, "ranksep", a.RankSep)
	setFloat(m, "pad", a.Pad)
	setFloat(m, "fontsize", a.FontSize)
	setString(m, "bgcolor", a.BgColor)
	if d.Title() != "" {
		m["label"] = d.Title()
		m["labelloc"] = "t"
	}
	if hasClusterEdge(d) {
		m["compound"] = "true"
	}
	return m
}

func nodeDefaults(d *diagram.Diagram) map[string]string {
	return map[string]string{
		"fontname":  fontName(d),
		"fontsize":  "13",
		"fontcolor": colorText,
	}
}

func edgeDefaults(d *diagram.Diagram) map[string]string {
	return map[string]string{
		"color":     colorEdge,
		"fontname":  fontName(d),
		"fontsize":  "13",
		"fontcolor": colorText,
	}
}

func nodeAttrs(n *diagram.Node, opts DOTOptions) (map[string]string, error) {
	m := map[string]string{"label": n.Label()}

	switch cat := n.Category(); {
	case cat == diagram.CategoryPoint:
		m["shape"] = "point"
		m["label"] = ""
		setFloat(m, "width", pointSize)
		setFloat(m, "height", pointSize)
		m["color"] = colorEdge
	case cat == diagram.CategoryBlank:
		m["shape"] = "plaintext"
		m["labelloc"] = "c"
	case opts.Icons != nil:
		path, err := opts.Icons.Path(cat)
		if err != nil {
			return nil, err
		}
		lines := strings.Count(n.Label(), "\n")
		m["shape"] = "none"
		m["image"] = path
		m["imagescale"] = "true"
		m["fixedsize"] = "true"
		m["labelloc"] = "b"
		setFloat(m, "width", iconNodeWidth)
		setFloat(m, "height", iconNodeHeight+iconLinePadding*float64(lines))
	default:
		th := themeFor(cat)
		m["shape"] = th.Shape
		m["style"] = "rounded,filled"
		m["fillcolor"] = th.Fill
		m["fontcolor"] = "white"
		m["color"] = th.Fill
		m["labelloc"] = "c"
	}

	st := n.Style()
	setFloat(m, "margin", st.Margin)
	setFloat(m, "height", st.Height)
	setFloat(m, "width", st.Width)
	setString(m, "labelloc", string(st.LabelLoc))
	return m, nil
}

func clusterAttrs(c *diagram.Cluster) map[string]string {
	st := c.Style()
	m := map[string]string{
		"label":     c.Label(),
		"labeljust": "l",
		"style":     "rounded",
		"pencolor":  colorClusterPen,
		"bgcolor":   clusterBackground(c.Depth()),
		"fontsize":  "12",
	}
	setString(m, "fontcolor", st.FontColor)
	setString(m, "pencolor", st.PenColor)
	setString(m, "bgcolor", st.BgColor)
	if st.Line != diagram.Solid {
		m["style"] = string(st.Line)
	}
	return m
}

func edgeAttrs(e *diagram.Edge) map[string]string {
	a := e.Attrs()
	m := map[string]string{}
	switch e.Direction() {
	case diagram.ReverseDirected:
		m["dir"] = "back"
	case diagram.Undirected:
		m["dir"] = "none"
	}
	setString(m, "label", a.Label)
	setString(m, "xlabel", a.XLabel)
	setString(m, "taillabel", a.ReverseLabel)
	if a.Style != diagram.Solid {
		m["style"] = string(a.Style)
	}
	setFloat(m, "penwidth", a.PenWidth)
	setString(m, "color", a.Color)
	if a.Hints.MinLen > 0 {
		m["minlen"] = strconv.Itoa(a.Hints.MinLen)
	}
	setString(m, "headport", string(a.Hints.HeadPort))
	setString(m, "tailport", string(a.Hints.TailPort))
	if c, ok := e.To().(*diagram.Cluster); ok {
		m["lhead"] = c.ID()
	}
	if c, ok := e.From().(*diagram.Cluster); ok {
		m["ltail"] = c.ID()
	}
	return m
}

func hasClusterEdge(d *diagram.Diagram) bool {
	for _, e := range d.Edges() {
		if _, ok := e.From().(*diagram.Cluster); ok {
			return true
		}
		if _, ok := e.To().(*diagram.Cluster); ok {
			return true
		}
	}
	return false
}

// anchorID returns the DOT node an endpoint attaches to.
func anchorID(ep diagram.Endpoint) string {
	if c, ok := ep.(*diagram.Cluster); ok {
		return c.Anchor().ID()
	}
	return ep.ID()
}

// =============================================================================
// Formatting
// =============================================================================

func setString(m map[string]string, k, v string) {
	if v != "" {
		m[k] = v
	}
}

func setFloat(m map[string]string, k string, v float64) {
	if v > 0 {
		m[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// formatAttrs renders attributes as a comma-separated list sorted by key.
func formatAttrs(attrs map[string]string) string {
	keys := slices.Sorted(maps.Keys(attrs))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+quoteValue(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// quoteID returns id bare when it is a plain identifier, quoted otherwise.
func quoteID(id string) string {
	if isBareIdentifier(id) {
		return id
	}
	return quoteValue(id)
}

// quoteValue returns a DOT-safe double-quoted string. Newlines become "\n"
// so Graphviz centres each line.
func quoteValue(val string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, ch := range val {
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(` `)
		case '\r':
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isBareIdentifier(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return !isKeyword(s)
}

func isKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "node", "edge", "graph", "digraph", "subgraph", "strict":
		return true
	}
	return false
}
