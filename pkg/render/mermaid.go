package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
)

// ToMermaid renders a diagram as a Mermaid flowchart. Clusters become
// subgraphs, reverse edges are emitted with their endpoints swapped and
// undirected edges become plain links. Icons and sizing are not carried over.
func ToMermaid(d *diagram.Diagram) string {
	var b strings.Builder

	dir := "LR"
	if d.Layout() == diagram.TopToBottom {
		dir = "TB"
	}
	fmt.Fprintf(&b, "flowchart %s\n", dir)
	if d.Title() != "" {
		fmt.Fprintf(&b, "    %%%% %s\n", d.Title())
	}

	writeMermaidItems(&b, d.Root(), "    ")

	for _, e := range d.Edges() {
		from, to := e.From().ID(), e.To().ID()
		if e.Direction() == diagram.ReverseDirected {
			from, to = to, from
		}
		fmt.Fprintf(&b, "    %s %s %s\n", mermaidSafeID(from), mermaidArrow(e), mermaidSafeID(to))
	}

	var dashed []string
	for i, e := range d.Edges() {
		if e.Attrs().Style == diagram.Dashed || e.Attrs().Style == diagram.Dotted {
			dashed = append(dashed, fmt.Sprint(i))
		}
	}
	if len(dashed) > 0 {
		fmt.Fprintf(&b, "    linkStyle %s stroke-dasharray:5 5\n", strings.Join(dashed, ","))
	}
	return b.String()
}

func writeMermaidItems(b *strings.Builder, c *diagram.Cluster, indent string) {
	for _, it := range c.Items() {
		switch v := it.(type) {
		case *diagram.Node:
			fmt.Fprintf(b, "%s%s\n", indent, mermaidNodeDef(v))
		case *diagram.Cluster:
			fmt.Fprintf(b, "%ssubgraph %s[\"%s\"]\n", indent, mermaidSafeID(v.ID()), mermaidEscapeLabel(v.Label()))
			writeMermaidItems(b, v, indent+"    ")
			fmt.Fprintf(b, "%send\n", indent)
		}
	}
}

func mermaidNodeDef(n *diagram.Node) string {
	id := mermaidSafeID(n.ID())
	label := mermaidEscapeLabel(n.Label())

	switch n.Category() {
	case diagram.CategoryPoint:
		return fmt.Sprintf("%s(( ))", id)
	case diagram.CategoryS3Bucket, diagram.CategoryS3BucketWithObjects:
		return fmt.Sprintf("%s[(\"%s\")]", id, label)
	case diagram.CategoryIAMRole:
		return fmt.Sprintf("%s([\"%s\"])", id, label)
	case diagram.CategoryLambda:
		return fmt.Sprintf("%s{{\"%s\"}}", id, label)
	case diagram.CategoryBlank:
		return fmt.Sprintf("%s>\"%s\"]", id, label)
	default:
		return fmt.Sprintf("%s[\"%s\"]", id, label)
	}
}

// mermaidArrow returns the link operator with the first non-empty label.
func mermaidArrow(e *diagram.Edge) string {
	op := "-->"
	if e.Direction() == diagram.Undirected {
		op = "---"
	}
	labels := e.Attrs().Labels()
	if len(labels) == 0 {
		return op
	}
	return fmt.Sprintf("%s|\"%s\"|", op, mermaidEscapeLabel(labels[0]))
}

// mermaidSafeID replaces characters Mermaid does not accept in IDs.
func mermaidSafeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(id)
}

// mermaidEscapeLabel turns newlines into <br/> and quotes into entities.
func mermaidEscapeLabel(s string) string {
	r := strings.NewReplacer("\"", "#quot;", "\n", "<br/>")
	return r.Replace(s)
}
