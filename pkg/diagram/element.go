package diagram

import "strings"

// Element is anything that can appear inside a cluster: a [*Node] or a
// nested [*Cluster]. The set of implementations is closed.
type Element interface {
	ID() string
	isElement()
}

// Endpoint is a valid edge endpoint: a [*Node] or a [*Cluster].
type Endpoint interface {
	Element
	Label() string
	owner() *Diagram
}

// Group is the operand of [Diagram.Connect]: a single [*Node], a single
// [*Cluster], or an ordered [Set] of them.
type Group interface {
	members() []Endpoint
}

// Set is an ordered group of endpoints used for fan-out connections.
type Set []Endpoint

func (s Set) members() []Endpoint { return s }

// Nodes builds a [Set] from nodes, preserving order.
func Nodes(nodes ...*Node) Set {
	s := make(Set, len(nodes))
	for i, n := range nodes {
		s[i] = n
	}
	return s
}

// =============================================================================
// Node
// =============================================================================

// Node is a labeled, categorised vertex. Nodes are created through
// [Diagram.Node] and are immutable afterwards.
type Node struct {
	id       string
	label    string
	category Category
	style    NodeStyle
	cluster  *Cluster
	diagram  *Diagram
}

func (n *Node) isElement() {}

func (n *Node) members() []Endpoint { return []Endpoint{n} }

func (n *Node) owner() *Diagram {
	if n == nil {
		return nil
	}
	return n.diagram
}

// ID returns the deterministic identifier of the node ("n1", "n2", ...).
func (n *Node) ID() string { return n.id }

// Label returns the display text, which may span several lines.
func (n *Node) Label() string { return n.label }

// Category returns the semantic type of the node.
func (n *Node) Category() Category { return n.category }

// Style returns the size and label overrides of the node.
func (n *Node) Style() NodeStyle { return n.style }

// Cluster returns the innermost cluster containing the node, or nil when the
// node sits at the top level of its diagram.
func (n *Node) Cluster() *Cluster {
	if n.cluster == nil || n.cluster.parent == nil {
		return nil
	}
	return n.cluster
}

func (n *Node) String() string {
	return n.id + "(" + strings.ReplaceAll(n.label, "\n", " ") + ")"
}

// =============================================================================
// Cluster
// =============================================================================

// Cluster is a named, styled grouping of nodes and nested clusters. The
// clusters of a diagram form a strict tree whose root is the diagram itself.
type Cluster struct {
	id      string
	name    string
	style   ClusterStyle
	parent  *Cluster
	depth   int
	items   []Element
	closed  bool
	diagram *Diagram
}

func (c *Cluster) isElement() {}

func (c *Cluster) members() []Endpoint { return []Endpoint{c} }

func (c *Cluster) owner() *Diagram {
	if c == nil {
		return nil
	}
	return c.diagram
}

// ID returns the deterministic identifier of the cluster ("cluster_1", ...).
// The root scope of a diagram has an empty ID.
func (c *Cluster) ID() string { return c.id }

// Label returns the cluster title.
func (c *Cluster) Label() string { return c.name }

// Name is an alias for [Cluster.Label].
func (c *Cluster) Name() string { return c.name }

// Style returns the cluster style.
func (c *Cluster) Style() ClusterStyle { return c.style }

// Parent returns the enclosing cluster, or nil for a top-level cluster.
func (c *Cluster) Parent() *Cluster {
	if c.parent == nil || c.parent.parent == nil {
		return nil
	}
	return c.parent
}

// Depth is 1 for top-level clusters and grows by one per nesting level.
// The root scope has depth 0.
func (c *Cluster) Depth() int { return c.depth }

// IsRoot reports whether c is the implicit top-level scope of a diagram.
func (c *Cluster) IsRoot() bool { return c.parent == nil }

// Closed reports whether the cluster scope has been exited.
func (c *Cluster) Closed() bool { return c.closed }

// Items returns the direct children of the cluster in declaration order.
func (c *Cluster) Items() []Element {
	out := make([]Element, len(c.items))
	copy(out, c.items)
	return out
}

// Children returns the directly nested clusters in declaration order.
func (c *Cluster) Children() []*Cluster {
	var out []*Cluster
	for _, it := range c.items {
		if sub, ok := it.(*Cluster); ok {
			out = append(out, sub)
		}
	}
	return out
}

// Nodes returns the nodes declared directly inside the cluster.
func (c *Cluster) Nodes() []*Node {
	var out []*Node
	for _, it := range c.items {
		if n, ok := it.(*Node); ok {
			out = append(out, n)
		}
	}
	return out
}

// AllNodes returns every node inside the cluster, including nested
// clusters, in depth-first declaration order.
func (c *Cluster) AllNodes() []*Node {
	var out []*Node
	for _, it := range c.items {
		switch v := it.(type) {
		case *Node:
			out = append(out, v)
		case *Cluster:
			out = append(out, v.AllNodes()...)
		}
	}
	return out
}

// Contains reports whether n is inside c at any depth.
func (c *Cluster) Contains(n *Node) bool {
	for s := n.cluster; s != nil; s = s.parent {
		if s == c {
			return true
		}
	}
	return false
}

// Path returns the cluster names from the outermost cluster down to c.
func (c *Cluster) Path() []string {
	var rev []string
	for s := c; s != nil && s.parent != nil; s = s.parent {
		rev = append(rev, s.name)
	}
	out := make([]string, len(rev))
	for i, name := range rev {
		out[len(rev)-1-i] = name
	}
	return out
}

// Anchor returns the node that compound edges attach to: the first node
// inside the cluster in declaration order, or nil when the cluster is empty.
func (c *Cluster) Anchor() *Node {
	nodes := c.AllNodes()
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func (c *Cluster) String() string {
	return c.id + "(" + strings.Join(c.Path(), "/") + ")"
}

// =============================================================================
// Edge
// =============================================================================

// Edge connects two endpoints. Edges are created through [Diagram.Connect]
// and are immutable afterwards.
type Edge struct {
	id    string
	from  Endpoint
	to    Endpoint
	dir   EdgeDirection
	attrs EdgeAttrs
}

// ID returns the deterministic identifier of the edge ("e1", "e2", ...).
func (e *Edge) ID() string { return e.id }

// From returns the source endpoint.
func (e *Edge) From() Endpoint { return e.from }

// To returns the target endpoint.
func (e *Edge) To() Endpoint { return e.to }

// Direction returns which end carries the arrowhead.
func (e *Edge) Direction() EdgeDirection { return e.dir }

// Attrs returns the labels and styling of the edge.
func (e *Edge) Attrs() EdgeAttrs { return e.attrs }

// IsSelfLoop reports whether both endpoints are the same element.
func (e *Edge) IsSelfLoop() bool { return e.from == e.to }

func (e *Edge) String() string {
	arrow := "->"
	switch e.dir {
	case ReverseDirected:
		arrow = "<-"
	case Undirected:
		arrow = "--"
	}
	return e.from.ID() + " " + arrow + " " + e.to.ID()
}
