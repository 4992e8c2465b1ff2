package diagram

import (
	"context"
	"fmt"

	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// Renderer lays out a finalized diagram and writes it to the diagram's
// output target. pkg/render provides the Graphviz implementation.
type Renderer interface {
	Render(ctx context.Context, d *Diagram) error
}

// Option configures a [Diagram] at creation time.
type Option func(*Diagram)

// WithLayout sets the rank direction. The default is [LeftToRight].
func WithLayout(l Layout) Option {
	return func(d *Diagram) { d.layout = l }
}

// WithGraphAttrs replaces the global graph attributes.
// The default is [DefaultGraphAttrs].
func WithGraphAttrs(a GraphAttrs) Option {
	return func(d *Diagram) { d.attrs = a }
}

// WithTitle sets a caption drawn above the diagram. Empty by default.
func WithTitle(title string) Option {
	return func(d *Diagram) { d.title = title }
}

// Diagram is the root container of one architecture diagram. It owns its
// nodes, clusters and edges and tracks the currently open cluster scope.
//
// A Diagram is built by a single goroutine and is not safe for concurrent
// mutation. After [Diagram.Finalize] it is read-only.
type Diagram struct {
	name   string
	title  string
	target output.Target
	layout Layout
	attrs  GraphAttrs

	root  *Cluster
	scope []*Cluster // open scopes, root first

	nodes    []*Node
	edges    []*Edge
	clusters []*Cluster

	finalized bool
	renders   int
}

// New creates an empty diagram that renders to target.
func New(name string, target output.Target, opts ...Option) (*Diagram, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "diagram name must not be empty")
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	d := &Diagram{
		name:   name,
		target: target,
		layout: LeftToRight,
		attrs:  DefaultGraphAttrs(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.attrs.Validate(); err != nil {
		return nil, err
	}
	d.root = &Cluster{name: name, diagram: d}
	d.scope = []*Cluster{d.root}
	return d, nil
}

// Name returns the diagram name.
func (d *Diagram) Name() string { return d.name }

// Title returns the caption, empty when none was set.
func (d *Diagram) Title() string { return d.title }

// Target returns the output location.
func (d *Diagram) Target() output.Target { return d.target }

// Layout returns the rank direction.
func (d *Diagram) Layout() Layout { return d.layout }

// GraphAttrs returns the global graph attributes.
func (d *Diagram) GraphAttrs() GraphAttrs { return d.attrs }

// SetGraphAttrs replaces the graph-level attributes. It fails once the
// diagram is finalized.
func (d *Diagram) SetGraphAttrs(a GraphAttrs) error {
	if err := d.checkMutable("set graph attributes"); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	d.attrs = a
	return nil
}

// Root returns the implicit top-level scope.
func (d *Diagram) Root() *Cluster { return d.root }

// Current returns the innermost open scope.
func (d *Diagram) Current() *Cluster { return d.scope[len(d.scope)-1] }

// Finalized reports whether [Diagram.Finalize] has succeeded at least once.
func (d *Diagram) Finalized() bool { return d.finalized }

// Renders returns how many times the diagram has been handed to a renderer.
func (d *Diagram) Renders() int { return d.renders }

// Nodes returns all nodes in declaration order.
func (d *Diagram) Nodes() []*Node { return append([]*Node(nil), d.nodes...) }

// Edges returns all edges in creation order.
func (d *Diagram) Edges() []*Edge { return append([]*Edge(nil), d.edges...) }

// Clusters returns all clusters in the order they were entered.
func (d *Diagram) Clusters() []*Cluster { return append([]*Cluster(nil), d.clusters...) }

func (d *Diagram) checkMutable(op string) error {
	if d.finalized {
		return errors.New(errors.ErrCodeInvalidGraph, "diagram %q: %s after finalize", d.name, op)
	}
	return nil
}

// Node creates a node in the current scope. At most one style may be given;
// it overrides the renderer defaults for this node only.
func (d *Diagram) Node(label string, category Category, style ...NodeStyle) (*Node, error) {
	if err := d.checkMutable("create node"); err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "diagram %q: unknown node category %q", d.name, category)
	}
	if len(style) > 1 {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "diagram %q: node %q: at most one style", d.name, label)
	}
	var st NodeStyle
	if len(style) == 1 {
		st = style[0]
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	scope := d.Current()
	n := &Node{
		id:       fmt.Sprintf("n%d", len(d.nodes)+1),
		label:    label,
		category: category,
		style:    st,
		cluster:  scope,
		diagram:  d,
	}
	d.nodes = append(d.nodes, n)
	scope.items = append(scope.items, n)
	return n, nil
}

// EnterCluster opens a nested scope inside the current one. Nodes and
// clusters created until the matching [Diagram.ExitCluster] belong to it.
func (d *Diagram) EnterCluster(name string, style ClusterStyle) (*Cluster, error) {
	if err := d.checkMutable("enter cluster"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "diagram %q: cluster name must not be empty", d.name)
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}

	parent := d.Current()
	c := &Cluster{
		id:      fmt.Sprintf("cluster_%d", len(d.clusters)+1),
		name:    name,
		style:   style,
		parent:  parent,
		depth:   parent.depth + 1,
		diagram: d,
	}
	d.clusters = append(d.clusters, c)
	parent.items = append(parent.items, c)
	d.scope = append(d.scope, c)
	return c, nil
}

// ExitCluster closes c, which must be the innermost open scope.
func (d *Diagram) ExitCluster(c *Cluster) error {
	if err := d.checkMutable("exit cluster"); err != nil {
		return err
	}
	if c == nil || c.diagram != d || c.parent == nil {
		return errors.New(errors.ErrCodeInvalidGraph, "diagram %q: exit of a cluster it does not own", d.name)
	}
	cur := d.Current()
	if cur != c {
		if c.closed {
			return errors.New(errors.ErrCodeInvalidGraph, "diagram %q: cluster %q already exited", d.name, c.name)
		}
		return errors.New(errors.ErrCodeInvalidGraph,
			"diagram %q: cluster %q exited while %q is still open", d.name, c.name, cur.name)
	}
	c.closed = true
	d.scope = d.scope[:len(d.scope)-1]
	return nil
}

func (d *Diagram) resolve(g Group, side string) ([]Endpoint, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "diagram %q: edge %s is nil", d.name, side)
	}
	ms := g.members()
	if len(ms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "diagram %q: edge %s is an empty set", d.name, side)
	}
	for i, m := range ms {
		if m == nil || m.owner() == nil {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "diagram %q: edge %s #%d is nil", d.name, side, i+1)
		}
		if m.owner() != d {
			return nil, errors.New(errors.ErrCodeInvalidGraph,
				"diagram %q: edge %s %q belongs to diagram %q", d.name, side, m.Label(), m.owner().name)
		}
		if c, ok := m.(*Cluster); ok && c.parent == nil {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "diagram %q: edge %s is the diagram root", d.name, side)
		}
	}
	return ms, nil
}

func (d *Diagram) validateEdge(dir EdgeDirection, attrs EdgeAttrs) error {
	if !dir.valid() {
		return errors.New(errors.ErrCodeInvalidStyle, "diagram %q: unknown edge direction %s", d.name, dir)
	}
	return attrs.Validate()
}

func (d *Diagram) addEdge(from, to Endpoint, dir EdgeDirection, attrs EdgeAttrs) *Edge {
	e := &Edge{
		id:    fmt.Sprintf("e%d", len(d.edges)+1),
		from:  from,
		to:    to,
		dir:   dir,
		attrs: attrs,
	}
	d.edges = append(d.edges, e)
	return e
}

// Connect creates one edge from every member of from to every member of to,
// in source-major order, all sharing dir and attrs. Either every edge is
// created or, on error, none is.
func (d *Diagram) Connect(from, to Group, dir EdgeDirection, attrs EdgeAttrs) ([]*Edge, error) {
	if err := d.checkMutable("connect"); err != nil {
		return nil, err
	}
	srcs, err := d.resolve(from, "source")
	if err != nil {
		return nil, err
	}
	dsts, err := d.resolve(to, "target")
	if err != nil {
		return nil, err
	}
	if err := d.validateEdge(dir, attrs); err != nil {
		return nil, err
	}

	out := make([]*Edge, 0, len(srcs)*len(dsts))
	for _, s := range srcs {
		for _, t := range dsts {
			out = append(out, d.addEdge(s, t, dir, attrs))
		}
	}
	return out, nil
}

// ConnectPairs connects from[i] to to[i] for every i. Both sets must have
// the same length.
func (d *Diagram) ConnectPairs(from, to Set, dir EdgeDirection, attrs EdgeAttrs) ([]*Edge, error) {
	if err := d.checkMutable("connect"); err != nil {
		return nil, err
	}
	if len(from) != len(to) {
		return nil, errors.New(errors.ErrCodeInvalidGraph,
			"diagram %q: cannot pair %d sources with %d targets", d.name, len(from), len(to))
	}
	srcs, err := d.resolve(from, "source")
	if err != nil {
		return nil, err
	}
	dsts, err := d.resolve(to, "target")
	if err != nil {
		return nil, err
	}
	if err := d.validateEdge(dir, attrs); err != nil {
		return nil, err
	}

	out := make([]*Edge, len(srcs))
	for i := range srcs {
		out[i] = d.addEdge(srcs[i], dsts[i], dir, attrs)
	}
	return out, nil
}

// Validate checks the whole-graph invariants that can only be judged once
// construction is over: every scope is closed and every cluster used as an
// edge endpoint contains at least one node.
func (d *Diagram) Validate() error {
	if len(d.scope) > 1 {
		return errors.New(errors.ErrCodeInvalidGraph,
			"diagram %q: cluster %q is still open", d.name, d.Current().name)
	}
	for _, e := range d.edges {
		for _, ep := range []Endpoint{e.from, e.to} {
			if c, ok := ep.(*Cluster); ok && c.Anchor() == nil {
				return errors.New(errors.ErrCodeInvalidGraph,
					"diagram %q: edge %s ends at empty cluster %q", d.name, e.id, c.name)
			}
		}
	}
	return d.target.Validate()
}

// Finalize validates the diagram, freezes it and hands it to r. Every call
// renders again; a frozen diagram renders to the same structure each time.
func (d *Diagram) Finalize(ctx context.Context, r Renderer) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if r == nil {
		return errors.New(errors.ErrCodeInternal, "diagram %q: no renderer", d.name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.finalized = true
	d.renders++
	return r.Render(ctx, d)
}

// Summary is a structural snapshot of a diagram, comparable with
// reflect.DeepEqual.
type Summary struct {
	Name     string
	Target   string
	Nodes    []string // labels in declaration order
	Clusters []string // slash-joined paths in entry order
	Edges    []string // "from -> to" by ID, with direction
}

// Summary returns a structural snapshot of the diagram.
func (d *Diagram) Summary() Summary {
	s := Summary{Name: d.name, Target: d.target.Path()}
	for _, n := range d.nodes {
		s.Nodes = append(s.Nodes, n.label)
	}
	for _, c := range d.clusters {
		s.Clusters = append(s.Clusters, c.String())
	}
	for _, e := range d.edges {
		s.Edges = append(s.Edges, e.String())
	}
	return s
}

// Counts returns the number of nodes, clusters and edges.
func (s Summary) Counts() (nodes, clusters, edges int) {
	return len(s.Nodes), len(s.Clusters), len(s.Edges)
}
