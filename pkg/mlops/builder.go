package mlops

import (
	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// Shared node styles of the documentation diagrams.
var (
	// stageStyle is a pipeline stage marker drawn between a pipeline and
	// its actions.
	stageStyle = diagram.NodeStyle{Height: 0.5, Width: 0.95}

	// markerStyle is a narrower text marker (notify stage, await approval).
	markerStyle = diagram.NodeStyle{Height: 0.5}

	// noteStyle is a centred text block.
	noteStyle = diagram.NodeStyle{Height: 0.5, LabelLoc: diagram.LabelCenter}
)

// builder wraps a diagram under construction and keeps the first error.
// Once an error is recorded every further call is a no-op, so a builder
// reads as a straight list of declarations and reports failure once in
// done.
type builder struct {
	d     *diagram.Diagram
	steps *diagram.StepCounter
	err   error
}

func newBuilder(name, prefix string, target output.Target, opts ...diagram.Option) *builder {
	d, err := diagram.New(name, target, opts...)
	return &builder{d: d, steps: diagram.NewStepCounter(prefix), err: err}
}

// step returns the next numbered label.
func (b *builder) step(text string) string { return b.steps.Label(text) }

func (b *builder) node(label string, c diagram.Category, style ...diagram.NodeStyle) *diagram.Node {
	if b.err != nil {
		return nil
	}
	n, err := b.d.Node(label, c, style...)
	b.err = err
	return n
}

func (b *builder) blank(label string, style diagram.NodeStyle) *diagram.Node {
	return b.node(label, diagram.CategoryBlank, style)
}

// within declares everything fn creates inside a new cluster.
func (b *builder) within(name string, style diagram.ClusterStyle, fn func()) *diagram.Cluster {
	if b.err != nil {
		return nil
	}
	c, err := b.d.EnterCluster(name, style)
	if err != nil {
		b.err = err
		return nil
	}
	fn()
	if b.err == nil {
		b.err = b.d.ExitCluster(c)
	}
	return c
}

func (b *builder) connect(from, to diagram.Group, dir diagram.EdgeDirection, attrs []diagram.EdgeAttrs) {
	if b.err != nil {
		return
	}
	var a diagram.EdgeAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	_, b.err = b.d.Connect(from, to, dir, a)
}

// to draws from -> to.
func (b *builder) to(from, to diagram.Group, attrs ...diagram.EdgeAttrs) {
	b.connect(from, to, diagram.Directed, attrs)
}

// back draws to -> from with the arrow head at the first argument, which
// reads as "a is fed by b".
func (b *builder) back(a, from diagram.Group, attrs ...diagram.EdgeAttrs) {
	b.connect(a, from, diagram.ReverseDirected, attrs)
}

// line draws an undirected edge.
func (b *builder) line(a, c diagram.Group, attrs ...diagram.EdgeAttrs) {
	b.connect(a, c, diagram.Undirected, attrs)
}

// pairs draws from[i] -> to[i].
func (b *builder) pairs(from, to diagram.Set, attrs diagram.EdgeAttrs) {
	if b.err != nil {
		return
	}
	_, b.err = b.d.ConnectPairs(from, to, diagram.Directed, attrs)
}

// done returns the validated diagram or the first recorded error.
func (b *builder) done() (*diagram.Diagram, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.d.Validate(); err != nil {
		return nil, err
	}
	return b.d, nil
}

func label(text string) diagram.EdgeAttrs { return diagram.EdgeAttrs{Label: text} }

func xlabel(text string) diagram.EdgeAttrs { return diagram.EdgeAttrs{XLabel: text} }

func dashed(text string) diagram.EdgeAttrs {
	return diagram.EdgeAttrs{Label: text, Style: diagram.Dashed}
}
