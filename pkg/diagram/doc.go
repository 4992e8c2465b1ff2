// Package diagram holds the declared graph of an architecture diagram before
// it is laid out: nodes, nested clusters and styled edges.
//
// # Overview
//
// A [Diagram] is created once per builder, populated through explicit calls
// and handed to a [Renderer] by [Diagram.Finalize]:
//
//	d, err := diagram.New("b", target, diagram.WithLayout(diagram.TopToBottom))
//	role, _ := d.Node("DataScienceAdmin", diagram.CategoryIAMRole)
//	console, _ := d.EnterCluster("AWS Management Console", diagram.ConsoleStyle())
//	studio, _ := d.Node("SageMaker\nStudio", diagram.CategorySageMaker)
//	_ = d.ExitCluster(console)
//
//	steps := diagram.NewStepCounter("B")
//	_, _ = d.Connect(role, studio, diagram.Directed, diagram.EdgeAttrs{Label: steps.Label("open studio")})
//	err := d.Finalize(ctx, renderer)
//
// # Invariants
//
// Every operation checks its invariants and returns a construction error
// (code INVALID_GRAPH or INVALID_STYLE from pkg/errors) instead of guessing:
//
//   - edge endpoints must be nodes or clusters created by the same diagram
//   - cluster scopes close in LIFO order
//   - nothing can be added once the diagram has been finalized
//   - styles are closed records; unknown values are rejected
//
// # Fan-out
//
// [Diagram.Connect] accepts single endpoints or ordered [Set]s. N sources and
// M targets produce N×M edges in source-major order. [Diagram.ConnectPairs]
// pairs two sets element-wise instead.
//
// # Step labels
//
// [StepCounter] numbers the steps of one diagram ("A.1", "A.2", ...). Each
// builder creates its own counter, so labels always restart at 1 and two
// builders never interfere.
package diagram
