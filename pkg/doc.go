// Package pkg provides the libraries behind the mlopsdiagrams tool, which
// renders the architecture diagrams of the MLOps platform documentation.
//
// # Overview
//
// Each documentation diagram is declared in Go: a builder creates nodes,
// nested clusters and edges, and a render backend turns the result into an
// image. The pkg directory is organized as:
//
//  1. [diagram] - The graph element model (nodes, clusters, edges, styles,
//     step counters)
//  2. [mlops] - The builders: the overall architecture and use cases A to G
//  3. [output] - Output path resolution (base path plus format)
//  4. [render] - DOT and Mermaid serialisation, Graphviz layout and export
//  5. [pipeline] - Orchestration (select, plan, build, render) shared by the
//     CLI and the preview server
//
// # Architecture
//
// The data flow of a run:
//
//	[mlops] registry
//	       ↓
//	[pipeline] plan (select builders, resolve and rebase targets)
//	       ↓
//	[mlops] builder → [diagram] Diagram (validated)
//	       ↓
//	[render] backend (DOT → Graphviz, cached by [cache])
//	       ↓
//	images/component_reference/*.png
//
// # Quick Start
//
// Render every diagram as SVG under docs/:
//
//	runner := pipeline.NewRunner(render.NewGraphviz(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{OutDir: "docs", Format: "svg"})
//
// Build a single diagram and inspect it without rendering:
//
//	d, err := mlops.UseCaseE(output.MustResolve("out/E_training.png"))
//	fmt.Println(d.Summary())
//
// # Supporting Packages
//
// [cache] - Render cache keyed by the hash of the DOT source. File cache for
// the CLI, Redis for shared use, and a null cache.
//
// [errors] - Coded errors: construction, resolution, render and config
// failures.
//
// [observability] - Optional hooks for build, render, cache and server
// events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/mlops/...       # Builders only
//	go test -run Example ./pkg/... # Examples only
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/diagram
// [mlops]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/mlops
// [output]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/output
// [render]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mlopsdiagrams/pkg/buildinfo
package pkg
