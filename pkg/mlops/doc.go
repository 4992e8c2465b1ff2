// Package mlops declares the architecture diagrams of the enterprise MLOps
// platform documentation.
//
// There is one builder per diagram: [Overview] for the whole platform and
// [UseCaseA] through [UseCaseG] for the individual workflows. Every builder
// creates its own [diagram.Diagram] and step counter, so builders can run in
// any order and always produce the same graph. Step labels carry the
// use-case letter ("B.3 create project").
//
// [Builders] is the registry the CLI and the preview server iterate:
//
//	for _, b := range mlops.Builders() {
//	    target, _ := b.Target()
//	    d, err := b.Build(target)
//	    ...
//	}
//
// [diagram.Diagram]: github.com/matzehuels/mlopsdiagrams/pkg/diagram
package mlops
