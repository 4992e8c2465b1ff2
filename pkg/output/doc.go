// Package output derives render targets from path-like strings.
//
// A builder declares where its diagram goes with a single path such as
// "images/component_reference/A_deploy_infrastructure.png". [Split] turns it
// into a base path ("images/component_reference/A_deploy_infrastructure")
// and a lower-cased format ("png") using pure string manipulation: nothing
// here touches the filesystem or the layout engine, so path schemes can be
// checked without rendering anything.
//
// [Resolve] adds validation on top of [Split]. A path without an extension,
// or with an extension no renderer understands, is a resolution error; the
// resolver never substitutes a default format.
//
//	t, err := output.Resolve("images/x.SVG")
//	// t.Base == "images/x", t.Format == "svg"
//	t = t.Rebase("build/html")
//	// t.Path() == "build/html/images/x.svg"
package output
