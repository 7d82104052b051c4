// Package pkg provides the libraries behind argmap, an interactive viewer
// for argument diagrams.
//
// # Overview
//
// argmap lays out AIF argument graphs and Toulmin trees, lets a user pan and
// zoom around them, and grows the diagram on demand by fetching the
// neighborhood of a rule application from an argument service. The pkg
// directory is organized by concern:
//
//  1. Model: [argument] (graph, payloads, compound ids)
//  2. Layout: [layout], [layout/graphviz], [layout/sugiyama], [style]
//  3. Interaction: [viewport], [expand], [diagram]
//  4. Output: [render] (scene, SVG, PNG and PDF conversion)
//  5. Data: [neighborhood], [cache], [session]
//  6. Support: [config], [errors], [httputil], [observability], [buildinfo]
//
// # Architecture
//
// The data flow for one diagram:
//
//	JSON payload
//	     ↓
//	[argument] package (decode, build graph)
//	     ↓
//	[layout] package (layered or topological placement)
//	     ↓
//	[viewport] package (fit, pan, zoom)
//	     ↓
//	[render] package (scene → SVG/PNG/PDF)
//
// Clicking a rule application runs [expand], which asks a [neighborhood]
// source for the surrounding elements, merges them and lays the diagram out
// again.
//
// # Quick Start
//
//	p, _ := argument.ReadPayloadFile("debate.json")
//	d, err := diagram.New(ctx, p, diagram.Options{
//	    Fetcher: neighborhood.NewMemory(g),
//	})
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	d.Expand(ctx, "RA:42")
//	os.WriteFile("debate.svg", d.SVG(), 0o644)
//
// # Testing
//
//	go test ./pkg/...          # all tests
//	go test ./pkg/layout/...   # one package tree
//	go test -run Example ./... # examples only
//
// [argument]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/argument
// [layout]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/layout
// [layout/graphviz]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/layout/graphviz
// [layout/sugiyama]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/layout/sugiyama
// [style]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/style
// [viewport]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/viewport
// [expand]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/expand
// [diagram]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/diagram
// [render]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/render
// [neighborhood]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/neighborhood
// [cache]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/argmap/pkg/buildinfo
package pkg
