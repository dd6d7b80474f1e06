// Package rdf provides an in-memory RDF store built on interned terms.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// The package has three layers:
//   - Terms: an Interner hash-conses IRIs, blank nodes and literals, so
//     structurally equal terms are the same pointer. Terms are validated
//     once, at construction, and reclaimed by the garbage collector when no
//     graph or caller holds them.
//   - Storage: a Graph is a set of triples with subject, predicate, object,
//     subject+predicate and predicate+object indexes. A Dataset is a
//     default graph plus named graphs.
//   - Matching: Graph.Match and Dataset.Match take a Pattern with wildcard
//     slots and return a lazy iter.Seq, answered from the most selective
//     index.
//
// Example (building and querying a graph):
//
//	alice := rdf.MustIRI("http://example.org/alice")
//	knows := rdf.MustIRI("http://xmlns.com/foaf/0.1/knows")
//	bob := rdf.MustIRI("http://example.org/bob")
//
//	g := rdf.NewGraph()
//	g.Insert(rdf.Triple{S: alice, P: knows, O: bob})
//
//	for t := range g.Match(rdf.Pattern{P: knows}) {
//	    fmt.Println(t.S, "knows", t.O)
//	}
//
// Example (loading N-Triples):
//
//	dec, err := rdf.NewTripleDecoder(r, rdf.FormatNTriples)
//	if err != nil {
//	    // handle error
//	}
//	defer dec.Close()
//
//	n, err := g.Load(dec)
//	var loadErr *rdf.LoadError
//	if errors.As(err, &loadErr) && loadErr.FromSource() {
//	    // the input was malformed; n triples were inserted before it
//	}
//
// Supported formats:
//   - Read and write: N-Triples, N-Quads, JSON-LD
//   - Write only: Turtle
//
// Each load gives blank nodes a fresh scope: _:b1 in two files becomes two
// nodes. Pass WithSharedBlankNodes to keep document labels instead.
//
// Graphs and datasets are not safe for concurrent mutation. The Interner
// is. LoadGraphs loads independent sources into independent graphs in
// parallel.
package rdf
