package rdf

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Graph is an in-memory set of triples indexed by subject, predicate,
// object, subject+predicate and predicate+object.
//
// A Graph is not safe for concurrent mutation; callers that share one
// across goroutines must serialize access themselves. Sequences returned
// by Iter, Match, Subjects, Predicates and Objects read the live indexes:
// the graph must not be modified while such a sequence is being consumed.
// Collect the results first (slices.Collect) when mutation is needed.
type Graph struct {
	in      *Interner
	triples []Triple // slot table indexed by triple id; zero value marks a free slot
	ids     map[Triple]uint32
	free    []uint32
	index   tripleIndex
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithInterner makes the graph canonicalize its terms through in instead of
// the default interner.
func WithInterner(in *Interner) GraphOption {
	return func(g *Graph) {
		if in != nil {
			g.in = in
		}
	}
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		in:    defaultInterner,
		ids:   make(map[Triple]uint32),
		index: newTripleIndex(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Interner returns the interner the graph canonicalizes terms with.
func (g *Graph) Interner() *Interner { return g.in }

// adopt validates t and rewrites its terms into the graph's interner.
func (g *Graph) adopt(t Triple) (Triple, bool) {
	if !t.Valid() {
		return Triple{}, false
	}
	t.S = g.in.Adopt(t.S)
	if t.P.in != g.in {
		t.P = g.in.iri(t.P.value)
	}
	t.O = g.in.Adopt(t.O)
	return t, true
}

// Insert adds t and reports whether it was new. Inserting a triple that is
// already present, or an invalid one, leaves the graph unchanged.
func (g *Graph) Insert(t Triple) bool {
	t, ok := g.adopt(t)
	if !ok {
		return false
	}
	if _, exists := g.ids[t]; exists {
		return false
	}
	id := g.allocate(t)
	g.ids[t] = id
	g.index.add(t, id)
	return true
}

func (g *Graph) allocate(t Triple) uint32 {
	if n := len(g.free); n > 0 {
		id := g.free[n-1]
		g.free = g.free[:n-1]
		g.triples[id] = t
		return id
	}
	if len(g.triples) >= math.MaxUint32 {
		panic("rdf: graph triple id space exhausted")
	}
	g.triples = append(g.triples, t)
	return uint32(len(g.triples) - 1)
}

// Remove deletes t and reports whether it was present. Index entries left
// empty are dropped, releasing their terms.
func (g *Graph) Remove(t Triple) bool {
	t, ok := g.adopt(t)
	if !ok {
		return false
	}
	id, exists := g.ids[t]
	if !exists {
		return false
	}
	g.removeID(t, id)
	return true
}

func (g *Graph) removeID(t Triple, id uint32) {
	delete(g.ids, t)
	g.index.remove(t, id)
	g.triples[id] = Triple{}
	g.free = append(g.free, id)
}

// Contains reports whether t is in the graph.
func (g *Graph) Contains(t Triple) bool {
	t, ok := g.adopt(t)
	if !ok {
		return false
	}
	_, exists := g.ids[t]
	return exists
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.ids) }

// Iter returns every triple. Each call enumerates the graph as it is when
// iteration starts.
func (g *Graph) Iter() iter.Seq[Triple] {
	return g.Match(AnyTriple)
}

// InsertAll inserts every triple of seq and returns how many were new.
func (g *Graph) InsertAll(seq iter.Seq[Triple]) int {
	n := 0
	for t := range seq {
		if g.Insert(t) {
			n++
		}
	}
	return n
}

// RemoveMatching removes every triple matching p and returns the count.
func (g *Graph) RemoveMatching(p Pattern) int {
	matched := slices.Collect(g.Match(p))
	for _, t := range matched {
		g.removeID(t, g.ids[t])
	}
	return len(matched)
}

// Clear removes all triples.
func (g *Graph) Clear() {
	g.triples = nil
	g.free = nil
	g.ids = make(map[Triple]uint32)
	g.index = newTripleIndex()
}

// Subjects returns each distinct subject once, in unspecified order.
func (g *Graph) Subjects() iter.Seq[Term] {
	return distinctKeys(g.index.bySubject)
}

// Predicates returns each distinct predicate once, in unspecified order.
func (g *Graph) Predicates() iter.Seq[*IRI] {
	return distinctKeys(g.index.byPredicate)
}

// Objects returns each distinct object once, in unspecified order.
func (g *Graph) Objects() iter.Seq[Term] {
	return distinctKeys(g.index.byObject)
}

func distinctKeys[K comparable](p postings[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range p {
			if !yield(k) {
				return
			}
		}
	}
}

// Clone returns an independent copy sharing the same interner.
func (g *Graph) Clone() *Graph {
	c := NewGraph(WithInterner(g.in))
	c.InsertAll(g.Iter())
	return c
}

// Merge inserts every triple of other and returns how many were new.
// Blank nodes are merged by label.
func (g *Graph) Merge(other *Graph) int {
	if other == g {
		return 0
	}
	return g.InsertAll(other.Iter())
}

// Equal reports whether both graphs hold the same triple set. Blank nodes
// are compared by label, not by isomorphism.
func (g *Graph) Equal(other *Graph) bool {
	if g.Len() != other.Len() {
		return false
	}
	for t := range g.Iter() {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// String summarizes the graph for debugging.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph(%d triples)", g.Len())
}

// SortTriples orders triples by subject, predicate, then object using
// CompareTerms. Encoders and tests use it for deterministic output.
func SortTriples(ts []Triple) {
	slices.SortFunc(ts, compareTriples)
}

func compareTriples(a, b Triple) int {
	if c := CompareTerms(a.S, b.S); c != 0 {
		return c
	}
	if c := CompareTerms(a.P, b.P); c != 0 {
		return c
	}
	return CompareTerms(a.O, b.O)
}

// Sorted returns the graph's triples in SortTriples order.
func (g *Graph) Sorted() []Triple {
	ts := slices.Collect(g.Iter())
	SortTriples(ts)
	return ts
}
