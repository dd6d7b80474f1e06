package rdf

import "fmt"

// Triple is an RDF triple. S is an *IRI or *BlankNode, O is any term.
//
// Triples are comparable values: with interned terms, == is structural
// equality and a Triple can key a map directly.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P *IRI
	// O is the object.
	O Term
}

// NewTriple builds a triple, checking that each position holds a term kind
// RDF allows there.
func NewTriple(s Term, p *IRI, o Term) (Triple, error) {
	t := Triple{S: s, P: p, O: o}
	if !t.Valid() {
		return Triple{}, fmt.Errorf("rdf: invalid triple %s", t)
	}
	return t, nil
}

// Valid reports whether all positions are set and the subject is an IRI or
// blank node.
func (t Triple) Valid() bool {
	return IsSubject(t.S) && t.P != nil && !isNilTerm(t.O)
}

// IsZero reports whether the triple has no subject/predicate/object.
func (t Triple) IsZero() bool {
	return t.S == nil && t.P == nil && t.O == nil
}

// String renders the triple as an N-Triples statement without the final newline.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", termString(t.S), termString(t.P), termString(t.O))
}

// ToQuad converts a triple to a quad in the default graph.
func (t Triple) ToQuad() Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: nil}
}

// ToQuadInGraph converts a triple to a quad in a named graph.
func (t Triple) ToQuadInGraph(graph Term) Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: graph}
}

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P *IRI
	// O is the object.
	O Term
	// G is the graph name, or nil for the default graph.
	G Term
}

// Valid reports whether the triple part is valid and G is nil, an IRI or a
// blank node.
func (q Quad) Valid() bool {
	return q.ToTriple().Valid() && (q.G == nil || IsSubject(q.G))
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P == nil && q.O == nil && q.G == nil
}

// ToTriple extracts the triple from a quad (ignores graph).
func (q Quad) ToTriple() Triple {
	return Triple{S: q.S, P: q.P, O: q.O}
}

// InDefaultGraph reports whether the quad is in the default graph (no named graph).
func (q Quad) InDefaultGraph() bool {
	return q.G == nil
}

// String renders the quad as an N-Quads statement without the final newline.
func (q Quad) String() string {
	if q.G == nil {
		return q.ToTriple().String()
	}
	return fmt.Sprintf("%s %s %s %s .", termString(q.S), termString(q.P), termString(q.O), termString(q.G))
}

func termString(t Term) string {
	if isNilTerm(t) {
		return "<nil>"
	}
	return t.String()
}
