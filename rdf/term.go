package rdf

import (
	"strings"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "blank node"
	case TermLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a value that can appear in RDF statements.
//
// Terms are immutable and can only be obtained from an Interner. Two terms
// created from equal raw values by the same Interner are the same pointer,
// so terms compare with == and can be used directly as map keys.
type Term interface {
	Kind() TermKind
	// String returns the term in N-Triples syntax.
	String() string
	owner() *Interner
}

// IRI represents an absolute RDF IRI.
type IRI struct {
	value string
	in    *Interner
}

// Kind returns TermIRI.
func (i *IRI) Kind() TermKind { return TermIRI }

// Value returns the IRI string.
func (i *IRI) Value() string { return i.value }

// String returns the IRI enclosed in angle brackets.
func (i *IRI) String() string { return renderIRI(i.value) }

func (i *IRI) owner() *Interner { return i.in }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	id string
	in *Interner
}

// Kind returns TermBlankNode.
func (b *BlankNode) Kind() TermKind { return TermBlankNode }

// ID returns the blank node label without the "_:" prefix.
func (b *BlankNode) ID() string { return b.id }

// String returns the blank node identifier prefixed with "_:".
func (b *BlankNode) String() string { return "_:" + b.id }

func (b *BlankNode) owner() *Interner { return b.in }

// Literal represents an RDF literal.
type Literal struct {
	lexical  string
	datatype *IRI
	lang     string
	in       *Interner
}

// Kind returns TermLiteral.
func (l *Literal) Kind() TermKind { return TermLiteral }

// Lexical returns the lexical form.
func (l *Literal) Lexical() string { return l.lexical }

// Datatype returns the datatype IRI. It is never nil: plain literals are
// xsd:string and language-tagged literals are rdf:langString.
func (l *Literal) Datatype() *IRI { return l.datatype }

// Lang returns the lowercase language tag, or "" when the literal has none.
func (l *Literal) Lang() string { return l.lang }

// String returns the literal in N-Triples syntax. The xsd:string datatype is
// left implicit.
func (l *Literal) String() string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(escapeLiteral(l.lexical))
	b.WriteByte('"')
	switch {
	case l.lang != "":
		b.WriteByte('@')
		b.WriteString(l.lang)
	case l.datatype != nil && l.datatype.value != XSDString:
		b.WriteString("^^")
		b.WriteString(l.datatype.String())
	}
	return b.String()
}

func (l *Literal) owner() *Interner { return l.in }

// IsSubject reports whether t may appear in subject or graph-name position.
func IsSubject(t Term) bool {
	switch v := t.(type) {
	case *IRI:
		return v != nil
	case *BlankNode:
		return v != nil
	default:
		return false
	}
}

// isNilTerm catches typed nil pointers stored in a Term interface.
func isNilTerm(t Term) bool {
	switch v := t.(type) {
	case nil:
		return true
	case *IRI:
		return v == nil
	case *BlankNode:
		return v == nil
	case *Literal:
		return v == nil
	default:
		return false
	}
}

// CompareTerms orders terms by kind, then by their N-Triples rendering.
// It gives encoders and tests a deterministic order.
func CompareTerms(a, b Term) int {
	if a == b {
		return 0
	}
	if isNilTerm(a) {
		return -1
	}
	if isNilTerm(b) {
		return 1
	}
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	return strings.Compare(a.String(), b.String())
}
