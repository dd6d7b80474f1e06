package rdf

import (
	"fmt"
	"strings"
)

// Pattern selects triples. A nil slot is a wildcard; a non-nil slot must be
// equal (identical, for interned terms) to the triple's term in that
// position. Bound literals match on lexical form, datatype and language
// together.
type Pattern struct {
	S Term
	P *IRI
	O Term
}

// AnyTriple matches every triple.
var AnyTriple = Pattern{}

// Matches reports whether t satisfies the pattern.
func (p Pattern) Matches(t Triple) bool {
	return (p.S == nil || p.S == t.S) &&
		(p.P == nil || p.P == t.P) &&
		(p.O == nil || p.O == t.O)
}

// Bound returns which slots are bound.
func (p Pattern) Bound() (s, pred, o bool) {
	return p.S != nil, p.P != nil, p.O != nil
}

// adopt rewrites bound terms into in so identity comparison against a
// graph's entries is meaningful.
func (p Pattern) adopt(in *Interner) Pattern {
	p.S = in.Adopt(p.S)
	p.O = in.Adopt(p.O)
	if p.P != nil && p.P.in != in {
		p.P = in.iri(p.P.value)
	}
	return p
}

func (p Pattern) String() string {
	slot := func(t Term) string {
		if isNilTerm(t) {
			return "?"
		}
		return t.String()
	}
	var pred Term
	if p.P != nil {
		pred = p.P
	}
	return fmt.Sprintf("{%s %s %s}", slot(p.S), slot(pred), slot(p.O))
}

// ParsePattern builds a pattern from raw N-Triples term syntax, interning
// every bound term. "", "?" and "?name" are wildcards.
func ParsePattern(in *Interner, s, p, o string) (Pattern, error) {
	if in == nil {
		in = defaultInterner
	}
	var pat Pattern
	var err error
	if pat.S, err = parsePatternTerm(in, s); err != nil {
		return Pattern{}, fmt.Errorf("subject: %w", err)
	}
	if pat.S != nil && !IsSubject(pat.S) {
		return Pattern{}, fmt.Errorf("subject: literal not allowed")
	}
	pt, err := parsePatternTerm(in, p)
	if err != nil {
		return Pattern{}, fmt.Errorf("predicate: %w", err)
	}
	if pt != nil {
		iri, ok := pt.(*IRI)
		if !ok {
			return Pattern{}, fmt.Errorf("predicate: must be an IRI")
		}
		pat.P = iri
	}
	if pat.O, err = parsePatternTerm(in, o); err != nil {
		return Pattern{}, fmt.Errorf("object: %w", err)
	}
	return pat, nil
}

func parsePatternTerm(in *Interner, raw string) (Term, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "?") {
		return nil, nil
	}
	return ParseTerm(in, raw)
}

// GraphPattern selects graphs within a Dataset.
type GraphPattern struct {
	name  Term
	bound bool
}

// AnyGraph matches the default graph and every named graph.
var AnyGraph = GraphPattern{}

// DefaultGraphOnly matches only the default graph.
var DefaultGraphOnly = GraphPattern{bound: true}

// InGraph matches only the graph with the given name. A nil name selects
// the default graph.
func InGraph(name Term) GraphPattern {
	if isNilTerm(name) {
		return DefaultGraphOnly
	}
	return GraphPattern{name: name, bound: true}
}

// IsWildcard reports whether the pattern matches every graph.
func (g GraphPattern) IsWildcard() bool { return !g.bound }

// Name returns the bound graph name; nil means the default graph or a wildcard.
func (g GraphPattern) Name() Term { return g.name }

// Matches reports whether a graph name satisfies the pattern.
func (g GraphPattern) Matches(name Term) bool {
	return !g.bound || g.name == name
}
