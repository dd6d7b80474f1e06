package rdf

import (
	"errors"
	"testing"
)

func TestTermKindsAndStrings(t *testing.T) {
	iri := MustIRI("http://example.org/s")
	if iri.Kind() != TermIRI {
		t.Fatalf("expected IRI kind")
	}
	if iri.String() != "<http://example.org/s>" {
		t.Fatalf("unexpected IRI string: %s", iri.String())
	}
	if iri.Value() != "http://example.org/s" {
		t.Fatalf("unexpected IRI value: %s", iri.Value())
	}

	blank, err := NewBlankNode("b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blank.Kind() != TermBlankNode {
		t.Fatalf("expected blank node kind")
	}
	if blank.String() != "_:b1" {
		t.Fatalf("unexpected blank node string: %s", blank.String())
	}

	litPlain := MustLiteral("plain", "", "")
	if litPlain.Kind() != TermLiteral {
		t.Fatalf("expected literal kind")
	}
	if litPlain.String() != `"plain"` {
		t.Fatalf("unexpected literal string: %s", litPlain.String())
	}
	if litPlain.Datatype().Value() != XSDString {
		t.Fatalf("expected xsd:string datatype, got %s", litPlain.Datatype())
	}

	litLang := MustLiteral("hi", "", "EN")
	if litLang.String() != `"hi"@en` {
		t.Fatalf("unexpected lang literal: %s", litLang.String())
	}
	if litLang.Datatype().Value() != RDFLangString {
		t.Fatalf("expected rdf:langString datatype, got %s", litLang.Datatype())
	}

	litDT := MustLiteral("1", "http://example.org/int", "")
	if litDT.String() != `"1"^^<http://example.org/int>` {
		t.Fatalf("unexpected datatype literal: %s", litDT.String())
	}
}

func TestLiteralStringEscaping(t *testing.T) {
	lit := MustLiteral("a\"b\\c\nd\te\x01", "", "")
	want := `"a\"b\\c\nd\te\u0001"`
	if lit.String() != want {
		t.Fatalf("got %s, want %s", lit.String(), want)
	}
}

func TestLiteralLanguageRules(t *testing.T) {
	tests := []struct {
		name     string
		datatype string
		lang     string
		wantKind TermErrorKind
	}{
		{name: "lang with xsd:string", datatype: XSDString, lang: "en", wantKind: LiteralLanguageMismatch},
		{name: "langString without lang", datatype: RDFLangString, wantKind: LiteralLanguageMismatch},
		{name: "malformed tag", lang: "en_US", wantKind: InvalidLanguageTag},
		{name: "digit in primary subtag", lang: "e1", wantKind: InvalidLanguageTag},
		{name: "empty subtag", lang: "en--us", wantKind: InvalidLanguageTag},
		{name: "relative datatype", datatype: "integer", wantKind: InvalidIRI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterner().Literal("x", tt.datatype, tt.lang)
			var termErr *TermError
			if !errors.As(err, &termErr) {
				t.Fatalf("expected TermError, got %v", err)
			}
			if termErr.Kind != tt.wantKind {
				t.Fatalf("got kind %s, want %s", termErr.Kind, tt.wantKind)
			}
		})
	}
}

func TestLiteralLanguageTagAccepted(t *testing.T) {
	for _, tag := range []string{"en", "en-US", "zh-Hant-TW", "de-CH-1996", "x-private"} {
		if _, err := NewLangLiteral("x", tag); err != nil {
			t.Errorf("tag %q: unexpected error: %v", tag, err)
		}
	}
}

func TestIsSubject(t *testing.T) {
	var nilIRI *IRI
	tests := []struct {
		term Term
		want bool
	}{
		{MustIRI("http://example.org/s"), true},
		{mustBlank(t, "b"), true},
		{MustLiteral("x", "", ""), false},
		{nil, false},
		{nilIRI, false},
	}
	for _, tt := range tests {
		if got := IsSubject(tt.term); got != tt.want {
			t.Errorf("IsSubject(%v) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestCompareTerms(t *testing.T) {
	a := MustIRI("http://example.org/a")
	b := MustIRI("http://example.org/b")
	bn := mustBlank(t, "a")
	lit := MustLiteral("a", "", "")

	if CompareTerms(a, a) != 0 {
		t.Fatal("expected equal terms to compare 0")
	}
	if CompareTerms(a, b) >= 0 || CompareTerms(b, a) <= 0 {
		t.Fatal("expected IRIs ordered by value")
	}
	if CompareTerms(a, bn) >= 0 || CompareTerms(bn, lit) >= 0 {
		t.Fatal("expected IRI < blank node < literal")
	}
	if CompareTerms(nil, a) >= 0 {
		t.Fatal("expected nil first")
	}
}

func TestTripleValid(t *testing.T) {
	s := MustIRI("http://example.org/s")
	p := MustIRI("http://example.org/p")
	lit := MustLiteral("o", "", "")

	if !(Triple{S: s, P: p, O: lit}).Valid() {
		t.Fatal("expected valid triple")
	}
	if (Triple{S: lit, P: p, O: s}).Valid() {
		t.Fatal("literal subject must be invalid")
	}
	if (Triple{S: s, O: lit}).Valid() {
		t.Fatal("missing predicate must be invalid")
	}
	if _, err := NewTriple(lit, p, s); err == nil {
		t.Fatal("expected NewTriple to reject literal subject")
	}
}

func TestQuadIsZero(t *testing.T) {
	var q Quad
	if !q.IsZero() {
		t.Fatal("expected zero quad")
	}
	q.S = MustIRI("http://example.org/s")
	if q.IsZero() {
		t.Fatal("expected non-zero quad")
	}
}

func TestQuadString(t *testing.T) {
	s := MustIRI("http://example.org/s")
	p := MustIRI("http://example.org/p")
	g := MustIRI("http://example.org/g")
	q := Quad{S: s, P: p, O: MustLiteral("v", "", "en"), G: g}
	want := `<http://example.org/s> <http://example.org/p> "v"@en <http://example.org/g> .`
	if q.String() != want {
		t.Fatalf("got %s, want %s", q.String(), want)
	}
	if q.InDefaultGraph() {
		t.Fatal("expected named graph quad")
	}
	if got := q.ToTriple().ToQuad(); !got.InDefaultGraph() {
		t.Fatal("expected default graph quad")
	}
}

func mustBlank(t testing.TB, label string) *BlankNode {
	t.Helper()
	b, err := NewBlankNode(label)
	if err != nil {
		t.Fatalf("blank node %q: %v", label, err)
	}
	return b
}
