package rdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestJSONLDParseArrayGraph(t *testing.T) {
	input := `{"@context":{"ex":"http://example.org/"},"@graph":[{"@id":"ex:s","ex:p":{"@id":"ex:o"}}]}`
	dec, err := NewTripleDecoder(strings.NewReader(input), FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	triple, err := dec.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if triple.P.Value() != "http://example.org/p" {
		t.Fatalf("unexpected predicate: %s", triple.P)
	}
	if triple.O != Term(MustIRI("http://example.org/o")) {
		t.Fatalf("unexpected object: %s", triple.O)
	}
	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestJSONLDMissingIDIsBlankNode(t *testing.T) {
	input := `{"@context":{"ex":"http://example.org/"},"ex:p":"v"}`
	dec, err := NewTripleDecoder(strings.NewReader(input), FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	triple, err := dec.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if triple.S.Kind() != TermBlankNode {
		t.Fatalf("expected blank node subject, got %s", triple.S)
	}
	if lit, ok := triple.O.(*Literal); !ok || lit.Lexical() != "v" || lit.Datatype().Value() != XSDString {
		t.Fatalf("unexpected object: %s", triple.O)
	}
}

func TestJSONLDBaseIRI(t *testing.T) {
	input := `{"@id":"s","http://example.org/p":"v"}`
	dec, err := NewTripleDecoder(strings.NewReader(input), FormatJSONLD, OptBaseIRI("http://example.org/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	triple, err := dec.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if triple.S != Term(MustIRI("http://example.org/s")) {
		t.Fatalf("unexpected subject: %s", triple.S)
	}
}

func TestJSONLDSyntaxError(t *testing.T) {
	dec, err := NewQuadDecoder(strings.NewReader(`{"@id": "http://example.org/s",}`), FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = dec.Next()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Format != "jsonld" || parseErr.Offset < 0 {
		t.Fatalf("unexpected error context: %+v", parseErr)
	}
}

func TestJSONLDNamedGraph(t *testing.T) {
	input := `{"@id":"http://example.org/g","@graph":[{"@id":"http://example.org/s","http://example.org/p":"v"}]}`

	quads, err := NewQuadDecoder(strings.NewReader(input), FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q, err := quads.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.G != Term(MustIRI("http://example.org/g")) {
		t.Fatalf("unexpected graph: %v", q.G)
	}

	triples, err := NewTripleDecoder(strings.NewReader(input), FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := triples.Next(); !errors.Is(err, errNamedGraphInTripleStream) {
		t.Fatalf("expected named graph error, got %v", err)
	}
}

func TestJSONLDEncoderCloseWithoutWrite(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewQuadEncoder(&buf, FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("expected empty document, got %q", buf.String())
	}
}

func TestJSONLDEncoderClosedError(t *testing.T) {
	enc, err := NewTripleEncoder(&bytes.Buffer{}, FormatJSONLD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = enc.Close()
	triple := Triple{S: MustIRI("http://example.org/s"), P: MustIRI("http://example.org/p"), O: MustLiteral("v", "", "")}
	if err := enc.Write(triple); !errors.Is(err, ErrSinkClosed) {
		t.Fatalf("expected ErrSinkClosed, got %v", err)
	}
}

func TestJSONLDEncoderCompacts(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewTripleEncoder(&buf, FormatJSONLD, OptJSONLDContext(map[string]any{"ex": "http://example.org/"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	triple := Triple{S: MustIRI("http://example.org/s"), P: MustIRI("http://example.org/p"), O: MustLiteral("v", "", "")}
	if err := enc.Write(triple); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"@context"`) || !strings.Contains(out, `"ex:p"`) {
		t.Fatalf("expected compacted output, got %s", out)
	}
}

func TestJSONLDDecodeCancelAfterFirstTriple(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	input := `{"@context":{"ex":"http://example.org/"},"@graph":[{"@id":"ex:s1","ex:p":"v1"},{"@id":"ex:s2","ex:p":"v2"}]}`
	dec, err := NewTripleDecoder(strings.NewReader(input), FormatJSONLD, OptContext(ctx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := dec.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancel()
	if _, err := dec.Next(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestIsomorphic(t *testing.T) {
	p := MustIRI("http://example.org/p")
	o := MustIRI("http://example.org/o")

	a := NewGraph()
	a.Insert(Triple{S: mustBlank(t, "x"), P: p, O: o})
	a.Insert(Triple{S: mustBlank(t, "x"), P: p, O: mustBlank(t, "y")})

	b := NewGraph()
	b.Insert(Triple{S: mustBlank(t, "q1"), P: p, O: o})
	b.Insert(Triple{S: mustBlank(t, "q1"), P: p, O: mustBlank(t, "q2")})

	ok, err := Isomorphic(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected graphs to be isomorphic")
	}
	if a.Equal(b) {
		t.Fatal("Equal compares labels and must report a difference")
	}

	c := NewGraph()
	c.Insert(Triple{S: mustBlank(t, "q1"), P: p, O: o})
	c.Insert(Triple{S: mustBlank(t, "q2"), P: p, O: mustBlank(t, "q1")})
	ok, err = Isomorphic(a, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected graphs to differ in shape")
	}
}
