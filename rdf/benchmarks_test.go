package rdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

var benchJSONLDInput = `{
  "@context": {"ex": "http://example.org/"},
  "@graph": [
    {"@id": "ex:s1", "ex:p1": "o1"},
    {"@id": "ex:s2", "ex:p2": "o2"},
    {"@id": "ex:s3", "ex:p3": "o3"},
    {"@id": "ex:s4", "ex:p4": "o4"},
    {"@id": "ex:s5", "ex:p5": "o5"}
  ]
}`

// benchNTriples returns n triples over a small predicate vocabulary, so
// predicate postings are large and subject postings are small.
func benchNTriples(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "<http://example.org/s%d> <http://example.org/p%d> \"v%d\" .\n", i/4, i%8, i)
	}
	return sb.String()
}

func benchGraph(b *testing.B, n int) *Graph {
	b.Helper()
	dec, err := NewTripleDecoder(strings.NewReader(benchNTriples(n)), FormatNTriples)
	if err != nil {
		b.Fatal(err)
	}
	g := NewGraph()
	if _, err := g.Load(dec); err != nil {
		b.Fatal(err)
	}
	return g
}

func BenchmarkNTriplesDecode(b *testing.B) {
	input := benchNTriples(1000)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dec, err := NewTripleDecoder(strings.NewReader(input), FormatNTriples)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := Pipe(dec, DiscardTriples()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNTriplesEncode(b *testing.B) {
	buf := &bytes.Buffer{}
	enc, _ := NewTripleEncoder(buf, FormatNTriples)
	triple := Triple{
		S: MustIRI("http://example.org/s"),
		P: MustIRI("http://example.org/p"),
		O: MustLiteral("v", "", ""),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = enc.Write(triple)
		_ = enc.Flush()
	}
}

func BenchmarkJSONLDDecode(b *testing.B) {
	b.SetBytes(int64(len(benchJSONLDInput)))
	for i := 0; i < b.N; i++ {
		dec, err := NewQuadDecoder(strings.NewReader(benchJSONLDInput), FormatJSONLD)
		if err != nil {
			b.Fatal(err)
		}
		count := 0
		for _, err := range Quads(dec) {
			if err != nil {
				b.Fatal(err)
			}
			count++
		}
		if count != 5 {
			b.Fatalf("expected 5 quads, got %d", count)
		}
	}
}

func BenchmarkInternerIRI(b *testing.B) {
	in := NewInterner()
	keep, _ := in.IRI("http://example.org/hot")
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			iri, _ := in.IRI("http://example.org/hot")
			if iri != keep {
				b.Error("interned IRI changed identity")
				return
			}
		}
	})
}

func BenchmarkGraphInsert(b *testing.B) {
	s := MustIRI("http://example.org/s")
	p := MustIRI("http://example.org/p")
	objects := make([]Term, 1024)
	for i := range objects {
		objects[i] = MustLiteral(fmt.Sprint(i), XSDInteger, "")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g := NewGraph()
		for _, o := range objects {
			g.Insert(Triple{S: s, P: p, O: o})
		}
	}
}

func BenchmarkGraphMatch(b *testing.B) {
	g := benchGraph(b, 10000)
	patterns := map[string]Pattern{
		"s":  {S: MustIRI("http://example.org/s42")},
		"p":  {P: MustIRI("http://example.org/p3")},
		"sp": {S: MustIRI("http://example.org/s42"), P: MustIRI("http://example.org/p2")},
		"po": {P: MustIRI("http://example.org/p3"), O: MustLiteral("v11", "", "")},
	}
	for name, pat := range patterns {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				for range g.Match(pat) {
				}
			}
		})
	}
}

func BenchmarkGraphCount(b *testing.B) {
	g := benchGraph(b, 10000)
	pat := Pattern{P: MustIRI("http://example.org/p3")}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if g.Count(pat) != 1250 {
			b.Fatal("unexpected count")
		}
	}
}
