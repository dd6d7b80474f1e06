package rdf

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// TripleSource produces a finite, forward-only stream of triples.
// Next returns io.EOF after the last triple. Any other error ends the
// stream: later calls keep returning it.
type TripleSource interface {
	Next() (Triple, error)
	Close() error
}

// QuadSource is the quad counterpart of TripleSource.
type QuadSource interface {
	Next() (Quad, error)
	Close() error
}

// TripleSink consumes triples. Write fails with a *SerializeError when a
// triple cannot be represented; the sink should not be written to after
// such a failure.
type TripleSink interface {
	Write(Triple) error
	Flush() error
	Close() error
}

// QuadSink is the quad counterpart of TripleSink.
type QuadSink interface {
	Write(Quad) error
	Flush() error
	Close() error
}

// Triples adapts a source to a range-over-func sequence. Iteration stops
// after the first error, which is yielded with a zero Triple; io.EOF is not
// yielded. The source is not closed.
func Triples(src TripleSource) iter.Seq2[Triple, error] {
	return func(yield func(Triple, error) bool) {
		for {
			t, err := src.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Triple{}, err)
				return
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

// Quads adapts a source to a range-over-func sequence; see Triples.
func Quads(src QuadSource) iter.Seq2[Quad, error] {
	return func(yield func(Quad, error) bool) {
		for {
			q, err := src.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Quad{}, err)
				return
			}
			if !yield(q, nil) {
				return
			}
		}
	}
}

// seqTripleSource pulls from an infallible sequence.
type seqTripleSource struct {
	next func() (Triple, bool)
	stop func()
}

// SeqSource turns a sequence (for example Graph.Match) into a TripleSource.
// Close releases the underlying iterator early.
func SeqSource(seq iter.Seq[Triple]) TripleSource {
	next, stop := iter.Pull(seq)
	return &seqTripleSource{next: next, stop: stop}
}

// SliceSource returns a TripleSource over fixed triples.
func SliceSource(ts ...Triple) TripleSource {
	return SeqSource(func(yield func(Triple) bool) {
		for _, t := range ts {
			if !yield(t) {
				return
			}
		}
	})
}

func (s *seqTripleSource) Next() (Triple, error) {
	t, ok := s.next()
	if !ok {
		return Triple{}, io.EOF
	}
	return t, nil
}

func (s *seqTripleSource) Close() error {
	s.stop()
	return nil
}

type seqQuadSource struct {
	next func() (Quad, bool)
	stop func()
}

// QuadSeqSource turns a sequence (for example Dataset.Match) into a QuadSource.
func QuadSeqSource(seq iter.Seq[Quad]) QuadSource {
	next, stop := iter.Pull(seq)
	return &seqQuadSource{next: next, stop: stop}
}

func (s *seqQuadSource) Next() (Quad, error) {
	q, ok := s.next()
	if !ok {
		return Quad{}, io.EOF
	}
	return q, nil
}

func (s *seqQuadSource) Close() error {
	s.stop()
	return nil
}

// triplesAsQuads places every triple of a source into one graph.
type triplesAsQuads struct {
	src   TripleSource
	graph Term
}

// TriplesInGraph adapts a TripleSource to a QuadSource whose quads all
// belong to graph (nil for the default graph).
func TriplesInGraph(src TripleSource, graph Term) QuadSource {
	return &triplesAsQuads{src: src, graph: graph}
}

func (s *triplesAsQuads) Next() (Quad, error) {
	t, err := s.src.Next()
	if err != nil {
		return Quad{}, err
	}
	return t.ToQuadInGraph(s.graph), nil
}

func (s *triplesAsQuads) Close() error { return s.src.Close() }

// WriteTriples writes every triple of seq to sink and flushes it. It stops
// at the first sink error and returns the number written before it. The
// sink is left open.
func WriteTriples(sink TripleSink, seq iter.Seq[Triple]) (int, error) {
	n := 0
	for t := range seq {
		if err := sink.Write(t); err != nil {
			return n, err
		}
		n++
	}
	return n, sink.Flush()
}

// WriteQuads writes every quad of seq to sink and flushes it; see WriteTriples.
func WriteQuads(sink QuadSink, seq iter.Seq[Quad]) (int, error) {
	n := 0
	for q := range seq {
		if err := sink.Write(q); err != nil {
			return n, err
		}
		n++
	}
	return n, sink.Flush()
}

// DiscardTriples returns a sink that accepts and drops every triple.
// Useful for benchmarking sources.
func DiscardTriples() TripleSink { return tripleDiscard{} }

// DiscardQuads returns a sink that accepts and drops every quad.
func DiscardQuads() QuadSink { return quadDiscard{} }

type tripleDiscard struct{}

func (tripleDiscard) Write(Triple) error { return nil }
func (tripleDiscard) Flush() error       { return nil }
func (tripleDiscard) Close() error       { return nil }

type quadDiscard struct{}

func (quadDiscard) Write(Quad) error { return nil }
func (quadDiscard) Flush() error     { return nil }
func (quadDiscard) Close() error     { return nil }

// Inserter returns a sink that inserts every triple written to it.
// Invalid triples fail the write.
func (g *Graph) Inserter() *GraphSink { return &GraphSink{g: g, insert: true} }

// Remover returns a sink that removes every triple written to it.
func (g *Graph) Remover() *GraphSink { return &GraphSink{g: g} }

// GraphSink is a TripleSink backed by a Graph. Changed reports how many
// writes actually changed the graph.
type GraphSink struct {
	g       *Graph
	insert  bool
	changed int
	closed  bool
}

func (w *GraphSink) Write(t Triple) error {
	if w.closed {
		return ErrSinkClosed
	}
	if !t.Valid() {
		return fmt.Errorf("rdf: invalid triple %s", t)
	}
	var changed bool
	if w.insert {
		changed = w.g.Insert(t)
	} else {
		changed = w.g.Remove(t)
	}
	if changed {
		w.changed++
	}
	return nil
}

func (w *GraphSink) Flush() error { return nil }

func (w *GraphSink) Close() error {
	w.closed = true
	return nil
}

// Changed returns how many writes inserted or removed a triple.
func (w *GraphSink) Changed() int { return w.changed }

// DatasetSink is a QuadSink inserting into a Dataset.
type DatasetSink struct {
	d        *Dataset
	inserted int
	closed   bool
}

// Inserter returns a sink that inserts every quad written to it.
func (d *Dataset) Inserter() *DatasetSink { return &DatasetSink{d: d} }

func (w *DatasetSink) Write(q Quad) error {
	if w.closed {
		return ErrSinkClosed
	}
	if !q.Valid() {
		return fmt.Errorf("rdf: invalid quad %s", q)
	}
	if w.d.Insert(q) {
		w.inserted++
	}
	return nil
}

func (w *DatasetSink) Flush() error { return nil }

func (w *DatasetSink) Close() error {
	w.closed = true
	return nil
}

// Changed returns how many writes inserted a new quad.
func (w *DatasetSink) Changed() int { return w.inserted }

// Pipe streams src into sink and flushes it. It stops on the first source
// or sink error and reports which side failed through *LoadError. Neither
// end is closed.
func Pipe(src TripleSource, sink TripleSink) (int, error) {
	n := 0
	for {
		t, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, &LoadError{Read: n, Inserted: n, Source: true, Err: err}
		}
		if err := sink.Write(t); err != nil {
			return n, &LoadError{Read: n + 1, Inserted: n, Err: err}
		}
		n++
	}
	if err := sink.Flush(); err != nil {
		return n, &LoadError{Read: n, Inserted: n, Err: err}
	}
	return n, nil
}
