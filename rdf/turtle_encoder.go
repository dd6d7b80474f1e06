package rdf

import (
	"bufio"
	"errors"
	"io"
	"slices"
)

const turtleIndent = "    "

// turtleEncoder writes Turtle, grouping consecutive triples that share a
// subject with ';' and a subject and predicate with ','. Sorting the input
// first (Graph.Sorted) gives the most compact output.
type turtleEncoder struct {
	writer   *bufio.Writer
	prefixes map[string]string
	started  bool
	// open statement, as rendered
	subject   string
	predicate string
	err       error
	closed    bool
}

func newTurtleEncoder(w io.Writer, opts Options) *turtleEncoder {
	prefixes := make(map[string]string, len(opts.Prefixes))
	for prefix, ns := range opts.Prefixes {
		if isValidPrefixName(prefix) && ValidateIRI(ns) == nil {
			prefixes[prefix] = ns
		}
	}
	return &turtleEncoder{writer: bufio.NewWriter(w), prefixes: prefixes}
}

func (e *turtleEncoder) Write(t Triple) error {
	if e.closed {
		return ErrSinkClosed
	}
	if e.err != nil {
		return e.err
	}
	if !t.Valid() {
		return &SerializeError{Format: string(FormatTurtle), Err: errInvalidStatement(t.String())}
	}
	if !e.started {
		e.writeHeader()
	}
	subject := e.render(t.S)
	predicate := e.renderPredicate(t.P)
	object := e.render(t.O)

	switch {
	case e.subject == subject && e.predicate == predicate:
		e.writeString(" ,\n" + turtleIndent + turtleIndent + object)
	case e.subject == subject:
		e.writeString(" ;\n" + turtleIndent + predicate + " " + object)
	default:
		if e.subject != "" {
			e.writeString(" .\n\n")
		}
		e.writeString(subject + " " + predicate + " " + object)
	}
	e.subject, e.predicate = subject, predicate
	return e.err
}

// Flush terminates the open statement, so everything written so far is a
// complete document.
func (e *turtleEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if e.subject != "" {
		e.writeString(" .\n")
		e.subject, e.predicate = "", ""
	}
	if e.err == nil {
		e.err = e.writer.Flush()
	}
	return e.err
}

// Close flushes buffered output. The underlying writer is not closed.
func (e *turtleEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.Flush()
}

func (e *turtleEncoder) writeHeader() {
	e.started = true
	if len(e.prefixes) == 0 {
		return
	}
	keys := make([]string, 0, len(e.prefixes))
	for prefix := range e.prefixes {
		keys = append(keys, prefix)
	}
	slices.Sort(keys)
	for _, prefix := range keys {
		e.writeString("@prefix " + prefix + ": " + renderIRI(e.prefixes[prefix]) + " .\n")
	}
	e.writeString("\n")
}

func (e *turtleEncoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.writer.WriteString(s)
}

func (e *turtleEncoder) renderPredicate(p *IRI) string {
	if p.value == RDFType {
		return "a"
	}
	return e.renderIRI(p.value)
}

func (e *turtleEncoder) renderIRI(value string) string {
	if qname, ok := abbreviateQName(value, e.prefixes); ok {
		return qname
	}
	return renderIRI(value)
}

func (e *turtleEncoder) render(t Term) string {
	switch v := t.(type) {
	case *IRI:
		return e.renderIRI(v.value)
	case *BlankNode:
		return v.String()
	case *Literal:
		quoted := `"` + escapeLiteral(v.lexical) + `"`
		switch {
		case v.lang != "":
			return quoted + "@" + v.lang
		case v.datatype.value == XSDString:
			return quoted
		default:
			return quoted + "^^" + e.renderIRI(v.datatype.value)
		}
	default:
		return termString(t)
	}
}

// turtleQuadEncoder accepts quads in the default graph only.
type turtleQuadEncoder struct{ *turtleEncoder }

var errNamedGraphInTriples = errors.New("named graphs are not representable")

func (e turtleQuadEncoder) Write(q Quad) error {
	if q.G != nil {
		return &SerializeError{Format: string(FormatTurtle), Term: q.G, Err: errNamedGraphInTriples}
	}
	return e.turtleEncoder.Write(q.ToTriple())
}
