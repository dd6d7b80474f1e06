package rdf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const jsonldFormat = string(FormatJSONLD)

// jsonldDecoder converts a JSON-LD document to quads with json-gold. The
// document is read and expanded on the first call to Next; the quads are
// then streamed through the N-Quads reader so they are interned and
// limited like any other input.
type jsonldDecoder struct {
	r     io.Reader
	opts  Options
	quads *ntDecoder
	err   error
}

func newJSONLDDecoder(r io.Reader, opts Options) *jsonldDecoder {
	return &jsonldDecoder{r: r, opts: opts}
}

func (d *jsonldDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	if d.quads == nil {
		nquads, err := d.toNQuads()
		if err != nil {
			d.err = err
			return Quad{}, err
		}
		inner := d.opts
		inner.MaxLineBytes = 0
		d.quads = newNTDecoder(strings.NewReader(nquads), FormatNQuads, inner)
	}
	q, err := d.quads.next()
	if err != nil && err != io.EOF {
		err = wrapParseErrorWithPosition(jsonldFormat, "", 0, 0, -1, err)
	}
	if err != nil {
		d.err = err
	}
	return q, err
}

func (d *jsonldDecoder) Close() error { return nil }

func (d *jsonldDecoder) toNQuads() (string, error) {
	if err := checkDecodeContext(d.opts.Context); err != nil {
		return "", err
	}
	data, err := readDocument(d.r, d.opts.MaxDocumentBytes)
	if err != nil {
		return "", err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		offset := -1
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			offset = int(syntaxErr.Offset)
		}
		return "", &ParseError{Format: jsonldFormat, Offset: offset, Err: err}
	}

	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, ld.NewJsonLdOptions(d.opts.BaseIRI))
	if err != nil {
		return "", &ParseError{Format: jsonldFormat, Offset: -1, Err: err}
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return "", &ParseError{Format: jsonldFormat, Offset: -1, Err: fmt.Errorf("unexpected ToRDF result %T", result)}
	}
	serialized, err := (&ld.NQuadRDFSerializer{}).Serialize(dataset)
	if err != nil {
		return "", &ParseError{Format: jsonldFormat, Offset: -1, Err: err}
	}
	nquads, ok := serialized.(string)
	if !ok {
		return "", &ParseError{Format: jsonldFormat, Offset: -1, Err: fmt.Errorf("unexpected N-Quads result %T", serialized)}
	}
	return nquads, nil
}

func readDocument(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, &ParseError{Format: jsonldFormat, Offset: int(maxBytes), Err: ErrDocumentTooLarge}
	}
	return data, nil
}

var errNamedGraphInTripleStream = errors.New("named graph in a triple stream")

type jsonldTripleDecoder struct{ *jsonldDecoder }

func (d jsonldTripleDecoder) Next() (Triple, error) {
	q, err := d.jsonldDecoder.Next()
	if err != nil {
		return Triple{}, err
	}
	if q.G != nil {
		d.err = &ParseError{Format: jsonldFormat, Statement: q.String(), Offset: -1, Err: errNamedGraphInTripleStream}
		return Triple{}, d.err
	}
	return q.ToTriple(), nil
}

// jsonldEncoder buffers statements as N-Quads and converts them to a
// JSON-LD document on Close. Flush has nothing to push before that.
type jsonldEncoder struct {
	w       io.Writer
	opts    Options
	buf     bytes.Buffer
	nquads  *ntEncoder
	written bool
	closed  bool
	err     error
}

func newJSONLDEncoder(w io.Writer, opts Options) *jsonldEncoder {
	e := &jsonldEncoder{w: w, opts: opts}
	e.nquads = newNTEncoder(&e.buf, FormatNQuads)
	return e
}

func (e *jsonldEncoder) Write(q Quad) error {
	if e.closed {
		return ErrSinkClosed
	}
	if e.err != nil {
		return e.err
	}
	if !q.Valid() {
		return &SerializeError{Format: jsonldFormat, Err: errInvalidStatement(q.String())}
	}
	if err := e.nquads.write(q); err != nil {
		e.err = err
		return err
	}
	e.written = true
	return nil
}

func (e *jsonldEncoder) Flush() error { return e.err }

// Close writes the document. An encoder that received no statements
// writes an empty array. The underlying writer is not closed.
func (e *jsonldEncoder) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}
	doc, err := e.document()
	if err != nil {
		e.err = err
		return err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		e.err = &SerializeError{Format: jsonldFormat, Err: err}
		return e.err
	}
	out = append(out, '\n')
	if _, err := e.w.Write(out); err != nil {
		e.err = err
	}
	return e.err
}

func (e *jsonldEncoder) document() (any, error) {
	if !e.written {
		return []any{}, nil
	}
	if err := e.nquads.Flush(); err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions("")
	goldOpts.Format = "application/n-quads"
	expanded, err := proc.FromRDF(e.buf.String(), goldOpts)
	if err != nil {
		return nil, &SerializeError{Format: jsonldFormat, Err: err}
	}
	if e.opts.JSONLDContext == nil {
		return expanded, nil
	}
	compacted, err := proc.Compact(expanded, e.opts.JSONLDContext, ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, &SerializeError{Format: jsonldFormat, Err: err}
	}
	return compacted, nil
}

type jsonldTripleEncoder struct{ *jsonldEncoder }

func (e jsonldTripleEncoder) Write(t Triple) error { return e.jsonldEncoder.Write(t.ToQuad()) }

// CanonicalNQuads returns the dataset in canonical N-Quads: blank nodes
// are relabeled with the URDNA2015 algorithm and lines are sorted. Two
// datasets are isomorphic exactly when their canonical forms are equal.
func CanonicalNQuads(quads []Quad) (string, error) {
	var buf bytes.Buffer
	enc := newNTEncoder(&buf, FormatNQuads)
	for _, q := range quads {
		if err := enc.write(q); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	dataset, err := (&ld.NQuadRDFSerializer{}).Parse(buf.String())
	if err != nil {
		return "", err
	}
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.Algorithm = ld.AlgorithmURDNA2015
	normalized, err := ld.NewJsonLdApi().Normalize(dataset, opts)
	if err != nil {
		return "", err
	}
	value, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("jsonld: unexpected normalization result %T", normalized)
	}
	return value, nil
}

// Isomorphic reports whether two graphs are equal up to blank node
// renaming.
func Isomorphic(a, b *Graph) (bool, error) {
	if a.Len() != b.Len() {
		return false, nil
	}
	ca, err := CanonicalNQuads(graphQuads(a))
	if err != nil {
		return false, err
	}
	cb, err := CanonicalNQuads(graphQuads(b))
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}

func graphQuads(g *Graph) []Quad {
	quads := make([]Quad, 0, g.Len())
	for t := range g.Iter() {
		quads = append(quads, t.ToQuad())
	}
	return quads
}
