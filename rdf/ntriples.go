package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ntDecoder reads N-Triples or N-Quads line by line, interning every term
// through the configured interner.
type ntDecoder struct {
	reader *bufio.Reader
	format Format
	opts   Options
	line   int
	offset int
	count  int64
	err    error
}

func newNTDecoder(r io.Reader, format Format, opts Options) *ntDecoder {
	return &ntDecoder{reader: bufio.NewReader(r), format: format, opts: opts}
}

func (d *ntDecoder) next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	for {
		if err := checkDecodeContext(d.opts.Context); err != nil {
			d.err = err
			return Quad{}, err
		}
		raw, err := readLineWithLimit(d.reader, d.opts.MaxLineBytes)
		if err == io.EOF {
			d.err = io.EOF
			return Quad{}, io.EOF
		}
		d.line++
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				err = &ParseError{Format: string(d.format), Line: d.line, Offset: d.offset, Err: err}
			}
			d.err = err
			return Quad{}, err
		}
		start := d.offset
		d.offset += len(raw)

		line := strings.TrimRight(raw, "\r\n")
		if isBlankOrComment(line) {
			continue
		}
		q, err := parseNTLine(line, d.format, d.opts.Interner)
		if err != nil {
			d.err = wrapParseErrorWithPosition(string(d.format), line, d.line, 0, start, err)
			return Quad{}, d.err
		}
		d.count++
		if d.opts.MaxTriples > 0 && d.count > d.opts.MaxTriples {
			d.err = &ParseError{Format: string(d.format), Line: d.line, Offset: start, Err: ErrTripleLimitExceeded}
			return Quad{}, d.err
		}
		return q, nil
	}
}

func (d *ntDecoder) Close() error { return nil }

func isBlankOrComment(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return trimmed == "" || trimmed[0] == '#'
}

type ntTripleDecoder struct{ *ntDecoder }

func (d ntTripleDecoder) Next() (Triple, error) {
	q, err := d.next()
	if err != nil {
		return Triple{}, err
	}
	return q.ToTriple(), nil
}

type ntQuadDecoder struct{ *ntDecoder }

func (d ntQuadDecoder) Next() (Quad, error) { return d.next() }

// parseNTLine parses one statement. Errors are *ParseError values with
// the column set, or carry a *TermError for well-formed but invalid terms.
func parseNTLine(line string, format Format, in *Interner) (Quad, error) {
	c := &ntCursor{input: line, in: in}
	subject, err := c.parseSubject()
	if err != nil {
		return Quad{}, err
	}
	predicate, err := c.parseIRI()
	if err != nil {
		return Quad{}, err
	}
	object, err := c.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}

	var graph Term
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] != '.' {
		if format != FormatNQuads {
			return Quad{}, c.errorf("graph term not allowed in N-Triples")
		}
		if graph, err = c.parseSubject(); err != nil {
			return Quad{}, err
		}
	}
	if !c.consume('.') {
		return Quad{}, c.errorf("expected '.' at end of statement")
	}
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] != '#' {
		return Quad{}, c.errorf("unexpected content after '.'")
	}
	return Quad{S: subject, P: predicate, O: object, G: graph}, nil
}

// ParseTerm parses a single term in N-Triples syntax, such as
// <http://example.org/a>, _:b1, "chat"@fr or "1"^^<http://www.w3.org/2001/XMLSchema#integer>.
func ParseTerm(in *Interner, raw string) (Term, error) {
	if in == nil {
		in = defaultInterner
	}
	c := &ntCursor{input: strings.TrimSpace(raw), in: in}
	t, err := c.parseTerm(true)
	if err == nil {
		c.skipWS()
		if c.pos < len(c.input) {
			err = c.errorf("unexpected content after term")
		}
	}
	if err != nil {
		return nil, wrapParseErrorWithPosition(string(FormatNTriples), c.input, 0, 0, -1, err)
	}
	return t, nil
}

type ntCursor struct {
	input string
	pos   int
	in    *Interner
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseSubject() (Term, error) {
	return c.parseTerm(false)
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token %q", c.input[c.pos])
	}
}

func (c *ntCursor) parseIRI() (*IRI, error) {
	c.skipWS()
	start := c.pos
	if !c.consume('<') {
		return nil, c.errorf("expected IRI")
	}
	end := strings.IndexByte(c.input[c.pos:], '>')
	if end < 0 {
		return nil, c.errorf("unterminated IRI")
	}
	raw := c.input[c.pos : c.pos+end]
	c.pos += end + 1
	value, err := unescape(raw, false)
	if err != nil {
		return nil, c.failAt(start, err)
	}
	iri, err := c.in.IRI(value)
	if err != nil {
		return nil, c.failAt(start, err)
	}
	return iri, nil
}

func (c *ntCursor) parseBlankNode() (*BlankNode, error) {
	start := c.pos
	c.pos += 2
	labelStart := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A label cannot end with '.', which belongs to the statement.
	for c.pos > labelStart && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if c.pos == labelStart {
		return nil, c.errorf("blank node label missing")
	}
	b, err := c.in.BlankNode(c.input[labelStart:c.pos])
	if err != nil {
		return nil, c.failAt(start, err)
	}
	return b, nil
}

func (c *ntCursor) parseLiteral() (*Literal, error) {
	start := c.pos
	c.pos++ // opening quote
	closing := -1
	for i := c.pos; i < len(c.input); i++ {
		if c.input[i] == '\\' {
			i++
			continue
		}
		if c.input[i] == '"' {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, c.failAt(start, errors.New("unterminated string literal"))
	}
	lexical, err := UnescapeString(c.input[c.pos:closing])
	if err != nil {
		return nil, c.failAt(start, err)
	}
	c.pos = closing + 1

	var datatype, lang string
	switch {
	case strings.HasPrefix(c.input[c.pos:], "@"):
		c.pos++
		tagStart := c.pos
		for c.pos < len(c.input) && isLangTagChar(c.input[c.pos]) {
			c.pos++
		}
		lang = c.input[tagStart:c.pos]
		if lang == "" {
			return nil, c.errorf("language tag missing")
		}
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return nil, err
		}
		datatype = dt.value
	}
	lit, err := c.in.Literal(lexical, datatype, lang)
	if err != nil {
		return nil, c.failAt(start, err)
	}
	return lit, nil
}

func (c *ntCursor) errorf(format string, args ...any) error {
	return c.failAt(c.pos, fmt.Errorf(format, args...))
}

func (c *ntCursor) failAt(pos int, err error) error {
	return &ParseError{Column: pos + 1, Offset: -1, Err: err}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '<', '"', '#':
		return true
	default:
		return false
	}
}

func isLangTagChar(ch byte) bool {
	return isASCIILetter(rune(ch)) || (ch >= '0' && ch <= '9') || ch == '-'
}

// ntEncoder writes N-Triples or N-Quads. Terms are written in their
// canonical N-Triples form, so output re-parses to identical terms.
type ntEncoder struct {
	writer *bufio.Writer
	format Format
	err    error
	closed bool
}

func newNTEncoder(w io.Writer, format Format) *ntEncoder {
	return &ntEncoder{writer: bufio.NewWriter(w), format: format}
}

func (e *ntEncoder) write(q Quad) error {
	if e.closed {
		return ErrSinkClosed
	}
	if e.err != nil {
		return e.err
	}
	if !q.Valid() {
		return &SerializeError{Format: string(e.format), Err: errInvalidStatement(q.String())}
	}
	if q.G != nil && e.format != FormatNQuads {
		return &SerializeError{Format: string(e.format), Term: q.G, Err: errNamedGraphInTriples}
	}
	var b strings.Builder
	b.WriteString(q.S.String())
	b.WriteByte(' ')
	b.WriteString(q.P.String())
	b.WriteByte(' ')
	b.WriteString(q.O.String())
	if q.G != nil {
		b.WriteByte(' ')
		b.WriteString(q.G.String())
	}
	b.WriteString(" .\n")
	if _, err := e.writer.WriteString(b.String()); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.writer.Flush(); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Close flushes buffered output. The underlying writer is not closed.
func (e *ntEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.Flush()
}

type ntTripleEncoder struct{ *ntEncoder }

func (e ntTripleEncoder) Write(t Triple) error { return e.write(t.ToQuad()) }

type ntQuadEncoder struct{ *ntEncoder }

func (e ntQuadEncoder) Write(q Quad) error { return e.write(q) }
