package rdf

import (
	"context"
	"io"
)

const (
	// DefaultMaxLineBytes bounds a single N-Triples/N-Quads line.
	DefaultMaxLineBytes = 1 << 20
	// DefaultMaxDocumentBytes bounds a JSON-LD document, which is read whole.
	DefaultMaxDocumentBytes = 64 << 20
)

// Option configures decoder and encoder behavior.
type Option func(*Options)

// Options configures parser/encoder behavior.
type Options struct {
	// Context for cancellation between statements
	Context context.Context

	// Interner that decoded terms are canonicalized with
	Interner *Interner

	// Security limits for untrusted input. Zero or negative disables.
	MaxLineBytes     int
	MaxDocumentBytes int64
	MaxTriples       int64

	// BaseIRI resolves relative references in JSON-LD input.
	BaseIRI string

	// Prefixes used by the Turtle encoder, prefix -> namespace IRI
	Prefixes map[string]string

	// JSONLDContext, when set, makes the JSON-LD encoder compact its
	// output against it. It may be a context document (map) or an IRI.
	JSONLDContext any
}

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptInterner makes a decoder intern terms with in instead of the
// default interner.
func OptInterner(in *Interner) Option {
	return func(opts *Options) {
		if in != nil {
			opts.Interner = in
		}
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxDocumentBytes sets the maximum size of a JSON-LD document.
func OptMaxDocumentBytes(maxBytes int64) Option {
	return func(opts *Options) {
		opts.MaxDocumentBytes = maxBytes
	}
}

// OptMaxTriples sets the maximum number of triples/quads to decode.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptBaseIRI sets the base IRI for JSON-LD input.
func OptBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.BaseIRI = base
	}
}

// OptPrefixes sets the prefix map used by the Turtle encoder. The map is
// copied.
func OptPrefixes(prefixes map[string]string) Option {
	return func(opts *Options) {
		opts.Prefixes = make(map[string]string, len(prefixes))
		for k, v := range prefixes {
			opts.Prefixes[k] = v
		}
	}
}

// OptJSONLDContext makes the JSON-LD encoder compact against ctx.
func OptJSONLDContext(ctx any) Option {
	return func(opts *Options) {
		opts.JSONLDContext = ctx
	}
}

func defaultOptions() Options {
	return Options{
		Context:          context.Background(),
		Interner:         defaultInterner,
		MaxLineBytes:     DefaultMaxLineBytes,
		MaxDocumentBytes: DefaultMaxDocumentBytes,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	return options
}

// NewTripleDecoder returns a TripleSource reading format from r.
// FormatAuto sniffs the input first. Turtle can be written but not read.
// A JSON-LD document with named graphs fails with a *ParseError; use
// NewQuadDecoder for those.
func NewTripleDecoder(r io.Reader, format Format, opts ...Option) (TripleSource, error) {
	options := buildOptions(opts)
	format, r, err := resolveFormat(r, format)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatNTriples:
		return ntTripleDecoder{newNTDecoder(r, format, options)}, nil
	case FormatNQuads:
		// Accepted for triples only when every statement is in the
		// default graph; a graph term fails the line.
		return ntTripleDecoder{newNTDecoder(r, FormatNTriples, options)}, nil
	case FormatJSONLD:
		return jsonldTripleDecoder{newJSONLDDecoder(r, options)}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// NewQuadDecoder returns a QuadSource reading format from r. Triple
// formats yield quads in the default graph.
func NewQuadDecoder(r io.Reader, format Format, opts ...Option) (QuadSource, error) {
	options := buildOptions(opts)
	format, r, err := resolveFormat(r, format)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatNTriples, FormatNQuads:
		return ntQuadDecoder{newNTDecoder(r, format, options)}, nil
	case FormatJSONLD:
		return newJSONLDDecoder(r, options), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// NewTripleEncoder returns a TripleSink writing format to w. Close
// flushes; it never closes w.
func NewTripleEncoder(w io.Writer, format Format, opts ...Option) (TripleSink, error) {
	options := buildOptions(opts)
	switch format {
	case FormatNTriples, FormatNQuads:
		return ntTripleEncoder{newNTEncoder(w, format)}, nil
	case FormatTurtle:
		return newTurtleEncoder(w, options), nil
	case FormatJSONLD:
		return jsonldTripleEncoder{newJSONLDEncoder(w, options)}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// NewQuadEncoder returns a QuadSink writing format to w. Triple formats
// reject quads in named graphs with a *SerializeError.
func NewQuadEncoder(w io.Writer, format Format, opts ...Option) (QuadSink, error) {
	options := buildOptions(opts)
	switch format {
	case FormatNTriples, FormatNQuads:
		return ntQuadEncoder{newNTEncoder(w, format)}, nil
	case FormatTurtle:
		return turtleQuadEncoder{newTurtleEncoder(w, options)}, nil
	case FormatJSONLD:
		return newJSONLDEncoder(w, options), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func resolveFormat(r io.Reader, format Format) (Format, io.Reader, error) {
	if format != FormatAuto {
		return format, r, nil
	}
	detected, replay, ok := DetectFormat(r)
	if !ok {
		return FormatAuto, replay, ErrUnsupportedFormat
	}
	return detected, replay, nil
}

func checkDecodeContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
