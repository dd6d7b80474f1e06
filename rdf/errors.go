package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeDocumentTooLarge indicates a whole-document input exceeded the configured limit.
	ErrCodeDocumentTooLarge ErrorCode = "DOCUMENT_TOO_LARGE"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of triples/quads was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeSerializeError indicates a statement could not be written in the target syntax.
	ErrCodeSerializeError ErrorCode = "SERIALIZE_ERROR"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInvalidIRI indicates an invalid IRI was encountered.
	ErrCodeInvalidIRI ErrorCode = "INVALID_IRI"
	// ErrCodeInvalidBlankNode indicates an invalid blank node label was encountered.
	ErrCodeInvalidBlankNode ErrorCode = "INVALID_BLANK_NODE"
	// ErrCodeInvalidLanguageTag indicates a malformed language tag.
	ErrCodeInvalidLanguageTag ErrorCode = "INVALID_LANGUAGE_TAG"
	// ErrCodeLiteralLanguageMismatch indicates a language tag that does not agree with the literal datatype.
	ErrCodeLiteralLanguageMismatch ErrorCode = "LITERAL_LANGUAGE_MISMATCH"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrDocumentTooLarge indicates a JSON-LD document exceeded the configured limit.
	ErrDocumentTooLarge = errors.New("rdf: document exceeds configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of triples/quads was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of triples/quads exceeded")
	// ErrSinkClosed is returned when writing to a sink that was already closed.
	ErrSinkClosed = errors.New("rdf: sink closed")

	// ErrInvalidIRI is matched by every TermError of kind InvalidIRI.
	ErrInvalidIRI = errors.New("rdf: invalid IRI")
	// ErrInvalidBlankNode is matched by every TermError of kind InvalidBlankNode.
	ErrInvalidBlankNode = errors.New("rdf: invalid blank node label")
	// ErrInvalidLanguageTag is matched by every TermError of kind InvalidLanguageTag.
	ErrInvalidLanguageTag = errors.New("rdf: invalid language tag")
	// ErrLiteralLanguageMismatch is matched by every TermError of kind LiteralLanguageMismatch.
	ErrLiteralLanguageMismatch = errors.New("rdf: language tag does not match literal datatype")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	// EOF is not an error condition
	if err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrDocumentTooLarge):
		return ErrCodeDocumentTooLarge
	case errors.Is(err, ErrTripleLimitExceeded):
		return ErrCodeTripleLimitExceeded
	case errors.Is(err, ErrInvalidIRI):
		return ErrCodeInvalidIRI
	case errors.Is(err, ErrInvalidBlankNode):
		return ErrCodeInvalidBlankNode
	case errors.Is(err, ErrInvalidLanguageTag):
		return ErrCodeInvalidLanguageTag
	case errors.Is(err, ErrLiteralLanguageMismatch):
		return ErrCodeLiteralLanguageMismatch
	}

	var serErr *SerializeError
	if errors.As(err, &serErr) {
		return ErrCodeSerializeError
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		// Check underlying error for more specific codes
		underlyingCode := Code(parseErr.Err)
		if underlyingCode != ErrCodeParseError && underlyingCode != "" {
			return underlyingCode
		}
		return ErrCodeParseError
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeContextCanceled
	}

	// Default to parse error for unknown errors
	return ErrCodeParseError
}

// TermErrorKind classifies term construction failures.
type TermErrorKind uint8

const (
	// InvalidIRI reports a syntactically malformed or relative IRI.
	InvalidIRI TermErrorKind = iota + 1
	// InvalidBlankNode reports an empty or malformed blank node label.
	InvalidBlankNode
	// InvalidLanguageTag reports a malformed BCP 47 language tag.
	InvalidLanguageTag
	// LiteralLanguageMismatch reports a language tag on a non rdf:langString
	// literal, or an rdf:langString literal without one.
	LiteralLanguageMismatch
)

func (k TermErrorKind) String() string {
	switch k {
	case InvalidIRI:
		return "invalid IRI"
	case InvalidBlankNode:
		return "invalid blank node"
	case InvalidLanguageTag:
		return "invalid language tag"
	case LiteralLanguageMismatch:
		return "literal language mismatch"
	default:
		return fmt.Sprintf("TermErrorKind(%d)", uint8(k))
	}
}

// TermError is returned when a term cannot be constructed from raw values.
// It is only ever produced at construction time.
type TermError struct {
	Kind  TermErrorKind
	Value string // Offending raw value
	Err   error  // Underlying validation error, may be nil
}

func (e *TermError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rdf: %s %q: %v", e.Kind, e.Value, e.Err)
	}
	return fmt.Sprintf("rdf: %s %q", e.Kind, e.Value)
}

func (e *TermError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel matching e.Kind.
func (e *TermError) Is(target error) bool {
	switch target {
	case ErrInvalidIRI:
		return e.Kind == InvalidIRI
	case ErrInvalidBlankNode:
		return e.Kind == InvalidBlankNode
	case ErrInvalidLanguageTag:
		return e.Kind == InvalidLanguageTag
	case ErrLiteralLanguageMismatch:
		return e.Kind == LiteralLanguageMismatch
	}
	return false
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "ntriples", "jsonld")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Offset    int    // Byte offset in input (-1 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	} else if e.Offset >= 0 {
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if e.Statement != "" {
		excerpt := e.formatExcerpt()
		if excerpt != "" {
			msg.WriteString("\n  ")
			msg.WriteString(excerpt)
		}
	}

	return msg.String()
}

// formatExcerpt formats a readable excerpt of the statement around the error position.
func (e *ParseError) formatExcerpt() string {
	if e.Statement == "" {
		return ""
	}

	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column > 0 {
		start := min(e.Column-1, len(e.Statement))

		excerptStart := max(start-contextLen, 0)
		excerptEnd := min(start+contextLen, len(e.Statement))

		excerpt := e.Statement[excerptStart:excerptEnd]
		if excerptStart > 0 {
			excerpt = "..." + excerpt
		}
		if excerptEnd < len(e.Statement) {
			excerpt = excerpt + "..."
		}

		caretPos := start - excerptStart
		if excerptStart > 0 {
			caretPos += 3 // Account for "..."
		}
		if caretPos >= len(excerpt) {
			caretPos = len(excerpt) - 1
		}
		caretPos = max(caretPos, 0)

		var result strings.Builder
		result.WriteString(excerpt)
		result.WriteString("\n  ")
		result.WriteString(strings.Repeat(" ", caretPos))
		result.WriteByte('^')
		return result.String()
	}

	if len(e.Statement) > maxExcerptLen {
		return e.Statement[:maxExcerptLen] + "..."
	}
	return e.Statement
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseErrorWithPosition adds format/statement/position context to a parse error.
func wrapParseErrorWithPosition(format, statement string, line, column, offset int, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		// Preserve existing position info if better than what we have
		if parseErr.Line > 0 && line == 0 {
			line = parseErr.Line
		}
		if parseErr.Column > 0 && column == 0 {
			column = parseErr.Column
		}
		if parseErr.Offset >= 0 && offset < 0 {
			offset = parseErr.Offset
		}
		err = parseErr.Err
	}
	return &ParseError{
		Format:    format,
		Statement: statement,
		Line:      line,
		Column:    column,
		Offset:    offset,
		Err:       err,
	}
}

// SerializeError reports a statement that cannot be represented in the
// target syntax. The write operation that returned it is aborted.
type SerializeError struct {
	Format string // Target format name
	Term   Term   // Offending term, nil when the statement shape is the problem
	Err    error
}

func (e *SerializeError) Error() string {
	if e.Term != nil {
		return fmt.Sprintf("%s: cannot serialize %s: %v", e.Format, e.Term, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *SerializeError) Unwrap() error { return e.Err }

// LoadError is returned by bulk loads that stop early. Everything inserted
// before the failure stays in the target graph or dataset.
type LoadError struct {
	Read     int   // Statements pulled from the source before the failure
	Inserted int   // Statements that were new to the target
	Source   bool  // True when the source failed, false when the sink did
	Err      error // Underlying error
}

func (e *LoadError) Error() string {
	side := "sink"
	if e.Source {
		side = "source"
	}
	return fmt.Sprintf("rdf: load stopped after %d statements (%d inserted), %s error: %v", e.Read, e.Inserted, side, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FromSource reports whether the load failed upstream (parsing) rather
// than downstream (inserting or writing).
func (e *LoadError) FromSource() bool { return e.Source }
