package rdf

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestErrorCode_UnsupportedFormat(t *testing.T) {
	_, err := NewTripleDecoder(strings.NewReader(""), Format("unknown"))
	if err == nil {
		t.Fatal("expected error")
	}
	code := Code(err)
	if code != ErrCodeUnsupportedFormat {
		t.Errorf("expected ErrCodeUnsupportedFormat, got %v", code)
	}
}

func TestErrorCode_TurtleIsWriteOnly(t *testing.T) {
	_, err := NewTripleDecoder(strings.NewReader("@prefix ex: <http://example.org/> ."), FormatTurtle)
	if Code(err) != ErrCodeUnsupportedFormat {
		t.Fatalf("expected ErrCodeUnsupportedFormat, got %v", err)
	}
}

func TestErrorCode_LineTooLong(t *testing.T) {
	// Create input that exceeds line limit
	longLine := strings.Repeat("a", 65<<10) // 65KB line
	input := longLine + "\n"

	dec, err := NewTripleDecoder(strings.NewReader(input), FormatNTriples, OptMaxLineBytes(64<<10))
	if err != nil {
		t.Fatalf("unexpected error creating decoder: %v", err)
	}
	defer dec.Close()

	_, err = dec.Next()
	if err == nil {
		t.Fatal("expected error")
	}
	code := Code(err)
	if code != ErrCodeLineTooLong {
		t.Errorf("expected ErrCodeLineTooLong, got %v", code)
	}
}

func TestErrorCode_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> ."
	dec, err := NewTripleDecoder(strings.NewReader(input), FormatNTriples, OptContext(ctx))
	if err != nil {
		t.Fatalf("unexpected error creating decoder: %v", err)
	}
	_, err = NewGraph().Load(dec)
	if err == nil {
		t.Fatal("expected error")
	}
	code := Code(err)
	if code != ErrCodeContextCanceled {
		t.Errorf("expected ErrCodeContextCanceled, got %v", code)
	}
}

func TestErrorCode_ParseError(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> invalid ."
	dec, err := NewTripleDecoder(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error creating decoder: %v", err)
	}
	defer dec.Close()

	_, err = dec.Next()
	if err == nil {
		t.Fatal("expected error")
	}
	code := Code(err)
	if code != ErrCodeParseError {
		t.Errorf("expected ErrCodeParseError, got %v", code)
	}
}

func TestErrorCode_TermErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ErrorCode
	}{
		{
			name:  "relative IRI",
			input: `<s> <http://example.org/p> <http://example.org/o> .`,
			want:  ErrCodeInvalidIRI,
		},
		{
			name:  "bad blank node",
			input: `_:-x <http://example.org/p> <http://example.org/o> .`,
			want:  ErrCodeInvalidBlankNode,
		},
		{
			name:  "bad language tag",
			input: `<http://example.org/s> <http://example.org/p> "x"@1en .`,
			want:  ErrCodeInvalidLanguageTag,
		},
		{
			name:  "langString without tag",
			input: `<http://example.org/s> <http://example.org/p> "x"^^<http://www.w3.org/1999/02/22-rdf-syntax-ns#langString> .`,
			want:  ErrCodeLiteralLanguageMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := NewTripleDecoder(strings.NewReader(tt.input), FormatNTriples)
			if err != nil {
				t.Fatalf("unexpected error creating decoder: %v", err)
			}
			_, err = dec.Next()
			if code := Code(err); code != tt.want {
				t.Fatalf("expected %v, got %v (%v)", tt.want, code, err)
			}
		})
	}
}

func TestErrorCode_SerializeError(t *testing.T) {
	var buf strings.Builder
	enc, err := NewQuadEncoder(&buf, FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error creating encoder: %v", err)
	}
	q := Quad{
		S: MustIRI("http://example.org/s"),
		P: MustIRI("http://example.org/p"),
		O: MustIRI("http://example.org/o"),
		G: MustIRI("http://example.org/g"),
	}
	err = enc.Write(q)
	if Code(err) != ErrCodeSerializeError {
		t.Fatalf("expected ErrCodeSerializeError, got %v", err)
	}
	var serErr *SerializeError
	if !errors.As(err, &serErr) || serErr.Term != q.G {
		t.Fatalf("expected SerializeError naming the graph, got %v", err)
	}
}

func TestErrorCode_EOF(t *testing.T) {
	// EOF should not have an error code
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	dec, err := NewTripleDecoder(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("unexpected error creating decoder: %v", err)
	}
	defer dec.Close()

	// Read first statement
	_, err = dec.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Read EOF
	_, err = dec.Next()
	if err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}

	code := Code(err)
	if code != "" {
		t.Errorf("expected empty code for EOF, got %v", code)
	}
}

func TestErrorCode_NilError(t *testing.T) {
	code := Code(nil)
	if code != "" {
		t.Errorf("expected empty code for nil error, got %v", code)
	}
}

func TestErrorCode_WrappedError(t *testing.T) {
	// Test that wrapped errors preserve error codes
	wrapped := wrapParseErrorWithPosition("ntriples", "test", 0, 0, -1, ErrLineTooLong)

	code := Code(wrapped)
	if code != ErrCodeLineTooLong {
		t.Errorf("expected ErrCodeLineTooLong for wrapped error, got %v", code)
	}
	load := &LoadError{Source: true, Err: wrapped}
	if Code(load) != ErrCodeLineTooLong {
		t.Errorf("expected ErrCodeLineTooLong through LoadError, got %v", Code(load))
	}
}

func TestErrorCode_UnknownError(t *testing.T) {
	unknownErr := errors.New("unknown error")
	code := Code(unknownErr)
	if code != ErrCodeParseError {
		t.Errorf("expected ErrCodeParseError for unknown error, got %v", code)
	}
}

func TestTermErrorIs(t *testing.T) {
	_, err := NewIRI("not an iri")
	if !errors.Is(err, ErrInvalidIRI) {
		t.Fatalf("expected ErrInvalidIRI, got %v", err)
	}
	if errors.Is(err, ErrInvalidBlankNode) {
		t.Fatal("TermError must only match its own kind")
	}
	if !strings.Contains(err.Error(), `"not an iri"`) {
		t.Fatalf("expected value in message, got %q", err.Error())
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := &LoadError{Read: 3, Inserted: 2, Source: true, Err: errors.New("boom")}
	want := "rdf: load stopped after 3 statements (2 inserted), source error: boom"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
	if !err.FromSource() {
		t.Fatal("expected FromSource")
	}
}
