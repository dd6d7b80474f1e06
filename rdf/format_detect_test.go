package rdf

import (
	"io"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
		wantOK   bool
	}{
		{
			name:     "Turtle with prefix",
			input:    "@prefix ex: <http://example.org/> .\nex:s ex:p ex:o .",
			expected: FormatTurtle,
			wantOK:   true,
		},
		{
			name:     "Turtle with base",
			input:    "@base <http://example.org/> .\n<s> <p> <o> .",
			expected: FormatTurtle,
			wantOK:   true,
		},
		{
			name:     "Turtle with SPARQL prefix",
			input:    "PREFIX ex: <http://example.org/>\n<s> <p> <o> .",
			expected: FormatTurtle,
			wantOK:   true,
		},
		{
			name:     "Turtle with anonymous blank node",
			input:    "[] <http://example.org/p> <http://example.org/o> .",
			expected: FormatTurtle,
			wantOK:   true,
		},
		{
			name:     "N-Triples basic",
			input:    "<http://example.org/s> <http://example.org/p> <http://example.org/o> .",
			expected: FormatNTriples,
			wantOK:   true,
		},
		{
			name:     "N-Triples with blank node and comment",
			input:    "# data\n_:b0 <http://example.org/p> \"v\"@en .\n",
			expected: FormatNTriples,
			wantOK:   true,
		},
		{
			name: "N-Quads after triples",
			input: "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n" +
				"<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n",
			expected: FormatNQuads,
			wantOK:   true,
		},
		{
			name:     "JSON-LD object",
			input:    `  {"@id": "http://example.org/s"}`,
			expected: FormatJSONLD,
			wantOK:   true,
		},
		{
			name:     "JSON-LD array",
			input:    `[{"@id": "http://example.org/s"}]`,
			expected: FormatJSONLD,
			wantOK:   true,
		},
		{
			name:     "empty",
			input:    "   \n",
			expected: FormatAuto,
			wantOK:   false,
		},
		{
			name:     "only comments",
			input:    "# nothing here\n",
			expected: FormatAuto,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, _, ok := DetectFormat(strings.NewReader(tt.input))
			if ok != tt.wantOK {
				t.Errorf("DetectFormat() ok = %v, want %v", ok, tt.wantOK)
			}
			if format != tt.expected {
				t.Errorf("DetectFormat() format = %v, want %v", format, tt.expected)
			}
		})
	}
}

func TestDetectFormatReplaysInput(t *testing.T) {
	line := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	input := strings.Repeat(line, 20) // longer than the sniffed prefix
	format, replay, ok := DetectFormat(strings.NewReader(input))
	if !ok || format != FormatNTriples {
		t.Fatalf("unexpected detection: %v %v", format, ok)
	}
	data, err := io.ReadAll(replay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != input {
		t.Fatal("replayed input differs from original")
	}
}

func TestDetectFormatIgnoresTruncatedLastLine(t *testing.T) {
	line := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	quad := "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"
	// The quad straddles the sniffing boundary, so only triples are complete.
	input := strings.Repeat(line, formatDetectionBufferSize/len(line)) + quad
	format, _, ok := DetectFormat(strings.NewReader(input))
	if !ok || format != FormatNTriples {
		t.Fatalf("unexpected detection: %v %v", format, ok)
	}
}

func TestAutoDecoder(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"
	dec, err := NewQuadDecoder(strings.NewReader(input), FormatAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q, err := dec.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.G == nil {
		t.Fatal("expected a named graph quad")
	}

	if _, err := NewQuadDecoder(strings.NewReader(""), FormatAuto); Code(err) != ErrCodeUnsupportedFormat {
		t.Fatalf("expected unsupported format for empty input, got %v", err)
	}
}
