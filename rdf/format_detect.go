package rdf

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const formatDetectionBufferSize = 512

// DetectFormat sniffs the first bytes of r. It returns the detected
// format and a reader that replays the sniffed bytes followed by the rest
// of r, so the caller can decode from the beginning.
//
// JSON-LD is recognized by a leading '{' or '['. Line-based input is
// N-Quads when any statement in the sample carries a graph term, and
// N-Triples otherwise. Turtle is reported but cannot be decoded.
func DetectFormat(r io.Reader) (Format, io.Reader, bool) {
	buf := make([]byte, formatDetectionBufferSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatAuto, r, false
	}
	sample := buf[:n]
	replay := io.MultiReader(bytes.NewReader(sample), r)
	format, ok := detectFormatFromSample(string(sample))
	return format, replay, ok
}

func detectFormatFromSample(sample string) (Format, bool) {
	trimmed := strings.TrimSpace(sample)
	if trimmed == "" {
		return FormatAuto, false
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSONLD, true
	}

	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "@PREFIX") || strings.HasPrefix(upper, "PREFIX") ||
		strings.HasPrefix(upper, "@BASE") || strings.HasPrefix(upper, "BASE") {
		return FormatTurtle, true
	}

	format := FormatAuto
	sc := bufio.NewScanner(strings.NewReader(sample))
	sc.Buffer(make([]byte, 0, formatDetectionBufferSize), formatDetectionBufferSize+1)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if !strings.HasPrefix(line, "<") && !strings.HasPrefix(line, "_:") {
			return FormatTurtle, true
		}
		// The last line of the sample may be cut short; only complete
		// statements are classified.
		if !strings.HasSuffix(line, ".") {
			continue
		}
		q, err := parseNTLine(line, FormatNQuads, defaultInterner)
		if err != nil {
			continue
		}
		if q.G != nil {
			return FormatNQuads, true
		}
		format = FormatNTriples
	}
	if format == FormatAuto {
		return FormatAuto, false
	}
	return format, true
}
