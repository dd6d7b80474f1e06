package rdf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Unicode surrogate pair constants
const (
	unicodeSurrogateHighStart = 0xD800
	unicodeSurrogateHighEnd   = 0xDBFF
	unicodeSurrogateLowStart  = 0xDC00
	unicodeSurrogateLowEnd    = 0xDFFF
	unicodeSurrogateBase      = 0x10000
)

const (
	unicodeEscapeLength     = 6  // \uXXXX
	unicodeLongEscapeLength = 10 // \UXXXXXXXX
)

var errInvalidEscape = errors.New("invalid escape sequence")

const hexDigits = "0123456789ABCDEF"

// escapeLiteral renders a lexical form for use between double quotes in
// N-Triples, N-Quads and Turtle.
func escapeLiteral(s string) string {
	if !strings.ContainsFunc(s, needsLiteralEscape) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7f {
				writeUChar(&b, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsLiteralEscape(r rune) bool {
	return r < 0x20 || r == 0x7f || r == '"' || r == '\\'
}

// renderIRI renders an IRI reference in angle brackets. Characters that
// IRIREF forbids are written as \u escapes; valid interned IRIs never
// contain them.
func renderIRI(value string) string {
	if !strings.ContainsFunc(value, needsIRIEscape) {
		return "<" + value + ">"
	}
	var b strings.Builder
	b.WriteByte('<')
	for _, r := range value {
		if needsIRIEscape(r) {
			writeUChar(&b, r)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('>')
	return b.String()
}

func needsIRIEscape(r rune) bool {
	if r <= 0x20 || r == 0x7f {
		return true
	}
	return strings.ContainsRune("<>\"{}|^`\\", r)
}

func writeUChar(b *strings.Builder, r rune) {
	if r > 0xFFFF {
		b.WriteString(`\U`)
		for shift := 28; shift >= 0; shift -= 4 {
			b.WriteByte(hexDigits[(r>>shift)&0xF])
		}
		return
	}
	b.WriteString(`\u`)
	for shift := 12; shift >= 0; shift -= 4 {
		b.WriteByte(hexDigits[(r>>shift)&0xF])
	}
}

func isValidUnicodeCodePoint(codePoint rune) bool {
	if codePoint > utf8.MaxRune {
		return false
	}
	return codePoint < unicodeSurrogateHighStart || codePoint > unicodeSurrogateLowEnd
}

// parseHexDigit converts a single hex digit byte to its integer value.
func parseHexDigit(hex byte) (int, bool) {
	switch {
	case hex >= '0' && hex <= '9':
		return int(hex - '0'), true
	case hex >= 'a' && hex <= 'f':
		return int(hex-'a') + 10, true
	case hex >= 'A' && hex <= 'F':
		return int(hex-'A') + 10, true
	default:
		return 0, false
	}
}

func decodeUChar(hexStr string) rune {
	if len(hexStr) != 4 && len(hexStr) != 8 {
		return -1
	}
	var codePoint rune
	for i := 0; i < len(hexStr); i++ {
		digit, ok := parseHexDigit(hexStr[i])
		if !ok {
			return -1
		}
		codePoint = codePoint*16 + rune(digit)
	}
	return codePoint
}

// UnescapeString decodes the escape sequences allowed in N-Triples string
// literals: \t \b \n \r \f \" \' \\, \uXXXX (with surrogate pairs) and
// \UXXXXXXXX.
func UnescapeString(s string) (string, error) {
	return unescape(s, true)
}

// unescape decodes s. With echars false only \u and \U are accepted, as in
// IRI references.
func unescape(s string, echars bool) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var builder strings.Builder
	builder.Grow(len(s))
	pos := 0
	for pos < len(s) {
		ch := s[pos]
		if ch != '\\' {
			builder.WriteByte(ch)
			pos++
			continue
		}
		if pos+1 >= len(s) {
			return "", fmt.Errorf("unterminated escape")
		}
		next := s[pos+1]
		var advance int
		var err error
		switch {
		case next == 'u':
			advance, err = unescapeUnicodeEscape(&builder, s, pos)
		case next == 'U':
			advance, err = unescapeUnicodeLongEscape(&builder, s, pos)
		case echars && strings.IndexByte(`tbnrf"'\`, next) >= 0:
			advance = unescapeSimpleEscape(&builder, next)
		default:
			return "", fmt.Errorf("%w \\%c", errInvalidEscape, next)
		}
		if err != nil {
			return "", err
		}
		pos += advance
	}
	return builder.String(), nil
}

func unescapeSimpleEscape(builder *strings.Builder, escapeChar byte) int {
	switch escapeChar {
	case 'n':
		builder.WriteByte('\n')
	case 't':
		builder.WriteByte('\t')
	case 'r':
		builder.WriteByte('\r')
	case 'b':
		builder.WriteByte('\b')
	case 'f':
		builder.WriteByte('\f')
	default:
		builder.WriteByte(escapeChar)
	}
	return 2
}

// unescapeUnicodeEscape handles \uXXXX, including surrogate pairs.
func unescapeUnicodeEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeEscapeLength > len(s) {
		return 0, errInvalidEscape
	}
	codePoint := decodeUChar(s[pos+2 : pos+unicodeEscapeLength])
	if codePoint < 0 {
		return 0, errInvalidEscape
	}
	if codePoint >= unicodeSurrogateHighStart && codePoint <= unicodeSurrogateHighEnd {
		return unescapeSurrogatePair(builder, s, pos, codePoint)
	}
	if !isValidUnicodeCodePoint(codePoint) {
		return 0, errInvalidEscape
	}
	builder.WriteRune(codePoint)
	return unicodeEscapeLength, nil
}

func unescapeSurrogatePair(builder *strings.Builder, s string, pos int, high rune) (int, error) {
	const pairLength = 2 * unicodeEscapeLength
	if pos+pairLength > len(s) || s[pos+6] != '\\' || s[pos+7] != 'u' {
		return 0, errInvalidEscape
	}
	low := decodeUChar(s[pos+8 : pos+12])
	if low < unicodeSurrogateLowStart || low > unicodeSurrogateLowEnd {
		return 0, errInvalidEscape
	}
	combined := unicodeSurrogateBase + ((high - unicodeSurrogateHighStart) << 10) + (low - unicodeSurrogateLowStart)
	builder.WriteRune(combined)
	return pairLength, nil
}

func unescapeUnicodeLongEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeLongEscapeLength > len(s) {
		return 0, errInvalidEscape
	}
	codePoint := decodeUChar(s[pos+2 : pos+unicodeLongEscapeLength])
	if codePoint < 0 || !isValidUnicodeCodePoint(codePoint) {
		return 0, errInvalidEscape
	}
	builder.WriteRune(codePoint)
	return unicodeLongEscapeLength, nil
}

// readLineWithLimit reads one line including its terminator. With a
// positive maxBytes, longer lines are skipped and reported as
// ErrLineTooLong, leaving the reader at the start of the next line.
func readLineWithLimit(reader *bufio.Reader, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		line, err := reader.ReadString('\n')
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return line, err
	}

	var buffer []byte
	for {
		part, err := reader.ReadSlice('\n')
		buffer = append(buffer, part...)
		if len(bytes.TrimRight(buffer, "\r\n")) > maxBytes {
			if err == bufio.ErrBufferFull {
				discardLine(reader)
			}
			return "", ErrLineTooLong
		}
		switch {
		case err == nil:
			return string(buffer), nil
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(buffer) > 0:
			return string(buffer), nil
		default:
			return "", err
		}
	}
}

func discardLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return
		}
	}
}
