package rdf

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateIRI validates an absolute IRI string.
// Returns an error if the IRI is invalid, nil otherwise.
//
// Structure and percent-encoding are checked with net/url. On top of that:
//   - a scheme is required and must start with a letter
//   - control characters, spaces and the characters <>"{}|^`\ are rejected,
//     since none of them can appear unescaped in an IRIREF
func ValidateIRI(iri string) error {
	if iri == "" {
		return errors.New("empty IRI")
	}

	for i, r := range iri {
		if r <= 0x20 || r == 0x7f {
			return fmt.Errorf("invalid control or space character at position %d", i)
		}
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return fmt.Errorf("invalid character '%c' at position %d (should be percent-encoded)", r, i)
		}
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme == "" {
		if strings.HasPrefix(iri, "//") {
			return errors.New("network-path reference without scheme")
		}
		return errors.New("relative IRI reference, absolute IRI required")
	}
	first := parsed.Scheme[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return fmt.Errorf("scheme must start with a letter: %s", parsed.Scheme)
	}
	return nil
}

// validateBlankNodeLabel checks a label against the N-Triples BLANK_NODE_LABEL
// production, restricted to ASCII plus any non-ASCII letter.
func validateBlankNodeLabel(label string) error {
	if label == "" {
		return errors.New("empty label")
	}
	for i, r := range label {
		switch {
		case r == '_' || isASCIILetter(r) || (r >= '0' && r <= '9') || r >= 0x80:
		case (r == '-' || r == '.') && i > 0:
		default:
			return fmt.Errorf("invalid character '%c' at position %d", r, i)
		}
	}
	if strings.HasSuffix(label, ".") {
		return errors.New("label must not end with '.'")
	}
	return nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
