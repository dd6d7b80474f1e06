package rdf

import (
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatAuto     Format = ""
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatTurtle   Format = "turtle"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, true
	case "nquads", "nq", "n-quads":
		return FormatNQuads, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	case "", "auto":
		return FormatAuto, true
	default:
		return "", false
	}
}

// FormatFromPath guesses a format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return FormatNTriples, true
	case ".nq":
		return FormatNQuads, true
	case ".ttl":
		return FormatTurtle, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	default:
		return FormatAuto, false
	}
}

// HasGraphs reports whether the format can carry named graphs.
func (f Format) HasGraphs() bool {
	return f == FormatNQuads || f == FormatJSONLD
}

// CanDecode reports whether this package can read the format.
func (f Format) CanDecode() bool {
	switch f {
	case FormatNTriples, FormatNQuads, FormatJSONLD:
		return true
	default:
		return false
	}
}

// CanEncode reports whether this package can write the format.
func (f Format) CanEncode() bool {
	switch f {
	case FormatNTriples, FormatNQuads, FormatTurtle, FormatJSONLD:
		return true
	default:
		return false
	}
}
