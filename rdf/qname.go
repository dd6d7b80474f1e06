package rdf

import "strings"

// isQNameLocal reports whether value can follow "prefix:" in Turtle
// without escaping. An empty local part is allowed ("ex:").
func isQNameLocal(value string) bool {
	if value == "" {
		return true
	}
	if value[len(value)-1] == '.' {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) && !isDigit(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || isDigit(ch) || ch == '-' || ch == '.'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// isValidPrefixName reports whether prefix is a Turtle PN_PREFIX, or empty.
func isValidPrefixName(prefix string) bool {
	if prefix == "" {
		return true
	}
	if !isASCIILetter(rune(prefix[0])) || prefix[len(prefix)-1] == '.' {
		return false
	}
	for i := 1; i < len(prefix); i++ {
		if !isNameChar(prefix[i]) {
			return false
		}
	}
	return true
}

// abbreviateQName shortens iri with the longest matching namespace.
func abbreviateQName(iri string, prefixes map[string]string) (string, bool) {
	bestNS, bestPrefix := "", ""
	found := false
	for prefix, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if !isQNameLocal(iri[len(ns):]) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS, bestPrefix = ns, prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}
