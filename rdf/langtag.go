package rdf

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// validateLanguageTag checks the RDF LANGTAG shape ([a-zA-Z]+ ('-' [a-zA-Z0-9]+)*)
// and then BCP 47 well-formedness. Tags that are well formed but use
// unregistered subtags are accepted.
func validateLanguageTag(tag string) error {
	if tag == "" {
		return errors.New("empty language tag")
	}
	for i, sub := range strings.Split(tag, "-") {
		if sub == "" {
			return errors.New("empty subtag")
		}
		for _, r := range sub {
			if isASCIILetter(r) || (i > 0 && r >= '0' && r <= '9') {
				continue
			}
			return fmt.Errorf("invalid character '%c' in subtag %q", r, sub)
		}
	}
	if _, err := language.Parse(tag); err != nil {
		var unknown language.ValueError
		if errors.As(err, &unknown) {
			return nil
		}
		return err
	}
	return nil
}

// canonicalLanguageTag returns the form used for equality and storage.
func canonicalLanguageTag(tag string) string {
	return strings.ToLower(tag)
}
