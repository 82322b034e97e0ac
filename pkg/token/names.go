package token

import (
	"unicode"

	"gitlab.com/tozd/go/errors"
)

var ErrInvalidElementName = errors.Base("invalid element name")

// checkElementName rejects wrapper names that would serialize to malformed
// markup, including the empty string.
func checkElementName(name string) error {
	if !isXMLName(name) {
		return errors.Errorf("%w: %q", ErrInvalidElementName, name)
	}
	return nil
}

func isXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_', r == ':':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
