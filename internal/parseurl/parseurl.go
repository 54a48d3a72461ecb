// Package parseurl splits attribute URLs into protocol and scheme-specific
// part the permissive way browsers read them. It never fails: anything
// without a recognizable scheme is treated as an https-relative URL.
package parseurl

import (
	"strings"
)

// DefaultProtocol is assumed for URLs without a scheme.
const DefaultProtocol = "https"

// URL is the parsed form of an attribute value.
type URL struct {
	// HasProtocol is true when the input started with a valid scheme.
	HasProtocol bool
	// Protocol is the lower-cased scheme, or DefaultProtocol.
	Protocol string
	// SchemeSpecificPart is everything after the scheme's colon, or the
	// whole cleaned input when there is no scheme.
	SchemeSpecificPart string
}

var stripper = strings.NewReplacer("\t", "", "\r", "", "\n", "")

// Parse parses input. Tabs and line breaks are removed anywhere in the
// string and surrounding whitespace is trimmed before the scheme is read.
func Parse(input string) URL {
	s := strings.TrimSpace(stripper.Replace(input))
	u := URL{Protocol: DefaultProtocol, SchemeSpecificPart: s}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ':' {
			if i > 0 {
				u.HasProtocol = true
				u.Protocol = strings.ToLower(s[:i])
				u.SchemeSpecificPart = s[i+1:]
			}
			break
		}
		if !isSchemeChar(c) {
			break
		}
	}
	return u
}

func isSchemeChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '+' || c == '-' || c == '.'
}

// IsRelative reports whether the URL carried no scheme of its own.
func (u URL) IsRelative() bool {
	return !u.HasProtocol
}

// String reassembles the URL. Relative URLs are returned without the
// default protocol.
func (u URL) String() string {
	if !u.HasProtocol {
		return u.SchemeSpecificPart
	}
	return u.Protocol + ":" + u.SchemeSpecificPart
}
