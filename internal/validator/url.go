package validator

import (
	"net/url"
	"strings"

	"github.com/ampproject/amphtml-sub099/internal/codes"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
	"github.com/ampproject/amphtml-sub099/internal/parseurl"
)

// ValidateURL checks the value of attribute attr on element tag against
// policy. Errors are positioned at 1:1.
func ValidateURL(attr, tag, value string, policy URLPolicy) []token.ErrorToken {
	return checkURL(attr, tag, value, policy, token.Pos{Line: 1, Col: 1})
}

func checkURL(attr, tag, value string, policy URLPolicy, pos token.Pos) []token.ErrorToken {
	if strings.TrimSpace(value) == "" {
		return []token.ErrorToken{token.NewError(codes.MissingURL, pos, attr, tag)}
	}

	u := parseurl.Parse(value)
	if !wellFormed(u) {
		return []token.ErrorToken{token.NewError(codes.InvalidURL, pos, attr, tag, value)}
	}

	if u.IsRelative() {
		if !policy.AllowRelative {
			return []token.ErrorToken{token.NewError(codes.DisallowedRelativeURL, pos, attr, tag, value)}
		}
		return nil
	}
	if !policy.AllowedProtocols.Has(u.Protocol) {
		return []token.ErrorToken{token.NewError(codes.InvalidURLProtocol, pos, attr, tag, u.Protocol)}
	}
	return nil
}

// wellFormed rejects control characters and broken percent escapes.
func wellFormed(u parseurl.URL) bool {
	for _, r := range u.SchemeSpecificPart {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	_, err := url.PathUnescape(u.SchemeSpecificPart)
	return err == nil
}
