package codes

import (
	"fmt"
	"strconv"
	"strings"
)

// Code identifies a validation error. Names match the AMP validator rules file.
type Code int

const (
	UnknownCode Code = iota

	// Tokenization errors
	CSSSyntaxStrayTrailingBackslash
	CSSSyntaxUnterminatedComment
	CSSSyntaxUnterminatedString
	CSSSyntaxBadURL
	CSSSyntaxInvalidByteSequence

	// Parse-structure errors
	CSSSyntaxEOFInPreludeOfQualifiedRule
	CSSSyntaxInvalidDeclaration
	CSSSyntaxIncompleteDeclaration
	CSSSyntaxInvalidAtRule
	CSSSyntaxUnmatchedCloseBrace
	CSSSyntaxUnterminatedBlock

	// Keyframes rule-set
	CSSSyntaxDisallowedKeyframeInsideKeyframe
	CSSSyntaxDisallowedQualifiedRuleMustBeInsideKeyframe
	CSSSyntaxQualifiedRuleHasNoDeclarations

	// URL attributes
	MissingURL
	InvalidURL
	InvalidURLProtocol
	DisallowedRelativeURL

	numCodes
)

// Severity is how a driver should present an error.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type info struct {
	name     string
	format   string
	severity Severity
}

var table = [numCodes]info{
	UnknownCode: {"UNKNOWN_CODE", "Unknown error.", SeverityError},

	CSSSyntaxStrayTrailingBackslash: {"CSS_SYNTAX_STRAY_TRAILING_BACKSLASH",
		"CSS syntax error in tag '%1' - stray trailing backslash.", SeverityError},
	CSSSyntaxUnterminatedComment: {"CSS_SYNTAX_UNTERMINATED_COMMENT",
		"CSS syntax error in tag '%1' - unterminated comment.", SeverityError},
	CSSSyntaxUnterminatedString: {"CSS_SYNTAX_UNTERMINATED_STRING",
		"CSS syntax error in tag '%1' - unterminated string.", SeverityError},
	CSSSyntaxBadURL: {"CSS_SYNTAX_BAD_URL",
		"CSS syntax error in tag '%1' - bad url.", SeverityError},
	CSSSyntaxInvalidByteSequence: {"CSS_SYNTAX_INVALID_BYTE_SEQUENCE",
		"CSS syntax error in tag '%1' - invalid UTF-8 byte sequence.", SeverityError},

	CSSSyntaxEOFInPreludeOfQualifiedRule: {"CSS_SYNTAX_EOF_IN_PRELUDE_OF_QUALIFIED_RULE",
		"CSS syntax error in tag '%1' - end of stylesheet encountered in prelude of a qualified rule.", SeverityError},
	CSSSyntaxInvalidDeclaration: {"CSS_SYNTAX_INVALID_DECLARATION",
		"CSS syntax error in tag '%1' - invalid declaration.", SeverityError},
	CSSSyntaxIncompleteDeclaration: {"CSS_SYNTAX_INCOMPLETE_DECLARATION",
		"CSS syntax error in tag '%1' - incomplete declaration.", SeverityError},
	CSSSyntaxInvalidAtRule: {"CSS_SYNTAX_INVALID_AT_RULE",
		"CSS syntax error in tag '%1' - saw invalid at rule '@%2'.", SeverityError},
	CSSSyntaxUnmatchedCloseBrace: {"CSS_SYNTAX_UNMATCHED_CLOSE_BRACE",
		"CSS syntax error in tag '%1' - unmatched '}'.", SeverityError},
	CSSSyntaxUnterminatedBlock: {"CSS_SYNTAX_UNTERMINATED_BLOCK",
		"CSS syntax error in tag '%1' - end of stylesheet encountered inside a block.", SeverityError},

	CSSSyntaxDisallowedKeyframeInsideKeyframe: {"CSS_SYNTAX_DISALLOWED_KEYFRAME_INSIDE_KEYFRAME",
		"CSS syntax error in tag '%1' - keyframe inside keyframe is not allowed.", SeverityError},
	CSSSyntaxDisallowedQualifiedRuleMustBeInsideKeyframe: {"CSS_SYNTAX_DISALLOWED_QUALIFIED_RULE_MUST_BE_INSIDE_KEYFRAME",
		"CSS syntax error in tag '%1' - qualified rule '%2' must be located inside of a keyframe.", SeverityError},
	CSSSyntaxQualifiedRuleHasNoDeclarations: {"CSS_SYNTAX_QUALIFIED_RULE_HAS_NO_DECLARATIONS",
		"CSS syntax error in tag '%1' - qualified rule '%2' has no declarations.", SeverityError},

	MissingURL: {"MISSING_URL",
		"Missing URL for attribute '%1' in tag '%2'.", SeverityError},
	InvalidURL: {"INVALID_URL",
		"Malformed URL '%3' for attribute '%1' in tag '%2'.", SeverityError},
	InvalidURLProtocol: {"INVALID_URL_PROTOCOL",
		"Invalid URL protocol '%3:' for attribute '%1' in tag '%2'.", SeverityError},
	DisallowedRelativeURL: {"DISALLOWED_RELATIVE_URL",
		"The relative URL '%3' for attribute '%1' in tag '%2' is disallowed.", SeverityError},
}

var byName = func() map[string]Code {
	m := make(map[string]Code, numCodes)
	for c := UnknownCode; c < numCodes; c++ {
		m[table[c].name] = c
	}
	return m
}()

func (c Code) valid() bool {
	return c >= 0 && c < numCodes
}

// String returns the rules-file name of the code, e.g. CSS_SYNTAX_BAD_URL.
func (c Code) String() string {
	if !c.valid() {
		return "Code(" + strconv.Itoa(int(c)) + ")"
	}
	return table[c].name
}

// Severity returns the default severity of the code.
func (c Code) Severity() Severity {
	if !c.valid() {
		return SeverityError
	}
	return table[c].severity
}

// MarshalText implements encoding.TextMarshaler so reports carry code names.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(b []byte) error {
	code, err := ParseCode(string(b))
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// ParseCode looks up a code by its rules-file name.
func ParseCode(name string) (Code, error) {
	if c, ok := byName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return UnknownCode, fmt.Errorf("unknown validation error code %q", name)
}

// Format renders the human readable message for code, substituting %1, %2, ...
// with params. Placeholders without a matching param are left untouched.
func Format(c Code, params []string) string {
	format := table[UnknownCode].format
	if c.valid() {
		format = table[c].format
	}
	if len(params) == 0 {
		return format
	}
	oldnew := make([]string, 0, 2*len(params))
	// Replace higher indexes first so %1 never eats the prefix of %10.
	for i := len(params) - 1; i >= 0; i-- {
		oldnew = append(oldnew, "%"+strconv.Itoa(i+1), params[i])
	}
	return strings.NewReplacer(oldnew...).Replace(format)
}
