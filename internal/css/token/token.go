package token

import (
	"strconv"
	"strings"

	"github.com/ampproject/amphtml-sub099/internal/codes"
)

// Kind is the tag of a token.
type Kind int

const (
	Ident Kind = iota
	Function
	AtKeyword
	Hash
	String
	URL
	Delim
	Number
	Percentage
	Dimension
	Whitespace
	Comment
	CDO
	CDC
	Colon
	Semicolon
	Comma
	OpenSquare
	CloseSquare
	OpenParen
	CloseParen
	OpenCurly
	CloseCurly
	IncludeMatch
	DashMatch
	PrefixMatch
	SuffixMatch
	SubstringMatch
	Column
	Error
	EOF
)

var kindNames = [...]string{
	Ident:          "IDENT",
	Function:       "FUNCTION_TOKEN",
	AtKeyword:      "AT_KEYWORD",
	Hash:           "HASH",
	String:         "STRING",
	URL:            "URL",
	Delim:          "DELIM",
	Number:         "NUMBER",
	Percentage:     "PERCENTAGE",
	Dimension:      "DIMENSION",
	Whitespace:     "WHITESPACE",
	Comment:        "COMMENT",
	CDO:            "CDO",
	CDC:            "CDC",
	Colon:          "COLON",
	Semicolon:      "SEMICOLON",
	Comma:          "COMMA",
	OpenSquare:     "OPEN_SQUARE",
	CloseSquare:    "CLOSE_SQUARE",
	OpenParen:      "OPEN_PAREN",
	CloseParen:     "CLOSE_PAREN",
	OpenCurly:      "OPEN_CURLY",
	CloseCurly:     "CLOSE_CURLY",
	IncludeMatch:   "INCLUDE_MATCH",
	DashMatch:      "DASH_MATCH",
	PrefixMatch:    "PREFIX_MATCH",
	SuffixMatch:    "SUFFIX_MATCH",
	SubstringMatch: "SUBSTRING_MATCH",
	Column:         "COLUMN",
	Error:          "ERROR",
	EOF:            "EOF_TOKEN",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

var punctText = map[Kind]string{
	CDO:            "<!--",
	CDC:            "-->",
	Colon:          ":",
	Semicolon:      ";",
	Comma:          ",",
	OpenSquare:     "[",
	CloseSquare:    "]",
	OpenParen:      "(",
	CloseParen:     ")",
	OpenCurly:      "{",
	CloseCurly:     "}",
	IncludeMatch:   "~=",
	DashMatch:      "|=",
	PrefixMatch:    "^=",
	SuffixMatch:    "$=",
	SubstringMatch: "*=",
	Column:         "||",
}

// Mirror returns the closing kind for an opening bracket, or EOF if k does
// not open a block.
func (k Kind) Mirror() Kind {
	switch k {
	case OpenCurly:
		return CloseCurly
	case OpenSquare:
		return CloseSquare
	case OpenParen, Function:
		return CloseParen
	}
	return EOF
}

// Pos specifies the position of a token in the source text.
// Line and Col are 1-based; Col counts code points. Offset is a byte offset.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// Before reports whether p comes strictly before q in document order.
func (p Pos) Before(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Token represents a lexical token. Tokens are immutable values.
type Token interface {
	Kind() Kind
	Position() Pos
	// String returns the CSS serialization of the token.
	String() string
}

type IdentToken struct {
	Value string
	Pos   Pos
}

func (t IdentToken) Kind() Kind { return Ident }
func (t IdentToken) Position() Pos { return t.Pos }
func (t IdentToken) String() string { return t.Value }

// FunctionToken is an identifier immediately followed by '(', e.g. "rgb(".
type FunctionToken struct {
	Value string
	Pos   Pos
}

func (t FunctionToken) Kind() Kind { return Function }
func (t FunctionToken) Position() Pos { return t.Pos }
func (t FunctionToken) String() string { return t.Value + "(" }

type AtKeywordToken struct {
	Value string
	Pos   Pos
}

func (t AtKeywordToken) Kind() Kind { return AtKeyword }
func (t AtKeywordToken) Position() Pos { return t.Pos }
func (t AtKeywordToken) String() string { return "@" + t.Value }

// HashToken is a '#' followed by a name. ID is set when the name would also be a
// valid identifier.
type HashToken struct {
	Value string
	ID    bool
	Pos   Pos
}

func (t HashToken) Kind() Kind { return Hash }
func (t HashToken) Position() Pos { return t.Pos }
func (t HashToken) String() string { return "#" + t.Value }

type StringToken struct {
	Value string
	Quote rune
	Pos   Pos
}

func (t StringToken) Kind() Kind { return String }
func (t StringToken) Position() Pos { return t.Pos }
func (t StringToken) String() string {
	q := t.Quote
	if q == 0 {
		q = '"'
	}
	v := strings.ReplaceAll(t.Value, `\`, `\\`)
	return string(q) + strings.ReplaceAll(v, string(q), `\`+string(q)) + string(q)
}

// URLToken is an unquoted url(...) token.
type URLToken struct {
	Value string
	Pos   Pos
}

func (t URLToken) Kind() Kind { return URL }
func (t URLToken) Position() Pos { return t.Pos }
func (t URLToken) String() string { return "url(" + t.Value + ")" }

type DelimToken struct {
	Value rune
	Pos   Pos
}

func (t DelimToken) Kind() Kind { return Delim }
func (t DelimToken) Position() Pos { return t.Pos }
func (t DelimToken) String() string { return string(t.Value) }

// NumberToken is a numeric token. Repr is the source text.
type NumberToken struct {
	Repr    string
	Value   float64
	Integer bool
	Pos     Pos
}

func (t NumberToken) Kind() Kind { return Number }
func (t NumberToken) Position() Pos { return t.Pos }
func (t NumberToken) String() string { return t.Repr }

type PercentageToken struct {
	Repr  string
	Value float64
	Pos   Pos
}

func (t PercentageToken) Kind() Kind { return Percentage }
func (t PercentageToken) Position() Pos { return t.Pos }
func (t PercentageToken) String() string { return t.Repr + "%" }

type DimensionToken struct {
	Repr    string
	Value   float64
	Integer bool
	Unit    string
	Pos     Pos
}

func (t DimensionToken) Kind() Kind { return Dimension }
func (t DimensionToken) Position() Pos { return t.Pos }
func (t DimensionToken) String() string { return t.Repr + t.Unit }

type WhitespaceToken struct {
	Value string
	Pos   Pos
}

func (t WhitespaceToken) Kind() Kind { return Whitespace }
func (t WhitespaceToken) Position() Pos { return t.Pos }
func (t WhitespaceToken) String() string { return " " }

// CommentToken holds the text between "/*" and "*/".
type CommentToken struct {
	Value string
	Pos   Pos
}

func (t CommentToken) Kind() Kind { return Comment }
func (t CommentToken) Position() Pos { return t.Pos }
func (t CommentToken) String() string { return "/*" + t.Value + "*/" }

// PunctToken is any token fully described by its kind: brackets, ':', ';', ',',
// CDO/CDC and the attribute match operators.
type PunctToken struct {
	K   Kind
	Pos Pos
}

func (t PunctToken) Kind() Kind { return t.K }
func (t PunctToken) Position() Pos { return t.Pos }
func (t PunctToken) String() string { return punctText[t.K] }

type EOFToken struct {
	Pos Pos
}

func (t EOFToken) Kind() Kind { return EOF }
func (t EOFToken) Position() Pos { return t.Pos }
func (t EOFToken) String() string { return "" }

// ErrorToken is a positioned, coded validation error. Params are used to
// interpolate the message for Code.
type ErrorToken struct {
	Code   codes.Code
	Params []string
	Pos    Pos
}

// NewError creates an ErrorToken. Params are copied.
func NewError(code codes.Code, pos Pos, params ...string) ErrorToken {
	return ErrorToken{Code: code, Params: append([]string(nil), params...), Pos: pos}
}

func (t ErrorToken) Kind() Kind { return Error }
func (t ErrorToken) Position() Pos { return t.Pos }
func (t ErrorToken) String() string { return "" }

// Message renders the human readable text for the error.
func (t ErrorToken) Message() string {
	return codes.Format(t.Code, t.Params)
}

// Error implements error.
func (t ErrorToken) Error() string {
	return t.Pos.String() + ": " + t.Message()
}

// Is reports whether tok is of kind k.
func Is(tok Token, k Kind) bool {
	return tok != nil && tok.Kind() == k
}

// IsDelim reports whether tok is a Delim holding r.
func IsDelim(tok Token, r rune) bool {
	d, ok := tok.(DelimToken)
	return ok && d.Value == r
}
