// Package tokenizer implements a CSS Syntax Level 3 tokenizer that never
// fails: malformed input becomes token.ErrorToken values in the stream and
// scanning resumes right after them.
package tokenizer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ampproject/amphtml-sub099/internal/codes"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
)

// eof is returned by peek past the end of the input.
const eof rune = -1

// Tag is the first error param of every tokenizer error.
const Tag = "style"

// Option configures Tokenize.
type Option func(*options)

type options struct {
	line, col, offset int
}

// WithStartPosition makes positions relative to where the CSS text starts
// in its enclosing document. line and col are 1-based.
func WithStartPosition(line, col, offset int) Option {
	return func(o *options) {
		if line > 0 {
			o.line = line
		}
		if col > 0 {
			o.col = col
		}
		if offset >= 0 {
			o.offset = offset
		}
	}
}

// char is one preprocessed code point of the input. CR, CRLF and FF are
// folded into a single '\n'; NUL and invalid bytes read as U+FFFD.
type char struct {
	r   rune
	pos token.Pos
	bad bool
}

type scanner struct {
	chars []char
	i     int
	end   token.Pos
}

// Tokenize converts CSS text into tokens. The result always ends with
// exactly one EOF token.
func Tokenize(input string, opts ...Option) []token.Token {
	o := options{line: 1, col: 1}
	for _, opt := range opts {
		opt(&o)
	}
	s := newScanner(input, o)

	var tokens []token.Token
	for {
		tok := s.scan()
		tokens = append(tokens, tok)
		if tok.Kind() == token.EOF {
			return tokens
		}
	}
}

func newScanner(input string, o options) *scanner {
	s := &scanner{chars: make([]char, 0, len(input))}
	pos := token.Pos{Offset: o.offset, Line: o.line, Col: o.col}
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		c := char{r: r, pos: pos}
		switch {
		case r == utf8.RuneError && size == 1:
			c.r, c.bad = utf8.RuneError, true
		case r == '\r':
			if i+1 < len(input) && input[i+1] == '\n' {
				size = 2
			}
			c.r = '\n'
		case r == '\f':
			c.r = '\n'
		case r == 0:
			c.r = utf8.RuneError
		}
		s.chars = append(s.chars, c)
		i += size
		pos.Offset += size
		if c.r == '\n' {
			pos.Line++
			pos.Col = 1
		} else {
			pos.Col++
		}
	}
	s.end = pos
	return s
}

func (s *scanner) peek(n int) rune {
	if s.i+n < len(s.chars) {
		return s.chars[s.i+n].r
	}
	return eof
}

func (s *scanner) next() rune {
	r := s.peek(0)
	if s.i < len(s.chars) {
		s.i++
	}
	return r
}

func (s *scanner) pos() token.Pos {
	if s.i < len(s.chars) {
		return s.chars[s.i].pos
	}
	return s.end
}

func (s *scanner) errorAt(code codes.Code, pos token.Pos) token.ErrorToken {
	return token.NewError(code, pos, Tag)
}

// scan consumes a single token. (§4.3.1)
func (s *scanner) scan() token.Token {
	pos := s.pos()
	if s.i < len(s.chars) && s.chars[s.i].bad {
		s.i++
		return s.errorAt(codes.CSSSyntaxInvalidByteSequence, pos)
	}

	c, c1, c2 := s.peek(0), s.peek(1), s.peek(2)
	switch {
	case c == eof:
		return token.EOFToken{Pos: pos}
	case isWhitespace(c):
		return s.scanWhitespace(pos)
	case c == '"' || c == '\'':
		return s.scanString(pos)
	case c == '#':
		s.next()
		if isName(c1) || isValidEscape(c1, c2) {
			id := wouldStartIdent(c1, c2, s.peek(2))
			return token.HashToken{Value: s.consumeName(), ID: id, Pos: pos}
		}
		return token.DelimToken{Value: c, Pos: pos}
	case c == '$' || c == '*' || c == '^' || c == '~':
		s.next()
		if c1 == '=' {
			s.next()
			return token.PunctToken{K: matchKinds[c], Pos: pos}
		}
		return token.DelimToken{Value: c, Pos: pos}
	case c == '|':
		s.next()
		switch c1 {
		case '=':
			s.next()
			return token.PunctToken{K: token.DashMatch, Pos: pos}
		case '|':
			s.next()
			return token.PunctToken{K: token.Column, Pos: pos}
		}
		return token.DelimToken{Value: c, Pos: pos}
	case c == '+' || c == '.':
		if startsNumber(c, c1, c2) {
			return s.scanNumeric(pos)
		}
		s.next()
		return token.DelimToken{Value: c, Pos: pos}
	case c == '-':
		switch {
		case startsNumber(c, c1, c2):
			return s.scanNumeric(pos)
		case c1 == '-' && c2 == '>':
			s.i += 3
			return token.PunctToken{K: token.CDC, Pos: pos}
		case wouldStartIdent(c, c1, c2):
			return s.scanIdentLike(pos)
		}
		s.next()
		return token.DelimToken{Value: c, Pos: pos}
	case c == '/' && c1 == '*':
		return s.scanComment(pos)
	case c == '<' && c1 == '!' && c2 == '-' && s.peek(3) == '-':
		s.i += 4
		return token.PunctToken{K: token.CDO, Pos: pos}
	case c == '@':
		s.next()
		if wouldStartIdent(c1, c2, s.peek(2)) {
			return token.AtKeywordToken{Value: s.consumeName(), Pos: pos}
		}
		return token.DelimToken{Value: c, Pos: pos}
	case c == '\\':
		if isValidEscape(c, c1) {
			return s.scanIdentLike(pos)
		}
		s.next()
		return s.errorAt(codes.CSSSyntaxStrayTrailingBackslash, pos)
	case isDigit(c):
		return s.scanNumeric(pos)
	case isNameStart(c):
		return s.scanIdentLike(pos)
	}

	s.next()
	if k, ok := punctKinds[c]; ok {
		return token.PunctToken{K: k, Pos: pos}
	}
	return token.DelimToken{Value: c, Pos: pos}
}

var punctKinds = map[rune]token.Kind{
	'(': token.OpenParen,
	')': token.CloseParen,
	'[': token.OpenSquare,
	']': token.CloseSquare,
	'{': token.OpenCurly,
	'}': token.CloseCurly,
	',': token.Comma,
	':': token.Colon,
	';': token.Semicolon,
}

var matchKinds = map[rune]token.Kind{
	'$': token.SuffixMatch,
	'*': token.SubstringMatch,
	'^': token.PrefixMatch,
	'~': token.IncludeMatch,
}

func (s *scanner) scanWhitespace(pos token.Pos) token.Token {
	var b strings.Builder
	for isWhitespace(s.peek(0)) {
		b.WriteRune(s.next())
	}
	return token.WhitespaceToken{Value: b.String(), Pos: pos}
}

// scanComment consumes "/* ... */". An unterminated comment swallows the
// rest of the input and is reported in its place.
func (s *scanner) scanComment(pos token.Pos) token.Token {
	s.i += 2
	var b strings.Builder
	for {
		c := s.next()
		switch {
		case c == eof:
			return s.errorAt(codes.CSSSyntaxUnterminatedComment, pos)
		case c == '*' && s.peek(0) == '/':
			s.next()
			return token.CommentToken{Value: b.String(), Pos: pos}
		}
		b.WriteRune(c)
	}
}

// scanString consumes a quoted string. (§4.3.5)
func (s *scanner) scanString(pos token.Pos) token.Token {
	quote := s.next()
	var b strings.Builder
	for {
		c := s.peek(0)
		switch {
		case c == quote:
			s.next()
			return token.StringToken{Value: b.String(), Quote: quote, Pos: pos}
		case c == eof:
			return s.errorAt(codes.CSSSyntaxUnterminatedString, pos)
		case c == '\n':
			// The newline is not part of the bad string.
			return s.errorAt(codes.CSSSyntaxUnterminatedString, pos)
		case c == '\\':
			s.next()
			switch s.peek(0) {
			case eof:
			case '\n':
				s.next()
			default:
				b.WriteRune(s.consumeEscape())
			}
		default:
			b.WriteRune(s.next())
		}
	}
}

// scanNumeric consumes a number, percentage or dimension. (§4.3.3)
func (s *scanner) scanNumeric(pos token.Pos) token.Token {
	repr, value, integer := s.consumeNumber()
	switch {
	case wouldStartIdent(s.peek(0), s.peek(1), s.peek(2)):
		return token.DimensionToken{Repr: repr, Value: value, Integer: integer, Unit: s.consumeName(), Pos: pos}
	case s.peek(0) == '%':
		s.next()
		return token.PercentageToken{Repr: repr, Value: value, Pos: pos}
	}
	return token.NumberToken{Repr: repr, Value: value, Integer: integer, Pos: pos}
}

// consumeNumber consumes the longest number at the current position. (§4.3.12)
func (s *scanner) consumeNumber() (repr string, value float64, integer bool) {
	var b strings.Builder
	integer = true
	if c := s.peek(0); c == '+' || c == '-' {
		b.WriteRune(s.next())
	}
	s.consumeDigits(&b)
	if s.peek(0) == '.' && isDigit(s.peek(1)) {
		b.WriteRune(s.next())
		s.consumeDigits(&b)
		integer = false
	}
	if c := s.peek(0); c == 'e' || c == 'E' {
		c1, c2 := s.peek(1), s.peek(2)
		if isDigit(c1) || ((c1 == '+' || c1 == '-') && isDigit(c2)) {
			b.WriteRune(s.next())
			if !isDigit(c1) {
				b.WriteRune(s.next())
			}
			s.consumeDigits(&b)
			integer = false
		}
	}
	repr = b.String()
	// Out of range exponents parse to +-Inf, which is what CSS expects.
	value, _ = strconv.ParseFloat(repr, 64)
	return repr, value, integer
}

func (s *scanner) consumeDigits(b *strings.Builder) {
	for isDigit(s.peek(0)) {
		b.WriteRune(s.next())
	}
}

// scanIdentLike consumes an ident, function or url token. (§4.3.4)
func (s *scanner) scanIdentLike(pos token.Pos) token.Token {
	name := s.consumeName()
	if s.peek(0) != '(' {
		return token.IdentToken{Value: name, Pos: pos}
	}
	s.next()
	if !strings.EqualFold(name, "url") {
		return token.FunctionToken{Value: name, Pos: pos}
	}
	for isWhitespace(s.peek(0)) {
		s.next()
	}
	if c := s.peek(0); c == '"' || c == '\'' {
		return token.FunctionToken{Value: name, Pos: pos}
	}
	return s.scanURL(pos)
}

// scanURL consumes the body of an unquoted url(. (§4.3.6)
func (s *scanner) scanURL(pos token.Pos) token.Token {
	var b strings.Builder
	for {
		c := s.next()
		switch {
		case c == ')' || c == eof:
			return token.URLToken{Value: b.String(), Pos: pos}
		case isWhitespace(c):
			for isWhitespace(s.peek(0)) {
				s.next()
			}
			if c := s.peek(0); c == ')' || c == eof {
				s.next()
				return token.URLToken{Value: b.String(), Pos: pos}
			}
			return s.badURL(pos)
		case c == '"' || c == '\'' || c == '(' || isNonPrintable(c):
			return s.badURL(pos)
		case c == '\\':
			if !isValidEscape(c, s.peek(0)) {
				return s.badURL(pos)
			}
			b.WriteRune(s.consumeEscape())
		default:
			b.WriteRune(c)
		}
	}
}

// badURL consumes the remnants of a bad url so scanning can resume after
// its closing parenthesis. (§4.3.14)
func (s *scanner) badURL(pos token.Pos) token.Token {
	for {
		c := s.next()
		if c == ')' || c == eof {
			return s.errorAt(codes.CSSSyntaxBadURL, pos)
		}
		if isValidEscape(c, s.peek(0)) {
			s.consumeEscape()
		}
	}
}

// consumeName consumes an identifier sequence, resolving escapes. (§4.3.11)
func (s *scanner) consumeName() string {
	var b strings.Builder
	for {
		c := s.peek(0)
		switch {
		case isName(c):
			b.WriteRune(s.next())
		case isValidEscape(c, s.peek(1)):
			s.next()
			b.WriteRune(s.consumeEscape())
		default:
			return b.String()
		}
	}
}

// consumeEscape consumes an escaped code point; the backslash has already
// been consumed. (§4.3.7)
func (s *scanner) consumeEscape() rune {
	c := s.next()
	switch {
	case c == eof:
		return utf8.RuneError
	case isHexDigit(c):
		v := hexValue(c)
		for n := 1; n < 6 && isHexDigit(s.peek(0)); n++ {
			v = v*16 + hexValue(s.next())
		}
		if isWhitespace(s.peek(0)) {
			s.next()
		}
		if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > utf8.MaxRune {
			return utf8.RuneError
		}
		return v
	}
	return c
}
