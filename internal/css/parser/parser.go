// Package parser builds an ast.Stylesheet from a token stream following
// CSS Syntax Level 3 §5. Parsing never fails: malformed constructs are
// reported to the caller's error list and skipped.
package parser

import (
	"strings"

	"github.com/ampproject/amphtml-sub099/internal/codes"
	"github.com/ampproject/amphtml-sub099/internal/css/ast"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
	"github.com/ampproject/amphtml-sub099/internal/css/tokenizer"
)

// BlockType selects how the {-block of an at-rule is parsed.
type BlockType int

const (
	// ParseAsIgnore skips the block contents.
	ParseAsIgnore BlockType = iota
	// ParseAsRules parses the block as a nested list of rules.
	ParseAsRules
	// ParseAsDeclarations parses the block as a declaration list.
	ParseAsDeclarations
)

func (b BlockType) String() string {
	switch b {
	case ParseAsRules:
		return "rules"
	case ParseAsDeclarations:
		return "declarations"
	}
	return "ignore"
}

var defaultBlockTypes = map[string]BlockType{
	"media":               ParseAsRules,
	"supports":            ParseAsRules,
	"document":            ParseAsRules,
	"-moz-document":       ParseAsRules,
	"keyframes":           ParseAsRules,
	"-moz-keyframes":      ParseAsRules,
	"-o-keyframes":        ParseAsRules,
	"-webkit-keyframes":   ParseAsRules,
	"font-face":           ParseAsDeclarations,
	"page":                ParseAsDeclarations,
	"viewport":            ParseAsDeclarations,
	"-ms-viewport":        ParseAsDeclarations,
	"counter-style":       ParseAsDeclarations,
	"font-feature-values": ParseAsDeclarations,
}

// DefaultBlockType returns the block type used for an at-rule name when no
// override is given.
func DefaultBlockType(name string) BlockType {
	return defaultBlockTypes[strings.ToLower(name)]
}

// Option configures Parse.
type Option func(*parser)

// WithBlockType overrides how blocks of the named at-rule are parsed.
func WithBlockType(name string, bt BlockType) Option {
	return func(p *parser) {
		if p.overrides == nil {
			p.overrides = map[string]BlockType{}
		}
		p.overrides[strings.ToLower(name)] = bt
	}
}

type parser struct {
	s           *stream
	errs        *token.ErrorList
	overrides   map[string]BlockType
	eofReported bool
}

// Parse builds a stylesheet from tokens. Error tokens in the input and
// structural problems are appended to errs.
func Parse(tokens []token.Token, errs *token.ErrorList, opts ...Option) *ast.Stylesheet {
	p := &parser{s: newStream(tokens, errs), errs: errs}
	for _, opt := range opts {
		opt(p)
	}
	sheet := &ast.Stylesheet{Pos: p.s.tokens[0].Position()}
	sheet.Rules = p.consumeRules(true)
	return sheet
}

// ParseString tokenizes and parses css.
func ParseString(css string, errs *token.ErrorList, opts ...Option) *ast.Stylesheet {
	return Parse(tokenizer.Tokenize(css), errs, opts...)
}

// blockType takes a lower-cased at-rule name.
func (p *parser) blockType(name string) BlockType {
	if bt, ok := p.overrides[name]; ok {
		return bt
	}
	return DefaultBlockType(name)
}

// sub returns a parser over extracted block contents. The contents hold no
// error tokens; those were reported during extraction.
func (p *parser) sub(contents []token.Token, end token.Pos) *parser {
	tokens := append(contents[:len(contents):len(contents)], token.EOFToken{Pos: end})
	return &parser{
		s:           newStream(tokens, p.errs),
		errs:        p.errs,
		overrides:   p.overrides,
		eofReported: p.eofReported,
	}
}

func (p *parser) report(code codes.Code, pos token.Pos, params ...string) {
	p.errs.Report(code, pos, append([]string{tokenizer.Tag}, params...)...)
}

// consumeRules consumes a list of rules. (§5.4.1)
func (p *parser) consumeRules(toplevel bool) []ast.Rule {
	var rules []ast.Rule
	for {
		tok := p.s.next()
		switch tok.Kind() {
		case token.Whitespace, token.Comment:
		case token.EOF:
			return rules
		case token.CDO, token.CDC:
			if toplevel {
				continue
			}
			p.s.back()
			if r := p.consumeQualifiedRule(); r != nil {
				rules = append(rules, r)
			}
		case token.AtKeyword:
			rules = append(rules, p.consumeAtRule(tok.(token.AtKeywordToken), true))
		case token.CloseCurly:
			p.report(codes.CSSSyntaxUnmatchedCloseBrace, tok.Position())
		default:
			p.s.back()
			if r := p.consumeQualifiedRule(); r != nil {
				rules = append(rules, r)
			}
		}
	}
}

// consumeAtRule consumes an at-rule whose keyword was just consumed. (§5.4.2)
// The block contents are only parsed when parseBlock is set.
func (p *parser) consumeAtRule(kw token.AtKeywordToken, parseBlock bool) *ast.AtRule {
	r := &ast.AtRule{Name: kw.Value, Pos: kw.Pos}
	for {
		tok := p.s.next()
		switch tok.Kind() {
		case token.Semicolon, token.EOF:
			r.Prelude = trimWhitespace(r.Prelude)
			return r
		case token.OpenCurly:
			r.Prelude = trimWhitespace(r.Prelude)
			r.HasBlock = true
			contents, end := p.consumeBlock(tok)
			if !parseBlock {
				return r
			}
			switch p.blockType(r.LowerName()) {
			case ParseAsRules:
				r.Rules = p.sub(contents, end).consumeRules(false)
			case ParseAsDeclarations:
				r.Declarations = p.sub(contents, end).consumeDeclarations()
			}
			return r
		case token.CloseCurly:
			p.report(codes.CSSSyntaxUnmatchedCloseBrace, tok.Position())
		default:
			r.Prelude = p.consumeComponentValue(tok, r.Prelude)
		}
	}
}

// consumeQualifiedRule consumes a prelude and its {-block. (§5.4.3)
// It returns nil when the input ends inside the prelude.
func (p *parser) consumeQualifiedRule() *ast.QualifiedRule {
	r := &ast.QualifiedRule{}
	first := true
	for {
		tok := p.s.next()
		if first {
			r.Pos = tok.Position()
			first = false
		}
		switch tok.Kind() {
		case token.EOF:
			p.report(codes.CSSSyntaxEOFInPreludeOfQualifiedRule, r.Pos)
			return nil
		case token.OpenCurly:
			r.Prelude = trimWhitespace(r.Prelude)
			contents, end := p.consumeBlock(tok)
			r.Declarations = p.sub(contents, end).consumeDeclarations()
			return r
		case token.CloseCurly:
			p.report(codes.CSSSyntaxUnmatchedCloseBrace, tok.Position())
		default:
			r.Prelude = p.consumeComponentValue(tok, r.Prelude)
		}
	}
}

// consumeDeclarations consumes a list of declarations. (§5.4.5)
func (p *parser) consumeDeclarations() []*ast.Declaration {
	var decls []*ast.Declaration
	for {
		tok := p.s.next()
		switch tok.Kind() {
		case token.Whitespace, token.Comment, token.Semicolon:
		case token.EOF:
			return decls
		case token.AtKeyword:
			at := p.consumeAtRule(tok.(token.AtKeywordToken), false)
			p.report(codes.CSSSyntaxInvalidAtRule, at.Pos, at.Name)
		case token.Ident:
			parts := []token.Token{tok}
			for {
				next := p.s.next()
				if next.Kind() == token.Semicolon || next.Kind() == token.EOF {
					p.s.back()
					break
				}
				parts = p.consumeComponentValue(next, parts)
			}
			if d := p.consumeDeclaration(parts); d != nil {
				decls = append(decls, d)
			}
		default:
			p.report(codes.CSSSyntaxInvalidDeclaration, tok.Position())
			p.s.back()
			for {
				next := p.s.next()
				if next.Kind() == token.Semicolon || next.Kind() == token.EOF {
					p.s.back()
					break
				}
				p.consumeComponentValue(next, nil)
			}
		}
	}
}

// consumeDeclaration builds a declaration from its tokens; parts[0] is the
// name. (§5.4.6)
func (p *parser) consumeDeclaration(parts []token.Token) *ast.Declaration {
	name := parts[0].(token.IdentToken)
	d := &ast.Declaration{Name: name.Value, Pos: name.Pos}

	i := 1
	for i < len(parts) && isSkippable(parts[i]) {
		i++
	}
	if i >= len(parts) || parts[i].Kind() != token.Colon {
		p.report(codes.CSSSyntaxIncompleteDeclaration, name.Pos)
		return nil
	}

	value := trimWhitespace(parts[i+1:])
	if n := len(value); n >= 2 {
		bang := n - 2
		for bang > 0 && isSkippable(value[bang]) {
			bang--
		}
		if ident, ok := value[n-1].(token.IdentToken); ok && token.IsDelim(value[bang], '!') &&
			strings.EqualFold(ident.Value, "important") && onlySkippable(value[bang+1:n-1]) {
			d.Important = true
			value = trimWhitespace(value[:bang])
		}
	}
	d.Value = value
	return d
}

// consumeComponentValue appends tok to out and, when tok opens a nested
// block or function, everything up to and including its closing token.
// (§5.4.7)
func (p *parser) consumeComponentValue(tok token.Token, out []token.Token) []token.Token {
	out = append(out, tok)
	if tok.Kind().Mirror() == token.EOF {
		return out
	}
	contents, end := p.consumeBlockTokens(tok, out)
	out = contents
	if end != nil {
		out = append(out, end)
	}
	return out
}

// consumeBlock consumes the contents of a {-block whose opening token was
// just consumed. It returns the contents without the closing token and the
// position where the block ended.
func (p *parser) consumeBlock(open token.Token) ([]token.Token, token.Pos) {
	contents, end := p.consumeBlockTokens(open, nil)
	if end == nil {
		return contents, p.s.cur.Position()
	}
	return contents, end.Position()
}

// consumeBlockTokens appends tokens to out up to the mirror of open.
// The closing token is returned separately, or nil at EOF. A {-block still
// open at EOF is reported once, at its innermost opening brace.
func (p *parser) consumeBlockTokens(open token.Token, out []token.Token) ([]token.Token, token.Token) {
	closer := open.Kind().Mirror()
	for {
		tok := p.s.next()
		switch {
		case tok.Kind() == closer:
			return out, tok
		case tok.Kind() == token.EOF:
			p.reportUnterminated(open)
			return out, nil
		case tok.Kind().Mirror() != token.EOF:
			out = append(out, tok)
			var end token.Token
			out, end = p.consumeBlockTokens(tok, out)
			if end == nil {
				// EOF inside a nested ( or [ still leaves open unterminated.
				p.reportUnterminated(open)
				return out, nil
			}
			out = append(out, end)
		default:
			out = append(out, tok)
		}
	}
}

func (p *parser) reportUnterminated(open token.Token) {
	if open.Kind() == token.OpenCurly && !p.eofReported {
		p.eofReported = true
		p.report(codes.CSSSyntaxUnterminatedBlock, open.Position())
	}
}

func isSkippable(tok token.Token) bool {
	return tok.Kind() == token.Whitespace || tok.Kind() == token.Comment
}

func onlySkippable(tokens []token.Token) bool {
	for _, tok := range tokens {
		if !isSkippable(tok) {
			return false
		}
	}
	return true
}

// trimWhitespace drops leading and trailing whitespace and comments.
func trimWhitespace(tokens []token.Token) []token.Token {
	start, end := 0, len(tokens)
	for start < end && isSkippable(tokens[start]) {
		start++
	}
	for end > start && isSkippable(tokens[end-1]) {
		end--
	}
	if start == end {
		return nil
	}
	return tokens[start:end]
}
