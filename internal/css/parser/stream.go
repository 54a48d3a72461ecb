package parser

import (
	"github.com/ampproject/amphtml-sub099/internal/css/token"
)

// stream walks a token slice. Error tokens are moved to the error list as
// the stream passes them, so the parser never sees them. Reading past the
// end keeps returning the final EOF token.
type stream struct {
	tokens    []token.Token
	i         int
	cur       token.Token
	reconsume bool
	errs      *token.ErrorList
}

func newStream(tokens []token.Token, errs *token.ErrorList) *stream {
	if n := len(tokens); n == 0 || tokens[n-1].Kind() != token.EOF {
		var end token.Pos
		if n > 0 {
			end = tokens[n-1].Position()
		} else {
			end = token.Pos{Line: 1, Col: 1}
		}
		tokens = append(tokens[:n:n], token.EOFToken{Pos: end})
	}
	return &stream{tokens: tokens, errs: errs}
}

// next consumes the next token.
func (s *stream) next() token.Token {
	if s.reconsume {
		s.reconsume = false
		return s.cur
	}
	for {
		if s.i >= len(s.tokens)-1 {
			s.cur = s.tokens[len(s.tokens)-1]
			return s.cur
		}
		tok := s.tokens[s.i]
		s.i++
		if e, ok := tok.(token.ErrorToken); ok {
			s.errs.Add(e)
			continue
		}
		s.cur = tok
		return tok
	}
}

// back makes the next call to next return the current token again.
func (s *stream) back() {
	s.reconsume = true
}
