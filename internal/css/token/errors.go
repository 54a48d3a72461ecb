package token

import (
	"sort"

	"github.com/ampproject/amphtml-sub099/internal/codes"
)

// ErrorList accumulates ErrorTokens in the order they are reported.
// The zero value is ready to use.
type ErrorList struct {
	tokens []ErrorToken
}

// Add appends an error.
func (l *ErrorList) Add(e ErrorToken) {
	l.tokens = append(l.tokens, e)
}

// Report is shorthand for Add(NewError(code, pos, params...)).
func (l *ErrorList) Report(code codes.Code, pos Pos, params ...string) {
	l.Add(NewError(code, pos, params...))
}

// Len returns the number of errors collected so far.
func (l *ErrorList) Len() int {
	return len(l.tokens)
}

// Tokens returns a copy of the collected errors.
func (l *ErrorList) Tokens() []ErrorToken {
	return append([]ErrorToken(nil), l.tokens...)
}

// Codes returns the code of every collected error, in order.
func (l *ErrorList) Codes() []codes.Code {
	out := make([]codes.Code, len(l.tokens))
	for i, e := range l.tokens {
		out[i] = e.Code
	}
	return out
}

// SortByPosition orders errors by document position. Errors at the same
// position keep the order they were reported in.
func SortByPosition(errs []ErrorToken) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Pos.Before(errs[j].Pos)
	})
}
