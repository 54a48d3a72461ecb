package validator

import (
	"github.com/ampproject/amphtml-sub099/internal/codes"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
)

// Error is a reported problem with its rendered message.
type Error struct {
	Code     codes.Code     `json:"code"`
	Severity codes.Severity `json:"severity"`
	Line     int            `json:"line"`
	Col      int            `json:"col"`
	Offset   int            `json:"offset"`
	Params   []string       `json:"params,omitempty"`
	Message  string         `json:"message"`
}

// Report is the outcome of validating one input.
type Report struct {
	Source string  `json:"source,omitempty"`
	Errors []Error `json:"errors"`
}

// NewReport renders errs, which should already be in document order.
func NewReport(errs []token.ErrorToken) *Report {
	r := &Report{Errors: make([]Error, 0, len(errs))}
	for _, e := range errs {
		r.Errors = append(r.Errors, Error{
			Code:     e.Code,
			Severity: e.Code.Severity(),
			Line:     e.Pos.Line,
			Col:      e.Pos.Col,
			Offset:   e.Pos.Offset,
			Params:   e.Params,
			Message:  e.Message(),
		})
	}
	return r
}

// Pass reports whether nothing of error severity was found.
func (r *Report) Pass() bool {
	for _, e := range r.Errors {
		if e.Severity == codes.SeverityError {
			return false
		}
	}
	return true
}

// Status is PASS or FAIL.
func (r *Report) Status() string {
	if r.Pass() {
		return "PASS"
	}
	return "FAIL"
}
