package types

import (
	"fmt"
	"slices"

	"github.com/tliron/glsp"
)

// RequestContext is handed to every LSP handler. Server is the long-lived
// state; GLSP is the connection for this message and may be nil in tests.
//
// Handlers report recoverable problems as warnings instead of failing the
// message. The middleware sends them to the client as window/logMessage.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context
	warnings []error
}

func NewRequestContext(server ServerContext, ctx *glsp.Context) *RequestContext {
	return &RequestContext{Server: server, GLSP: ctx}
}

// AddWarning records err. A nil err is ignored.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnf records a warning built with fmt.Errorf, so %w wraps.
func (r *RequestContext) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Errorf(format, args...))
}

// Warnings returns a copy of the recorded warnings, in order.
func (r *RequestContext) Warnings() []error {
	return slices.Clone(r.warnings)
}

func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}
