package lsp

import (
	"encoding/json"

	"github.com/ampproject/amphtml-sub099/lsp/methods/textDocument/diagnostic"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler with the LSP 3.17 pieces glsp
// v0.2.2 lacks: the diagnostic client capability and the
// textDocument/diagnostic request.
type CustomHandler struct {
	*protocol.Handler // Pointer to avoid copying embedded mutex
	server            *Server
}

// Handle implements glsp.Handler
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case "initialize":
		// The parsed 3.16 InitializeParams drops capabilities.textDocument.diagnostic,
		// so read it from the raw params before the normal handler runs.
		h.server.SetClientDiagnosticCapability(DetectPullDiagnosticsSupport(context.Params))

	case "textDocument/diagnostic":
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		result, err := method(h.server, "textDocument/diagnostic", diagnostic.DocumentDiagnostic)(context, &params)
		if err != nil {
			return nil, true, true, err
		}
		return result, true, true, nil
	}

	return h.Handler.Handle(context)
}
