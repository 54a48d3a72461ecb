package textDocument

import (
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen handles the textDocument/didOpen notification
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	log.Info("Document opened: %s (language: %s, version: %d)", doc.URI, doc.LanguageID, doc.Version)

	if err := req.Server.DocumentManager().DidOpen(doc.URI, doc.LanguageID, int(doc.Version), doc.Text); err != nil {
		return err
	}
	publish(req, doc.URI)
	return nil
}

// DidChange handles the textDocument/didChange notification
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)
	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	if err := req.Server.DocumentManager().DidChange(uri, version, params.ContentChanges); err != nil {
		return err
	}
	publish(req, uri)
	return nil
}

// DidClose handles the textDocument/didClose notification. Diagnostics
// pushed for the document are withdrawn.
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Info("Document closed: %s", uri)

	if err := req.Server.DocumentManager().DidClose(uri); err != nil {
		return err
	}
	if ctx := req.Server.GLSPContext(); ctx != nil && !req.Server.UsePullDiagnostics() {
		if err := req.Server.ClearDiagnostics(ctx, uri); err != nil {
			req.Warnf("failed to clear diagnostics for %s: %w", uri, err)
		}
	}
	return nil
}

// publish pushes diagnostics unless the client pulls them.
func publish(req *types.RequestContext, uri string) {
	if req.Server.UsePullDiagnostics() {
		return
	}
	ctx := req.Server.GLSPContext()
	if ctx == nil {
		return
	}
	if err := req.Server.PublishDiagnostics(ctx, uri); err != nil {
		req.Warnf("failed to publish diagnostics for %s: %w", uri, err)
	}
}
