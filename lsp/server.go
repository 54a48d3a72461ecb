package lsp

import (
	"fmt"
	"sync"

	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/internal/html"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/internal/validator"
	"github.com/ampproject/amphtml-sub099/lsp/methods/lifecycle"
	"github.com/ampproject/amphtml-sub099/lsp/methods/textDocument"
	"github.com/ampproject/amphtml-sub099/lsp/methods/textDocument/diagnostic"
	"github.com/ampproject/amphtml-sub099/lsp/methods/workspace"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server represents the AMP validator language server
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server
	context    *glsp.Context

	rootURI      string         // Workspace root URI
	rootPath     string         // Workspace root path (file system)
	workspaceCfg config.Config  // From .ampvalidator.yaml or package.json
	configSource string         // Where workspaceCfg came from; empty for defaults
	clientCfg    *config.Config // Pushed by the client; wins over workspaceCfg
	options      validator.Options
	configMu     sync.RWMutex // Protects all of the above plus the diagnostics flags

	clientDiagnosticCapability *bool // nil until initialize has been seen
	usePullDiagnostics         bool
}

// NewServer creates a new AMP validator LSP server
func NewServer() (*Server, error) {
	s := &Server{
		documents:    documents.NewManager(),
		workspaceCfg: config.Default(),
		options:      validator.DefaultOptions(),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
	}

	// glsp v0.2.2 speaks LSP 3.16; CustomHandler adds the 3.17 pull
	// diagnostics request in front of protocol.Handler.
	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, lifecycle.ServerName, false)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the HTML parser pool. It is safe to call more than once.
func (s *Server) Close() error {
	html.ClosePool()
	return nil
}

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// GLSPContext returns the context stored by initialized
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// ClientDiagnosticCapability returns the capability CustomHandler read from
// the raw initialize params, or nil before initialize.
func (s *Server) ClientDiagnosticCapability() *bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records whether the client declared
// textDocument.diagnostic.
func (s *Server) SetClientDiagnosticCapability(hasCapability bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics reports whether the client requests diagnostics
// itself. When true the server never sends textDocument/publishDiagnostics.
func (s *Server) UsePullDiagnostics() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.usePullDiagnostics
}

// SetUsePullDiagnostics selects the diagnostics model
func (s *Server) SetUsePullDiagnostics(use bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.usePullDiagnostics = use
}

// PublishDiagnostics validates uri and pushes the result to the client.
// It does nothing in the pull model.
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	if s.UsePullDiagnostics() {
		return nil
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	log.Debug("Publishing %d diagnostics for: %s", len(diagnostics), uri)
	return s.notifyDiagnostics(context, uri, diagnostics)
}

// ClearDiagnostics publishes an empty list for uri, as done when a
// document closes.
func (s *Server) ClearDiagnostics(context *glsp.Context, uri string) error {
	if s.UsePullDiagnostics() {
		return nil
	}
	return s.notifyDiagnostics(context, uri, []protocol.Diagnostic{})
}

func (s *Server) notifyDiagnostics(context *glsp.Context, uri string, diagnostics []protocol.Diagnostic) error {
	// Fall back to the context stored by initialized
	if context == nil || context.Notify == nil {
		context = s.GLSPContext()
	}
	if context == nil || context.Notify == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}
