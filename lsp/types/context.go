package types

import (
	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/internal/validator"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers only see this interface so tests can substitute a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration. Settings pushed by the client take precedence over
	// the workspace config file; SetClientConfig(nil) drops them.
	Config() config.Config
	ConfigSource() string
	Options() validator.Options
	LoadWorkspaceConfig() error
	SetClientConfig(cfg *config.Config) error
	IsConfigFile(path string) bool
	RegisterFileWatchers(ctx *glsp.Context) error

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostics model
	ClientDiagnosticCapability() *bool
	SetClientDiagnosticCapability(hasCapability bool)
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)

	// Diagnostics publishing
	PublishDiagnostics(ctx *glsp.Context, uri string) error
	ClearDiagnostics(ctx *glsp.Context, uri string) error
}
