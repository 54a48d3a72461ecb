package testutil

import (
	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/internal/validator"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	"github.com/tliron/glsp"
)

var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext implements types.ServerContext for testing.
// It provides a minimal implementation with configurable behavior via callback functions.
type MockServerContext struct {
	docs         *documents.Manager
	rootURI      string
	rootPath     string
	config       config.Config
	clientConfig *config.Config
	configSource string
	glspContext  *glsp.Context
	diagCap      *bool
	usePull      bool

	// Optional callbacks for custom behavior in tests
	LoadConfigFunc         func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	IsConfigFileFunc       func(string) bool
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Tracking for tests that need to verify methods were called
	LoadConfigCalled       bool
	RegisterWatchersCalled bool
	Published              []string
	Cleared                []string
}

// NewMockServerContext creates a new mock server context with default behavior
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		config: config.Default(),
	}
}

func (m *MockServerContext) Document(uri string) *documents.Document { return m.docs.Get(uri) }
func (m *MockServerContext) DocumentManager() *documents.Manager     { return m.docs }
func (m *MockServerContext) AllDocuments() []*documents.Document     { return m.docs.GetAll() }

func (m *MockServerContext) RootURI() string         { return m.rootURI }
func (m *MockServerContext) RootPath() string        { return m.rootPath }
func (m *MockServerContext) SetRootURI(uri string)   { m.rootURI = uri }
func (m *MockServerContext) SetRootPath(path string) { m.rootPath = path }

// Config returns the client config when set, else the workspace config.
func (m *MockServerContext) Config() config.Config {
	if m.clientConfig != nil {
		return *m.clientConfig
	}
	return m.config
}

func (m *MockServerContext) ConfigSource() string { return m.configSource }

// SetWorkspaceConfig replaces the config LoadWorkspaceConfig would find.
func (m *MockServerContext) SetWorkspaceConfig(cfg config.Config, source string) {
	m.config = cfg
	m.configSource = source
}

// Options resolves Config, falling back to the defaults.
func (m *MockServerContext) Options() validator.Options {
	opts, err := validator.NewOptions(m.Config())
	if err != nil {
		return validator.DefaultOptions()
	}
	return opts
}

func (m *MockServerContext) LoadWorkspaceConfig() error {
	m.LoadConfigCalled = true
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	return nil
}

func (m *MockServerContext) SetClientConfig(cfg *config.Config) error {
	if cfg != nil {
		if _, err := validator.NewOptions(*cfg); err != nil {
			return err
		}
	}
	m.clientConfig = cfg
	return nil
}

func (m *MockServerContext) IsConfigFile(path string) bool {
	if m.IsConfigFileFunc != nil {
		return m.IsConfigFileFunc(path)
	}
	return false
}

func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

func (m *MockServerContext) GLSPContext() *glsp.Context       { return m.glspContext }
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) { m.glspContext = ctx }

func (m *MockServerContext) ClientDiagnosticCapability() *bool { return m.diagCap }
func (m *MockServerContext) SetClientDiagnosticCapability(hasCapability bool) {
	m.diagCap = &hasCapability
}
func (m *MockServerContext) UsePullDiagnostics() bool       { return m.usePull }
func (m *MockServerContext) SetUsePullDiagnostics(use bool) { m.usePull = use }

func (m *MockServerContext) PublishDiagnostics(ctx *glsp.Context, uri string) error {
	m.Published = append(m.Published, uri)
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(ctx, uri)
	}
	return nil
}

func (m *MockServerContext) ClearDiagnostics(_ *glsp.Context, uri string) error {
	m.Cleared = append(m.Cleared, uri)
	return nil
}
