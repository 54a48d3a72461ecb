package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/lsp"
	"github.com/ampproject/amphtml-sub099/lsp/methods/textDocument"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// FixtureRoot returns the path to the test fixtures directory
func FixtureRoot() string {
	return filepath.Join("..", "fixtures")
}

// LoadFixture returns the content of a fixture file
func LoadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(FixtureRoot(), name)
	data, err := os.ReadFile(path) //nolint:gosec // G304: Test fixture path - test code only
	require.NoError(t, err, "Failed to load fixture: %s", name)
	return string(data)
}

// NewTestServer creates a new LSP server for testing and closes it when
// the test ends.
func NewTestServer(t *testing.T) *lsp.Server {
	t.Helper()
	server, err := lsp.NewServer()
	require.NoError(t, err, "Failed to create test server")
	t.Cleanup(func() { _ = server.Close() })
	return server
}

// Client records what the server sends to the editor.
type Client struct {
	mu          sync.Mutex
	diagnostics map[string][]protocol.Diagnostic
	messages    []protocol.LogMessageParams
}

// NewClient returns a Client and installs its context on server, as the
// initialized notification does.
func NewClient(server *lsp.Server) *Client {
	c := &Client{diagnostics: map[string][]protocol.Diagnostic{}}
	server.SetGLSPContext(c.Context())
	return c
}

// Context returns a glsp context whose notifications land in c.
func (c *Client) Context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			c.mu.Lock()
			defer c.mu.Unlock()
			switch p := params.(type) {
			case protocol.PublishDiagnosticsParams:
				c.diagnostics[p.URI] = p.Diagnostics
			case protocol.LogMessageParams:
				c.messages = append(c.messages, p)
			}
		},
		Call: func(string, any, any) {},
	}
}

// Diagnostics returns the last diagnostics published for uri and whether
// any were published at all.
func (c *Client) Diagnostics(uri string) ([]protocol.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.diagnostics[uri]
	return d, ok
}

// Codes returns the codes of the last diagnostics published for uri.
func (c *Client) Codes(uri string) []string {
	d, _ := c.Diagnostics(uri)
	codes := make([]string, 0, len(d))
	for _, diag := range d {
		if diag.Code != nil {
			codes = append(codes, diag.Code.Value.(string))
		}
	}
	return codes
}

// Request returns a request context bound to the client.
func (c *Client) Request(server *lsp.Server) *types.RequestContext {
	return types.NewRequestContext(server, c.Context())
}

// OpenFixture opens a fixture file as a document in the server
func OpenFixture(t *testing.T, server *lsp.Server, c *Client, uri, fixtureName string) {
	t.Helper()
	content := LoadFixture(t, fixtureName)
	languageID := "css"
	if documents.DetectKind(fixtureName, "") == documents.KindHTML {
		languageID = "html"
	}
	err := textDocument.DidOpen(c.Request(server), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: languageID,
			Version:    1,
			Text:       content,
		},
	})
	require.NoError(t, err, "Failed to open fixture: %s", fixtureName)
}
