package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ampproject/amphtml-sub099/internal/uriutil"
	"github.com/ampproject/amphtml-sub099/lsp/methods/lifecycle"
	"github.com/ampproject/amphtml-sub099/lsp/methods/textDocument"
	"github.com/ampproject/amphtml-sub099/lsp/methods/textDocument/diagnostic"
	"github.com/ampproject/amphtml-sub099/lsp/methods/workspace"
	"github.com/ampproject/amphtml-sub099/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	cssURI  = "file:///site/keyframes.css"
	pageURI = "file:///site/page.html"

	mustBeInsideKeyframe = "CSS_SYNTAX_DISALLOWED_QUALIFIED_RULE_MUST_BE_INSIDE_KEYFRAME"
	keyframeInKeyframe   = "CSS_SYNTAX_DISALLOWED_KEYFRAME_INSIDE_KEYFRAME"
	invalidProtocol      = "INVALID_URL_PROTOCOL"
	disallowedRelative   = "DISALLOWED_RELATIVE_URL"
)

func TestDiagnostics_Stylesheet(t *testing.T) {
	server := testutil.NewTestServer(t)
	client := testutil.NewClient(server)

	testutil.OpenFixture(t, server, client, cssURI, "keyframes.css")

	diags, ok := client.Diagnostics(cssURI)
	require.True(t, ok, "diagnostics should be published on open")
	require.Len(t, diags, 2)

	assert.Equal(t, []string{mustBeInsideKeyframe, keyframeInKeyframe}, client.Codes(cssURI))
	assert.Equal(t, protocol.Position{Line: 5, Character: 0}, diags[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 8, Character: 2}, diags[1].Range.Start)
	assert.Contains(t, diags[0].Message, "'.banner'")
}

func TestDiagnostics_Document(t *testing.T) {
	server := testutil.NewTestServer(t)
	client := testutil.NewClient(server)

	testutil.OpenFixture(t, server, client, pageURI, "page.html")

	diags, _ := client.Diagnostics(pageURI)
	require.Len(t, diags, 2)
	assert.Equal(t, []string{mustBeInsideKeyframe, invalidProtocol}, client.Codes(pageURI))
	assert.Equal(t, protocol.Position{Line: 6, Character: 0}, diags[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 11, Character: 11}, diags[1].Range.Start)
}

func TestDiagnostics_IncrementalChange(t *testing.T) {
	server := testutil.NewTestServer(t)
	client := testutil.NewClient(server)
	testutil.OpenFixture(t, server, client, pageURI, "page.html")

	err := textDocument.DidChange(client.Request(server), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: pageURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 11, Character: 11},
					End:   protocol.Position{Line: 11, Character: 30},
				},
				Text: "https://amp.dev/",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{mustBeInsideKeyframe}, client.Codes(pageURI))
	assert.Equal(t, 2, server.Document(pageURI).Version())
}

func TestDiagnostics_CloseClears(t *testing.T) {
	server := testutil.NewTestServer(t)
	client := testutil.NewClient(server)
	testutil.OpenFixture(t, server, client, cssURI, "keyframes.css")

	err := textDocument.DidClose(client.Request(server), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: cssURI},
	})
	require.NoError(t, err)

	diags, ok := client.Diagnostics(cssURI)
	assert.True(t, ok)
	assert.Empty(t, diags)
	assert.Nil(t, server.Document(cssURI))
}

func TestDiagnostics_ClientSettings(t *testing.T) {
	server := testutil.NewTestServer(t)
	client := testutil.NewClient(server)
	testutil.OpenFixture(t, server, client, pageURI, "page.html")

	// No rule-sets: only syntax and URL checks remain.
	err := workspace.DidChangeConfiguration(client.Request(server), &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{
			"ampValidator": map[string]any{"rules": []any{}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{invalidProtocol}, client.Codes(pageURI))

	// Dropping the section restores the defaults.
	err = workspace.DidChangeConfiguration(client.Request(server), &protocol.DidChangeConfigurationParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{mustBeInsideKeyframe, invalidProtocol}, client.Codes(pageURI))
}

func TestDiagnostics_WorkspaceConfigFile(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, ".ampvalidator.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("allowRelativeURLs: false\n"), 0o600))

	server := testutil.NewTestServer(t)
	client := testutil.NewClient(server)
	server.SetRootPath(root)
	server.SetRootURI(uriutil.PathToURI(root))

	req := client.Request(server)
	require.NoError(t, lifecycle.Initialized(req, &protocol.InitializedParams{}))
	require.False(t, req.HasWarnings(), "%v", req.Warnings())
	assert.Equal(t, configPath, server.ConfigSource())

	testutil.OpenFixture(t, server, client, pageURI, "page.html")
	assert.Equal(t, []string{mustBeInsideKeyframe, disallowedRelative, invalidProtocol}, client.Codes(pageURI))

	require.NoError(t, os.WriteFile(configPath, []byte("allowRelativeURLs: true\n"), 0o600))
	err := workspace.DidChangeWatchedFiles(client.Request(server), &protocol.DidChangeWatchedFilesParams{
		Changes: []protocol.FileEvent{
			{URI: uriutil.PathToURI(configPath), Type: protocol.FileChangeTypeChanged},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{mustBeInsideKeyframe, invalidProtocol}, client.Codes(pageURI))
}

func TestDiagnostics_PullModel(t *testing.T) {
	server := testutil.NewTestServer(t)
	client := testutil.NewClient(server)
	server.SetUsePullDiagnostics(true)

	testutil.OpenFixture(t, server, client, cssURI, "keyframes.css")
	_, published := client.Diagnostics(cssURI)
	assert.False(t, published, "pull clients are never pushed diagnostics")

	result, err := diagnostic.DocumentDiagnostic(client.Request(server), &diagnostic.DocumentDiagnosticParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: cssURI},
	})
	require.NoError(t, err)
	report, ok := result.(diagnostic.FullReport)
	require.True(t, ok)
	assert.Len(t, report.Items, 2)
}
