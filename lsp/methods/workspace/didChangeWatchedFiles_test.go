package workspace_test

import (
	"testing"

	"github.com/ampproject/amphtml-sub099/lsp/methods/workspace"
	"github.com/ampproject/amphtml-sub099/lsp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDidChangeWatchedFiles(t *testing.T) {
	t.Run("config change reloads and republishes", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.SetGLSPContext(&glsp.Context{})
		server.IsConfigFileFunc = func(path string) bool { return path == "/w/.ampvalidator.yaml" }
		require.NoError(t, server.DocumentManager().DidOpen("file:///w/a.html", "html", 1, ""))

		err := workspace.DidChangeWatchedFiles(newRequest(server), &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{
				{URI: "file:///w/.ampvalidator.yaml", Type: protocol.FileChangeTypeChanged},
			},
		})
		require.NoError(t, err)
		assert.True(t, server.LoadConfigCalled)
		assert.Equal(t, []string{"file:///w/a.html"}, server.Published)
	})

	t.Run("other files are ignored", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		req := newRequest(server)

		err := workspace.DidChangeWatchedFiles(req, &protocol.DidChangeWatchedFilesParams{
			Changes: []protocol.FileEvent{
				{URI: "file:///w/index.html", Type: protocol.FileChangeTypeChanged},
				{URI: "https://example.com/x", Type: protocol.FileChangeTypeCreated},
			},
		})
		require.NoError(t, err)
		assert.False(t, server.LoadConfigCalled)
		assert.True(t, req.HasWarnings(), "non-file URIs are reported")
	})
}
