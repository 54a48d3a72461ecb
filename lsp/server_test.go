package lsp_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notification struct {
	method string
	params any
}

type client struct {
	mu    sync.Mutex
	sent  []notification
	calls []notification
}

func (c *client) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.sent = append(c.sent, notification{method, params})
		},
		Call: func(method string, params any, result any) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.calls = append(c.calls, notification{method, params})
		},
	}
}

func (c *client) published() []protocol.PublishDiagnosticsParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []protocol.PublishDiagnosticsParams
	for _, n := range c.sent {
		if n.method == protocol.ServerTextDocumentPublishDiagnostics {
			out = append(out, n.params.(protocol.PublishDiagnosticsParams))
		}
	}
	return out
}

func newServer(t *testing.T) *lsp.Server {
	t.Helper()
	s, err := lsp.NewServer()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		log.SetLevel(log.LevelInfo)
	})
	return s
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestServerDefaults(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, config.Default(), s.Config())
	assert.Empty(t, s.ConfigSource())
	assert.Nil(t, s.ClientDiagnosticCapability())
	assert.False(t, s.UsePullDiagnostics())
	assert.True(t, s.Options().Policy.AllowRelative)
}

func TestLoadWorkspaceConfig(t *testing.T) {
	t.Run("yaml file", func(t *testing.T) {
		s := newServer(t)
		root := t.TempDir()
		path := writeFile(t, root, ".ampvalidator.yaml", "allowRelativeURLs: false\n")
		s.SetRootPath(root)

		require.NoError(t, s.LoadWorkspaceConfig())
		assert.Equal(t, path, s.ConfigSource())
		assert.False(t, s.Config().AllowRelativeURLs)
		assert.False(t, s.Options().Policy.AllowRelative)
	})

	t.Run("package.json field", func(t *testing.T) {
		s := newServer(t)
		root := t.TempDir()
		writeFile(t, root, "package.json", `{"name": "site", "ampValidator": {"allowedProtocols": ["https"]}}`)
		s.SetRootPath(root)

		require.NoError(t, s.LoadWorkspaceConfig())
		assert.Equal(t, []string{"https"}, s.Config().AllowedProtocols)
	})

	t.Run("invalid file keeps the previous config", func(t *testing.T) {
		s := newServer(t)
		root := t.TempDir()
		writeFile(t, root, ".ampvalidator.yaml", "rules: [bogus]\n")
		s.SetRootPath(root)

		assert.Error(t, s.LoadWorkspaceConfig())
		assert.Equal(t, config.Default(), s.Config())
	})

	t.Run("no root", func(t *testing.T) {
		s := newServer(t)
		assert.NoError(t, s.LoadWorkspaceConfig())
		assert.Empty(t, s.ConfigSource())
	})
}

func TestSetClientConfig(t *testing.T) {
	s := newServer(t)
	root := t.TempDir()
	writeFile(t, root, ".ampvalidator.yaml", "workers: 3\n")
	s.SetRootPath(root)
	require.NoError(t, s.LoadWorkspaceConfig())

	client := config.Default()
	client.AllowRelativeURLs = false
	require.NoError(t, s.SetClientConfig(&client))
	assert.False(t, s.Config().AllowRelativeURLs, "client settings win")
	assert.Equal(t, 0, s.Config().Workers)

	bad := config.Default()
	bad.Rules = []string{"bogus"}
	assert.Error(t, s.SetClientConfig(&bad))
	assert.False(t, s.Config().AllowRelativeURLs, "rejected settings change nothing")

	require.NoError(t, s.SetClientConfig(nil))
	assert.Equal(t, 3, s.Config().Workers, "back to the workspace config")
	assert.True(t, s.Options().Policy.AllowRelative)
}

func TestSetClientConfigAppliesLogLevel(t *testing.T) {
	s := newServer(t)
	cfg := config.Default()
	cfg.LogLevel = "debug"
	require.NoError(t, s.SetClientConfig(&cfg))
	assert.Equal(t, log.LevelDebug, log.GetLevel())
}

func TestIsConfigFile(t *testing.T) {
	s := newServer(t)
	assert.False(t, s.IsConfigFile("/site/.ampvalidator.yaml"), "no root")

	s.SetRootPath("/site")
	assert.True(t, s.IsConfigFile("/site/.ampvalidator.yaml"))
	assert.True(t, s.IsConfigFile("/site/.ampvalidator.yml"))
	assert.True(t, s.IsConfigFile("/site/package.json"))
	assert.False(t, s.IsConfigFile("/site/sub/package.json"))
	assert.False(t, s.IsConfigFile("/site/index.html"))
	assert.False(t, s.IsConfigFile("/other/.ampvalidator.yaml"))
}

func TestPublishDiagnostics(t *testing.T) {
	t.Run("push", func(t *testing.T) {
		s := newServer(t)
		c := &client{}
		require.NoError(t, s.DocumentManager().DidOpen("file:///a.css", "css", 1, ".b {}"))

		require.NoError(t, s.PublishDiagnostics(c.context(), "file:///a.css"))

		sent := c.published()
		require.Len(t, sent, 1)
		assert.Equal(t, "file:///a.css", sent[0].URI)
		assert.Len(t, sent[0].Diagnostics, 1)
	})

	t.Run("falls back to the stored context", func(t *testing.T) {
		s := newServer(t)
		c := &client{}
		s.SetGLSPContext(c.context())
		require.NoError(t, s.DocumentManager().DidOpen("file:///a.css", "css", 1, "@keyframes k {}"))

		require.NoError(t, s.PublishDiagnostics(&glsp.Context{}, "file:///a.css"))

		sent := c.published()
		require.Len(t, sent, 1)
		assert.Empty(t, sent[0].Diagnostics)
	})

	t.Run("no context", func(t *testing.T) {
		s := newServer(t)
		assert.Error(t, s.PublishDiagnostics(nil, "file:///a.css"))
	})

	t.Run("pull model sends nothing", func(t *testing.T) {
		s := newServer(t)
		s.SetUsePullDiagnostics(true)
		c := &client{}
		require.NoError(t, s.DocumentManager().DidOpen("file:///a.css", "css", 1, ".b {}"))

		require.NoError(t, s.PublishDiagnostics(c.context(), "file:///a.css"))
		require.NoError(t, s.ClearDiagnostics(c.context(), "file:///a.css"))
		assert.Empty(t, c.published())
	})

	t.Run("clear", func(t *testing.T) {
		s := newServer(t)
		c := &client{}

		require.NoError(t, s.ClearDiagnostics(c.context(), "file:///a.css"))

		sent := c.published()
		require.Len(t, sent, 1)
		assert.NotNil(t, sent[0].Diagnostics)
		assert.Empty(t, sent[0].Diagnostics)
	})
}

func TestRegisterFileWatchers(t *testing.T) {
	t.Run("no client", func(t *testing.T) {
		s := newServer(t)
		assert.NoError(t, s.RegisterFileWatchers(nil))
		assert.NoError(t, s.RegisterFileWatchers(&glsp.Context{}))
	})

	t.Run("registers config patterns", func(t *testing.T) {
		s := newServer(t)
		s.SetRootPath("/site")
		c := &client{}

		require.NoError(t, s.RegisterFileWatchers(c.context()))

		require.Eventually(t, func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			return len(c.calls) == 1
		}, time.Second, 10*time.Millisecond)

		c.mu.Lock()
		defer c.mu.Unlock()
		assert.Equal(t, "client/registerCapability", c.calls[0].method)
		params := c.calls[0].params.(protocol.RegistrationParams)
		require.Len(t, params.Registrations, 1)
		opts := params.Registrations[0].RegisterOptions.(protocol.DidChangeWatchedFilesRegistrationOptions)

		var patterns []string
		for _, w := range opts.Watchers {
			patterns = append(patterns, w.GlobPattern)
		}
		assert.Equal(t, []string{"/site/.ampvalidator.yaml", "/site/.ampvalidator.yml", "/site/package.json"}, patterns)
	})
}
