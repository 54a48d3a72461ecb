package lsp

import (
	"path/filepath"

	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// watchPatterns returns the glob patterns for the workspace config files.
func watchPatterns(root string) []string {
	prefix := "**/"
	if root != "" {
		prefix = filepath.ToSlash(filepath.Clean(root)) + "/"
	}
	patterns := make([]string, 0, len(config.FileNames)+1)
	for _, name := range config.FileNames {
		patterns = append(patterns, prefix+name)
	}
	return append(patterns, prefix+"package.json")
}

// RegisterFileWatchers asks the client to watch the workspace config files
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// &glsp.Context{} in tests has no Call
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	var watchers []protocol.FileSystemWatcher
	for _, pattern := range watchPatterns(s.RootPath()) {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: pattern})
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     "amp-validator-config-watcher",
				Method: "workspace/didChangeWatchedFiles",
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request. Calling it on the handler
	// goroutine would deadlock: the response can't be read until we return.
	go func() {
		var result any
		context.Call("client/registerCapability", params, &result)
		log.Debug("File watcher registration completed")
	}()

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}
