package workspace

import (
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/internal/uriutil"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles reloads the workspace config when one of its
// files is created, changed or deleted, then republishes diagnostics.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Debug("Watched files changed: %d files", len(params.Changes))

	needsReload := false
	for _, change := range params.Changes {
		path, err := uriutil.URIToPath(change.URI)
		if err != nil {
			req.Warnf("ignoring change to %s: %w", change.URI, err)
			continue
		}
		if req.Server.IsConfigFile(path) {
			log.Info("Config file change: %s (type: %d)", path, change.Type)
			needsReload = true
		}
	}

	if !needsReload {
		return nil
	}
	if err := req.Server.LoadWorkspaceConfig(); err != nil {
		req.Warnf("failed to reload config: %w", err)
		return nil
	}
	RepublishAll(req)
	return nil
}
