package lifecycle

import (
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized stores the client context, loads the workspace config and
// asks the client to watch config files. Failures of the last two are
// warnings; the server keeps running on defaults.
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadWorkspaceConfig(); err != nil {
		req.Warnf("failed to load workspace config: %w", err)
	}
	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.Warnf("failed to register file watchers: %w", err)
	}
	return nil
}
