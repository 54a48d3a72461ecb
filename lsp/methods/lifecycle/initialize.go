package lifecycle

import (
	"fmt"

	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/internal/uriutil"
	"github.com/ampproject/amphtml-sub099/internal/version"
	"github.com/ampproject/amphtml-sub099/lsp/methods/textDocument/diagnostic"
	"github.com/ampproject/amphtml-sub099/lsp/methods/workspace"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName is reported in serverInfo.
const ServerName = "amp-validator-language-server"

// InitializeResult carries capabilities as a map so LSP 3.17 fields such
// as diagnosticProvider can be advertised through glsp's 3.16 types.
type InitializeResult struct {
	Capabilities map[string]any                       `json:"capabilities"`
	ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
}

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	// The custom handler records the raw 3.17 diagnostic capability before
	// this runs.
	pull := false
	if c := req.Server.ClientDiagnosticCapability(); c != nil {
		pull = *c
	}
	req.Server.SetUsePullDiagnostics(pull)
	if pull {
		log.Info("Using pull diagnostics")
	} else {
		log.Info("Using push diagnostics")
	}

	switch {
	case params.RootURI != nil && *params.RootURI != "":
		path, err := uriutil.URIToPath(*params.RootURI)
		if err != nil {
			return nil, fmt.Errorf("invalid rootUri %q: %w", *params.RootURI, err)
		}
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(path)
		log.Info("Workspace root: %s", path)
	case params.RootPath != nil && *params.RootPath != "":
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
		log.Info("Workspace root (from rootPath): %s", *params.RootPath)
	}

	if params.InitializationOptions != nil {
		cfg, err := workspace.ParseSettings(params.InitializationOptions)
		if err == nil && cfg != nil {
			err = req.Server.SetClientConfig(cfg)
		}
		if err != nil {
			req.Warnf("ignoring initializationOptions: %w", err)
		}
	}

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
	}
	if pull {
		capabilities["diagnosticProvider"] = diagnostic.DiagnosticOptions{
			InterFileDependencies: false,
			WorkspaceDiagnostics:  false,
		}
	}

	v := version.Get().Version
	return InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &v,
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
