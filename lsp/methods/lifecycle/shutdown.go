package lifecycle

import (
	"github.com/ampproject/amphtml-sub099/internal/html"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	html.ClosePool()
	return nil
}
