package lifecycle

import (
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace handles the $/setTrace notification. "verbose" turns on debug
// logging; anything else restores the configured level.
func SetTrace(req *types.RequestContext, params *protocol.SetTraceParams) error {
	log.Info("Trace level set to: %s", params.Value)
	if params.Value == protocol.TraceValueVerbose {
		log.SetLevel(log.LevelDebug)
		return nil
	}
	level, err := req.Server.Config().Level()
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
