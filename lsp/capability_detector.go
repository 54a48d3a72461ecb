package lsp

import (
	"encoding/json"
)

// DetectPullDiagnosticsSupport reports whether the raw initialize params
// declare capabilities.textDocument.diagnostic. Any non-null value counts,
// even an empty object. Malformed params mean push.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var initParams struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic *json.RawMessage `json:"diagnostic"`
			} `json:"textDocument"`
		} `json:"capabilities"`
	}

	if err := json.Unmarshal(rawParams, &initParams); err != nil {
		return false
	}
	if initParams.Capabilities.TextDocument == nil {
		return false
	}
	return initParams.Capabilities.TextDocument.Diagnostic != nil
}
