package diagnostic

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LSP 3.17 pull diagnostics shapes that glsp v0.2.2 lacks, cut down to
// what this server reads and sends. Result ids are not tracked, so every
// report is "full".

// DocumentDiagnosticParams are the textDocument/diagnostic request params.
type DocumentDiagnosticParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

const reportKindFull = "full"

// FullReport is the textDocument/diagnostic response.
type FullReport struct {
	Kind  string                `json:"kind"`
	Items []protocol.Diagnostic `json:"items"`
}

// DiagnosticOptions is the diagnosticProvider capability. Both fields are
// required by the protocol; validation is per document.
type DiagnosticOptions struct {
	InterFileDependencies bool `json:"interFileDependencies"`
	WorkspaceDiagnostics  bool `json:"workspaceDiagnostics"`
}
