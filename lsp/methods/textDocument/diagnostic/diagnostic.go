// Package diagnostic turns validator reports into LSP diagnostics, for
// both the push (publishDiagnostics) and pull (textDocument/diagnostic)
// models.
package diagnostic

import (
	"unicode/utf8"

	"github.com/ampproject/amphtml-sub099/internal/codes"
	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/internal/validator"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source is the diagnostic source shown by clients.
const Source = "amp-validator"

// DocumentDiagnostic handles the textDocument/diagnostic request (pull diagnostics).
// glsp only knows LSP 3.16, so the custom handler routes this method here.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		return nil, err
	}

	return FullReport{
		Kind:  reportKindFull,
		Items: diagnostics,
	}, nil
}

// GetDiagnostics validates an open document. Documents that are not open
// or are neither CSS nor HTML have no diagnostics.
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil || doc.Kind() == documents.KindUnknown {
		return []protocol.Diagnostic{}, nil
	}

	report, err := validator.Validate(validator.Input{
		Name:    uri,
		Content: doc.Content(),
		Kind:    doc.Kind(),
	}, ctx.Options())
	if err != nil {
		return nil, err
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(report.Errors))
	for _, e := range report.Errors {
		diagnostics = append(diagnostics, ToDiagnostic(doc, e))
	}
	return diagnostics, nil
}

// ToDiagnostic converts a validator error. The range covers the character
// at the error's offset, or is empty at a line end.
func ToDiagnostic(doc *documents.Document, e validator.Error) protocol.Diagnostic {
	content := doc.Content()
	idx := doc.Index()

	end := e.Offset
	if end < len(content) && content[end] != '\n' && content[end] != '\r' {
		_, size := utf8.DecodeRuneInString(content[end:])
		end += size
	}
	start := idx.Position(e.Offset)
	stop := idx.Position(end)

	severity := protocol.DiagnosticSeverityError
	if e.Severity == codes.SeverityWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	source := Source

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: start.Line, Character: start.Character},
			End:   protocol.Position{Line: stop.Line, Character: stop.Character},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: e.Code.String()},
		Source:   &source,
		Message:  e.Message,
	}
}
