package documents

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ampproject/amphtml-sub099/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager manages text documents for the language server
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get returns a snapshot of the document, or nil if it is not open.
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[uri]
	if !ok {
		return nil
	}
	return doc.snapshot()
}

// GetAll returns snapshots of all open documents ordered by URI.
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc.snapshot())
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].uri < docs[j].uri })
	return docs
}

// DidOpen handles the textDocument/didOpen notification
func (m *Manager) DidOpen(uri, languageID string, version int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents[uri] = NewDocument(uri, languageID, version, content)
	return nil
}

// DidClose handles the textDocument/didClose notification
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	delete(m.documents, uri)
	return nil
}

// DidChange handles the textDocument/didChange notification. changes holds
// protocol.TextDocumentContentChangeEvent and
// protocol.TextDocumentContentChangeEventWhole values as glsp decodes them;
// anything else is rejected.
func (m *Manager) DidChange(uri string, version int, changes []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	newContent, err := applyChanges(doc.Content(), changes)
	if err != nil {
		return fmt.Errorf("failed to apply changes: %w", err)
	}

	if err := doc.SetContent(newContent, version); err != nil {
		return fmt.Errorf("failed to set document content: %w", err)
	}
	return nil
}

// applyChanges applies content changes in order.
func applyChanges(content string, changes []any) (string, error) {
	result := content

	for i, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			result = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				result = c.Text
				continue
			}
			next, err := applyIncrementalChange(result, *c.Range, c.Text)
			if err != nil {
				return "", err
			}
			result = next
		default:
			return "", fmt.Errorf("change %d has unsupported type %T", i, change)
		}
	}

	return result, nil
}

// applyIncrementalChange replaces the text covered by r. LSP positions use
// UTF-16 code units, so they are converted to byte offsets through the
// line index.
func applyIncrementalChange(content string, r protocol.Range, text string) (string, error) {
	idx := position.NewIndex(content)
	lines := idx.LineCount()

	// One past the last line is allowed for insertion at EOF.
	if int(r.Start.Line) > lines {
		return "", fmt.Errorf("start line %d out of bounds (total lines: %d)", r.Start.Line, lines)
	}
	if int(r.End.Line) > lines {
		return "", fmt.Errorf("end line %d out of bounds (total lines: %d)", r.End.Line, lines)
	}

	start := idx.Offset(position.Position{Line: r.Start.Line, Character: r.Start.Character})
	end := idx.Offset(position.Position{Line: r.End.Line, Character: r.End.Character})
	if end < start {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d",
			r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}

	var b strings.Builder
	b.Grow(len(content) - (end - start) + len(text))
	b.WriteString(content[:start])
	b.WriteString(text)
	b.WriteString(content[end:])
	return b.String(), nil
}
