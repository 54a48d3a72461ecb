package documents

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/ampproject/amphtml-sub099/internal/position"
)

// Kind classifies what a document is validated as.
type Kind int

const (
	// KindUnknown documents are tracked but never validated.
	KindUnknown Kind = iota
	// KindCSS documents are validated as a keyframes stylesheet.
	KindCSS
	// KindHTML documents have their AMP style blocks and URL attributes validated.
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindCSS:
		return "css"
	case KindHTML:
		return "html"
	}
	return "unknown"
}

// DetectKind classifies a document by language ID, falling back to the
// URI's extension.
func DetectKind(uri, languageID string) Kind {
	switch strings.ToLower(languageID) {
	case "css":
		return KindCSS
	case "html":
		return KindHTML
	}
	switch strings.ToLower(path.Ext(uri)) {
	case ".css":
		return KindCSS
	case ".html", ".htm":
		return KindHTML
	}
	return KindUnknown
}

// Document represents a text document being managed by the language server
type Document struct {
	uri        string
	languageID string
	content    string
	version    int

	indexOnce sync.Once
	index     *position.Index
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

// URI returns the document's URI
func (d *Document) URI() string {
	return d.uri
}

// LanguageID returns the document's language identifier
func (d *Document) LanguageID() string {
	return d.languageID
}

// Kind returns how the document is validated.
func (d *Document) Kind() Kind {
	return DetectKind(d.uri, d.languageID)
}

// Version returns the document's version
func (d *Document) Version() int {
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	return d.content
}

// Index returns the line index of the current content, built on first use.
func (d *Document) Index() *position.Index {
	d.indexOnce.Do(func() {
		d.index = position.NewIndex(d.content)
	})
	return d.index
}

// snapshot returns a copy that is safe to hand out while d keeps changing.
func (d *Document) snapshot() *Document {
	return NewDocument(d.uri, d.languageID, d.version, d.content)
}

// SetContent updates the document's content and version.
// Returns an error if the provided version is older than the current document version,
// preventing stale updates from being applied.
func (d *Document) SetContent(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	d.indexOnce = sync.Once{}
	d.index = nil
	return nil
}
