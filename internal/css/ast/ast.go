// Package ast declares the node types of a parsed CSS stylesheet.
//
// The tree is strictly owned: a Stylesheet owns its rules, an AtRule owns its
// nested rules or declarations and a QualifiedRule owns its declarations.
package ast

import (
	"strings"

	"github.com/ampproject/amphtml-sub099/internal/css/token"
)

// Node represents a node in the stylesheet tree.
type Node interface {
	Position() token.Pos
	node()
}

func (*Stylesheet) node()    {}
func (*AtRule) node()        {}
func (*QualifiedRule) node() {}
func (*Declaration) node()   {}

// Rule is either an *AtRule or a *QualifiedRule.
type Rule interface {
	Node
	rule()
}

func (*AtRule) rule()        {}
func (*QualifiedRule) rule() {}

// Stylesheet is the root of the tree.
type Stylesheet struct {
	Rules []Rule
	Pos   token.Pos
}

func (s *Stylesheet) Position() token.Pos { return s.Pos }

// AtRule represents a rule starting with an at-keyword, e.g. @keyframes.
// Depending on Name the block holds Rules, Declarations, or neither when its
// contents are ignored.
type AtRule struct {
	Name         string
	Prelude      []token.Token
	Rules        []Rule
	Declarations []*Declaration
	// HasBlock is false for statement at-rules such as "@import url(a);".
	HasBlock bool
	Pos      token.Pos
}

func (r *AtRule) Position() token.Pos { return r.Pos }

// LowerName returns Name in ASCII lower case; at-rule names are case
// insensitive.
func (r *AtRule) LowerName() string {
	return strings.ToLower(r.Name)
}

// QualifiedRule represents a prelude followed by a declaration block,
// e.g. ".foo { color: red }" or "from { opacity: 0 }".
type QualifiedRule struct {
	Prelude      []token.Token
	Declarations []*Declaration
	Pos          token.Pos
}

func (r *QualifiedRule) Position() token.Pos { return r.Pos }

// RuleName returns the serialized prelude with surrounding whitespace
// trimmed and inner whitespace runs collapsed, e.g. ".foo" or "50%".
func (r *QualifiedRule) RuleName() string {
	return Serialize(r.Prelude)
}

// Declaration represents a "name: value [!important]" pair.
type Declaration struct {
	Name      string
	Value     []token.Token
	Important bool
	Pos       token.Pos
}

func (d *Declaration) Position() token.Pos { return d.Pos }

// ValueString returns the serialized value without the !important flag.
func (d *Declaration) ValueString() string {
	return Serialize(d.Value)
}

// Serialize concatenates the CSS serialization of tokens, dropping
// comments and collapsing whitespace.
func Serialize(tokens []token.Token) string {
	var b strings.Builder
	pendingSpace := false
	for _, tok := range tokens {
		switch tok.Kind() {
		case token.Whitespace:
			pendingSpace = b.Len() > 0
			continue
		case token.Comment, token.EOF, token.Error:
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteString(tok.String())
	}
	return b.String()
}
