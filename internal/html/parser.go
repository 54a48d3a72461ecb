// Package html finds the parts of an AMP document the validator checks:
// the contents of <style> elements and URL-bearing attributes.
package html

import (
	"errors"
	"fmt"
	stdhtml "html"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ampproject/amphtml-sub099/internal/collections"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser extracts style and URL regions from HTML
type Parser struct {
	parser     *sitter.Parser
	styleQuery *sitter.Query
	attrQuery  *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// ErrParse is returned when tree-sitter produces no tree for the input.
var ErrParse = errors.New("html: parse failed")

// parserPool holds idle parsers. It has no New func so ClosePool can
// drain it without allocating.
var parserPool sync.Pool

func newParser() *Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(htmlLang); err != nil {
		panic(fmt.Sprintf("failed to set HTML language: %v", err))
	}

	styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element) @style`)
	if qerr != nil {
		panic(fmt.Sprintf("failed to compile style query: %v", qerr))
	}

	attrQuery, qerr := sitter.NewQuery(htmlLang, `(attribute (attribute_name)) @attr`)
	if qerr != nil {
		panic(fmt.Sprintf("failed to compile attribute query: %v", qerr))
	}

	return &Parser{
		parser:     parser,
		styleQuery: styleQuery,
		attrQuery:  attrQuery,
	}
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p, ok := parserPool.Get().(*Parser)
	if !ok || p == nil {
		return newParser()
	}
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.styleQuery != nil {
		p.styleQuery.Close()
	}
	if p.attrQuery != nil {
		p.attrQuery.Close()
	}
}

// ClosePool closes the idle parsers in the pool. Parsers in use are
// unaffected; the pool refills on the next AcquireParser.
func ClosePool() {
	for {
		p, ok := parserPool.Get().(*Parser)
		if !ok || p == nil {
			return
		}
		p.Close()
	}
}

// ExtractStyles returns every <style> element of source using a pooled parser.
func ExtractStyles(source string) []StyleRegion {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Styles(source)
}

// ExtractURLs returns the attributes of source named in attrs using a
// pooled parser. Attribute names are compared in lower case.
func ExtractURLs(source string, attrs collections.Set[string]) []URLAttribute {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.URLs(source, attrs)
}

// Extract parses source once and returns its style regions and the
// attributes named in attrs.
func Extract(source string, attrs collections.Set[string]) (*Extraction, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Extract(source, attrs)
}

// Extract parses source once and returns its style regions and the
// attributes named in attrs.
func (p *Parser) Extract(source string, attrs collections.Set[string]) (*Extraction, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, ErrParse
	}
	defer tree.Close()

	loc := newLocator(source)
	return &Extraction{
		Styles: p.styles(tree.RootNode(), src, loc),
		URLs:   p.urls(tree.RootNode(), src, loc, attrs),
	}, nil
}

// Styles returns every <style> element of source in document order.
func (p *Parser) Styles(source string) []StyleRegion {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()
	return p.styles(tree.RootNode(), src, newLocator(source))
}

func (p *Parser) styles(root *sitter.Node, src []byte, loc *locator) []StyleRegion {
	var regions []StyleRegion

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(p.styleQuery, root, src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			region := StyleRegion{Start: loc.at(int(node.EndByte()))} //nolint:gosec // G115: bounded by file size
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				switch child.Kind() {
				case "start_tag":
					region.Kind = styleKind(child, src)
					region.Start = loc.at(int(child.EndByte())) //nolint:gosec // G115: bounded by file size
				case "raw_text":
					region.Content = loc.source[child.StartByte():child.EndByte()]
					region.Start = loc.at(int(child.StartByte())) //nolint:gosec // G115: bounded by file size
				}
			}
			regions = append(regions, region)
		}
	}

	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Start.Offset < regions[j].Start.Offset })
	return regions
}

// styleKind reads the AMP marker attribute from a style start tag.
func styleKind(startTag *sitter.Node, src []byte) StyleKind {
	kind := OtherStyle
	for i := uint(0); i < startTag.ChildCount(); i++ {
		attr := startTag.Child(i)
		if attr.Kind() != "attribute" {
			continue
		}
		switch attributeName(attr, src) {
		case "amp-keyframes":
			return AmpKeyframes
		case "amp-custom":
			kind = AmpCustom
		}
	}
	return kind
}

// URLs returns the attributes of source named in attrs in document order.
func (p *Parser) URLs(source string, attrs collections.Set[string]) []URLAttribute {
	if len(attrs) == 0 {
		return nil
	}
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()
	return p.urls(tree.RootNode(), src, newLocator(source), attrs)
}

func (p *Parser) urls(root *sitter.Node, src []byte, loc *locator, attrs collections.Set[string]) []URLAttribute {
	if len(attrs) == 0 {
		return nil
	}
	var out []URLAttribute

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(p.attrQuery, root, src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			name := attributeName(&node, src)
			if !attrs.Has(name) {
				continue
			}
			value, start := attributeValue(&node, src)
			out = append(out, URLAttribute{
				Tag:   tagName(node.Parent(), src),
				Name:  name,
				Value: value,
				Start: loc.at(start),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Offset < out[j].Start.Offset })
	return out
}

func attributeName(attr *sitter.Node, src []byte) string {
	for i := uint(0); i < attr.ChildCount(); i++ {
		if child := attr.Child(i); child.Kind() == "attribute_name" {
			return strings.ToLower(child.Utf8Text(src))
		}
	}
	return ""
}

// attributeValue returns the unescaped value and the byte offset where it
// starts. Attributes without a value yield "" at the attribute's start.
func attributeValue(attr *sitter.Node, src []byte) (string, int) {
	for i := uint(0); i < attr.ChildCount(); i++ {
		child := attr.Child(i)
		switch child.Kind() {
		case "attribute_value":
			return stdhtml.UnescapeString(child.Utf8Text(src)), int(child.StartByte()) //nolint:gosec // G115: bounded by file size
		case "quoted_attribute_value":
			for j := uint(0); j < child.ChildCount(); j++ {
				if v := child.Child(j); v.Kind() == "attribute_value" {
					return stdhtml.UnescapeString(v.Utf8Text(src)), int(v.StartByte()) //nolint:gosec // G115: bounded by file size
				}
			}
			return "", int(child.StartByte()) + 1 //nolint:gosec // G115: bounded by file size
		}
	}
	return "", int(attr.StartByte()) //nolint:gosec // G115: bounded by file size
}

func tagName(tag *sitter.Node, src []byte) string {
	if tag == nil {
		return ""
	}
	for i := uint(0); i < tag.ChildCount(); i++ {
		if child := tag.Child(i); child.Kind() == "tag_name" {
			return strings.ToLower(child.Utf8Text(src))
		}
	}
	return ""
}

// locator converts byte offsets to 1-based line and code point columns
// using the CSS tokenizer's newline rules, so positions of extracted CSS
// agree with positions the tokenizer stamps.
type locator struct {
	source string
	starts []int
}

func newLocator(source string) *locator {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n', '\f':
			starts = append(starts, i+1)
		}
	}
	return &locator{source: source, starts: starts}
}

func (l *locator) at(offset int) Location {
	offset = min(max(offset, 0), len(l.source))
	n := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return Location{
		Offset: offset,
		Line:   n + 1,
		Col:    utf8.RuneCountInString(l.source[l.starts[n]:offset]) + 1,
	}
}
