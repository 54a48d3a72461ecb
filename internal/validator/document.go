package validator

import (
	"fmt"

	"github.com/ampproject/amphtml-sub099/internal/css/token"
	"github.com/ampproject/amphtml-sub099/internal/css/tokenizer"
	"github.com/ampproject/amphtml-sub099/internal/html"
)

// ValidateDocument validates the AMP style blocks and URL attributes of
// an HTML document. <style amp-keyframes> runs the configured rule-sets;
// <style amp-custom> is only checked for syntax. Other <style> elements
// are ignored. Positions are document coordinates.
func ValidateDocument(source string, opts Options) (*Report, error) {
	ex, err := html.Extract(source, opts.Policy.Attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}

	var errs []token.ErrorToken
	for _, region := range ex.Styles {
		var rules []RuleSet
		switch region.Kind {
		case html.AmpKeyframes:
			rules = opts.RuleSets
		case html.AmpCustom:
		default:
			continue
		}
		start := tokenizer.WithStartPosition(region.Start.Line, region.Start.Col, region.Start.Offset)
		errs = append(errs, validateStylesheet(region.Content, rules, start)...)
	}

	for _, attr := range ex.URLs {
		pos := token.Pos{Offset: attr.Start.Offset, Line: attr.Start.Line, Col: attr.Start.Col}
		errs = append(errs, checkURL(attr.Name, attr.Tag, attr.Value, opts.Policy, pos)...)
	}

	token.SortByPosition(errs)
	return NewReport(errs), nil
}
