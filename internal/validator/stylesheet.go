package validator

import (
	"github.com/ampproject/amphtml-sub099/internal/css/parser"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
	"github.com/ampproject/amphtml-sub099/internal/css/tokenizer"
	"github.com/ampproject/amphtml-sub099/internal/css/visitor"
)

// ValidateStylesheet tokenizes and parses css, walks it with the
// configured rule-sets and returns every error in document order.
func ValidateStylesheet(css string, opts Options) []token.ErrorToken {
	return validateStylesheet(css, opts.RuleSets)
}

func validateStylesheet(css string, ruleSets []RuleSet, topts ...tokenizer.Option) []token.ErrorToken {
	var errs token.ErrorList
	sheet := parser.Parse(tokenizer.Tokenize(css, topts...), &errs)

	if len(ruleSets) > 0 {
		vs := make([]visitor.Visitor, len(ruleSets))
		for i, rs := range ruleSets {
			vs[i] = rs.New()
		}
		visitor.Walk(sheet, visitor.Multi(vs...), &errs)
	}

	out := errs.Tokens()
	token.SortByPosition(out)
	return out
}
