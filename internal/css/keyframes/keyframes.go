// Package keyframes implements the rule-set for <style amp-keyframes>
// stylesheets: qualified rules must sit inside a keyframes at-rule, must
// carry at least one declaration, and keyframes at-rules must not nest.
package keyframes

import (
	"strings"

	"github.com/ampproject/amphtml-sub099/internal/codes"
	"github.com/ampproject/amphtml-sub099/internal/collections"
	"github.com/ampproject/amphtml-sub099/internal/css/ast"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
	"github.com/ampproject/amphtml-sub099/internal/css/tokenizer"
	"github.com/ampproject/amphtml-sub099/internal/css/visitor"
)

var atRuleNames = collections.NewSet(
	"keyframes",
	"-moz-keyframes",
	"-o-keyframes",
	"-webkit-keyframes",
)

// IsKeyframes reports whether name (without the @) is a keyframes-family
// at-rule. The comparison is case insensitive.
func IsKeyframes(name string) bool {
	return atRuleNames.Has(strings.ToLower(name))
}

// Visitor validates keyframes structure. Use a fresh Visitor per
// stylesheet; it is not safe for concurrent use.
type Visitor struct {
	visitor.Base

	parentIsKeyframesAtRule bool
	stack                   []bool
}

// New returns a Visitor ready for one Walk.
func New() *Visitor {
	return &Visitor{}
}

func (v *Visitor) VisitAtRule(r *ast.AtRule, errs *token.ErrorList) {
	v.stack = append(v.stack, v.parentIsKeyframesAtRule)
	if !atRuleNames.Has(r.LowerName()) {
		v.parentIsKeyframesAtRule = false
		return
	}
	if v.parentIsKeyframesAtRule {
		errs.Report(codes.CSSSyntaxDisallowedKeyframeInsideKeyframe, r.Pos, tokenizer.Tag)
	}
	v.parentIsKeyframesAtRule = true
}

// LeaveAtRule restores the state saved by the matching VisitAtRule. It
// panics when there is none.
func (v *Visitor) LeaveAtRule(*ast.AtRule, *token.ErrorList) {
	n := len(v.stack)
	if n == 0 {
		panic("keyframes: LeaveAtRule without matching VisitAtRule")
	}
	v.parentIsKeyframesAtRule = v.stack[n-1]
	v.stack = v.stack[:n-1]
}

func (v *Visitor) VisitQualifiedRule(r *ast.QualifiedRule, errs *token.ErrorList) {
	if !v.parentIsKeyframesAtRule {
		errs.Report(codes.CSSSyntaxDisallowedQualifiedRuleMustBeInsideKeyframe, r.Pos, tokenizer.Tag, r.RuleName())
		return
	}
	if len(r.Declarations) == 0 {
		errs.Report(codes.CSSSyntaxQualifiedRuleHasNoDeclarations, r.Pos, tokenizer.Tag, r.RuleName())
	}
}

// LeaveStylesheet panics if the at-rule stack is unbalanced.
func (v *Visitor) LeaveStylesheet(*ast.Stylesheet, *token.ErrorList) {
	if len(v.stack) != 0 {
		panic("keyframes: VisitAtRule without matching LeaveAtRule")
	}
}
