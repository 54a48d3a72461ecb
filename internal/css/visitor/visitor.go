// Package visitor walks a parsed stylesheet and dispatches enter/leave
// hooks to rule-sets. Rule-sets only read the tree; findings are appended
// to the error list passed to every hook.
package visitor

import (
	"github.com/ampproject/amphtml-sub099/internal/css/ast"
	"github.com/ampproject/amphtml-sub099/internal/css/token"
)

// Visitor receives hooks for every node during Walk.
type Visitor interface {
	VisitStylesheet(s *ast.Stylesheet, errs *token.ErrorList)
	LeaveStylesheet(s *ast.Stylesheet, errs *token.ErrorList)
	VisitAtRule(r *ast.AtRule, errs *token.ErrorList)
	LeaveAtRule(r *ast.AtRule, errs *token.ErrorList)
	VisitQualifiedRule(r *ast.QualifiedRule, errs *token.ErrorList)
	LeaveQualifiedRule(r *ast.QualifiedRule, errs *token.ErrorList)
	VisitDeclaration(d *ast.Declaration, errs *token.ErrorList)
}

// Base implements every hook as a no-op. Embed it and override the hooks a
// rule-set cares about.
type Base struct{}

func (Base) VisitStylesheet(*ast.Stylesheet, *token.ErrorList)       {}
func (Base) LeaveStylesheet(*ast.Stylesheet, *token.ErrorList)       {}
func (Base) VisitAtRule(*ast.AtRule, *token.ErrorList)               {}
func (Base) LeaveAtRule(*ast.AtRule, *token.ErrorList)               {}
func (Base) VisitQualifiedRule(*ast.QualifiedRule, *token.ErrorList) {}
func (Base) LeaveQualifiedRule(*ast.QualifiedRule, *token.ErrorList) {}
func (Base) VisitDeclaration(*ast.Declaration, *token.ErrorList)     {}

// Walk traverses sheet in pre-order. Every Visit hook is matched by exactly
// one Leave hook once the node's children are done.
func Walk(sheet *ast.Stylesheet, v Visitor, errs *token.ErrorList) {
	if sheet == nil {
		return
	}
	v.VisitStylesheet(sheet, errs)
	walkRules(sheet.Rules, v, errs)
	v.LeaveStylesheet(sheet, errs)
}

func walkRules(rules []ast.Rule, v Visitor, errs *token.ErrorList) {
	for _, rule := range rules {
		switch r := rule.(type) {
		case *ast.AtRule:
			v.VisitAtRule(r, errs)
			walkRules(r.Rules, v, errs)
			walkDeclarations(r.Declarations, v, errs)
			v.LeaveAtRule(r, errs)
		case *ast.QualifiedRule:
			v.VisitQualifiedRule(r, errs)
			walkDeclarations(r.Declarations, v, errs)
			v.LeaveQualifiedRule(r, errs)
		}
	}
}

func walkDeclarations(decls []*ast.Declaration, v Visitor, errs *token.ErrorList) {
	for _, d := range decls {
		v.VisitDeclaration(d, errs)
	}
}

type multi []Visitor

// Multi returns a Visitor that forwards each hook to vs in order, so
// several rule-sets share a single traversal.
func Multi(vs ...Visitor) Visitor {
	return multi(vs)
}

func (m multi) VisitStylesheet(s *ast.Stylesheet, errs *token.ErrorList) {
	for _, v := range m {
		v.VisitStylesheet(s, errs)
	}
}

func (m multi) LeaveStylesheet(s *ast.Stylesheet, errs *token.ErrorList) {
	for _, v := range m {
		v.LeaveStylesheet(s, errs)
	}
}

func (m multi) VisitAtRule(r *ast.AtRule, errs *token.ErrorList) {
	for _, v := range m {
		v.VisitAtRule(r, errs)
	}
}

func (m multi) LeaveAtRule(r *ast.AtRule, errs *token.ErrorList) {
	for _, v := range m {
		v.LeaveAtRule(r, errs)
	}
}

func (m multi) VisitQualifiedRule(r *ast.QualifiedRule, errs *token.ErrorList) {
	for _, v := range m {
		v.VisitQualifiedRule(r, errs)
	}
}

func (m multi) LeaveQualifiedRule(r *ast.QualifiedRule, errs *token.ErrorList) {
	for _, v := range m {
		v.LeaveQualifiedRule(r, errs)
	}
}

func (m multi) VisitDeclaration(d *ast.Declaration, errs *token.ErrorList) {
	for _, v := range m {
		v.VisitDeclaration(d, errs)
	}
}
