package cfg

import (
	"strings"

	"cfa/internal/ast"
)

// collectUses returns every identifier referenced in the expression tree.
// A call contributes only its arguments: the callee name is not a variable.
func collectUses(exprs *ast.Exprs, id ast.ExprID) []string {
	var out []string
	if !id.IsValid() {
		return out
	}
	exprs.WalkExpr(id, func(eid ast.ExprID, _ *ast.Expr) bool {
		if ident, ok := exprs.Ident(eid); ok {
			out = append(out, ident.Name)
		}
		return true
	})
	return out
}

// collectCallees lists callee names of all calls in pre-order.
func collectCallees(exprs *ast.Exprs, id ast.ExprID) []string {
	var out []string
	if !id.IsValid() {
		return out
	}
	exprs.WalkExpr(id, func(eid ast.ExprID, _ *ast.Expr) bool {
		if call, ok := exprs.Call(eid); ok {
			out = append(out, call.Callee)
		}
		return true
	})
	return out
}

// callNotes renders " # <tag>: f -> f_entry" for every callee.
func callNotes(tag string, callees []string) string {
	var sb strings.Builder
	for _, c := range callees {
		sb.WriteString(" # ")
		sb.WriteString(tag)
		sb.WriteString(": ")
		sb.WriteString(c)
		sb.WriteString(" -> ")
		sb.WriteString(c)
		sb.WriteString("_entry")
	}
	return sb.String()
}
