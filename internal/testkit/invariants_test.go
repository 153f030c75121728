package testkit_test

import (
	"strings"
	"testing"

	"cfa/internal/ast"
	"cfa/internal/cfg"
	"cfa/internal/testkit"
)

const allConstructs = `int g = 1;
int f(int a, int b) {
    int x = a + (b * 2);
    if (!x) { x = h(a, b); } else { h(x); }
    while (x < 10) x = x + 1;
    for (a = 0; a < b; a = a + 1) { ; }
    return x;
}
`

func parseClean(t *testing.T) cfg.Source {
	t.Helper()
	src, bag := testkit.ParseSourceDiag(allConstructs)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	return src
}

func TestSpanInvariantsHoldForParsedFile(t *testing.T) {
	src := parseClean(t)
	if err := testkit.CheckSpanInvariants(src.AST, src.File, src.Text); err != nil {
		t.Fatal(err)
	}
}

func TestSpanInvariantsCatchEscapingExpression(t *testing.T) {
	src := parseClean(t)
	exprs := src.AST.Exprs
	for i := 1; i <= exprs.Arena.Len(); i++ {
		id := ast.ExprID(i)
		if ident, ok := exprs.Ident(id); ok && ident.Name == "b" {
			exprs.Get(id).Span.Start = 0
			break
		}
	}
	err := testkit.CheckSpanInvariants(src.AST, src.File, src.Text)
	if err == nil || !strings.Contains(err.Error(), "expression span") {
		t.Fatalf("err = %v, want an escaping expression", err)
	}
}

func TestSpanInvariantsCatchEscapingStatement(t *testing.T) {
	src := parseClean(t)
	stmts := src.AST.Stmts
	for i := 1; i <= stmts.Arena.Len(); i++ {
		st := stmts.Get(ast.StmtID(i))
		if st.Kind == ast.StmtReturn {
			st.Span.Start = 0
		}
	}
	err := testkit.CheckSpanInvariants(src.AST, src.File, src.Text)
	if err == nil || !strings.Contains(err.Error(), "return statement") {
		t.Fatalf("err = %v, want an escaping return", err)
	}
}
