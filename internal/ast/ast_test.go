package ast

import (
	"testing"

	"cfa/internal/source"
)

func TestArenaOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatal("index 0 must be the nil sentinel")
	}
	id := a.Allocate(7)
	if id != 1 {
		t.Fatalf("expected first id 1, got %d", id)
	}
	if *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("unexpected arena state")
	}
	if a.Get(2) != nil {
		t.Error("out of range Get should return nil")
	}
}

func TestWalkExprPreOrder(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	// f(a, g(b)) + c
	a := b.Exprs.NewIdent(sp, "a")
	bb := b.Exprs.NewIdent(sp, "b")
	g := b.Exprs.NewCall(sp, ExprCallData{Callee: "g", Args: []ExprID{bb}})
	f := b.Exprs.NewCall(sp, ExprCallData{Callee: "f", Args: []ExprID{a, g}})
	c := b.Exprs.NewIdent(sp, "c")
	sum := b.Exprs.NewBinary(sp, ExprBinaryAdd, f, c)

	var order []string
	b.Exprs.WalkExpr(sum, func(id ExprID, e *Expr) bool {
		switch e.Kind {
		case ExprIdent:
			d, _ := b.Exprs.Ident(id)
			order = append(order, d.Name)
		case ExprCall:
			d, _ := b.Exprs.Call(id)
			order = append(order, d.Callee+"()")
		case ExprBinary:
			order = append(order, "+")
		}
		return true
	})
	want := []string{"+", "f()", "a", "g()", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestStmtPayloadKindCheck(t *testing.T) {
	b := NewBuilder(Hints{})
	ret := b.Stmts.NewReturn(source.Span{}, NoExprID)
	if _, ok := b.Stmts.If(ret); ok {
		t.Error("If() must reject a return statement")
	}
	data, ok := b.Stmts.Return(ret)
	if !ok || data.Value.IsValid() {
		t.Errorf("unexpected return payload: %+v %v", data, ok)
	}
}
