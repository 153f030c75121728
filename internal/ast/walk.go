package ast

// WalkExpr visits id and its subexpressions in pre-order (node, then children left to right).
// Returning false from visit skips the children of that node.
func (e *Exprs) WalkExpr(id ExprID, visit func(id ExprID, expr *Expr) bool) {
	expr := e.Get(id)
	if expr == nil {
		return
	}
	if !visit(id, expr) {
		return
	}
	switch expr.Kind {
	case ExprCall:
		call, _ := e.Call(id)
		for _, arg := range call.Args {
			e.WalkExpr(arg, visit)
		}
	case ExprBinary:
		bin, _ := e.Binary(id)
		e.WalkExpr(bin.Left, visit)
		e.WalkExpr(bin.Right, visit)
	case ExprUnary:
		un, _ := e.Unary(id)
		e.WalkExpr(un.Operand, visit)
	case ExprGroup:
		g, _ := e.Group(id)
		e.WalkExpr(g.Inner, visit)
	}
}
