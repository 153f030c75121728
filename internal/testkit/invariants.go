package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cfa/internal/ast"
	"cfa/internal/source"
)

// CheckSpanInvariants verifies the span tree of a parsed file:
//   - the file span is non-empty and within the content
//   - every item, statement and expression span is non-empty and lies inside
//     its parent (file → item → statement → nested statement/expression)
//   - names (function, parameter, declarator, assignment target, callee) lie
//     inside the node that carries them
//
// The CFG builder copies statement and condition text by span, so a span
// escaping its parent shows up as garbled CFG text.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	if f.Span.Empty() {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	c := spanChecker{b: b}
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		if err := c.inside("item", f.Span, item.Span); err != nil {
			return err
		}
		if fn, ok := b.Items.Fn(it); ok {
			err = c.fn(item.Span, fn)
		} else if decl, ok := b.Items.Decl(it); ok {
			err = c.decl(item.Span, decl)
		}
		if err != nil {
			return fmt.Errorf("item %d: %w", it, err)
		}
	}
	return nil
}

type spanChecker struct {
	b *ast.Builder
}

func (c spanChecker) inside(what string, parent, sp source.Span) error {
	if sp.Empty() {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if !parent.Contains(sp) {
		return fmt.Errorf("%s span %v is outside %v", what, sp, parent)
	}
	return nil
}

func (c spanChecker) fn(parent source.Span, fn *ast.FnItem) error {
	if err := c.inside("function name", parent, fn.NameSpan); err != nil {
		return err
	}
	for _, p := range fn.Params {
		if err := c.inside("parameter", parent, p.Span); err != nil {
			return err
		}
	}
	return c.stmt(parent, fn.Body)
}

func (c spanChecker) decl(parent source.Span, d *ast.DeclData) error {
	for _, dl := range d.Declarators {
		if err := c.inside("declarator "+dl.Name, parent, dl.NameSpan); err != nil {
			return err
		}
		if err := c.expr(parent, dl.Init); err != nil {
			return err
		}
	}
	return nil
}

func (c spanChecker) stmt(parent source.Span, id ast.StmtID) error {
	if !id.IsValid() {
		return nil
	}
	st := c.b.Stmts.Get(id)
	if st == nil {
		return fmt.Errorf("nil stmt for id=%d", id)
	}
	if err := c.inside(st.Kind.String()+" statement", parent, st.Span); err != nil {
		return err
	}
	sp := st.Span
	s := c.b.Stmts

	switch st.Kind {
	case ast.StmtBlock:
		blk, _ := s.Block(id)
		for _, child := range blk.Stmts {
			if err := c.stmt(sp, child); err != nil {
				return err
			}
		}
	case ast.StmtDecl:
		d, _ := s.Decl(id)
		return c.decl(sp, d)
	case ast.StmtAssign:
		a, _ := s.Assign(id)
		if err := c.inside("assignment target", sp, a.NameSpan); err != nil {
			return err
		}
		return c.expr(sp, a.Value)
	case ast.StmtCall:
		call, _ := s.Call(id)
		return c.expr(sp, call.Call)
	case ast.StmtReturn:
		ret, _ := s.Return(id)
		return c.expr(sp, ret.Value)
	case ast.StmtIf:
		data, _ := s.If(id)
		if err := c.expr(sp, data.Cond); err != nil {
			return err
		}
		if err := c.stmt(sp, data.Then); err != nil {
			return err
		}
		return c.stmt(sp, data.Else)
	case ast.StmtWhile:
		data, _ := s.While(id)
		if err := c.expr(sp, data.Cond); err != nil {
			return err
		}
		return c.stmt(sp, data.Body)
	case ast.StmtFor:
		data, _ := s.For(id)
		for _, part := range []ast.StmtID{data.Init, data.Post, data.Body} {
			if err := c.stmt(sp, part); err != nil {
				return err
			}
		}
		return c.expr(sp, data.Cond)
	}
	return nil
}

func (c spanChecker) expr(parent source.Span, id ast.ExprID) error {
	if !id.IsValid() {
		return nil
	}
	e := c.b.Exprs
	ex := e.Get(id)
	if ex == nil {
		return fmt.Errorf("nil expr for id=%d", id)
	}
	if err := c.inside("expression", parent, ex.Span); err != nil {
		return err
	}
	sp := ex.Span

	switch ex.Kind {
	case ast.ExprCall:
		call, _ := e.Call(id)
		if err := c.inside("callee "+call.Callee, sp, call.CalleeSpan); err != nil {
			return err
		}
		for _, arg := range call.Args {
			if err := c.expr(sp, arg); err != nil {
				return err
			}
		}
	case ast.ExprBinary:
		bin, _ := e.Binary(id)
		if err := c.expr(sp, bin.Left); err != nil {
			return err
		}
		return c.expr(sp, bin.Right)
	case ast.ExprUnary:
		un, _ := e.Unary(id)
		return c.expr(sp, un.Operand)
	case ast.ExprGroup:
		g, _ := e.Group(id)
		return c.expr(sp, g.Inner)
	}
	return nil
}
