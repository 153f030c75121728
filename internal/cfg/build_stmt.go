package cfg

import (
	"fmt"

	"cfa/internal/ast"
)

func (fb *funcBuilder) stmt(id ast.StmtID) error {
	stmts := fb.src.AST.Stmts
	st := stmts.Get(id)
	if st == nil {
		return fmt.Errorf("%w: statement %d not found", ErrMalformed, id)
	}

	switch st.Kind {
	case ast.StmtBlock:
		blk, ok := stmts.Block(id)
		if !ok {
			return malformed(st)
		}
		for _, child := range blk.Stmts {
			if err := fb.stmt(child); err != nil {
				return err
			}
		}
		return nil
	case ast.StmtEmpty:
		return nil
	case ast.StmtDecl:
		return fb.declStmt(id, st)
	case ast.StmtAssign:
		return fb.assignStmt(id, st)
	case ast.StmtCall:
		return fb.callStmt(id, st)
	case ast.StmtReturn:
		return fb.returnStmt(id, st)
	case ast.StmtIf:
		return fb.ifStmt(id, st)
	case ast.StmtWhile:
		return fb.whileStmt(id, st)
	case ast.StmtFor:
		return fb.forStmt(id, st)
	default:
		return malformed(st)
	}
}

func malformed(st *ast.Stmt) error {
	return fmt.Errorf("%w: unexpected %s statement at %s", ErrMalformed, st.Kind, st.Span)
}

func (fb *funcBuilder) declStmt(id ast.StmtID, st *ast.Stmt) error {
	decl, ok := fb.src.AST.Stmts.Decl(id)
	if !ok {
		return malformed(st)
	}
	exprs := fb.src.AST.Exprs
	var callees []string
	for _, d := range decl.Declarators {
		callees = append(callees, collectCallees(exprs, d.Init)...)
	}
	fb.emit(Stmt{Kind: StmtPlain, Text: fb.src.text(st.Span) + callNotes("call in expr", callees)})
	b := fb.curBlock()
	for _, d := range decl.Declarators {
		b.Def.Add(d.Name)
		b.Use.AddAll(collectUses(exprs, d.Init))
	}
	return nil
}

func (fb *funcBuilder) assignStmt(id ast.StmtID, st *ast.Stmt) error {
	as, ok := fb.src.AST.Stmts.Assign(id)
	if !ok {
		return malformed(st)
	}
	exprs := fb.src.AST.Exprs
	notes := callNotes("call in expr", collectCallees(exprs, as.Value))
	fb.emit(Stmt{Kind: StmtPlain, Text: fb.src.text(st.Span) + notes})
	fb.assignDefUse(as)
	return nil
}

func (fb *funcBuilder) assignDefUse(as *ast.StmtAssignData) {
	b := fb.curBlock()
	b.Def.Add(as.Name)
	b.Use.AddAll(collectUses(fb.src.AST.Exprs, as.Value))
}

func (fb *funcBuilder) callStmt(id ast.StmtID, st *ast.Stmt) error {
	cs, ok := fb.src.AST.Stmts.Call(id)
	if !ok {
		return malformed(st)
	}
	exprs := fb.src.AST.Exprs
	call, ok := exprs.Call(cs.Call)
	if !ok {
		return malformed(st)
	}
	fb.emit(Stmt{Kind: StmtPlain, Text: fb.src.text(st.Span) + callNotes("call", []string{call.Callee})})
	b := fb.curBlock()
	for _, arg := range call.Args {
		b.Use.AddAll(collectUses(exprs, arg))
	}
	return nil
}

func (fb *funcBuilder) returnStmt(id ast.StmtID, st *ast.Stmt) error {
	ret, ok := fb.src.AST.Stmts.Return(id)
	if !ok {
		return malformed(st)
	}
	exprs := fb.src.AST.Exprs
	b := fb.ensureBlock()
	b.Use.AddAll(collectUses(exprs, ret.Value))
	notes := callNotes("call in return", collectCallees(exprs, ret.Value))
	fb.emit(Stmt{Kind: StmtPlain, Text: fb.src.text(st.Span) + notes})
	fb.f.AddEdge(b.ID, fb.f.Exit)
	fb.cur = NoBlockID
	return nil
}

// condHeader renders "<kw> (<cond text>)".
func (fb *funcBuilder) condHeader(kw string, cond ast.ExprID) (string, error) {
	e := fb.src.AST.Exprs.Get(cond)
	if e == nil {
		return "", fmt.Errorf("%w: %s without condition", ErrMalformed, kw)
	}
	return kw + " (" + fb.src.text(e.Span) + ")", nil
}

func (fb *funcBuilder) ifStmt(id ast.StmtID, st *ast.Stmt) error {
	data, ok := fb.src.AST.Stmts.If(id)
	if !ok {
		return malformed(st)
	}
	header, err := fb.condHeader("if", data.Cond)
	if err != nil {
		return err
	}
	hasElse := data.Else.IsValid()

	cond := fb.ensureBlock().ID
	fb.curBlock().Use.AddAll(collectUses(fb.src.AST.Exprs, data.Cond))
	branches := []Branch{{Role: RoleThen}}
	if hasElse {
		branches = append(branches, Branch{Role: RoleElse})
	}
	idx := fb.emit(Stmt{Kind: StmtIf, Text: header, Branches: branches})

	f := fb.f
	thenB := fb.newBlock()
	f.AddEdge(cond, thenB)
	fb.deferBranch(cond, idx, RoleThen, thenB)

	join := fb.newBlock()

	fb.cur = thenB
	if err := fb.stmt(data.Then); err != nil {
		return err
	}
	if !fb.isTerminated() {
		f.AddEdge(fb.cur, join)
	}

	if hasElse {
		elseB := fb.newBlock()
		f.AddEdge(cond, elseB)
		fb.deferBranch(cond, idx, RoleElse, elseB)
		fb.cur = elseB
		if err := fb.stmt(data.Else); err != nil {
			return err
		}
		if !fb.isTerminated() {
			f.AddEdge(fb.cur, join)
		}
	} else {
		f.AddEdge(cond, join)
	}

	fb.cur = join
	return nil
}

func (fb *funcBuilder) whileStmt(id ast.StmtID, st *ast.Stmt) error {
	data, ok := fb.src.AST.Stmts.While(id)
	if !ok {
		return malformed(st)
	}
	header, err := fb.condHeader("while", data.Cond)
	if err != nil {
		return err
	}

	f := fb.f
	prev := fb.cur
	cond := fb.newBlock()
	if prev != NoBlockID {
		f.AddEdge(prev, cond)
	}
	fb.cur = cond
	fb.curBlock().Use.AddAll(collectUses(fb.src.AST.Exprs, data.Cond))
	idx := fb.emit(Stmt{Kind: StmtLoop, Text: header, Branches: []Branch{{Role: RoleLoopEnd}}})

	body := fb.newBlock()
	follow := fb.newBlock()
	f.AddEdge(cond, body)
	f.AddEdge(cond, follow)
	fb.deferBranch(cond, idx, RoleLoopEnd, follow)

	fb.cur = body
	if err := fb.stmt(data.Body); err != nil {
		return err
	}
	if !fb.isTerminated() {
		f.AddEdge(fb.cur, cond)
	}
	fb.cur = follow
	return nil
}

func (fb *funcBuilder) forStmt(id ast.StmtID, st *ast.Stmt) error {
	stmts := fb.src.AST.Stmts
	data, ok := stmts.For(id)
	if !ok {
		return malformed(st)
	}
	initSt, post := stmts.Get(data.Init), stmts.Get(data.Post)
	init, okInit := stmts.Assign(data.Init)
	inc, okPost := stmts.Assign(data.Post)
	if !okInit || !okPost {
		return malformed(st)
	}
	header, err := fb.condHeader("for", data.Cond)
	if err != nil {
		return err
	}

	f := fb.f
	fb.emit(Stmt{Kind: StmtPlain, Text: fb.src.text(initSt.Span) + ";"})
	fb.assignDefUse(init)

	cond := fb.newBlock()
	f.AddEdge(fb.cur, cond)
	fb.cur = cond
	fb.curBlock().Use.AddAll(collectUses(fb.src.AST.Exprs, data.Cond))
	idx := fb.emit(Stmt{Kind: StmtLoop, Text: header, Branches: []Branch{{Role: RoleLoopEnd}}})

	body := fb.newBlock()
	follow := fb.newBlock()
	f.AddEdge(cond, body)
	f.AddEdge(cond, follow)
	fb.deferBranch(cond, idx, RoleLoopEnd, follow)

	fb.cur = body
	if err := fb.stmt(data.Body); err != nil {
		return err
	}
	if !fb.isTerminated() {
		fb.emit(Stmt{Kind: StmtPlain, Text: fb.src.text(post.Span) + ";"})
		fb.assignDefUse(inc)
		f.AddEdge(fb.cur, cond)
	}
	fb.cur = follow
	return nil
}
