package ast

import (
	"cfa/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtDecl
	StmtAssign
	StmtCall
	StmtReturn
	StmtIf
	StmtWhile
	StmtFor
	StmtEmpty
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "block"
	case StmtDecl:
		return "decl"
	case StmtAssign:
		return "assign"
	case StmtCall:
		return "call"
	case StmtReturn:
		return "return"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtFor:
		return "for"
	case StmtEmpty:
		return "empty"
	default:
		return "stmt(?)"
	}
}

// Stmt is a statement node. Span covers the full statement text including a trailing ';'
// where the grammar has one (for-loop init and step assignments have none).
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtBlockData struct {
	Stmts []StmtID
}

type StmtAssignData struct {
	Name     string
	NameSpan source.Span
	Value    ExprID
}

type StmtCallData struct {
	Call ExprID
}

type StmtReturnData struct {
	Value ExprID // NoExprID для `return;`
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

type StmtForData struct {
	Init StmtID // StmtAssign
	Cond ExprID
	Post StmtID // StmtAssign
	Body StmtID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[StmtBlockData]
	Decls   *Arena[DeclData]
	Assigns *Arena[StmtAssignData]
	Calls   *Arena[StmtCallData]
	Returns *Arena[StmtReturnData]
	Ifs     *Arena[StmtIfData]
	Whiles  *Arena[StmtWhileData]
	Fors    *Arena[StmtForData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[StmtBlockData](capHint),
		Decls:   NewArena[DeclData](capHint),
		Assigns: NewArena[StmtAssignData](capHint),
		Calls:   NewArena[StmtCallData](capHint),
		Returns: NewArena[StmtReturnData](capHint),
		Ifs:     NewArena[StmtIfData](capHint),
		Whiles:  NewArena[StmtWhileData](capHint),
		Fors:    NewArena[StmtForData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{Stmts: stmts}))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	p, ok := s.payload(id, StmtBlock)
	if !ok {
		return nil, false
	}
	return s.Blocks.Get(p), true
}

func (s *Stmts) NewDecl(span source.Span, decl DeclData) StmtID {
	return s.new(StmtDecl, span, s.Decls.Allocate(decl))
}

func (s *Stmts) Decl(id StmtID) (*DeclData, bool) {
	p, ok := s.payload(id, StmtDecl)
	if !ok {
		return nil, false
	}
	return s.Decls.Get(p), true
}

func (s *Stmts) NewAssign(span source.Span, data StmtAssignData) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(data))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(p), true
}

func (s *Stmts) NewCall(span source.Span, call ExprID) StmtID {
	return s.new(StmtCall, span, s.Calls.Allocate(StmtCallData{Call: call}))
}

func (s *Stmts) Call(id StmtID) (*StmtCallData, bool) {
	p, ok := s.payload(id, StmtCall)
	if !ok {
		return nil, false
	}
	return s.Calls.Get(p), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(StmtReturnData{Value: value}))
}

func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(p), true
}

func (s *Stmts) NewIf(span source.Span, data StmtIfData) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(data))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

func (s *Stmts) NewWhile(span source.Span, data StmtWhileData) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(data))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(p), true
}

func (s *Stmts) NewFor(span source.Span, data StmtForData) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(data))
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

func (s *Stmts) NewEmpty(span source.Span) StmtID {
	return s.new(StmtEmpty, span, 0)
}
