package ast

import (
	"cfa/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemDecl
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// FnParam is a single `type name` entry of a parameter list.
type FnParam struct {
	Type TypeName
	Name string
	Span source.Span
}

// FnItem is a function definition.
type FnItem struct {
	Name       string
	NameSpan   source.Span
	RetType    TypeName
	Params     []FnParam
	ParamsSpan source.Span // между скобками, пустой если параметров нет
	Body       StmtID
}

type Items struct {
	Arena *Arena[Item]
	Fns   *Arena[FnItem]
	Decls *Arena[DeclData]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Fns:   NewArena[FnItem](capHint),
		Decls: NewArena[DeclData](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewFn(sp source.Span, fn FnItem) ItemID {
	payload := i.Fns.Allocate(fn)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemFn, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) NewDecl(sp source.Span, decl DeclData) ItemID {
	payload := i.Decls.Allocate(decl)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemDecl, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) Decl(id ItemID) (*DeclData, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemDecl {
		return nil, false
	}
	return i.Decls.Get(uint32(item.Payload)), true
}
