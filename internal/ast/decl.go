package ast

import "cfa/internal/source"

// Declarator is one name in a declaration, with an optional initializer.
type Declarator struct {
	Name     string
	NameSpan source.Span
	Init     ExprID
}

// DeclData describes `type a, b = e;`. Used for globals and locals alike.
type DeclData struct {
	Type        TypeName
	TypeSpan    source.Span
	Declarators []Declarator
}
