package token

import (
	"cfa/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric literal.
func (t Token) IsLiteral() bool {
	return t.Kind == IntLit || t.Kind == FloatLit
}

// IsTypeKeyword reports whether the token starts a type name.
func (t Token) IsTypeKeyword() bool {
	switch t.Kind {
	case KwInt, KwFloat, KwDouble, KwChar, KwVoid:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwInt && t.Kind <= KwReturn
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
