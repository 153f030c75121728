package parser

import (
	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/source"
	"cfa/internal/token"
)

func typeFromToken(k token.Kind) ast.TypeName {
	switch k {
	case token.KwInt:
		return ast.TypeInt
	case token.KwFloat:
		return ast.TypeFloat
	case token.KwDouble:
		return ast.TypeDouble
	case token.KwChar:
		return ast.TypeChar
	case token.KwVoid:
		return ast.TypeVoid
	default:
		return ast.TypeInvalid
	}
}

// parseType съедает ключевое слово типа; вызывающий проверяет IsTypeKeyword заранее.
func (p *Parser) parseType() (ast.TypeName, source.Span) {
	if !p.lx.Peek().IsTypeKeyword() {
		p.err(diag.SynExpectType, "expected type name, got "+describe(p.lx.Peek()))
		return ast.TypeInvalid, p.getDiagnosticSpan()
	}
	tok := p.advance()
	return typeFromToken(tok.Kind), tok.Span
}
