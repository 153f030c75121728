package parser

import (
	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/source"
	"cfa/internal/token"
)

// parseDeclRest разбирает хвост объявления после `type name`:
// опциональный инициализатор, `, declarator`* и завершающую ';'.
func (p *Parser) parseDeclRest(typ ast.TypeName, typSpan source.Span, first token.Token) (ast.DeclData, bool) {
	decl := ast.DeclData{Type: typ, TypeSpan: typSpan}
	if typ == ast.TypeVoid {
		p.report(diag.SynVoidVariable, diag.SevError, first.Span, "variable \""+first.Text+"\" declared void")
	}

	nameTok := first
	for {
		d := ast.Declarator{Name: nameTok.Text, NameSpan: nameTok.Span}
		if p.at(token.Assign) {
			p.advance()
			init, ok := p.parseExpr()
			if !ok {
				return decl, false
			}
			d.Init = init
		}
		decl.Declarators = append(decl.Declarators, d)

		if !p.at(token.Comma) {
			break
		}
		p.advance()
		var ok bool
		nameTok, ok = p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after ','")
		if !ok {
			return decl, false
		}
	}

	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		return decl, false
	}
	return decl, true
}

// parseLocalDecl — объявление внутри тела функции.
func (p *Parser) parseLocalDecl() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	typ, typSpan := p.parseType()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after type")
	if !ok {
		return ast.NoStmtID, false
	}
	decl, ok := p.parseDeclRest(typ, typSpan, nameTok)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewDecl(start.Cover(p.lastSpan), decl), true
}
