package parser

import (
	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/source"
	"cfa/internal/token"
)

// parseFnItem разбирает `( params ) { body }` после `type name`.
func (p *Parser) parseFnItem(start source.Span, ret ast.TypeName, nameTok token.Token) (ast.ItemID, bool) {
	lparen := p.advance()
	fn := ast.FnItem{
		Name:       nameTok.Text,
		NameSpan:   nameTok.Span,
		RetType:    ret,
		ParamsSpan: source.Span{File: lparen.Span.File, Start: lparen.Span.End, End: lparen.Span.End},
	}

	if !p.at(token.RParen) {
		params, ok := p.parseParams()
		if !ok {
			return ast.NoItemID, false
		}
		fn.Params = params
		fn.ParamsSpan = params[0].Span.Cover(params[len(params)-1].Span)
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameter list"); !ok {
		return ast.NoItemID, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to start function body, got "+describe(p.lx.Peek()))
		return ast.NoItemID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Body = body
	return p.arenas.Items.NewFn(start.Cover(p.lastSpan), fn), true
}

func (p *Parser) parseParams() ([]ast.FnParam, bool) {
	var params []ast.FnParam
	for {
		typTok := p.lx.Peek()
		typ, typSpan := p.parseType()
		if typ == ast.TypeInvalid {
			return nil, false
		}
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		if typ == ast.TypeVoid {
			p.report(diag.SynVoidVariable, diag.SevError, typTok.Span, "parameter \""+nameTok.Text+"\" declared void")
		}
		params = append(params, ast.FnParam{Type: typ, Name: nameTok.Text, Span: typSpan.Cover(nameTok.Span)})
		if !p.at(token.Comma) {
			return params, true
		}
		p.advance()
	}
}
