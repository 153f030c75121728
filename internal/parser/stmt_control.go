package parser

import (
	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/token"
)

// parseParenCond разбирает `( expr )` заголовка if/while.
func (p *Parser) parseParenCond(what string) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+what+"'"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after "+what+" condition"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenCond("if")
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		els, ok = p.parseStmt()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(kw.Span.Cover(p.lastSpan), ast.StmtIfData{Cond: cond, Then: then, Else: els}), true
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenCond("while")
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(kw.Span.Cover(p.lastSpan), ast.StmtWhileData{Cond: cond, Body: body}), true
}

// parseForStmt: `for ( x = e ; cond ; y = e ) stmt`. Все три части обязательны.
func (p *Parser) parseForStmt() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return ast.NoStmtID, false
	}
	init, ok := p.parseAssign()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynForBadHeader, "expected ';' after for initializer"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynForBadHeader, "expected ';' after for condition"); !ok {
		return ast.NoStmtID, false
	}
	post, ok := p.parseAssign()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close for header"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFor(kw.Span.Cover(p.lastSpan), ast.StmtForData{
		Init: init,
		Cond: cond,
		Post: post,
		Body: body,
	}), true
}
