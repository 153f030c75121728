package parser

import (
	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/token"
)

// parseBlock разбирает `{ stmt* }`. При ошибке внутри оператора прокручиваемся
// до ';' или '}' и продолжаем, чтобы собрать больше диагностик.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID, false
	}
	var stmts []ast.StmtID
	okAll := true
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.opts.Enough() {
			return ast.NoStmtID, false
		}
		stmt, ok := p.parseStmt()
		if !ok {
			okAll = false
			p.resyncUntil(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			continue
		}
		stmts = append(stmts, stmt)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block"); !ok {
		return ast.NoStmtID, false
	}
	if !okAll {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(open.Span.Cover(p.lastSpan), stmts), true
}

// parseStmt выбирает распознаватель по первому токену.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok := p.lx.Peek()
	switch {
	case tok.IsTypeKeyword():
		return p.parseLocalDecl()
	case tok.Kind == token.Ident:
		return p.parseIdentStmt()
	case tok.Kind == token.KwReturn:
		return p.parseReturnStmt()
	case tok.Kind == token.KwIf:
		return p.parseIfStmt()
	case tok.Kind == token.KwWhile:
		return p.parseWhileStmt()
	case tok.Kind == token.KwFor:
		return p.parseForStmt()
	case tok.Kind == token.LBrace:
		return p.parseBlock()
	case tok.Kind == token.Semicolon:
		semi := p.advance()
		return p.arenas.Stmts.NewEmpty(semi.Span), true
	default:
		p.err(diag.SynUnexpectedToken, "unexpected "+describe(tok)+" at start of statement")
		return ast.NoStmtID, false
	}
}

// parseIdentStmt: `x = e;` или `f(args);`.
func (p *Parser) parseIdentStmt() (ast.StmtID, bool) {
	nameTok := p.advance()
	switch {
	case p.at(token.Assign):
		stmt, ok := p.parseAssignTail(nameTok)
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment"); !ok {
			return ast.NoStmtID, false
		}
		st := p.arenas.Stmts.Get(stmt)
		st.Span = st.Span.Cover(p.lastSpan)
		return stmt, true
	case p.at(token.LParen):
		call, ok := p.parseCallTail(nameTok)
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after call"); !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewCall(nameTok.Span.Cover(p.lastSpan), call), true
	default:
		p.err(diag.SynExpectAssignment, "expected '=' or '(' after \""+nameTok.Text+"\"")
		return ast.NoStmtID, false
	}
}

// parseAssign разбирает `x = e` без ';' (для заголовка for).
func (p *Parser) parseAssign() (ast.StmtID, bool) {
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected assignment target")
	if !ok {
		return ast.NoStmtID, false
	}
	if !p.at(token.Assign) {
		p.err(diag.SynExpectAssignment, "expected '=' after \""+nameTok.Text+"\"")
		return ast.NoStmtID, false
	}
	return p.parseAssignTail(nameTok)
}

func (p *Parser) parseAssignTail(nameTok token.Token) (ast.StmtID, bool) {
	p.advance() // '='
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewAssign(nameTok.Span.Cover(p.lastSpan), ast.StmtAssignData{
		Name:     nameTok.Text,
		NameSpan: nameTok.Span,
		Value:    value,
	}), true
}

func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	kw := p.advance()
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		v, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		value = v
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(p.lastSpan), value), true
}
