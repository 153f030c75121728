package parser

import (
	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/source"
	"cfa/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precLogicalOr)
}

// parseBinaryExpr — precedence climbing; minPrec - минимальный приоритет текущего уровня.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		prec, op := binaryOp(p.lx.Peek().Kind)
		if prec < minPrec {
			break
		}
		p.advance()

		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}

		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(span, op, left, right)
	}

	return left, true
}

// parseUnaryExpr обрабатывает префиксы - + !
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	var op ast.ExprUnaryOp
	switch p.lx.Peek().Kind {
	case token.Minus:
		op = ast.ExprUnaryNeg
	case token.Plus:
		op = ast.ExprUnaryPlus
	case token.Bang:
		op = ast.ExprUnaryNot
	default:
		return p.parsePrimary()
	}
	opTok := p.advance()
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	span := opTok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(span, op, operand), true
}

// parsePrimary: идентификатор, вызов, число или `( expr )`.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			call, ok := p.parseCallTail(tok)
			return call, ok
		}
		return p.arenas.Exprs.NewIdent(tok.Span, tok.Text), true

	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewNumber(tok.Span, ast.ExprNumberInt, tok.Text), true

	case token.FloatLit:
		p.advance()
		return p.arenas.Exprs.NewNumber(tok.Span, ast.ExprNumberFloat, tok.Text), true

	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(open.Span.Cover(p.lastSpan), inner), true

	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
		return ast.NoExprID, false
	}
}

// parseCallTail разбирает `( args )` после уже съеденного имени функции.
func (p *Parser) parseCallTail(nameTok token.Token) (ast.ExprID, bool) {
	lparen := p.advance()
	data := ast.ExprCallData{
		Callee:     nameTok.Text,
		CalleeSpan: nameTok.Span,
		ArgsSpan:   source.Span{File: lparen.Span.File, Start: lparen.Span.End, End: lparen.Span.End},
	}
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			data.Args = append(data.Args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		first := p.arenas.Exprs.Get(data.Args[0]).Span
		last := p.arenas.Exprs.Get(data.Args[len(data.Args)-1]).Span
		data.ArgsSpan = first.Cover(last)
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close call"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewCall(nameTok.Span.Cover(p.lastSpan), data), true
}
