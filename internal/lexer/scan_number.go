package lexer

import (
	"cfa/internal/diag"
	"cfa/internal/token"
)

// Поддержка: 0, 123, 0x1F, 1.0, .5, 1., 1e-3, 1.0e+10, суффиксы f/F/l/L/u/U.
// Неверные формы — репорт, токен завершаем как Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		lx.skipDigits()
		return lx.finishNumber(start, kind)
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		if !isHex(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected hex digit after '0x'")
		}
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.finishSuffix(start, kind)
	}

	lx.skipDigits()
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		lx.skipDigits()
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) skipDigits() {
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// экспонента и суффиксы
func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after exponent")
		}
		lx.skipDigits()
	}
	return lx.finishSuffix(start, kind)
}

func (lx *Lexer) finishSuffix(start Mark, kind token.Kind) token.Token {
	for {
		switch lx.cursor.Peek() {
		case 'f', 'F':
			kind = token.FloatLit
			lx.cursor.Bump()
			continue
		case 'l', 'L', 'u', 'U':
			lx.cursor.Bump()
			continue
		}
		break
	}
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.badNumber(start, "invalid suffix on number literal")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
