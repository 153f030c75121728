package parser

import (
	"context"
	"slices"

	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/lexer"
	"cfa/internal/source"
	"cfa/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile — входная точка для разбора одного файла.
// Разбор прерывается между top-level элементами, если ctx отменён.
func ParseFile(
	ctx context.Context,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.Files.New(lx.EmptySpan()),
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseItems(ctx)
	return Result{
		File:   p.file,
		Errors: p.opts.CurrentErrors,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems — основной цикл верхнего уровня: пока не EOF — parseItem.
func (p *Parser) parseItems(ctx context.Context) {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if ctx.Err() != nil || p.opts.Enough() {
			return
		}
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		p.arenas.PushItem(p.file, itemID)
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lx.Peek().Span)
}

// parseItem: `type ID (` — функция, иначе объявление глобальных переменных.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	if !p.lx.Peek().IsTypeKeyword() {
		p.err(diag.SynUnexpectedTopLvl, "expected declaration or function definition, got "+describe(p.lx.Peek()))
		return ast.NoItemID, false
	}
	start := p.lx.Peek().Span
	typ, typSpan := p.parseType()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after type")
	if !ok {
		return ast.NoItemID, false
	}
	if p.at(token.LParen) {
		return p.parseFnItem(start, typ, nameTok)
	}
	decl, ok := p.parseDeclRest(typ, typSpan, nameTok)
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewDecl(start.Cover(p.lastSpan), decl), true
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до ';', '}' или до типа, с которого начинается следующий элемент.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		tok := p.lx.Peek()
		if tok.IsTypeKeyword() {
			return
		}
		p.advance()
		if tok.Kind == token.Semicolon || tok.Kind == token.RBrace {
			return
		}
	}
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	return "\"" + tok.Text + "\""
}
