package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"cfa/internal/ast"
	"cfa/internal/diag"
	"cfa/internal/lexer"
	"cfa/internal/source"
)

type parsed struct {
	fs      *source.FileSet
	file    *source.File
	builder *ast.Builder
	root    ast.FileID
	bag     *diag.Bag
}

func parseSource(t *testing.T, input string) parsed {
	t.Helper()

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.c", []byte(input)))

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	result := ParseFile(context.Background(), lx, builder, Options{MaxErrors: 100, Reporter: reporter})
	return parsed{fs: fs, file: file, builder: builder, root: result.File, bag: bag}
}

func (p parsed) text(sp source.Span) string { return p.file.Text(sp) }

func (p parsed) fn(t *testing.T, idx int) *ast.FnItem {
	t.Helper()
	items := p.builder.Files.Get(p.root).Items
	if idx >= len(items) {
		t.Fatalf("item %d out of range (have %d)", idx, len(items))
	}
	fn, ok := p.builder.Items.Fn(items[idx])
	if !ok {
		t.Fatalf("item %d is not a function", idx)
	}
	return fn
}

func (p parsed) bodyStmts(t *testing.T, fn *ast.FnItem) []ast.StmtID {
	t.Helper()
	block, ok := p.builder.Stmts.Block(fn.Body)
	if !ok {
		t.Fatalf("function %s has no block body", fn.Name)
	}
	return block.Stmts
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}
