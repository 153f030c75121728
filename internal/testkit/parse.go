package testkit

import (
	"context"
	"testing"

	"cfa/internal/ast"
	"cfa/internal/cfg"
	"cfa/internal/diag"
	"cfa/internal/lexer"
	"cfa/internal/parser"
	"cfa/internal/source"
)

// ParseSource parses input as a virtual file named prog.c and fails the test
// on any diagnostic.
func ParseSource(t testing.TB, input string) cfg.Source {
	t.Helper()
	src, bag := ParseSourceDiag(input)
	if bag.Len() > 0 {
		for _, d := range bag.Items() {
			t.Errorf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
		}
		t.FailNow()
	}
	if err := CheckSpanInvariants(src.AST, src.File, src.Text); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return src
}

// ParseSourceDiag parses input and returns the diagnostics instead of failing.
func ParseSourceDiag(input string) (cfg.Source, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("prog.c", []byte(input)))

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(context.Background(), lx, builder, parser.Options{MaxErrors: 100, Reporter: reporter})
	return cfg.Source{AST: builder, File: res.File, Text: file}, bag
}

// BuildSimplified parses input, builds every function and simplifies it.
func BuildSimplified(t testing.TB, input string) *cfg.Program {
	t.Helper()
	prog, err := cfg.Build(ParseSource(t, input))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, f := range prog.Funcs {
		if err := cfg.Simplify(f); err != nil {
			t.Fatalf("simplify: %v", err)
		}
		if err := CheckCFG(f); err != nil {
			t.Fatalf("cfg invariants: %v", err)
		}
	}
	return prog
}

// FuncByName returns the function with the given name or fails the test.
func FuncByName(t testing.TB, p *cfg.Program, name string) *cfg.Func {
	t.Helper()
	for _, f := range p.Funcs {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}
