package driver

import (
	"context"

	"fortio.org/safecast"

	"cfa/internal/ast"
	"cfa/internal/cfg"
	"cfa/internal/diag"
	"cfa/internal/lexer"
	"cfa/internal/parser"
	"cfa/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Source returns the parsed unit in the form the CFG builder consumes.
func (r *ParseResult) Source() cfg.Source {
	return cfg.Source{AST: r.Builder, File: r.FileID, Text: r.File}
}

// Parse loads filePath and parses it. Only I/O failures are returned as errors;
// lexer and parser problems end up in the Bag.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	return parseLoaded(ctx, fs, fileID, maxDiagnostics)
}

// ParseBytes parses in-memory content registered under name.
func ParseBytes(ctx context.Context, name string, content []byte, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	return parseLoaded(ctx, fs, fs.AddVirtual(name, content), maxDiagnostics)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, maxDiagnostics int) (*ParseResult, error) {
	file := fs.Get(fileID)

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	opts := parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	}
	result := parser.ParseFile(ctx, lx, builder, opts)

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}
