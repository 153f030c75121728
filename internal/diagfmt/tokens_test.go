package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"cfa/internal/lexer"
	"cfa/internal/source"
)

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.c", []byte("x = 1; // c\n")))
	toks := lexer.New(file, lexer.Options{}).All()

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"x" at 1:1-1:2`) {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[4], "leading: space, line_comment, newline") {
		t.Errorf("eof line = %q", lines[4])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.c", []byte("f(a);")))
	toks := lexer.New(file, lexer.Options{}).All()

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"text": "f"`) {
		t.Fatalf("json = %s", buf.String())
	}
}
