package lexer

import (
	"testing"

	"cfa/internal/source"
)

func newTestFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("cursor.c", []byte(content))
	return fs.Get(id)
}

func TestCursorPeekBump(t *testing.T) {
	c := NewCursor(newTestFile("ab"))
	if c.Peek() != 'a' {
		t.Fatalf("expected 'a', got %q", c.Peek())
	}
	b0, b1, ok := c.Peek2()
	if !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	m := c.Mark()
	c.Bump()
	c.Bump()
	if !c.EOF() || c.Bump() != 0 {
		t.Fatal("expected EOF after two bumps")
	}
	if sp := c.SpanFrom(m); sp.Start != 0 || sp.End != 2 {
		t.Errorf("unexpected span %v", sp)
	}
	c.Reset(m)
	if !c.Eat('a') || c.Eat('a') {
		t.Error("Eat mismatch")
	}
}

func TestCursorPeek2AtEnd(t *testing.T) {
	c := NewCursor(newTestFile("x"))
	if _, _, ok := c.Peek2(); ok {
		t.Error("Peek2 should fail with one byte left")
	}
}
