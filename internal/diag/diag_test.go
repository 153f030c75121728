package diag

import (
	"testing"

	"cfa/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("/work/prog.c", []byte("a\nb\n"))

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SynVoidVariable,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error SYN2001 prog.c:1:1 first line second\n" +
		"note SYN2001 prog.c:2:1 note line\n" +
		"warning SYN2012 prog.c:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	bag := NewBag(3)
	r := BagReporter{Bag: bag}
	r.Report(SynExpectSemicolon, SevError, source.Span{Start: 10, End: 11}, "expected ';'", nil)
	r.Report(LexUnknownChar, SevError, source.Span{Start: 2, End: 3}, "unknown character", nil)
	r.Report(LexUnknownChar, SevError, source.Span{Start: 2, End: 3}, "unknown character", nil)
	r.Report(SynUnexpectedToken, SevError, source.Span{Start: 0, End: 1}, "dropped", nil)

	if bag.Len() != 3 {
		t.Fatalf("expected limit of 3 diagnostics, got %d", bag.Len())
	}
	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Code != LexUnknownChar || items[1].Code != SynExpectSemicolon {
		t.Errorf("unexpected order: %v, %v", items[0].Code, items[1].Code)
	}
	if !bag.HasErrors() || bag.ErrorCount() != 2 {
		t.Errorf("expected 2 errors, got %d", bag.ErrorCount())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	ReportError(r, SynExpectExpression, sp, "expected expression").Emit()
	ReportError(r, SynExpectExpression, sp, "expected expression").WithNote(sp, "here").Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexBadNumber, "LEX1003"},
		{SynForBadHeader, "SYN2008"},
		{IOLoadFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
