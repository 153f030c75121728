package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONOutput(t *testing.T) {
	bag, fs := sampleBag(t, "/tmp/prog.c")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2002" || d.Severity != "ERROR" {
		t.Errorf("code/severity = %s/%s", d.Code, d.Severity)
	}
	if d.Location.File != "prog.c" || d.Location.StartLine != 3 || d.Location.StartCol != 5 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 2 {
		t.Errorf("notes = %+v", d.Notes)
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	bag, fs := sampleBag(t, "prog.c")
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Fatal("notes included without IncludeNotes")
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatal("positions included without IncludePositions")
	}
}
