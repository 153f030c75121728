package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"PHASE", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLevelScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeFunc) {
		t.Fatal("phase level must stop at passes")
	}
	if !LevelDetail.ShouldEmit(ScopeFunc) || LevelDetail.ShouldEmit(ScopeBlock) {
		t.Fatal("detail level must stop at functions")
	}
	if !LevelDebug.ShouldEmit(ScopeBlock) {
		t.Fatal("debug level emits everything")
	}
}

func TestStreamTextFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	parent := Begin(tr, ScopePass, "build", 0)
	child := Begin(tr, ScopeFunc, "func:main", parent.ID())
	child.WithExtra("blocks", "4").WithExtra("b_edges", "5").End("")
	Begin(tr, ScopeBlock, "step", child.ID()).End("")
	parent.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "← func:main {b_edges=5, blocks=4}") {
		t.Errorf("child end line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "← build (done)") {
		t.Errorf("parent end line = %q", lines[3])
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	snap := r.Snapshot()
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ","); got != "c,d,e" {
		t.Fatalf("snapshot = %s", got)
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatNDJSON), ring)
	Begin(m, ScopePass, "parse", 0).End("")

	if len(ring.Snapshot()) != 2 {
		t.Fatalf("ring got %d events", len(ring.Snapshot()))
	}
	if !strings.Contains(buf.String(), `"name":"parse"`) {
		t.Fatalf("stream output = %s", buf.String())
	}
}

func TestContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected nop tracer")
	}
	tr := NewRingTracer(1, LevelPhase)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer not propagated")
	}
	if Begin(Nop, ScopePass, "x", 0).ID() != 0 {
		t.Fatal("nop span must have zero id")
	}
}

func TestPointRespectsLevelAndIndents(t *testing.T) {
	var buf bytes.Buffer
	Point(NewStreamTracer(&buf, LevelDetail, FormatText), ScopeBlock, "main_B0", 1, nil)
	if buf.Len() != 0 {
		t.Fatalf("block point leaked at detail level: %q", buf.String())
	}

	Point(NewStreamTracer(&buf, LevelDebug, FormatText), ScopeBlock, "main_B0", 1, map[string]string{"in": "x", "out": ""})
	line := buf.String()
	if !strings.Contains(line, "]       • main_B0 {in=x, out=}") {
		t.Fatalf("point line = %q", line)
	}
}

func TestParseModeAndFormat(t *testing.T) {
	if m, err := ParseMode("RING"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if formatForPath("out.ndjson") != FormatNDJSON || formatForPath("-") != FormatText {
		t.Fatal("auto format picked by extension")
	}
}
