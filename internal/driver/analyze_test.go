package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cfa/internal/diag"
	"cfa/internal/observ"
	"cfa/internal/pipeline"
	"cfa/internal/trace"
)

const twoFuncs = `int f(int a) {
    int x;
    if (a > 0) {
        x = 1;
    } else {
        x = 2;
    }
    return x;
}
void g(int n) {
    int i;
    i = 0;
    while (i < n) {
        i = i + 1;
    }
    return;
}
`

const twoFuncsLiveness = `B0-IN: a
B0-OUT: ;
B1-IN: ;
B1-OUT: x
B2-IN: x
B2-OUT: ;
B3-IN: ;
B3-OUT: x
B0-IN: n
B0-OUT: i, n
B1-IN: i, n
B1-OUT: i, n
B2-IN: i, n
B2-OUT: i, n
B3-IN: ;
B3-OUT: ;
`

func TestAnalyzeStraightLine(t *testing.T) {
	res, err := AnalyzeBytes(context.Background(), "prog.c", []byte(`int g;
int main() {
    int x;
    x = 1;
    return x;
}
`), Options{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	want := `# Control Flow Graph

@globals {
    int g;
}
Predecessors: -
Successors: -

@main_entry {
    name: main
    ret_type: int
    args: 
}
Predecessors: -
Successors: main_B0

@main_B0
{
    int x;
    x = 1;
    return x;
}
Predecessors: main_entry
Successors: main_exit

@main_exit
{
}
Predecessors: main_B0
Successors: -

`
	if res.CFGText != want {
		t.Fatalf("cfg mismatch:\n--- got ---\n%s\n--- want ---\n%s", res.CFGText, want)
	}
	if res.LivenessText != "B0-IN: x\nB0-OUT: ;\n" {
		t.Fatalf("liveness = %q", res.LivenessText)
	}
}

func TestAnalyzeOutputIndependentOfJobs(t *testing.T) {
	serial, err := AnalyzeBytes(context.Background(), "prog.c", []byte(twoFuncs), Options{Jobs: 1, Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if serial.LivenessText != twoFuncsLiveness {
		t.Fatalf("liveness mismatch:\n--- got ---\n%s\n--- want ---\n%s", serial.LivenessText, twoFuncsLiveness)
	}
	for range 5 {
		parallel, err := AnalyzeBytes(context.Background(), "prog.c", []byte(twoFuncs), Options{Jobs: 8, Verify: true})
		if err != nil {
			t.Fatal(err)
		}
		if parallel.CFGText != serial.CFGText || parallel.LivenessText != serial.LivenessText {
			t.Fatal("parallel run produced different output")
		}
	}
	if got := strings.Join(serial.Funcs, ","); got != "f,g" {
		t.Fatalf("funcs = %s", got)
	}
}

func TestAnalyzeSourceErrorsStopBeforeCFG(t *testing.T) {
	res, err := AnalyzeBytes(context.Background(), "bad.c", []byte("int main() { x = ; }\n"), Options{})
	if !errors.Is(err, ErrSourceErrors) {
		t.Fatalf("err = %v, want ErrSourceErrors", err)
	}
	if res == nil || !res.Parse.Bag.HasErrors() {
		t.Fatal("diagnostics must be kept in the result")
	}
	if res.Program != nil || res.CFGText != "" || res.LivenessText != "" {
		t.Fatal("no output expected after source errors")
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := Analyze(context.Background(), filepath.Join(t.TempDir(), "nope.c"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestAnalyzeRedefinitionWarns(t *testing.T) {
	res, err := AnalyzeBytes(context.Background(), "prog.c", []byte(`void f() { return; }
void g() { return; }
int f() { return 1; }
`), Options{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(res.Funcs, ","); got != "f,g" {
		t.Fatalf("funcs = %s", got)
	}
	items := res.Parse.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynDuplicateFunction || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %+v", items)
	}
	if !strings.Contains(res.CFGText, "ret_type: int\n    args: \n}\nPredecessors: -\nSuccessors: f_B0") {
		t.Fatalf("redefinition must replace the first f:\n%s", res.CFGText)
	}
}

func TestAnalyzeRawKeepsDraft(t *testing.T) {
	res, err := AnalyzeBytes(context.Background(), "prog.c", []byte(`int f(int a) {
    if (a) {
        a = 1;
    }
    return a;
}
`), Options{Raw: true, Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.CFGText, "@THEN_BLOCK@") {
		t.Fatalf("draft dump must keep placeholders:\n%s", res.CFGText)
	}
	if res.LivenessText != "" || res.Liveness != nil {
		t.Fatal("raw mode must not run liveness")
	}
}

func TestAnalyzeCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Verify: true, Cache: cache}

	first, err := AnalyzeBytes(context.Background(), "prog.c", []byte(twoFuncs), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first run cannot be cached")
	}

	var rec pipeline.RecordingSink
	opts.Progress = &rec
	second, err := AnalyzeBytes(context.Background(), "prog.c", []byte(twoFuncs), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.CFGText != first.CFGText || second.LivenessText != first.LivenessText {
		t.Fatal("second run must come from the cache with identical output")
	}
	cached := 0
	for _, ev := range rec.Events() {
		if ev.Status == pipeline.StatusCached {
			cached++
		}
	}
	if cached != 2 {
		t.Fatalf("cached events = %d, want 2", cached)
	}

	opts.DefUse = true
	third, err := AnalyzeBytes(context.Background(), "prog.c", []byte(twoFuncs), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Fatal("different options must miss the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("dropping a missing cache: %v", err)
	}
}

func TestAnalyzeReportsProgressAndTimings(t *testing.T) {
	var rec pipeline.RecordingSink
	timer := observ.NewTimer()
	ring := trace.NewRingTracer(256, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)

	res, err := AnalyzeBytes(ctx, "prog.c", []byte(twoFuncs), Options{Verify: true, Progress: &rec, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}

	done := map[string]bool{}
	for _, ev := range rec.Events() {
		if ev.Status == pipeline.StatusDone {
			done[ev.Item] = true
		}
	}
	if !done["f"] || !done["g"] {
		t.Fatalf("done events = %v", done)
	}

	names := map[string]bool{}
	for _, p := range timer.Report().Phases {
		names[p.Name] = true
	}
	for _, want := range []string{"build", "simplify", "liveness", "emit"} {
		if !names[want] {
			t.Errorf("timer missing phase %q", want)
		}
	}
	if !res.Timings.Has(pipeline.StageBuild) {
		t.Error("stage timings not recorded")
	}

	funcSpans := 0
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd && ev.Scope == trace.ScopeFunc {
			funcSpans++
			if ev.Extra["blocks"] == "" || ev.Extra["iterations"] == "" {
				t.Errorf("span %s lacks extras: %v", ev.Name, ev.Extra)
			}
		}
	}
	if funcSpans != 2 {
		t.Fatalf("func spans = %d, want 2", funcSpans)
	}
}

func TestAnalyzeTracesBlocksAtDebug(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := AnalyzeBytes(ctx, "prog.c", []byte(twoFuncs), Options{Verify: true}); err != nil {
		t.Fatal(err)
	}
	points := map[string]string{}
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindPoint && ev.Scope == trace.ScopeBlock {
			points[ev.Name] = ev.Extra["in"]
		}
	}
	if len(points) != 8 {
		t.Fatalf("block points = %v, want 8", points)
	}
	if points["g_B1"] != "i,n" {
		t.Fatalf("g_B1 in = %q", points["g_B1"])
	}
}

func TestAnalyzeUnifiesDecomposedIdentifiers(t *testing.T) {
	// объявлено с e + U+0301, используется с готовым U+00E9
	res, err := AnalyzeBytes(context.Background(), "prog.c",
		[]byte("int f() {\n    int cafe\u0301;\n    cafe\u0301 = 1;\n    return caf\u00e9;\n}\n"), Options{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.LivenessText != "B0-IN: caf\u00e9\nB0-OUT: ;\n" {
		t.Fatalf("liveness = %q", res.LivenessText)
	}
}

func TestTokenize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.c")
	if err := os.WriteFile(path, []byte("int x;"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := Tokenize(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tokens) != 4 {
		t.Fatalf("tokens = %d, want 4 (int, x, ;, EOF)", len(res.Tokens))
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", res.Bag.Len())
	}
}
