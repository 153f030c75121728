package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `int g;
int main() {
    int x;
    x = 1;
    return x;
}
`

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeSource(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "prog.c")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMissingArgumentPrintsUsage(t *testing.T) {
	stdout, stderr, err := execute(t)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if stdout != "" {
		t.Fatalf("stdout = %q, want nothing", stdout)
	}
	if stderr != usageLine+"\n" {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestFullRunWritesBothOutputs(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, sample)
	livePath := filepath.Join(dir, "live.txt")

	stdout, _, err := execute(t, "--color", "off", "-o", livePath, src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "# Control Flow Graph\n") || !strings.Contains(stdout, "@main_B0\n{\n    int x;") {
		t.Fatalf("unexpected CFG output:\n%s", stdout)
	}
	live, err := os.ReadFile(livePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(live) != "B0-IN: x\nB0-OUT: ;\n" {
		t.Fatalf("liveness = %q", live)
	}
}

func TestUnwritableLivenessPathPrintsNoCFG(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, sample)
	livePath := filepath.Join(dir, "missing", "live.txt")

	stdout, _, err := execute(t, "--color", "off", "--no-cache", "-o", livePath, src)
	if err == nil {
		t.Fatal("expected write error")
	}
	if stdout != "" {
		t.Fatalf("stdout = %q, want nothing", stdout)
	}
}

func TestFullRunLivenessToStdoutFollowsCFG(t *testing.T) {
	src := writeSource(t, t.TempDir(), sample)
	stdout, _, err := execute(t, "--color", "off", "--no-cache", "-o", "-", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "# Control Flow Graph\n") || !strings.HasSuffix(stdout, "B0-IN: x\nB0-OUT: ;\n") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestConfigFileSetsLivenessPath(t *testing.T) {
	dir := t.TempDir()
	livePath := filepath.Join(dir, "from-config.txt")
	config := "[output]\nliveness = " + strconvQuote(livePath) + "\n[cache]\nenabled = false\n"
	if err := os.WriteFile(filepath.Join(dir, "cfa.toml"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	src := writeSource(t, dir, sample)

	if _, _, err := execute(t, "--color", "off", src); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(livePath); err != nil {
		t.Fatalf("liveness file from cfa.toml not written: %v", err)
	}
}

func TestSourceErrorsProduceNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "int main() { x = ; }\n")
	livePath := filepath.Join(dir, "live.txt")

	stdout, stderr, err := execute(t, "--color", "off", "-o", livePath, src)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if stdout != "" {
		t.Fatalf("stdout = %q, want nothing", stdout)
	}
	if !strings.Contains(stderr, "prog.c:1:") {
		t.Fatalf("stderr lacks diagnostic location:\n%s", stderr)
	}
	if _, statErr := os.Stat(livePath); !os.IsNotExist(statErr) {
		t.Fatal("liveness file must not be written")
	}
}

func TestCFGCommandRaw(t *testing.T) {
	src := writeSource(t, t.TempDir(), `int f(int a) {
    while (a) {
        a = a - 1;
    }
    return a;
}
`)
	stdout, _, err := execute(t, "cfg", "--raw", "--no-cache", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "@FOLLOW_BLOCK@") {
		t.Fatalf("raw dump must keep placeholders:\n%s", stdout)
	}
}

func TestLivenessCommandToStdout(t *testing.T) {
	src := writeSource(t, t.TempDir(), sample)
	stdout, _, err := execute(t, "liveness", "--jobs", "2", src)
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "B0-IN: x\nB0-OUT: ;\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestTimingsGoToStderr(t *testing.T) {
	src := writeSource(t, t.TempDir(), sample)
	stdout, stderr, err := execute(t, "cfg", "--timings", "--no-cache", src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stdout, "ms") {
		t.Fatal("timings leaked into stdout")
	}
	if !strings.Contains(stderr, "parsed ") || !strings.Contains(stderr, "built ") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestTraceToStderr(t *testing.T) {
	src := writeSource(t, t.TempDir(), sample)
	_, stderr, err := execute(t, "cfg", "--no-cache", "--trace", "-", "--trace-level", "detail", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "main") {
		t.Fatalf("trace output lacks function span:\n%s", stderr)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "cfa" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestCacheClean(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	config := "[cache]\ndir = \"cache\"\n"
	if err := os.WriteFile(filepath.Join(dir, "cfa.toml"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	src := writeSource(t, dir, sample)
	if _, _, err := execute(t, "cfg", src); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "results")); err != nil {
		t.Fatalf("cache not populated: %v", err)
	}

	stdout, _, err := execute(t, "cache", "clean", dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "removed ") {
		t.Fatalf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "results")); !os.IsNotExist(err) {
		t.Fatal("cache results must be gone")
	}
}

func TestInvalidFlagValues(t *testing.T) {
	src := writeSource(t, t.TempDir(), sample)
	tests := [][]string{
		{"--color", "sometimes", src},
		{"--ui", "maybe", src},
		{"--diagnostics-format", "xml", src},
		{"--trace-level", "loud", src},
	}
	for _, args := range tests {
		if _, _, err := execute(t, args...); err == nil || errors.Is(err, errReported) {
			t.Errorf("%v: err = %v, want a flag error", args, err)
		}
	}
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, sample)
	cpu := filepath.Join(dir, "cpu.pprof")
	if _, _, err := execute(t, "cfg", "--no-cache", "--cpu-profile", cpu, src); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cpu); err != nil {
		t.Fatalf("cpu profile not written: %v", err)
	}
}
