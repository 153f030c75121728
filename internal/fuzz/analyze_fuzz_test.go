package fuzztests

import (
	"context"
	"strings"
	"testing"
	"time"

	"cfa/internal/cfg"
	"cfa/internal/liveness"
	"cfa/internal/testkit"
)

// analyzeTimeout is the maximum time allowed for one input.
// Exceeding it points at an infinite loop in parser recovery or the solver.
const analyzeTimeout = 5 * time.Second

// FuzzAnalyzeInvariants runs the whole pipeline on every cleanly parsed input
// and checks the graph and dataflow invariants.
func FuzzAnalyzeInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		done := make(chan string, 1)
		go func() {
			done <- analyze(string(input))
		}()

		select {
		case failure := <-done:
			if failure != "" {
				t.Fatalf("%s\ninput (%d bytes): %q", failure, len(input), truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("analysis hang detected after %v\ninput (%d bytes): %q",
				analyzeTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// analyze returns a failure description, or "" when every invariant holds.
func analyze(input string) string {
	src, bag := testkit.ParseSourceDiag(input)
	if bag.HasErrors() {
		return ""
	}
	prog, err := cfg.Build(src)
	if err != nil {
		return "build failed on clean parse: " + err.Error()
	}
	for _, f := range prog.Funcs {
		if err := cfg.Simplify(f); err != nil {
			return "simplify: " + err.Error()
		}
		if err := testkit.CheckCFG(f); err != nil {
			return "cfg invariants: " + err.Error()
		}
		before := dumpFunc(f)
		if err := cfg.Simplify(f); err != nil {
			return "second simplify: " + err.Error()
		}
		if after := dumpFunc(f); after != before {
			return "simplify is not idempotent for " + f.Name
		}
		if err := liveness.Verify(liveness.Analyze(f)); err != nil {
			return err.Error()
		}
	}
	return ""
}

func dumpFunc(f *cfg.Func) string {
	var sb strings.Builder
	_ = cfg.DumpFunc(&sb, f, cfg.DumpOptions{DefUse: true})
	return sb.String()
}
