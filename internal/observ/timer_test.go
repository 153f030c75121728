package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAccumulatesConcurrently(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("analyze")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("liveness", time.Millisecond)
		}()
	}
	wg.Wait()
	tm.End(idx, "8 functions")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %+v", rep.Phases)
	}
	live := rep.Phases[1]
	if live.Name != "liveness" || live.Count != 8 || live.DurationMS != 8 {
		t.Fatalf("liveness phase = %+v", live)
	}
	if rep.TotalMS != rep.Phases[0].DurationMS {
		t.Fatalf("total %v must only count top-level phases (%v)", rep.TotalMS, rep.Phases[0].DurationMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "// 8 functions") || !strings.HasPrefix(s, "timings:\n") {
		t.Fatalf("summary = %q", s)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("report = %+v", got)
	}
}
