package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"cfa/internal/pipeline"
)

func TestApplyEventTracksFunctions(t *testing.T) {
	m := newProgressModel("prog.c", []string{"main", "helper", "main"}, nil)
	if len(m.items) != 2 {
		t.Fatalf("items = %d, want duplicates collapsed to 2", len(m.items))
	}

	m.applyEvent(pipeline.Event{Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	if m.stageLabel != "parsing" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}

	m.applyEvent(pipeline.Event{Item: "main", Stage: pipeline.StageSimplify, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{Item: "helper", Stage: pipeline.StageEmit, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{Item: "unknown", Stage: pipeline.StageBuild, Status: pipeline.StatusWorking})

	if len(m.items) != 2 {
		t.Fatalf("a working event must not register %q", "unknown")
	}
	if m.items[0].status != "simplifying" || m.items[1].status != "done" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if got := m.percent(); got != 0.75 {
		t.Fatalf("percent = %v, want 0.75", got)
	}
}

func TestQueuedEventRegistersFunction(t *testing.T) {
	m := newProgressModel("prog.c", nil, nil)
	if m.View() != "" {
		t.Fatal("empty model renders nothing")
	}
	m.applyEvent(pipeline.Event{Item: "f", Status: pipeline.StatusQueued})
	m.applyEvent(pipeline.Event{Item: "g", Stage: pipeline.StageEmit, Status: pipeline.StatusCached})
	if len(m.items) != 2 || m.items[0].status != "queued" || m.items[1].status != "cached" {
		t.Fatalf("items = %+v", m.items)
	}
}

func TestViewListsFunctions(t *testing.T) {
	m := newProgressModel("prog.c", []string{"main", strings.Repeat("x", 100)}, nil)
	m.applyEvent(pipeline.Event{Item: "main", Stage: pipeline.StageLiveness, Status: pipeline.StatusCached})
	view := m.View()
	for _, want := range []string{"prog.c", "main", "cached", "queued", "..."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan pipeline.Event)
	close(events)
	m := newProgressModel("prog.c", []string{"main"}, events)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T, want doneMsg", msg)
	}
	_, cmd := m.Update(msg)
	if !m.done || cmd == nil {
		t.Fatal("model must finish on doneMsg")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"main", 10, "main"},
		{"abcdefgh", 6, "abc..."},
		{"abcdefgh", 2, "ab"},
		{"test_nested_control_flow", 12, "test_nest..."},
		{"abcdefgh", 7, "abcd..."},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
