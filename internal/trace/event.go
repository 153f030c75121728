package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant event, e.g. one block's liveness sets
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Smaller values are coarser.
type Scope uint8

const (
	// ScopeRun is one CLI invocation.
	ScopeRun Scope = iota + 1
	// ScopePass is a phase over the whole file: parse, analyze, emit.
	ScopePass
	// ScopeFunc is one function going through build, simplify and liveness.
	ScopeFunc
	// ScopeBlock is a single basic block.
	ScopeBlock
)

var scopeNames = [...]string{ScopeRun: "run", ScopePass: "pass", ScopeFunc: "func", ScopeBlock: "block"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// indent is the text-format prefix for the scope.
func (s Scope) indent() string {
	if s <= ScopeRun {
		return ""
	}
	return strings.Repeat("  ", int(s-ScopeRun))
}

// Level controls how deep tracing goes.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
// LevelError records nothing on its own; it only keeps a tracer alive.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeFunc
	case LevelDebug:
		return true
	}
	return false
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for the run span
	Name     string // pass name, function name or block id
	Detail   string
	Extra    map[string]string
}
