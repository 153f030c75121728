package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cfa/internal/ast"
	"cfa/internal/cfg"
	"cfa/internal/diag"
	"cfa/internal/liveness"
	"cfa/internal/observ"
	"cfa/internal/pipeline"
	"cfa/internal/project"
	"cfa/internal/trace"
)

// ErrSourceErrors is returned when the lexer or parser reported errors.
// The diagnostics are in Result.Parse.Bag; no CFG work has been done.
var ErrSourceErrors = errors.New("source has errors")

// DefaultMaxDiagnostics caps the diagnostics collected per run.
const DefaultMaxDiagnostics = 100

// Options configures Analyze.
type Options struct {
	// Jobs bounds the number of functions analysed at once; <= 0 means GOMAXPROCS.
	Jobs int
	// Raw keeps the draft CFG: no simplification and no liveness.
	Raw bool
	// DefUse adds USE/DEF lines to the CFG text.
	DefUse bool
	// Verify runs cfg.ValidateFunc and liveness.Verify on every function.
	Verify bool

	MaxDiagnostics int

	Cache    *DiskCache
	Progress pipeline.ProgressSink
	Timer    *observ.Timer
}

// Result is the outcome of one analysis run. CFGText and LivenessText are
// only filled when every function succeeded.
type Result struct {
	Parse    *ParseResult
	Program  *cfg.Program
	Liveness []*liveness.Result
	Funcs    []string

	CFGText      string
	LivenessText string

	Cached  bool
	Timings pipeline.Timings
}

// funcStats collects per-function stage durations; summed after the group finishes.
type funcStats struct {
	build, simplify, live time.Duration
}

// Analyze parses path and runs the CFG and liveness pipeline over every function.
func Analyze(ctx context.Context, path string, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	loadSpan := trace.Begin(tracer, trace.ScopePass, "parse", parent)
	phase := beginPhase(opts.Timer, "parse")
	pipeline.Emit(opts.Progress, pipeline.Event{Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	started := time.Now()
	parsed, err := Parse(ctx, path, maxDiagnostics(opts))
	if err != nil {
		loadSpan.End("load failed")
		endPhase(opts.Timer, phase, "load failed")
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	loadSpan.WithExtra("diagnostics", strconv.Itoa(parsed.Bag.Len())).End("")
	endPhase(opts.Timer, phase, "")
	return analyzeParsed(ctx, parsed, opts, time.Since(started))
}

// AnalyzeBytes is Analyze over in-memory content.
func AnalyzeBytes(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	started := time.Now()
	parsed, err := ParseBytes(ctx, name, content, maxDiagnostics(opts))
	if err != nil {
		return nil, err
	}
	return analyzeParsed(ctx, parsed, opts, time.Since(started))
}

func analyzeParsed(ctx context.Context, parsed *ParseResult, opts Options, parseDur time.Duration) (*Result, error) {
	res := &Result{Parse: parsed}
	res.Timings.Set(pipeline.StageParse, parseDur)
	if parsed.Bag.HasErrors() {
		pipeline.Emit(opts.Progress, pipeline.Event{Stage: pipeline.StageParse, Status: pipeline.StatusError, Err: ErrSourceErrors})
		return res, ErrSourceErrors
	}

	src := parsed.Source()
	outline, err := cfg.OutlineOf(src)
	if err != nil {
		return res, err
	}
	reportRedefinitions(parsed, outline)

	res.Funcs = make([]string, len(outline.Funcs))
	for i, itemID := range outline.Funcs {
		if fn, ok := src.AST.Items.Fn(itemID); ok {
			res.Funcs[i] = fn.Name
		}
	}

	var key project.Digest
	if opts.Cache != nil {
		key = CacheKey(parsed.File.Content, opts)
		var payload DiskPayload
		if ok, cacheErr := opts.Cache.Get(key, &payload); cacheErr == nil && ok {
			res.CFGText = payload.CFG
			res.LivenessText = payload.Liveness
			res.Cached = true
			for _, name := range res.Funcs {
				pipeline.Emit(opts.Progress, pipeline.Event{Item: name, Stage: pipeline.StageEmit, Status: pipeline.StatusCached})
			}
			return res, nil
		}
	}

	if err := runFuncs(ctx, src, outline, opts, res); err != nil {
		return res, err
	}

	emitStart := time.Now()
	phase := beginPhase(opts.Timer, "emit")
	var cfgText, liveText strings.Builder
	if err := cfg.DumpProgram(&cfgText, res.Program, cfg.DumpOptions{DefUse: opts.DefUse}); err != nil {
		return res, err
	}
	if !opts.Raw {
		if err := liveness.Dump(&liveText, res.Liveness); err != nil {
			return res, err
		}
	}
	res.CFGText = cfgText.String()
	res.LivenessText = liveText.String()
	endPhase(opts.Timer, phase, "")
	res.Timings.Set(pipeline.StageEmit, time.Since(emitStart))

	if opts.Cache != nil {
		payload := &DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Path:        parsed.File.Path,
			ContentHash: parsed.File.Hash,
			Funcs:       res.Funcs,
			CFG:         res.CFGText,
			Liveness:    res.LivenessText,
		}
		// кэш best-effort: ошибка записи не ломает прогон
		_ = opts.Cache.Put(key, payload)
	}
	return res, nil
}

// runFuncs builds, simplifies and analyses every function. Results land at
// the function's index, so output order does not depend on scheduling.
func runFuncs(ctx context.Context, src cfg.Source, outline cfg.Outline, opts Options, res *Result) error {
	tracer := trace.FromContext(ctx)
	passSpan := trace.Begin(tracer, trace.ScopePass, "analyze", trace.CurrentSpan(ctx).SpanID)
	defer passSpan.End("")

	n := len(outline.Funcs)
	funcs := make([]*cfg.Func, n)
	lives := make([]*liveness.Result, n)
	stats := make([]funcStats, n)

	for _, name := range res.Funcs {
		pipeline.Emit(opts.Progress, pipeline.Event{Item: name, Status: pipeline.StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs(opts))
	for i, itemID := range outline.Funcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := res.Funcs[i]
			span := trace.Begin(tracer, trace.ScopeFunc, name, passSpan.ID())
			f, lr, err := analyzeFunc(src, itemID, name, opts, &stats[i])
			if err != nil {
				span.End(err.Error())
				pipeline.Emit(opts.Progress, pipeline.Event{Item: name, Stage: pipeline.StageBuild, Status: pipeline.StatusError, Err: err})
				return err
			}
			span.WithExtra("blocks", strconv.Itoa(f.LiveBlocks()))
			if lr != nil {
				span.WithExtra("iterations", strconv.Itoa(lr.Iterations))
				traceBlocks(tracer, span.ID(), lr)
			}
			elapsed := span.End("")
			funcs[i], lives[i] = f, lr
			pipeline.Emit(opts.Progress, pipeline.Event{Item: name, Stage: pipeline.StageEmit, Status: pipeline.StatusDone, Elapsed: elapsed})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	res.Program = &cfg.Program{Globals: outline.Globals, Funcs: funcs}
	if !opts.Raw {
		res.Liveness = lives
	}
	for _, s := range stats {
		res.Timings.Add(pipeline.StageBuild, s.build)
		res.Timings.Add(pipeline.StageSimplify, s.simplify)
		res.Timings.Add(pipeline.StageLiveness, s.live)
		addPhase(opts.Timer, "build", s.build)
		if !opts.Raw {
			addPhase(opts.Timer, "simplify", s.simplify)
			addPhase(opts.Timer, "liveness", s.live)
		}
	}
	return nil
}

func analyzeFunc(src cfg.Source, itemID ast.ItemID, name string, opts Options, st *funcStats) (*cfg.Func, *liveness.Result, error) {
	pipeline.Emit(opts.Progress, pipeline.Event{Item: name, Stage: pipeline.StageBuild, Status: pipeline.StatusWorking})
	t0 := time.Now()
	f, err := cfg.BuildFunc(src, itemID)
	st.build = time.Since(t0)
	if err != nil {
		return nil, nil, err
	}

	if !opts.Raw {
		pipeline.Emit(opts.Progress, pipeline.Event{Item: name, Stage: pipeline.StageSimplify, Status: pipeline.StatusWorking})
		t0 = time.Now()
		err = cfg.Simplify(f)
		st.simplify = time.Since(t0)
		if err != nil {
			return nil, nil, err
		}
	}
	if opts.Verify {
		if err := cfg.ValidateFunc(f); err != nil {
			return nil, nil, err
		}
	}
	if opts.Raw {
		return f, nil, nil
	}

	pipeline.Emit(opts.Progress, pipeline.Event{Item: name, Stage: pipeline.StageLiveness, Status: pipeline.StatusWorking})
	t0 = time.Now()
	lr := liveness.Analyze(f)
	st.live = time.Since(t0)
	if opts.Verify {
		if err := liveness.Verify(lr); err != nil {
			return nil, nil, err
		}
	}
	return f, lr, nil
}

// traceBlocks emits the IN/OUT sets of every normal block at debug level.
func traceBlocks(tracer trace.Tracer, parent uint64, lr *liveness.Result) {
	if !tracer.Level().ShouldEmit(trace.ScopeBlock) {
		return
	}
	f := lr.Func
	for _, id := range f.Order() {
		if f.Block(id).Kind != cfg.BlockNormal {
			continue
		}
		trace.Point(tracer, trace.ScopeBlock, f.BlockName(id), parent, map[string]string{
			"in":  strings.Join(lr.In[id].Sorted(), ","),
			"out": strings.Join(lr.Out[id].Sorted(), ","),
		})
	}
}

// reportRedefinitions warns about every function that replaced an earlier one.
func reportRedefinitions(parsed *ParseResult, outline cfg.Outline) {
	if len(outline.Redefined) == 0 {
		return
	}
	items := parsed.Builder.Items
	reporter := &diag.BagReporter{Bag: parsed.Bag}
	for _, itemID := range outline.Redefined {
		fn, ok := items.Fn(itemID)
		if !ok {
			continue
		}
		diag.ReportWarning(reporter, diag.SynDuplicateFunction, fn.NameSpan,
			fmt.Sprintf("function %s redefined; the earlier definition is replaced", fn.Name)).Emit()
	}
}

func jobs(opts Options) int {
	if opts.Jobs > 0 {
		return opts.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func maxDiagnostics(opts Options) int {
	if opts.MaxDiagnostics > 0 {
		return opts.MaxDiagnostics
	}
	return DefaultMaxDiagnostics
}

func beginPhase(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func endPhase(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}

func addPhase(t *observ.Timer, name string, d time.Duration) {
	if t != nil {
		t.Add(name, d)
	}
}
