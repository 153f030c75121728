package cfg_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"cfa/internal/ast"
	"cfa/internal/cfg"
	"cfa/internal/source"
	"cfa/internal/testkit"
)

func dump(t *testing.T, p *cfg.Program, opts cfg.DumpOptions) string {
	t.Helper()
	var sb strings.Builder
	if err := cfg.DumpProgram(&sb, p, opts); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return sb.String()
}

func TestStraightLine(t *testing.T) {
	prog := testkit.BuildSimplified(t, `int g;
int main() {
    int x;
    x = 1;
    return x;
}
`)
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
	if got := dump(t, prog, cfg.DumpOptions{}); got != want {
		t.Fatalf("cfg mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestIfElseJoin(t *testing.T) {
	prog := testkit.BuildSimplified(t, `int f(int a) {
    int x;
    if (a > 0) {
        x = 1;
    } else {
        x = 2;
    }
    return x;
}
`)
	want := `# Control Flow Graph

@globals {
}
Predecessors: -
Successors: -

@f_entry {
    name: f
    ret_type: int
    args: int a
}
Predecessors: -
Successors: f_B0

@f_B0
{
    int x;
    if (a > 0) # then: f_B1
               # else: f_B3
}
Predecessors: f_entry
Successors: f_B1, f_B3

@f_B1
{
    x = 1;
}
Predecessors: f_B0
Successors: f_B2

@f_B2
{
    return x;
}
Predecessors: f_B1, f_B3
Successors: f_exit

@f_B3
{
    x = 2;
}
Predecessors: f_B0
Successors: f_B2

@f_exit
{
}
Predecessors: f_B2
Successors: -

`
	if got := dump(t, prog, cfg.DumpOptions{}); got != want {
		t.Fatalf("cfg mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestWhileLoopShape(t *testing.T) {
	prog := testkit.BuildSimplified(t, `void g(int n) {
    int i;
    i = 0;
    while (i < n) {
        i = i + 1;
    }
    return;
}
`)
	f := testkit.FuncByName(t, prog, "g")
	wantEdges := []string{"B0->B1", "B1->B2", "B1->B3", "B2->B1", "B3->exit", "entry->B0"}
	if got := testkit.EdgeList(f); !slices.Equal(got, wantEdges) {
		t.Fatalf("edges = %v, want %v", got, wantEdges)
	}

	cond := f.Block(f.Order()[2])
	if got := cond.Stmts[0].Render(f); got != "while (i < n) # loop_end: g_B3" {
		t.Fatalf("loop header = %q", got)
	}
	if got := cond.Use.Sorted(); !slices.Equal(got, []string{"i", "n"}) {
		t.Fatalf("cond use = %v", got)
	}
}

func TestIfWithoutElseEdgesToJoin(t *testing.T) {
	prog := testkit.BuildSimplified(t, `int h(int a) {
    int y;
    y = 0;
    if (a) {
        y = 1;
    }
    return y;
}
`)
	f := testkit.FuncByName(t, prog, "h")
	wantEdges := []string{"B0->B1", "B0->B2", "B1->B2", "B2->exit", "entry->B0"}
	if got := testkit.EdgeList(f); !slices.Equal(got, wantEdges) {
		t.Fatalf("edges = %v, want %v", got, wantEdges)
	}
	b0 := f.Block(f.Order()[1])
	if got := b0.Stmts[len(b0.Stmts)-1].Render(f); got != "if (a) # then: h_B1" {
		t.Fatalf("if header = %q", got)
	}
}

func TestForLoop(t *testing.T) {
	prog := testkit.BuildSimplified(t, `int s(int n) {
    int i, t;
    t = 0;
    for (i = 0; i < n; i = i + 1) {
        t = t + i;
    }
    return t;
}
`)
	f := testkit.FuncByName(t, prog, "s")
	order := f.Order()
	render := func(idx int) []string {
		b := f.Block(order[idx])
		out := make([]string, len(b.Stmts))
		for i := range b.Stmts {
			out[i] = b.Stmts[i].Render(f)
		}
		return out
	}
	tests := []struct {
		idx  int
		want []string
	}{
		{1, []string{"int i, t;", "t = 0;", "i = 0;"}},
		{2, []string{"for (i < n) # loop_end: s_B3"}},
		{3, []string{"t = t + i;", "i = i + 1;"}},
		{4, []string{"return t;"}},
	}
	for _, tt := range tests {
		if got := render(tt.idx); !slices.Equal(got, tt.want) {
			t.Errorf("block %s = %q, want %q", f.ShortName(order[tt.idx]), got, tt.want)
		}
	}
	wantEdges := []string{"B0->B1", "B1->B2", "B1->B3", "B2->B1", "B3->exit", "entry->B0"}
	if got := testkit.EdgeList(f); !slices.Equal(got, wantEdges) {
		t.Fatalf("edges = %v, want %v", got, wantEdges)
	}
	body := f.Block(order[3])
	if got := body.Def.Sorted(); !slices.Equal(got, []string{"i", "t"}) {
		t.Fatalf("body def = %v", got)
	}
}

func TestCallAnnotations(t *testing.T) {
	prog := testkit.BuildSimplified(t, `int add(int a, int b) { return a + b; }
int main() {
    int r;
    r = add(add(1, 2), 3);
    print(r);
    return add(r, r);
}
`)
	f := testkit.FuncByName(t, prog, "main")
	b0 := f.Block(f.Order()[1])
	want := []string{
		"int r;",
		"r = add(add(1, 2), 3); # call in expr: add -> add_entry # call in expr: add -> add_entry",
		"print(r); # call: print -> print_entry",
		"return add(r, r); # call in return: add -> add_entry",
	}
	for i, w := range want {
		if got := b0.Stmts[i].Render(f); got != w {
			t.Errorf("stmt %d = %q, want %q", i, got, w)
		}
	}
	if got := b0.Use.Sorted(); !slices.Equal(got, []string{"r"}) {
		t.Errorf("use = %v, callee names must not be uses", got)
	}

	add := testkit.FuncByName(t, prog, "add")
	entry := add.Block(add.Entry)
	if got := entry.Def.Sorted(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("entry def = %v, want params", got)
	}
	if add.Args != "int a, int b" {
		t.Errorf("args = %q", add.Args)
	}
}

func TestDeclInitializer(t *testing.T) {
	prog := testkit.BuildSimplified(t, `int k(int a) {
    int x = a + 1, y = sq(x);
    return y;
}
`)
	f := testkit.FuncByName(t, prog, "k")
	b0 := f.Block(f.Order()[1])
	if got, want := b0.Stmts[0].Render(f), "int x = a + 1, y = sq(x); # call in expr: sq -> sq_entry"; got != want {
		t.Fatalf("decl = %q, want %q", got, want)
	}
	if got := b0.Def.Sorted(); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("def = %v", got)
	}
	if got := b0.Use.Sorted(); !slices.Equal(got, []string{"a", "x", "y"}) {
		t.Errorf("use = %v", got)
	}
}

func TestOutlineRedefinitionKeepsPosition(t *testing.T) {
	src := testkit.ParseSource(t, `int f() { return 1; }
int g() { return 2; }
float h;
int f() { return 3; }
`)
	out, err := cfg.OutlineOf(src)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if len(out.Funcs) != 2 || len(out.Redefined) != 1 {
		t.Fatalf("funcs=%d redefined=%d", len(out.Funcs), len(out.Redefined))
	}
	if !slices.Equal(out.Globals, []string{"float h;"}) {
		t.Fatalf("globals = %q", out.Globals)
	}

	prog, err := cfg.Build(src)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if prog.Funcs[0].Name != "f" || prog.Funcs[1].Name != "g" {
		t.Fatalf("order = %s, %s", prog.Funcs[0].Name, prog.Funcs[1].Name)
	}
	b0 := prog.Funcs[0].Block(prog.Funcs[0].Order()[1])
	if got := b0.Stmts[0].Text; got != "return 3;" {
		t.Fatalf("f body = %q, want the later definition", got)
	}
}

func TestBuildMalformedBody(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	file := b.NewFile(source.Span{})
	fn := b.Items.NewFn(source.Span{}, ast.FnItem{Name: "broken", RetType: ast.TypeInt, Body: ast.NoStmtID})
	b.PushItem(file, fn)

	_, err := cfg.Build(cfg.Source{AST: b, File: file})
	if !errors.Is(err, cfg.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	if !strings.Contains(err.Error(), "function broken") {
		t.Fatalf("err = %v, want function context", err)
	}
}
