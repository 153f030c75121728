package cfg

import (
	"fmt"
	"strings"

	"cfa/internal/ast"
	"cfa/internal/source"
)

// Source bundles a parsed translation unit with the file its spans point into.
type Source struct {
	AST  *ast.Builder
	File ast.FileID
	Text *source.File
}

func (s Source) text(sp source.Span) string {
	return strings.TrimSpace(s.Text.Text(sp))
}

// Outline lists the pieces of a translation unit in output order.
type Outline struct {
	Globals []string
	Funcs   []ast.ItemID
	// Redefined holds function items whose name was already taken;
	// each of them replaced the earlier definition in place.
	Redefined []ast.ItemID
}

// OutlineOf splits the top-level items into global declarations and functions.
func OutlineOf(src Source) (Outline, error) {
	var out Outline
	file := src.AST.Files.Get(src.File)
	if file == nil {
		return out, fmt.Errorf("%w: file %d not found", ErrMalformed, src.File)
	}
	byName := make(map[string]int)
	for _, itemID := range file.Items {
		item := src.AST.Items.Get(itemID)
		if item == nil {
			return out, fmt.Errorf("%w: item %d not found", ErrMalformed, itemID)
		}
		switch item.Kind {
		case ast.ItemDecl:
			out.Globals = append(out.Globals, src.text(item.Span))
		case ast.ItemFn:
			fn, ok := src.AST.Items.Fn(itemID)
			if !ok {
				return out, fmt.Errorf("%w: function item %d", ErrMalformed, itemID)
			}
			if idx, seen := byName[fn.Name]; seen {
				out.Funcs[idx] = itemID
				out.Redefined = append(out.Redefined, itemID)
				continue
			}
			byName[fn.Name] = len(out.Funcs)
			out.Funcs = append(out.Funcs, itemID)
		default:
			return out, fmt.Errorf("%w: unexpected item kind %d", ErrMalformed, item.Kind)
		}
	}
	return out, nil
}

// Build produces the draft (unsimplified) CFG of every function in src.
func Build(src Source) (*Program, error) {
	outline, err := OutlineOf(src)
	if err != nil {
		return nil, err
	}
	prog := &Program{Globals: outline.Globals}
	for _, itemID := range outline.Funcs {
		f, err := BuildFunc(src, itemID)
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, f)
	}
	return prog, nil
}

// funcBuilder is the per-function construction context.
type funcBuilder struct {
	src Source
	f   *Func
	cur BlockID // NoBlockID после return: текущего блока нет
}

// BuildFunc produces the draft CFG of a single function item.
func BuildFunc(src Source, itemID ast.ItemID) (*Func, error) {
	fn, ok := src.AST.Items.Fn(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: item %d is not a function", ErrMalformed, itemID)
	}
	args := ""
	if len(fn.Params) > 0 {
		args = src.text(fn.ParamsSpan)
	}

	fb := &funcBuilder{
		src: src,
		f:   NewFunc(fn.Name, fn.RetType.String(), args),
	}
	f := fb.f

	first := f.NewBlock()
	f.AddEdge(f.Entry, first)
	fb.cur = first

	entry := f.Block(f.Entry)
	for _, p := range fn.Params {
		f.Params = append(f.Params, p.Name)
		entry.Def.Add(p.Name)
	}

	if err := fb.stmt(fn.Body); err != nil {
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}
	fb.finish()
	return f, nil
}

// finish wires every dangling block with predecessors to exit.
func (fb *funcBuilder) finish() {
	f := fb.f
	for i := range f.Blocks {
		b := &f.Blocks[i]
		if b.ID == f.Exit {
			continue
		}
		if len(b.Succs) == 0 && len(b.Preds) > 0 {
			f.AddEdge(b.ID, f.Exit)
		}
	}
}

func (fb *funcBuilder) newBlock() BlockID {
	return fb.f.NewBlock()
}

func (fb *funcBuilder) curBlock() *Block {
	return fb.f.Block(fb.cur)
}

func (fb *funcBuilder) isTerminated() bool {
	return fb.cur == NoBlockID
}

// ensureBlock opens a fresh (unreachable) block when control fell off a return.
func (fb *funcBuilder) ensureBlock() *Block {
	if fb.isTerminated() {
		fb.cur = fb.newBlock()
	}
	return fb.curBlock()
}

// emit appends a statement to the current block and returns its index.
func (fb *funcBuilder) emit(st Stmt) int {
	b := fb.ensureBlock()
	st.Text = strings.TrimSpace(st.Text)
	b.Stmts = append(b.Stmts, st)
	return len(b.Stmts) - 1
}

// deferBranch records a pending branch of statement idx in block owner.
func (fb *funcBuilder) deferBranch(owner BlockID, idx int, role BranchRole, target BlockID) {
	fb.f.Deferred = append(fb.f.Deferred, DeferredEdge{
		Owner:  owner,
		Stmt:   idx,
		Role:   role,
		Target: target,
	})
}
