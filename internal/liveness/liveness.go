package liveness

import (
	"cfa/internal/cfg"
)

// Result holds IN/OUT sets indexed by BlockID.
type Result struct {
	Func *cfg.Func
	In   []cfg.VarSet
	Out  []cfg.VarSet
	// Iterations counts worklist dequeues.
	Iterations int
}

// Analyze solves
//
//	OUT[B] = ⋃ IN[S] over successors S
//	IN[B]  = USE[B] ∪ (OUT[B] − DEF[B])
//
// for every non-sentinel block. Entry and exit keep empty sets.
func Analyze(f *cfg.Func) *Result {
	r := &Result{
		Func: f,
		In:   make([]cfg.VarSet, len(f.Blocks)),
		Out:  make([]cfg.VarSet, len(f.Blocks)),
	}
	for i := range f.Blocks {
		r.In[i] = cfg.VarSet{}
		r.Out[i] = cfg.VarSet{}
	}

	wl := newWorklist(f, Postorder(f))
	for i := range f.Blocks {
		if f.Blocks[i].Kind == cfg.BlockNormal && !f.Blocks[i].Dead() {
			wl.push(f.Blocks[i].ID)
		}
	}

	for wl.Len() > 0 {
		id := wl.pop()
		r.Iterations++
		b := f.Block(id)

		out := cfg.VarSet{}
		for _, s := range b.Succs {
			out = unionSet(out, r.In[s])
		}
		r.Out[id] = out

		in := unionSet(cloneSet(b.Use), subtractSet(out, b.Def))
		if setEqual(in, r.In[id]) {
			continue
		}
		r.In[id] = in
		for _, p := range b.Preds {
			if p != f.Entry {
				wl.push(p)
			}
		}
	}
	return r
}

// LiveIn returns IN[id] sorted.
func (r *Result) LiveIn(id cfg.BlockID) []string {
	return r.In[id].Sorted()
}

// LiveOut returns OUT[id] sorted.
func (r *Result) LiveOut(id cfg.BlockID) []string {
	return r.Out[id].Sorted()
}
