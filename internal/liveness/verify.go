package liveness

import (
	"errors"
	"fmt"
	"strings"

	"cfa/internal/cfg"
)

// Verify checks that the result satisfies the dataflow equations for every
// non-sentinel block.
func Verify(r *Result) error {
	if r == nil || r.Func == nil {
		return nil
	}
	f := r.Func
	var errs []error
	for _, id := range f.Order() {
		b := f.Block(id)
		if b.IsSentinel() {
			continue
		}
		out := cfg.VarSet{}
		for _, s := range b.Succs {
			out = unionSet(out, r.In[s])
		}
		if !setEqual(out, r.Out[id]) {
			errs = append(errs, fmt.Errorf("%s: OUT is [%s], want [%s]",
				f.BlockName(id), join(r.Out[id]), join(out)))
		}
		in := unionSet(cloneSet(b.Use), subtractSet(out, b.Def))
		if !setEqual(in, r.In[id]) {
			errs = append(errs, fmt.Errorf("%s: IN is [%s], want [%s]",
				f.BlockName(id), join(r.In[id]), join(in)))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("function %s: liveness not at fixed point: %w", f.Name, errors.Join(errs...))
}

func join(s cfg.VarSet) string {
	return strings.Join(s.Sorted(), ", ")
}
