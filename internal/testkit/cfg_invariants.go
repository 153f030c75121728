package testkit

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cfa/internal/cfg"
)

var placeholders = []string{"@THEN_BLOCK@", "@ELSE_BLOCK@", "@FOLLOW_BLOCK@"}

// CheckCFG verifies the properties every simplified CFG must hold:
// 1) B ∈ succs(A) ⇔ A ∈ preds(B)
// 2) every block is reachable from entry
// 3) no statement text carries a placeholder token
// It also runs cfg.ValidateFunc.
func CheckCFG(f *cfg.Func) error {
	if f == nil {
		return errors.New("nil function")
	}
	var errs []error
	if err := cfg.ValidateFunc(f); err != nil {
		errs = append(errs, err)
	}

	order := f.Order()
	for _, id := range order {
		b := f.Block(id)
		for _, s := range b.Succs {
			if sb := f.Block(s); sb == nil || !slices.Contains(sb.Preds, id) {
				errs = append(errs, fmt.Errorf("%s -> %d: asymmetric edge", f.BlockName(id), s))
			}
		}
		for _, p := range b.Preds {
			if pb := f.Block(p); pb == nil || !slices.Contains(pb.Succs, id) {
				errs = append(errs, fmt.Errorf("%d -> %s: asymmetric edge", p, f.BlockName(id)))
			}
		}
		for i := range b.Stmts {
			text := b.Stmts[i].Render(f)
			for _, ph := range placeholders {
				if strings.Contains(text, ph) {
					errs = append(errs, fmt.Errorf("%s: dangling %s in %q", f.BlockName(id), ph, text))
				}
			}
		}
	}

	seen := map[cfg.BlockID]bool{f.Entry: true}
	stack := []cfg.BlockID{f.Entry}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range f.Block(id).Succs {
			if !seen[s] {
				seen[s] = true
				stack = append(stack, s)
			}
		}
	}
	for _, id := range order {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("%s unreachable from entry", f.BlockName(id)))
		}
	}
	return errors.Join(errs...)
}

// EdgeList renders the successor relation as "a->b" pairs using short block
// names, sorted. Handy for shape assertions.
func EdgeList(f *cfg.Func) []string {
	var out []string
	for _, id := range f.Order() {
		for _, s := range f.Block(id).Succs {
			out = append(out, f.ShortName(id)+"->"+f.ShortName(s))
		}
	}
	slices.Sort(out)
	return out
}
