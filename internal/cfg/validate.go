package cfg

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks CFG invariants of every function in the program.
// Returns error if any invariant is violated.
func Validate(p *Program) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, f := range p.Funcs {
		if err := ValidateFunc(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateFunc checks a single function. Simplified functions are additionally
// required to be fully reachable and free of unresolved branches.
func ValidateFunc(f *Func) error {
	if f == nil {
		return nil
	}

	var errs []error

	// 1. Sentinels
	if err := validateSentinels(f); err != nil {
		errs = append(errs, err)
	}

	// 2. Edges point to live blocks and are mirrored
	if err := validateEdges(f); err != nil {
		errs = append(errs, err)
	}

	if f.Simplified {
		// 3. Every block is reachable from entry
		if err := validateReachable(f); err != nil {
			errs = append(errs, err)
		}

		// 4. No placeholders are left and branches follow edges
		if err := validateBranches(f); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("function %s: %w", f.Name, errors.Join(errs...))
}

func validateSentinels(f *Func) error {
	var errs []error
	entry := f.Block(f.Entry)
	switch {
	case entry == nil || entry.dead:
		errs = append(errs, errors.New("entry block missing"))
	case entry.Kind != BlockEntry:
		errs = append(errs, fmt.Errorf("block %d is not an entry block", f.Entry))
	case len(entry.Preds) != 0:
		errs = append(errs, fmt.Errorf("%s has predecessors", f.BlockName(f.Entry)))
	}
	if f.Exit != NoBlockID {
		exit := f.Block(f.Exit)
		switch {
		case exit == nil || exit.dead:
			errs = append(errs, errors.New("exit block missing"))
		case exit.Kind != BlockExit:
			errs = append(errs, fmt.Errorf("block %d is not an exit block", f.Exit))
		case len(exit.Succs) != 0:
			errs = append(errs, fmt.Errorf("%s has successors", f.BlockName(f.Exit)))
		}
	}
	return errors.Join(errs...)
}

func validateEdges(f *Func) error {
	var errs []error
	live := func(id BlockID) bool {
		b := f.Block(id)
		return b != nil && !b.dead
	}
	for i := range f.Blocks {
		b := &f.Blocks[i]
		if b.dead {
			continue
		}
		if b.ID != BlockID(i) {
			errs = append(errs, fmt.Errorf("block at %d has id %d", i, b.ID))
		}
		name := f.BlockName(b.ID)
		for j, s := range b.Succs {
			if !live(s) {
				errs = append(errs, fmt.Errorf("%s: successor %d does not exist", name, s))
				continue
			}
			if slices.Contains(b.Succs[:j], s) {
				errs = append(errs, fmt.Errorf("%s: duplicate successor %s", name, f.BlockName(s)))
			}
			if !slices.Contains(f.Blocks[s].Preds, b.ID) {
				errs = append(errs, fmt.Errorf("%s -> %s: missing predecessor link", name, f.BlockName(s)))
			}
		}
		for j, p := range b.Preds {
			if !live(p) {
				errs = append(errs, fmt.Errorf("%s: predecessor %d does not exist", name, p))
				continue
			}
			if slices.Contains(b.Preds[:j], p) {
				errs = append(errs, fmt.Errorf("%s: duplicate predecessor %s", name, f.BlockName(p)))
			}
			if !slices.Contains(f.Blocks[p].Succs, b.ID) {
				errs = append(errs, fmt.Errorf("%s -> %s: missing successor link", f.BlockName(p), name))
			}
		}
	}
	return errors.Join(errs...)
}

func validateReachable(f *Func) error {
	var errs []error
	reachable := computeReachability(f)
	for i := range f.Blocks {
		if f.Blocks[i].dead {
			errs = append(errs, fmt.Errorf("block %d left as tombstone", i))
			continue
		}
		if !reachable[i] {
			errs = append(errs, fmt.Errorf("%s unreachable from entry", f.BlockName(BlockID(i))))
		}
	}
	return errors.Join(errs...)
}

func validateBranches(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		b := &f.Blocks[i]
		for j := range b.Stmts {
			st := &b.Stmts[j]
			for _, br := range st.Branches {
				if !br.Resolved {
					errs = append(errs, fmt.Errorf("%s: statement %d has unresolved %s branch",
						f.BlockName(b.ID), j, br.Role))
					continue
				}
				if f.Block(br.Target) == nil {
					errs = append(errs, fmt.Errorf("%s: %s branch targets missing block %d",
						f.BlockName(b.ID), br.Role, br.Target))
					continue
				}
				if !slices.Contains(b.Succs, br.Target) {
					errs = append(errs, fmt.Errorf("%s: %s branch target %s is not a successor",
						f.BlockName(b.ID), br.Role, f.BlockName(br.Target)))
				}
			}
		}
	}
	return errors.Join(errs...)
}
