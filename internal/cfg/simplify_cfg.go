package cfg

import (
	"fmt"
	"slices"
)

// Simplify rewrites a draft CFG into its final form. Phases run strictly in order:
// 1. Merge empty single-successor blocks into their predecessors (to a fixed point)
// 2. Re-target pending branches past merged and empty blocks
// 3. Remove blocks unreachable from entry
// 4. Renumber blocks deterministically and compact the arena
// 5. Resolve branch labels to final block ids
//
// Simplify is idempotent.
func Simplify(f *Func) error {
	if f == nil || len(f.Blocks) == 0 {
		return nil
	}

	// Phase 1: merge empty blocks, remembering where each one went
	redirects := mergeEmptyBlocks(f)

	// Phase 2: pending branches follow the merges
	retargetDeferred(f, redirects)

	// Phase 3: drop what entry cannot reach
	removeDeadBlocks(f, computeReachability(f))

	// Phase 4: compact and renumber
	compactBlocks(f)

	// Phase 5: labels
	if err := resolveLabels(f); err != nil {
		return fmt.Errorf("function %s: %w", f.Name, err)
	}
	f.Simplified = true
	return nil
}

// isMergeable reports an empty non-sentinel block with at least one
// predecessor and exactly one successor other than itself.
func isMergeable(b *Block) bool {
	return !b.dead && b.Kind == BlockNormal && b.Empty() &&
		len(b.Preds) > 0 && len(b.Succs) == 1 && b.Succs[0] != b.ID
}

// mergeEmptyBlocks bypasses empty blocks until nothing changes and returns
// the redirect map deleted block → its successor at deletion time.
func mergeEmptyBlocks(f *Func) map[BlockID]BlockID {
	redirects := make(map[BlockID]BlockID)
	for changed := true; changed; {
		changed = false
		for i := range f.Blocks {
			b := &f.Blocks[i]
			if !isMergeable(b) {
				continue
			}
			succ := b.Succs[0]
			for _, p := range slices.Clone(b.Preds) {
				pred := &f.Blocks[p]
				pred.Succs = removeID(pred.Succs, b.ID)
				pred.Succs = addUnique(pred.Succs, succ)
				s := &f.Blocks[succ]
				s.Preds = addUnique(s.Preds, p)
			}
			s := &f.Blocks[succ]
			s.Preds = removeID(s.Preds, b.ID)
			// b сохраняет свои списки как в момент удаления
			b.dead = true
			redirects[b.ID] = succ
			changed = true
		}
	}
	return redirects
}

// resolveTarget follows redirects and then chains of empty single-successor
// blocks. It stops at entry, exit, or the first block that is non-empty or branches.
func resolveTarget(f *Func, redirects map[BlockID]BlockID, id BlockID) BlockID {
	visited := make(map[BlockID]bool)
	for !visited[id] {
		visited[id] = true
		if next, ok := redirects[id]; ok {
			id = next
			continue
		}
		b := f.Block(id)
		if b == nil || b.dead || b.IsSentinel() || !b.Empty() || len(b.Succs) != 1 {
			break
		}
		id = b.Succs[0]
	}
	return id
}

func retargetDeferred(f *Func, redirects map[BlockID]BlockID) {
	for i := range f.Deferred {
		d := &f.Deferred[i]
		d.Target = resolveTarget(f, redirects, d.Target)
	}
}

// computeReachability marks blocks reachable from entry over successor edges.
// Exit counts as reachable iff one of its predecessors is.
func computeReachability(f *Func) []bool {
	reachable := make([]bool, len(f.Blocks))
	queue := []BlockID{f.Entry}
	reachable[f.Entry] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, s := range f.Blocks[id].Succs {
			if !reachable[s] && !f.Blocks[s].dead {
				reachable[s] = true
				queue = append(queue, s)
			}
		}
	}
	if exit := f.Block(f.Exit); exit != nil && !exit.dead {
		reachable[f.Exit] = slices.ContainsFunc(exit.Preds, func(p BlockID) bool {
			return reachable[p]
		})
	}
	return reachable
}

func removeDeadBlocks(f *Func, reachable []bool) {
	for i := range f.Blocks {
		if !reachable[i] {
			f.Blocks[i].dead = true
		}
	}
	for i := range f.Blocks {
		b := &f.Blocks[i]
		if b.dead {
			continue
		}
		b.Preds = slices.DeleteFunc(b.Preds, func(p BlockID) bool { return !reachable[p] })
		b.Succs = slices.DeleteFunc(b.Succs, func(s BlockID) bool { return !reachable[s] })
	}
	f.Deferred = slices.DeleteFunc(f.Deferred, func(d DeferredEdge) bool {
		return !reachable[d.Owner]
	})
	if !reachable[f.Exit] {
		f.Exit = NoBlockID
	}
}

// compactBlocks drops dead blocks and renumbers the live ones in print order.
func compactBlocks(f *Func) {
	order := f.Order()
	oldToNew := make(map[BlockID]BlockID, len(order))
	for i, old := range order {
		oldToNew[old] = BlockID(i)
	}
	remap := func(id BlockID) BlockID {
		if newID, ok := oldToNew[id]; ok {
			return newID
		}
		return NoBlockID
	}
	remapList := func(ids []BlockID) []BlockID {
		out := make([]BlockID, 0, len(ids))
		for _, id := range ids {
			if n := remap(id); n != NoBlockID {
				out = append(out, n)
			}
		}
		return out
	}

	blocks := make([]Block, 0, len(order))
	num := 0
	for _, old := range order {
		b := f.Blocks[old]
		b.ID = remap(old)
		b.Preds = remapList(b.Preds)
		b.Succs = remapList(b.Succs)
		if b.Kind == BlockNormal {
			b.Num = num
			num++
		}
		blocks = append(blocks, b)
	}
	f.Blocks = blocks
	f.nextNum = num

	f.Entry = remap(f.Entry)
	if f.Exit != NoBlockID {
		f.Exit = remap(f.Exit)
	}
	for i := range f.Deferred {
		f.Deferred[i].Owner = remap(f.Deferred[i].Owner)
		f.Deferred[i].Target = remap(f.Deferred[i].Target)
	}
}

// resolveLabels writes every pending target into its statement's branch.
func resolveLabels(f *Func) error {
	for _, d := range f.Deferred {
		owner := f.Block(d.Owner)
		if owner == nil || d.Stmt < 0 || d.Stmt >= len(owner.Stmts) {
			return fmt.Errorf("%w: branch owner %d", ErrMalformed, d.Owner)
		}
		if f.Block(d.Target) == nil {
			return fmt.Errorf("%w: %s branch of %s lost its target",
				ErrMalformed, d.Role, f.BlockName(d.Owner))
		}
		br := owner.Stmts[d.Stmt].branch(d.Role)
		if br == nil {
			return fmt.Errorf("%w: %s has no %s branch", ErrMalformed, f.BlockName(d.Owner), d.Role)
		}
		br.Target = d.Target
		br.Resolved = true
	}
	return nil
}
