package liveness

import "cfa/internal/cfg"

// Postorder returns blocks in DFS postorder from entry over successor edges.
// Exit is appended when the DFS did not reach it.
func Postorder(f *cfg.Func) []cfg.BlockID {
	visited := make([]bool, len(f.Blocks))
	order := make([]cfg.BlockID, 0, len(f.Blocks))

	var visit func(id cfg.BlockID)
	visit = func(id cfg.BlockID) {
		b := f.Block(id)
		if b == nil || visited[id] {
			return
		}
		visited[id] = true
		for _, s := range b.Succs {
			visit(s)
		}
		order = append(order, id)
	}

	visit(f.Entry)
	if f.Exit != cfg.NoBlockID {
		visit(f.Exit)
	}
	return order
}
