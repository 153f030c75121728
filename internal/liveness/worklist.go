package liveness

import (
	"container/heap"

	"cfa/internal/cfg"
)

// worklist is a priority queue of blocks ordered by postorder index,
// with O(1) membership checks.
type worklist struct {
	items  []cfg.BlockID
	rank   []int
	queued []bool
}

func newWorklist(f *cfg.Func, order []cfg.BlockID) *worklist {
	w := &worklist{
		rank:   make([]int, len(f.Blocks)),
		queued: make([]bool, len(f.Blocks)),
	}
	// блоки вне обхода идут первыми
	for i := range w.rank {
		w.rank[i] = -1
	}
	for i, id := range order {
		w.rank[id] = i
	}
	return w
}

func (w *worklist) Len() int { return len(w.items) }

func (w *worklist) Less(i, j int) bool {
	ri, rj := w.rank[w.items[i]], w.rank[w.items[j]]
	if ri != rj {
		return ri < rj
	}
	return w.items[i] < w.items[j]
}

func (w *worklist) Swap(i, j int) { w.items[i], w.items[j] = w.items[j], w.items[i] }

func (w *worklist) Push(x any) { w.items = append(w.items, x.(cfg.BlockID)) }

func (w *worklist) Pop() any {
	n := len(w.items)
	id := w.items[n-1]
	w.items = w.items[:n-1]
	return id
}

func (w *worklist) push(id cfg.BlockID) {
	if w.queued[id] {
		return
	}
	w.queued[id] = true
	heap.Push(w, id)
}

func (w *worklist) pop() cfg.BlockID {
	id := heap.Pop(w).(cfg.BlockID)
	w.queued[id] = false
	return id
}
