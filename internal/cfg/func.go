package cfg

import (
	"fmt"
	"slices"
	"strconv"

	"fortio.org/safecast"
)

// DeferredEdge records that statement Stmt of block Owner branches to Target
// under Role. Targets are draft ids until label resolution.
type DeferredEdge struct {
	Owner  BlockID
	Stmt   int
	Role   BranchRole
	Target BlockID
}

type Func struct {
	Name    string
	RetType string
	Args    string   // текст списка параметров как в исходнике
	Params  []string // имена параметров

	Blocks   []Block
	Entry    BlockID
	Exit     BlockID // NoBlockID если exit недостижим после упрощения
	Deferred []DeferredEdge

	Simplified bool

	nextNum int
}

// Program is the CFG of a whole translation unit.
type Program struct {
	Globals []string
	Funcs   []*Func
}

// NewFunc creates a function holding only the entry and exit sentinels.
func NewFunc(name, retType, args string) *Func {
	f := &Func{Name: name, RetType: retType, Args: args}
	f.Entry = f.addBlock(BlockEntry, NoNum)
	f.Exit = f.addBlock(BlockExit, NoNum)
	return f
}

func (f *Func) addBlock(kind BlockKind, num int) BlockID {
	raw, err := safecast.Conv[int32](len(f.Blocks))
	if err != nil {
		panic(fmt.Errorf("cfg: block id overflow: %w", err))
	}
	id := BlockID(raw)
	f.Blocks = append(f.Blocks, Block{ID: id, Kind: kind, Num: num})
	return id
}

// NewBlock appends a fresh block numbered by the function's counter.
func (f *Func) NewBlock() BlockID {
	id := f.addBlock(BlockNormal, f.nextNum)
	f.nextNum++
	return id
}

// Block returns the block with the given id or nil.
func (f *Func) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// AddEdge links from→to in both directions; repeated edges are ignored.
func (f *Func) AddEdge(from, to BlockID) {
	a, b := f.Block(from), f.Block(to)
	if a == nil || b == nil {
		return
	}
	a.Succs = addUnique(a.Succs, to)
	b.Preds = addUnique(b.Preds, from)
}

// RemoveEdge unlinks from→to in both directions.
func (f *Func) RemoveEdge(from, to BlockID) {
	a, b := f.Block(from), f.Block(to)
	if a == nil || b == nil {
		return
	}
	a.Succs = removeID(a.Succs, to)
	b.Preds = removeID(b.Preds, from)
}

// BlockName returns the textual id: <name>_entry, <name>_exit or <name>_B<n>.
func (f *Func) BlockName(id BlockID) string {
	b := f.Block(id)
	if b == nil {
		return "<invalid>"
	}
	switch b.Kind {
	case BlockEntry:
		return f.Name + "_entry"
	case BlockExit:
		return f.Name + "_exit"
	default:
		return f.Name + "_B" + strconv.Itoa(b.Num)
	}
}

// ShortName is BlockName without the "<func>_" prefix.
func (f *Func) ShortName(id BlockID) string {
	return f.BlockName(id)[len(f.Name)+1:]
}

// Order returns live blocks as printed: entry, others by Num, exit.
func (f *Func) Order() []BlockID {
	out := make([]BlockID, 0, len(f.Blocks))
	for i := range f.Blocks {
		if !f.Blocks[i].dead {
			out = append(out, f.Blocks[i].ID)
		}
	}
	slices.SortStableFunc(out, func(a, b BlockID) int {
		return blockRank(&f.Blocks[a]) - blockRank(&f.Blocks[b])
	})
	return out
}

func blockRank(b *Block) int {
	switch b.Kind {
	case BlockEntry:
		return -1
	case BlockExit:
		return 1 << 30
	default:
		return b.Num
	}
}

// SortedNames renders ids as textual block ids in lexicographic order.
func (f *Func) SortedNames(ids []BlockID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, f.BlockName(id))
	}
	slices.Sort(names)
	return names
}

// LiveBlocks counts blocks that were not discarded.
func (f *Func) LiveBlocks() int {
	n := 0
	for i := range f.Blocks {
		if !f.Blocks[i].dead {
			n++
		}
	}
	return n
}
